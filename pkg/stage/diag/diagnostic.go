// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package diag

import (
	"fmt"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/util/source"
)

// Severity determines whether a diagnostic prevents compilation from
// proceeding.
type Severity uint8

const (
	// ERROR signals a diagnostic which fails the enclosing member.
	ERROR Severity = iota
	// WARNING signals a diagnostic which does not.
	WARNING
)

func (p Severity) String() string {
	if p == ERROR {
		return "error"
	}
	//
	return "warning"
}

// Descriptor describes a kind of diagnostic, identified by a stable code.  The
// template is filled in with the arguments of each diagnostic.
type Descriptor struct {
	Code     string
	Severity Severity
	Template string
}

// The catalog of diagnostics reported whilst staging.
var (
	// ScopeMismatch is reported when an expression cannot have the scope
	// required by its context.
	ScopeMismatch = Descriptor{"STG0001", ERROR, "expression is %s but must be %s (%s)"}
	// CompileTimeMutation is reported when a compile-time local declared
	// outside a run-time-conditional block is modified inside it.
	CompileTimeMutation = Descriptor{"STG0002", ERROR,
		"compile-time local '%s' cannot be modified within a block conditioned on run-time %s"}
	// CompileTimeLoop is reported when a compile-time loop is entered inside a
	// run-time-conditional block.
	CompileTimeLoop = Descriptor{"STG0003", ERROR,
		"compile-time loop cannot be entered within a block conditioned on run-time %s"}
	// CompileTimeJump is reported when a compile-time break or continue crosses
	// a run-time-conditional block.
	CompileTimeJump = Descriptor{"STG0004", ERROR,
		"compile-time '%s' cannot leave a block conditioned on run-time %s"}
	// Unsupported is reported for constructs which cannot be staged.
	Unsupported = Descriptor{"STG0005", ERROR, "%s is not supported in templates"}
	// CompileTimeArgument is reported when a value of a compile-time-only type
	// is passed to a run-time method.
	CompileTimeArgument = Descriptor{"STG0006", ERROR,
		"value of compile-time type '%s' cannot be passed to run-time method '%s'"}
	// DynamicForbidden is reported for dynamic expressions in compile-time
	// positions.
	DynamicForbidden = Descriptor{"STG0007", ERROR, "dynamic expression is not permitted here (%s)"}
	// NotSerializable is reported when a compile-time value is needed at run
	// time, but its type cannot be reconstructed.
	NotSerializable = Descriptor{"STG0008", ERROR, "compile-time value of type '%s' cannot be used at run time"}
	// Unresolved is reported when the scope of a name cannot be determined.
	Unresolved = Descriptor{"STG0009", ERROR, "scope of '%s' cannot be determined"}
	// CombinationConflict is reported when the operands of an expression
	// require incompatible scopes.
	CombinationConflict = Descriptor{"STG0010", ERROR, "operands require both %s and %s evaluation"}
)

// Catalog returns every known descriptor, in order of code.
func Catalog() []Descriptor {
	return []Descriptor{ScopeMismatch, CompileTimeMutation, CompileTimeLoop, CompileTimeJump, Unsupported,
		CompileTimeArgument, DynamicForbidden, NotSerializable, Unresolved, CombinationConflict}
}

// Diagnostic is a single problem reported against a given node.
type Diagnostic struct {
	Descriptor
	// Arguments for the template
	Args []any
	// Node being blamed
	Node ast.NodeId
	// Location of the blamed node (if known)
	Location source.Location
}

// Message fills in the template of this diagnostic.
func (p Diagnostic) Message() string {
	return fmt.Sprintf(p.Template, p.Args...)
}

func (p Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", p.Location, p.Severity, p.Code, p.Message())
}

// Error allows a diagnostic to be used as an error.
func (p Diagnostic) Error() string {
	return p.String()
}
