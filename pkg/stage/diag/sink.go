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
	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/util/source"
)

// Locator determines the source location of a node.
type Locator interface {
	Locate(ast.NodeId) source.Location
}

// Sink accumulates the diagnostics reported against the nodes of one member.
// At most one diagnostic of each kind is reported against a node and, since
// children are visited before their parents, a diagnostic is suppressed for
// any node which has a descendant already blamed for the same kind of problem.
// A sink is owned by the compilation of a single member.
type Sink struct {
	parents     map[ast.NodeId]ast.NodeId
	locator     Locator
	covered     map[blame]bool
	diagnostics []Diagnostic
}

type blame struct {
	node ast.NodeId
	code string
}

// NewSink constructs an empty sink for the tree rooted at a given node.
func NewSink(root ast.Node, locator Locator) *Sink {
	return &Sink{ast.Parents(root), locator, make(map[blame]bool), nil}
}

// Report a diagnostic of a given kind against a given node.  This returns
// false if the diagnostic was suppressed.
func (p *Sink) Report(node ast.Node, desc Descriptor, args ...any) bool {
	var (
		id       = node.Id()
		location source.Location
	)
	//
	if p.covered[blame{id, desc.Code}] {
		return false
	}
	// Mark this node and all of its ancestors.
	for n, ok := id, true; ok; n, ok = p.parents[n] {
		p.covered[blame{n, desc.Code}] = true
	}
	//
	if p.locator != nil {
		location = p.locator.Locate(id)
	}
	//
	p.diagnostics = append(p.diagnostics, Diagnostic{desc, args, id, location})
	//
	return true
}

// HasErrors checks whether any error (as opposed to warning) was reported.
func (p *Sink) HasErrors() bool {
	for _, d := range p.diagnostics {
		if d.Severity == ERROR {
			return true
		}
	}
	//
	return false
}

// Diagnostics returns the diagnostics reported so far, in order of reporting.
func (p *Sink) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// Codes returns the codes of the diagnostics reported so far, in order of
// reporting.
func (p *Sink) Codes() []string {
	var codes = make([]string, len(p.diagnostics))
	//
	for i, d := range p.diagnostics {
		codes[i] = d.Code
	}
	//
	return codes
}
