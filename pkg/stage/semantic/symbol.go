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
package semantic

import (
	"strings"

	"github.com/consensys/go-stager/pkg/stage/ast"
)

// Kind identifies what sort of entity a symbol declares.
type Kind uint8

const (
	// TYPE is an extern (or primitive) type.
	TYPE Kind = iota
	// METHOD is a method of an extern type.
	METHOD
	// FIELD is a field (or property) of an extern type.
	FIELD
	// TEMPLATE is a template member.
	TEMPLATE
	// PARAMETER is a parameter of a method, template or local function.
	PARAMETER
	// TYPE_PARAMETER is a type parameter of a type, method or template.
	TYPE_PARAMETER
	// LOCAL is a local variable (including foreach and query variables).
	LOCAL
	// LAMBDA_PARAMETER is a parameter of a lambda expression.
	LAMBDA_PARAMETER
	// LOCAL_FUNCTION is a function declared within a template body.
	LOCAL_FUNCTION
	// ANONYMOUS_MEMBER is a member of an anonymous object or a named tuple
	// element.
	ANONYMOUS_MEMBER
)

func (p Kind) String() string {
	switch p {
	case TYPE:
		return "type"
	case METHOD:
		return "method"
	case FIELD:
		return "field"
	case TEMPLATE:
		return "template"
	case PARAMETER:
		return "parameter"
	case TYPE_PARAMETER:
		return "type parameter"
	case LOCAL:
		return "local"
	case LAMBDA_PARAMETER:
		return "lambda parameter"
	case LOCAL_FUNCTION:
		return "local function"
	case ANONYMOUS_MEMBER:
		return "anonymous member"
	default:
		return "???"
	}
}

// Symbol represents a declared entity.  Symbols are compared by identity,
// never by name.
type Symbol struct {
	Kind Kind
	Name string
	// Declared type (for methods and functions, the return type).
	Type *Type
	// Enclosing type or method (if any).
	Owner *Symbol
	// Whether a method or field is static.
	Static bool
	// Position of a parameter within its owner's parameters.
	Index int
	// Parameters of a method or function.
	Params []*Symbol
	// Type parameters of a type, method or template.
	TypeParams []*Symbol
	// Attributes given in the declaration.
	Attributes []string
	// Members of a type, keyed by name.
	Members map[string]*Symbol
	// Declaring node (nil for primitive types).
	Decl ast.Node
}

// HasAttribute checks whether this symbol was declared with a given attribute.
func (p *Symbol) HasAttribute(name string) bool {
	return ast.HasAttribute(p.Attributes, name)
}

// IsLocal checks whether this symbol is declared within a template body, and
// hence whether its scope is determined by inference rather than declared.
func (p *Symbol) IsLocal() bool {
	switch p.Kind {
	case LOCAL, LAMBDA_PARAMETER, LOCAL_FUNCTION, ANONYMOUS_MEMBER:
		return true
	default:
		return false
	}
}

// IsLocalFunctionParameter checks whether this symbol is a parameter of a
// function declared within a template body.
func (p *Symbol) IsLocalFunctionParameter() bool {
	return p.Kind == PARAMETER && p.Owner != nil && p.Owner.Kind == LOCAL_FUNCTION
}

func (p *Symbol) String() string {
	if p.Owner != nil && (p.Kind == METHOD || p.Kind == FIELD) {
		return p.Owner.Name + "." + p.Name
	}
	//
	return p.Name
}

// Type describes the (static) type of an expression.
type Type struct {
	Name string
	// Generic arguments
	Args []*Type
	// Number of array dimensions
	Rank uint
	// The declaring type or type parameter (nil for anonymous types).
	Symbol *Symbol
	// Members of an anonymous type or named tuple, in order.
	Members []*Symbol
}

// Names used for primitive and built-in types.
const (
	VOID      = "void"
	DYNAMIC   = "dynamic"
	OBJECT    = "object"
	ANONYMOUS = "<anonymous>"
	TUPLE     = "<tuple>"
	LAMBDA    = "<lambda>"
)

// IsDynamic checks whether this is the dynamic type.
func (p *Type) IsDynamic() bool {
	return p != nil && p.Name == DYNAMIC && p.Rank == 0
}

// IsVoid checks whether this is the void type.
func (p *Type) IsVoid() bool {
	return p == nil || (p.Name == VOID && p.Rank == 0)
}

// IsTypeParameter checks whether this type refers to a type parameter.
func (p *Type) IsTypeParameter() bool {
	return p != nil && p.Symbol != nil && p.Symbol.Kind == TYPE_PARAMETER
}

// Member looks up a member of this type by name, returning the member along
// with its type (with any generic arguments substituted).
func (p *Type) Member(name string) (*Symbol, *Type) {
	if p == nil || p.Rank != 0 {
		return nil, nil
	}
	//
	for _, m := range p.Members {
		if m.Name == name {
			return m, m.Type
		}
	}
	//
	if p.Symbol == nil || p.Symbol.Kind != TYPE {
		return nil, nil
	}
	//
	if m, ok := p.Symbol.Members[name]; ok {
		return m, m.Type.Substitute(p.bindings())
	}
	//
	return nil, nil
}

// Element determines the type of the items of a sequence of this type (e.g.
// when iterated by foreach), or nil if it is not a sequence.
func (p *Type) Element() *Type {
	switch {
	case p == nil:
		return nil
	case p.IsDynamic():
		return p
	case p.Rank > 0:
		return &Type{p.Name, p.Args, p.Rank - 1, p.Symbol, nil}
	case p.Name == "string":
		return &Type{Name: "char"}
	case len(p.Args) == 1:
		return p.Args[0]
	default:
		return nil
	}
}

// Substitute the given types for type parameters within this type.
func (p *Type) Substitute(bindings map[*Symbol]*Type) *Type {
	if p == nil || len(bindings) == 0 {
		return p
	}
	//
	if t, ok := bindings[p.Symbol]; ok && p.IsTypeParameter() {
		if p.Rank == 0 {
			return t
		}
		//
		return &Type{t.Name, t.Args, t.Rank + p.Rank, t.Symbol, t.Members}
	}
	//
	var args = make([]*Type, len(p.Args))
	//
	for i, arg := range p.Args {
		args[i] = arg.Substitute(bindings)
	}
	//
	return &Type{p.Name, args, p.Rank, p.Symbol, p.Members}
}

func (p *Type) bindings() map[*Symbol]*Type {
	var bindings = make(map[*Symbol]*Type)
	//
	for i, tp := range p.Symbol.TypeParams {
		if i < len(p.Args) {
			bindings[tp] = p.Args[i]
		}
	}
	//
	return bindings
}

// Mentions checks whether this type mentions (anywhere within it) a type
// satisfying a given predicate.
func (p *Type) Mentions(predicate func(*Type) bool) bool {
	if p == nil {
		return false
	} else if predicate(p) {
		return true
	}
	//
	for _, arg := range p.Args {
		if arg.Mentions(predicate) {
			return true
		}
	}
	//
	return false
}

func (p *Type) String() string {
	if p == nil {
		return VOID
	}
	//
	var builder strings.Builder
	//
	builder.WriteString(p.Name)
	//
	if len(p.Args) > 0 {
		builder.WriteString("<")
		//
		for i, arg := range p.Args {
			if i != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(arg.String())
		}
		//
		builder.WriteString(">")
	}
	//
	for range p.Rank {
		builder.WriteString("[]")
	}
	//
	return builder.String()
}
