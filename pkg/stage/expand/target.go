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
package expand

import (
	"fmt"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/lexical"
)

// Target describes the method to which a template is applied.  Compile-time
// code of the template observes the target through Meta.Target, and the
// generated code becomes its body.
type Target struct {
	Name       string
	ReturnType *ast.TypeRef
	Parameters []TargetParameter
	// Types bound to the type parameters of the template.
	TypeArguments map[string]*ast.TypeRef
}

// TargetParameter is a parameter of the target method.
type TargetParameter struct {
	Name string
	Type *ast.TypeRef
}

// NewTarget constructs a target with a given name and return type, but no
// parameters.
func NewTarget(name string, ret *ast.TypeRef) *Target {
	return &Target{name, ret, nil, make(map[string]*ast.TypeRef)}
}

// WithParameter adds a parameter to this target.
func (p *Target) WithParameter(name string, typ *ast.TypeRef) *Target {
	p.Parameters = append(p.Parameters, TargetParameter{name, typ})
	return p
}

// WithTypeArgument binds a type parameter of the template.
func (p *Target) WithTypeArgument(name string, typ *ast.TypeRef) *Target {
	p.TypeArguments[name] = typ
	return p
}

// Member constructs the method resulting from expanding a template onto this
// target, given the generated body.
func (p *Target) Member(arena *ast.Arena, body *ast.Block) *ast.Member {
	var params = make([]*ast.Parameter, len(p.Parameters))
	//
	for i, param := range p.Parameters {
		params[i] = arena.NewParameter(nil, copyType(arena, param.Type, 0), param.Name)
	}
	//
	return arena.NewMember(nil, false, copyType(arena, p.ReturnType, 0), p.Name, nil, params, body)
}

// Expansion holds the state of a single expansion, and is passed to the
// quotation function as its first argument.
type Expansion struct {
	target     *Target
	arena      *ast.Arena
	names      *lexical.NameTable
	serializer Serializer
	// Description of the target, as seen by compile-time code.
	method *Method
}

func newExpansion(target *Target, arena *ast.Arena, serializer Serializer) *Expansion {
	var names = make([]string, 0, len(target.Parameters)+1)
	//
	names = append(names, target.Name)
	//
	for _, param := range target.Parameters {
		names = append(names, param.Name)
	}
	//
	expansion := &Expansion{target, arena, lexical.NewNameTable(names...), serializer, nil}
	expansion.method = expansion.describe()
	//
	return expansion
}

// Target returns the target of this expansion.
func (p *Expansion) Target() *Target {
	return p.target
}

// FreshName chooses a name for the generated code, which is distinct from the
// parameters of the target and all other names chosen so far.
func (p *Expansion) FreshName(hint string) string {
	return p.names.Unique(hint)
}

// TypeArgument determines the type bound to a type parameter of the template,
// with a given number of additional array dimensions.
func (p *Expansion) TypeArgument(name string, rank uint) *ast.TypeRef {
	if typ, ok := p.target.TypeArguments[name]; ok {
		return copyType(p.arena, typ, rank)
	}
	//
	panic(&Error{fmt.Sprintf("type parameter '%s' is not bound", name)})
}

// Proceed constructs a call of the base implementation of the target.
func (p *Expansion) Proceed() ast.Expr {
	var args = make([]ast.Expr, len(p.target.Parameters))
	//
	for i, param := range p.target.Parameters {
		args[i] = p.arena.NewName(param.Name)
	}
	//
	callee := p.arena.NewMemberAccess(p.arena.NewName("base"), p.target.Name)
	//
	return p.arena.NewInvocation(callee, args...)
}

// Construct the description of the target seen by compile-time code.
func (p *Expansion) describe() *Method {
	var params = NewList(nil)
	//
	for i, param := range p.target.Parameters {
		params.Items = append(params.Items, &Parameter{param.Name, int64(i), &Type{param.Type}})
	}
	//
	return &Method{p.target.Name, &Type{p.target.ReturnType}, params}
}

// Copy a type reference into a given arena, adding some number of array
// dimensions.
func copyType(arena *ast.Arena, ref *ast.TypeRef, rank uint) *ast.TypeRef {
	if ref == nil {
		return nil
	}
	//
	var args = make([]*ast.TypeRef, len(ref.Args))
	//
	for i, arg := range ref.Args {
		args[i] = copyType(arena, arg, 0)
	}
	//
	return arena.NewTypeRef(ref.Name, ref.Rank+rank, args...)
}
