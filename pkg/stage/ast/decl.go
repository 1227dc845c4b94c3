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
package ast

import "slices"

// TypeRef represents a reference to a type as written in the source, such as
// "int", "List<IParameter>" or "string[]".
type TypeRef struct {
	node
	Name string
	Args []*TypeRef
	// Number of array dimensions applied to the named type.
	Rank uint
}

// NewTypeRef constructs a type reference.
func (p *Arena) NewTypeRef(name string, rank uint, args ...*TypeRef) *TypeRef {
	n := &TypeRef{Name: name, Args: args, Rank: rank}
	p.alloc(n, &n.node)
	//
	return n
}

// IsVoid checks whether this refers to the void type.
func (p *TypeRef) IsVoid() bool {
	return p.Name == "void" && p.Rank == 0
}

// Parameter represents a parameter of a member, local function or lambda.  The
// type of a lambda parameter may be nil.
type Parameter struct {
	node
	Attributes []string
	Type       *TypeRef
	Name       string
}

// NewParameter constructs a parameter declaration.
func (p *Arena) NewParameter(attributes []string, typ *TypeRef, name string) *Parameter {
	n := &Parameter{Attributes: attributes, Type: typ, Name: name}
	p.alloc(n, &n.node)
	//
	return n
}

// TypeParameter represents a generic parameter of a type or method.
type TypeParameter struct {
	node
	Attributes []string
	Name       string
}

// NewTypeParameter constructs a type parameter declaration.
func (p *Arena) NewTypeParameter(attributes []string, name string) *TypeParameter {
	n := &TypeParameter{Attributes: attributes, Name: name}
	p.alloc(n, &n.node)
	//
	return n
}

// Member represents a method with a body.  Template members are those whose
// bodies are staged; the quotation functions produced from them are ordinary
// members.
type Member struct {
	node
	Attributes []string
	Template   bool
	Return     *TypeRef
	Name       string
	TypeParams []*TypeParameter
	Params     []*Parameter
	Body       *Block
}

// NewMember constructs a member declaration.
func (p *Arena) NewMember(attributes []string, template bool, ret *TypeRef, name string,
	typeParams []*TypeParameter, params []*Parameter, body *Block) *Member {
	n := &Member{Attributes: attributes, Template: template, Return: ret, Name: name, TypeParams: typeParams,
		Params: params, Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// ExternMember represents a member of an extern type, which has a signature but
// no body.  Fields have no parameters.
type ExternMember struct {
	node
	Attributes []string
	Static     bool
	Method     bool
	Type       *TypeRef
	Name       string
	TypeParams []*TypeParameter
	Params     []*Parameter
}

// NewExternMember constructs an extern member declaration.
func (p *Arena) NewExternMember(attributes []string, static bool, method bool, typ *TypeRef, name string,
	typeParams []*TypeParameter, params []*Parameter) *ExternMember {
	n := &ExternMember{Attributes: attributes, Static: static, Method: method, Type: typ, Name: name,
		TypeParams: typeParams, Params: params}
	p.alloc(n, &n.node)
	//
	return n
}

// ExternType represents a type whose implementation lives outside of the
// compilation, such as the authoring-time API or run-time library classes.
type ExternType struct {
	node
	Attributes []string
	Name       string
	TypeParams []*TypeParameter
	Members    []*ExternMember
}

// NewExternType constructs an extern type declaration.
func (p *Arena) NewExternType(attributes []string, name string, typeParams []*TypeParameter,
	members ...*ExternMember) *ExternType {
	n := &ExternType{Attributes: attributes, Name: name, TypeParams: typeParams, Members: members}
	p.alloc(n, &n.node)
	//
	return n
}

// Unit represents the contents of a single source file.
type Unit struct {
	Types   []*ExternType
	Members []*Member
}

// HasAttribute checks whether a given attribute occurs in a list of
// attributes.
func HasAttribute(attributes []string, name string) bool {
	return slices.Contains(attributes, name)
}
