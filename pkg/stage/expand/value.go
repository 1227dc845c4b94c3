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
)

// Value is anything manipulated whilst executing a quotation function.  This
// is one of: nil, int64, float64, string, rune, bool, an ast.Node (i.e.
// generated syntax), or one of the value types below.
type Value = any

// List is a mutable sequence of values, used for both lists and arrays.
type List struct {
	// Element type, or nil if unknown.
	Element *ast.TypeRef
	// Determines whether this was created as an array.
	Array bool
	Items []Value
}

// NewList constructs a list of a given element type holding some initial
// items.
func NewList(element *ast.TypeRef, items ...Value) *List {
	return &List{element, false, items}
}

// NewArray constructs an array of a given element type.
func NewArray(element *ast.TypeRef, items ...Value) *List {
	return &List{element, true, items}
}

// Object is an anonymous object, or a tuple, whose fields are named.
type Object struct {
	// Determines whether this is a tuple.
	Tuple bool
	// Names of the fields, in order of declaration.
	Names  []string
	fields map[string]Value
}

// NewObject constructs an object with no fields.
func NewObject(tuple bool) *Object {
	return &Object{tuple, nil, make(map[string]Value)}
}

// Get the value of a given field.
func (p *Object) Get(name string) (Value, bool) {
	v, ok := p.fields[name]
	return v, ok
}

// Set the value of a given field, adding it if it does not exist.
func (p *Object) Set(name string, value Value) {
	if _, ok := p.fields[name]; !ok {
		p.Names = append(p.Names, name)
	}
	//
	p.fields[name] = value
}

// Closure is a lambda or local function, along with the environment in which it
// was created.
type Closure struct {
	Params []string
	// Either an expression or a block.
	Body ast.Node
	env  *Env
}

// Type describes a type of the target (i.e. an IType).
type Type struct {
	Ref *ast.TypeRef
}

// Name returns the name of this type, as written.
func (p *Type) Name() string {
	return ast.Print(p.Ref)
}

// IsVoid checks whether this is the void type.
func (p *Type) IsVoid() bool {
	return p.Ref.IsVoid()
}

// Method describes the target of an expansion (i.e. an IMethod).
type Method struct {
	Name       string
	ReturnType *Type
	Parameters *List
}

// Parameter describes a parameter of the target (i.e. an IParameter).  Its
// value, as seen by compile-time code, is the syntax referring to it within the
// generated code.
type Parameter struct {
	Name  string
	Index int64
	Type  *Type
}

// Namespace is a static class referenced by name, such as Math or Syntax.
type Namespace string

// Error signals a failure whilst executing a quotation function, such as an
// index out of bounds or an unknown member.
type Error struct {
	msg string
}

func (p *Error) Error() string {
	return p.msg
}

// fail aborts the current expansion with an error.
func fail(format string, args ...any) {
	panic(&Error{fmt.Sprintf(format, args...)})
}

// Describe the kind of a value, for use in error messages.
func describe(v Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case int64:
		return "int"
	case float64:
		return "double"
	case string:
		return "string"
	case rune:
		return "char"
	case bool:
		return "bool"
	case *List:
		if v.Array {
			return "array"
		}
		//
		return "list"
	case *Object:
		if v.Tuple {
			return "tuple"
		}
		//
		return "object"
	case *Closure:
		return "function"
	case *Type:
		return "type"
	case *Method:
		return "method"
	case *Parameter:
		return "parameter"
	case *Expansion:
		return "expansion"
	case Namespace:
		return string(v)
	case ast.Node:
		return "syntax"
	default:
		return fmt.Sprintf("%T", v)
	}
}
