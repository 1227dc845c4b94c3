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

// Serializer constructs the syntax of an expression which rebuilds a given
// compile-time value within the generated code.  The static type of the value
// is given where known, and otherwise is nil.
type Serializer interface {
	Serialize(arena *ast.Arena, value Value, typ *ast.TypeRef) (ast.Expr, error)
}

// DefaultSerializer serializes primitives as literals, lists and arrays by
// their initializers, anonymous objects and tuples by their fields, and types as
// typeof expressions.  Syntax is already an expression, hence is used as is.
type DefaultSerializer struct{}

// Serialize implementation for the Serializer interface.
func (p DefaultSerializer) Serialize(arena *ast.Arena, value Value, typ *ast.TypeRef) (ast.Expr, error) {
	switch v := value.(type) {
	case nil:
		return arena.NewLiteral(ast.NULL, nil), nil
	case int64:
		return arena.NewLiteral(ast.INT, v), nil
	case float64:
		return arena.NewLiteral(ast.FLOAT, v), nil
	case string:
		return arena.NewLiteral(ast.STRING, v), nil
	case rune:
		return arena.NewLiteral(ast.CHAR, v), nil
	case bool:
		return arena.NewLiteral(ast.BOOL, v), nil
	case *List:
		return p.list(arena, v, typ)
	case *Object:
		return p.object(arena, v)
	case *Type:
		return arena.NewTypeOf(copyType(arena, v.Ref, 0)), nil
	case ast.Expr:
		return v, nil
	default:
		return nil, fmt.Errorf("cannot serialize %s", describe(value))
	}
}

func (p DefaultSerializer) list(arena *ast.Arena, list *List, typ *ast.TypeRef) (ast.Expr, error) {
	var (
		element = list.Element
		items   = make([]ast.Expr, len(list.Items))
	)
	// Prefer the static type, as this may be more precise.
	if typ != nil && typ.Rank > 0 {
		element = arena.NewTypeRef(typ.Name, typ.Rank-1, typ.Args...)
	} else if typ != nil && len(typ.Args) == 1 {
		element = typ.Args[0]
	}
	//
	for i, item := range list.Items {
		var err error
		//
		if items[i], err = p.Serialize(arena, item, element); err != nil {
			return nil, err
		}
	}
	//
	if list.Array {
		return arena.NewArrayCreation(copyType(arena, element, 0), items...), nil
	} else if element == nil {
		return nil, fmt.Errorf("cannot serialize list of unknown element type")
	}
	//
	listType := arena.NewTypeRef("List", 0, copyType(arena, element, 0))
	//
	return arena.NewObjectCreation(listType, nil, items), nil
}

func (p DefaultSerializer) object(arena *ast.Arena, object *Object) (ast.Expr, error) {
	var values = make([]ast.Expr, len(object.Names))
	//
	for i, name := range object.Names {
		var (
			field, _ = object.Get(name)
			err      error
		)
		//
		if values[i], err = p.Serialize(arena, field, nil); err != nil {
			return nil, err
		}
	}
	//
	if object.Tuple {
		elements := make([]*ast.TupleElement, len(values))
		//
		for i, value := range values {
			elements[i] = arena.NewTupleElement(object.Names[i], value)
		}
		//
		return arena.NewTuple(elements...), nil
	}
	//
	members := make([]*ast.AnonymousMember, len(values))
	//
	for i, value := range values {
		members[i] = arena.NewAnonymousMember(object.Names[i], value)
	}
	//
	return arena.NewAnonymousObject(members...), nil
}
