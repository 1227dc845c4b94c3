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
	"math"
	"strings"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/infer"
	"github.com/consensys/go-stager/pkg/stage/quote"
)

// Static classes available to quotation functions.
const (
	MATH    = "Math"
	STRING  = "String"
	CONSOLE = "Console"
)

func isNamespace(name string) bool {
	switch name {
	case quote.SYNTAX, infer.META, MATH, STRING, CONSOLE:
		return true
	default:
		return false
	}
}

// Read a member of a given value.
func (p *evaluator) member(target Value, name string) Value {
	switch t := target.(type) {
	case Namespace:
		if t == infer.META && name == "Target" {
			return p.expansion.method
		}
	case string:
		if name == "Length" {
			return int64(len([]rune(t)))
		}
	case *List:
		if name == "Count" {
			return int64(len(t.Items))
		}
	case *Object:
		if value, ok := t.Get(name); ok {
			return value
		}
	case *Method:
		switch name {
		case "Name":
			return t.Name
		case "ReturnType":
			return t.ReturnType
		case "Parameters":
			return t.Parameters
		}
	case *Parameter:
		switch name {
		case "Name":
			return t.Name
		case "Index":
			return t.Index
		case "Type":
			return t.Type
		case "Value":
			// Each use of the value is a distinct node.
			return p.expansion.arena.NewName(t.Name)
		}
	case *Type:
		switch name {
		case "Name":
			return t.Name()
		case "IsVoid":
			return t.IsVoid()
		}
	}
	//
	fail("%s has no member '%s'", describe(target), name)
	//
	return nil
}

// Call a method of a static class.
func (p *evaluator) callStatic(ns Namespace, name string, args []Value) Value {
	switch ns {
	case quote.SYNTAX:
		return p.syntax(name, args)
	case infer.META:
		switch {
		case name == infer.COMPILE_TIME && len(args) == 1:
			return args[0]
		case name == "Proceed" && len(args) == 0:
			return p.expansion.Proceed()
		}
	case MATH:
		return mathematics(name, args)
	case STRING:
		switch {
		case name == "Concat":
			var builder strings.Builder
			//
			for _, arg := range args {
				builder.WriteString(stringify(arg))
			}
			//
			return builder.String()
		case name == "Join" && len(args) == 2:
			var items = asList(args[1])
			//
			parts := make([]string, len(items))
			//
			for i, item := range items {
				parts[i] = stringify(item)
			}
			//
			return strings.Join(parts, asString(args[0]))
		}
	}
	//
	fail("%s.%s cannot be called at compile time", ns, name)
	//
	return nil
}

func mathematics(name string, args []Value) Value {
	switch {
	case (name == "Max" || name == "Min") && len(args) == 2:
		if (compare(args[0], args[1]) >= 0) == (name == "Max") {
			return args[0]
		}
		//
		return args[1]
	case name == "Abs" && len(args) == 1:
		if compare(args[0], int64(0)) < 0 {
			return arithmetic(ast.SUB, int64(0), args[0])
		}
		//
		return args[0]
	case name == "Sqrt" && len(args) == 1:
		v, ok := numeric(args[0])
		//
		if !ok {
			fail("expected number, found %s", describe(args[0]))
		}
		//
		return math.Sqrt(toFloat(v))
	}
	//
	fail("%s.%s cannot be called at compile time", MATH, name)
	//
	return nil
}

// Call a method of a given value.
func (p *evaluator) callMethod(target Value, name string, args []Value) Value {
	switch t := target.(type) {
	case *List:
		switch {
		case name == "Add" && len(args) == 1:
			t.Items = append(t.Items, args[0])
			return nil
		case name == "Contains" && len(args) == 1:
			for _, item := range t.Items {
				if equal(item, args[0]) {
					return true
				}
			}
			//
			return false
		}
	case string:
		return stringMethod(t, name, args)
	case *Closure:
		if name == "Invoke" {
			return p.call(t, args)
		}
	}
	//
	fail("%s has no method '%s'", describe(target), name)
	//
	return nil
}

func stringMethod(s string, name string, args []Value) Value {
	switch {
	case name == "ToUpper" && len(args) == 0:
		return strings.ToUpper(s)
	case name == "ToLower" && len(args) == 0:
		return strings.ToLower(s)
	case name == "StartsWith" && len(args) == 1:
		return strings.HasPrefix(s, asString(args[0]))
	case name == "Contains" && len(args) == 1:
		return strings.Contains(s, asString(args[0]))
	case name == "Substring" && len(args) == 2:
		var (
			runes  = []rune(s)
			start  = asInt(args[0])
			length = asInt(args[1])
		)
		//
		if start < 0 || length < 0 || start+length > int64(len(runes)) {
			fail("substring (%d, %d) out of bounds (length %d)", start, length, len(runes))
		}
		//
		return string(runes[start : start+length])
	}
	//
	fail("string has no method '%s'", name)
	//
	return nil
}
