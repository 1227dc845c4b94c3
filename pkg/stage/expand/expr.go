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
	"math"
	"strconv"

	"github.com/consensys/go-stager/pkg/stage/ast"
)

func (p *evaluator) eval(expr ast.Expr, env *Env) Value {
	p.step()
	//
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value
	case *ast.Name:
		return p.lookup(e.Ident, env)
	case *ast.MemberAccess:
		return p.member(p.eval(e.Target, env), e.Name)
	case *ast.ElementAccess:
		target := p.eval(e.Target, env)
		return p.element(target, p.evalAll(e.Indices, env))
	case *ast.Invocation:
		return p.invoke(e, env)
	case *ast.Binary:
		return p.binary(e, env)
	case *ast.Unary:
		return p.unary(e, env)
	case *ast.Assignment:
		return p.assign(e, env)
	case *ast.Conditional:
		if p.condition(e.Cond, env) {
			return p.eval(e.Then, env)
		}
		//
		return p.eval(e.Else, env)
	case *ast.Cast:
		return cast(e.Type, p.eval(e.Operand, env))
	case *ast.TypeOf:
		return &Type{e.Type}
	case *ast.NameOf:
		return nameOf(e.Operand)
	case *ast.Lambda:
		return &Closure{paramNames(e.Params), e.Body, env}
	case *ast.AnonymousMethod:
		return &Closure{paramNames(e.Params), e.Body, env}
	case *ast.ObjectCreation:
		return p.create(e, env)
	case *ast.AnonymousObject:
		object := NewObject(false)
		//
		for _, m := range e.Members {
			object.Set(m.Name, p.eval(m.Value, env))
		}
		//
		return object
	case *ast.ArrayCreation:
		return NewArray(e.Element, p.evalAll(e.Items, env)...)
	case *ast.Tuple:
		object := NewObject(true)
		//
		for i, elem := range e.Elements {
			name := elem.Name
			//
			if name == "" {
				name = fmt.Sprintf("Item%d", i+1)
			}
			//
			object.Set(name, p.eval(elem.Value, env))
		}
		//
		return object
	default:
		fail("cannot evaluate %s at compile time", ast.Print(expr))
		//
		return nil
	}
}

func (p *evaluator) evalAll(exprs []ast.Expr, env *Env) []Value {
	var values = make([]Value, len(exprs))
	//
	for i, e := range exprs {
		values[i] = p.eval(e, env)
	}
	//
	return values
}

// Names which are not variables refer to the static classes available to
// quotation functions.
func (p *evaluator) lookup(name string, env *Env) Value {
	if value, ok := env.Get(name); ok {
		return value
	} else if isNamespace(name) {
		return Namespace(name)
	}
	//
	fail("unknown name '%s'", name)
	//
	return nil
}

func (p *evaluator) invoke(e *ast.Invocation, env *Env) Value {
	if access, ok := e.Callee.(*ast.MemberAccess); ok {
		var (
			target = p.eval(access.Target, env)
			args   = p.evalAll(e.Args, env)
		)
		//
		if ns, ok := target.(Namespace); ok {
			return p.callStatic(ns, access.Name, args)
		}
		//
		return p.callMethod(target, access.Name, args)
	}
	//
	var callee = p.eval(e.Callee, env)
	//
	if closure, ok := callee.(*Closure); ok {
		return p.call(closure, p.evalAll(e.Args, env))
	}
	//
	fail("cannot call %s", describe(callee))
	//
	return nil
}

func (p *evaluator) element(target Value, indices []Value) Value {
	if len(indices) != 1 {
		fail("expected one index, found %d", len(indices))
	}
	//
	var index = asInt(indices[0])
	//
	switch t := target.(type) {
	case *List:
		checkBounds(index, len(t.Items))
		return t.Items[index]
	case string:
		runes := []rune(t)
		checkBounds(index, len(runes))
		//
		return runes[index]
	default:
		fail("cannot index %s", describe(target))
		//
		return nil
	}
}

func checkBounds(index int64, length int) {
	if index < 0 || index >= int64(length) {
		fail("index %d out of bounds (length %d)", index, length)
	}
}

func (p *evaluator) binary(e *ast.Binary, env *Env) Value {
	switch e.Op {
	case ast.AND:
		return p.condition(e.Left, env) && p.condition(e.Right, env)
	case ast.OR:
		return p.condition(e.Left, env) || p.condition(e.Right, env)
	}
	//
	var (
		lhs = p.eval(e.Left, env)
		rhs = p.eval(e.Right, env)
	)
	//
	return operate(e.Op, lhs, rhs)
}

// Apply a (non short-circuiting) binary operator to two values.
func operate(op ast.BinOp, lhs Value, rhs Value) Value {
	switch op {
	case ast.ADD:
		_, ls := lhs.(string)
		_, rs := rhs.(string)
		//
		if ls || rs {
			return stringify(lhs) + stringify(rhs)
		}
		//
		return arithmetic(op, lhs, rhs)
	case ast.SUB, ast.MUL, ast.DIV, ast.REM:
		return arithmetic(op, lhs, rhs)
	case ast.EQ:
		return equal(lhs, rhs)
	case ast.NEQ:
		return !equal(lhs, rhs)
	case ast.LT:
		return compare(lhs, rhs) < 0
	case ast.LTEQ:
		return compare(lhs, rhs) <= 0
	case ast.GT:
		return compare(lhs, rhs) > 0
	case ast.GTEQ:
		return compare(lhs, rhs) >= 0
	default:
		fail("cannot apply '%s' to %s and %s", op.String(), describe(lhs), describe(rhs))
		//
		return nil
	}
}

// Arithmetic over integers is exact, whilst mixing in a double gives a double.
func arithmetic(op ast.BinOp, lhs Value, rhs Value) Value {
	l, lok := numeric(lhs)
	r, rok := numeric(rhs)
	//
	if !lok || !rok {
		fail("cannot apply '%s' to %s and %s", op.String(), describe(lhs), describe(rhs))
	}
	//
	li, lint := l.(int64)
	ri, rint := r.(int64)
	//
	if lint && rint {
		if (op == ast.DIV || op == ast.REM) && ri == 0 {
			fail("division by zero")
		}
		//
		switch op {
		case ast.ADD:
			return li + ri
		case ast.SUB:
			return li - ri
		case ast.MUL:
			return li * ri
		case ast.DIV:
			return li / ri
		default:
			return li % ri
		}
	}
	//
	var lf, rf = toFloat(l), toFloat(r)
	//
	switch op {
	case ast.ADD:
		return lf + rf
	case ast.SUB:
		return lf - rf
	case ast.MUL:
		return lf * rf
	case ast.DIV:
		return lf / rf
	default:
		return math.Mod(lf, rf)
	}
}

// Convert a value into a number, where characters are treated as integers.
func numeric(value Value) (Value, bool) {
	switch v := value.(type) {
	case int64, float64:
		return v, true
	case rune:
		return int64(v), true
	default:
		return nil, false
	}
}

func toFloat(value Value) float64 {
	if i, ok := value.(int64); ok {
		return float64(i)
	}
	//
	return value.(float64)
}

func equal(lhs Value, rhs Value) bool {
	l, lok := numeric(lhs)
	r, rok := numeric(rhs)
	//
	switch {
	case lok && rok:
		return compare(l, r) == 0
	case lok || rok:
		return false
	}
	//
	if lt, ok := lhs.(*Type); ok {
		if rt, ok := rhs.(*Type); ok {
			return lt.Name() == rt.Name()
		}
	}
	//
	return lhs == rhs
}

func compare(lhs Value, rhs Value) int {
	if ls, ok := lhs.(string); ok {
		if rs, ok := rhs.(string); ok {
			switch {
			case ls < rs:
				return -1
			case ls > rs:
				return 1
			default:
				return 0
			}
		}
	}
	//
	l, lok := numeric(lhs)
	r, rok := numeric(rhs)
	//
	if !lok || !rok {
		fail("cannot compare %s and %s", describe(lhs), describe(rhs))
	}
	//
	li, lint := l.(int64)
	ri, rint := r.(int64)
	//
	if lint && rint {
		return cmpOrdered(li, ri)
	}
	//
	return cmpOrdered(toFloat(l), toFloat(r))
}

func cmpOrdered[T int64 | float64](l T, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// Convert a value into a string, as done by string concatenation.
func stringify(value Value) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case rune:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case *Type:
		return v.Name()
	case ast.Node:
		return ast.Print(v)
	default:
		return describe(value)
	}
}

func (p *evaluator) unary(e *ast.Unary, env *Env) Value {
	switch e.Op {
	case ast.NEG:
		switch v := p.eval(e.Operand, env).(type) {
		case int64:
			return -v
		case float64:
			return -v
		default:
			fail("cannot negate %s", describe(v))
		}
	case ast.NOT:
		return !p.condition(e.Operand, env)
	}
	// Increments and decrements
	var (
		before = p.eval(e.Operand, env)
		delta  = ast.ADD
	)
	//
	if e.Op == ast.PRE_DEC || e.Op == ast.POST_DEC {
		delta = ast.SUB
	}
	//
	after := arithmetic(delta, before, int64(1))
	p.store(e.Operand, after, env)
	//
	if e.Op.IsPostfix() {
		return before
	}
	//
	return after
}

func (p *evaluator) assign(e *ast.Assignment, env *Env) Value {
	var value = p.eval(e.Value, env)
	//
	if op, ok := e.Op.Arithmetic(); ok {
		value = operate(op, p.eval(e.Target, env), value)
	}
	//
	p.store(e.Target, value, env)
	//
	return value
}

// Store a value into the location identified by an assignable expression.
func (p *evaluator) store(target ast.Expr, value Value, env *Env) {
	switch t := target.(type) {
	case *ast.Name:
		if !env.Set(t.Ident, value) {
			fail("cannot assign to '%s'", t.Ident)
		}
	case *ast.ElementAccess:
		var (
			list  = as[*List](p.eval(t.Target, env), "list")
			index = p.evalAll(t.Indices, env)
		)
		//
		if len(index) != 1 {
			fail("expected one index, found %d", len(index))
		}
		//
		i := asInt(index[0])
		checkBounds(i, len(list.Items))
		list.Items[i] = value
	case *ast.MemberAccess:
		object := as[*Object](p.eval(t.Target, env), "object")
		//
		if _, ok := object.Get(t.Name); !ok {
			fail("%s has no member '%s'", describe(object), t.Name)
		}
		//
		object.Set(t.Name, value)
	default:
		fail("cannot assign to %s", ast.Print(target))
	}
}

// Lists are created with their element type, and any other type with member
// initialisers is created as an object holding those members.
func (p *evaluator) create(e *ast.ObjectCreation, env *Env) Value {
	if e.Type.Name == "List" && e.Type.Rank == 0 && len(e.Args) == 0 {
		var element *ast.TypeRef
		//
		if len(e.Type.Args) == 1 {
			element = e.Type.Args[0]
		}
		//
		return NewList(element, p.evalAll(e.Initializers, env)...)
	} else if len(e.Args) > 0 {
		fail("cannot construct %s at compile time", ast.Print(e.Type))
	}
	//
	var object = NewObject(false)
	//
	for _, init := range e.Initializers {
		assign, ok := init.(*ast.Assignment)
		//
		if !ok || assign.Op != ast.ASSIGN {
			fail("cannot construct %s at compile time", ast.Print(e.Type))
		}
		//
		name := as[*ast.Name](assign.Target, "member name")
		object.Set(name.Ident, p.eval(assign.Value, env))
	}
	//
	return object
}

// Conversions between numeric types.  Other casts leave values unchanged.
func cast(typ *ast.TypeRef, value Value) Value {
	if typ.Rank > 0 {
		return value
	}
	//
	switch typ.Name {
	case "int", "long":
		switch v := value.(type) {
		case float64:
			return int64(v)
		case rune:
			return int64(v)
		}
	case "double":
		switch v := value.(type) {
		case int64:
			return float64(v)
		case rune:
			return float64(v)
		}
	case "char":
		if v, ok := value.(int64); ok {
			return rune(v)
		}
	}
	//
	return value
}

func nameOf(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Name:
		return e.Ident
	case *ast.MemberAccess:
		return e.Name
	default:
		return ast.Print(e)
	}
}
