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
	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/quote"
)

// Construct generated syntax by calling a given method of the syntax factory.
func (p *evaluator) syntax(method string, args []Value) Value {
	var arena = p.expansion.arena
	//
	switch method {
	case quote.LITERAL:
		p.arity(method, args, 1)
		return p.literal(args[0])
	case quote.SERIALIZE:
		p.arity(method, args, 2)
		//
		expr, err := p.expansion.serializer.Serialize(arena, args[0], asType(args[1]))
		if err != nil {
			fail("%s", err.Error())
		}
		//
		return expr
	case quote.FRESH_NAME:
		p.arity(method, args, 1)
		return p.expansion.FreshName(asString(args[0]))
	case quote.NAME:
		p.arity(method, args, 1)
		return arena.NewName(asString(args[0]))
	case quote.MEMBER:
		p.arity(method, args, 2)
		return arena.NewMemberAccess(asExpr(args[0]), asString(args[1]))
	case quote.ELEMENT:
		p.arity(method, args, 2)
		return arena.NewElementAccess(asExpr(args[0]), asExprs(args[1])...)
	case quote.INVOKE:
		p.arity(method, args, 2)
		return arena.NewInvocation(asExpr(args[0]), asExprs(args[1])...)
	case quote.BINARY:
		p.arity(method, args, 3)
		//
		op, ok := ast.ParseBinOp(asString(args[0]))
		if !ok {
			fail("unknown binary operator '%s'", args[0])
		}
		//
		return arena.NewBinary(op, asExpr(args[1]), asExpr(args[2]))
	case quote.UNARY:
		p.arity(method, args, 2)
		//
		op, ok := ast.ParseUnOp(asString(args[0]))
		if !ok {
			fail("unknown unary operator '%s'", args[0])
		}
		//
		return arena.NewUnary(op, asExpr(args[1]))
	case quote.ASSIGN:
		p.arity(method, args, 3)
		//
		op, ok := ast.ParseAssignOp(asString(args[0]))
		if !ok {
			fail("unknown assignment operator '%s'", args[0])
		}
		//
		return arena.NewAssignment(op, asExpr(args[1]), asExpr(args[2]))
	case quote.CONDITIONAL:
		p.arity(method, args, 3)
		return arena.NewConditional(asExpr(args[0]), asExpr(args[1]), asExpr(args[2]))
	case quote.CAST:
		p.arity(method, args, 2)
		return arena.NewCast(asType(args[0]), asExpr(args[1]))
	case quote.TYPE:
		p.arity(method, args, 3)
		//
		var (
			items    = asList(args[2])
			typeArgs = make([]*ast.TypeRef, len(items))
		)
		//
		for i, item := range items {
			typeArgs[i] = asType(item)
		}
		//
		return arena.NewTypeRef(asString(args[0]), uint(asInt(args[1])), typeArgs...)
	case quote.TYPE_ARGUMENT:
		p.arity(method, args, 3)
		//
		expansion, ok := args[0].(*Expansion)
		if !ok {
			fail("expected expansion, found %s", describe(args[0]))
		}
		//
		return expansion.TypeArgument(asString(args[1]), uint(asInt(args[2])))
	case quote.TYPE_OF:
		p.arity(method, args, 1)
		return arena.NewTypeOf(asType(args[0]))
	case quote.NAME_OF:
		p.arity(method, args, 1)
		return arena.NewNameOf(asExpr(args[0]))
	case quote.LAMBDA:
		p.arity(method, args, 2)
		return arena.NewLambda(asParams(args[0]), asNode(args[1]))
	case quote.PARAM:
		p.arity(method, args, 2)
		return arena.NewParameter(nil, asType(args[0]), asString(args[1]))
	case quote.NEW:
		p.arity(method, args, 3)
		return arena.NewObjectCreation(asType(args[0]), asExprs(args[1]), asExprs(args[2]))
	case quote.ANONYMOUS:
		p.arity(method, args, 1)
		//
		var (
			items   = asList(args[0])
			members = make([]*ast.AnonymousMember, len(items))
		)
		//
		for i, item := range items {
			members[i] = as[*ast.AnonymousMember](item, "anonymous member")
		}
		//
		return arena.NewAnonymousObject(members...)
	case quote.ANONYMOUS_MEMBER:
		p.arity(method, args, 2)
		return arena.NewAnonymousMember(asString(args[0]), asExpr(args[1]))
	case quote.ARRAY:
		p.arity(method, args, 2)
		return arena.NewArrayCreation(asType(args[0]), asExprs(args[1])...)
	case quote.TUPLE:
		p.arity(method, args, 1)
		//
		var (
			items    = asList(args[0])
			elements = make([]*ast.TupleElement, len(items))
		)
		//
		for i, item := range items {
			elements[i] = as[*ast.TupleElement](item, "tuple element")
		}
		//
		return arena.NewTuple(elements...)
	case quote.TUPLE_ELEMENT:
		p.arity(method, args, 2)
		return arena.NewTupleElement(asString(args[0]), asExpr(args[1]))
	default:
		return p.syntaxStmt(method, args)
	}
}

// Construct a generated statement by calling a given method of the syntax
// factory.
func (p *evaluator) syntaxStmt(method string, args []Value) Value {
	var arena = p.expansion.arena
	//
	switch method {
	case quote.BLOCK:
		p.arity(method, args, 1)
		return arena.NewBlock(asStmts(args[0])...)
	case quote.LOCAL:
		p.arity(method, args, 3)
		return arena.NewLocalDecl(nil, asType(args[0]), asString(args[1]), asExpr(args[2]))
	case quote.EXPR:
		p.arity(method, args, 1)
		return arena.NewExprStmt(asExpr(args[0]))
	case quote.IF:
		p.arity(method, args, 3)
		return arena.NewIf(asExpr(args[0]), asStmt(args[1]), asStmt(args[2]))
	case quote.WHILE:
		p.arity(method, args, 2)
		return arena.NewWhile(asExpr(args[0]), asStmt(args[1]))
	case quote.FOR:
		p.arity(method, args, 4)
		return arena.NewFor(asStmts(args[0]), asExpr(args[1]), asExprs(args[2]), asStmt(args[3]))
	case quote.FOREACH:
		p.arity(method, args, 4)
		return arena.NewForeach(asType(args[0]), asString(args[1]), asExpr(args[2]), asStmt(args[3]))
	case quote.SWITCH:
		p.arity(method, args, 2)
		//
		var (
			items    = asList(args[1])
			sections = make([]*ast.SwitchSection, len(items))
		)
		//
		for i, item := range items {
			sections[i] = as[*ast.SwitchSection](item, "switch section")
		}
		//
		return arena.NewSwitch(asExpr(args[0]), sections...)
	case quote.SECTION:
		p.arity(method, args, 3)
		//
		body := as[*ast.Block](args[2], "block")
		//
		return arena.NewSwitchSection(asExprs(args[0]), asBool(args[1]), body.Stmts)
	case quote.BREAK:
		p.arity(method, args, 0)
		return arena.NewBreak()
	case quote.CONTINUE:
		p.arity(method, args, 0)
		return arena.NewContinue()
	case quote.RETURN:
		p.arity(method, args, 1)
		return arena.NewReturn(asExpr(args[0]))
	case quote.RETURN_DYNAMIC:
		p.arity(method, args, 2)
		// A dynamic value is converted to the declared return type.
		if typ := asType(args[1]); typ != nil {
			return arena.NewReturn(arena.NewCast(typ, asExpr(args[0])))
		}
		//
		return arena.NewReturn(asExpr(args[0]))
	case quote.YIELD_RETURN:
		p.arity(method, args, 1)
		return arena.NewYieldReturn(asExpr(args[0]))
	case quote.YIELD_BREAK:
		p.arity(method, args, 0)
		return arena.NewYieldBreak()
	case quote.LOCAL_FUNCTION:
		p.arity(method, args, 4)
		//
		body := as[*ast.Block](args[3], "block")
		//
		return arena.NewLocalFunction(asType(args[0]), asString(args[1]), asParams(args[2]), body)
	default:
		fail("unknown syntax factory method '%s'", method)
		//
		return nil
	}
}

func (p *evaluator) arity(method string, args []Value, n int) {
	if len(args) != n {
		fail("%s.%s expects %d argument(s), found %d", quote.SYNTAX, method, n, len(args))
	}
}

// Construct the literal of a primitive value.
func (p *evaluator) literal(value Value) ast.Expr {
	var arena = p.expansion.arena
	//
	switch v := value.(type) {
	case nil:
		return arena.NewLiteral(ast.NULL, nil)
	case int64:
		return arena.NewLiteral(ast.INT, v)
	case float64:
		return arena.NewLiteral(ast.FLOAT, v)
	case string:
		return arena.NewLiteral(ast.STRING, v)
	case rune:
		return arena.NewLiteral(ast.CHAR, v)
	case bool:
		return arena.NewLiteral(ast.BOOL, v)
	default:
		fail("cannot construct literal of %s", describe(value))
		//
		return nil
	}
}

// ============================================================================
// Conversions
// ============================================================================

func as[T any](value Value, expected string) T {
	v, ok := value.(T)
	//
	if !ok {
		fail("expected %s, found %s", expected, describe(value))
	}
	//
	return v
}

func asString(value Value) string {
	return as[string](value, "string")
}

func asBool(value Value) bool {
	return as[bool](value, "bool")
}

func asInt(value Value) int64 {
	return as[int64](value, "int")
}

func asList(value Value) []Value {
	return as[*List](value, "list").Items
}

func asNode(value Value) ast.Node {
	return as[ast.Node](value, "syntax")
}

// Absent expressions, statements and types are passed as null.

func asExpr(value Value) ast.Expr {
	if value == nil {
		return nil
	}
	//
	return as[ast.Expr](value, "expression")
}

func asStmt(value Value) ast.Stmt {
	if value == nil {
		return nil
	}
	//
	return as[ast.Stmt](value, "statement")
}

func asType(value Value) *ast.TypeRef {
	if value == nil {
		return nil
	}
	//
	return as[*ast.TypeRef](value, "type")
}

func asExprs(value Value) []ast.Expr {
	var (
		items = asList(value)
		exprs = make([]ast.Expr, len(items))
	)
	//
	for i, item := range items {
		exprs[i] = as[ast.Expr](item, "expression")
	}
	//
	return exprs
}

func asStmts(value Value) []ast.Stmt {
	var (
		items = asList(value)
		stmts = make([]ast.Stmt, len(items))
	)
	//
	for i, item := range items {
		stmts[i] = as[ast.Stmt](item, "statement")
	}
	//
	return stmts
}

func asParams(value Value) []*ast.Parameter {
	var (
		items  = asList(value)
		params = make([]*ast.Parameter, len(items))
	)
	//
	for i, item := range items {
		params[i] = as[*ast.Parameter](item, "parameter")
	}
	//
	return params
}
