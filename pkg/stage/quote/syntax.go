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
package quote

import (
	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/semantic"
)

// Names of the types and objects referenced by quotation functions.
const (
	// SYNTAX is the factory from which generated code is built.
	SYNTAX = "Syntax"
	// EXPANSION is the type of the first parameter of a quotation function,
	// which describes the expansion being performed.
	EXPANSION = "Expansion"
	// NODE is the type of generated syntax.
	NODE = "Node"
	// LIST is the type of accumulators.
	LIST = "List"
	// PREFIX is prepended to the name of a template to give the name of its
	// quotation function.
	PREFIX = "__Quote"
)

// Methods of the syntax factory.  Each constructs a single node of generated
// code from its arguments.  Lists of nodes are passed as arrays, names as
// strings, and absent nodes as null.
const (
	// Literal(value) constructs a literal of a primitive value.
	LITERAL = "Literal"
	// Serialize(value, type) constructs an expression which rebuilds a given
	// compile-time value.
	SERIALIZE = "Serialize"
	// FreshName(hint) chooses a name unique within the expansion.
	FRESH_NAME = "FreshName"
	// Name(ident)
	NAME = "Name"
	// Member(target, name)
	MEMBER = "Member"
	// Element(target, indices)
	ELEMENT = "Element"
	// Invoke(callee, args)
	INVOKE = "Invoke"
	// Binary(op, lhs, rhs)
	BINARY = "Binary"
	// Unary(op, operand)
	UNARY = "Unary"
	// Assign(op, target, value)
	ASSIGN = "Assign"
	// Conditional(cond, then, else)
	CONDITIONAL = "Conditional"
	// Cast(type, operand)
	CAST = "Cast"
	// Type(name, rank, args)
	TYPE = "Type"
	// TypeArgument(expansion, name, rank) constructs the type bound to a type
	// parameter of the template by an expansion.
	TYPE_ARGUMENT = "TypeArgument"
	// TypeOf(type)
	TYPE_OF = "TypeOf"
	// NameOf(operand)
	NAME_OF = "NameOf"
	// Lambda(params, body)
	LAMBDA = "Lambda"
	// Param(type, name)
	PARAM = "Param"
	// New(type, args, initializers)
	NEW = "New"
	// Anonymous(members)
	ANONYMOUS = "Anonymous"
	// AnonymousMember(name, value)
	ANONYMOUS_MEMBER = "AnonymousMember"
	// Array(type, items)
	ARRAY = "Array"
	// Tuple(elements)
	TUPLE = "Tuple"
	// TupleElement(name, value)
	TUPLE_ELEMENT = "TupleElement"
	// Block(stmts)
	BLOCK = "Block"
	// Local(type, name, init)
	LOCAL = "Local"
	// Expr(expr)
	EXPR = "Expr"
	// If(cond, then, else)
	IF = "If"
	// While(cond, body)
	WHILE = "While"
	// For(inits, cond, steps, body)
	FOR = "For"
	// Foreach(type, name, source, body)
	FOREACH = "Foreach"
	// Switch(subject, sections)
	SWITCH = "Switch"
	// Section(labels, default, body)
	SECTION = "Section"
	// Break()
	BREAK = "Break"
	// Continue()
	CONTINUE = "Continue"
	// Return(value)
	RETURN = "Return"
	// ReturnDynamic(value, type) constructs a return of a dynamic value from a
	// member with a given return type.
	RETURN_DYNAMIC = "ReturnDynamic"
	// YieldReturn(value)
	YIELD_RETURN = "YieldReturn"
	// YieldBreak()
	YIELD_BREAK = "YieldBreak"
	// LocalFunction(type, name, params, body)
	LOCAL_FUNCTION = "LocalFunction"
)

// Methods of the accumulator and enumerator types used by quotation code.
const (
	ADD        = "Add"
	MOVE_NEXT  = "MoveNext"
	CURRENT    = "Current"
	ITEM_HINT  = "item"
	ENUMERATOR = "enumerator"
)

// Helpers for building the quotation code itself.

func (p *rewriter) syntax(method string, args ...ast.Expr) ast.Expr {
	return p.arena.NewInvocation(p.arena.NewMemberAccess(p.arena.NewName(SYNTAX), method), args...)
}

func (p *rewriter) str(s string) ast.Expr {
	return p.arena.NewLiteral(ast.STRING, s)
}

func (p *rewriter) num(n uint) ast.Expr {
	return p.arena.NewLiteral(ast.INT, int64(n))
}

func (p *rewriter) boolean(b bool) ast.Expr {
	return p.arena.NewLiteral(ast.BOOL, b)
}

func (p *rewriter) null() ast.Expr {
	return p.arena.NewLiteral(ast.NULL, nil)
}

func (p *rewriter) name(ident string) ast.Expr {
	return p.arena.NewName(ident)
}

// An array of nodes.
func (p *rewriter) list(items ...ast.Expr) ast.Expr {
	return p.arena.NewArrayCreation(p.arena.NewTypeRef(NODE, 0), items...)
}

// Add a generated node to a given accumulator.
func (p *rewriter) add(accumulator string, node ast.Expr) ast.Stmt {
	var add = p.arena.NewMemberAccess(p.arena.NewName(accumulator), ADD)
	//
	return p.arena.NewExprStmt(p.arena.NewInvocation(add, node))
}

// Declare a placeholder holding a fresh name for the generated code.
func (p *rewriter) fresh(placeholder string, hint string) ast.Stmt {
	return p.arena.NewLocalDecl(nil, nil, placeholder, p.syntax(FRESH_NAME, p.str(hint)))
}

// Construct the syntax of a type reference.  Template type parameters are
// bound by the expansion.
func (p *rewriter) typeRef(ref *ast.TypeRef) ast.Expr {
	if ref == nil {
		return p.null()
	}
	//
	if symbol := p.model.Resolve(ref); symbol != nil && isTemplateTypeParameter(symbol) {
		return p.syntax(TYPE_ARGUMENT, p.name(p.expansion), p.str(ref.Name), p.num(ref.Rank))
	}
	//
	var args = make([]ast.Expr, len(ref.Args))
	//
	for i, arg := range ref.Args {
		args[i] = p.typeRef(arg)
	}
	//
	return p.syntax(TYPE, p.str(ref.Name), p.num(ref.Rank), p.list(args...))
}

// Construct the syntax of a resolved type, as needed to serialize values.
func (p *rewriter) typeOf(t *semantic.Type) ast.Expr {
	if t == nil || t.IsDynamic() {
		return p.null()
	} else if t.IsTypeParameter() && isTemplateTypeParameter(t.Symbol) {
		return p.syntax(TYPE_ARGUMENT, p.name(p.expansion), p.str(t.Name), p.num(t.Rank))
	}
	//
	var args = make([]ast.Expr, len(t.Args))
	//
	for i, arg := range t.Args {
		args[i] = p.typeOf(arg)
	}
	//
	return p.syntax(TYPE, p.str(t.Name), p.num(t.Rank), p.list(args...))
}

func isTemplateTypeParameter(symbol *semantic.Symbol) bool {
	return symbol.Kind == semantic.TYPE_PARAMETER && symbol.Owner != nil && symbol.Owner.Kind == semantic.TEMPLATE
}

// Copy a type reference into the quotation code.
func (p *rewriter) copyType(ref *ast.TypeRef) *ast.TypeRef {
	if ref == nil {
		return nil
	}
	//
	var args = make([]*ast.TypeRef, len(ref.Args))
	//
	for i, arg := range ref.Args {
		args[i] = p.copyType(arg)
	}
	//
	return p.arena.NewTypeRef(ref.Name, ref.Rank, args...)
}
