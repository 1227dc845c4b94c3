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
	"fmt"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/infer"
	"github.com/consensys/go-stager/pkg/stage/scope"
	"github.com/consensys/go-stager/pkg/stage/semantic"
)

// Construct the quotation code generating an expression in a run-time
// position.  Compile-time values are spliced into the generated code, values
// which are already syntax are used as is, and everything else is
// reconstructed node by node.
func (p *rewriter) quoteExpr(e ast.Expr, lc *Lexical) ast.Expr {
	var s = p.result.Scope(e)
	//
	switch {
	case s == scope.CompileTimeOnlyReturningRunTimeOnly:
		return p.copyExpr(e, lc)
	case s.IsCompileTime():
		return p.splice(e, lc)
	default:
		return p.reconstruct(e, lc)
	}
}

func (p *rewriter) quoteExprs(exprs []ast.Expr, lc *Lexical) []ast.Expr {
	var nodes = make([]ast.Expr, len(exprs))
	//
	for i, e := range exprs {
		nodes[i] = p.quoteExpr(e, lc)
	}
	//
	return nodes
}

// Splice the value of a compile-time expression into the generated code.
// Literals are emitted directly, whilst other values are serialized.
func (p *rewriter) splice(e ast.Expr, lc *Lexical) ast.Expr {
	if lit, ok := e.(*ast.Literal); ok {
		return p.syntax(LITERAL, p.arena.NewLiteral(lit.Kind, lit.Value))
	}
	//
	return p.syntax(SERIALIZE, p.copyExpr(e, lc), p.typeOf(p.model.TypeOf(e)))
}

func (p *rewriter) reconstruct(expr ast.Expr, lc *Lexical) ast.Expr {
	switch e := expr.(type) {
	case *ast.Literal:
		return p.syntax(LITERAL, p.arena.NewLiteral(e.Kind, e.Value))
	case *ast.Name:
		return p.reconstructName(e, lc)
	case *ast.MemberAccess:
		return p.syntax(MEMBER, p.quoteExpr(e.Target, lc), p.str(e.Name))
	case *ast.ElementAccess:
		target := p.quoteExpr(e.Target, lc)
		return p.syntax(ELEMENT, target, p.list(p.quoteExprs(e.Indices, lc)...))
	case *ast.Invocation:
		if p.isMeta(e, infer.RUN_TIME) {
			return p.quoteExpr(e.Args[0], lc)
		}
		//
		callee := p.quoteExpr(e.Callee, lc)
		//
		return p.syntax(INVOKE, callee, p.list(p.quoteExprs(e.Args, lc)...))
	case *ast.Binary:
		lhs := p.quoteExpr(e.Left, lc)
		return p.syntax(BINARY, p.str(e.Op.String()), lhs, p.quoteExpr(e.Right, lc))
	case *ast.Unary:
		return p.syntax(UNARY, p.str(e.Op.String()), p.quoteExpr(e.Operand, lc))
	case *ast.Assignment:
		target := p.quoteExpr(e.Target, lc)
		return p.syntax(ASSIGN, p.str(e.Op.String()), target, p.quoteExpr(e.Value, lc))
	case *ast.Conditional:
		var (
			cond = p.quoteExpr(e.Cond, lc)
			then = p.quoteExpr(e.Then, lc)
		)
		//
		return p.syntax(CONDITIONAL, cond, then, p.quoteExpr(e.Else, lc))
	case *ast.Cast:
		return p.syntax(CAST, p.typeRef(e.Type), p.quoteExpr(e.Operand, lc))
	case *ast.TypeOf:
		return p.syntax(TYPE_OF, p.typeRef(e.Type))
	case *ast.NameOf:
		if p.result.NameOf(e) == infer.PASS_THROUGH {
			return p.syntax(NAME_OF, p.quoteExpr(e.Operand, lc))
		}
		//
		return p.syntax(LITERAL, p.str(nameOf(e.Operand)))
	case *ast.Lambda:
		params := p.quoteParams(e.Params, lc)
		return p.syntax(LAMBDA, p.list(params...), p.quoteExpr(e.Body.(ast.Expr), lc))
	case *ast.ObjectCreation:
		return p.reconstructCreation(e, lc)
	case *ast.AnonymousObject:
		var members = make([]ast.Expr, len(e.Members))
		//
		for i, m := range e.Members {
			members[i] = p.syntax(ANONYMOUS_MEMBER, p.str(m.Name), p.quoteExpr(m.Value, lc))
		}
		//
		return p.syntax(ANONYMOUS, p.list(members...))
	case *ast.ArrayCreation:
		return p.syntax(ARRAY, p.typeRef(e.Element), p.list(p.quoteExprs(e.Items, lc)...))
	case *ast.Tuple:
		var elements = make([]ast.Expr, len(e.Elements))
		// Element names are made explicit, since the names inferred from the
		// generated values could differ.
		for i, elem := range e.Elements {
			elements[i] = p.syntax(TUPLE_ELEMENT, p.str(tupleName(elem, i)), p.quoteExpr(elem.Value, lc))
		}
		//
		return p.syntax(TUPLE, p.list(elements...))
	default:
		panic(diag.Internal("cannot reconstruct %s", ast.Print(expr)))
	}
}

// Names of run-time locals, including the parameters of local functions, are
// chosen whilst expanding, and are held in placeholders.  All other names are
// kept.
func (p *rewriter) reconstructName(e *ast.Name, lc *Lexical) ast.Expr {
	if symbol := p.model.Resolve(e); symbol != nil && (symbol.IsLocal() || symbol.IsLocalFunctionParameter()) {
		return p.syntax(NAME, p.name(p.placeholder(symbol, lc)))
	}
	//
	return p.syntax(NAME, p.str(e.Ident))
}

func (p *rewriter) reconstructCreation(e *ast.ObjectCreation, lc *Lexical) ast.Expr {
	var (
		typ   = p.typeRef(e.Type)
		args  = p.quoteExprs(e.Args, lc)
		inits = make([]ast.Expr, len(e.Initializers))
	)
	//
	for i, init := range e.Initializers {
		if assign, ok := init.(*ast.Assignment); ok && p.isMemberInitialiser(assign) {
			member := p.syntax(NAME, p.str(assign.Target.(*ast.Name).Ident))
			inits[i] = p.syntax(ASSIGN, p.str(assign.Op.String()), member, p.quoteExpr(assign.Value, lc))
		} else {
			inits[i] = p.quoteExpr(init, lc)
		}
	}
	//
	return p.syntax(NEW, typ, p.list(args...), p.list(inits...))
}

// Copy an expression executed at compile time into the quotation function.
// Compile-time symbols are referred to by their aliases.
func (p *rewriter) copyExpr(expr ast.Expr, lc *Lexical) ast.Expr {
	if p.result.Scope(expr).IsRunTime() {
		panic(diag.Internal("run-time expression %s within compile-time code", ast.Print(expr)))
	}
	//
	switch e := expr.(type) {
	case *ast.Literal:
		return p.arena.NewLiteral(e.Kind, e.Value)
	case *ast.Name:
		return p.arena.NewName(p.alias(e, lc))
	case *ast.MemberAccess:
		return p.arena.NewMemberAccess(p.copyExpr(e.Target, lc), e.Name)
	case *ast.ElementAccess:
		return p.arena.NewElementAccess(p.copyExpr(e.Target, lc), p.copyExprs(e.Indices, lc)...)
	case *ast.Invocation:
		if p.isMeta(e, infer.COMPILE_TIME) {
			return p.copyExpr(e.Args[0], lc)
		}
		//
		return p.arena.NewInvocation(p.copyExpr(e.Callee, lc), p.copyExprs(e.Args, lc)...)
	case *ast.Binary:
		return p.arena.NewBinary(e.Op, p.copyExpr(e.Left, lc), p.copyExpr(e.Right, lc))
	case *ast.Unary:
		return p.arena.NewUnary(e.Op, p.copyExpr(e.Operand, lc))
	case *ast.Assignment:
		return p.arena.NewAssignment(e.Op, p.copyExpr(e.Target, lc), p.copyExpr(e.Value, lc))
	case *ast.Conditional:
		return p.arena.NewConditional(p.copyExpr(e.Cond, lc), p.copyExpr(e.Then, lc), p.copyExpr(e.Else, lc))
	case *ast.Cast:
		return p.arena.NewCast(p.copyType(e.Type), p.copyExpr(e.Operand, lc))
	case *ast.TypeOf:
		return p.arena.NewTypeOf(p.copyType(e.Type))
	case *ast.NameOf:
		return p.arena.NewLiteral(ast.STRING, nameOf(e.Operand))
	case *ast.Lambda:
		var params = make([]*ast.Parameter, len(e.Params))
		//
		for i, param := range e.Params {
			alias := lc.Alias(p.model.DeclaredSymbol(param), param.Name)
			params[i] = p.arena.NewParameter(nil, p.copyType(param.Type), alias)
		}
		//
		return p.arena.NewLambda(params, p.copyExpr(e.Body.(ast.Expr), lc))
	case *ast.ObjectCreation:
		return p.arena.NewObjectCreation(p.copyType(e.Type), p.copyExprs(e.Args, lc), p.copyExprs(e.Initializers, lc))
	case *ast.AnonymousObject:
		var members = make([]*ast.AnonymousMember, len(e.Members))
		//
		for i, m := range e.Members {
			members[i] = p.arena.NewAnonymousMember(m.Name, p.copyExpr(m.Value, lc))
		}
		//
		return p.arena.NewAnonymousObject(members...)
	case *ast.ArrayCreation:
		return p.arena.NewArrayCreation(p.copyType(e.Element), p.copyExprs(e.Items, lc)...)
	case *ast.Tuple:
		var elements = make([]*ast.TupleElement, len(e.Elements))
		//
		for i, elem := range e.Elements {
			elements[i] = p.arena.NewTupleElement(elem.Name, p.copyExpr(elem.Value, lc))
		}
		//
		return p.arena.NewTuple(elements...)
	default:
		panic(diag.Internal("cannot copy %s", ast.Print(expr)))
	}
}

func (p *rewriter) copyExprs(exprs []ast.Expr, lc *Lexical) []ast.Expr {
	var copies = make([]ast.Expr, len(exprs))
	//
	for i, e := range exprs {
		copies[i] = p.copyExpr(e, lc)
	}
	//
	return copies
}

// Determine the name by which a symbol is known in the quotation function.
func (p *rewriter) alias(e *ast.Name, lc *Lexical) string {
	if symbol := p.model.Resolve(e); symbol != nil {
		if alias, ok := lc.LookupAlias(symbol); ok {
			return alias
		} else if symbol.IsLocal() {
			panic(diag.Internal("compile-time local '%s' referenced before its declaration", e.Ident))
		}
	}
	//
	return e.Ident
}

func (p *rewriter) isMeta(e *ast.Invocation, name string) bool {
	var symbol = p.model.Resolve(e)
	//
	return symbol != nil && symbol.Kind == semantic.METHOD && symbol.Name == name && symbol.Owner != nil &&
		symbol.Owner.Name == infer.META
}

func (p *rewriter) isMemberInitialiser(assign *ast.Assignment) bool {
	if _, ok := assign.Target.(*ast.Name); ok {
		symbol := p.model.Resolve(assign.Target)
		return symbol != nil && (symbol.Kind == semantic.FIELD || symbol.Kind == semantic.METHOD)
	}
	//
	return false
}

// The name given by nameof to an expression.
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

// The name of a tuple element, which is either given explicitly, inferred from
// its value, or positional.
func tupleName(elem *ast.TupleElement, index int) string {
	if elem.Name != "" {
		return elem.Name
	}
	//
	switch e := elem.Value.(type) {
	case *ast.Name:
		return e.Ident
	case *ast.MemberAccess:
		return e.Name
	default:
		return fmt.Sprintf("Item%d", index+1)
	}
}
