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
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/infer"
	"github.com/consensys/go-stager/pkg/stage/lexical"
	"github.com/consensys/go-stager/pkg/stage/scope"
)

// Rewrite the statements of a block into a given lexical context.
func (p *rewriter) stmts(stmts []ast.Stmt, lc *Lexical) {
	// Local functions can be referenced before their declaration.
	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.LocalFunction); ok {
			p.reserve(p.model.DeclaredSymbol(fn), fn.Name, lc)
		}
	}
	//
	for _, stmt := range stmts {
		p.stmt(stmt, lc)
	}
}

// Rewrite a statement into a given lexical context.  Compile-time statements
// are copied into the quotation function, whilst run-time statements are
// generated and added to the accumulator.
func (p *rewriter) stmt(stmt ast.Stmt, lc *Lexical) {
	diag.CheckCancelled(p.ctx)
	//
	if p.result.Scope(stmt).IsCompileTime() {
		p.compileTimeStmt(stmt, lc)
		return
	}
	//
	for _, node := range p.quoteStmt(stmt, lc) {
		lc.Append(p.add(lc.Accumulator(), node))
	}
}

func (p *rewriter) compileTimeStmt(stmt ast.Stmt, lc *Lexical) {
	switch s := stmt.(type) {
	case *ast.Block:
		inner := lc.Child(lexical.CompileTimeBlock)
		p.stmts(s.Stmts, inner)
		inner.Close()
	case *ast.LocalDecl:
		var init ast.Expr
		//
		if s.Init != nil {
			init = p.copyExpr(s.Init, lc)
		}
		//
		alias := lc.Alias(p.model.DeclaredSymbol(s), s.Name)
		lc.Append(p.arena.NewLocalDecl(nil, p.copyType(s.Type), alias, init))
	case *ast.ExprStmt:
		lc.Append(p.arena.NewExprStmt(p.copyExpr(s.Expr, lc)))
	case *ast.If:
		var (
			cond      = p.copyExpr(s.Cond, lc)
			then      = p.helper(s.Then, lc)
			otherwise ast.Stmt
		)
		//
		if s.Else != nil {
			otherwise = p.helper(s.Else, lc)
		}
		//
		lc.Append(p.arena.NewIf(cond, then, otherwise))
	case *ast.While:
		cond := p.copyExpr(s.Cond, lc)
		lc.Append(p.arena.NewWhile(cond, p.helper(s.Body, lc)))
	case *ast.For:
		p.compileTimeFor(s, lc)
	case *ast.Foreach:
		var (
			source = p.copyExpr(s.Source, lc)
			inner  = lc.Child(lexical.HelperScope)
			name   = inner.Alias(p.model.DeclaredSymbol(s), s.Name)
			body   = p.helper(s.Body, inner)
		)
		//
		inner.Close()
		lc.Append(p.arena.NewForeach(p.copyType(s.Type), name, source, body))
	case *ast.Switch:
		var (
			subject  = p.copyExpr(s.Subject, lc)
			sections = make([]*ast.SwitchSection, len(s.Sections))
		)
		//
		for i, section := range s.Sections {
			var (
				labels = p.copyExprs(section.Labels, lc)
				inner  = lc.Child(lexical.HelperScope)
			)
			//
			p.stmts(section.Body, inner)
			sections[i] = p.arena.NewSwitchSection(labels, section.Default, inner.Close())
		}
		//
		lc.Append(p.arena.NewSwitch(subject, sections...))
	case *ast.Break:
		lc.Append(p.arena.NewBreak())
	case *ast.Continue:
		lc.Append(p.arena.NewContinue())
	case *ast.Empty:
		// nothing to do
	default:
		panic(diag.Internal("unexpected compile-time statement %s", ast.Print(stmt)))
	}
}

// A compile-time for loop declares its variables in a scope of its own.  Where
// all of these are compile time, the loop is copied as is.  Otherwise, its
// initialisers are placed in a block enclosing the loop.
func (p *rewriter) compileTimeFor(s *ast.For, lc *Lexical) {
	var (
		inner     = lc.Child(lexical.HelperScope)
		cond      ast.Expr
		steps     []ast.Expr
		copyInits = true
	)
	//
	for _, init := range s.Init {
		copyInits = copyInits && p.result.Scope(init).IsCompileTime()
		p.stmt(init, inner)
	}
	//
	if s.Cond != nil {
		cond = p.copyExpr(s.Cond, inner)
	}
	//
	steps = p.copyExprs(s.Step, inner)
	body := p.helper(s.Body, inner)
	buffer := inner.Close()
	//
	if copyInits && len(buffer) == len(s.Init) {
		lc.Append(p.arena.NewFor(buffer, cond, steps, body))
		return
	}
	//
	buffer = append(buffer, p.arena.NewFor(nil, cond, steps, body))
	lc.Append(p.arena.NewBlock(buffer...))
}

// Construct the quotation code generating a run-time statement.  This returns
// the expressions which generate the statement, in order (usually just one).
// Any quotation statements needed beforehand are appended to the given
// context.
func (p *rewriter) quoteStmt(stmt ast.Stmt, lc *Lexical) []ast.Expr {
	var node ast.Expr
	//
	switch s := stmt.(type) {
	case *ast.Block:
		node = p.runTimeBlock(s.Stmts, lc)
	case *ast.LocalDecl:
		var (
			placeholder = p.reserve(p.model.DeclaredSymbol(s), s.Name, lc)
			init        = p.null()
		)
		//
		if s.Init != nil {
			init = p.quoteExpr(s.Init, lc)
		}
		//
		node = p.syntax(LOCAL, p.typeRef(s.Type), p.name(placeholder), init)
	case *ast.ExprStmt:
		node = p.syntax(EXPR, p.quoteExpr(s.Expr, lc))
	case *ast.If:
		var (
			cond      = p.quoteExpr(s.Cond, lc)
			then      = p.runTimeBody(s.Then, lc)
			otherwise = p.null()
		)
		//
		if s.Else != nil {
			otherwise = p.runTimeBody(s.Else, lc)
		}
		//
		node = p.syntax(IF, cond, then, otherwise)
	case *ast.While:
		cond := p.quoteExpr(s.Cond, lc)
		node = p.syntax(WHILE, cond, p.runTimeBody(s.Body, lc))
	case *ast.For:
		node = p.quoteFor(s, lc)
	case *ast.Foreach:
		var (
			source      = p.quoteExpr(s.Source, lc)
			placeholder = p.reserve(p.model.DeclaredSymbol(s), s.Name, lc)
		)
		//
		node = p.syntax(FOREACH, p.typeRef(s.Type), p.name(placeholder), source, p.runTimeBody(s.Body, lc))
	case *ast.Switch:
		var (
			subject  = p.quoteExpr(s.Subject, lc)
			sections = make([]ast.Expr, len(s.Sections))
		)
		//
		for i, section := range s.Sections {
			labels := p.quoteExprs(section.Labels, lc)
			body := p.runTimeBlock(section.Body, lc)
			sections[i] = p.syntax(SECTION, p.list(labels...), p.boolean(section.Default), body)
		}
		//
		node = p.syntax(SWITCH, subject, p.list(sections...))
	case *ast.Break:
		node = p.syntax(BREAK)
	case *ast.Continue:
		node = p.syntax(CONTINUE)
	case *ast.Return:
		return p.quoteReturn(s, lc)
	case *ast.YieldReturn:
		node = p.syntax(YIELD_RETURN, p.quoteExpr(s.Value, lc))
	case *ast.YieldBreak:
		node = p.syntax(YIELD_BREAK)
	case *ast.LocalFunction:
		var (
			placeholder = p.placeholder(p.model.DeclaredSymbol(s), lc)
			params      = p.quoteParams(s.Params, lc)
		)
		//
		p.functions++
		body := p.runTimeBlock(s.Body.Stmts, lc)
		p.functions--
		//
		node = p.syntax(LOCAL_FUNCTION, p.typeRef(s.Return), p.name(placeholder), p.list(params...), body)
	default:
		panic(diag.Internal("unexpected run-time statement %s", ast.Print(stmt)))
	}
	//
	return []ast.Expr{node}
}

// The initialisers of a run-time for loop are generated as part of the loop,
// except for those executed at compile time (which are executed once, before
// the loop).
func (p *rewriter) quoteFor(s *ast.For, lc *Lexical) ast.Expr {
	var (
		inits []ast.Expr
		cond  = p.null()
	)
	//
	for _, init := range s.Init {
		if p.result.Scope(init).IsCompileTime() {
			p.compileTimeStmt(init, lc)
		} else {
			inits = append(inits, p.quoteStmt(init, lc)...)
		}
	}
	//
	if s.Cond != nil {
		cond = p.quoteExpr(s.Cond, lc)
	}
	//
	steps := p.quoteExprs(s.Step, lc)
	//
	return p.syntax(FOR, p.list(inits...), cond, p.list(steps...), p.runTimeBody(s.Body, lc))
}

// Returns have special shapes for iterators and for dynamic values.  Since an
// iterator cannot return a sequence, it yields the elements of that sequence
// instead.
func (p *rewriter) quoteReturn(s *ast.Return, lc *Lexical) []ast.Expr {
	if s.Value == nil {
		return []ast.Expr{p.syntax(RETURN, p.null())}
	}
	//
	var value = p.quoteExpr(s.Value, lc)
	//
	switch {
	case p.functions > 0:
		return []ast.Expr{p.syntax(RETURN, value)}
	case p.result.Iterator() == infer.ENUMERABLE:
		var (
			item  = p.temporary(ITEM_HINT, lc)
			yield = p.syntax(YIELD_RETURN, p.syntax(NAME, p.name(item)))
			loop  = p.syntax(FOREACH, p.null(), p.name(item), value, p.syntax(BLOCK, p.list(yield)))
		)
		//
		return []ast.Expr{loop, p.syntax(YIELD_BREAK)}
	case p.result.Iterator() == infer.ENUMERATOR:
		var (
			enumerator = p.temporary(ENUMERATOR, lc)
			decl       = p.syntax(LOCAL, p.null(), p.name(enumerator), value)
			next       = p.syntax(INVOKE, p.syntax(MEMBER, p.syntax(NAME, p.name(enumerator)), p.str(MOVE_NEXT)), p.list())
			current    = p.syntax(MEMBER, p.syntax(NAME, p.name(enumerator)), p.str(CURRENT))
			loop       = p.syntax(WHILE, next, p.syntax(BLOCK, p.list(p.syntax(YIELD_RETURN, current))))
		)
		//
		return []ast.Expr{decl, loop, p.syntax(YIELD_BREAK)}
	case !p.template.Return.IsVoid() && p.isDynamic(s.Value):
		return []ast.Expr{p.syntax(RETURN_DYNAMIC, value, p.typeRef(p.template.Return))}
	default:
		return []ast.Expr{p.syntax(RETURN, value)}
	}
}

// Check whether an expression produces a value of unknown type.
func (p *rewriter) isDynamic(e ast.Expr) bool {
	return p.result.Scope(e) == scope.Dynamic || p.model.TypeOf(e).IsDynamic()
}

// Generate the parameters of a run-time local function or lambda, each of which
// is given a fresh name.
func (p *rewriter) quoteParams(params []*ast.Parameter, lc *Lexical) []ast.Expr {
	var nodes = make([]ast.Expr, len(params))
	//
	for i, param := range params {
		placeholder := p.reserve(p.model.DeclaredSymbol(param), param.Name, lc)
		nodes[i] = p.syntax(PARAM, p.typeRef(param.Type), p.name(placeholder))
	}
	//
	return nodes
}
