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
package infer

import (
	"fmt"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/scope"
	"github.com/consensys/go-stager/pkg/stage/semantic"
)

// Infer the scope of a statement.  Every statement is either compile time
// (it executes whilst expanding) or run time (it is emitted into the generated
// code).
func (p *inferrer) stmt(stmt ast.Stmt, ctx Context) scope.Scope {
	var s scope.Scope
	//
	diag.CheckCancelled(p.ctx)
	//
	switch st := stmt.(type) {
	case *ast.Block:
		return p.block(st, ctx)
	case *ast.LocalDecl:
		s = p.localDecl(st, ctx)
	case *ast.ExprStmt:
		s = p.exprStmt(st, ctx)
	case *ast.If:
		s = p.ifStmt(st, ctx)
	case *ast.While:
		s = p.whileStmt(st, ctx)
	case *ast.For:
		s = p.forStmt(st, ctx)
	case *ast.Foreach:
		s = p.foreachStmt(st, ctx)
	case *ast.Switch:
		s = p.switchStmt(st, ctx)
	case *ast.Break:
		s = p.jump(st, "break", ctx.BreakTarget(), ctx)
	case *ast.Continue:
		s = p.jump(st, "continue", ctx.ContinueTarget(), ctx)
	case *ast.Return:
		s = scope.RunTimeOnly
		//
		if st.Value != nil {
			p.expr(st.Value, ctx.Unforced().Prefer(scope.RunTimeOnly))
			p.splices(s, st.Value)
		}
	case *ast.YieldReturn:
		s = scope.RunTimeOnly
		//
		if p.result.iterator == NOT_ITERATOR {
			p.sink.Report(st, diag.Unsupported, "'yield' outside of an iterator")
		}
		//
		p.expr(st.Value, ctx.Unforced().Prefer(scope.RunTimeOnly))
		p.splices(s, st.Value)
	case *ast.YieldBreak:
		s = scope.RunTimeOnly
	case *ast.LocalFunction:
		s = p.localFunction(st, ctx)
	case *ast.Empty:
		s = scope.CompileTimeOnly
	case *ast.DoWhile:
		s = p.unsupported(st, "'do'-'while' loop")
	case *ast.Goto:
		s = p.unsupported(st, "'goto' statement")
	case *ast.Labeled:
		s = p.unsupported(st, "labeled statement")
	case *ast.Unsafe:
		s = p.unsupported(st, "'unsafe' block")
	default:
		panic("unknown statement encountered")
	}
	//
	return p.result.set(stmt, s)
}

// Report a construct which cannot be staged.  Its children are not visited.
func (p *inferrer) unsupported(node ast.Node, what string) scope.Scope {
	p.sink.Report(node, diag.Unsupported, what)
	return scope.RunTimeOnly
}

// A block executes at compile time when all of its statements do, in which case
// it is flattened into its parent.
func (p *inferrer) block(block *ast.Block, ctx Context) scope.Scope {
	var s = scope.CompileTimeOnly
	// Local functions can be referenced before their declaration.
	for _, stmt := range block.Stmts {
		if fn, ok := stmt.(*ast.LocalFunction); ok {
			p.result.setLocal(p.model.DeclaredSymbol(fn), scope.RunTimeOnly)
		}
	}
	//
	for _, stmt := range block.Stmts {
		if p.stmt(stmt, ctx) == scope.RunTimeOnly {
			s = scope.RunTimeOnly
		}
	}
	//
	return p.result.set(block, s)
}

// The scope of a local is determined by its attributes, or else by its type, or
// else by its initialiser.  Locals initialised with compile-time values are
// compile time; all others are run time.
func (p *inferrer) localDecl(decl *ast.LocalDecl, ctx Context) scope.Scope {
	var (
		symbol = p.model.DeclaredSymbol(decl)
		local  = scope.LateBound
		reason = fmt.Sprintf("initialiser of compile-time local '%s'", decl.Name)
	)
	//
	p.typeRef(decl.Type)
	//
	switch {
	case ast.HasAttribute(decl.Attributes, semantic.COMPILE_TIME):
		local = scope.CompileTimeOnly
	case ast.HasAttribute(decl.Attributes, semantic.RUN_TIME):
		local = scope.RunTimeOnly
	case ctx.Forced().HasValue():
		local = ctx.Forced().Unwrap().ExecutionScope()
	case p.model.IntrinsicTypeScope(symbol.Type) == scope.CompileTimeOnly:
		local = scope.CompileTimeOnly
	}
	//
	switch {
	case decl.Init == nil && local == scope.LateBound:
		local = scope.RunTimeOnly
	case decl.Init == nil:
		// nothing to infer
	case local == scope.CompileTimeOnly:
		p.expr(decl.Init, ctx.Unforced().Force(scope.CompileTimeOnly, reason).ForbidDynamic())
	case local == scope.RunTimeOnly:
		p.expr(decl.Init, ctx.Unforced().Prefer(scope.RunTimeOnly))
	default:
		if init := p.expr(decl.Init, ctx.Unforced()); init.ValueScope() == scope.CompileTimeOnly {
			local = scope.CompileTimeOnly
		} else {
			local = scope.RunTimeOnly
		}
	}
	//
	p.splices(local, decl.Init)
	p.declare(symbol, local, ctx)
	//
	return local
}

// Record the scope of a local declared at the current position.
func (p *inferrer) declare(symbol *semantic.Symbol, s scope.Scope, ctx Context) {
	p.result.setLocal(symbol, s)
	//
	if c := ctx.Conditional(); c != nil {
		c.Declare(symbol)
	}
}

// An expression statement is run time, unless its expression executes at
// compile time without producing run-time code.
func (p *inferrer) exprStmt(stmt *ast.ExprStmt, ctx Context) scope.Scope {
	var s scope.Scope
	//
	if call, ok := stmt.Expr.(*ast.Invocation); ok {
		s = p.invocation(call, ctx, true)
	} else {
		s = p.expr(stmt.Expr, ctx)
	}
	//
	if s.IsCompileTime() && s.ValueScope() != scope.RunTimeOnly {
		return scope.CompileTimeOnly
	}
	//
	return scope.RunTimeOnly
}

func (p *inferrer) ifStmt(stmt *ast.If, ctx Context) scope.Scope {
	var cond = p.expr(stmt.Cond, ctx.Unforced())
	// A compile-time condition selects a branch whilst expanding.
	if isCompileTimeValue(cond) {
		p.stmt(stmt.Then, ctx)
		//
		if stmt.Else != nil {
			p.stmt(stmt.Else, ctx)
		}
		//
		return scope.CompileTimeOnly
	}
	//
	p.stmt(stmt.Then, ctx.RunTimeConditional("'if' condition"))
	//
	if stmt.Else != nil {
		p.stmt(stmt.Else, ctx.RunTimeConditional("'if' condition"))
	}
	//
	return scope.RunTimeOnly
}

func (p *inferrer) whileStmt(stmt *ast.While, ctx Context) scope.Scope {
	var cond = p.expr(stmt.Cond, ctx.Unforced())
	//
	if isCompileTimeValue(cond) {
		p.compileTimeLoop(stmt, ctx)
		p.stmt(stmt.Body, ctx.Loop(scope.CompileTimeOnly))
		//
		return scope.CompileTimeOnly
	}
	//
	p.stmt(stmt.Body, ctx.RunTimeConditional("'while' condition").Loop(scope.RunTimeOnly))
	//
	return scope.RunTimeOnly
}

func (p *inferrer) forStmt(stmt *ast.For, ctx Context) scope.Scope {
	var cond = scope.RunTimeOnly
	//
	for _, init := range stmt.Init {
		p.stmt(init, ctx)
	}
	//
	if stmt.Cond != nil {
		cond = p.expr(stmt.Cond, ctx.Unforced())
	}
	//
	if isCompileTimeValue(cond) {
		p.compileTimeLoop(stmt, ctx)
		//
		for _, step := range stmt.Step {
			p.expr(step, ctx.Unforced())
		}
		//
		p.stmt(stmt.Body, ctx.Loop(scope.CompileTimeOnly))
		//
		return scope.CompileTimeOnly
	}
	// Steps execute once per iteration, hence are conditional as well.
	var inner = ctx.RunTimeConditional("'for' condition").Loop(scope.RunTimeOnly)
	//
	for _, step := range stmt.Step {
		p.expr(step, inner.Unforced())
	}
	//
	p.stmt(stmt.Body, inner)
	//
	return scope.RunTimeOnly
}

func (p *inferrer) foreachStmt(stmt *ast.Foreach, ctx Context) scope.Scope {
	var (
		source = p.expr(stmt.Source, ctx.Unforced())
		symbol = p.model.DeclaredSymbol(stmt)
	)
	//
	p.typeRef(stmt.Type)
	//
	if isCompileTimeValue(source) {
		p.compileTimeLoop(stmt, ctx)
		p.declare(symbol, scope.CompileTimeOnly, ctx)
		p.stmt(stmt.Body, ctx.Loop(scope.CompileTimeOnly))
		//
		return scope.CompileTimeOnly
	}
	//
	var inner = ctx.RunTimeConditional("'foreach' source").Loop(scope.RunTimeOnly)
	//
	p.declare(symbol, scope.RunTimeOnly, inner)
	p.splices(scope.RunTimeOnly, stmt.Source)
	p.stmt(stmt.Body, inner)
	//
	return scope.RunTimeOnly
}

// A compile-time loop is unrolled whilst expanding, which cannot happen within
// a block executed at run time.
func (p *inferrer) compileTimeLoop(loop ast.Stmt, ctx Context) {
	if c := ctx.Conditional(); c != nil {
		p.sink.Report(loop, diag.CompileTimeLoop, c.Reason())
	}
}

func (p *inferrer) switchStmt(stmt *ast.Switch, ctx Context) scope.Scope {
	var (
		subject = p.expr(stmt.Subject, ctx.Unforced())
		s       = scope.RunTimeOnly
	)
	//
	if isCompileTimeValue(subject) {
		s = scope.CompileTimeOnly
	}
	//
	for _, section := range stmt.Sections {
		var inner = ctx.Switch(s)
		//
		if s == scope.RunTimeOnly {
			inner = ctx.RunTimeConditional("'switch' subject").Switch(s)
		}
		//
		for _, label := range section.Labels {
			p.expr(label, ctx.Unforced())
		}
		//
		p.splices(s, section.Labels...)
		//
		for _, body := range section.Body {
			p.stmt(body, inner)
		}
		//
		p.result.set(section, s)
	}
	//
	return s
}

// A break or continue has the scope of the construct it leaves.  A compile-time
// jump cannot cross a run-time-conditional block, since whether the block
// executes is not known whilst expanding.
func (p *inferrer) jump(stmt ast.Stmt, keyword string, target *scope.Target[*semantic.Symbol], ctx Context) scope.Scope {
	switch {
	case target == nil:
		return p.unsupported(stmt, fmt.Sprintf("'%s' outside of a loop", keyword))
	case target.Scope == scope.CompileTimeOnly && ctx.Conditional() != target.Conditional:
		p.sink.Report(stmt, diag.CompileTimeJump, keyword, ctx.Conditional().Reason())
	}
	//
	return target.Scope
}

// Local functions are emitted into the generated code, and their bodies execute
// only if called.
func (p *inferrer) localFunction(fn *ast.LocalFunction, ctx Context) scope.Scope {
	var inner = ctx.Unforced().RunTimeConditional("local function call")
	//
	p.typeRef(fn.Return)
	//
	for _, param := range fn.Params {
		p.typeRef(param.Type)
		p.declare(p.model.DeclaredSymbol(param), scope.RunTimeOnly, inner)
		p.result.set(param, scope.RunTimeOnly)
	}
	//
	p.block(fn.Body, inner)
	//
	return scope.RunTimeOnly
}
