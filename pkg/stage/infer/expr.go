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

// Infer the scope of an expression within a given context.
func (p *inferrer) expr(expr ast.Expr, ctx Context) scope.Scope {
	var s scope.Scope
	//
	switch e := expr.(type) {
	case *ast.Literal:
		s = scope.Neutral
	case *ast.Name:
		s = p.name(e)
	case *ast.MemberAccess:
		s = p.memberAccess(e, ctx)
	case *ast.ElementAccess:
		s = p.elementAccess(e, ctx)
	case *ast.Invocation:
		return p.invocation(e, ctx, false)
	case *ast.Binary:
		var (
			lhs = p.expr(e.Left, ctx)
			rhs = p.expr(e.Right, ctx)
		)
		//
		s = scope.Combine(scope.Neutral, lhs, rhs)
		p.splices(s, e.Left, e.Right)
	case *ast.Unary:
		s = p.unary(e, ctx)
	case *ast.Assignment:
		s = p.assignment(e, ctx)
	case *ast.Conditional:
		var (
			cond      = p.expr(e.Cond, ctx)
			then      = p.expr(e.Then, ctx)
			otherwise = p.expr(e.Else, ctx)
		)
		//
		s = scope.Combine(scope.Neutral, cond, then, otherwise)
		p.splices(s, e.Cond, e.Then, e.Else)
	case *ast.Cast:
		s = scope.Combine(scope.Neutral, p.typeRef(e.Type), p.expr(e.Operand, ctx))
		p.splices(s, e.Operand)
	case *ast.TypeOf:
		s = p.typeOf(e)
	case *ast.NameOf:
		s = p.nameOf(e, ctx)
	case *ast.Lambda:
		s = p.lambda(e, ctx)
	case *ast.AnonymousMethod:
		p.unsupported(e, "anonymous method")
		s = scope.Neutral
	case *ast.ObjectCreation:
		s = p.objectCreation(e, ctx)
	case *ast.AnonymousObject:
		var (
			nodes  = make([]ast.Node, len(e.Members))
			values = make([]ast.Expr, len(e.Members))
		)
		//
		for i, m := range e.Members {
			nodes[i], values[i] = m, m.Value
		}
		//
		s = p.anonymous(nodes, values, ctx)
	case *ast.ArrayCreation:
		var scopes = []scope.Scope{p.typeRef(e.Element)}
		//
		for _, item := range e.Items {
			scopes = append(scopes, p.expr(item, ctx))
		}
		//
		s = scope.Combine(scope.Neutral, scopes...)
		p.splices(s, e.Items...)
	case *ast.Tuple:
		var (
			nodes  = make([]ast.Node, len(e.Elements))
			values = make([]ast.Expr, len(e.Elements))
		)
		//
		for i, elem := range e.Elements {
			nodes[i], values[i] = elem, elem.Value
		}
		//
		s = p.anonymous(nodes, values, ctx)
	case *ast.Query:
		p.unsupported(e, "query expression")
		s = scope.Neutral
	default:
		panic("unknown expression encountered")
	}
	//
	return p.settle(expr, s, ctx)
}

// Names refer either to locals, whose scope was recorded when they were
// declared, or to other symbols whose scope is intrinsic.
func (p *inferrer) name(e *ast.Name) scope.Scope {
	var (
		symbol = p.model.Resolve(e)
		s      scope.Scope
	)
	//
	if symbol == nil {
		return scope.Neutral
	} else if local, ok := p.result.locals[symbol]; ok {
		s = local
	} else if symbol.IsLocal() {
		// Not declared yet
		return scope.LateBound
	} else {
		s = p.model.IntrinsicScope(symbol)
	}
	// Run-time values of dynamic type are dynamic
	if s == scope.RunTimeOnly && p.model.TypeOf(e).IsDynamic() {
		return scope.Dynamic
	}
	//
	return s
}

func (p *inferrer) memberAccess(e *ast.MemberAccess, ctx Context) scope.Scope {
	var (
		symbol = p.model.Resolve(e)
		target = p.model.TypeOf(e.Target)
		member scope.Scope
	)
	//
	switch local, ok := p.result.locals[symbol]; {
	case target.IsDynamic():
		member = scope.Dynamic
	case symbol == nil:
		member = scope.Neutral
	case ok:
		member = local
	case symbol.Kind == semantic.ANONYMOUS_MEMBER:
		return p.createdMember(e, symbol, ctx)
	default:
		member = p.model.IntrinsicScope(symbol)
	}
	// Compile-time members require compile-time targets
	if member.IsCompileTime() {
		reason := fmt.Sprintf("target of compile-time member '%s'", e.Name)
		p.expr(e.Target, ctx.Unforced().Force(scope.CompileTimeOnly, reason).ForbidDynamic())
		//
		return member
	}
	//
	var left scope.Scope
	//
	if member.IsNeutral() {
		left = p.expr(e.Target, ctx)
	} else {
		left = p.expr(e.Target, ctx.Unforced())
	}
	//
	if left == scope.Dynamic || member == scope.Dynamic {
		return scope.Dynamic
	}
	//
	s := scope.Meet(left.ValueScope(), member)
	//
	if s == scope.Conflict {
		p.sink.Report(e, diag.CombinationConflict, left, member)
		return scope.Neutral
	}
	//
	p.splices(s, e.Target)
	//
	return s
}

// Access a member of an anonymous object whose creation has not been visited
// yet, as in "(new { A = x }).A".  The target records the member's scope, and
// a member which remains unrecorded cannot be scoped.
func (p *inferrer) createdMember(e *ast.MemberAccess, symbol *semantic.Symbol, ctx Context) scope.Scope {
	var left = p.expr(e.Target, ctx.Unforced())
	//
	member, ok := p.result.locals[symbol]
	//
	switch {
	case !ok:
		return scope.LateBound
	case left == scope.Dynamic || member == scope.Dynamic:
		return scope.Dynamic
	}
	//
	s := scope.Meet(left.ValueScope(), member)
	//
	if s == scope.Conflict {
		p.sink.Report(e, diag.CombinationConflict, left, member)
		return scope.Neutral
	}
	//
	p.splices(s, e.Target)
	//
	return s
}

func (p *inferrer) elementAccess(e *ast.ElementAccess, ctx Context) scope.Scope {
	var scopes = []scope.Scope{p.expr(e.Target, ctx)}
	//
	for _, index := range e.Indices {
		scopes = append(scopes, p.expr(index, ctx))
	}
	//
	s := scope.Combine(scope.Neutral, scopes...)
	p.splices(s, e.Target)
	p.splices(s, e.Indices...)
	//
	return s
}

// Infer the scope of an invocation.  The scope of a resolved callee determines
// the scope of its arguments; otherwise, the scope is inferred from the
// arguments, preferring compile time in expressions and run time in statements
// (where the call is assumed to have a run-time effect).
func (p *inferrer) invocation(e *ast.Invocation, ctx Context, statement bool) scope.Scope {
	var (
		symbol = p.model.Resolve(e)
		callee scope.Scope
		s      scope.Scope
	)
	//
	if isMeta(symbol, COMPILE_TIME) || isMeta(symbol, RUN_TIME) {
		return p.settle(e, p.meta(e, symbol, ctx), ctx)
	}
	//
	callee = p.expr(e.Callee, ctx.Unforced())
	//
	switch {
	case callee == scope.Dynamic || callee == scope.RunTimeOnly:
		s = callee
		//
		for _, arg := range e.Args {
			p.expr(arg, ctx.Unforced().Prefer(scope.RunTimeOnly))
			//
			if t := p.model.TypeOf(arg); p.model.IntrinsicTypeScope(t) == scope.CompileTimeOnly {
				p.sink.Report(arg, diag.CompileTimeArgument, t, calleeName(e))
			}
		}
	case callee.IsCompileTime():
		s = callee
		reason := fmt.Sprintf("argument of compile-time method '%s'", calleeName(e))
		//
		for _, arg := range e.Args {
			p.expr(arg, ctx.Unforced().Force(scope.CompileTimeOnly, reason).ForbidDynamic())
		}
	default:
		var (
			scopes = []scope.Scope{callee}
			bias   = scope.CompileTimeOnlyReturningBoth
		)
		//
		if statement {
			bias = scope.RunTimeOnly
		}
		//
		for _, arg := range e.Args {
			scopes = append(scopes, p.expr(arg, ctx))
		}
		//
		s = scope.Combine(bias, scopes...)
		p.splices(s, e.Args...)
	}
	//
	return p.settle(e, s, ctx)
}

// Meta.CompileTime(e) evaluates its argument at compile time, whilst
// Meta.RunTime(e) reconstructs the value of its argument at run time.
func (p *inferrer) meta(e *ast.Invocation, symbol *semantic.Symbol, ctx Context) scope.Scope {
	// The callee itself is only a marker
	ast.Walk(e.Callee, func(n ast.Node) bool {
		p.result.set(n, scope.CompileTimeOnly)
		return true
	})
	//
	if symbol.Name == COMPILE_TIME {
		for _, arg := range e.Args {
			p.expr(arg, ctx.Unforced().Force(scope.CompileTimeOnly, "argument of Meta.CompileTime").ForbidDynamic())
		}
		//
		return scope.CompileTimeOnly
	}
	//
	for _, arg := range e.Args {
		p.expr(arg, ctx.Unforced())
	}
	//
	p.splices(scope.RunTimeOnly, e.Args...)
	//
	return scope.RunTimeOnly
}

func isMeta(symbol *semantic.Symbol, name string) bool {
	return symbol != nil && symbol.Kind == semantic.METHOD && symbol.Name == name && symbol.Owner != nil &&
		symbol.Owner.Name == META
}

func calleeName(e *ast.Invocation) string {
	switch callee := e.Callee.(type) {
	case *ast.Name:
		return callee.Ident
	case *ast.MemberAccess:
		return callee.Name
	default:
		return ast.Print(callee)
	}
}

func (p *inferrer) unary(e *ast.Unary, ctx Context) scope.Scope {
	if !e.Op.IsMutation() {
		s := scope.Combine(scope.Neutral, p.expr(e.Operand, ctx))
		p.splices(s, e.Operand)
		//
		return s
	}
	//
	target := p.expr(e.Operand, ctx.Unforced())
	p.mutation(e, e.Operand, target, ctx)
	//
	return target.ExecutionScope()
}

// An assignment has the scope of its target, which determines the scope of the
// assigned value.
func (p *inferrer) assignment(e *ast.Assignment, ctx Context) scope.Scope {
	var target = p.expr(e.Target, ctx.Unforced())
	//
	p.mutation(e, e.Target, target, ctx)
	//
	switch {
	case target.IsCompileTime():
		p.expr(e.Value, ctx.Unforced().Force(scope.CompileTimeOnly, "value assigned to compile-time target").
			ForbidDynamic())
		//
		return scope.CompileTimeOnly
	case target.IsNeutral():
		return scope.Combine(scope.Neutral, p.expr(e.Value, ctx.Unforced()))
	}
	//
	p.expr(e.Value, ctx.Unforced().Prefer(scope.RunTimeOnly))
	p.splices(scope.RunTimeOnly, e.Value)
	//
	return target
}

// Check the modification of a compile-time target within a run-time-conditional
// block, which is permitted only for locals declared within that block.
func (p *inferrer) mutation(node ast.Node, target ast.Expr, s scope.Scope, ctx Context) {
	var c = ctx.Conditional()
	//
	if c == nil || !s.IsCompileTime() {
		return
	}
	//
	if symbol := p.rootLocal(target); symbol != nil && !c.Declares(symbol) {
		p.sink.Report(node, diag.CompileTimeMutation, symbol.Name, c.Reason())
	}
}

// Determine the local whose contents are modified when assigning to a given
// target (e.g. x in "x.f[i] = e"), or nil if there is none.
func (p *inferrer) rootLocal(target ast.Expr) *semantic.Symbol {
	switch e := target.(type) {
	case *ast.Name:
		if symbol := p.model.Resolve(e); symbol != nil && symbol.IsLocal() {
			return symbol
		}
	case *ast.MemberAccess:
		return p.rootLocal(e.Target)
	case *ast.ElementAccess:
		return p.rootLocal(e.Target)
	}
	//
	return nil
}

// A typeof is evaluated at compile time, unless it mentions a template type
// parameter, in which case the type is only known in the generated code.
func (p *inferrer) typeOf(e *ast.TypeOf) scope.Scope {
	p.typeRef(e.Type)
	//
	if p.decideTypeOf(e) == RECONSTRUCT {
		return scope.RunTimeOnly
	}
	//
	return scope.Neutral
}

func (p *inferrer) decideTypeOf(e *ast.TypeOf) TypeOfDecision {
	var t = p.model.TypeOf(e.Type)
	//
	if t != nil && t.Mentions(isTemplateTypeParameter) {
		return RECONSTRUCT
	}
	//
	return DIRECT_REFERENCE
}

func isTemplateTypeParameter(t *semantic.Type) bool {
	return t.IsTypeParameter() && t.Symbol.Owner != nil && t.Symbol.Owner.Kind == semantic.TEMPLATE
}

// A nameof is a compile-time literal, unless its operand is a run-time
// parameter whose name is only known in the generated code.
func (p *inferrer) nameOf(e *ast.NameOf, ctx Context) scope.Scope {
	var (
		operand = p.expr(e.Operand, ctx.Unforced())
		symbol  = p.model.Resolve(e.Operand)
	)
	//
	if symbol != nil && operand.IsRunTime() &&
		(symbol.Kind == semantic.PARAMETER || symbol.Kind == semantic.TYPE_PARAMETER) {
		p.result.nameofs[e.Id()] = PASS_THROUGH
		return scope.RunTimeOnly
	}
	//
	p.result.nameofs[e.Id()] = LITERAL
	//
	return scope.Neutral
}

// The scope of an expression-bodied lambda is determined by its context, and
// defaults to run time.  The body of a run-time lambda executes only if the
// lambda is called.
func (p *inferrer) lambda(e *ast.Lambda, ctx Context) scope.Scope {
	var (
		s    = ctx.Forced().Or(ctx.Preferred()).UnwrapOr(scope.RunTimeOnly).ExecutionScope()
		body ast.Expr
		ok   bool
	)
	//
	if body, ok = e.Body.(ast.Expr); !ok {
		p.unsupported(e, "statement-bodied lambda")
		return scope.Neutral
	} else if s.IsNeutral() {
		s = scope.RunTimeOnly
	}
	//
	inner := ctx.Unforced().RunTimeConditional("lambda call").Prefer(scope.RunTimeOnly)
	//
	if s == scope.CompileTimeOnly {
		inner = ctx.Unforced().Force(scope.CompileTimeOnly, "body of compile-time lambda").ForbidDynamic()
	}
	//
	for _, param := range e.Params {
		p.typeRef(param.Type)
		p.declare(p.model.DeclaredSymbol(param), s, inner)
		p.result.set(param, s)
	}
	//
	p.expr(body, inner)
	//
	return s
}

// The scope of an object creation is determined by its type when that is not
// neutral, otherwise by its arguments and initialisers.  Member initialisers
// take the scope of their value.
func (p *inferrer) objectCreation(e *ast.ObjectCreation, ctx Context) scope.Scope {
	var (
		typ    = p.typeRef(e.Type)
		inner  = ctx
		scopes = []scope.Scope{typ}
		values []ast.Expr
	)
	//
	switch {
	case typ == scope.CompileTimeOnly:
		inner = ctx.Unforced().Force(scope.CompileTimeOnly, "initialiser of compile-time type").ForbidDynamic()
	case typ == scope.RunTimeOnly:
		inner = ctx.Unforced().Prefer(scope.RunTimeOnly)
	}
	//
	for _, arg := range e.Args {
		scopes = append(scopes, p.expr(arg, inner))
		values = append(values, arg)
	}
	//
	for _, init := range e.Initializers {
		if assign, ok := init.(*ast.Assignment); ok && p.isMemberInitialiser(assign) {
			s := p.expr(assign.Value, inner)
			p.result.set(assign.Target, s)
			scopes = append(scopes, p.result.set(assign, s))
			values = append(values, assign.Value)
		} else {
			scopes = append(scopes, p.expr(init, inner))
			values = append(values, init)
		}
	}
	//
	s := scope.Combine(scope.Neutral, scopes...)
	p.splices(s, values...)
	//
	return s
}

func (p *inferrer) isMemberInitialiser(assign *ast.Assignment) bool {
	if _, ok := assign.Target.(*ast.Name); ok {
		symbol := p.model.Resolve(assign.Target)
		return symbol != nil && (symbol.Kind == semantic.FIELD || symbol.Kind == semantic.METHOD)
	}
	//
	return false
}

// Infer the scope of an anonymous object or tuple, given its member nodes and
// their values.  The scope of each member is fixed when the object is created:
// members of a compile-time object are compile time, and all others are run
// time.
func (p *inferrer) anonymous(nodes []ast.Node, values []ast.Expr, ctx Context) scope.Scope {
	var (
		scopes = make([]scope.Scope, len(values))
		member = scope.RunTimeOnly
	)
	//
	for i, value := range values {
		scopes[i] = p.result.set(nodes[i], p.expr(value, ctx))
	}
	//
	s := scope.Combine(scope.Neutral, scopes...)
	p.splices(s, values...)
	//
	if s.IsCompileTime() {
		member = scope.CompileTimeOnly
	}
	//
	for _, n := range nodes {
		p.declare(p.model.DeclaredSymbol(n), member, ctx)
	}
	//
	return s
}

// Determine the scope of a type reference.  Types are neutral, unless they (or
// their arguments) are declared otherwise, or are template type parameters.
func (p *inferrer) typeRef(ref *ast.TypeRef) scope.Scope {
	var scopes []scope.Scope
	//
	if ref == nil {
		return scope.Neutral
	}
	//
	if symbol := p.model.Resolve(ref); symbol != nil && symbol.Kind == semantic.TYPE_PARAMETER {
		scopes = append(scopes, p.model.IntrinsicScope(symbol))
	} else if t := p.model.TypeOf(ref); t != nil && t.IsDynamic() {
		scopes = append(scopes, scope.Dynamic)
	} else if symbol != nil {
		scopes = append(scopes, p.model.IntrinsicScope(symbol))
	}
	//
	for _, arg := range ref.Args {
		scopes = append(scopes, p.typeRef(arg))
	}
	//
	return p.result.set(ref, scope.Combine(scope.Neutral, scopes...))
}
