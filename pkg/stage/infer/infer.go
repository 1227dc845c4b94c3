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
	"context"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/scope"
	"github.com/consensys/go-stager/pkg/stage/semantic"
	"github.com/consensys/go-stager/pkg/util/source"
)

// Model captures what inference needs to know about the symbols and types of a
// member.  Implementations must be safe for concurrent use when members are
// inferred concurrently.
type Model interface {
	// Resolve returns the symbol referred to by a node (or nil).
	Resolve(ast.Node) *semantic.Symbol
	// TypeOf returns the type of an expression or type reference (or nil).
	TypeOf(ast.Node) *semantic.Type
	// DeclaredSymbol returns the symbol declared by a node (or nil).
	DeclaredSymbol(ast.Node) *semantic.Symbol
	// IntrinsicScope returns the scope of a symbol regardless of its use.
	IntrinsicScope(*semantic.Symbol) scope.Scope
	// IntrinsicTypeScope returns the scope of values of a type.
	IntrinsicTypeScope(*semantic.Type) scope.Scope
	// Locate returns the source location of a node.
	Locate(ast.NodeId) source.Location
}

// Context is the scope context threaded through inference.
type Context = scope.Context[*semantic.Symbol]

// Names of the built-in type and methods given special treatment.
const (
	META         = "Meta"
	COMPILE_TIME = "CompileTime"
	RUN_TIME     = "RunTime"
)

// InferScopes determines the scope of every node in the body of a given member,
// reporting any problems to the given sink.  The result reports success only
// if no error was reported.  An error is returned (and no result) only if an
// internal error arose, or the given context was cancelled.
func InferScopes(ctx context.Context, model Model, member *ast.Member, sink *diag.Sink) (*Result, error) {
	return Reinfer(ctx, newResult(member, model), sink)
}

// Reinfer repeats inference over a member whose scopes have already been
// inferred, updating the given result.  Since inference is deterministic, this
// leaves every recorded scope unchanged; any attempt to change one is an
// internal error.
func Reinfer(ctx context.Context, result *Result, sink *diag.Sink) (res *Result, err error) {
	defer diag.Recover("scope inference", &err)
	//
	p := inferrer{ctx, result.model, sink, result}
	p.member(result.member)
	result.success = !sink.HasErrors()
	//
	return result, nil
}

type inferrer struct {
	ctx    context.Context
	model  Model
	sink   *diag.Sink
	result *Result
}

func (p *inferrer) member(member *ast.Member) {
	var root = scope.Root[*semantic.Symbol]()
	//
	p.result.iterator = iteratorKind(p.model.TypeOf(member.Return))
	p.typeRef(member.Return)
	//
	for _, tp := range member.TypeParams {
		p.result.set(tp, p.model.IntrinsicScope(p.model.DeclaredSymbol(tp)))
	}
	//
	for _, param := range member.Params {
		p.typeRef(param.Type)
		p.result.set(param, p.model.IntrinsicScope(p.model.DeclaredSymbol(param)))
	}
	//
	p.block(member.Body, root)
	p.result.set(member, scope.RunTimeOnly)
	// Decide how typeof expressions are staged
	ast.Walk(member.Body, func(n ast.Node) bool {
		if e, ok := n.(*ast.TypeOf); ok {
			p.result.typeofs[e.Id()] = p.decideTypeOf(e)
		}
		//
		return true
	})
}

func iteratorKind(t *semantic.Type) IteratorKind {
	switch {
	case t == nil || t.Rank != 0 || len(t.Args) != 1:
		return NOT_ITERATOR
	case t.Name == "IEnumerable":
		return ENUMERABLE
	case t.Name == "IEnumerator":
		return ENUMERATOR
	default:
		return NOT_ITERATOR
	}
}

// Settle the scope of a node against the requirements of its context, and
// record it.  Any problem is reported and replaced by the neutral scope, such
// that it does not cascade to the enclosing nodes.
func (p *inferrer) settle(node ast.Node, s scope.Scope, ctx Context) scope.Scope {
	if s == scope.Dynamic && ctx.IsDynamicForbidden() {
		p.sink.Report(node, diag.DynamicForbidden, ctx.Reason())
		s = scope.Neutral
	}
	//
	if s == scope.LateBound {
		p.sink.Report(node, diag.Unresolved, describe(node))
		s = scope.Neutral
	}
	//
	if forced := ctx.Forced(); forced.HasValue() {
		if m := scope.Meet(s, forced.Unwrap()); m == scope.Conflict {
			p.sink.Report(node, diag.ScopeMismatch, s, forced.Unwrap(), ctx.Reason())
			s = scope.Neutral
		} else {
			s = m
		}
	}
	//
	return p.result.set(node, s)
}

// Check the compile-time children of a run-time node, whose values must be
// reconstructed at run time.
func (p *inferrer) splices(parent scope.Scope, children ...ast.Expr) {
	if !parent.IsRunTime() {
		return
	}
	//
	for _, child := range children {
		if child == nil {
			continue
		}
		//
		s := p.result.Scope(child)
		//
		if s.IsCompileTime() && s.ValueScope() != scope.RunTimeOnly {
			if t := p.model.TypeOf(child); p.model.IntrinsicTypeScope(t) == scope.CompileTimeOnly {
				p.sink.Report(child, diag.NotSerializable, t)
			}
		}
	}
}

// Determine whether a value of a given scope is available at compile time.
// Neutral values are, and are computed then.
func isCompileTimeValue(s scope.Scope) bool {
	switch s.ValueScope() {
	case scope.CompileTimeOnly, scope.RunTimeOrCompileTime:
		return true
	default:
		return false
	}
}

// Produce a short description of a node for use in diagnostics.
func describe(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Name:
		return n.Ident
	case *ast.MemberAccess:
		return n.Name
	case ast.Expr:
		return ast.Print(n)
	default:
		return "expression"
	}
}
