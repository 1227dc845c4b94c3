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
	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/scope"
	"github.com/consensys/go-stager/pkg/stage/semantic"
)

// TypeOfDecision determines how a typeof expression is staged.
type TypeOfDecision uint8

const (
	// DIRECT_REFERENCE indicates the type is spelled out in full, and can be
	// referenced directly by the generated code.
	DIRECT_REFERENCE TypeOfDecision = iota
	// RECONSTRUCT indicates the type mentions a template type parameter, and
	// must be reconstructed from the types bound by an expansion.
	RECONSTRUCT
)

// NameOfDecision determines how a nameof expression is staged.
type NameOfDecision uint8

const (
	// LITERAL indicates the name is known whilst compiling, and becomes a
	// string literal.
	LITERAL NameOfDecision = iota
	// PASS_THROUGH indicates the operand is a run-time parameter (or type
	// parameter), and the nameof expression is carried into the generated code.
	PASS_THROUGH
)

// IteratorKind identifies templates whose bodies produce a sequence.
type IteratorKind uint8

const (
	// NOT_ITERATOR indicates an ordinary template.
	NOT_ITERATOR IteratorKind = iota
	// ENUMERABLE indicates a template returning IEnumerable<T>.
	ENUMERABLE
	// ENUMERATOR indicates a template returning IEnumerator<T>.
	ENUMERATOR
)

// Result holds the outcome of inferring the scopes of a single member.  It is
// a set of side tables keyed by node (or symbol), which the quotation rewriter
// consumes read-only.
type Result struct {
	member *ast.Member
	model  Model
	// Scope of every visited node.
	scopes map[ast.NodeId]scope.Scope
	// Scope of every local symbol, written once.
	locals map[*semantic.Symbol]scope.Scope
	// Staging decisions for typeof and nameof expressions.
	typeofs map[ast.NodeId]TypeOfDecision
	nameofs map[ast.NodeId]NameOfDecision
	// Iterator kind of the template.
	iterator IteratorKind
	// Whether inference succeeded without errors.
	success bool
}

func newResult(member *ast.Member, model Model) *Result {
	return &Result{
		member:  member,
		model:   model,
		scopes:  make(map[ast.NodeId]scope.Scope),
		locals:  make(map[*semantic.Symbol]scope.Scope),
		typeofs: make(map[ast.NodeId]TypeOfDecision),
		nameofs: make(map[ast.NodeId]NameOfDecision),
	}
}

// Member returns the member whose scopes were inferred.
func (p *Result) Member() *ast.Member {
	return p.member
}

// Model returns the semantic model against which scopes were inferred.
func (p *Result) Model() Model {
	return p.model
}

// Success checks whether inference completed without reporting any errors.
// The quotation rewriter must not be run on a member which failed.
func (p *Result) Success() bool {
	return p.success
}

// Iterator returns the iterator kind of the member.
func (p *Result) Iterator() IteratorKind {
	return p.iterator
}

// HasScope checks whether a given node was assigned a scope.
func (p *Result) HasScope(node ast.Node) bool {
	_, ok := p.scopes[node.Id()]
	return ok
}

// Scope returns the scope of a given node.  Asking for the scope of a node
// which was never visited is an internal error.
func (p *Result) Scope(node ast.Node) scope.Scope {
	if s, ok := p.scopes[node.Id()]; ok {
		return s
	}
	//
	panic(diag.Internal("node %d has no scope", node.Id()))
}

// Local returns the scope recorded for a given local symbol, if any.
func (p *Result) Local(symbol *semantic.Symbol) (scope.Scope, bool) {
	s, ok := p.locals[symbol]
	return s, ok
}

// Locals returns the scopes recorded for all local symbols.
func (p *Result) Locals() map[*semantic.Symbol]scope.Scope {
	return p.locals
}

// TypeOf returns the staging decision for a given typeof expression.
func (p *Result) TypeOf(node *ast.TypeOf) TypeOfDecision {
	if d, ok := p.typeofs[node.Id()]; ok {
		return d
	}
	//
	panic(diag.Internal("typeof expression %d was not decided", node.Id()))
}

// NameOf returns the staging decision for a given nameof expression.
func (p *Result) NameOf(node *ast.NameOf) NameOfDecision {
	if d, ok := p.nameofs[node.Id()]; ok {
		return d
	}
	//
	panic(diag.Internal("nameof expression %d was not decided", node.Id()))
}

// Assign a scope to a node.  A node is assigned at most one scope, except that
// a compile-time node returning a run-time (or either) value can be narrowed
// to compile time only.  Once narrowed, assigning the wider scope again leaves
// the narrowed scope in place.
func (p *Result) set(node ast.Node, s scope.Scope) scope.Scope {
	var id = node.Id()
	//
	if existing, ok := p.scopes[id]; !ok || existing == s || isNarrowing(existing, s) {
		p.scopes[id] = s
	} else if isNarrowing(s, existing) {
		return existing
	} else {
		panic(diag.Internal("node %d rescoped from %s to %s", id, existing, s))
	}
	//
	return s
}

func isNarrowing(from scope.Scope, to scope.Scope) bool {
	switch from {
	case scope.CompileTimeOnlyReturningRunTimeOnly, scope.CompileTimeOnlyReturningBoth:
		return to == scope.CompileTimeOnly
	default:
		return false
	}
}

// Record the scope of a local symbol, which can happen only once.
func (p *Result) setLocal(symbol *semantic.Symbol, s scope.Scope) {
	if existing, ok := p.locals[symbol]; ok && existing != s {
		panic(diag.Internal("local '%s' rescoped from %s to %s", symbol.Name, existing, s))
	}
	//
	p.locals[symbol] = s
}
