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
	"context"
	"fmt"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/infer"
	"github.com/consensys/go-stager/pkg/stage/lexical"
	"github.com/consensys/go-stager/pkg/stage/semantic"
)

// Lexical is the lexical context used whilst rewriting.
type Lexical = lexical.Context[*semantic.Symbol]

// Rewrite a member, whose scopes were successfully inferred, into its
// quotation function.  This is an ordinary member which, when called with the
// description of an expansion and the values of the compile-time parameters
// of the template, executes the compile-time parts of the template and returns
// the syntax of its run-time parts.  The quotation function is allocated in a
// fresh arena, and is named after the given name.  An error is returned only if
// an internal error arose, or the given context was cancelled.
func Rewrite(ctx context.Context, result *infer.Result, name string) (member *ast.Member, err error) {
	defer diag.Recover("quotation", &err)
	//
	if !result.Success() {
		return nil, fmt.Errorf("quotation: scopes of '%s' were not inferred", result.Member().Name)
	}
	//
	var (
		template = result.Member()
		names    = lexical.NewNameTable(ast.Identifiers(template)...)
		p        = &rewriter{ctx, result, result.Model(), ast.NewArena(), template, names.Unique("ctx"), 0}
	)
	//
	return p.member(lexical.NewRoot[*semantic.Symbol](names), PREFIX+name), nil
}

type rewriter struct {
	ctx    context.Context
	result *infer.Result
	model  infer.Model
	arena  *ast.Arena
	// Template being rewritten.
	template *ast.Member
	// Name of the parameter describing the expansion.
	expansion string
	// Depth of local functions enclosing the current statement.
	functions uint
}

func (p *rewriter) member(root *Lexical, name string) *ast.Member {
	var params = []*ast.Parameter{
		p.arena.NewParameter(nil, p.arena.NewTypeRef(EXPANSION, 0), p.expansion),
	}
	// Compile-time parameters are passed to the quotation function, whilst
	// run-time parameters keep their names in the generated code.
	for _, param := range p.template.Params {
		if p.result.Scope(param).IsCompileTime() {
			alias := root.Alias(p.model.DeclaredSymbol(param), param.Name)
			params = append(params, p.arena.NewParameter(nil, p.copyType(param.Type), alias))
		}
	}
	//
	p.stmts(p.template.Body.Stmts, root)
	body := p.materialise(root, root.Close())
	//
	return p.arena.NewMember(nil, false, p.arena.NewTypeRef(NODE, 0), name, nil, params, body)
}

// Materialise the buffer of a run-time block as the body of a function which
// returns the block it generates.
func (p *rewriter) materialise(lc *Lexical, buffer []ast.Stmt) *ast.Block {
	var (
		accumulator = lc.Accumulator()
		list        = p.arena.NewTypeRef(LIST, 0, p.arena.NewTypeRef(NODE, 0))
		stmts       = make([]ast.Stmt, 0, len(buffer)+2)
	)
	//
	stmts = append(stmts, p.arena.NewLocalDecl(nil, nil, accumulator, p.arena.NewObjectCreation(list, nil, nil)))
	stmts = append(stmts, buffer...)
	stmts = append(stmts, p.arena.NewReturn(p.syntax(BLOCK, p.name(accumulator))))
	//
	return p.arena.NewBlock(stmts...)
}

// Rewrite a run-time block as an expression generating that block.  The block
// is materialised as an immediately invoked function, such that names declared
// whilst generating it do not leak.
func (p *rewriter) runTimeBlock(stmts []ast.Stmt, lc *Lexical) ast.Expr {
	var inner = lc.Child(lexical.RunTimeBlock)
	//
	p.stmts(stmts, inner)
	//
	body := p.materialise(inner, inner.Close())
	//
	return p.arena.NewInvocation(p.arena.NewLambda(nil, body))
}

// As for runTimeBlock, but for the body of a construct which may or may not be
// a block.
func (p *rewriter) runTimeBody(stmt ast.Stmt, lc *Lexical) ast.Expr {
	if block, ok := stmt.(*ast.Block); ok {
		return p.runTimeBlock(block.Stmts, lc)
	}
	//
	return p.runTimeBlock([]ast.Stmt{stmt}, lc)
}

// Rewrite the body of a compile-time construct (e.g. a compile-time loop) as a
// block of the quotation function.
func (p *rewriter) helper(stmt ast.Stmt, lc *Lexical) *ast.Block {
	var inner = lc.Child(lexical.HelperScope)
	//
	if block, ok := stmt.(*ast.Block); ok {
		p.stmts(block.Stmts, inner)
	} else {
		p.stmt(stmt, inner)
	}
	//
	return p.arena.NewBlock(inner.Close()...)
}

// Reserve the run-time name of a local, emitting the placeholder which holds
// it.
func (p *rewriter) reserve(symbol *semantic.Symbol, hint string, lc *Lexical) string {
	var placeholder = lc.ReserveRunTimeName(symbol, hint)
	//
	lc.Append(p.fresh(placeholder, hint))
	//
	return placeholder
}

// Introduce a placeholder for a name which does not correspond to any symbol.
func (p *rewriter) temporary(hint string, lc *Lexical) string {
	var placeholder = lc.UniqueName("__" + hint)
	//
	lc.Append(p.fresh(placeholder, hint))
	//
	return placeholder
}

// Determine the placeholder holding the run-time name of a local.
func (p *rewriter) placeholder(symbol *semantic.Symbol, lc *Lexical) string {
	if placeholder, ok := lc.LookupRunTimeName(symbol); ok {
		return placeholder
	}
	//
	panic(diag.Internal("run-time local '%s' referenced before its name was reserved", symbol.Name))
}
