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
package compiler

import (
	"context"
	"fmt"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/infer"
	"github.com/consensys/go-stager/pkg/stage/quote"
	"github.com/consensys/go-stager/pkg/stage/scope"
	"github.com/consensys/go-stager/pkg/stage/semantic"
	"github.com/consensys/go-stager/pkg/util/source"
)

// STRICT_REASON explains why dynamic expressions are rejected in strict mode.
const STRICT_REASON = "strict mode"

// Load parses and resolves a given set of source files, along with the prelude
// (if enabled).  The resulting model is immutable, and can be shared between
// concurrent compilations.
func Load(cfg Config, srcfiles ...*source.File) (*semantic.Model, []source.SyntaxError) {
	if cfg.Prelude {
		srcfiles = append([]*source.File{semantic.Prelude()}, srcfiles...)
	}
	//
	return semantic.Load(srcfiles...)
}

// Compilation is the outcome of compiling a single template.
type Compilation struct {
	// Template being compiled.
	Member *ast.Member
	// Scopes inferred for the template.
	Result *infer.Result
	// Problems reported for the template, in order of reporting.
	Diagnostics []diag.Diagnostic
	// Quotation function of the template, or nil if any error was reported.
	Quotation *ast.Member
}

// Success checks whether a quotation function was produced.
func (p *Compilation) Success() bool {
	return p.Quotation != nil
}

// CompileTimeParameters returns the names of the compile-time parameters of
// the template, in order of declaration.  These are the parameters of the
// quotation function following the description of the expansion.
func (p *Compilation) CompileTimeParameters() []string {
	var names []string
	//
	for _, param := range p.Member.Params {
		if p.Result.HasScope(param) && p.Result.Scope(param).IsCompileTime() {
			names = append(names, param.Name)
		}
	}
	//
	return names
}

// Compile a single template member: infer the scope of every node and, if no
// error was reported, rewrite the template into its quotation function.  An
// error is returned only if an internal error arose, or the given context was
// cancelled.  Problems with the template itself are reported as diagnostics.
func Compile(ctx context.Context, model *semantic.Model, member *ast.Member, cfg Config) (*Compilation, error) {
	var sink = diag.NewSink(member, model)
	//
	result, err := infer.InferScopes(ctx, model, member, sink)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", member.Name, err)
	}
	//
	if cfg.Strict {
		rejectDynamic(result, sink)
	}
	//
	compilation := &Compilation{member, result, nil, nil}
	//
	if !sink.HasErrors() {
		if compilation.Quotation, err = quote.Rewrite(ctx, result, member.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", member.Name, err)
		}
	}
	//
	compilation.Diagnostics = sink.Diagnostics()
	//
	return compilation, nil
}

// Report every dynamic expression in a member.  Nodes are visited innermost
// first, such that an expression which is dynamic only because one of its
// operands is goes unreported.
func rejectDynamic(result *infer.Result, sink *diag.Sink) {
	var dynamic []ast.Node
	//
	ast.Walk(result.Member().Body, func(n ast.Node) bool {
		if _, ok := n.(ast.Expr); ok && result.HasScope(n) && result.Scope(n) == scope.Dynamic {
			dynamic = append(dynamic, n)
		}
		//
		return true
	})
	//
	for i := len(dynamic) - 1; i >= 0; i-- {
		sink.Report(dynamic[i], diag.DynamicForbidden, STRICT_REASON)
	}
}
