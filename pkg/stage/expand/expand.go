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
	"context"
	"fmt"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
)

// DEFAULT_STEP_LIMIT is the default number of statements and expressions which
// an expansion may evaluate before it is aborted.
const DEFAULT_STEP_LIMIT = 1_000_000

// Expander executes quotation functions, thereby expanding the templates from
// which they were derived onto given targets.
type Expander struct {
	serializer Serializer
	// Maximum number of evaluation steps, or zero for no limit.
	limit uint
}

// NewExpander constructs an expander using the default serializer and step
// limit.
func NewExpander() *Expander {
	return &Expander{DefaultSerializer{}, DEFAULT_STEP_LIMIT}
}

// WithSerializer sets the serializer used for splicing compile-time values into
// the generated code.
func (p *Expander) WithSerializer(serializer Serializer) *Expander {
	p.serializer = serializer
	return p
}

// WithStepLimit bounds the number of evaluation steps of an expansion, where
// zero means unbounded.
func (p *Expander) WithStepLimit(limit uint) *Expander {
	p.limit = limit
	return p
}

// Run a quotation function for a given target, passing the given values for
// the compile-time parameters of its template (in order of declaration).  This
// returns the generated body of the target.
func Run(ctx context.Context, quotation *ast.Member, target *Target, args ...Value) (*ast.Block, error) {
	return NewExpander().Run(ctx, quotation, target, args...)
}

// Run a quotation function for a given target, passing the given values for
// the compile-time parameters of its template (in order of declaration).  This
// returns the generated body of the target, whose nodes are allocated in a
// fresh arena.  Failures of the compile-time code (e.g. an index out of
// bounds) are returned as errors, as is cancellation of the given context.
func (p *Expander) Run(ctx context.Context, quotation *ast.Member, target *Target,
	args ...Value) (block *ast.Block, err error) {
	defer diag.Recover("expansion", &err)
	defer recoverError(&err)
	//
	if len(quotation.Params) != len(args)+1 {
		return nil, fmt.Errorf("expansion: %s expects %d compile-time argument(s), found %d", quotation.Name,
			len(quotation.Params)-1, len(args))
	}
	//
	var (
		expansion = newExpansion(target, ast.NewArena(), p.serializer)
		eval      = &evaluator{ctx: ctx, expansion: expansion, limit: p.limit}
		env       = NewEnv(nil)
	)
	//
	env.Define(quotation.Params[0].Name, expansion)
	//
	for i, param := range quotation.Params[1:] {
		env.Define(param.Name, args[i])
	}
	//
	result := eval.call(&Closure{nil, quotation.Body, env}, nil)
	//
	if block, ok := result.(*ast.Block); ok {
		return block, nil
	}
	//
	return nil, fmt.Errorf("expansion: %s returned %s, expected block", quotation.Name, describe(result))
}

// Turn the failure of an expansion into an error.  Any other panic is
// propagated.
func recoverError(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(*Error); ok {
			*err = fmt.Errorf("expansion: %w", e)
			return
		}
		//
		panic(r)
	}
}

// evaluator executes the statements and expressions of a quotation function.
type evaluator struct {
	ctx       context.Context
	expansion *Expansion
	limit     uint
	steps     uint
	// Value returned by the most recent return statement.
	result Value
}

// Account for one evaluation step, aborting if the limit is exceeded or the
// context was cancelled.
func (p *evaluator) step() {
	diag.CheckCancelled(p.ctx)
	//
	if p.steps++; p.limit > 0 && p.steps > p.limit {
		fail("step limit of %d exceeded", p.limit)
	}
}

// Call a closure with a given set of arguments.
func (p *evaluator) call(closure *Closure, args []Value) Value {
	if len(args) != len(closure.Params) {
		fail("function expects %d argument(s), found %d", len(closure.Params), len(args))
	}
	//
	var env = NewEnv(closure.env)
	//
	for i, param := range closure.Params {
		env.Define(param, args[i])
	}
	//
	switch body := closure.Body.(type) {
	case *ast.Block:
		if p.block(body.Stmts, env) == RETURN {
			return p.result
		}
		//
		return nil
	case ast.Expr:
		return p.eval(body, env)
	default:
		panic(diag.Internal("unknown function body %s", ast.Print(body)))
	}
}
