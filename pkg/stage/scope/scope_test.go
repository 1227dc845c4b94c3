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
package scope

import (
	"testing"

	"github.com/consensys/go-stager/pkg/util/assert"
)

func Test_Meet_01(t *testing.T) {
	// Commutativity
	for _, a := range Values() {
		for _, b := range Values() {
			assert.Equal(t, Meet(a, b), Meet(b, a), a.String(), " meet ", b.String())
		}
	}
}

func Test_Meet_02(t *testing.T) {
	// Idempotence
	for _, a := range Values() {
		assert.Equal(t, a, Meet(a, a), a.String())
	}
}

func Test_Meet_03(t *testing.T) {
	// Neutral yields to everything
	for _, a := range Values() {
		assert.Equal(t, a, Meet(RunTimeOrCompileTime, a), a.String())
	}
}

func Test_Meet_04(t *testing.T) {
	assert.Equal(t, Conflict, Meet(RunTimeOnly, CompileTimeOnly))
	assert.Equal(t, Dynamic, Meet(Dynamic, RunTimeOnly))
	assert.Equal(t, Conflict, Meet(Dynamic, CompileTimeOnly))
	assert.Equal(t, CompileTimeOnly, Meet(CompileTimeOnlyReturningRunTimeOnly, CompileTimeOnly))
	assert.Equal(t, CompileTimeOnly, Meet(CompileTimeOnlyReturningBoth, CompileTimeOnly))
	assert.Equal(t, Conflict, Meet(CompileTimeOnlyReturningRunTimeOnly, RunTimeOnly))
	assert.Equal(t, CompileTimeOnlyReturningRunTimeOnly,
		Meet(CompileTimeOnlyReturningRunTimeOnly, CompileTimeOnlyReturningBoth))
}

func Test_Meet_05(t *testing.T) {
	// Absorbing values dominate in order
	for _, a := range Values() {
		assert.Equal(t, Invalid, Meet(Invalid, a))
		//
		if a != Invalid {
			assert.Equal(t, Conflict, Meet(Conflict, a))
		}
	}
	//
	assert.Equal(t, LateBound, Meet(LateBound, RunTimeOnly))
	assert.Equal(t, LateBound, Meet(CompileTimeOnly, LateBound))
}

func Test_Meet_06(t *testing.T) {
	// Associativity holds whenever no conflict arises.
	for _, a := range Values() {
		for _, b := range Values() {
			for _, c := range Values() {
				lhs, rhs := Meet(Meet(a, b), c), Meet(a, Meet(b, c))
				//
				if lhs != Conflict && rhs != Conflict {
					assert.Equal(t, lhs, rhs, a.String(), b.String(), c.String())
				}
			}
		}
	}
}

func Test_Projection_01(t *testing.T) {
	assert.Equal(t, CompileTimeOnly, CompileTimeOnlyReturningRunTimeOnly.ExecutionScope())
	assert.Equal(t, RunTimeOnly, CompileTimeOnlyReturningRunTimeOnly.ValueScope())
	assert.Equal(t, CompileTimeOnly, CompileTimeOnlyReturningBoth.ExecutionScope())
	assert.Equal(t, RunTimeOrCompileTime, CompileTimeOnlyReturningBoth.ValueScope())
	assert.Equal(t, RunTimeOnly, Dynamic.ExecutionScope())
	assert.Equal(t, RunTimeOnly, Dynamic.ValueScope())
	assert.Equal(t, RunTimeOnly, RunTimeOnly.ValueScope())
}

func Test_Combine_01(t *testing.T) {
	assert.Equal(t, RunTimeOrCompileTime, Combine(RunTimeOrCompileTime))
	assert.Equal(t, RunTimeOrCompileTime, Combine(RunTimeOrCompileTime, RunTimeOrCompileTime, RunTimeOrCompileTime))
	assert.Equal(t, RunTimeOnly, Combine(RunTimeOnly, RunTimeOrCompileTime))
	assert.Equal(t, RunTimeOnly, Combine(RunTimeOrCompileTime, CompileTimeOnly, RunTimeOnly))
	assert.Equal(t, CompileTimeOnly, Combine(RunTimeOrCompileTime, CompileTimeOnly, RunTimeOrCompileTime))
}

func Test_Combine_02(t *testing.T) {
	// Compile-time bias for neutral invocations in expression position
	assert.Equal(t, CompileTimeOnlyReturningBoth,
		Combine(CompileTimeOnlyReturningBoth, RunTimeOrCompileTime, CompileTimeOnly))
	assert.Equal(t, RunTimeOrCompileTime, Combine(CompileTimeOnlyReturningBoth, RunTimeOrCompileTime))
}

func Test_Combine_03(t *testing.T) {
	// Dynamic and absorbing values propagate
	assert.Equal(t, Dynamic, Combine(RunTimeOrCompileTime, RunTimeOnly, Dynamic))
	assert.Equal(t, Dynamic, Combine(RunTimeOrCompileTime, CompileTimeOnly, Dynamic))
	assert.Equal(t, LateBound, Combine(RunTimeOrCompileTime, LateBound, Dynamic))
	assert.Equal(t, Conflict, Combine(RunTimeOrCompileTime, LateBound, Conflict, RunTimeOnly))
	// Syntax-building children are run-time valued
	assert.Equal(t, RunTimeOnly, Combine(RunTimeOrCompileTime, CompileTimeOnlyReturningRunTimeOnly))
}

func Test_Context_01(t *testing.T) {
	var (
		root    = Root[string]()
		forced  = root.Force(CompileTimeOnly, "argument of a compile-time method").ForbidDynamic()
		relaxed = forced.Unforced()
	)
	//
	assert.True(t, root.Forced().IsEmpty())
	assert.Equal(t, CompileTimeOnly, forced.Forced().Unwrap())
	assert.True(t, forced.IsDynamicForbidden())
	assert.Equal(t, "argument of a compile-time method", forced.Reason())
	// Deriving contexts leaves the original untouched
	assert.True(t, relaxed.Forced().IsEmpty())
	assert.False(t, relaxed.IsDynamicForbidden())
	assert.True(t, forced.Forced().HasValue())
}

func Test_Context_02(t *testing.T) {
	var (
		root  = Root[string]()
		outer = root.RunTimeConditional("if")
		inner = outer.RunTimeConditional("while")
	)
	//
	assert.False(t, root.IsRunTimeConditional())
	assert.True(t, outer.IsRunTimeConditional())
	//
	outer.Conditional().Declare("x")
	inner.Conditional().Declare("y")
	//
	assert.True(t, outer.Conditional().Declares("x"))
	assert.False(t, outer.Conditional().Declares("y"))
	assert.False(t, inner.Conditional().Declares("x"))
	assert.True(t, inner.Conditional().Parent() == outer.Conditional())
}

func Test_Context_03(t *testing.T) {
	var (
		loop  = Root[string]().Loop(CompileTimeOnly)
		body  = loop.RunTimeConditional("if")
		swtch = body.Switch(RunTimeOnly)
	)
	// A break within the switch targets the switch, a continue the loop.
	assert.Equal(t, RunTimeOnly, swtch.BreakTarget().Scope)
	assert.Equal(t, CompileTimeOnly, swtch.ContinueTarget().Scope)
	// The loop was entered outside the conditional block
	assert.True(t, swtch.ContinueTarget().Conditional == nil)
	assert.True(t, swtch.BreakTarget().Conditional == body.Conditional())
}
