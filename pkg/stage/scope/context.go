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
	"github.com/consensys/go-stager/pkg/util"
)

// Context captures what is expected of the node currently being visited by the
// inference pass.  Contexts are immutable values: every method returns a
// derived context, leaving the receiver untouched.  Thus, the context of an
// enclosing construct is restored simply by returning from the visit of its
// children.  Symbols are identified by values of type S.
type Context[S comparable] struct {
	// Scope required here, if any.
	forced util.Option[Scope]
	// Scope preferred here (a hint only), if any.
	preferred util.Option[Scope]
	// Target of any enclosed break statement.
	breakTarget *Target[S]
	// Target of any enclosed continue statement.
	continueTarget *Target[S]
	// Innermost enclosing run-time-conditional block (or nil).
	conditional *Conditional[S]
	// Whether or not dynamic expressions are permitted.
	dynamicForbidden bool
	// Explanation of why the scope is forced (used in diagnostics).
	reason string
}

// Target describes an enclosing loop or switch, as seen from a break or
// continue statement.
type Target[S comparable] struct {
	// Scope of the construct.
	Scope Scope
	// Run-time-conditional block enclosing the construct itself.
	Conditional *Conditional[S]
}

// Conditional records a block whose execution is conditioned on a run-time
// predicate, along with the locals declared directly inside it.  Only those
// locals can be safely mutated at compile time within the block.
type Conditional[S comparable] struct {
	parent   *Conditional[S]
	declared map[S]bool
	reason   string
}

// Declare a local as having been declared within this block.
func (p *Conditional[S]) Declare(symbol S) {
	p.declared[symbol] = true
}

// Declares checks whether a given local was declared within this block.
func (p *Conditional[S]) Declares(symbol S) bool {
	return p.declared[symbol]
}

// Parent returns the enclosing run-time-conditional block (or nil).
func (p *Conditional[S]) Parent() *Conditional[S] {
	return p.parent
}

// Reason explains why this block is run-time conditional.
func (p *Conditional[S]) Reason() string {
	return p.reason
}

// Root returns the context for the body of a member, which carries no
// expectations at all.
func Root[S comparable]() Context[S] {
	return Context[S]{
		forced:    util.None[Scope](),
		preferred: util.None[Scope](),
	}
}

// Forced returns the scope required here, if any.
func (p Context[S]) Forced() util.Option[Scope] {
	return p.forced
}

// Preferred returns the scope preferred here, if any.
func (p Context[S]) Preferred() util.Option[Scope] {
	return p.preferred
}

// Reason explains why the scope is forced.
func (p Context[S]) Reason() string {
	return p.reason
}

// BreakTarget returns the construct targeted by a break here (or nil).
func (p Context[S]) BreakTarget() *Target[S] {
	return p.breakTarget
}

// ContinueTarget returns the loop targeted by a continue here (or nil).
func (p Context[S]) ContinueTarget() *Target[S] {
	return p.continueTarget
}

// Conditional returns the innermost enclosing run-time-conditional block (or
// nil).
func (p Context[S]) Conditional() *Conditional[S] {
	return p.conditional
}

// IsRunTimeConditional checks whether this position is within a block whose
// execution is conditioned on a run-time predicate.
func (p Context[S]) IsRunTimeConditional() bool {
	return p.conditional != nil
}

// IsDynamicForbidden checks whether dynamic expressions are forbidden here.
func (p Context[S]) IsDynamicForbidden() bool {
	return p.dynamicForbidden
}

// Force a given scope, for a given reason.
func (p Context[S]) Force(scope Scope, reason string) Context[S] {
	p.forced = util.Some(scope)
	p.reason = reason
	//
	return p
}

// Prefer a given scope, without requiring it.
func (p Context[S]) Prefer(scope Scope) Context[S] {
	p.preferred = util.Some(scope)
	return p
}

// Unforced drops any forced or preferred scope, along with the dynamic
// restriction.  Loop targets and run-time-conditional blocks are retained.
func (p Context[S]) Unforced() Context[S] {
	p.forced = util.None[Scope]()
	p.preferred = util.None[Scope]()
	p.dynamicForbidden = false
	p.reason = ""
	//
	return p
}

// ForbidDynamic forbids dynamic expressions.
func (p Context[S]) ForbidDynamic() Context[S] {
	p.dynamicForbidden = true
	return p
}

// RunTimeConditional enters a block whose execution is conditioned on a
// run-time predicate.
func (p Context[S]) RunTimeConditional(reason string) Context[S] {
	p.conditional = &Conditional[S]{p.conditional, make(map[S]bool), reason}
	return p
}

// Loop enters the body of a loop of a given scope, which becomes the target of
// both break and continue statements.
func (p Context[S]) Loop(scope Scope) Context[S] {
	target := &Target[S]{scope, p.conditional}
	p.breakTarget = target
	p.continueTarget = target
	//
	return p
}

// Switch enters the body of a switch of a given scope, which becomes the target
// of break (but not continue) statements.
func (p Context[S]) Switch(scope Scope) Context[S] {
	p.breakTarget = &Target[S]{scope, p.conditional}
	return p
}
