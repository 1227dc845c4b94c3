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

// Scope captures the binding time of a node, that is whether it executes at
// compile time (whilst a template is being expanded), at run time (as part of
// the code generated by an expansion), or either.
type Scope uint8

const (
	// RunTimeOnly indicates a node which executes only as part of the
	// generated code.
	RunTimeOnly Scope = iota
	// CompileTimeOnly indicates a node which executes only whilst expanding a
	// template.
	CompileTimeOnly
	// RunTimeOrCompileTime indicates a node which can execute at either time.
	// This is the neutral element of the lattice.
	RunTimeOrCompileTime
	// CompileTimeOnlyReturningRunTimeOnly indicates a node which executes at
	// compile time, but produces a value meaningful only at run time (e.g. an
	// expression which builds syntax).
	CompileTimeOnlyReturningRunTimeOnly
	// CompileTimeOnlyReturningBoth indicates a node which executes at compile
	// time, but produces a value meaningful at either time.
	CompileTimeOnlyReturningBoth
	// Dynamic indicates a node whose value is late-bound, and which is always
	// treated conservatively as run time.
	Dynamic
	// LateBound indicates a node whose scope is not (yet) determined.
	LateBound
	// Conflict indicates a node with irreconcilable requirements.
	Conflict
	// Invalid indicates a node whose scope cannot be determined at all.
	Invalid
)

// Neutral is a convenient alias for the neutral element.
const Neutral = RunTimeOrCompileTime

func (p Scope) String() string {
	switch p {
	case RunTimeOnly:
		return "run-time"
	case CompileTimeOnly:
		return "compile-time"
	case RunTimeOrCompileTime:
		return "both"
	case CompileTimeOnlyReturningRunTimeOnly:
		return "compile-time(run-time)"
	case CompileTimeOnlyReturningBoth:
		return "compile-time(both)"
	case Dynamic:
		return "dynamic"
	case LateBound:
		return "late-bound"
	case Conflict:
		return "conflict"
	case Invalid:
		return "invalid"
	default:
		return "???"
	}
}

// IsAbsorbing checks whether this scope dominates any combination it
// participates in.
func (p Scope) IsAbsorbing() bool {
	return p >= LateBound
}

// IsNeutral checks whether this is the neutral scope.
func (p Scope) IsNeutral() bool {
	return p == RunTimeOrCompileTime
}

// ExecutionScope determines when evaluating a node of this scope runs.
func (p Scope) ExecutionScope() Scope {
	switch p {
	case CompileTimeOnlyReturningRunTimeOnly, CompileTimeOnlyReturningBoth:
		return CompileTimeOnly
	case Dynamic:
		return RunTimeOnly
	default:
		return p
	}
}

// ValueScope determines when the value produced by a node of this scope is
// meaningful.
func (p Scope) ValueScope() Scope {
	switch p {
	case CompileTimeOnlyReturningRunTimeOnly, Dynamic:
		return RunTimeOnly
	case CompileTimeOnlyReturningBoth:
		return RunTimeOrCompileTime
	default:
		return p
	}
}

// IsRunTime checks whether a node of this scope executes at run time.
func (p Scope) IsRunTime() bool {
	return p.ExecutionScope() == RunTimeOnly
}

// IsCompileTime checks whether a node of this scope executes at compile time.
func (p Scope) IsCompileTime() bool {
	return p.ExecutionScope() == CompileTimeOnly
}

// Meet two scopes together, producing the scope which satisfies the
// requirements of both (or Conflict if there is none).  This operation is
// commutative and idempotent.
func Meet(a, b Scope) Scope {
	switch {
	case a == b:
		return a
	case a.IsAbsorbing() || b.IsAbsorbing():
		return max(a, b)
	case a.IsNeutral():
		return b
	case b.IsNeutral():
		return a
	}
	// Order the pair to halve the table
	if a > b {
		a, b = b, a
	}
	//
	switch a {
	case RunTimeOnly:
		if b == Dynamic {
			return Dynamic
		}
		// Compile time execution cannot satisfy a run time requirement.
		return Conflict
	case CompileTimeOnly:
		if b == Dynamic {
			return Conflict
		}
		// Narrow to compile time.
		return CompileTimeOnly
	case CompileTimeOnlyReturningRunTimeOnly:
		if b == CompileTimeOnlyReturningBoth {
			return CompileTimeOnlyReturningRunTimeOnly
		}
	}
	//
	return Conflict
}

// Combine determines the scope of a composite node from the scopes of its
// children.  The bias determines the outcome when no child has a strict run
// time requirement: RunTimeOnly commits the node to run time (e.g. for a call
// in statement position); CompileTimeOnlyReturningBoth requests compile time
// evaluation whenever some child requires it; any other bias leaves the
// result neutral unless some child requires compile time.
func Combine(bias Scope, children ...Scope) Scope {
	var (
		absorbing   = RunTimeOrCompileTime
		dynamic     bool
		runTime     bool
		compileTime bool
	)
	//
	for _, child := range children {
		switch {
		case child.IsAbsorbing():
			absorbing = max(absorbing, child)
		case child == Dynamic:
			dynamic = true
		case child.ValueScope() == RunTimeOnly:
			runTime = true
		case child.IsCompileTime():
			compileTime = true
		}
	}
	//
	switch {
	case absorbing.IsAbsorbing():
		return absorbing
	case dynamic:
		return Dynamic
	case runTime, bias == RunTimeOnly:
		return RunTimeOnly
	case compileTime && bias == CompileTimeOnlyReturningBoth:
		return CompileTimeOnlyReturningBoth
	case compileTime:
		return CompileTimeOnly
	default:
		return RunTimeOrCompileTime
	}
}

// Values returns every scope, in order.
func Values() []Scope {
	return []Scope{RunTimeOnly, CompileTimeOnly, RunTimeOrCompileTime, CompileTimeOnlyReturningRunTimeOnly,
		CompileTimeOnlyReturningBoth, Dynamic, LateBound, Conflict, Invalid}
}
