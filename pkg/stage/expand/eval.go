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
	"slices"

	"github.com/consensys/go-stager/pkg/stage/ast"
)

// flow determines how control leaves a statement.
type flow uint8

const (
	// NEXT signals control continues with the following statement.
	NEXT flow = iota
	// BREAK signals control leaves the enclosing loop or switch.
	BREAK
	// CONTINUE signals control moves to the next iteration of the enclosing
	// loop.
	CONTINUE
	// RETURN signals control leaves the enclosing function.
	RETURN
)

func (p *evaluator) block(stmts []ast.Stmt, env *Env) flow {
	for _, stmt := range stmts {
		if f := p.exec(stmt, env); f != NEXT {
			return f
		}
	}
	//
	return NEXT
}

func (p *evaluator) exec(stmt ast.Stmt, env *Env) flow {
	p.step()
	//
	switch s := stmt.(type) {
	case *ast.Block:
		return p.block(s.Stmts, NewEnv(env))
	case *ast.LocalDecl:
		var value Value
		//
		if s.Init != nil {
			value = p.eval(s.Init, env)
		} else {
			value = zero(s.Type)
		}
		//
		env.Define(s.Name, value)
	case *ast.ExprStmt:
		p.eval(s.Expr, env)
	case *ast.If:
		if p.condition(s.Cond, env) {
			return p.exec(s.Then, NewEnv(env))
		} else if s.Else != nil {
			return p.exec(s.Else, NewEnv(env))
		}
	case *ast.While:
		for p.condition(s.Cond, env) {
			if stop, f := p.iteration(s.Body, env); stop {
				return f
			}
		}
	case *ast.For:
		return p.forLoop(s, env)
	case *ast.Foreach:
		// Modifying the sequence whilst iterating does not affect the loop.
		for _, item := range slices.Clone(p.sequence(p.eval(s.Source, env))) {
			inner := NewEnv(env)
			inner.Define(s.Name, item)
			//
			if stop, f := p.iteration(s.Body, inner); stop {
				return f
			}
		}
	case *ast.Switch:
		return p.switchStmt(s, env)
	case *ast.Break:
		return BREAK
	case *ast.Continue:
		return CONTINUE
	case *ast.Return:
		p.result = nil
		//
		if s.Value != nil {
			p.result = p.eval(s.Value, env)
		}
		//
		return RETURN
	case *ast.LocalFunction:
		env.Define(s.Name, &Closure{paramNames(s.Params), s.Body, env})
	case *ast.Empty:
		// nothing
	default:
		fail("cannot execute %s at compile time", ast.Print(stmt))
	}
	//
	return NEXT
}

func (p *evaluator) forLoop(s *ast.For, env *Env) flow {
	var inner = NewEnv(env)
	//
	for _, init := range s.Init {
		p.exec(init, inner)
	}
	//
	for s.Cond == nil || p.condition(s.Cond, inner) {
		if stop, f := p.iteration(s.Body, inner); stop {
			return f
		}
		//
		for _, step := range s.Step {
			p.eval(step, inner)
		}
	}
	//
	return NEXT
}

// Execute one iteration of a loop body, determining whether the loop should
// stop and, if so, how control leaves the loop.
func (p *evaluator) iteration(body ast.Stmt, env *Env) (bool, flow) {
	switch p.exec(body, NewEnv(env)) {
	case BREAK:
		return true, NEXT
	case RETURN:
		return true, RETURN
	default:
		return false, NEXT
	}
}

// Execute the first section whose label matches the subject or, failing that,
// the default section.  Sections do not fall through.
func (p *evaluator) switchStmt(s *ast.Switch, env *Env) flow {
	var (
		subject = p.eval(s.Subject, env)
		matched *ast.SwitchSection
	)
	//
	for _, section := range s.Sections {
		if p.matches(section, subject, env) {
			matched = section
			break
		}
	}
	//
	for _, section := range s.Sections {
		if matched == nil && section.Default {
			matched = section
		}
	}
	//
	if matched == nil {
		return NEXT
	} else if f := p.block(matched.Body, NewEnv(env)); f != BREAK {
		return f
	}
	//
	return NEXT
}

func (p *evaluator) matches(section *ast.SwitchSection, subject Value, env *Env) bool {
	for _, label := range section.Labels {
		if equal(subject, p.eval(label, env)) {
			return true
		}
	}
	//
	return false
}

func (p *evaluator) condition(cond ast.Expr, env *Env) bool {
	return as[bool](p.eval(cond, env), "condition")
}

// Determine the items of a sequence being iterated.
func (p *evaluator) sequence(value Value) []Value {
	switch v := value.(type) {
	case *List:
		return v.Items
	case string:
		var items []Value
		//
		for _, c := range v {
			items = append(items, c)
		}
		//
		return items
	default:
		fail("cannot iterate over %s", describe(value))
		//
		return nil
	}
}

// The value of a local declared without an initialiser.
func zero(typ *ast.TypeRef) Value {
	if typ == nil || typ.Rank > 0 {
		return nil
	}
	//
	switch typ.Name {
	case "int", "long":
		return int64(0)
	case "double":
		return float64(0)
	case "bool":
		return false
	case "char":
		return rune(0)
	default:
		return nil
	}
}

func paramNames(params []*ast.Parameter) []string {
	var names = make([]string, len(params))
	//
	for i, param := range params {
		names[i] = param.Name
	}
	//
	return names
}
