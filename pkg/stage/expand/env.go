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

// Env is a frame of local variables, chained to the frame of the enclosing
// block.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv constructs an empty frame within a given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent, make(map[string]Value)}
}

// Define a variable in this frame, shadowing any of the same name in enclosing
// frames.
func (p *Env) Define(name string, value Value) {
	p.table[name] = value
}

// Get the value of the nearest visible variable of a given name.
func (p *Env) Get(name string) (Value, bool) {
	for env := p; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			return v, true
		}
	}
	//
	return nil, false
}

// Set the nearest visible variable of a given name, returning false if there is
// no such variable.
func (p *Env) Set(name string, value Value) bool {
	for env := p; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			env.table[name] = value
			return true
		}
	}
	//
	return false
}
