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
package lexical

import (
	"fmt"
)

// NameTable allocates the identifiers introduced by the staging of a single
// member.  It is seeded with every identifier spelled out in the member, such
// that generated names can never capture (or be captured by) a name written by
// the user.  A name table is shared by every lexical context of the member,
// hence names are unique across the whole member and not just a block.
type NameTable struct {
	// Identifiers written in the member.
	identifiers map[string]bool
	// Names handed out so far.
	taken map[string]bool
	// Next suffix to try for a given hint.
	counters map[string]uint
}

// NewNameTable constructs a name table which avoids a given set of
// identifiers.
func NewNameTable(identifiers ...string) *NameTable {
	var table = &NameTable{make(map[string]bool), make(map[string]bool), make(map[string]uint)}
	//
	for _, id := range identifiers {
		table.identifiers[id] = true
	}
	//
	return table
}

// Unique returns a name derived from a given hint, which is neither an
// identifier of the member nor a name previously handed out.
func (p *NameTable) Unique(hint string) string {
	for i := p.counters[hint]; ; i++ {
		candidate := hint
		//
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d", hint, i)
		}
		//
		if !p.identifiers[candidate] && !p.taken[candidate] {
			p.counters[hint] = i + 1
			p.taken[candidate] = true
			//
			return candidate
		}
	}
}

// Claim attempts to take a given identifier of the member for exclusive use.
// This fails if it was already handed out.
func (p *NameTable) Claim(name string) bool {
	if p.taken[name] {
		return false
	}
	//
	p.taken[name] = true
	//
	return true
}

// Taken checks whether a given name was handed out.
func (p *NameTable) Taken(name string) bool {
	return p.taken[name]
}
