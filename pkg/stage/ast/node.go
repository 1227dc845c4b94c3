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
package ast

import "fmt"

// NodeId identifies a node within the arena which allocated it.  Identifiers
// are stable for the lifetime of the arena, and are what all side tables (e.g.
// source maps, symbol tables, scope tables) are keyed upon.
type NodeId uint32

// Node represents an arbitrary node in the abstract syntax tree.  Nodes are
// never mutated once constructed.  Instead, a rewriting pass constructs new
// nodes (typically in a separate arena) with some children substituted.
type Node interface {
	// Id returns the arena-allocated identifier of this node.
	Id() NodeId
}

// Expr represents an expression node.
type Expr interface {
	Node
	isExpr()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	isStmt()
}

type node struct {
	id NodeId
}

func (p *node) Id() NodeId {
	return p.id
}

// Arena is responsible for allocating the nodes of one or more trees.  Since
// every node obtains its identifier from an arena, identifiers are unique
// across all trees built from the same arena (e.g. the prelude and all user
// files of a compilation).  An arena is not safe for concurrent construction.
type Arena struct {
	nodes []Node
}

// NewArena constructs an empty arena.
func NewArena() *Arena {
	return &Arena{nil}
}

// Len returns the number of nodes allocated in this arena.
func (p *Arena) Len() uint {
	return uint(len(p.nodes))
}

// Node returns the node with a given identifier.
func (p *Arena) Node(id NodeId) Node {
	if int(id) >= len(p.nodes) {
		panic(fmt.Sprintf("invalid node identifier %d", id))
	}
	//
	return p.nodes[id]
}

func (p *Arena) alloc(n Node, base *node) {
	base.id = NodeId(len(p.nodes))
	p.nodes = append(p.nodes, n)
}
