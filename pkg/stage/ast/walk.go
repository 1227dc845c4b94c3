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

import (
	"github.com/consensys/go-stager/pkg/util/collection/stack"
)

// Children returns the immediate children of a given node, in source order.
func Children(n Node) []Node {
	var c children
	//
	switch n := n.(type) {
	case *Literal, *Name, *Break, *Continue, *YieldBreak, *Goto, *Empty:
		// leaves
	case *MemberAccess:
		c.expr(n.Target)
	case *ElementAccess:
		c.expr(n.Target)
		c.exprs(n.Indices)
	case *Invocation:
		c.expr(n.Callee)
		c.exprs(n.Args)
	case *Binary:
		c.expr(n.Left)
		c.expr(n.Right)
	case *Unary:
		c.expr(n.Operand)
	case *Assignment:
		c.expr(n.Target)
		c.expr(n.Value)
	case *Conditional:
		c.expr(n.Cond)
		c.expr(n.Then)
		c.expr(n.Else)
	case *Cast:
		c.typ(n.Type)
		c.expr(n.Operand)
	case *TypeOf:
		c.typ(n.Type)
	case *NameOf:
		c.expr(n.Operand)
	case *Lambda:
		c.params(n.Params)
		c.add(n.Body)
	case *AnonymousMethod:
		c.params(n.Params)
		c.block(n.Body)
	case *ObjectCreation:
		c.typ(n.Type)
		c.exprs(n.Args)
		c.exprs(n.Initializers)
	case *AnonymousMember:
		c.expr(n.Value)
	case *AnonymousObject:
		for _, m := range n.Members {
			c.add(m)
		}
	case *ArrayCreation:
		c.typ(n.Element)
		c.exprs(n.Items)
	case *TupleElement:
		c.expr(n.Value)
	case *Tuple:
		for _, e := range n.Elements {
			c.add(e)
		}
	case *Query:
		c.expr(n.Source)
		c.expr(n.Where)
		c.expr(n.Select)
	case *Block:
		c.stmts(n.Stmts)
	case *LocalDecl:
		c.typ(n.Type)
		c.expr(n.Init)
	case *ExprStmt:
		c.expr(n.Expr)
	case *If:
		c.expr(n.Cond)
		c.stmt(n.Then)
		c.stmt(n.Else)
	case *While:
		c.expr(n.Cond)
		c.stmt(n.Body)
	case *DoWhile:
		c.stmt(n.Body)
		c.expr(n.Cond)
	case *For:
		c.stmts(n.Init)
		c.expr(n.Cond)
		c.exprs(n.Step)
		c.stmt(n.Body)
	case *Foreach:
		c.typ(n.Type)
		c.expr(n.Source)
		c.stmt(n.Body)
	case *SwitchSection:
		c.exprs(n.Labels)
		c.stmts(n.Body)
	case *Switch:
		c.expr(n.Subject)
		//
		for _, s := range n.Sections {
			c.add(s)
		}
	case *Return:
		c.expr(n.Value)
	case *YieldReturn:
		c.expr(n.Value)
	case *Labeled:
		c.stmt(n.Stmt)
	case *Unsafe:
		c.block(n.Body)
	case *LocalFunction:
		c.typ(n.Return)
		c.params(n.Params)
		c.block(n.Body)
	case *TypeRef:
		for _, a := range n.Args {
			c.add(a)
		}
	case *Parameter:
		c.typ(n.Type)
	case *TypeParameter:
		// leaf
	case *Member:
		c.typ(n.Return)
		//
		for _, tp := range n.TypeParams {
			c.add(tp)
		}
		//
		c.params(n.Params)
		c.block(n.Body)
	case *ExternMember:
		c.typ(n.Type)
		//
		for _, tp := range n.TypeParams {
			c.add(tp)
		}
		//
		c.params(n.Params)
	case *ExternType:
		for _, tp := range n.TypeParams {
			c.add(tp)
		}
		//
		for _, m := range n.Members {
			c.add(m)
		}
	default:
		panic("unknown node encountered")
	}
	//
	return c.nodes
}

// Walk visits every node in the tree rooted at a given node in pre-order.  If
// the visitor returns false for a node, then its children are not visited.
func Walk(root Node, visitor func(Node) bool) {
	var worklist = stack.NewStack[Node]()
	//
	worklist.Push(root)
	//
	for !worklist.IsEmpty() {
		n := worklist.Pop()
		//
		if visitor(n) {
			worklist.PushReversed(Children(n))
		}
	}
}

// Parents determines the parent of every node in the tree rooted at a given
// node.  The root itself has no entry.
func Parents(root Node) map[NodeId]NodeId {
	var parents = make(map[NodeId]NodeId)
	//
	Walk(root, func(n Node) bool {
		for _, child := range Children(n) {
			parents[child.Id()] = n.Id()
		}
		//
		return true
	})
	//
	return parents
}

// Identifiers returns every identifier spelled out anywhere within the tree
// rooted at a given node (e.g. variable names, member names, type names).
func Identifiers(root Node) []string {
	var (
		seen  = make(map[string]bool)
		names []string
	)
	//
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	//
	Walk(root, func(n Node) bool {
		switch n := n.(type) {
		case *Name:
			add(n.Ident)
		case *MemberAccess:
			add(n.Name)
		case *LocalDecl:
			add(n.Name)
		case *Foreach:
			add(n.Name)
		case *Parameter:
			add(n.Name)
		case *TypeParameter:
			add(n.Name)
		case *TypeRef:
			add(n.Name)
		case *LocalFunction:
			add(n.Name)
		case *AnonymousMember:
			add(n.Name)
		case *TupleElement:
			add(n.Name)
		case *Query:
			add(n.Variable)
		case *Member:
			add(n.Name)
		}
		//
		return true
	})
	//
	return names
}

// children accumulates non-nil child nodes.
type children struct {
	nodes []Node
}

func (p *children) add(n Node) {
	if n != nil {
		p.nodes = append(p.nodes, n)
	}
}

func (p *children) expr(e Expr) {
	if e != nil {
		p.nodes = append(p.nodes, e)
	}
}

func (p *children) exprs(es []Expr) {
	for _, e := range es {
		p.expr(e)
	}
}

func (p *children) stmt(s Stmt) {
	if s != nil {
		p.nodes = append(p.nodes, s)
	}
}

func (p *children) stmts(ss []Stmt) {
	for _, s := range ss {
		p.stmt(s)
	}
}

func (p *children) typ(t *TypeRef) {
	if t != nil {
		p.nodes = append(p.nodes, t)
	}
}

func (p *children) block(b *Block) {
	if b != nil {
		p.nodes = append(p.nodes, b)
	}
}

func (p *children) params(ps []*Parameter) {
	for _, param := range ps {
		p.nodes = append(p.nodes, param)
	}
}
