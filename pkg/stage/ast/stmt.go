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

// Block represents a sequence of statements enclosed in braces.
type Block struct {
	node
	Stmts []Stmt
}

// NewBlock constructs a block statement.
func (p *Arena) NewBlock(stmts ...Stmt) *Block {
	n := &Block{Stmts: stmts}
	p.alloc(n, &n.node)
	//
	return n
}

// LocalDecl declares a single local variable, such as "var x = e" or
// "[CompileTime] int x = e".  The type is nil when declared with "var".
type LocalDecl struct {
	node
	Attributes []string
	Type       *TypeRef
	Name       string
	Init       Expr
}

// NewLocalDecl constructs a local variable declaration.
func (p *Arena) NewLocalDecl(attributes []string, typ *TypeRef, name string, init Expr) *LocalDecl {
	n := &LocalDecl{Attributes: attributes, Type: typ, Name: name, Init: init}
	p.alloc(n, &n.node)
	//
	return n
}

// ExprStmt represents an expression evaluated for its side effects.
type ExprStmt struct {
	node
	Expr Expr
}

// NewExprStmt constructs an expression statement.
func (p *Arena) NewExprStmt(expr Expr) *ExprStmt {
	n := &ExprStmt{Expr: expr}
	p.alloc(n, &n.node)
	//
	return n
}

// If represents "if (c) s1 else s2", where the else branch may be nil.
type If struct {
	node
	Cond Expr
	Then Stmt
	Else Stmt
}

// NewIf constructs an if statement.
func (p *Arena) NewIf(cond Expr, then Stmt, otherwise Stmt) *If {
	n := &If{Cond: cond, Then: then, Else: otherwise}
	p.alloc(n, &n.node)
	//
	return n
}

// While represents "while (c) s".
type While struct {
	node
	Cond Expr
	Body Stmt
}

// NewWhile constructs a while loop.
func (p *Arena) NewWhile(cond Expr, body Stmt) *While {
	n := &While{Cond: cond, Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// DoWhile represents "do s while (c);".
type DoWhile struct {
	node
	Body Stmt
	Cond Expr
}

// NewDoWhile constructs a do-while loop.
func (p *Arena) NewDoWhile(body Stmt, cond Expr) *DoWhile {
	n := &DoWhile{Body: body, Cond: cond}
	p.alloc(n, &n.node)
	//
	return n
}

// For represents "for (init; cond; step) s".  The condition may be nil.
type For struct {
	node
	Init []Stmt
	Cond Expr
	Step []Expr
	Body Stmt
}

// NewFor constructs a for loop.
func (p *Arena) NewFor(init []Stmt, cond Expr, step []Expr, body Stmt) *For {
	n := &For{Init: init, Cond: cond, Step: step, Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// Foreach represents "foreach (T x in e) s", where the type is nil when
// declared with "var".
type Foreach struct {
	node
	Type   *TypeRef
	Name   string
	Source Expr
	Body   Stmt
}

// NewForeach constructs a foreach loop.
func (p *Arena) NewForeach(typ *TypeRef, name string, source Expr, body Stmt) *Foreach {
	n := &Foreach{Type: typ, Name: name, Source: source, Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// SwitchSection represents one or more case labels (or a default label)
// followed by the statements they select.
type SwitchSection struct {
	node
	Labels  []Expr
	Default bool
	Body    []Stmt
}

// NewSwitchSection constructs a switch section.
func (p *Arena) NewSwitchSection(labels []Expr, isDefault bool, body []Stmt) *SwitchSection {
	n := &SwitchSection{Labels: labels, Default: isDefault, Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// Switch represents "switch (e) { sections }".
type Switch struct {
	node
	Subject  Expr
	Sections []*SwitchSection
}

// NewSwitch constructs a switch statement.
func (p *Arena) NewSwitch(subject Expr, sections ...*SwitchSection) *Switch {
	n := &Switch{Subject: subject, Sections: sections}
	p.alloc(n, &n.node)
	//
	return n
}

// Break represents "break;".
type Break struct {
	node
}

// NewBreak constructs a break statement.
func (p *Arena) NewBreak() *Break {
	n := &Break{}
	p.alloc(n, &n.node)
	//
	return n
}

// Continue represents "continue;".
type Continue struct {
	node
}

// NewContinue constructs a continue statement.
func (p *Arena) NewContinue() *Continue {
	n := &Continue{}
	p.alloc(n, &n.node)
	//
	return n
}

// Return represents "return e;", where the value may be nil.
type Return struct {
	node
	Value Expr
}

// NewReturn constructs a return statement.
func (p *Arena) NewReturn(value Expr) *Return {
	n := &Return{Value: value}
	p.alloc(n, &n.node)
	//
	return n
}

// YieldReturn represents "yield return e;".
type YieldReturn struct {
	node
	Value Expr
}

// NewYieldReturn constructs a yield return statement.
func (p *Arena) NewYieldReturn(value Expr) *YieldReturn {
	n := &YieldReturn{Value: value}
	p.alloc(n, &n.node)
	//
	return n
}

// YieldBreak represents "yield break;".
type YieldBreak struct {
	node
}

// NewYieldBreak constructs a yield break statement.
func (p *Arena) NewYieldBreak() *YieldBreak {
	n := &YieldBreak{}
	p.alloc(n, &n.node)
	//
	return n
}

// Goto represents "goto label;".
type Goto struct {
	node
	Label string
}

// NewGoto constructs a goto statement.
func (p *Arena) NewGoto(label string) *Goto {
	n := &Goto{Label: label}
	p.alloc(n, &n.node)
	//
	return n
}

// Labeled represents "label: s".
type Labeled struct {
	node
	Label string
	Stmt  Stmt
}

// NewLabeled constructs a labeled statement.
func (p *Arena) NewLabeled(label string, stmt Stmt) *Labeled {
	n := &Labeled{Label: label, Stmt: stmt}
	p.alloc(n, &n.node)
	//
	return n
}

// Unsafe represents "unsafe { ... }".
type Unsafe struct {
	node
	Body *Block
}

// NewUnsafe constructs an unsafe block.
func (p *Arena) NewUnsafe(body *Block) *Unsafe {
	n := &Unsafe{Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// LocalFunction represents a function declared within a block.  Local
// functions may be referenced anywhere within their enclosing block.
type LocalFunction struct {
	node
	Return *TypeRef
	Name   string
	Params []*Parameter
	Body   *Block
}

// NewLocalFunction constructs a local function declaration.
func (p *Arena) NewLocalFunction(ret *TypeRef, name string, params []*Parameter, body *Block) *LocalFunction {
	n := &LocalFunction{Return: ret, Name: name, Params: params, Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// Empty represents ";".
type Empty struct {
	node
}

// NewEmpty constructs an empty statement.
func (p *Arena) NewEmpty() *Empty {
	n := &Empty{}
	p.alloc(n, &n.node)
	//
	return n
}

func (p *Block) isStmt()         {}
func (p *LocalDecl) isStmt()     {}
func (p *ExprStmt) isStmt()      {}
func (p *If) isStmt()            {}
func (p *While) isStmt()         {}
func (p *DoWhile) isStmt()       {}
func (p *For) isStmt()           {}
func (p *Foreach) isStmt()       {}
func (p *Switch) isStmt()        {}
func (p *Break) isStmt()         {}
func (p *Continue) isStmt()      {}
func (p *Return) isStmt()        {}
func (p *YieldReturn) isStmt()   {}
func (p *YieldBreak) isStmt()    {}
func (p *Goto) isStmt()          {}
func (p *Labeled) isStmt()       {}
func (p *Unsafe) isStmt()        {}
func (p *LocalFunction) isStmt() {}
func (p *Empty) isStmt()         {}
