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

// LiteralKind identifies the kind of a literal constant.
type LiteralKind uint8

const (
	// INT indicates an integer literal (held as int64).
	INT LiteralKind = iota
	// FLOAT indicates a floating point literal (held as float64).
	FLOAT
	// STRING indicates a string literal (held as string).
	STRING
	// CHAR indicates a character literal (held as rune).
	CHAR
	// BOOL indicates a boolean literal (held as bool).
	BOOL
	// NULL indicates the null literal (held as nil).
	NULL
)

// Literal represents a constant value embedded in the source.
type Literal struct {
	node
	Kind  LiteralKind
	Value any
}

// NewLiteral constructs a literal of a given kind.
func (p *Arena) NewLiteral(kind LiteralKind, value any) *Literal {
	n := &Literal{Kind: kind, Value: value}
	p.alloc(n, &n.node)
	//
	return n
}

// Name represents an identifier occurrence, such as a reference to a local
// variable, a parameter or a type.
type Name struct {
	node
	Ident string
}

// NewName constructs a name expression.
func (p *Arena) NewName(ident string) *Name {
	n := &Name{Ident: ident}
	p.alloc(n, &n.node)
	//
	return n
}

// MemberAccess represents an expression "e.Name".
type MemberAccess struct {
	node
	Target Expr
	Name   string
}

// NewMemberAccess constructs a member access expression.
func (p *Arena) NewMemberAccess(target Expr, name string) *MemberAccess {
	n := &MemberAccess{Target: target, Name: name}
	p.alloc(n, &n.node)
	//
	return n
}

// ElementAccess represents an expression "e[i, ...]".
type ElementAccess struct {
	node
	Target  Expr
	Indices []Expr
}

// NewElementAccess constructs an element access expression.
func (p *Arena) NewElementAccess(target Expr, indices ...Expr) *ElementAccess {
	n := &ElementAccess{Target: target, Indices: indices}
	p.alloc(n, &n.node)
	//
	return n
}

// Invocation represents a call "f(a, ...)".
type Invocation struct {
	node
	Callee Expr
	Args   []Expr
}

// NewInvocation constructs an invocation expression.
func (p *Arena) NewInvocation(callee Expr, args ...Expr) *Invocation {
	n := &Invocation{Callee: callee, Args: args}
	p.alloc(n, &n.node)
	//
	return n
}

// BinOp represents the set of binary operators.
type BinOp uint8

const (
	// ADD represents "+"
	ADD BinOp = iota
	// SUB represents "-"
	SUB
	// MUL represents "*"
	MUL
	// DIV represents "/"
	DIV
	// REM represents "%"
	REM
	// EQ represents "=="
	EQ
	// NEQ represents "!="
	NEQ
	// LT represents "<"
	LT
	// LTEQ represents "<="
	LTEQ
	// GT represents ">"
	GT
	// GTEQ represents ">="
	GTEQ
	// AND represents "&&"
	AND
	// OR represents "||"
	OR
)

var binops = []string{"+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||"}

func (p BinOp) String() string {
	if int(p) < len(binops) {
		return binops[p]
	}
	//
	panic("unreachable")
}

// ParseBinOp determines the binary operator for a given operator symbol.
func ParseBinOp(symbol string) (BinOp, bool) {
	for i, s := range binops {
		if s == symbol {
			return BinOp(i), true
		}
	}
	//
	return 0, false
}

// Binary represents an expression "l op r".
type Binary struct {
	node
	Op    BinOp
	Left  Expr
	Right Expr
}

// NewBinary constructs a binary expression.
func (p *Arena) NewBinary(op BinOp, left Expr, right Expr) *Binary {
	n := &Binary{Op: op, Left: left, Right: right}
	p.alloc(n, &n.node)
	//
	return n
}

// UnOp represents the set of unary operators.
type UnOp uint8

const (
	// NEG represents prefix "-"
	NEG UnOp = iota
	// NOT represents prefix "!"
	NOT
	// PRE_INC represents prefix "++"
	PRE_INC
	// PRE_DEC represents prefix "--"
	PRE_DEC
	// POST_INC represents postfix "++"
	POST_INC
	// POST_DEC represents postfix "--"
	POST_DEC
)

var unops = []string{"-", "!", "++", "--", "post++", "post--"}

func (p UnOp) String() string {
	if int(p) < len(unops) {
		return unops[p]
	}
	//
	panic("unreachable")
}

// IsMutation checks whether this operator writes to its operand.
func (p UnOp) IsMutation() bool {
	return p >= PRE_INC
}

// IsPostfix checks whether this operator follows its operand.
func (p UnOp) IsPostfix() bool {
	return p == POST_INC || p == POST_DEC
}

// ParseUnOp determines the unary operator for a given operator symbol, where
// postfix operators carry a "post" prefix.
func ParseUnOp(symbol string) (UnOp, bool) {
	for i, s := range unops {
		if s == symbol {
			return UnOp(i), true
		}
	}
	//
	return 0, false
}

// Unary represents a prefix or postfix unary expression.
type Unary struct {
	node
	Op      UnOp
	Operand Expr
}

// NewUnary constructs a unary expression.
func (p *Arena) NewUnary(op UnOp, operand Expr) *Unary {
	n := &Unary{Op: op, Operand: operand}
	p.alloc(n, &n.node)
	//
	return n
}

// AssignOp represents the set of assignment operators.
type AssignOp uint8

const (
	// ASSIGN represents "="
	ASSIGN AssignOp = iota
	// ADD_ASSIGN represents "+="
	ADD_ASSIGN
	// SUB_ASSIGN represents "-="
	SUB_ASSIGN
	// MUL_ASSIGN represents "*="
	MUL_ASSIGN
	// DIV_ASSIGN represents "/="
	DIV_ASSIGN
)

var assignops = []string{"=", "+=", "-=", "*=", "/="}

func (p AssignOp) String() string {
	if int(p) < len(assignops) {
		return assignops[p]
	}
	//
	panic("unreachable")
}

// Arithmetic returns the binary operator underlying a compound assignment.
// This returns false for a plain assignment.
func (p AssignOp) Arithmetic() (BinOp, bool) {
	switch p {
	case ADD_ASSIGN:
		return ADD, true
	case SUB_ASSIGN:
		return SUB, true
	case MUL_ASSIGN:
		return MUL, true
	case DIV_ASSIGN:
		return DIV, true
	default:
		return 0, false
	}
}

// ParseAssignOp determines the assignment operator for a given symbol.
func ParseAssignOp(symbol string) (AssignOp, bool) {
	for i, s := range assignops {
		if s == symbol {
			return AssignOp(i), true
		}
	}
	//
	return 0, false
}

// Assignment represents "target op= value".  Assignments also appear as the
// entries of an object initializer, where the target names a member of the
// object being created.
type Assignment struct {
	node
	Op     AssignOp
	Target Expr
	Value  Expr
}

// NewAssignment constructs an assignment expression.
func (p *Arena) NewAssignment(op AssignOp, target Expr, value Expr) *Assignment {
	n := &Assignment{Op: op, Target: target, Value: value}
	p.alloc(n, &n.node)
	//
	return n
}

// Conditional represents "c ? a : b".
type Conditional struct {
	node
	Cond Expr
	Then Expr
	Else Expr
}

// NewConditional constructs a conditional expression.
func (p *Arena) NewConditional(cond Expr, then Expr, otherwise Expr) *Conditional {
	n := &Conditional{Cond: cond, Then: then, Else: otherwise}
	p.alloc(n, &n.node)
	//
	return n
}

// Cast represents "(T) e".
type Cast struct {
	node
	Type    *TypeRef
	Operand Expr
}

// NewCast constructs a cast expression.
func (p *Arena) NewCast(typ *TypeRef, operand Expr) *Cast {
	n := &Cast{Type: typ, Operand: operand}
	p.alloc(n, &n.node)
	//
	return n
}

// TypeOf represents "typeof(T)".
type TypeOf struct {
	node
	Type *TypeRef
}

// NewTypeOf constructs a typeof expression.
func (p *Arena) NewTypeOf(typ *TypeRef) *TypeOf {
	n := &TypeOf{Type: typ}
	p.alloc(n, &n.node)
	//
	return n
}

// NameOf represents "nameof(e)".
type NameOf struct {
	node
	Operand Expr
}

// NewNameOf constructs a nameof expression.
func (p *Arena) NewNameOf(operand Expr) *NameOf {
	n := &NameOf{Operand: operand}
	p.alloc(n, &n.node)
	//
	return n
}

// Lambda represents an anonymous function "(a, b) => body", where the body is
// either an expression or a block.
type Lambda struct {
	node
	Params []*Parameter
	Body   Node
}

// NewLambda constructs a lambda expression.
func (p *Arena) NewLambda(params []*Parameter, body Node) *Lambda {
	n := &Lambda{Params: params, Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// HasBlockBody checks whether this lambda has a statement body.
func (p *Lambda) HasBlockBody() bool {
	_, ok := p.Body.(*Block)
	return ok
}

// AnonymousMethod represents "delegate (params) { ... }".
type AnonymousMethod struct {
	node
	Params []*Parameter
	Body   *Block
}

// NewAnonymousMethod constructs an anonymous method expression.
func (p *Arena) NewAnonymousMethod(params []*Parameter, body *Block) *AnonymousMethod {
	n := &AnonymousMethod{Params: params, Body: body}
	p.alloc(n, &n.node)
	//
	return n
}

// ObjectCreation represents "new T(args) { initializers }".  Initializer
// entries are either assignments to members of the created object, or the
// elements of a collection.
type ObjectCreation struct {
	node
	Type         *TypeRef
	Args         []Expr
	Initializers []Expr
}

// NewObjectCreation constructs an object creation expression.
func (p *Arena) NewObjectCreation(typ *TypeRef, args []Expr, initializers []Expr) *ObjectCreation {
	n := &ObjectCreation{Type: typ, Args: args, Initializers: initializers}
	p.alloc(n, &n.node)
	//
	return n
}

// AnonymousMember is a named entry of an anonymous object.
type AnonymousMember struct {
	node
	Name  string
	Value Expr
}

// NewAnonymousMember constructs an entry of an anonymous object.
func (p *Arena) NewAnonymousMember(name string, value Expr) *AnonymousMember {
	n := &AnonymousMember{Name: name, Value: value}
	p.alloc(n, &n.node)
	//
	return n
}

// AnonymousObject represents "new { A = e, ... }".
type AnonymousObject struct {
	node
	Members []*AnonymousMember
}

// NewAnonymousObject constructs an anonymous object creation.
func (p *Arena) NewAnonymousObject(members ...*AnonymousMember) *AnonymousObject {
	n := &AnonymousObject{Members: members}
	p.alloc(n, &n.node)
	//
	return n
}

// ArrayCreation represents "new T[] { ... }" or "new[] { ... }", where the
// element type is nil in the latter case.
type ArrayCreation struct {
	node
	Element *TypeRef
	Items   []Expr
}

// NewArrayCreation constructs an array creation expression.
func (p *Arena) NewArrayCreation(element *TypeRef, items ...Expr) *ArrayCreation {
	n := &ArrayCreation{Element: element, Items: items}
	p.alloc(n, &n.node)
	//
	return n
}

// TupleElement is an (optionally named) element of a tuple literal.
type TupleElement struct {
	node
	Name  string
	Value Expr
}

// NewTupleElement constructs a tuple element.
func (p *Arena) NewTupleElement(name string, value Expr) *TupleElement {
	n := &TupleElement{Name: name, Value: value}
	p.alloc(n, &n.node)
	//
	return n
}

// Tuple represents a tuple literal "(a, b: e, ...)".
type Tuple struct {
	node
	Elements []*TupleElement
}

// NewTuple constructs a tuple literal.
func (p *Arena) NewTuple(elements ...*TupleElement) *Tuple {
	n := &Tuple{Elements: elements}
	p.alloc(n, &n.node)
	//
	return n
}

// Query represents a query comprehension "from x in e where c select r",
// where the where clause is optional.
type Query struct {
	node
	Variable string
	Source   Expr
	Where    Expr
	Select   Expr
}

// NewQuery constructs a query comprehension.
func (p *Arena) NewQuery(variable string, source Expr, where Expr, selection Expr) *Query {
	n := &Query{Variable: variable, Source: source, Where: where, Select: selection}
	p.alloc(n, &n.node)
	//
	return n
}

func (p *Literal) isExpr()         {}
func (p *Name) isExpr()            {}
func (p *MemberAccess) isExpr()    {}
func (p *ElementAccess) isExpr()   {}
func (p *Invocation) isExpr()      {}
func (p *Binary) isExpr()          {}
func (p *Unary) isExpr()           {}
func (p *Assignment) isExpr()      {}
func (p *Conditional) isExpr()     {}
func (p *Cast) isExpr()            {}
func (p *TypeOf) isExpr()          {}
func (p *NameOf) isExpr()          {}
func (p *Lambda) isExpr()          {}
func (p *AnonymousMethod) isExpr() {}
func (p *ObjectCreation) isExpr()  {}
func (p *AnonymousObject) isExpr() {}
func (p *ArrayCreation) isExpr()   {}
func (p *Tuple) isExpr()           {}
func (p *Query) isExpr()           {}
