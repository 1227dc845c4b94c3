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
	"fmt"
	"strconv"
	"strings"
)

// Print renders a given node as source text, using a conventional layout of
// four spaces per level of indentation.
func Print(n Node) string {
	var p printer
	//
	p.node(n)
	//
	return strings.TrimRight(p.out.String(), "\n")
}

// PrintUnit renders all declarations of a given unit as source text.
func PrintUnit(unit *Unit) string {
	var p printer
	//
	for i, t := range unit.Types {
		if i != 0 {
			p.newline()
		}
		//
		p.externType(t)
		p.newline()
	}
	//
	for i, m := range unit.Members {
		if i != 0 || len(unit.Types) != 0 {
			p.newline()
		}
		//
		p.member(m)
		p.newline()
	}
	//
	return strings.TrimRight(p.out.String(), "\n")
}

// Operator precedence levels, from loosest to tightest.
const (
	precAssign = iota + 1
	precConditional
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPrimary
)

// Precedence of a given binary operator.
func (p BinOp) Precedence() int {
	switch p {
	case OR:
		return precOr
	case AND:
		return precAnd
	case EQ, NEQ:
		return precEquality
	case LT, LTEQ, GT, GTEQ:
		return precRelational
	case ADD, SUB:
		return precAdditive
	default:
		return precMultiplicative
	}
}

func precedence(e Expr) int {
	switch e := e.(type) {
	case *Assignment, *Lambda, *AnonymousMethod, *Query:
		return precAssign
	case *Conditional:
		return precConditional
	case *Binary:
		return e.Op.Precedence()
	case *Cast:
		return precUnary
	case *Unary:
		if e.Op.IsPostfix() {
			return precPrimary
		}
		//
		return precUnary
	default:
		return precPrimary
	}
}

type printer struct {
	out    strings.Builder
	indent int
}

func (p *printer) write(format string, args ...any) {
	if len(args) == 0 {
		p.out.WriteString(format)
	} else {
		fmt.Fprintf(&p.out, format, args...)
	}
}

func (p *printer) newline() {
	p.out.WriteString("\n")
}

func (p *printer) pad() {
	p.out.WriteString(strings.Repeat("    ", p.indent))
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case Expr:
		p.expr(n, precAssign)
	case Stmt:
		p.stmt(n)
	case *TypeRef:
		p.typeRef(n)
	case *Parameter:
		p.parameter(n)
	case *TypeParameter:
		p.typeParameter(n)
	case *Member:
		p.member(n)
	case *ExternType:
		p.externType(n)
	case *ExternMember:
		p.externMember(n)
	case *SwitchSection:
		p.section(n)
	case *AnonymousMember:
		p.write("%s = ", n.Name)
		p.expr(n.Value, precAssign)
	case *TupleElement:
		p.tupleElement(n)
	default:
		panic("unknown node encountered")
	}
}

// ============================================================================
// Declarations
// ============================================================================

func (p *printer) attributes(attributes []string) {
	for _, attr := range attributes {
		p.write("[%s] ", attr)
	}
}

func (p *printer) member(m *Member) {
	p.attributes(m.Attributes)
	//
	if m.Template {
		p.write("template ")
	}
	//
	p.typeRef(m.Return)
	p.write(" %s", m.Name)
	p.typeParameters(m.TypeParams)
	p.parameters(m.Params)
	p.write(" ")
	p.block(m.Body)
}

func (p *printer) externType(t *ExternType) {
	p.attributes(t.Attributes)
	p.write("extern class %s", t.Name)
	p.typeParameters(t.TypeParams)
	p.write(" {")
	p.newline()
	p.indent++
	//
	for _, m := range t.Members {
		p.pad()
		p.externMember(m)
		p.newline()
	}
	//
	p.indent--
	p.pad()
	p.write("}")
}

func (p *printer) externMember(m *ExternMember) {
	p.attributes(m.Attributes)
	//
	if m.Static {
		p.write("static ")
	}
	//
	p.typeRef(m.Type)
	p.write(" %s", m.Name)
	//
	if m.Method {
		p.typeParameters(m.TypeParams)
		p.parameters(m.Params)
	}
	//
	p.write(";")
}

func (p *printer) typeParameters(params []*TypeParameter) {
	if len(params) == 0 {
		return
	}
	//
	p.write("<")
	//
	for i, tp := range params {
		if i != 0 {
			p.write(", ")
		}
		//
		p.typeParameter(tp)
	}
	//
	p.write(">")
}

func (p *printer) typeParameter(tp *TypeParameter) {
	p.attributes(tp.Attributes)
	p.write("%s", tp.Name)
}

func (p *printer) parameters(params []*Parameter) {
	p.write("(")
	//
	for i, param := range params {
		if i != 0 {
			p.write(", ")
		}
		//
		p.parameter(param)
	}
	//
	p.write(")")
}

func (p *printer) parameter(param *Parameter) {
	p.attributes(param.Attributes)
	//
	if param.Type != nil {
		p.typeRef(param.Type)
		p.write(" ")
	}
	//
	p.write("%s", param.Name)
}

func (p *printer) typeRef(t *TypeRef) {
	if t == nil {
		p.write("var")
		return
	}
	//
	p.write("%s", t.Name)
	//
	if len(t.Args) > 0 {
		p.write("<")
		//
		for i, arg := range t.Args {
			if i != 0 {
				p.write(", ")
			}
			//
			p.typeRef(arg)
		}
		//
		p.write(">")
	}
	//
	for range t.Rank {
		p.write("[]")
	}
}

// ============================================================================
// Statements
// ============================================================================

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *Block:
		p.block(s)
	case *LocalDecl, *ExprStmt:
		p.simple(s)
		p.write(";")
	case *If:
		p.write("if (")
		p.expr(s.Cond, precAssign)
		p.write(")")
		p.body(s.Then)
		//
		if s.Else != nil {
			if _, ok := s.Then.(*Block); ok {
				p.write(" ")
			} else {
				p.newline()
				p.pad()
			}
			//
			p.write("else")
			//
			if elif, ok := s.Else.(*If); ok {
				p.write(" ")
				p.stmt(elif)
			} else {
				p.body(s.Else)
			}
		}
	case *While:
		p.write("while (")
		p.expr(s.Cond, precAssign)
		p.write(")")
		p.body(s.Body)
	case *DoWhile:
		p.write("do")
		p.body(s.Body)
		p.write(" while (")
		p.expr(s.Cond, precAssign)
		p.write(");")
	case *For:
		p.forLoop(s)
	case *Foreach:
		p.write("foreach (")
		p.typeRef(s.Type)
		p.write(" %s in ", s.Name)
		p.expr(s.Source, precAssign)
		p.write(")")
		p.body(s.Body)
	case *Switch:
		p.write("switch (")
		p.expr(s.Subject, precAssign)
		p.write(") {")
		p.newline()
		//
		for _, section := range s.Sections {
			p.pad()
			p.section(section)
			p.newline()
		}
		//
		p.pad()
		p.write("}")
	case *Break:
		p.write("break;")
	case *Continue:
		p.write("continue;")
	case *Return:
		p.write("return")
		//
		if s.Value != nil {
			p.write(" ")
			p.expr(s.Value, precAssign)
		}
		//
		p.write(";")
	case *YieldReturn:
		p.write("yield return ")
		p.expr(s.Value, precAssign)
		p.write(";")
	case *YieldBreak:
		p.write("yield break;")
	case *Goto:
		p.write("goto %s;", s.Label)
	case *Labeled:
		p.write("%s: ", s.Label)
		p.stmt(s.Stmt)
	case *Unsafe:
		p.write("unsafe ")
		p.block(s.Body)
	case *LocalFunction:
		p.typeRef(s.Return)
		p.write(" %s", s.Name)
		p.parameters(s.Params)
		p.write(" ")
		p.block(s.Body)
	case *Empty:
		p.write(";")
	default:
		panic("unknown statement encountered")
	}
}

// simple prints a statement which can appear within the header of a for loop.
func (p *printer) simple(s Stmt) {
	switch s := s.(type) {
	case *LocalDecl:
		p.attributes(s.Attributes)
		p.typeRef(s.Type)
		p.write(" %s", s.Name)
		//
		if s.Init != nil {
			p.write(" = ")
			p.expr(s.Init, precAssign)
		}
	case *ExprStmt:
		p.expr(s.Expr, precAssign)
	default:
		p.stmt(s)
	}
}

func (p *printer) forLoop(s *For) {
	p.write("for (")
	//
	for i, init := range s.Init {
		if i != 0 {
			p.write(", ")
		}
		//
		p.simple(init)
	}
	//
	p.write("; ")
	//
	if s.Cond != nil {
		p.expr(s.Cond, precAssign)
	}
	//
	p.write("; ")
	p.exprList(s.Step)
	p.write(")")
	p.body(s.Body)
}

func (p *printer) section(s *SwitchSection) {
	for i, label := range s.Labels {
		if i != 0 {
			p.write(" ")
		}
		//
		p.write("case ")
		p.expr(label, precAssign)
		p.write(":")
	}
	//
	if s.Default {
		if len(s.Labels) > 0 {
			p.write(" ")
		}
		//
		p.write("default:")
	}
	//
	p.indent++
	//
	for _, stmt := range s.Body {
		p.newline()
		p.pad()
		p.stmt(stmt)
	}
	//
	p.indent--
}

// body prints the body of a control statement, which sits on the same line
// when it is a block.
func (p *printer) body(s Stmt) {
	if b, ok := s.(*Block); ok {
		p.write(" ")
		p.block(b)
		//
		return
	}
	//
	p.indent++
	p.newline()
	p.pad()
	p.stmt(s)
	p.indent--
}

func (p *printer) block(b *Block) {
	p.write("{")
	p.indent++
	//
	for _, s := range b.Stmts {
		p.newline()
		p.pad()
		p.stmt(s)
	}
	//
	p.indent--
	p.newline()
	p.pad()
	p.write("}")
}

// ============================================================================
// Expressions
// ============================================================================

func (p *printer) expr(e Expr, min int) {
	var parens = precedence(e) < min
	//
	if parens {
		p.write("(")
	}
	//
	switch e := e.(type) {
	case *Literal:
		p.write("%s", LiteralString(e.Kind, e.Value))
	case *Name:
		p.write("%s", e.Ident)
	case *MemberAccess:
		p.expr(e.Target, precPrimary)
		p.write(".%s", e.Name)
	case *ElementAccess:
		p.expr(e.Target, precPrimary)
		p.write("[")
		p.exprList(e.Indices)
		p.write("]")
	case *Invocation:
		p.expr(e.Callee, precPrimary)
		p.write("(")
		p.exprList(e.Args)
		p.write(")")
	case *Binary:
		p.expr(e.Left, e.Op.Precedence())
		p.write(" %s ", e.Op)
		p.expr(e.Right, e.Op.Precedence()+1)
	case *Unary:
		p.unary(e)
	case *Assignment:
		p.expr(e.Target, precUnary)
		p.write(" %s ", e.Op)
		p.expr(e.Value, precAssign)
	case *Conditional:
		p.expr(e.Cond, precOr)
		p.write(" ? ")
		p.expr(e.Then, precAssign)
		p.write(" : ")
		p.expr(e.Else, precConditional)
	case *Cast:
		p.write("(")
		p.typeRef(e.Type)
		p.write(")")
		p.expr(e.Operand, precUnary)
	case *TypeOf:
		p.write("typeof(")
		p.typeRef(e.Type)
		p.write(")")
	case *NameOf:
		p.write("nameof(")
		p.expr(e.Operand, precAssign)
		p.write(")")
	case *Lambda:
		p.lambda(e)
	case *AnonymousMethod:
		p.write("delegate ")
		p.parameters(e.Params)
		p.write(" ")
		p.block(e.Body)
	case *ObjectCreation:
		p.write("new ")
		p.typeRef(e.Type)
		p.write("(")
		p.exprList(e.Args)
		p.write(")")
		//
		if len(e.Initializers) > 0 {
			p.write(" { ")
			p.exprList(e.Initializers)
			p.write(" }")
		}
	case *AnonymousObject:
		p.write("new { ")
		//
		for i, m := range e.Members {
			if i != 0 {
				p.write(", ")
			}
			//
			p.write("%s = ", m.Name)
			p.expr(m.Value, precAssign)
		}
		//
		p.write(" }")
	case *ArrayCreation:
		p.write("new")
		//
		if e.Element != nil {
			p.write(" ")
			p.typeRef(e.Element)
		}
		//
		p.write("[] { ")
		p.exprList(e.Items)
		p.write(" }")
	case *Tuple:
		p.write("(")
		//
		for i, elem := range e.Elements {
			if i != 0 {
				p.write(", ")
			}
			//
			p.tupleElement(elem)
		}
		//
		p.write(")")
	case *Query:
		p.write("from %s in ", e.Variable)
		p.expr(e.Source, precConditional)
		//
		if e.Where != nil {
			p.write(" where ")
			p.expr(e.Where, precConditional)
		}
		//
		p.write(" select ")
		p.expr(e.Select, precConditional)
	default:
		panic("unknown expression encountered")
	}
	//
	if parens {
		p.write(")")
	}
}

func (p *printer) unary(e *Unary) {
	switch e.Op {
	case POST_INC:
		p.expr(e.Operand, precPrimary)
		p.write("++")
	case POST_DEC:
		p.expr(e.Operand, precPrimary)
		p.write("--")
	default:
		p.write("%s", e.Op.String())
		// Avoid printing "- -x" as "--x"
		if inner, ok := e.Operand.(*Unary); ok && !inner.Op.IsPostfix() {
			p.write("(")
			p.expr(e.Operand, precAssign)
			p.write(")")
		} else {
			p.expr(e.Operand, precUnary)
		}
	}
}

func (p *printer) lambda(e *Lambda) {
	if len(e.Params) == 1 && e.Params[0].Type == nil && len(e.Params[0].Attributes) == 0 {
		p.write("%s", e.Params[0].Name)
	} else {
		p.parameters(e.Params)
	}
	//
	p.write(" => ")
	//
	switch body := e.Body.(type) {
	case *Block:
		p.block(body)
	case Expr:
		p.expr(body, precAssign)
	default:
		panic("unknown lambda body encountered")
	}
}

func (p *printer) tupleElement(elem *TupleElement) {
	if elem.Name != "" {
		p.write("%s: ", elem.Name)
	}
	//
	p.expr(elem.Value, precAssign)
}

func (p *printer) exprList(exprs []Expr) {
	for i, e := range exprs {
		if i != 0 {
			p.write(", ")
		}
		//
		p.expr(e, precAssign)
	}
}

// LiteralString renders a literal value of a given kind as source text.
func LiteralString(kind LiteralKind, value any) string {
	switch kind {
	case INT:
		return strconv.FormatInt(value.(int64), 10)
	case FLOAT:
		str := strconv.FormatFloat(value.(float64), 'g', -1, 64)
		//
		if !strings.ContainsAny(str, ".eIN") {
			str = str + ".0"
		}
		//
		return str
	case STRING:
		return strconv.Quote(value.(string))
	case CHAR:
		return strconv.QuoteRune(value.(rune))
	case BOOL:
		return strconv.FormatBool(value.(bool))
	case NULL:
		return "null"
	default:
		panic("unreachable")
	}
}
