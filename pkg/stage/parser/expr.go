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
package parser

import (
	"slices"
	"strconv"
	"strings"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/util/source"
	"github.com/consensys/go-stager/pkg/util/source/lex"
)

var assignOps = map[uint]ast.AssignOp{
	EQUALS:        ast.ASSIGN,
	PLUS_EQUALS:   ast.ADD_ASSIGN,
	MINUS_EQUALS:  ast.SUB_ASSIGN,
	TIMES_EQUALS:  ast.MUL_ASSIGN,
	DIVIDE_EQUALS: ast.DIV_ASSIGN,
}

var binaryOps = map[uint]ast.BinOp{
	OR_OR:               ast.OR,
	AND_AND:             ast.AND,
	EQUALS_EQUALS:       ast.EQ,
	NOT_EQUALS:          ast.NEQ,
	LESS_THAN:           ast.LT,
	LESS_THAN_EQUALS:    ast.LTEQ,
	GREATER_THAN:        ast.GT,
	GREATER_THAN_EQUALS: ast.GTEQ,
	PLUS:                ast.ADD,
	MINUS:               ast.SUB,
	TIMES:               ast.MUL,
	DIVIDE:              ast.DIV,
	REMAINDER:           ast.REM,
}

var prefixOps = map[uint]ast.UnOp{
	MINUS:       ast.NEG,
	NOT:         ast.NOT,
	PLUS_PLUS:   ast.PRE_INC,
	MINUS_MINUS: ast.PRE_DEC,
}

// Tokens which can start the operand of a cast.
var castOperands = []uint{IDENTIFIER, NUMBER, STRING, CHARACTER, KEYWORD_TRUE, KEYWORD_FALSE, KEYWORD_NULL,
	KEYWORD_NEW, KEYWORD_TYPEOF, KEYWORD_NAMEOF}

func (p *Parser) parseExpr() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	if p.isLambda() {
		return p.parseLambda()
	}
	//
	lhs, errs := p.parseConditional()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if op, ok := assignOps[p.lookahead().Kind]; ok {
		p.index++
		// Assignment is right associative
		rhs, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return mark(p, p.arena.NewAssignment(op, lhs, rhs), start), nil
	}
	//
	return lhs, nil
}

func (p *Parser) parseConditional() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	cond, errs := p.parseBinary(0)
	if len(errs) > 0 || !p.match(QUESTION) {
		return cond, errs
	}
	//
	then, errs := p.parseExpr()
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COLON); len(errs) > 0 {
		return nil, errs
	}
	//
	otherwise, errs := p.parseConditional()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return mark(p, p.arena.NewConditional(cond, then, otherwise), start), nil
}

// Parse a binary expression using precedence climbing, where only operators
// binding at least as tightly as the given precedence are consumed.
func (p *Parser) parseBinary(precedence int) (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	lhs, errs := p.parseUnary()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	for {
		op, ok := binaryOps[p.lookahead().Kind]
		//
		if !ok || op.Precedence() < precedence {
			return lhs, nil
		}
		//
		p.index++
		// Operators are left associative
		rhs, errs := p.parseBinary(op.Precedence() + 1)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		lhs = mark(p, p.arena.NewBinary(op, lhs, rhs), start)
	}
}

func (p *Parser) parseUnary() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	if op, ok := prefixOps[p.lookahead().Kind]; ok {
		p.index++
		//
		operand, errs := p.parseUnary()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return mark(p, p.arena.NewUnary(op, operand), start), nil
	} else if p.isCast() {
		p.match(LBRACE)
		//
		typ, errs := p.parseType()
		if len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		}
		//
		operand, errs := p.parseUnary()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return mark(p, p.arena.NewCast(typ, operand), start), nil
	}
	//
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	expr, errs := p.parsePrimary()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	for {
		switch p.lookahead().Kind {
		case DOT:
			var name string
			//
			p.match(DOT)
			//
			if name, errs = p.parseIdentifier(); len(errs) > 0 {
				return nil, errs
			}
			//
			expr = p.arena.NewMemberAccess(expr, name)
		case LSQUARE:
			var indices []ast.Expr
			//
			p.match(LSQUARE)
			//
			if indices, errs = p.parseExprList(RSQUARE); len(errs) > 0 {
				return nil, errs
			}
			//
			expr = p.arena.NewElementAccess(expr, indices...)
		case LBRACE:
			var args []ast.Expr
			//
			p.match(LBRACE)
			//
			if args, errs = p.parseExprList(RBRACE); len(errs) > 0 {
				return nil, errs
			}
			//
			expr = p.arena.NewInvocation(expr, args...)
		case PLUS_PLUS:
			p.match(PLUS_PLUS)
			expr = p.arena.NewUnary(ast.POST_INC, expr)
		case MINUS_MINUS:
			p.match(MINUS_MINUS)
			expr = p.arena.NewUnary(ast.POST_DEC, expr)
		default:
			return expr, nil
		}
		//
		mark(p, expr, start)
	}
}

func (p *Parser) parsePrimary() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		expr      ast.Expr
		errs      []source.SyntaxError
	)
	//
	switch lookahead.Kind {
	case NUMBER:
		p.match(NUMBER)
		expr, errs = p.number(lookahead)
	case STRING:
		var text string
		//
		p.match(STRING)
		//
		if text, errs = p.unquote(lookahead); len(errs) == 0 {
			expr = p.arena.NewLiteral(ast.STRING, text)
		}
	case CHARACTER:
		var text string
		//
		p.match(CHARACTER)
		//
		if text, errs = p.unquote(lookahead); len(errs) == 0 {
			expr = p.arena.NewLiteral(ast.CHAR, []rune(text)[0])
		}
	case KEYWORD_TRUE, KEYWORD_FALSE:
		p.index++
		expr = p.arena.NewLiteral(ast.BOOL, lookahead.Kind == KEYWORD_TRUE)
	case KEYWORD_NULL:
		p.index++
		expr = p.arena.NewLiteral(ast.NULL, nil)
	case IDENTIFIER:
		p.index++
		expr = p.arena.NewName(p.string(lookahead))
	case LBRACE:
		return p.parseParenthesised()
	case KEYWORD_NEW:
		expr, errs = p.parseNew()
	case KEYWORD_TYPEOF:
		var typ *ast.TypeRef
		//
		p.match(KEYWORD_TYPEOF)
		//
		if _, errs = p.expect(LBRACE); len(errs) > 0 {
			return nil, errs
		} else if typ, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(RBRACE); len(errs) == 0 {
			expr = p.arena.NewTypeOf(typ)
		}
	case KEYWORD_NAMEOF:
		var operand ast.Expr
		//
		p.match(KEYWORD_NAMEOF)
		//
		if operand, errs = p.parseCondition(); len(errs) == 0 {
			expr = p.arena.NewNameOf(operand)
		}
	case KEYWORD_DELEGATE:
		expr, errs = p.parseAnonymousMethod()
	case KEYWORD_FROM:
		expr, errs = p.parseQuery()
	default:
		return nil, p.syntaxErrors(lookahead, "unexpected token")
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return mark(p, expr, start), nil
}

// Parse either a parenthesised expression or a tuple literal.
func (p *Parser) parseParenthesised() (ast.Expr, []source.SyntaxError) {
	var (
		start    = p.index
		elements []*ast.TupleElement
	)
	//
	p.match(LBRACE)
	//
	for {
		var (
			estart = p.index
			name   string
		)
		//
		if p.follows(IDENTIFIER) && p.peek(1).Kind == COLON {
			name, _ = p.parseIdentifier()
			p.match(COLON)
		}
		//
		expr, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		// Check for a plain parenthesised expression
		if name == "" && len(elements) == 0 && p.match(RBRACE) {
			return expr, nil
		}
		//
		elements = append(elements, mark(p, p.arena.NewTupleElement(name, expr), estart))
		//
		if !p.match(COMMA) {
			break
		}
	}
	//
	if _, errs := p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	return mark(p, p.arena.NewTuple(elements...), start), nil
}

func (p *Parser) parseNew() (ast.Expr, []source.SyntaxError) {
	var (
		typ               *ast.TypeRef
		args, initialiser []ast.Expr
		errs              []source.SyntaxError
	)
	//
	p.match(KEYWORD_NEW)
	//
	switch {
	case p.follows(LCURLY):
		return p.parseAnonymousObject()
	case p.match(LSQUARE):
		if _, errs = p.expect(RSQUARE); len(errs) > 0 {
			return nil, errs
		}
		//
		return p.parseArrayItems(nil)
	}
	//
	if typ, errs = p.parseTypeName(); len(errs) > 0 {
		return nil, errs
	}
	//
	if p.follows(LSQUARE) && p.peek(1).Kind == RSQUARE {
		p.index += 2
		return p.parseArrayItems(typ)
	}
	//
	if p.match(LBRACE) {
		if args, errs = p.parseExprList(RBRACE); len(errs) > 0 {
			return nil, errs
		}
	} else if !p.follows(LCURLY) {
		return nil, p.syntaxErrors(p.lookahead(), "expected arguments or initialiser")
	}
	//
	if p.match(LCURLY) {
		if initialiser, errs = p.parseExprList(RCURLY); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return p.arena.NewObjectCreation(typ, args, initialiser), nil
}

func (p *Parser) parseArrayItems(element *ast.TypeRef) (ast.Expr, []source.SyntaxError) {
	if _, errs := p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	items, errs := p.parseExprList(RCURLY)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewArrayCreation(element, items...), nil
}

func (p *Parser) parseAnonymousObject() (ast.Expr, []source.SyntaxError) {
	var members []*ast.AnonymousMember
	//
	p.match(LCURLY)
	//
	for !p.match(RCURLY) {
		var (
			start = p.index
			value ast.Expr
		)
		//
		if len(members) > 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		name, errs := p.parseIdentifier()
		if len(errs) > 0 {
			return nil, errs
		}
		// Projection initialisers take the name of the variable projected.
		if p.match(EQUALS) {
			if value, errs = p.parseExpr(); len(errs) > 0 {
				return nil, errs
			}
		} else {
			value = mark(p, p.arena.NewName(name), start)
		}
		//
		members = append(members, mark(p, p.arena.NewAnonymousMember(name, value), start))
	}
	//
	return p.arena.NewAnonymousObject(members...), nil
}

func (p *Parser) parseAnonymousMethod() (ast.Expr, []source.SyntaxError) {
	var (
		params []*ast.Parameter
		body   *ast.Block
		errs   []source.SyntaxError
	)
	//
	p.match(KEYWORD_DELEGATE)
	//
	if params, errs = p.parseParameters(); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewAnonymousMethod(params, body), nil
}

func (p *Parser) parseQuery() (ast.Expr, []source.SyntaxError) {
	var (
		variable             string
		src, where, selected ast.Expr
		errs                 []source.SyntaxError
	)
	//
	p.match(KEYWORD_FROM)
	//
	if variable, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(KEYWORD_IN); len(errs) > 0 {
		return nil, errs
	} else if src, errs = p.parseConditional(); len(errs) > 0 {
		return nil, errs
	}
	//
	if p.match(KEYWORD_WHERE) {
		if where, errs = p.parseConditional(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(KEYWORD_SELECT); len(errs) > 0 {
		return nil, errs
	} else if selected, errs = p.parseConditional(); len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewQuery(variable, src, where, selected), nil
}

func (p *Parser) parseLambda() (ast.Expr, []source.SyntaxError) {
	var (
		start  = p.index
		params []*ast.Parameter
		body   ast.Node
		errs   []source.SyntaxError
	)
	//
	if p.follows(IDENTIFIER) {
		name, _ := p.parseIdentifier()
		params = append(params, mark(p, p.arena.NewParameter(nil, nil, name), start))
	} else {
		p.match(LBRACE)
		//
		for !p.match(RBRACE) {
			var param *ast.Parameter
			//
			if len(params) > 0 {
				if _, errs = p.expect(COMMA); len(errs) > 0 {
					return nil, errs
				}
			}
			//
			if param, errs = p.parseParameter(false); len(errs) > 0 {
				return nil, errs
			}
			//
			params = append(params, param)
		}
	}
	//
	if _, errs = p.expect(ARROW); len(errs) > 0 {
		return nil, errs
	}
	//
	if p.follows(LCURLY) {
		body, errs = p.parseBlock()
	} else {
		body, errs = p.parseExpr()
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return mark(p, p.arena.NewLambda(params, body), start), nil
}

// Parse a comma-separated list of expressions terminated by a given token,
// which is consumed.
func (p *Parser) parseExprList(terminator uint) ([]ast.Expr, []source.SyntaxError) {
	var exprs []ast.Expr
	//
	for !p.match(terminator) {
		if len(exprs) > 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		expr, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		exprs = append(exprs, expr)
	}
	//
	return exprs, nil
}

// isLambda checks whether the upcoming tokens start a lambda expression, either
// "x => ..." or "(...) => ...".
func (p *Parser) isLambda() bool {
	switch p.lookahead().Kind {
	case IDENTIFIER:
		return p.peek(1).Kind == ARROW
	case LBRACE:
		depth := 0
		//
		for i := p.index; i < len(p.tokens); i++ {
			switch p.tokens[i].Kind {
			case LBRACE:
				depth++
			case RBRACE:
				depth--
				//
				if depth == 0 {
					return i+1 < len(p.tokens) && p.tokens[i+1].Kind == ARROW
				}
			case END_OF:
				return false
			}
		}
	}
	//
	return false
}

// isCast checks whether the upcoming tokens start a cast "(T) e".
func (p *Parser) isCast() bool {
	var start = p.index
	//
	defer func() { p.index = start }()
	//
	return p.match(LBRACE) && p.skipType() && p.match(RBRACE) && p.follows(castOperands...)
}

// ============================================================================
// Helpers
// ============================================================================

func (p *Parser) number(token lex.Token) (ast.Expr, []source.SyntaxError) {
	var text = p.string(token)
	//
	if strings.Contains(text, ".") {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.syntaxErrors(token, "malformed numeric literal")
		}
		//
		return p.arena.NewLiteral(ast.FLOAT, value), nil
	}
	//
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.syntaxErrors(token, "malformed numeric literal")
	}
	//
	return p.arena.NewLiteral(ast.INT, value), nil
}

// Unquote a string or character literal.
func (p *Parser) unquote(token lex.Token) (string, []source.SyntaxError) {
	text, err := strconv.Unquote(p.string(token))
	//
	if err != nil || len(text) == 0 {
		return "", p.syntaxErrors(token, "malformed literal")
	}
	//
	return text, nil
}

func (p *Parser) parseIdentifier() (string, []source.SyntaxError) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return "", errs
	}
	//
	return p.string(tok), nil
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	start, end := token.Span.Start(), token.Span.End()
	return string(p.srcfile.Contents()[start:end])
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.peek(0)
}

// Peek returns the token a given distance ahead, or the final token (END_OF) if
// that lies beyond the end.
func (p *Parser) peek(distance int) lex.Token {
	return p.tokens[min(p.index+distance, len(p.tokens)-1)]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether one of the given token kinds is next.
func (p *Parser) follows(options ...uint) bool {
	return slices.Contains(options, p.lookahead().Kind)
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	// Account for nodes which consumed no tokens.
	lastToken = max(firstToken, lastToken)
	//
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}

// mark records the span of a node parsed from a given starting token up to the
// most recently consumed token.  Nodes already recorded are left untouched,
// since statements and expressions are sometimes marked by more than one rule.
func mark[T ast.Node](p *Parser, node T, start int) T {
	if !p.srcmap.Has(node.Id()) {
		p.srcmap.Put(node.Id(), p.spanOf(start, p.index-1))
	}
	//
	return node
}
