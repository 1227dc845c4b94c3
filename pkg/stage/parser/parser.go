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

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/util/source"
	"github.com/consensys/go-stager/pkg/util/source/lex"
)

// Parse a given source file into a unit of zero or more declarations, whose
// nodes are allocated in the given arena.  The source map records the span of
// every node constructed.
func Parse(srcfile *source.File, arena *ast.Arena) (*ast.Unit, *source.Map[ast.NodeId], []source.SyntaxError) {
	parser := NewParser(srcfile, arena)
	unit, errs := parser.Parse()
	//
	return unit, parser.srcmap, errs
}

// ParseMember is a convenience for parsing a source file expected to contain
// exactly one template member.
func ParseMember(srcfile *source.File, arena *ast.Arena) (*ast.Member, *source.Map[ast.NodeId], []source.SyntaxError) {
	unit, srcmap, errs := Parse(srcfile, arena)
	//
	if len(errs) > 0 {
		return nil, srcmap, errs
	} else if len(unit.Members) != 1 {
		span := source.NewSpan(0, len(srcfile.Contents()))
		return nil, srcmap, []source.SyntaxError{*srcfile.SyntaxError(span, "expected exactly one member")}
	}
	//
	return unit.Members[0], srcmap, nil
}

// ParseType parses a source file containing exactly one type, such as
// "List<int>" or "string[]".
func ParseType(srcfile *source.File, arena *ast.Arena) (*ast.TypeRef, []source.SyntaxError) {
	var (
		parser = NewParser(srcfile, arena)
		errs   []source.SyntaxError
	)
	//
	if parser.tokens, errs = Lex(srcfile); len(errs) > 0 {
		return nil, errs
	}
	//
	typ, errs := parser.parseType()
	//
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = parser.expect(END_OF); len(errs) > 0 {
		return nil, errs
	}
	//
	return typ, nil
}

// Parser is a recursive descent parser for the surface language.
type Parser struct {
	srcfile *source.File
	arena   *ast.Arena
	tokens  []lex.Token
	// Source mapping
	srcmap *source.Map[ast.NodeId]
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File, arena *ast.Arena) *Parser {
	srcmap := source.NewSourceMap[ast.NodeId](*srcfile)
	//
	return &Parser{srcfile, arena, nil, srcmap, 0}
}

// Parse the given source file into a sequence of declarations, or some number
// of syntax errors.
func (p *Parser) Parse() (*ast.Unit, []source.SyntaxError) {
	var (
		unit   ast.Unit
		errors []source.SyntaxError
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(p.srcfile); len(errors) > 0 {
		return &unit, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		var (
			start      = p.index
			attributes []string
		)
		//
		if attributes, errors = p.parseAttributes(); len(errors) > 0 {
			return &unit, errors
		}
		//
		switch p.lookahead().Kind {
		case KEYWORD_EXTERN:
			var decl *ast.ExternType
			//
			if decl, errors = p.parseExternType(start, attributes); len(errors) == 0 {
				unit.Types = append(unit.Types, decl)
			}
		case KEYWORD_TEMPLATE:
			var decl *ast.Member
			//
			if decl, errors = p.parseMember(start, attributes); len(errors) == 0 {
				unit.Members = append(unit.Members, decl)
			}
		default:
			errors = p.syntaxErrors(p.lookahead(), "unknown declaration")
		}
		//
		if len(errors) > 0 {
			return &unit, errors
		}
	}
	//
	return &unit, nil
}

// ============================================================================
// Declarations
// ============================================================================

func (p *Parser) parseAttributes() ([]string, []source.SyntaxError) {
	var attributes []string
	//
	for p.match(LSQUARE) {
		for {
			name, errs := p.parseIdentifier()
			//
			if len(errs) > 0 {
				return nil, errs
			}
			//
			attributes = append(attributes, name)
			//
			if !p.match(COMMA) {
				break
			}
		}
		//
		if _, errs := p.expect(RSQUARE); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return attributes, nil
}

func (p *Parser) parseExternType(start int, attributes []string) (*ast.ExternType, []source.SyntaxError) {
	var (
		name       string
		typeParams []*ast.TypeParameter
		members    []*ast.ExternMember
		errs       []source.SyntaxError
	)
	//
	p.match(KEYWORD_EXTERN)
	//
	if _, errs = p.expect(KEYWORD_CLASS); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if typeParams, errs = p.parseTypeParameters(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RCURLY) {
		var member *ast.ExternMember
		//
		if member, errs = p.parseExternMember(); len(errs) > 0 {
			return nil, errs
		}
		//
		members = append(members, member)
	}
	//
	return mark(p, p.arena.NewExternType(attributes, name, typeParams, members...), start), nil
}

func (p *Parser) parseExternMember() (*ast.ExternMember, []source.SyntaxError) {
	var (
		start      = p.index
		typeParams []*ast.TypeParameter
		params     []*ast.Parameter
		typ        *ast.TypeRef
		name       string
		method     bool
	)
	//
	attributes, errs := p.parseAttributes()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	static := p.match(KEYWORD_STATIC)
	//
	if typ, errs = p.parseType(); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	}
	//
	if p.follows(LESS_THAN, LBRACE) {
		method = true
		//
		if typeParams, errs = p.parseTypeParameters(); len(errs) > 0 {
			return nil, errs
		} else if params, errs = p.parseParameters(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	member := p.arena.NewExternMember(attributes, static, method, typ, name, typeParams, params)
	//
	return mark(p, member, start), nil
}

func (p *Parser) parseMember(start int, attributes []string) (*ast.Member, []source.SyntaxError) {
	var (
		ret        *ast.TypeRef
		name       string
		typeParams []*ast.TypeParameter
		params     []*ast.Parameter
		body       *ast.Block
		errs       []source.SyntaxError
	)
	//
	p.match(KEYWORD_TEMPLATE)
	//
	if ret, errs = p.parseType(); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if typeParams, errs = p.parseTypeParameters(); len(errs) > 0 {
		return nil, errs
	} else if params, errs = p.parseParameters(); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	member := p.arena.NewMember(attributes, true, ret, name, typeParams, params, body)
	//
	return mark(p, member, start), nil
}

func (p *Parser) parseTypeParameters() ([]*ast.TypeParameter, []source.SyntaxError) {
	var params []*ast.TypeParameter
	//
	if !p.match(LESS_THAN) {
		return nil, nil
	}
	//
	for {
		start := p.index
		attributes, errs := p.parseAttributes()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		name, errs := p.parseIdentifier()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		params = append(params, mark(p, p.arena.NewTypeParameter(attributes, name), start))
		//
		if !p.match(COMMA) {
			break
		}
	}
	//
	if _, errs := p.expect(GREATER_THAN); len(errs) > 0 {
		return nil, errs
	}
	//
	return params, nil
}

// Parse a parenthesised list of parameters, where every parameter is typed.
func (p *Parser) parseParameters() ([]*ast.Parameter, []source.SyntaxError) {
	var params []*ast.Parameter
	//
	if _, errs := p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RBRACE) {
		if len(params) > 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		param, errs := p.parseParameter(true)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		params = append(params, param)
	}
	//
	return params, nil
}

func (p *Parser) parseParameter(typed bool) (*ast.Parameter, []source.SyntaxError) {
	var (
		start = p.index
		typ   *ast.TypeRef
		name  string
	)
	//
	attributes, errs := p.parseAttributes()
	if len(errs) > 0 {
		return nil, errs
	}
	// An untyped (lambda) parameter is a single identifier
	if typed || !p.follows(IDENTIFIER) || !slices.Contains([]uint{COMMA, RBRACE, ARROW}, p.peek(1).Kind) {
		if typ, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	}
	//
	return mark(p, p.arena.NewParameter(attributes, typ, name), start), nil
}

// Parse a type, such as "int", "List<int>" or "int[]".
func (p *Parser) parseType() (*ast.TypeRef, []source.SyntaxError) {
	var start = p.index
	//
	typ, errs := p.parseTypeName()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	var rank uint
	//
	for p.follows(LSQUARE) && p.peek(1).Kind == RSQUARE {
		p.index += 2
		rank++
	}
	//
	if rank == 0 {
		return typ, nil
	}
	//
	return mark(p, p.arena.NewTypeRef(typ.Name, rank, typ.Args...), start), nil
}

// Parse a type without any trailing array dimensions.
func (p *Parser) parseTypeName() (*ast.TypeRef, []source.SyntaxError) {
	var (
		start = p.index
		args  []*ast.TypeRef
	)
	//
	name, errs := p.parseIdentifier()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if p.match(LESS_THAN) {
		for {
			arg, errs := p.parseType()
			//
			if len(errs) > 0 {
				return nil, errs
			}
			//
			args = append(args, arg)
			//
			if !p.match(COMMA) {
				break
			}
		}
		//
		if _, errs := p.expect(GREATER_THAN); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return mark(p, p.arena.NewTypeRef(name, 0, args...), start), nil
}

// skipType advances over a type without constructing it, returning false if
// the tokens do not form a type.  This is used to disambiguate declarations
// and casts from expressions.
func (p *Parser) skipType() bool {
	if !p.match(IDENTIFIER) {
		return false
	}
	//
	if p.match(LESS_THAN) {
		for {
			if !p.skipType() {
				return false
			} else if !p.match(COMMA) {
				break
			}
		}
		//
		if !p.match(GREATER_THAN) {
			return false
		}
	}
	//
	for p.follows(LSQUARE) && p.peek(1).Kind == RSQUARE {
		p.index += 2
	}
	//
	return true
}

// ============================================================================
// Statements
// ============================================================================

func (p *Parser) parseBlock() (*ast.Block, []source.SyntaxError) {
	var (
		start = p.index
		stmts []ast.Stmt
	)
	//
	if _, errs := p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RCURLY) {
		if p.follows(END_OF) {
			return nil, p.syntaxErrors(p.lookahead(), "unexpected end of file")
		}
		//
		stmt, errs := p.parseStatement()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		stmts = append(stmts, stmt)
	}
	//
	return mark(p, p.arena.NewBlock(stmts...), start), nil
}

const (
	notDeclaration = iota
	localDeclaration
	functionDeclaration
)

// declarationKind determines (without consuming anything) whether the upcoming
// tokens start a local variable or a local function declaration.
func (p *Parser) declarationKind() int {
	var start = p.index
	//
	defer func() { p.index = start }()
	//
	switch {
	case p.follows(KEYWORD_VAR, LSQUARE):
		return localDeclaration
	case !p.skipType() || !p.match(IDENTIFIER):
		return notDeclaration
	case p.follows(EQUALS, SEMICOLON):
		return localDeclaration
	case p.follows(LBRACE):
		return functionDeclaration
	default:
		return notDeclaration
	}
}

func (p *Parser) parseStatement() (ast.Stmt, []source.SyntaxError) {
	var (
		start = p.index
		stmt  ast.Stmt
		errs  []source.SyntaxError
	)
	//
	switch p.lookahead().Kind {
	case LCURLY:
		return p.parseBlock()
	case SEMICOLON:
		p.match(SEMICOLON)
		stmt = p.arena.NewEmpty()
	case KEYWORD_IF:
		stmt, errs = p.parseIf()
	case KEYWORD_WHILE:
		stmt, errs = p.parseWhile()
	case KEYWORD_DO:
		stmt, errs = p.parseDoWhile()
	case KEYWORD_FOR:
		stmt, errs = p.parseFor()
	case KEYWORD_FOREACH:
		stmt, errs = p.parseForeach()
	case KEYWORD_SWITCH:
		stmt, errs = p.parseSwitch()
	case KEYWORD_BREAK:
		p.match(KEYWORD_BREAK)
		stmt, errs = p.arena.NewBreak(), p.expectSemicolon()
	case KEYWORD_CONTINUE:
		p.match(KEYWORD_CONTINUE)
		stmt, errs = p.arena.NewContinue(), p.expectSemicolon()
	case KEYWORD_RETURN:
		stmt, errs = p.parseReturn()
	case KEYWORD_YIELD:
		stmt, errs = p.parseYield()
	case KEYWORD_GOTO:
		var label string
		//
		p.match(KEYWORD_GOTO)
		//
		if label, errs = p.parseIdentifier(); len(errs) == 0 {
			stmt, errs = p.arena.NewGoto(label), p.expectSemicolon()
		}
	case KEYWORD_UNSAFE:
		var body *ast.Block
		//
		p.match(KEYWORD_UNSAFE)
		//
		if body, errs = p.parseBlock(); len(errs) == 0 {
			stmt = p.arena.NewUnsafe(body)
		}
	default:
		stmt, errs = p.parseSimpleStatement()
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return mark(p, stmt, start), nil
}

// Parse a labeled statement, declaration or expression statement.
func (p *Parser) parseSimpleStatement() (ast.Stmt, []source.SyntaxError) {
	var (
		stmt ast.Stmt
		errs []source.SyntaxError
	)
	//
	if p.follows(IDENTIFIER) && p.peek(1).Kind == COLON {
		label, _ := p.parseIdentifier()
		p.match(COLON)
		//
		if stmt, errs = p.parseStatement(); len(errs) > 0 {
			return nil, errs
		}
		//
		return p.arena.NewLabeled(label, stmt), nil
	}
	//
	switch p.declarationKind() {
	case localDeclaration:
		stmt, errs = p.parseLocalDecl()
	case functionDeclaration:
		return p.parseLocalFunction()
	default:
		var e ast.Expr
		//
		if e, errs = p.parseExpr(); len(errs) == 0 {
			stmt = p.arena.NewExprStmt(e)
		}
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return stmt, p.expectSemicolon()
}

// Parse a local variable declaration (without the terminating semicolon).
func (p *Parser) parseLocalDecl() (*ast.LocalDecl, []source.SyntaxError) {
	var (
		typ  *ast.TypeRef
		name string
		init ast.Expr
	)
	//
	attributes, errs := p.parseAttributes()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if !p.match(KEYWORD_VAR) {
		if typ, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	}
	//
	if p.match(EQUALS) {
		if init, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	} else if typ == nil {
		return nil, p.syntaxErrors(p.lookahead(), "implicitly typed local requires an initialiser")
	}
	//
	return p.arena.NewLocalDecl(attributes, typ, name, init), nil
}

func (p *Parser) parseLocalFunction() (ast.Stmt, []source.SyntaxError) {
	var (
		ret    *ast.TypeRef
		name   string
		params []*ast.Parameter
		body   *ast.Block
		errs   []source.SyntaxError
	)
	//
	if ret, errs = p.parseType(); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if params, errs = p.parseParameters(); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewLocalFunction(ret, name, params, body), nil
}

func (p *Parser) parseIf() (ast.Stmt, []source.SyntaxError) {
	var (
		cond            ast.Expr
		then, otherwise ast.Stmt
		errs            []source.SyntaxError
	)
	//
	p.match(KEYWORD_IF)
	//
	if cond, errs = p.parseCondition(); len(errs) > 0 {
		return nil, errs
	} else if then, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	}
	//
	if p.match(KEYWORD_ELSE) {
		if otherwise, errs = p.parseStatement(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return p.arena.NewIf(cond, then, otherwise), nil
}

func (p *Parser) parseWhile() (ast.Stmt, []source.SyntaxError) {
	var (
		cond ast.Expr
		body ast.Stmt
		errs []source.SyntaxError
	)
	//
	p.match(KEYWORD_WHILE)
	//
	if cond, errs = p.parseCondition(); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewWhile(cond, body), nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, []source.SyntaxError) {
	var (
		cond ast.Expr
		body ast.Stmt
		errs []source.SyntaxError
	)
	//
	p.match(KEYWORD_DO)
	//
	if body, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(KEYWORD_WHILE); len(errs) > 0 {
		return nil, errs
	} else if cond, errs = p.parseCondition(); len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewDoWhile(body, cond), p.expectSemicolon()
}

func (p *Parser) parseFor() (ast.Stmt, []source.SyntaxError) {
	var (
		init []ast.Stmt
		cond ast.Expr
		step []ast.Expr
		body ast.Stmt
		errs []source.SyntaxError
	)
	//
	p.match(KEYWORD_FOR)
	//
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	// Initialisers
	for !p.match(SEMICOLON) {
		var (
			start = p.index
			stmt  ast.Stmt
		)
		//
		if len(init) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if p.declarationKind() == localDeclaration {
			if stmt, errs = p.parseLocalDecl(); len(errs) == 0 {
				stmt = mark(p, stmt, start)
			}
		} else {
			var e ast.Expr
			//
			if e, errs = p.parseExpr(); len(errs) == 0 {
				stmt = mark(p, p.arena.NewExprStmt(e), start)
			}
		}
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		init = append(init, stmt)
	}
	// Condition
	if !p.follows(SEMICOLON) {
		if cond, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	// Steps
	for !p.match(RBRACE) {
		var e ast.Expr
		//
		if len(step) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if e, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
		//
		step = append(step, e)
	}
	//
	if body, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewFor(init, cond, step, body), nil
}

func (p *Parser) parseForeach() (ast.Stmt, []source.SyntaxError) {
	var (
		typ  *ast.TypeRef
		name string
		src  ast.Expr
		body ast.Stmt
		errs []source.SyntaxError
	)
	//
	p.match(KEYWORD_FOREACH)
	//
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	if !p.match(KEYWORD_VAR) {
		if typ, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(KEYWORD_IN); len(errs) > 0 {
		return nil, errs
	} else if src, errs = p.parseExpr(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewForeach(typ, name, src, body), nil
}

func (p *Parser) parseSwitch() (ast.Stmt, []source.SyntaxError) {
	var (
		subject  ast.Expr
		sections []*ast.SwitchSection
		errs     []source.SyntaxError
	)
	//
	p.match(KEYWORD_SWITCH)
	//
	if subject, errs = p.parseCondition(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RCURLY) {
		var section *ast.SwitchSection
		//
		if section, errs = p.parseSwitchSection(); len(errs) > 0 {
			return nil, errs
		}
		//
		sections = append(sections, section)
	}
	//
	return p.arena.NewSwitch(subject, sections...), nil
}

func (p *Parser) parseSwitchSection() (*ast.SwitchSection, []source.SyntaxError) {
	var (
		start     = p.index
		labels    []ast.Expr
		isDefault bool
		body      []ast.Stmt
	)
	// Labels
	for p.follows(KEYWORD_CASE, KEYWORD_DEFAULT) {
		if p.match(KEYWORD_DEFAULT) {
			isDefault = true
		} else {
			p.match(KEYWORD_CASE)
			//
			label, errs := p.parseExpr()
			if len(errs) > 0 {
				return nil, errs
			}
			//
			labels = append(labels, label)
		}
		//
		if _, errs := p.expect(COLON); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if len(labels) == 0 && !isDefault {
		return nil, p.syntaxErrors(p.lookahead(), "expected case or default")
	}
	// Statements
	for !p.follows(KEYWORD_CASE, KEYWORD_DEFAULT, RCURLY, END_OF) {
		stmt, errs := p.parseStatement()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		body = append(body, stmt)
	}
	//
	return mark(p, p.arena.NewSwitchSection(labels, isDefault, body), start), nil
}

func (p *Parser) parseReturn() (ast.Stmt, []source.SyntaxError) {
	var (
		value ast.Expr
		errs  []source.SyntaxError
	)
	//
	p.match(KEYWORD_RETURN)
	//
	if !p.follows(SEMICOLON) {
		if value, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return p.arena.NewReturn(value), p.expectSemicolon()
}

func (p *Parser) parseYield() (ast.Stmt, []source.SyntaxError) {
	p.match(KEYWORD_YIELD)
	//
	if p.match(KEYWORD_BREAK) {
		return p.arena.NewYieldBreak(), p.expectSemicolon()
	} else if _, errs := p.expect(KEYWORD_RETURN); len(errs) > 0 {
		return nil, errs
	}
	//
	value, errs := p.parseExpr()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return p.arena.NewYieldReturn(value), p.expectSemicolon()
}

// Parse a parenthesised condition, such as for an if statement.
func (p *Parser) parseCondition() (ast.Expr, []source.SyntaxError) {
	if _, errs := p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	cond, errs := p.parseExpr()
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	return cond, nil
}

func (p *Parser) expectSemicolon() []source.SyntaxError {
	_, errs := p.expect(SEMICOLON)
	return errs
}
