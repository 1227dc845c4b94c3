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
	"github.com/consensys/go-stager/pkg/util/source"
	"github.com/consensys/go-stager/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// IDENTIFIER signals an identifier (which is not a keyword)
const IDENTIFIER uint = 1

// NUMBER signals an integer or floating point literal
const NUMBER uint = 2

// STRING signals a string literal
const STRING uint = 3

// CHARACTER signals a character literal
const CHARACTER uint = 4

// Punctuation and operators
const (
	LBRACE uint = iota + 10
	RBRACE
	LCURLY
	RCURLY
	LSQUARE
	RSQUARE
	COMMA
	SEMICOLON
	COLON
	DOT
	QUESTION
	ARROW
	EQUALS
	PLUS_EQUALS
	MINUS_EQUALS
	TIMES_EQUALS
	DIVIDE_EQUALS
	EQUALS_EQUALS
	NOT_EQUALS
	LESS_THAN
	LESS_THAN_EQUALS
	GREATER_THAN
	GREATER_THAN_EQUALS
	PLUS_PLUS
	MINUS_MINUS
	PLUS
	MINUS
	TIMES
	DIVIDE
	REMAINDER
	AND_AND
	OR_OR
	NOT
)

// Keywords
const (
	KEYWORD_IF uint = iota + 100
	KEYWORD_ELSE
	KEYWORD_WHILE
	KEYWORD_DO
	KEYWORD_FOR
	KEYWORD_FOREACH
	KEYWORD_IN
	KEYWORD_SWITCH
	KEYWORD_CASE
	KEYWORD_DEFAULT
	KEYWORD_BREAK
	KEYWORD_CONTINUE
	KEYWORD_RETURN
	KEYWORD_YIELD
	KEYWORD_GOTO
	KEYWORD_UNSAFE
	KEYWORD_VAR
	KEYWORD_NEW
	KEYWORD_TYPEOF
	KEYWORD_NAMEOF
	KEYWORD_DELEGATE
	KEYWORD_TRUE
	KEYWORD_FALSE
	KEYWORD_NULL
	KEYWORD_EXTERN
	KEYWORD_CLASS
	KEYWORD_STATIC
	KEYWORD_TEMPLATE
	KEYWORD_FROM
	KEYWORD_WHERE
	KEYWORD_SELECT
)

var keywords = map[string]uint{
	"if":       KEYWORD_IF,
	"else":     KEYWORD_ELSE,
	"while":    KEYWORD_WHILE,
	"do":       KEYWORD_DO,
	"for":      KEYWORD_FOR,
	"foreach":  KEYWORD_FOREACH,
	"in":       KEYWORD_IN,
	"switch":   KEYWORD_SWITCH,
	"case":     KEYWORD_CASE,
	"default":  KEYWORD_DEFAULT,
	"break":    KEYWORD_BREAK,
	"continue": KEYWORD_CONTINUE,
	"return":   KEYWORD_RETURN,
	"yield":    KEYWORD_YIELD,
	"goto":     KEYWORD_GOTO,
	"unsafe":   KEYWORD_UNSAFE,
	"var":      KEYWORD_VAR,
	"new":      KEYWORD_NEW,
	"typeof":   KEYWORD_TYPEOF,
	"nameof":   KEYWORD_NAMEOF,
	"delegate": KEYWORD_DELEGATE,
	"true":     KEYWORD_TRUE,
	"false":    KEYWORD_FALSE,
	"null":     KEYWORD_NULL,
	"extern":   KEYWORD_EXTERN,
	"class":    KEYWORD_CLASS,
	"static":   KEYWORD_STATIC,
	"template": KEYWORD_TEMPLATE,
	"from":     KEYWORD_FROM,
	"where":    KEYWORD_WHERE,
	"select":   KEYWORD_SELECT,
}

var (
	whitespace = lex.Many(lex.OneOf(' ', '\t', '\n', '\r'))
	digit      = lex.Within('0', '9')
	digits     = lex.Sequence(digit, lex.Optional(lex.Many(digit)))
	letter     = lex.Or(lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Unit('_'))
	identifier = lex.Sequence(letter, lex.Optional(lex.Many(lex.Or(letter, digit))))
	number     = lex.Sequence(digits, lex.Optional(lex.Sequence(lex.Unit('.'), digits)))
)

// Rules for lexing the surface language.  Longer operators precede their
// prefixes.
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Skip(whitespace),
	lex.Skip(lex.LineComment("//")),
	lex.Skip(lex.BlockComment("/*", "*/")),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit('.'), DOT),
	lex.Rule(lex.Unit('?'), QUESTION),
	lex.Rule(lex.String("=>"), ARROW),
	lex.Rule(lex.String("=="), EQUALS_EQUALS),
	lex.Rule(lex.String("!="), NOT_EQUALS),
	lex.Rule(lex.String("<="), LESS_THAN_EQUALS),
	lex.Rule(lex.String(">="), GREATER_THAN_EQUALS),
	lex.Rule(lex.String("++"), PLUS_PLUS),
	lex.Rule(lex.String("--"), MINUS_MINUS),
	lex.Rule(lex.String("+="), PLUS_EQUALS),
	lex.Rule(lex.String("-="), MINUS_EQUALS),
	lex.Rule(lex.String("*="), TIMES_EQUALS),
	lex.Rule(lex.String("/="), DIVIDE_EQUALS),
	lex.Rule(lex.String("&&"), AND_AND),
	lex.Rule(lex.String("||"), OR_OR),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.Unit('<'), LESS_THAN),
	lex.Rule(lex.Unit('>'), GREATER_THAN),
	lex.Rule(lex.Unit('+'), PLUS),
	lex.Rule(lex.Unit('-'), MINUS),
	lex.Rule(lex.Unit('*'), TIMES),
	lex.Rule(lex.Unit('/'), DIVIDE),
	lex.Rule(lex.Unit('%'), REMAINDER),
	lex.Rule(lex.Unit('!'), NOT),
	lex.Rule(number, NUMBER),
	lex.Rule(lex.Delimited('"', '\\'), STRING),
	lex.Rule(lex.Delimited('\'', '\\'), CHARACTER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Identifiers which spell a keyword are
// reclassified as that keyword.  The token stream is always terminated by
// END_OF.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		contents = srcfile.Contents()
		lexer    = lex.NewLexer(contents, rules...)
		tokens   = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+1
		span := source.NewSpan(int(start), int(end))
		//
		return nil, []source.SyntaxError{*srcfile.SyntaxError(span, "unknown text encountered")}
	}
	//
	for i, token := range tokens {
		if token.Kind == IDENTIFIER {
			text := string(contents[token.Span.Start():token.Span.End()])
			//
			if kind, ok := keywords[text]; ok {
				tokens[i].Kind = kind
			}
		}
	}
	//
	return tokens, nil
}
