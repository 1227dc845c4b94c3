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
package lex

import (
	"slices"
	"testing"

	"github.com/consensys/go-stager/pkg/util/assert"
	"github.com/consensys/go-stager/pkg/util/source"
)

func Test_Lexer_01(t *testing.T) {
	checkLexer(t, "", 0, Token{END_OF, source.NewSpan(0, 0)})
}

func Test_Lexer_02(t *testing.T) {
	checkLexer(t, "( )", 0,
		Token{LBRACE, source.NewSpan(0, 1)},
		Token{RBRACE, source.NewSpan(2, 3)},
		Token{END_OF, source.NewSpan(3, 3)})
}

func Test_Lexer_03(t *testing.T) {
	checkLexer(t, "x == 12", 0,
		Token{IDENT, source.NewSpan(0, 1)},
		Token{EQEQ, source.NewSpan(2, 4)},
		Token{NUMBER, source.NewSpan(5, 7)},
		Token{END_OF, source.NewSpan(7, 7)})
}

func Test_Lexer_04(t *testing.T) {
	checkLexer(t, "x = // comment\n y", 0,
		Token{IDENT, source.NewSpan(0, 1)},
		Token{EQ, source.NewSpan(2, 3)},
		Token{IDENT, source.NewSpan(16, 17)},
		Token{END_OF, source.NewSpan(17, 17)})
}

func Test_Lexer_05(t *testing.T) {
	checkLexer(t, `"a\"b" /* c */ x`, 0,
		Token{STRING, source.NewSpan(0, 6)},
		Token{IDENT, source.NewSpan(15, 16)},
		Token{END_OF, source.NewSpan(16, 16)})
}

func Test_Lexer_06(t *testing.T) {
	// Unterminated string cannot be matched
	checkLexer(t, `"abc`, 4)
}

func Test_Lexer_07(t *testing.T) {
	checkLexer(t, "1.5", 0,
		Token{NUMBER, source.NewSpan(0, 3)},
		Token{END_OF, source.NewSpan(3, 3)})
}

func Test_Scanner_Sequence(t *testing.T) {
	rule := Sequence(Unit('a'), Unit('b'), Unit('c'))
	assert.Equal(t, 3, rule([]rune("abc")))
	assert.Equal(t, 0, rule([]rune("abb")))
	// Optional components may be missing
	rule = Sequence(Unit('a'), Optional(Unit('b')), Unit('c'))
	assert.Equal(t, 2, rule([]rune("ac")))
	assert.Equal(t, 3, rule([]rune("abc")))
}

func Test_Scanner_Delimited(t *testing.T) {
	rule := Delimited('\'', '\\')
	assert.Equal(t, 3, rule([]rune("'a'")))
	assert.Equal(t, 4, rule([]rune(`'\''`)))
	assert.Equal(t, 0, rule([]rune("'a")))
}

// ==================================================================
// Framework
// ==================================================================

const (
	END_OF uint = iota
	LBRACE
	RBRACE
	IDENT
	NUMBER
	STRING
	EQEQ
	EQ
)

var digits = Many(Within('0', '9'))

var rules = []LexRule[rune]{
	Skip(Many(OneOf(' ', '\t', '\n'))),
	Skip(LineComment("//")),
	Skip(BlockComment("/*", "*/")),
	Rule(Unit('('), LBRACE),
	Rule(Unit(')'), RBRACE),
	Rule(String("=="), EQEQ),
	Rule(Unit('='), EQ),
	Rule(Sequence(digits, Optional(Sequence(Unit('.'), digits))), NUMBER),
	Rule(Delimited('"', '\\'), STRING),
	Rule(Sequence(Within('a', 'z'), Optional(Many(Within('a', 'z')))), IDENT),
	Rule(Eof[rune](), END_OF),
}

func checkLexer(t *testing.T, input string, remainder uint, expected ...Token) {
	items := []rune(input)
	lexer := NewLexer(items, rules...)
	tokens := lexer.Collect()
	//
	if !slices.Equal(tokens, expected) {
		t.Errorf("got %v, expected %v", tokens, expected)
	} else if lexer.Remaining() != remainder {
		t.Errorf("unexpected remainder %d (expected %d)", lexer.Remaining(), remainder)
	}
}
