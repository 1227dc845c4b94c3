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
	"testing"

	"github.com/consensys/go-stager/pkg/util/assert"
)

func Test_Print_01(t *testing.T) {
	var (
		a   = NewArena()
		sum = a.NewBinary(ADD, a.NewName("x"), a.NewLiteral(INT, int64(1)))
	)
	//
	assert.Equal(t, "(x + 1) * 2", Print(a.NewBinary(MUL, sum, a.NewLiteral(INT, int64(2)))))
	assert.Equal(t, "2 * x + 1", Print(a.NewBinary(ADD, a.NewBinary(MUL, a.NewLiteral(INT, int64(2)),
		a.NewName("x")), a.NewLiteral(INT, int64(1)))))
}

func Test_Print_02(t *testing.T) {
	var a = NewArena()
	// Right operands of equal precedence need parentheses
	e := a.NewBinary(SUB, a.NewName("a"), a.NewBinary(SUB, a.NewName("b"), a.NewName("c")))
	assert.Equal(t, "a - (b - c)", Print(e))
	//
	e = a.NewBinary(SUB, a.NewBinary(SUB, a.NewName("a"), a.NewName("b")), a.NewName("c"))
	assert.Equal(t, "a - b - c", Print(e))
}

func Test_Print_03(t *testing.T) {
	var a = NewArena()
	// An immediately invoked lambda
	lambda := a.NewLambda(nil, a.NewBlock(a.NewReturn(a.NewLiteral(INT, int64(1)))))
	call := a.NewInvocation(lambda)
	//
	assert.Equal(t, "(() => {\n    return 1;\n})()", Print(call))
}

func Test_Print_04(t *testing.T) {
	var a = NewArena()
	//
	assert.Equal(t, `"a\"b"`, Print(a.NewLiteral(STRING, "a\"b")))
	assert.Equal(t, `'x'`, Print(a.NewLiteral(CHAR, 'x')))
	assert.Equal(t, "1.0", Print(a.NewLiteral(FLOAT, 1.0)))
	assert.Equal(t, "null", Print(a.NewLiteral(NULL, nil)))
	assert.Equal(t, "-(-x)", Print(a.NewUnary(NEG, a.NewUnary(NEG, a.NewName("x")))))
	assert.Equal(t, "x++", Print(a.NewUnary(POST_INC, a.NewName("x"))))
}

func Test_Print_05(t *testing.T) {
	var a = NewArena()
	//
	stmt := a.NewIf(a.NewName("c"), a.NewExprStmt(a.NewName("x")), a.NewBlock())
	assert.Equal(t, "if (c)\n    x;\nelse {\n}", Print(stmt))
}

func Test_Parents_01(t *testing.T) {
	var (
		a    = NewArena()
		x    = a.NewName("x")
		one  = a.NewLiteral(INT, int64(1))
		sum  = a.NewBinary(ADD, x, one)
		ret  = a.NewReturn(sum)
		body = a.NewBlock(ret)
	)
	//
	parents := Parents(body)
	//
	assert.Equal(t, 4, len(parents))
	assert.Equal(t, sum.Id(), parents[x.Id()])
	assert.Equal(t, sum.Id(), parents[one.Id()])
	assert.Equal(t, ret.Id(), parents[sum.Id()])
	assert.Equal(t, body.Id(), parents[ret.Id()])
}

func Test_Walk_01(t *testing.T) {
	var (
		a     = NewArena()
		names []string
		body  = a.NewBlock(
			a.NewExprStmt(a.NewInvocation(a.NewName("f"), a.NewName("x"), a.NewName("y"))),
			a.NewReturn(a.NewName("z")))
	)
	//
	Walk(body, func(n Node) bool {
		if name, ok := n.(*Name); ok {
			names = append(names, name.Ident)
		}
		//
		return true
	})
	//
	assert.Equal(t, []string{"f", "x", "y", "z"}, names)
}

func Test_Identifiers_01(t *testing.T) {
	var (
		a    = NewArena()
		decl = a.NewLocalDecl(nil, a.NewTypeRef("int", 0), "acc", a.NewMemberAccess(a.NewName("m"), "Name"))
	)
	//
	assert.Equal(t, []string{"acc", "int", "Name", "m"}, Identifiers(a.NewBlock(decl)))
}

func Test_Arena_01(t *testing.T) {
	var (
		a = NewArena()
		x = a.NewName("x")
		y = a.NewName("y")
	)
	//
	assert.True(t, x.Id() != y.Id())
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Node(y.Id()) == Node(y))
}
