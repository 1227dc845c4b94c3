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
	"strings"
	"testing"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/util/assert"
	"github.com/consensys/go-stager/pkg/util/source"
)

func Test_Parser_01(t *testing.T) {
	checkMember(t, `template void M() {
    return;
}`)
}

func Test_Parser_02(t *testing.T) {
	checkMember(t, `[CompileTime] template int Add([CompileTime] int x, int y) {
    var z = x + y * 2;
    return z;
}`)
}

func Test_Parser_03(t *testing.T) {
	checkMember(t, `template void Loops(IMethod m) {
    for (int i = 0; i < 3; i++) {
        Console.WriteLine(i);
    }
    foreach (var p in m.Parameters) {
        Console.WriteLine(p.Name);
    }
    while (true) {
        break;
    }
}`)
}

func Test_Parser_04(t *testing.T) {
	checkMember(t, `template dynamic Wrap<[CompileTime] T>(IMethod m) {
    if (m.Parameters.Count == 0) {
        return Meta.Proceed();
    } else {
        var result = Meta.Proceed();
        return result;
    }
}`)
}

func Test_Parser_05(t *testing.T) {
	checkMember(t, `template void Switch(int n) {
    switch (n) {
    case 1: case 2:
        Console.WriteLine("small");
        break;
    default:
        break;
    }
}`)
}

func Test_Parser_06(t *testing.T) {
	checkMember(t, `template void Exprs() {
    var a = (x: 1, y: "two");
    var b = new { A = 1, B = 'c' };
    var c = new int[] { 1, 2, 3 };
    var d = new List<int>() { 1, 2 };
    var e = typeof(List<string>);
    var f = nameof(a);
    var g = (int)a.x;
    var h = a.x > 0 ? -a.x : !true;
    var i = (x, y) => x + y;
    var j = x => x * 2.5;
}`)
}

func Test_Parser_07(t *testing.T) {
	checkMember(t, `template void Parens() {
    var a = (1 + 2) * 3;
    var b = 1 + 2 * 3;
    var c = 1 - (2 - 3);
    a += b -= c;
}`)
}

func Test_Parser_08(t *testing.T) {
	checkUnit(t, `[CompileTime] extern class Meta {
    static T CompileTime<T>(T value);
    static dynamic Proceed();
    static IMethod Target;
}

template void M() {
    ;
}`)
}

func Test_Parser_09(t *testing.T) {
	checkMember(t, `template void Misc() {
    do {
        continue;
    } while (false);
    goto done;
    done: ;
    unsafe {
        return;
    }
}`)
}

func Test_Parser_10(t *testing.T) {
	checkMember(t, `template IEnumerable<int> Items(IEnumerable<int> xs) {
    int Twice(int x) {
        return x * 2;
    }
    var q = from x in xs where x > 1 select Twice(x);
    var d = delegate (int y) {
        return y;
    };
    yield return 1;
    yield break;
}`)
}

func Test_Parser_11(t *testing.T) {
	// Block-bodied lambdas and local arrays
	checkMember(t, `template void M() {
    var f = () => {
        return 1;
    };
    int[] xs = new[] { 1, 2 };
    xs[0] = xs[1];
}`)
}

func Test_Parser_12(t *testing.T) {
	checkInvalid(t, `template void M() { var x; }`, "implicitly typed local requires an initialiser")
}

func Test_Parser_13(t *testing.T) {
	checkInvalid(t, `template void M() { return 1 }`, "unexpected token")
}

func Test_Parser_14(t *testing.T) {
	checkInvalid(t, `template void M() { var x = 1 @ 2; }`, "unknown text encountered")
}

func Test_Parser_15(t *testing.T) {
	checkInvalid(t, `void M() { }`, "unknown declaration")
}

func Test_Parser_16(t *testing.T) {
	checkInvalid(t, `template void M() { return;`, "unexpected end of file")
}

func Test_Parser_17(t *testing.T) {
	checkInvalid(t, `template void M() {} template void N() {}`, "expected exactly one member")
}

func Test_Parser_18(t *testing.T) {
	// Every node reachable from a parsed member has a source span.
	var (
		arena   = ast.NewArena()
		srcfile = source.NewSourceFile("test.stg", []byte(`template void M(IMethod m) {
    foreach (var p in m.Parameters) {
        if (p.Name == "x") {
            Console.WriteLine(new { A = p.Value }.A);
        }
    }
}`))
	)
	//
	member, srcmap, errs := ParseMember(srcfile, arena)
	assert.Equal(t, 0, len(errs))
	//
	ast.Walk(member, func(n ast.Node) bool {
		assert.True(t, srcmap.Has(n.Id()), "missing span for ", ast.Print(n))
		return true
	})
}

func Test_Parser_19(t *testing.T) {
	// Spans cover exactly the text of the node.
	var (
		arena   = ast.NewArena()
		text    = `template void M() { var x = a.b + c; }`
		srcfile = source.NewSourceFile("test.stg", []byte(text))
	)
	//
	member, srcmap, errs := ParseMember(srcfile, arena)
	assert.Equal(t, 0, len(errs))
	//
	decl := member.Body.Stmts[0].(*ast.LocalDecl)
	assert.Equal(t, "a.b + c", srcfile.Text(srcmap.Get(decl.Init.Id())))
	assert.Equal(t, "var x = a.b + c;", srcfile.Text(srcmap.Get(decl.Id())))
}

func Test_Parser_20(t *testing.T) {
	for _, text := range []string{"int", "List<int>", "string[]", "Dictionary<string, List<int>>[][]"} {
		typ, errs := ParseType(source.NewSourceFile("type", []byte(text)), ast.NewArena())
		//
		assert.Equal(t, 0, len(errs))
		assert.Equal(t, text, ast.Print(typ))
	}
	//
	_, errs := ParseType(source.NewSourceFile("type", []byte("List<int> x")), ast.NewArena())
	assert.Equal(t, 1, len(errs))
}

// ============================================================================
// Helpers
// ============================================================================

// Check a member parses and prints back to exactly the same text.
func checkMember(t *testing.T, text string) {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test.stg", []byte(text))
	member, _, errs := ParseMember(srcfile, ast.NewArena())
	//
	for _, err := range errs {
		t.Errorf("%s", err.Error())
	}
	//
	if len(errs) == 0 {
		assert.Equal(t, text, ast.Print(member))
	}
}

func checkUnit(t *testing.T, text string) {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test.stg", []byte(text))
	unit, _, errs := Parse(srcfile, ast.NewArena())
	//
	for _, err := range errs {
		t.Errorf("%s", err.Error())
	}
	//
	if len(errs) == 0 {
		assert.Equal(t, text, ast.PrintUnit(unit))
	}
}

func checkInvalid(t *testing.T, text string, expected string) {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test.stg", []byte(text))
	_, _, errs := ParseMember(srcfile, ast.NewArena())
	//
	var messages []string
	//
	for _, err := range errs {
		messages = append(messages, err.Message())
	}
	//
	assert.Contains(t, strings.Join(messages, "\n"), expected)
}
