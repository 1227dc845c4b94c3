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
package semantic

import (
	"testing"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/scope"
	"github.com/consensys/go-stager/pkg/util/assert"
	"github.com/consensys/go-stager/pkg/util/source"
)

func Test_Resolve_01(t *testing.T) {
	model, member := checkBuild(t, `template void M(int x) {
    var y = x + 1;
    Console.WriteLine(y);
}`)
	//
	var (
		x = findName(member, "x")
		y = findName(member, "y")
	)
	//
	assert.Equal(t, PARAMETER, model.Resolve(x).Kind)
	assert.Equal(t, LOCAL, model.Resolve(y).Kind)
	assert.Equal(t, "int", model.TypeOf(y).String())
	// The declaration of y declares the symbol referenced
	decl := member.Body.Stmts[0]
	assert.True(t, model.DeclaredSymbol(decl) == model.Resolve(y))
}

func Test_Resolve_02(t *testing.T) {
	model, member := checkBuild(t, `template void M() {
    foreach (var p in Meta.Target.Parameters) {
        var n = p.Name;
        var v = p.Value;
    }
    var k = Meta.CompileTime(3);
    var xs = new List<string>();
    var c = xs.Count;
}`)
	//
	assert.Equal(t, "IParameter", model.TypeOf(findName(member, "p")).String())
	assert.Equal(t, "string", model.TypeOf(findMember(member, "Name")).String())
	assert.Equal(t, "dynamic", model.TypeOf(findMember(member, "Value")).String())
	assert.Equal(t, "int", model.TypeOf(findInvocation(member, "CompileTime")).String())
	assert.Equal(t, "int", model.TypeOf(findMember(member, "Count")).String())
	assert.Equal(t, "List<IParameter>", model.TypeOf(findMember(member, "Parameters")).String())
}

func Test_Resolve_03(t *testing.T) {
	// Local functions can be called before being declared
	model, member := checkBuild(t, `template int M() {
    return Twice(2);
    int Twice(int x) {
        return x * 2;
    }
}`)
	//
	call := findInvocation(member, "Twice")
	assert.Equal(t, LOCAL_FUNCTION, model.Resolve(call).Kind)
	assert.Equal(t, "int", model.TypeOf(call).String())
}

func Test_Resolve_04(t *testing.T) {
	model, member := checkBuild(t, `template void M() {
    var o = new { A = 1, B = "b" };
    var a = o.A;
    var t = (x: 1, y: 2.0);
    var y = t.y;
}`)
	//
	var (
		access = findMember(member, "A")
		object = findNode[*ast.AnonymousObject](member)
	)
	//
	assert.Equal(t, ANONYMOUS_MEMBER, model.Resolve(access).Kind)
	assert.True(t, model.Resolve(access) == model.DeclaredSymbol(object.Members[0]))
	assert.Equal(t, "int", model.TypeOf(access).String())
	assert.Equal(t, "double", model.TypeOf(findMember(member, "y")).String())
}

func Test_Resolve_05(t *testing.T) {
	model, member := checkBuild(t, `template void M<T>(T value) {
    var xs = new[] { value };
    var q = from x in xs where x != null select nameof(x);
}`)
	//
	assert.Equal(t, "T[]", model.TypeOf(findName(member, "xs")).String())
	assert.Equal(t, "IEnumerable<string>", model.TypeOf(findNode[*ast.Query](member)).String())
	assert.Equal(t, TYPE_PARAMETER, model.Resolve(member.Params[0].Type).Kind)
}

func Test_Resolve_06(t *testing.T) {
	checkErrors(t, `template void M() { var x = y; }`, "unknown name 'y'")
	checkErrors(t, `template void M() { var x = Meta.Nothing; }`, "unknown member 'Nothing' of 'Meta'")
	checkErrors(t, `template void M() { var x = 1; var x = 2; }`, "'x' already declared")
	checkErrors(t, `template Foo M() { }`, "unknown type 'Foo'")
}

func Test_Resolve_07(t *testing.T) {
	// Dynamic values have any member
	model, member := checkBuild(t, `template void M() {
    var r = Meta.Proceed().Length.Anything;
}`)
	//
	assert.True(t, model.TypeOf(findMember(member, "Anything")).IsDynamic())
	assert.True(t, model.Resolve(findMember(member, "Anything")) == nil)
}

func Test_Classify_01(t *testing.T) {
	model, member := checkBuild(t, `template void M<[CompileTime] T, U>([CompileTime] int k, int x, IMethod m) {
    var a = Meta.Target;
    var b = Meta.Proceed();
    var c = Math.Max(k, x);
    Console.WriteLine(x);
    foreach (var p in m.Parameters) {
        var v = p.Value;
    }
}`)
	//
	var (
		params = member.Params
		tps    = member.TypeParams
	)
	//
	assert.Equal(t, scope.CompileTimeOnly, model.IntrinsicScope(model.DeclaredSymbol(params[0])))
	assert.Equal(t, scope.RunTimeOnly, model.IntrinsicScope(model.DeclaredSymbol(params[1])))
	assert.Equal(t, scope.CompileTimeOnly, model.IntrinsicScope(model.DeclaredSymbol(params[2])))
	assert.Equal(t, scope.CompileTimeOnly, model.IntrinsicScope(model.DeclaredSymbol(tps[0])))
	assert.Equal(t, scope.RunTimeOnly, model.IntrinsicScope(model.DeclaredSymbol(tps[1])))
	//
	assert.Equal(t, scope.CompileTimeOnly, model.IntrinsicScope(model.Resolve(findMember(member, "Target"))))
	assert.Equal(t, scope.CompileTimeOnlyReturningRunTimeOnly,
		model.IntrinsicScope(model.Resolve(findMember(member, "Proceed"))))
	assert.Equal(t, scope.RunTimeOrCompileTime, model.IntrinsicScope(model.Resolve(findMember(member, "Max"))))
	assert.Equal(t, scope.RunTimeOnly, model.IntrinsicScope(model.Resolve(findMember(member, "WriteLine"))))
	assert.Equal(t, scope.CompileTimeOnlyReturningRunTimeOnly,
		model.IntrinsicScope(model.Resolve(findMember(member, "Value"))))
	assert.Equal(t, scope.RunTimeOnly, model.IntrinsicScope(model.Resolve(findName(member, "Console"))))
	assert.Equal(t, scope.CompileTimeOnly, model.IntrinsicScope(model.Resolve(findName(member, "Meta"))))
}

func Test_Classify_02(t *testing.T) {
	model, member := checkBuild(t, `extern class Bag {
    dynamic Item;
    int Size;
}

template void M(Bag b) {
    var i = b.Item;
    var s = b.Size;
    var xs = new List<IParameter>();
    var ys = new List<int>();
}`)
	//
	assert.Equal(t, scope.Dynamic, model.IntrinsicScope(model.Resolve(findMember(member, "Item"))))
	assert.Equal(t, scope.RunTimeOrCompileTime, model.IntrinsicScope(model.Resolve(findMember(member, "Size"))))
	assert.Equal(t, scope.CompileTimeOnly, model.IntrinsicTypeScope(model.TypeOf(findName(member, "xs"))))
	assert.Equal(t, scope.RunTimeOrCompileTime, model.IntrinsicTypeScope(model.TypeOf(findName(member, "ys"))))
	assert.Equal(t, scope.Dynamic, model.IntrinsicTypeScope(model.TypeOf(findName(member, "i"))))
	// Locals are not classified intrinsically
	decl := member.Body.Stmts[0]
	assert.Equal(t, scope.RunTimeOrCompileTime, model.IntrinsicScope(model.DeclaredSymbol(decl)))
}

func Test_Type_01(t *testing.T) {
	var (
		tp   = &Symbol{Kind: TYPE_PARAMETER, Name: "T"}
		list = &Symbol{Kind: TYPE, Name: "List", TypeParams: []*Symbol{tp}}
		of   = &Type{Name: "List", Args: []*Type{{Name: "T", Symbol: tp}}, Symbol: list}
		arr  = &Type{Name: "T", Rank: 1, Symbol: tp}
		ints = map[*Symbol]*Type{tp: {Name: "int"}}
	)
	//
	assert.Equal(t, "List<int>", of.Substitute(ints).String())
	assert.Equal(t, "int[]", arr.Substitute(ints).String())
	assert.Equal(t, "T", of.Element().String())
	assert.Equal(t, "T", arr.Element().String())
	assert.True(t, (&Type{Name: "int"}).Element() == nil)
}

// ============================================================================
// Helpers
// ============================================================================

func build(t *testing.T, text string) (*Model, []source.SyntaxError) {
	t.Helper()
	//
	return Load(Prelude(), source.NewSourceFile("test.stg", []byte(text)))
}

func checkBuild(t *testing.T, text string) (*Model, *ast.Member) {
	t.Helper()
	//
	model, errs := build(t, text)
	//
	for _, err := range errs {
		t.Errorf("%s", err.Error())
	}
	//
	if len(errs) > 0 {
		t.FailNow()
	}
	//
	return model, model.Templates()[0]
}

func checkErrors(t *testing.T, text string, expected string) {
	t.Helper()
	//
	var _, errs = build(t, text)
	//
	for _, err := range errs {
		if err.Message() == expected {
			return
		}
	}
	//
	t.Errorf("expected error \"%s\", got %v", expected, errs)
}

func findNode[T ast.Node](root ast.Node) T {
	var (
		found T
		done  bool
	)
	//
	ast.Walk(root, func(n ast.Node) bool {
		if t, ok := n.(T); ok && !done {
			found, done = t, true
		}
		//
		return !done
	})
	//
	return found
}

func findName(root ast.Node, ident string) *ast.Name {
	var found *ast.Name
	//
	ast.Walk(root, func(n ast.Node) bool {
		if name, ok := n.(*ast.Name); ok && name.Ident == ident && found == nil {
			found = name
		}
		//
		return true
	})
	//
	return found
}

func findMember(root ast.Node, member string) *ast.MemberAccess {
	var found *ast.MemberAccess
	//
	ast.Walk(root, func(n ast.Node) bool {
		if access, ok := n.(*ast.MemberAccess); ok && access.Name == member && found == nil {
			found = access
		}
		//
		return true
	})
	//
	return found
}

func findInvocation(root ast.Node, callee string) *ast.Invocation {
	var found *ast.Invocation
	//
	ast.Walk(root, func(n ast.Node) bool {
		if call, ok := n.(*ast.Invocation); ok && found == nil {
			switch c := call.Callee.(type) {
			case *ast.Name:
				if c.Ident == callee {
					found = call
				}
			case *ast.MemberAccess:
				if c.Name == callee {
					found = call
				}
			}
		}
		//
		return true
	})
	//
	return found
}
