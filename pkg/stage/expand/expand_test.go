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
package expand

import (
	"context"
	"errors"
	"testing"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/infer"
	"github.com/consensys/go-stager/pkg/stage/parser"
	"github.com/consensys/go-stager/pkg/stage/quote"
	"github.com/consensys/go-stager/pkg/stage/semantic"
	"github.com/consensys/go-stager/pkg/util/assert"
	"github.com/consensys/go-stager/pkg/util/source"
)

// ============================================================================
// Expansions
// ============================================================================

func Test_Expand_01(t *testing.T) {
	text := check(t, `template int M(int x) {
    var a = x;
    var b = a + a;
    return b;
}`, NewTarget("M", typ(t, "int")).WithParameter("x", typ(t, "int")))
	//
	assert.Equal(t, "{\n    var a = x;\n    var b = a + a;\n    return b;\n}", text)
}

func Test_Expand_02(t *testing.T) {
	// Compile-time code leaves no trace.
	var (
		template = `template int M([CompileTime] int x, int z) {
    [CompileTime] int y = 0;
    if (x == 3) { y = y + 1; }
    return z;
}`
		target = NewTarget("M", typ(t, "int")).WithParameter("z", typ(t, "int"))
	)
	//
	assert.Equal(t, "{\n    return z;\n}", check(t, template, target, int64(3)))
	assert.Equal(t, "{\n    return z;\n}", check(t, template, target, int64(4)))
}

func Test_Expand_03(t *testing.T) {
	// Compile-time values are spliced into the generated code.
	text := check(t, `template int M([CompileTime] int k, int x) {
    return x + k * 2;
}`, NewTarget("M", typ(t, "int")).WithParameter("x", typ(t, "int")), int64(5))
	//
	assert.Equal(t, "{\n    return x + 10;\n}", text)
}

func Test_Expand_04(t *testing.T) {
	// Compile-time loops are unrolled, with locals renamed apart.
	text := check(t, `template void M() {
    foreach (var p in Meta.Target.Parameters) {
        var v = p.Value;
        Console.WriteLine(v);
    }
}`, NewTarget("M", typ(t, "void")).WithParameter("a", typ(t, "int")).WithParameter("b", typ(t, "string")))
	//
	assert.Equal(t, `{
    var v = a;
    Console.WriteLine(v);
    var v_1 = b;
    Console.WriteLine(v_1);
}`, text)
}

func Test_Expand_05(t *testing.T) {
	// Run-time control flow is generated as is.
	text := check(t, `template void M(bool b) {
    if (b) {
        var t = 1;
        Console.WriteLine(t);
    } else {
        Console.WriteLine(0);
    }
}`, NewTarget("M", typ(t, "void")).WithParameter("b", typ(t, "bool")))
	//
	assert.Equal(t, `{
    if (b) {
        var t = 1;
        Console.WriteLine(t);
    } else {
        Console.WriteLine(0);
    }
}`, text)
}

func Test_Expand_06(t *testing.T) {
	// The target is visible to compile-time code, and dynamic results are
	// converted to the return type.
	text := check(t, `template int M() {
    Console.WriteLine(Meta.Target.Name);
    Console.WriteLine(Meta.Target.Parameters.Count);
    return Meta.Proceed();
}`, NewTarget("Add", typ(t, "int")).WithParameter("x", typ(t, "int")).WithParameter("y", typ(t, "int")))
	//
	assert.Equal(t, `{
    Console.WriteLine("Add");
    Console.WriteLine(2);
    return (int)base.Add(x, y);
}`, text)
}

func Test_Expand_07(t *testing.T) {
	// Sequences returned from iterators are yielded.
	text := check(t, `template IEnumerable<int> M() {
    return Meta.Proceed();
}`, NewTarget("M", typ(t, "IEnumerable<int>")))
	//
	assert.Equal(t, `{
    foreach (var item in base.M()) {
        yield return item;
    }
    yield break;
}`, text)
}

func Test_Expand_08(t *testing.T) {
	// Type parameters of the template are bound by the target.
	var (
		template = `template void M<T>() {
    var l = new List<T>();
    Console.WriteLine(typeof(T[]));
}`
		target = NewTarget("M", typ(t, "void")).WithTypeArgument("T", typ(t, "string"))
	)
	//
	assert.Equal(t, `{
    var l = new List<string>();
    Console.WriteLine(typeof(string[]));
}`, check(t, template, target))
	//
	_, err := run(t, template, NewTarget("M", typ(t, "void")))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "type parameter 'T' is not bound")
}

func Test_Expand_09(t *testing.T) {
	// Compile-time for loops are unrolled.
	text := check(t, `template void M() {
    for ([CompileTime] int i = 0; i < 3; i++) { Console.WriteLine(i); }
}`, NewTarget("M", typ(t, "void")))
	//
	assert.Equal(t, `{
    Console.WriteLine(0);
    Console.WriteLine(1);
    Console.WriteLine(2);
}`, text)
}

func Test_Expand_10(t *testing.T) {
	// Compile-time switches select one section.
	var (
		template = `template void M([CompileTime] int k, int x) {
    switch (k) {
        case 1:
            Console.WriteLine(x);
            break;
        default:
            Console.WriteLine(0);
            break;
    }
}`
		target = NewTarget("M", typ(t, "void")).WithParameter("x", typ(t, "int"))
	)
	//
	assert.Equal(t, "{\n    Console.WriteLine(x);\n}", check(t, template, target, int64(1)))
	assert.Equal(t, "{\n    Console.WriteLine(0);\n}", check(t, template, target, int64(2)))
}

func Test_Expand_11(t *testing.T) {
	// Fresh names avoid the parameters of the target.
	text := check(t, `template void M() {
    var a = 1;
    Console.WriteLine(a);
}`, NewTarget("M", typ(t, "void")).WithParameter("a", typ(t, "int")))
	//
	assert.Equal(t, "{\n    var a_1 = 1;\n    Console.WriteLine(a_1);\n}", text)
}

func Test_Expand_12(t *testing.T) {
	// Lambdas and local functions are generated.
	text := check(t, `template int M(int x) {
    var f = (int a) => a + 1;
    int Twice(int y) { return y * 2; }
    return Twice(x);
}`, NewTarget("M", typ(t, "int")).WithParameter("x", typ(t, "int")))
	//
	assert.Equal(t, `{
    var f = (int a) => a + 1;
    int Twice(int y) {
        return y * 2;
    }
    return Twice(x);
}`, text)
}

func Test_Expand_21(t *testing.T) {
	// Parameters of local functions are renamed apart, and so are their uses.
	text := check(t, `template int M(int x) {
    int F(int z) { return z + 1; }
    int G(int z) { return z * 2; }
    return F(x) + G(x);
}`, NewTarget("M", typ(t, "int")).WithParameter("x", typ(t, "int")))
	//
	assert.Equal(t, `{
    int F(int z) {
        return z + 1;
    }
    int G(int z_1) {
        return z_1 * 2;
    }
    return F(x) + G(x);
}`, text)
}

func Test_Expand_22(t *testing.T) {
	// Local functions declared within unrolled loops.
	text := check(t, `template void M([CompileTime] int k, int x) {
    [CompileTime] int i = 0;
    while (i < k) {
        int F(int z) { return z + i; }
        Console.WriteLine(F(x));
        i = i + 1;
    }
}`, NewTarget("M", typ(t, "void")).WithParameter("x", typ(t, "int")), int64(2))
	//
	assert.Contains(t, text, "int F(int z) {\n        return z + 0;\n    }")
	assert.Contains(t, text, "int F_1(int z_1) {\n        return z_1 + 1;\n    }")
	assert.Contains(t, text, "Console.WriteLine(F(x));")
	assert.Contains(t, text, "Console.WriteLine(F_1(x));")
}

// ============================================================================
// Failures
// ============================================================================

func Test_Expand_13(t *testing.T) {
	// Non-terminating compile-time code is stopped.
	quotation := rewrite(t, `template void M() {
    [CompileTime] int i = 0;
    while (i >= 0) { i = i + 1; }
}`)
	//
	_, err := NewExpander().WithStepLimit(1000).Run(context.Background(), quotation, NewTarget("M", typ(t, "void")))
	//
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "step limit of 1000 exceeded")
}

func Test_Expand_14(t *testing.T) {
	// Failures of compile-time code are reported.
	_, err := run(t, `template void M() {
    Console.WriteLine(Meta.Target.Parameters[3].Name);
}`, NewTarget("M", typ(t, "void")).WithParameter("a", typ(t, "int")))
	//
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "index 3 out of bounds (length 1)")
	//
	var failure *Error
	//
	assert.True(t, errors.As(err, &failure))
}

func Test_Expand_15(t *testing.T) {
	// Every compile-time parameter must be given.
	quotation := rewrite(t, `template int M([CompileTime] int k, int x) { return x + k; }`)
	//
	_, err := Run(context.Background(), quotation, NewTarget("M", typ(t, "int")))
	//
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "expects 1 compile-time argument(s), found 0")
}

func Test_Expand_16(t *testing.T) {
	// Cancellation is reported as an error.
	var (
		quotation   = rewrite(t, `template int M(int x) { return x; }`)
		ctx, cancel = context.WithCancel(context.Background())
	)
	//
	cancel()
	//
	block, err := Run(ctx, quotation, NewTarget("M", typ(t, "int")))
	//
	assert.True(t, block == nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

// ============================================================================
// Evaluation
// ============================================================================

func Test_Expand_17(t *testing.T) {
	// Quotation functions can be written by hand.
	quotation := member(t, `template Node Q(Expansion ctx, int n) {
    var acc = new List<Node>();
    var total = 0;
    for (var i = 1; i <= n; i++) {
        if (i % 2 == 0) { continue; }
        total += i;
    }
    var name = Syntax.FreshName("total");
    acc.Add(Syntax.Local(null, name, Syntax.Literal(total)));
    acc.Add(Syntax.Return(Syntax.Name(name)));
    return Syntax.Block(acc);
}`)
	//
	block, err := Run(context.Background(), quotation, NewTarget("M", typ(t, "int")), int64(5))
	//
	assert.Nil(t, err)
	assert.Equal(t, "{\n    var total = 9;\n    return total;\n}", ast.Print(block))
}

func Test_Expand_18(t *testing.T) {
	quotation := member(t, `template Node Q(Expansion ctx) {
    var words = new List<string>() { "a", "b" };
    words.Add("c".ToUpper());
    var joined = String.Join("-", words);
    var t = (First: Math.Max(2, 7), Second: joined.Length);
    var o = new { Sum = t.First + t.Second, Half = 7 / 2.0 };
    var twice = (int v) => v * 2;
    var parts = new List<Node>();
    parts.Add(Syntax.Expr(Syntax.Invoke(Syntax.Name("Log"), new Node[] { Syntax.Serialize(o, null) })));
    parts.Add(Syntax.Expr(Syntax.Invoke(Syntax.Name("Log"), new Node[] { Syntax.Literal(joined + twice(3)) })));
    parts.Add(Syntax.Expr(Syntax.Invoke(Syntax.Name("Log"), new Node[] { Syntax.Serialize(words, Syntax.Type("List", 0, new Node[] { Syntax.Type("string", 0, new List<Node>()) })) })));
    return Syntax.Block(parts);
}`)
	//
	block, err := Run(context.Background(), quotation, NewTarget("M", typ(t, "void")))
	//
	assert.Nil(t, err)
	assert.Equal(t, `{
    Log(new { Sum = 12, Half = 3.5 });
    Log("a-b-C6");
    Log(new List<string>() { "a", "b", "C" });
}`, ast.Print(block))
}

func Test_Expand_19(t *testing.T) {
	var (
		arena      = ast.NewArena()
		serializer = DefaultSerializer{}
		tuple      = NewObject(true)
	)
	//
	tuple.Set("Item1", int64(1))
	tuple.Set("Name", "x")
	//
	cases := []struct {
		value    Value
		typ      *ast.TypeRef
		expected string
	}{
		{nil, nil, "null"},
		{int64(-3), nil, "-3"},
		{2.0, nil, "2.0"},
		{'c', nil, "'c'"},
		{true, nil, "true"},
		{NewArray(typ(t, "int"), int64(1), int64(2)), nil, "new int[] { 1, 2 }"},
		{NewArray(nil, int64(1)), typ(t, "long[]"), "new long[] { 1 }"},
		{NewList(nil, "a"), typ(t, "List<string>"), `new List<string>() { "a" }`},
		{tuple, nil, `(Item1: 1, Name: "x")`},
		{&Type{typ(t, "List<int>")}, nil, "typeof(List<int>)"},
		{arena.NewName("x"), nil, "x"},
	}
	//
	for _, c := range cases {
		expr, err := serializer.Serialize(arena, c.value, c.typ)
		//
		assert.Nil(t, err)
		assert.Equal(t, c.expected, ast.Print(expr))
	}
	//
	_, err := serializer.Serialize(arena, NewList(nil, "a"), nil)
	assert.NotNil(t, err)
	//
	_, err = serializer.Serialize(arena, &Closure{}, nil)
	assert.NotNil(t, err)
}

func Test_Expand_20(t *testing.T) {
	// The resulting member.
	var (
		arena  = ast.NewArena()
		target = NewTarget("Add", typ(t, "int")).WithParameter("x", typ(t, "int"))
		body   = arena.NewBlock(arena.NewReturn(arena.NewName("x")))
	)
	//
	assert.Equal(t, "int Add(int x) {\n    return x;\n}", ast.Print(target.Member(arena, body)))
}

// ============================================================================
// Helpers
// ============================================================================

func typ(t *testing.T, text string) *ast.TypeRef {
	t.Helper()
	//
	ref, errs := parser.ParseType(source.NewSourceFile("type", []byte(text)), ast.NewArena())
	//
	if len(errs) > 0 {
		t.Fatalf("%s", errs[0].Message())
	}
	//
	return ref
}

// Parse a single member, without resolving it.
func member(t *testing.T, text string) *ast.Member {
	t.Helper()
	//
	m, _, errs := parser.ParseMember(source.NewSourceFile("test.stg", []byte(text)), ast.NewArena())
	//
	if len(errs) > 0 {
		t.Fatalf("%s", errs[0].Message())
	}
	//
	return m
}

// Construct the quotation function of the (only) template in a given text.
func rewrite(t *testing.T, text string) *ast.Member {
	t.Helper()
	//
	model, errs := semantic.Load(semantic.Prelude(), source.NewSourceFile("test.stg", []byte(text)))
	//
	if len(errs) > 0 {
		t.Fatalf("%s", errs[0].Error())
	}
	//
	var (
		template = model.Templates()[0]
		sink     = diag.NewSink(template, model)
	)
	//
	result, err := infer.InferScopes(context.Background(), model, template, sink)
	//
	if err != nil {
		t.Fatal(err.Error())
	} else if sink.HasErrors() {
		t.Fatalf("%s", sink.Diagnostics()[0].String())
	}
	//
	quotation, err := quote.Rewrite(context.Background(), result, template.Name)
	//
	if err != nil {
		t.Fatal(err.Error())
	}
	//
	return quotation
}

func run(t *testing.T, text string, target *Target, args ...Value) (string, error) {
	t.Helper()
	//
	block, err := Run(context.Background(), rewrite(t, text), target, args...)
	//
	if err != nil {
		return "", err
	}
	//
	return ast.Print(block), nil
}

func check(t *testing.T, text string, target *Target, args ...Value) string {
	t.Helper()
	//
	result, err := run(t, text, target, args...)
	//
	if err != nil {
		t.Fatal(err.Error())
	}
	//
	return result
}
