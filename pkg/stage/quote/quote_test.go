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
package quote

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/infer"
	"github.com/consensys/go-stager/pkg/stage/semantic"
	"github.com/consensys/go-stager/pkg/util/assert"
	"github.com/consensys/go-stager/pkg/util/source"
)

func Test_Quote_01(t *testing.T) {
	// A run-time local is given one fresh name, which is then used by all
	// references to it.
	text := quote(t, `template int M(int x) {
    var a = x;
    var b = a + a;
    return b;
}`)
	//
	assert.Contains(t, text, "Node __QuoteM(Expansion ctx)")
	assert.Contains(t, text, "var __acc = new List<Node>();")
	assert.Count(t, 1, text, `Syntax.FreshName("a")`)
	assert.Contains(t, text, `var __a = Syntax.FreshName("a");`)
	assert.Contains(t, text, `__acc.Add(Syntax.Local(null, __a, Syntax.Name("x")));`)
	assert.Count(t, 2, text, "Syntax.Name(__a)")
	assert.Contains(t, text, `Syntax.Binary("+", Syntax.Name(__a), Syntax.Name(__a))`)
	assert.Contains(t, text, "__acc.Add(Syntax.Return(Syntax.Name(__b)));")
	assert.Contains(t, text, "return Syntax.Block(__acc);")
}

func Test_Quote_02(t *testing.T) {
	// Run-time parameters keep their names, and literals are emitted as is.
	text := quote(t, `template int M(int x) {
    return x + 3;
}`)
	//
	assert.Contains(t, text, `Syntax.Return(Syntax.Binary("+", Syntax.Name("x"), Syntax.Literal(3)))`)
	assert.NotContains(t, text, "FreshName")
}

func Test_Quote_03(t *testing.T) {
	// Compile-time code is executed by the quotation function, and leaves no
	// trace in the generated code.
	text := quote(t, `template int M([CompileTime] int x, int z) {
    [CompileTime] int y = 0;
    if (x == 3) { y = y + 1; }
    return z;
}`)
	//
	assert.Contains(t, text, "Node __QuoteM(Expansion ctx, int x)")
	assert.Contains(t, text, "int y = 0;")
	assert.Contains(t, text, "if (x == 3) {")
	assert.Contains(t, text, "y = y + 1;")
	assert.NotContains(t, text, "Syntax.If")
	assert.Count(t, 1, text, "__acc.Add(")
}

func Test_Quote_04(t *testing.T) {
	// Compile-time values in run-time positions are serialized.
	text := quote(t, `template int M([CompileTime] int k, int x) {
    return x + k * 2;
}`)
	//
	assert.Contains(t, text, "Node __QuoteM(Expansion ctx, int k)")
	assert.Contains(t, text, `Syntax.Binary("+", Syntax.Name("x"), Syntax.Serialize(k * 2, Syntax.Type("int", 0,`)
}

func Test_Quote_05(t *testing.T) {
	// Run-time locals declared within a compile-time loop are given a fresh
	// name on every iteration.
	text := quote(t, `template void M() {
    foreach (var p in Meta.Target.Parameters) {
        var v = p.Value;
        Console.WriteLine(v);
    }
}`)
	//
	assert.Contains(t, text, "foreach (var p in Meta.Target.Parameters) {")
	assert.Contains(t, text, `var __v = Syntax.FreshName("v");`)
	assert.Contains(t, text, "__acc.Add(Syntax.Local(null, __v, p.Value));")
	assert.Contains(t, text, `Syntax.Invoke(Syntax.Member(Syntax.Name("Console"), "WriteLine"), new Node[] { Syntax.Name(__v) })`)
}

func Test_Quote_06(t *testing.T) {
	// Run-time blocks are generated by immediately invoked functions with
	// accumulators of their own.
	text := quote(t, `template void M(bool b) {
    if (b) {
        var t = 1;
        Console.WriteLine(t);
    }
}`)
	//
	assert.Contains(t, text, `Syntax.If(Syntax.Name("b"), (() => {`)
	assert.Contains(t, text, "var __acc_1 = new List<Node>();")
	assert.Contains(t, text, "__acc_1.Add(Syntax.Local(null, __t, Syntax.Literal(1)));")
	assert.Contains(t, text, "return Syntax.Block(__acc_1);")
	assert.Contains(t, text, "})(), null)")
}

func Test_Quote_07(t *testing.T) {
	// Locals of the same name in different blocks receive distinct
	// placeholders.
	text := quote(t, `template void M(bool b) {
    if (b) { var t = 1; Console.WriteLine(t); }
    else { var t = 2; Console.WriteLine(t); }
}`)
	//
	assert.Contains(t, text, `var __t = Syntax.FreshName("t");`)
	assert.Contains(t, text, `var __t_1 = Syntax.FreshName("t");`)
	assert.Contains(t, text, "Syntax.Name(__t)")
	assert.Contains(t, text, "Syntax.Name(__t_1)")
}

func Test_Quote_08(t *testing.T) {
	// Compile-time blocks are flattened, with their locals renamed apart.
	text := quote(t, `template void M() {
    { [CompileTime] int t = 1; t = t + 1; }
    { [CompileTime] int t = 2; }
}`)
	//
	assert.Contains(t, text, "int t = 1;")
	assert.Contains(t, text, "t = t + 1;")
	assert.Contains(t, text, "int t_1 = 2;")
	assert.NotContains(t, text, "Syntax.Block(new Node[]")
}

func Test_Quote_09(t *testing.T) {
	// Sequences returned by iterators are yielded element by element.
	text := quote(t, `template IEnumerable<int> M() {
    return Meta.Proceed();
}`)
	//
	assert.Contains(t, text, `var __item = Syntax.FreshName("item");`)
	assert.Contains(t, text, "Syntax.Foreach(null, __item, Meta.Proceed(), ")
	assert.Contains(t, text, "Syntax.YieldReturn(Syntax.Name(__item))")
	assert.Contains(t, text, "__acc.Add(Syntax.YieldBreak());")
	assert.NotContains(t, text, "Syntax.Return(")
}

func Test_Quote_10(t *testing.T) {
	// Dynamic values returned from a non-void template carry the return type.
	text := quote(t, `template int M() {
    return Meta.Proceed();
}`)
	//
	assert.Contains(t, text, `Syntax.ReturnDynamic(Meta.Proceed(), Syntax.Type("int", 0,`)
}

func Test_Quote_11(t *testing.T) {
	// Meta.Proceed in a void template is already syntax.
	text := quote(t, `template void M() {
    Meta.Proceed();
}`)
	//
	assert.Contains(t, text, "__acc.Add(Syntax.Expr(Meta.Proceed()));")
}

func Test_Quote_12(t *testing.T) {
	// Tuple elements are named explicitly.
	text := quote(t, `template void M(int x) {
    var t = (x, 1);
    var u = (A: x, B: 2);
}`)
	//
	assert.Contains(t, text, `Syntax.TupleElement("x", Syntax.Name("x"))`)
	assert.Contains(t, text, `Syntax.TupleElement("Item2", Syntax.Literal(1))`)
	assert.Contains(t, text, `Syntax.TupleElement("A", Syntax.Name("x"))`)
	assert.Contains(t, text, `Syntax.TupleElement("B", Syntax.Literal(2))`)
}

func Test_Quote_13(t *testing.T) {
	// Template type parameters are bound by the expansion, and nameof of a
	// template parameter passes through.
	text := quote(t, `template void M<T>(int x) {
    Console.WriteLine(typeof(List<T>));
    Console.WriteLine(nameof(x));
}`)
	//
	assert.Contains(t, text, `Syntax.TypeOf(Syntax.Type("List", 0, new Node[] { Syntax.TypeArgument(ctx, "T", 0) }))`)
	assert.Contains(t, text, `Syntax.NameOf(Syntax.Name("x"))`)
}

func Test_Quote_14(t *testing.T) {
	// Local functions and lambdas have fresh names for themselves and their
	// parameters.
	text := quote(t, `template int M(int x) {
    var f = (int a) => a + 1;
    int Twice(int y) { return y * 2; }
    return Twice(x);
}`)
	//
	assert.Contains(t, text, `var __Twice = Syntax.FreshName("Twice");`)
	assert.Contains(t, text, `var __y = Syntax.FreshName("y");`)
	assert.Contains(t, text, `Syntax.Binary("*", Syntax.Name(__y), Syntax.Literal(2))`)
	assert.Contains(t, text, `var __a = Syntax.FreshName("a");`)
	assert.Contains(t, text, `Syntax.Param(Syntax.Type("int", 0, new Node[] {  }), __a)`)
	assert.Contains(t, text, `Syntax.Binary("+", Syntax.Name(__a), Syntax.Literal(1))`)
	assert.Contains(t, text, `Syntax.LocalFunction(Syntax.Type("int", 0, new Node[] {  }), __Twice, `)
	assert.Contains(t, text, `Syntax.Invoke(Syntax.Name(__Twice), new Node[] { Syntax.Name("x") })`)
	// The name of a local function is reserved before its declaration.
	assert.True(t, strings.Index(text, `Syntax.FreshName("Twice")`) < strings.Index(text, `Syntax.FreshName("a")`))
}

func Test_Quote_15(t *testing.T) {
	// Meta.RunTime splices its operand, whilst Meta.CompileTime disappears.
	text := quote(t, `template int M(int x) {
    var k = Meta.CompileTime(Math.Max(2, 3));
    var r = Meta.RunTime(k);
    return x + k;
}`)
	//
	assert.Contains(t, text, "var k = Math.Max(2, 3);")
	assert.Contains(t, text, `Syntax.Local(null, __r, Syntax.Serialize(k, Syntax.Type("int", 0,`)
	assert.NotContains(t, text, "Meta.CompileTime")
	assert.NotContains(t, text, "Meta.RunTime")
}

func Test_Quote_16(t *testing.T) {
	// Compile-time loops repeat the generation of their bodies.
	text := quote(t, `template void M() {
    for ([CompileTime] int i = 0; i < 3; i++) { Console.WriteLine(i); }
}`)
	//
	assert.Contains(t, text, "for (int i = 0; i < 3; i++) {")
	assert.Contains(t, text, `new Node[] { Syntax.Serialize(i, Syntax.Type("int", 0,`)
}

func Test_Quote_17(t *testing.T) {
	// Run-time switches are generated section by section.
	text := quote(t, `template void M(int x) {
    switch (x) {
        case 1:
            Console.WriteLine(x);
            break;
    }
}`)
	//
	assert.Contains(t, text, `Syntax.Switch(Syntax.Name("x"), new Node[] { Syntax.Section(new Node[] { Syntax.Literal(1) }, false, (() => {`)
	assert.Contains(t, text, "__acc_1.Add(Syntax.Break());")
}

func Test_Quote_18(t *testing.T) {
	// Quotation requires successful inference.
	model, member := load(t, `template void M(bool b) {
    [CompileTime] int c = 0;
    if (b) { c = 5; }
}`)
	//
	sink := diag.NewSink(member, model)
	result, err := infer.InferScopes(context.Background(), model, member, sink)
	assert.Nil(t, err)
	assert.True(t, sink.HasErrors())
	//
	quotation, err := Rewrite(context.Background(), result, "M")
	//
	assert.True(t, quotation == nil)
	assert.NotNil(t, err)
}

func Test_Quote_19(t *testing.T) {
	// Cancellation is reported as an error.
	model, member := load(t, `template int M(int x) { return x; }`)
	sink := diag.NewSink(member, model)
	result, err := infer.InferScopes(context.Background(), model, member, sink)
	assert.Nil(t, err)
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	quotation, err := Rewrite(ctx, result, "M")
	//
	assert.True(t, quotation == nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func Test_Quote_20(t *testing.T) {
	// Names generated for the quotation do not collide with those of the
	// template.
	text := quote(t, `template int M(int __acc, int __a, int ctx) {
    var a = __acc + ctx;
    return a + __a;
}`)
	//
	assert.Contains(t, text, "Node __QuoteM(Expansion ctx_1)")
	assert.Contains(t, text, "var __acc_1 = new List<Node>();")
	assert.Contains(t, text, `var __a_1 = Syntax.FreshName("a");`)
	assert.Contains(t, text, `Syntax.Binary("+", Syntax.Name(__a_1), Syntax.Name("__a"))`)
}

func Test_Quote_21(t *testing.T) {
	// Returns within local functions of an iterator are not yielded.
	text := quote(t, `template IEnumerable<int> M(int x) {
    int Twice(int y) { return y * 2; }
    yield return Twice(x);
}`)
	//
	assert.Contains(t, text, `__acc_1.Add(Syntax.Return(Syntax.Binary("*", Syntax.Name(__y), Syntax.Literal(2))));`)
	assert.Contains(t, text, `Syntax.YieldReturn(Syntax.Invoke(Syntax.Name(__Twice), new Node[] { Syntax.Name("x") }))`)
	assert.NotContains(t, text, "FreshName(\"item\")")
}

// ============================================================================
// Helpers
// ============================================================================

func load(t *testing.T, text string) (*semantic.Model, *ast.Member) {
	t.Helper()
	//
	model, errs := semantic.Load(semantic.Prelude(), source.NewSourceFile("test.stg", []byte(text)))
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

// Rewrite the (only) template in a given text, returning the printed quotation
// function.
func quote(t *testing.T, text string) string {
	t.Helper()
	//
	var (
		model, member = load(t, text)
		sink          = diag.NewSink(member, model)
	)
	//
	result, err := infer.InferScopes(context.Background(), model, member, sink)
	if err != nil {
		t.Fatal(err.Error())
	}
	//
	for _, d := range sink.Diagnostics() {
		t.Fatalf("%s", d.String())
	}
	//
	quotation, err := Rewrite(context.Background(), result, "M")
	if err != nil {
		t.Fatal(err.Error())
	}
	//
	return ast.Print(quotation)
}
