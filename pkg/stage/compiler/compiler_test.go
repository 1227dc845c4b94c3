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
package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/expand"
	"github.com/consensys/go-stager/pkg/stage/semantic"
	"github.com/consensys/go-stager/pkg/util/assert"
	"github.com/consensys/go-stager/pkg/util/source"
)

// ============================================================================
// Single members
// ============================================================================

func Test_Compiler_01(t *testing.T) {
	compilation := compile(t, DefaultConfig(), `template int Add([CompileTime] int k, int x) {
    return x + k;
}`)
	//
	assert.True(t, compilation.Success())
	assert.Equal(t, 0, len(compilation.Diagnostics))
	assert.Equal(t, "__QuoteAdd", compilation.Quotation.Name)
	assert.Equal(t, []string{"k"}, compilation.CompileTimeParameters())
}

func Test_Compiler_02(t *testing.T) {
	// Members with errors are not rewritten.
	compilation := compile(t, DefaultConfig(), `template void M(bool rtFlag) {
    [CompileTime] int compileTimeVar = 0;
    if (rtFlag) { compileTimeVar = 5; }
}`)
	//
	assert.False(t, compilation.Success())
	assert.Nil(t, compilation.Quotation)
	assert.Equal(t, []string{"STG0002"}, codes(compilation))
}

func Test_Compiler_03(t *testing.T) {
	// Dynamic expressions are accepted by default, but rejected in strict mode.
	var template = `template void M() {
    foreach (var p in Meta.Target.Parameters) {
        var v = p.Value;
        Console.WriteLine(v.Length);
        Console.WriteLine(v[0]);
    }
}`
	//
	assert.True(t, compile(t, DefaultConfig(), template).Success())
	//
	compilation := compile(t, DefaultConfig().WithStrict(true), template)
	//
	assert.False(t, compilation.Success())
	assert.Equal(t, []string{"STG0007", "STG0007"}, codes(compilation))
	assert.Contains(t, compilation.Diagnostics[0].Message(), STRICT_REASON)
}

func Test_Compiler_04(t *testing.T) {
	// Cancellation is an error.
	var (
		model       = load(t, DefaultConfig(), `template int M(int x) { return x; }`)
		ctx, cancel = context.WithCancel(context.Background())
	)
	//
	cancel()
	//
	_, err := Compile(ctx, model, model.Template("M"), DefaultConfig())
	//
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func Test_Compiler_05(t *testing.T) {
	// Without the prelude, nothing is declared.
	var srcfile = source.NewSourceFile("test.stg", []byte(`template void M() { Console.WriteLine(1); }`))
	//
	_, errs := Load(DefaultConfig().WithPrelude(false), srcfile)
	//
	assert.True(t, len(errs) > 0)
}

// ============================================================================
// Batches
// ============================================================================

func Test_Compiler_06(t *testing.T) {
	// Members are reported in the order given, regardless of parallelism.
	var (
		builder strings.Builder
		names   []string
	)
	//
	for i := range 16 {
		fmt.Fprintf(&builder, "template int M%d([CompileTime] int k, int x) { return x + k + %d; }\n", i, i)
		names = append(names, fmt.Sprintf("M%d", i))
	}
	//
	for _, parallelism := range []uint{0, 1, 4} {
		var (
			cfg   = DefaultConfig().WithParallelism(parallelism)
			model = load(t, cfg, builder.String())
		)
		//
		batch, err := CompileAll(context.Background(), model, model.Templates(), cfg)
		//
		assert.Nil(t, err)
		assert.True(t, batch.Success())
		assert.Equal(t, 16, len(batch.Compilations))
		//
		for i, c := range batch.Compilations {
			assert.Equal(t, names[i], c.Member.Name)
			assert.Equal(t, "__Quote"+names[i], c.Quotation.Name)
		}
	}
}

func Test_Compiler_07(t *testing.T) {
	// Diagnostics of one member do not affect another.
	var (
		cfg   = DefaultConfig().WithParallelism(2)
		model = load(t, cfg, `template void Bad(bool rtFlag) {
    [CompileTime] int c = 0;
    if (rtFlag) { c = 5; }
}
template int Good(int x) { return x; }`)
	)
	//
	batch, err := CompileAll(context.Background(), model, model.Templates(), cfg)
	//
	assert.Nil(t, err)
	assert.False(t, batch.Success())
	assert.False(t, batch.Lookup("Bad").Success())
	assert.True(t, batch.Lookup("Good").Success())
	assert.Nil(t, batch.Lookup("Missing"))
	assert.Equal(t, 1, len(batch.Diagnostics()))
	assert.Equal(t, "STG0002", batch.Diagnostics()[0].Code)
}

func Test_Compiler_08(t *testing.T) {
	// A cancelled batch fails as a whole.
	var (
		cfg         = DefaultConfig()
		model       = load(t, cfg, `template int A(int x) { return x; } template int B(int x) { return x; }`)
		ctx, cancel = context.WithCancel(context.Background())
	)
	//
	cancel()
	//
	batch, err := CompileAll(ctx, model, model.Templates(), cfg)
	//
	assert.Nil(t, batch)
	assert.True(t, errors.Is(err, context.Canceled))
}

func Test_Compiler_09(t *testing.T) {
	// Every batch is identified uniquely.
	var (
		cfg   = DefaultConfig()
		model = load(t, cfg, `template int A(int x) { return x; }`)
	)
	//
	first, err1 := CompileAll(context.Background(), model, model.Templates(), cfg)
	second, err2 := CompileAll(context.Background(), model, model.Templates(), cfg)
	//
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.True(t, first.Id != second.Id)
}

// ============================================================================
// Expansion
// ============================================================================

func Test_Compiler_10(t *testing.T) {
	var (
		arena       = ast.NewArena()
		compilation = compile(t, DefaultConfig(), `template int Add([CompileTime] int k, int x) {
    return x + k * 2;
}`)
		target = expand.NewTarget("Add", parseType(t, "int", arena)).WithParameter("x", parseType(t, "int", arena))
	)
	//
	member, err := Expand(context.Background(), compilation, target, map[string]expand.Value{"k": int64(5)},
		DefaultConfig())
	//
	assert.Nil(t, err)
	assert.Equal(t, "int Add(int x) {\n    return x + 10;\n}", ast.Print(member))
}

func Test_Compiler_11(t *testing.T) {
	// Compile-time parameters are bound exactly.
	var (
		arena       = ast.NewArena()
		compilation = compile(t, DefaultConfig(), `template int Add([CompileTime] int k, int x) { return x + k; }`)
		target      = expand.NewTarget("Add", parseType(t, "int", arena)).WithParameter("x", parseType(t, "int", arena))
	)
	//
	_, err := Expand(context.Background(), compilation, target, map[string]expand.Value{}, DefaultConfig())
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "no value given for compile-time parameter 'k'")
	//
	_, err = Expand(context.Background(), compilation, target, map[string]expand.Value{"k": int64(1), "x": int64(2)},
		DefaultConfig())
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "'x' is not a compile-time parameter")
}

func Test_Compiler_12(t *testing.T) {
	// Failed compilations cannot be expanded.
	var (
		arena       = ast.NewArena()
		compilation = compile(t, DefaultConfig(), `template void M(bool rtFlag) {
    [CompileTime] int c = 0;
    if (rtFlag) { c = 5; }
}`)
	)
	//
	_, err := Expand(context.Background(), compilation, expand.NewTarget("M", parseType(t, "void", arena)), nil,
		DefaultConfig())
	//
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "was not compiled")
}

func Test_Compiler_13(t *testing.T) {
	// Expansion respects the step limit.
	var (
		arena       = ast.NewArena()
		compilation = compile(t, DefaultConfig(), `template void M() {
    [CompileTime] int i = 0;
    while (i >= 0) { i = i + 1; }
}`)
	)
	//
	_, err := Expand(context.Background(), compilation, expand.NewTarget("M", parseType(t, "void", arena)), nil,
		DefaultConfig().WithStepLimit(500))
	//
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "step limit of 500 exceeded")
}

// ============================================================================
// Arguments
// ============================================================================

func Test_Compiler_14(t *testing.T) {
	var tests = []struct {
		text  string
		name  string
		value expand.Value
	}{
		{"k=3", "k", int64(3)},
		{" k = -3 ", "k", int64(-3)},
		{"f=2.5", "f", 2.5},
		{"b=true", "b", true},
		{"b=false", "b", false},
		{"s=\"a b\"", "s", "a b"},
		{"s=hello", "s", "hello"},
		{"n=null", "n", nil},
	}
	//
	for _, test := range tests {
		name, value, err := ParseArgument(test.text)
		//
		assert.Nil(t, err, test.text)
		assert.Equal(t, test.name, name, test.text)
		assert.Equal(t, test.value, value, test.text)
	}
}

func Test_Compiler_15(t *testing.T) {
	_, value, err := ParseArgument("xs=[1, 2, 3]")
	//
	assert.Nil(t, err)
	//
	list, ok := value.(*expand.List)
	//
	assert.True(t, ok)
	assert.Equal(t, "int", list.Element.Name)
	assert.Equal(t, []expand.Value{int64(1), int64(2), int64(3)}, list.Items)
	//
	for _, text := range []string{"k", "=3", "xs=[]", "xs=[1, \"a\"]"} {
		_, _, err := ParseArgument(text)
		assert.NotNil(t, err, text)
	}
}

func Test_Compiler_16(t *testing.T) {
	var arena = ast.NewArena()
	//
	name, typ, err := ParseParameter("xs: List<int>", arena)
	//
	assert.Nil(t, err)
	assert.Equal(t, "xs", name)
	assert.Equal(t, "List<int>", ast.Print(typ))
	//
	for _, text := range []string{"xs", ":int", "x:List<"} {
		_, _, err := ParseParameter(text, arena)
		assert.NotNil(t, err, text)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func load(t *testing.T, cfg Config, text string) *semantic.Model {
	t.Helper()
	//
	model, errs := Load(cfg, source.NewSourceFile("test.stg", []byte(text)))
	//
	if len(errs) > 0 {
		t.Fatalf("%s", errs[0].Error())
	}
	//
	return model
}

func compile(t *testing.T, cfg Config, text string) *Compilation {
	t.Helper()
	//
	var model = load(t, cfg, text)
	//
	compilation, err := Compile(context.Background(), model, model.Templates()[0], cfg)
	//
	if err != nil {
		t.Fatal(err.Error())
	}
	//
	return compilation
}

func codes(compilation *Compilation) []string {
	var codes = make([]string, len(compilation.Diagnostics))
	//
	for i, d := range compilation.Diagnostics {
		codes[i] = d.Code
	}
	//
	return codes
}

func parseType(t *testing.T, text string, arena *ast.Arena) *ast.TypeRef {
	t.Helper()
	//
	typ, err := ParseType(text, arena)
	//
	if err != nil {
		t.Fatal(err.Error())
	}
	//
	return typ
}
