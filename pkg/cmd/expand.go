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
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/compiler"
	"github.com/consensys/go-stager/pkg/stage/expand"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] file1.stg file2.stg ...",
	Short: "expand a template onto a target method.",
	Long: `Compile a given template, and then run its quotation function for a given
	target method and given values of its compile-time parameters.  The target
	defaults to a method with the same name, return type and run-time
	parameters as the template.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg   = GetConfig(cmd).WithStepLimit(GetUint(cmd, "step-limit"))
			model = LoadSourceFiles(cfg, args)
			name  = GetString(cmd, "member")
		)
		//
		template := model.Template(name)
		if template == nil {
			fmt.Printf("unknown template \"%s\"\n", name)
			os.Exit(2)
		}
		//
		compilation, err := compiler.Compile(context.Background(), model, template, cfg)
		if err != nil {
			fmt.Println(err)
			os.Exit(5)
		} else if !compilation.Success() {
			printDiagnostics(compilation.Diagnostics)
			os.Exit(1)
		}
		//
		printDiagnostics(compilation.Diagnostics)
		//
		var (
			target = buildTarget(cmd, compilation)
			values = make(map[string]expand.Value)
		)
		//
		for _, arg := range GetStringArray(cmd, "arg") {
			key, value, err := compiler.ParseArgument(arg)
			exitOnError(err)
			//
			values[key] = value
		}
		//
		member, err := compiler.Expand(context.Background(), compilation, target, values, cfg)
		exitOnError(err)
		//
		fmt.Println(ast.Print(member))
	},
}

// Construct the target of an expansion from the command-line flags, falling
// back on the template itself.
func buildTarget(cmd *cobra.Command, compilation *compiler.Compilation) *expand.Target {
	var (
		arena    = ast.NewArena()
		template = compilation.Member
		name     = GetString(cmd, "target-name")
		ret      = GetString(cmd, "target-return")
		params   = GetStringArray(cmd, "target-param")
	)
	//
	if name == "" {
		name = template.Name
	}
	//
	if ret == "" {
		ret = ast.Print(template.Return)
	}
	//
	typ, err := compiler.ParseType(ret, arena)
	exitOnError(err)
	//
	target := expand.NewTarget(name, typ)
	//
	if len(params) == 0 {
		// Run-time parameters of the template
		for _, param := range template.Params {
			if !compilation.Result.Scope(param).IsCompileTime() {
				params = append(params, fmt.Sprintf("%s:%s", param.Name, ast.Print(param.Type)))
			}
		}
	}
	//
	for _, param := range params {
		name, typ, err := compiler.ParseParameter(param, arena)
		exitOnError(err)
		//
		target.WithParameter(name, typ)
	}
	//
	for _, binding := range GetStringArray(cmd, "type-arg") {
		name, text, ok := strings.Cut(binding, "=")
		if !ok {
			exitOnError(fmt.Errorf("malformed type argument '%s' (expected name=type)", binding))
		}
		//
		typ, err := compiler.ParseType(strings.TrimSpace(text), arena)
		exitOnError(err)
		//
		target.WithTypeArgument(strings.TrimSpace(name), typ)
	}
	//
	log.Debugf("target is %s", ast.Print(target.Member(arena, arena.NewBlock())))
	//
	return target
}

func exitOnError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringP("member", "m", "", "name of the template to expand")
	expandCmd.Flags().StringArrayP("arg", "a", nil, "value of a compile-time parameter (name=value)")
	expandCmd.Flags().String("target-name", "", "name of the target method")
	expandCmd.Flags().String("target-return", "", "return type of the target method")
	expandCmd.Flags().StringArrayP("target-param", "p", nil, "parameter of the target method (name:type)")
	expandCmd.Flags().StringArray("type-arg", nil, "type bound to a type parameter of the template (name=type)")
	expandCmd.Flags().Uint("step-limit", expand.DEFAULT_STEP_LIMIT, "maximum number of evaluation steps (0 for none)")
	//
	if err := expandCmd.MarkFlagRequired("member"); err != nil {
		panic(err)
	}
}
