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
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/compiler"
	"github.com/consensys/go-stager/pkg/stage/scope"
	"github.com/consensys/go-stager/pkg/stage/semantic"
	"github.com/consensys/go-stager/pkg/util/termio"
	"github.com/spf13/cobra"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes [flags] file1.stg file2.stg ...",
	Short: "print the inferred scope of every statement.",
	Long: `Infer the scope of every statement of every template in the given source
	files, and print them alongside any problems found.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg   = GetConfig(cmd)
			model = LoadSourceFiles(cfg, args)
			batch = CompileTemplates(model, cfg)
		)
		//
		for i, c := range batch.Compilations {
			if i != 0 {
				fmt.Println()
			}
			//
			writeScopes(c, model)
			printDiagnostics(c.Diagnostics)
		}
		//
		if !batch.Success() {
			os.Exit(1)
		}
	},
}

// Write the scope of each statement in a template as a table, indenting nested
// statements.
func writeScopes(c *compiler.Compilation, model *semantic.Model) {
	var table = termio.NewTablePrinter(3)
	//
	table.AlignLeft(2)
	table.AnsiEscapes(termio.IsTerminal())
	fmt.Printf("template %s:\n", c.Member.Name)
	//
	for _, s := range c.Member.Body.Stmts {
		addScopes(table, c, model, s, 0)
	}
	//
	table.SetMaxWidth(2, 100)
	table.Print(os.Stdout)
}

func addScopes(table *termio.TablePrinter, c *compiler.Compilation, model *semantic.Model, node ast.Node,
	depth int) {
	if stmt, ok := node.(ast.Stmt); ok {
		var (
			text, _, _ = strings.Cut(ast.Print(stmt), "\n")
			position   = "?"
			s          = "?"
		)
		//
		if loc := model.Locate(stmt.Id()); !loc.IsEmpty() {
			line, col := loc.File.Position(loc.Span.Start())
			position = fmt.Sprintf("%d:%d", line, col)
		}
		//
		if c.Result.HasScope(stmt) {
			s = c.Result.Scope(stmt).String()
		}
		//
		row := table.AddRow(position, s, strings.Repeat("  ", depth)+text)
		//
		if c.Result.HasScope(stmt) {
			table.SetEscape(1, row, scopeEscape(c.Result.Scope(stmt)))
		}
		//
		depth++
	}
	// Statements nested within expressions (e.g. lambda bodies) are not listed.
	if _, ok := node.(ast.Expr); ok {
		return
	}
	//
	for _, child := range ast.Children(node) {
		addScopes(table, c, model, child, depth)
	}
}

func scopeEscape(s scope.Scope) termio.AnsiEscape {
	switch {
	case s.IsAbsorbing():
		return termio.NewAnsiEscape().Bold().FgColour(termio.TERM_RED)
	case s == scope.Dynamic:
		return termio.NewAnsiEscape().FgColour(termio.TERM_MAGENTA)
	case s.IsCompileTime():
		return termio.NewAnsiEscape().FgColour(termio.TERM_CYAN)
	case s == scope.RunTimeOnly:
		return termio.NewAnsiEscape().FgColour(termio.TERM_GREEN)
	default:
		return termio.NewAnsiEscape()
	}
}

func init() {
	rootCmd.AddCommand(scopesCmd)
}
