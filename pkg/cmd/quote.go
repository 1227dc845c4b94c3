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

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [flags] file1.stg file2.stg ...",
	Short: "print the quotation function of every template.",
	Long: `Compile every template in the given source files into its quotation
	function, and print them.  Templates with problems are reported instead.`,
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
			if c.Success() {
				fmt.Println(ast.Print(c.Quotation))
			} else {
				fmt.Printf("// %s failed\n", c.Member.Name)
			}
			//
			printDiagnostics(c.Diagnostics)
		}
		//
		if !batch.Success() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}
