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

	"github.com/consensys/go-stager/pkg/stage/compiler"
	"github.com/consensys/go-stager/pkg/stage/semantic"
	"github.com/consensys/go-stager/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetStringArray gets an expected (repeatable) string flag, or exits if an
// error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetConfig maps the persistent flags onto a compiler configuration.
func GetConfig(cmd *cobra.Command) compiler.Config {
	return compiler.DefaultConfig().
		WithParallelism(GetUint(cmd, "parallel")).
		WithPrelude(!GetFlag(cmd, "no-prelude")).
		WithStrict(GetFlag(cmd, "strict"))
}

// LoadSourceFiles reads a given set of source files, and resolves them into a
// model.  Syntax errors are printed, after which the process exits.
func LoadSourceFiles(cfg compiler.Config, filenames []string) *semantic.Model {
	for _, n := range filenames {
		log.Debugf("including source file %s", n)
	}
	//
	srcfiles, err := source.ReadFiles(filenames...)
	// Sanity check for errors
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	model, errors := compiler.Load(cfg, srcfiles...)
	// Check for errors
	if len(errors) != 0 {
		for _, err := range errors {
			printSyntaxError(&err)
		}
		// Fail
		os.Exit(4)
	}
	//
	return model
}

// CompileTemplates compiles every template in a given model.  Internal errors
// are printed, after which the process exits.
func CompileTemplates(model *semantic.Model, cfg compiler.Config) *compiler.Batch {
	batch, err := compiler.CompileAll(context.Background(), model, model.Templates(), cfg)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(5)
	}
	//
	return batch
}
