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
	"io"
	"os"
	"testing"

	"github.com/consensys/go-stager/pkg/util/assert"
)

func Test_Cmd_01(t *testing.T) {
	out := execute(t, "quote", "testdata/add.stg")
	//
	assert.Contains(t, out, "Node __QuoteAdd(Expansion ctx, int k) {")
}

func Test_Cmd_02(t *testing.T) {
	out := execute(t, "expand", "testdata/add.stg", "--member", "Add", "--arg", "k=5")
	//
	assert.Equal(t, "int Add(int x) {\n    return x + 10;\n}\n", out)
}

func Test_Cmd_03(t *testing.T) {
	out := execute(t, "scopes", "testdata/add.stg")
	//
	assert.Contains(t, out, "template Add:")
	assert.Contains(t, out, "compile-time")
	assert.Contains(t, out, "run-time")
	assert.Contains(t, out, "return x + twice;")
}

// Run the command line with given arguments, returning what was written to the
// standard output.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	//
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err.Error())
	}
	//
	stdout := os.Stdout
	os.Stdout = w
	//
	defer func() { os.Stdout = stdout }()
	//
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	//
	w.Close()
	//
	bytes, _ := io.ReadAll(r)
	//
	if err != nil {
		t.Fatal(err.Error())
	}
	//
	return string(bytes)
}
