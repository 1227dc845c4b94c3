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
package termio

import (
	"strings"
	"testing"

	"github.com/consensys/go-stager/pkg/util/assert"
)

func Test_Escape_01(t *testing.T) {
	assert.Equal(t, "\033[0m", ResetAnsiEscape().Build())
	assert.Equal(t, "\033[1;31m", NewAnsiEscape().Bold().FgColour(TERM_RED).Build())
	assert.Equal(t, "\033[4;32;44mok\033[0m", NewAnsiEscape().Underline().FgColour(TERM_GREEN).BgColour(TERM_BLUE).Wrap("ok"))
}

func Test_Escape_02(t *testing.T) {
	// Escapes are values.
	var (
		base = NewAnsiEscape().Bold()
		red  = base.FgColour(TERM_RED)
		blue = base.FgColour(TERM_BLUE)
	)
	//
	assert.Equal(t, "\033[1;31m", red.Build())
	assert.Equal(t, "\033[1;34m", blue.Build())
}

func Test_Table_01(t *testing.T) {
	var (
		table = NewTablePrinter(2)
		out   strings.Builder
	)
	//
	table.AddRow("1", "a")
	table.AddRow("10", "bcd")
	table.AlignLeft(1)
	table.Print(&out)
	//
	assert.Equal(t, " 1 | a\n10 | bcd\n", out.String())
	assert.Equal(t, uint(2), table.Height())
	assert.Equal(t, "bcd", table.Get(1, 1))
}

func Test_Table_02(t *testing.T) {
	var (
		table = NewTablePrinter(1)
		out   strings.Builder
	)
	//
	row := table.AddRow("abcdefgh")
	table.SetMaxWidth(0, 5)
	table.SetEscape(0, row, NewAnsiEscape().FgColour(TERM_RED))
	table.AnsiEscapes(false)
	table.Print(&out)
	//
	assert.Equal(t, "abc..\n", out.String())
}

func Test_Table_03(t *testing.T) {
	var (
		table = NewTablePrinter(1)
		out   strings.Builder
	)
	//
	row := table.AddRow("x")
	table.SetEscape(0, row, NewAnsiEscape().FgColour(TERM_RED))
	table.Print(&out)
	//
	assert.Equal(t, "\033[31mx\033[0m\n", out.String())
}
