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
	"fmt"
	"io"
	"strings"
)

// TablePrinter is useful for printing tables to the terminal.  Columns are
// padded to the width of their widest cell, and cells can be given escapes
// (e.g. for colour).
type TablePrinter struct {
	widths  []uint
	rows    [][]string
	escapes [][]string
	// Columns which are aligned to the left (rather than the right).
	left          []bool
	enableEscapes bool
}

// NewTablePrinter constructs a new table with a given number of columns and no
// rows.
func NewTablePrinter(width uint) *TablePrinter {
	return &TablePrinter{make([]uint, width), nil, nil, make([]bool, width), true}
}

// AddRow appends a row to this table.
func (p *TablePrinter) AddRow(vals ...string) uint {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, val := range vals {
		p.widths[i] = max(p.widths[i], uint(len(val)))
	}
	//
	p.rows = append(p.rows, vals)
	p.escapes = append(p.escapes, make([]string, len(vals)))
	//
	return uint(len(p.rows) - 1)
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Height returns the number of rows in this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape sets the escape used when printing the contents of a given cell.
// An empty escape leaves the cell unformatted.
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	if len(escape.codes) != 0 {
		p.escapes[row][col] = escape.Build()
	}
}

// AlignLeft aligns the contents of a given column to the left.
func (p *TablePrinter) AlignLeft(col uint) {
	p.left[col] = true
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful in environments that don't support
// them as, otherwise, you get a lot of visible escape characters being
// printed.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetMaxWidth puts an upper bound on the width of a given column.  Longer cells
// are truncated.
func (p *TablePrinter) SetMaxWidth(col uint, width uint) {
	p.widths[col] = min(p.widths[col], max(width, 3))
}

// Print the table to a given writer.
func (p *TablePrinter) Print(out io.Writer) {
	for i, row := range p.rows {
		var line strings.Builder
		//
		for j, cell := range row {
			width := int(p.widths[j])
			//
			if len(cell) > width {
				cell = cell[:width-2] + ".."
			}
			//
			if j != 0 {
				line.WriteString(" | ")
			}
			//
			if escape := p.escapes[i][j]; p.enableEscapes && escape != "" {
				line.WriteString(escape)
			}
			//
			if p.left[j] {
				fmt.Fprintf(&line, "%-*s", width, cell)
			} else {
				fmt.Fprintf(&line, "%*s", width, cell)
			}
			//
			if p.enableEscapes && p.escapes[i][j] != "" {
				line.WriteString(ResetAnsiEscape().Build())
			}
		}
		//
		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	}
}
