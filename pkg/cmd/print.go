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
	"strings"

	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/util/source"
	"github.com/consensys/go-stager/pkg/util/termio"
)

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	printHighlight(err.SourceFile(), err.Span(), severity(diag.ERROR), err.Message())
}

// Print the diagnostics of a template.
func printDiagnostics(diagnostics []diag.Diagnostic) {
	for _, d := range diagnostics {
		if d.Location.IsEmpty() {
			fmt.Printf("%s %s: %s\n", severity(d.Severity), d.Code, d.Message())
			continue
		}
		//
		printHighlight(d.Location.File, d.Location.Span, severity(d.Severity), d.Code+": "+d.Message())
	}
}

// Print a message about a given span of a file, followed by the first line of
// the span with the span underlined.
func printHighlight(srcfile *source.File, span source.Span, prefix string, msg string) {
	var (
		line           = srcfile.FindFirstEnclosingLine(span)
		offset, length = line.Underline(span)
	)
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s %s\n", srcfile.Filename(), line.Number(), 1+offset, 1+offset+length, prefix, msg)
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", offset))
	// Print highlight
	fmt.Println(highlight(strings.Repeat("^", length)))
}

func severity(s diag.Severity) string {
	if !termio.IsTerminal() {
		return s.String()
	} else if s == diag.ERROR {
		return termio.NewAnsiEscape().Bold().FgColour(termio.TERM_RED).Wrap(s.String())
	}
	//
	return termio.NewAnsiEscape().Bold().FgColour(termio.TERM_YELLOW).Wrap(s.String())
}

func highlight(text string) string {
	if termio.IsTerminal() {
		return termio.NewAnsiEscape().FgColour(termio.TERM_RED).Wrap(text)
	}
	//
	return text
}
