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
package source

import (
	"fmt"
	"os"
	"slices"
)

// ReadFiles reads a given set of source files, or produces an error for the
// first which cannot be read.
func ReadFiles(filenames ...string) ([]*File, error) {
	var files = make([]*File, len(filenames))
	//
	for i, n := range filenames {
		bytes, err := os.ReadFile(n)
		if err != nil {
			return nil, err
		}
		//
		files[i] = NewSourceFile(n, bytes)
	}
	//
	return files, nil
}

// File represents a given source file (typically stored on disk, though the
// prelude of the surface language is embedded within the binary).
type File struct {
	// File name for this source file.
	filename string
	// Contents of this file.
	contents []rune
	// Offset at which each line starts, in ascending order.  The first line
	// always starts at zero.
	lines []int
}

// NewSourceFile constructs a new source file from a given byte array.
func NewSourceFile(filename string, bytes []byte) *File {
	var (
		contents = []rune(string(bytes))
		lines    = []int{0}
	)
	//
	for i, c := range contents {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	//
	return &File{filename, contents, lines}
}

// Filename returns the filename associated with this source file.
func (s *File) Filename() string {
	return s.filename
}

// Contents returns the contents of this source file.
func (s *File) Contents() []rune {
	return s.contents
}

// Text returns the text covered by a given span of this file.
func (s *File) Text(span Span) string {
	end := min(span.end, len(s.contents))
	//
	return string(s.contents[min(span.start, end):end])
}

// SyntaxError constructs a syntax error over a given span of this file with a
// given message.
func (s *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// Position determines the line and column (both counting from 1) of a given
// character offset within this file.
func (s *File) Position(offset int) (int, int) {
	line := s.FindFirstEnclosingLine(NewSpan(offset, offset))
	//
	return line.Number(), 1 + offset - line.Start()
}

// FindFirstEnclosingLine determines the line of this file which encloses the
// start of a span.  Offsets beyond the end of the file belong to its last
// line.  A span may cross several lines, in which case only the first is
// returned.
func (s *File) FindFirstEnclosingLine(span Span) Line {
	// Index of the last line starting at or before the span.
	index, found := slices.BinarySearch(s.lines, span.start)
	//
	if !found {
		index--
	}
	//
	start := s.lines[index]
	end := len(s.contents)
	//
	if index+1 < len(s.lines) {
		end = s.lines[index+1] - 1
	}
	//
	return Line{s.contents, Span{start, end}, index + 1}
}

// Line provides information about a given line of a source file: its number
// (counting from 1), and its span within the file.
type Line struct {
	text   []rune
	span   Span
	number int
}

// Get the string representing this line.
func (p *Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number gets the line number of this line, where the first line in a file
// has line number 1.
func (p *Line) Number() int {
	return p.number
}

// Start returns the starting index of this line in the file.
func (p *Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p *Line) Length() int {
	return p.span.Length()
}

// Underline determines the portion of this line to highlight for a given span,
// as an offset from the start of the line and a length.  At least one
// character is highlighted, and the highlight never extends beyond the line.
func (p *Line) Underline(span Span) (int, int) {
	offset := max(0, span.start-p.span.start)
	//
	return offset, max(1, min(p.Length()-offset, span.Length()))
}

// SyntaxError is a structured error which retains the span of a source file
// where an error occurred, along with an error message.
type SyntaxError struct {
	srcfile *File
	span    Span
	msg     string
}

// SourceFile returns the underlying source file that this syntax error covers.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	line, col := p.srcfile.Position(p.span.start)
	//
	return fmt.Sprintf("%s:%d:%d: %s", p.srcfile.filename, line, col, p.msg)
}
