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
)

// Location identifies a span within a specific source file.  This is what
// diagnostics carry, since a single compilation draws nodes from several files
// (e.g. the prelude and the user's templates).
type Location struct {
	File *File
	Span Span
}

// IsEmpty checks whether this location refers to any file at all.
func (p Location) IsEmpty() bool {
	return p.File == nil
}

func (p Location) String() string {
	if p.File == nil {
		return "<unknown>"
	}
	//
	line, col := p.File.Position(p.Span.start)
	//
	return fmt.Sprintf("%s:%d:%d", p.File.filename, line, col)
}

// Maps provides a mechanism for mapping nodes of an AST to multiple source
// files.
type Maps[T comparable] struct {
	// Array of known source maps.
	maps []*Map[T]
}

// NewSourceMaps constructs an (initially empty) set of source maps.  The
// intention is that this is populated as each file is parsed.
func NewSourceMaps[T comparable]() *Maps[T] {
	return &Maps[T]{nil}
}

// Has checks whether a given node has a mapping in one of the source maps
// embodied within.
func (p *Maps[T]) Has(node T) bool {
	for _, m := range p.maps {
		if m.Has(node) {
			return true
		}
	}
	//
	return false
}

// Locate determines the location of a given node.  If the node is unknown
// (e.g. because it was synthesised by a rewriting pass), then an empty
// location is returned.
func (p *Maps[T]) Locate(node T) Location {
	for _, m := range p.maps {
		if span, ok := m.mapping[node]; ok {
			return Location{&m.srcfile, span}
		}
	}
	//
	return Location{}
}

// SyntaxError constructs a syntax error for a given node contained within one
// of the source files managed by this set of source maps.
func (p *Maps[T]) SyntaxError(node T, msg string) *SyntaxError {
	for _, m := range p.maps {
		if m.Has(node) {
			return m.srcfile.SyntaxError(m.Get(node), msg)
		}
	}
	// If we get here, then it means the node on which the error occurs is not
	// present in any of the source maps.  This should not be possible, provided
	// the parser is implemented correctly.
	panic(fmt.Sprintf("missing mapping for source node %v", node))
}

// Join a given source map into this set of source maps.  The effect of this is
// that nodes recorded in the given source map can be accessed from this set.
func (p *Maps[T]) Join(srcmap *Map[T]) {
	p.maps = append(p.maps, srcmap)
}

// Copy copies the source mapping for one node to the source mapping for
// another.  The main use of this is when an existing node is rewritten into
// some other node (e.g. during quotation).
func (p *Maps[T]) Copy(from T, to T) {
	for _, m := range p.maps {
		if span, ok := m.mapping[from]; ok {
			if _, ok := m.mapping[to]; !ok {
				m.mapping[to] = span
			}
			// Done
			return
		}
	}
}

// Map maps nodes of an AST to slices of their originating text.  This is
// important for error handling when we wish to highlight exactly where, in
// the original source file, a given error has arisen.
type Map[T comparable] struct {
	// Maps a given AST node to a span in the original text.
	mapping map[T]Span
	// Enclosing source file
	srcfile File
}

// NewSourceMap constructs an initially empty source map for a given file.
func NewSourceMap[T comparable](srcfile File) *Map[T] {
	mapping := make(map[T]Span)
	return &Map[T]{mapping, srcfile}
}

// Source returns the underlying source file on which this map operates.
func (p *Map[T]) Source() *File {
	return &p.srcfile
}

// Put registers a new AST node with a given span.  Note, if the node exists
// already, then it will panic.
func (p *Map[T]) Put(item T, span Span) {
	if _, ok := p.mapping[item]; ok {
		panic(fmt.Sprintf("source map key already exists: %v", item))
	}
	// Assign it
	p.mapping[item] = span
}

// Has checks whether a given node is contained within this source map.
func (p *Map[T]) Has(item T) bool {
	_, ok := p.mapping[item]
	return ok
}

// Get determines the span associated with a given AST node.  Note, if the node
// is not registered with this source map, then it will panic.
func (p *Map[T]) Get(item T) Span {
	if s, ok := p.mapping[item]; ok {
		return s
	}

	panic(fmt.Sprintf("invalid source map key: %v", item))
}
