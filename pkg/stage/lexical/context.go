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
package lexical

import (
	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/util/collection/stack"
)

// Kind determines what happens to the buffer of a lexical context when it is
// closed.
type Kind uint8

const (
	// RunTimeBlock is a block of the generated code.  Its buffer is
	// materialised independently (with its own accumulator) and handed back
	// when closed.
	RunTimeBlock Kind = iota
	// HelperScope is a block of the quotation function itself (e.g. the body of
	// a compile-time loop).  It shares the accumulator of its parent, and its
	// buffer is handed back when closed.
	HelperScope
	// CompileTimeBlock is a block executed whilst expanding which is flattened
	// into its parent.  Its buffer is appended to that of the parent when
	// closed.
	CompileTimeBlock
)

func (p Kind) String() string {
	switch p {
	case RunTimeBlock:
		return "run-time block"
	case HelperScope:
		return "helper scope"
	case CompileTimeBlock:
		return "compile-time block"
	default:
		return "???"
	}
}

// ACCUMULATOR is the hint from which the names of accumulators are derived.
const ACCUMULATOR = "__acc"

// Context is the lexical context of the quotation code being generated for
// some block.  It holds the statements generated so far for the block, and
// the names chosen for the symbols declared in it.  Contexts are acquired with
// Child and must be released with Close in strict LIFO order.  Symbols are
// identified by values of type S.
type Context[S comparable] struct {
	frames *stack.Stack[*frame[S]]
	names  *NameTable
	frame  *frame[S]
}

type frame[S comparable] struct {
	parent *frame[S]
	kind   Kind
	// Name of the list of generated statements in scope.
	accumulator string
	// Quotation statements generated so far.
	buffer []ast.Stmt
	// Placeholders holding the run-time names of symbols.
	reserved map[S]string
	// Names given to compile-time symbols within the quotation code.
	aliases map[S]string
	closed  bool
}

// NewRoot constructs the outermost context for staging a member, which is a
// run-time block.  All contexts derived from it share the given name table.
func NewRoot[S comparable](names *NameTable) *Context[S] {
	var (
		frames = stack.NewStack[*frame[S]]()
		root   = newFrame[S](nil, RunTimeBlock, names.Unique(ACCUMULATOR))
	)
	//
	frames.Push(root)
	//
	return &Context[S]{frames, names, root}
}

func newFrame[S comparable](parent *frame[S], kind Kind, accumulator string) *frame[S] {
	return &frame[S]{parent, kind, accumulator, nil, make(map[S]string), make(map[S]string), false}
}

// Child acquires a nested context of a given kind.  Only the innermost open
// context can be nested.
func (p *Context[S]) Child(kind Kind) *Context[S] {
	var accumulator = p.frame.accumulator
	//
	p.checkInnermost()
	//
	if kind == RunTimeBlock {
		accumulator = p.names.Unique(ACCUMULATOR)
	}
	//
	child := newFrame(p.frame, kind, accumulator)
	p.frames.Push(child)
	//
	return &Context[S]{p.frames, p.names, child}
}

// Kind returns the kind of this context.
func (p *Context[S]) Kind() Kind {
	return p.frame.kind
}

// Depth returns the number of contexts enclosing this one.
func (p *Context[S]) Depth() uint {
	var depth uint
	//
	for f := p.frame.parent; f != nil; f = f.parent {
		depth++
	}
	//
	return depth
}

// Accumulator returns the name of the list to which generated statements are
// added within this context.
func (p *Context[S]) Accumulator() string {
	return p.frame.accumulator
}

// Append a quotation statement to the buffer of this context.
func (p *Context[S]) Append(stmts ...ast.Stmt) {
	p.checkInnermost()
	p.frame.buffer = append(p.frame.buffer, stmts...)
}

// UniqueName returns a name which is unique across the whole member.
func (p *Context[S]) UniqueName(hint string) string {
	return p.names.Unique(hint)
}

// ReserveRunTimeName chooses the placeholder which will hold the run-time name
// of a given symbol.  A symbol is reserved at most once, since it is declared
// once.
func (p *Context[S]) ReserveRunTimeName(symbol S, hint string) string {
	if _, ok := p.LookupRunTimeName(symbol); ok {
		panic(diag.Internal("run-time name of '%s' reserved twice", hint))
	}
	//
	placeholder := p.names.Unique("__" + hint)
	p.frame.reserved[symbol] = placeholder
	//
	return placeholder
}

// LookupRunTimeName returns the placeholder reserved for a given symbol by this
// context or any enclosing one.
func (p *Context[S]) LookupRunTimeName(symbol S) (string, bool) {
	for f := p.frame; f != nil; f = f.parent {
		if name, ok := f.reserved[symbol]; ok {
			return name, true
		}
	}
	//
	return "", false
}

// Alias chooses the name by which a compile-time symbol is known in the
// quotation code.  Symbols keep their own name where possible, but since
// compile-time blocks are flattened, two symbols of the same name may
// otherwise collide.
func (p *Context[S]) Alias(symbol S, name string) string {
	if alias, ok := p.LookupAlias(symbol); ok {
		return alias
	} else if !p.names.Claim(name) {
		name = p.names.Unique(name)
	}
	//
	p.frame.aliases[symbol] = name
	//
	return name
}

// LookupAlias returns the name chosen for a compile-time symbol by this context
// or any enclosing one.
func (p *Context[S]) LookupAlias(symbol S) (string, bool) {
	for f := p.frame; f != nil; f = f.parent {
		if name, ok := f.aliases[symbol]; ok {
			return name, true
		}
	}
	//
	return "", false
}

// Close releases this context.  The buffer of a compile-time block is appended
// to that of its parent (and nothing is returned), whilst the buffers of other
// contexts are returned to be materialised by the caller.  Symbols declared in
// a closed context are no longer visible.
func (p *Context[S]) Close() []ast.Stmt {
	p.checkInnermost()
	p.frames.Pop()
	p.frame.closed = true
	//
	if p.frame.kind == CompileTimeBlock && p.frame.parent != nil {
		p.frame.parent.buffer = append(p.frame.parent.buffer, p.frame.buffer...)
		return nil
	}
	//
	return p.frame.buffer
}

func (p *Context[S]) checkInnermost() {
	if p.frame.closed {
		panic(diag.Internal("%s used after being closed", p.frame.kind))
	} else if p.frames.Peek(0) != p.frame {
		panic(diag.Internal("%s used whilst a nested context is open", p.frame.kind))
	}
}
