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
package lex

import (
	"cmp"
	"slices"
)

// Scanner is a function which accepts a prefix of the given items, returning
// how many were accepted (or zero if it failed to match).
type Scanner[T any] func(item []T) uint

// Or combines zero or more scanners such that the resulting scanner succeeds if
// any of the scanners succeeds.  Observe, however, that there is an implicit
// left-to-right order of evaluation.
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}
		// fail
		return 0
	}
}

// Unit accepts a given sequence of characters.  That is, for this scanner to
// match, it must match all the given characters (one after the other) in
// their given order.
func Unit[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) >= len(chars) {
			for i := 0; i < len(chars); i++ {
				if items[i] != chars[i] {
					return 0
				}
			}
			//
			return uint(len(chars))
		}
		// fail
		return 0
	}
}

// String expects a given string s.  It is equivalent to Unit(s[0], s[1], ...)
func String(s string) Scanner[rune] {
	return Unit([]rune(s)...)
}

// Strings accepts any one of the given strings, preferring earlier ones.
func Strings(options ...string) Scanner[rune] {
	scanners := make([]Scanner[rune], len(options))
	//
	for i, s := range options {
		scanners[i] = String(s)
	}
	//
	return Or(scanners...)
}

// Within accepts any character within a given range.
func Within[T cmp.Ordered](lowest T, highest T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		// fail
		return 0
	}
}

// OneOf accepts any single character from the given set.
func OneOf[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && slices.Contains(chars, items[0]) {
			return 1
		}
		//
		return 0
	}
}

// Many matches zero or more of a given item.
func Many[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			if n := acceptor(items[index:]); n != 0 {
				index += n
				continue
			}
			//
			break
		}
		// done
		return index
	}
}

// Until matches everything until a particular item is matched.
func Until[T comparable](item T) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) && items[index] != item {
			index++
		}
		// done
		return index
	}
}

// Eof matches the end of the input stream.
func Eof[T any]() Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 {
			return 1
		}
		//
		return 0
	}
}

// Sequence matches all the scanners in order.  Each scanner consumes the input
// right after the previous one ends.  Every scanner must match at least one
// item, except those wrapped by Optional.
func Sequence[T comparable](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			m := scanner(items[n:])
			if m == 0 {
				return 0
			} else if m == optionalMiss {
				continue
			}
			//
			n += m
		}
		//
		return n
	}
}

// optionalMiss is a sentinel reported by optional scanners which did not
// match.  It is interpreted by Sequence as "matched nothing, keep going".
const optionalMiss = ^uint(0)

// Optional permits a scanner within a Sequence to match nothing.  Used outside
// of a Sequence, it should not be used.
func Optional[T any](scanner Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		if n := scanner(items); n > 0 {
			return n
		}
		//
		return optionalMiss
	}
}

// Delimited matches a sequence opened and closed by a given character, where
// the closing character can be escaped within the sequence (e.g. a string or
// character literal).  An unterminated sequence fails to match.
func Delimited(delimiter rune, escape rune) Scanner[rune] {
	return func(items []rune) uint {
		if len(items) == 0 || items[0] != delimiter {
			return 0
		}
		//
		for i := 1; i < len(items); i++ {
			switch items[i] {
			case escape:
				i++
			case delimiter:
				return uint(i + 1)
			case '\n':
				return 0
			}
		}
		// Unterminated
		return 0
	}
}

// LineComment matches a comment starting with a given prefix and running to the
// end of the line.
func LineComment(prefix string) Scanner[rune] {
	start := String(prefix)
	//
	return func(items []rune) uint {
		if n := start(items); n > 0 {
			return n + Until('\n')(items[n:])
		}
		//
		return 0
	}
}

// BlockComment matches a comment opened and closed by the given strings.  An
// unterminated comment fails to match.
func BlockComment(open string, close string) Scanner[rune] {
	var (
		start = String(open)
		end   = String(close)
	)
	//
	return func(items []rune) uint {
		if n := start(items); n > 0 {
			for i := n; i < uint(len(items)); i++ {
				if m := end(items[i:]); m > 0 {
					return i + m
				}
			}
		}
		//
		return 0
	}
}
