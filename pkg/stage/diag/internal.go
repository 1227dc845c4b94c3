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
package diag

import (
	"context"
	"fmt"
)

// InternalError signals a violated invariant of the staging engine itself,
// rather than a problem with the template being compiled.  Internal errors are
// raised as panics and recovered at the entry point of each pass.
type InternalError struct {
	msg string
}

// Internal constructs an internal error with a formatted message.
func Internal(format string, args ...any) *InternalError {
	return &InternalError{fmt.Sprintf(format, args...)}
}

func (p *InternalError) Error() string {
	return "internal error: " + p.msg
}

type cancellation struct {
	err error
}

// CheckCancelled aborts the current pass if the given context is done.  The
// abort is recovered by Recover.
func CheckCancelled(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		panic(cancellation{err})
	}
}

// Recover is deferred by the entry point of a pass.  It turns internal errors
// and cancellation into an error returned from the pass.  Any other panic is
// propagated.
func Recover(pass string, err *error) {
	switch r := recover().(type) {
	case nil:
		return
	case *InternalError:
		*err = fmt.Errorf("%s: %w", pass, r)
	case cancellation:
		*err = fmt.Errorf("%s: %w", pass, r.err)
	default:
		panic(r)
	}
}
