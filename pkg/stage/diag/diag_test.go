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
	"errors"
	"testing"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/util/assert"
)

func Test_Sink_01(t *testing.T) {
	var (
		a    = ast.NewArena()
		x    = a.NewName("x")
		sum  = a.NewBinary(ast.ADD, x, a.NewName("y"))
		stmt = a.NewExprStmt(sum)
		sink = NewSink(a.NewBlock(stmt), nil)
	)
	//
	assert.True(t, sink.Report(x, ScopeMismatch, "run-time", "compile-time", "test"))
	// Same node, same kind
	assert.False(t, sink.Report(x, ScopeMismatch, "run-time", "compile-time", "test"))
	// Ancestors of a blamed node
	assert.False(t, sink.Report(sum, ScopeMismatch, "run-time", "compile-time", "test"))
	assert.False(t, sink.Report(stmt, ScopeMismatch, "run-time", "compile-time", "test"))
	// A different kind of problem
	assert.True(t, sink.Report(stmt, Unsupported, "this"))
	//
	assert.Equal(t, []string{"STG0001", "STG0005"}, sink.Codes())
	assert.True(t, sink.HasErrors())
}

func Test_Sink_02(t *testing.T) {
	var (
		a    = ast.NewArena()
		x    = a.NewName("x")
		y    = a.NewName("y")
		sum  = a.NewBinary(ast.ADD, x, y)
		sink = NewSink(sum, nil)
	)
	// Siblings are distinct nodes
	assert.True(t, sink.Report(x, DynamicForbidden, "reason"))
	assert.True(t, sink.Report(y, DynamicForbidden, "reason"))
	assert.Equal(t, 2, len(sink.Diagnostics()))
	assert.Equal(t, "dynamic expression is not permitted here (reason)", sink.Diagnostics()[0].Message())
}

func Test_Sink_03(t *testing.T) {
	var sink = NewSink(ast.NewArena().NewName("x"), nil)
	//
	assert.False(t, sink.HasErrors())
	assert.Equal(t, 0, len(sink.Codes()))
}

func Test_Catalog_01(t *testing.T) {
	var seen = make(map[string]bool)
	//
	for _, d := range Catalog() {
		assert.False(t, seen[d.Code], "duplicate code ", d.Code)
		seen[d.Code] = true
	}
}

func Test_Recover_01(t *testing.T) {
	err := func() (err error) {
		defer Recover("inference", &err)
		panic(Internal("node %d already scoped", 3))
	}()
	//
	var internal *InternalError
	//
	assert.True(t, errors.As(err, &internal))
	assert.Equal(t, "inference: internal error: node 3 already scoped", err.Error())
}

func Test_Recover_02(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	err := func() (err error) {
		defer Recover("rewriting", &err)
		CheckCancelled(ctx)
		//
		return nil
	}()
	//
	assert.True(t, errors.Is(err, context.Canceled))
}
