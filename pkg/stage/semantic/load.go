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
package semantic

import (
	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/parser"
	"github.com/consensys/go-stager/pkg/util/source"
)

// Load parses a given set of source files into a shared arena, and then builds
// a model from them.  Parsing stops at the first file containing syntax errors,
// since resolution over a partial tree would only report spurious errors.
func Load(srcfiles ...*source.File) (*Model, []source.SyntaxError) {
	var (
		arena   = ast.NewArena()
		srcmaps = source.NewSourceMaps[ast.NodeId]()
		units   []*ast.Unit
	)
	//
	for _, srcfile := range srcfiles {
		unit, srcmap, errs := parser.Parse(srcfile, arena)
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		srcmaps.Join(srcmap)
		units = append(units, unit)
	}
	//
	return Build(units, srcmaps)
}
