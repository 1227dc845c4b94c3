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
package compiler

import (
	"context"

	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/diag"
	"github.com/consensys/go-stager/pkg/stage/semantic"
	"github.com/consensys/go-stager/pkg/util"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Batch is the outcome of compiling a set of templates together.
type Batch struct {
	// Identifies this batch in log output.
	Id uuid.UUID
	// One compilation per template, in the order given.
	Compilations []*Compilation
}

// Success checks whether every template in this batch was compiled.
func (p *Batch) Success() bool {
	for _, c := range p.Compilations {
		if !c.Success() {
			return false
		}
	}
	//
	return true
}

// Diagnostics returns the problems reported for all templates in this batch.
func (p *Batch) Diagnostics() []diag.Diagnostic {
	var diagnostics []diag.Diagnostic
	//
	for _, c := range p.Compilations {
		diagnostics = append(diagnostics, c.Diagnostics...)
	}
	//
	return diagnostics
}

// Lookup the compilation of a template with a given name, or nil if there is
// none.
func (p *Batch) Lookup(name string) *Compilation {
	for _, c := range p.Compilations {
		if c.Member.Name == name {
			return c
		}
	}
	//
	return nil
}

// CompileAll compiles a set of template members concurrently, using at most
// the number of workers permitted by the configuration.  Members share the
// given model, but nothing else.  If any member fails with an error (as
// opposed to diagnostics) then the remaining members are cancelled, and the
// first such error is returned.
func CompileAll(ctx context.Context, model *semantic.Model, members []*ast.Member, cfg Config) (*Batch, error) {
	var (
		batch       = &Batch{uuid.New(), make([]*Compilation, len(members))}
		group, gctx = errgroup.WithContext(ctx)
		stats       = util.NewPerfStats()
	)
	//
	group.SetLimit(cfg.Limit())
	log.Debugf("batch %s: compiling %d member(s) with %d worker(s)", batch.Id, len(members), cfg.Limit())
	//
	for i, member := range members {
		group.Go(func() error {
			var mstats = util.NewPerfStats()
			//
			compilation, err := Compile(gctx, model, member, cfg)
			if err != nil {
				log.Debugf("batch %s: %s failed (%s)", batch.Id, member.Name, err)
				return err
			}
			//
			batch.Compilations[i] = compilation
			mstats.Log("batch %s: %s (%d diagnostic(s))", batch.Id, member.Name, len(compilation.Diagnostics))
			//
			return nil
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	stats.Log("batch %s", batch.Id)
	//
	return batch, nil
}
