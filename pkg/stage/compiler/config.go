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
	"runtime"

	"github.com/consensys/go-stager/pkg/stage/expand"
)

// Config determines how templates are compiled and expanded.
type Config struct {
	// Maximum number of members compiled concurrently.  Zero means one per
	// available processor.
	Parallelism uint
	// Whether the prelude is loaded alongside the given source files.
	Prelude bool
	// Whether dynamic expressions are rejected outright.
	Strict bool
	// Maximum number of evaluation steps of an expansion, or zero for no
	// limit.
	StepLimit uint
}

// DefaultConfig returns the configuration used in the absence of any options.
func DefaultConfig() Config {
	return Config{0, true, false, expand.DEFAULT_STEP_LIMIT}
}

// WithParallelism bounds the number of members compiled concurrently.
func (p Config) WithParallelism(n uint) Config {
	p.Parallelism = n
	return p
}

// WithPrelude determines whether or not the prelude is loaded.
func (p Config) WithPrelude(prelude bool) Config {
	p.Prelude = prelude
	return p
}

// WithStrict determines whether or not dynamic expressions are rejected.
func (p Config) WithStrict(strict bool) Config {
	p.Strict = strict
	return p
}

// WithStepLimit bounds the number of evaluation steps of an expansion.
func (p Config) WithStepLimit(limit uint) Config {
	p.StepLimit = limit
	return p
}

// Limit returns the number of members which may be compiled concurrently.
func (p Config) Limit() int {
	if p.Parallelism == 0 {
		return runtime.GOMAXPROCS(0)
	}
	//
	return int(p.Parallelism)
}
