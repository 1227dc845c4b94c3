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
	_ "embed"

	"github.com/consensys/go-stager/pkg/util/source"
)

//go:embed prelude.stg
var prelude []byte

// PRELUDE_FILENAME is the name under which the prelude is reported in
// diagnostics.
const PRELUDE_FILENAME = "<prelude>"

// Prelude returns the source file declaring the types available to every
// template.
func Prelude() *source.File {
	return source.NewSourceFile(PRELUDE_FILENAME, prelude)
}
