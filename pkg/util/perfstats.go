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
package util

import (
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats is a snapshot of the clock and the memory allocator, taken at the
// start of some piece of work.
type PerfStats struct {
	start time.Time
	// Bytes allocated so far
	alloc uint64
	// Garbage collections so far
	gcs uint32
}

// NewPerfStats takes a snapshot now.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Elapsed returns the time passed since the snapshot was taken.
func (p *PerfStats) Elapsed() time.Duration {
	return time.Since(p.start)
}

// Log reports, at debug level, the time and memory used since the snapshot was
// taken.  The format and arguments describe the work done.
func (p *PerfStats) Log(format string, args ...any) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	//
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	log.Debugf("%s took %s using %d KiB (%d GC events)", fmt.Sprintf(format, args...),
		p.Elapsed().Round(time.Microsecond), (m.TotalAlloc-p.alloc)/1024, m.NumGC-p.gcs)
}
