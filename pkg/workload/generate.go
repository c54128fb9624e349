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
package workload

import (
	"fmt"

	"github.com/consensys/go-zkmem/pkg/util"
)

// GenConfig determines the shape of randomly generated workloads.
type GenConfig struct {
	// Number of accesses to generate
	Accesses uint
	// Number of (mutable) address spaces to use, starting from 1
	Spaces uint
	// Bitwidth of pointers
	PointerBits uint
	// Largest access size (as a power of two)
	MaxSizeBits uint
	// Chunk size for the memory
	Chunk uint32
	// Whether or not accesses should be aligned to their size
	Aligned bool
}

// Validate checks this configuration can generate workloads.
func (p *GenConfig) Validate() error {
	switch {
	case p.Spaces == 0:
		return fmt.Errorf("at least one address space required")
	case p.MaxSizeBits > p.PointerBits:
		return fmt.Errorf("access size 2^%d exceeds pointer range 2^%d", p.MaxSizeBits, p.PointerBits)
	case p.PointerBits > 30:
		return fmt.Errorf("pointer bitwidth %d too large", p.PointerBits)
	}
	//
	return nil
}

// Generate a random workload over a volatile memory.  Every read is annotated
// with the data it is expected to return, and hence generated workloads are
// self-checking.
func Generate(config GenConfig) *Workload {
	var (
		workload = &Workload{Chunk: config.Chunk, Accesses: make([]Access, config.Accesses)}
		shadow   = make(map[[2]uint32]uint32)
		spaces   = util.GenerateRandomInputs(config.Accesses, config.Spaces)
		sizes    = util.GenerateRandomPowers(config.Accesses, config.MaxSizeBits)
		ops      = util.GenerateRandomInputs(config.Accesses, 2)
	)
	//
	for i := range config.Accesses {
		var (
			space   = uint32(spaces[i]) + 1
			size    = sizes[i]
			pointer = util.GenerateRandomPointer(size, config.PointerBits, config.Aligned)
			access  = Access{Space: space, Pointer: pointer}
		)
		//
		if ops[i] == 0 {
			access.Op, access.Size = "read", size
			access.Expect = make([]uint32, size)
			//
			for j := range size {
				access.Expect[j] = shadow[[2]uint32{space, pointer + j}]
			}
		} else {
			access.Op = "write"
			//
			for j, v := range util.GenerateRandomInputs(uint(size), 1<<16) {
				access.Data = append(access.Data, uint32(v))
				shadow[[2]uint32{space, pointer + uint32(j)}] = uint32(v)
			}
		}
		//
		workload.Accesses[i] = access
	}
	//
	return workload
}
