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
	"encoding/json"
	"fmt"

	"github.com/consensys/go-zkmem/pkg/memory"
)

// Workload is a sequence of accesses to be replayed against a memory.
type Workload struct {
	// Chunk optionally overrides the minimum block size of the memory.
	Chunk uint32 `json:"chunk,omitempty"`
	// Mode optionally overrides the mode of the memory.
	Mode     string   `json:"mode,omitempty"`
	Accesses []Access `json:"accesses"`
}

// Access is a single access within a workload.  Reads can optionally specify
// the data expected, whilst any access can specify the fault expected.
type Access struct {
	Op      string   `json:"op"`
	Space   uint32   `json:"space"`
	Pointer uint32   `json:"pointer"`
	Size    uint32   `json:"size,omitempty"`
	Data    []uint32 `json:"data,omitempty"`
	Expect  []uint32 `json:"expect,omitempty"`
	Fault   string   `json:"fault,omitempty"`
	// Timestamp optionally overrides the timestamp of this access.
	Timestamp *uint32 `json:"timestamp,omitempty"`
}

var faultNames = map[string]error{
	"OutOfRange":            memory.ErrOutOfRange,
	"UnsupportedSize":       memory.ErrUnsupportedSize,
	"NonMonotonicTimestamp": memory.ErrNonMonotonicTimestamp,
	"ImageMiss":             memory.ErrImageMiss,
	"Finalized":             memory.ErrFinalized,
}

// FaultKind returns the kind of fault with a given name (e.g. "OutOfRange").
func FaultKind(name string) (error, bool) {
	kind, ok := faultNames[name]
	//
	return kind, ok
}

// Parse a workload from its JSON representation.
func Parse(bytes []byte) (*Workload, error) {
	var workload Workload
	//
	if err := json.Unmarshal(bytes, &workload); err != nil {
		return nil, fmt.Errorf("invalid workload: %w", err)
	} else if workload.Mode != "" {
		if _, err := memory.ParseMode(workload.Mode); err != nil {
			return nil, err
		}
	}
	//
	for i, access := range workload.Accesses {
		if err := access.validate(); err != nil {
			return nil, fmt.Errorf("access %d: %w", i, err)
		}
	}
	//
	return &workload, nil
}

// ToJSON returns the JSON representation of this workload.
func (p *Workload) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Operation returns the kind of this access.
func (p *Access) Operation() memory.Op {
	if p.Op == "write" {
		return memory.WRITE
	}
	//
	return memory.READ
}

// Length returns the number of cells accessed.  For writes, this is determined
// by the data (unless the size is given explicitly).
func (p *Access) Length() uint32 {
	if p.Size == 0 && p.Op == "write" {
		return uint32(len(p.Data))
	}
	//
	return p.Size
}

func (p *Access) validate() error {
	switch {
	case p.Op != "read" && p.Op != "write":
		return fmt.Errorf("unknown operation \"%s\"", p.Op)
	case p.Op == "read" && p.Size == 0:
		return fmt.Errorf("read requires a size")
	case p.Op == "read" && len(p.Data) != 0:
		return fmt.Errorf("read cannot have data")
	case p.Op == "write" && len(p.Expect) != 0:
		return fmt.Errorf("write cannot have expected data")
	case p.Fault != "":
		if _, ok := FaultKind(p.Fault); !ok {
			return fmt.Errorf("unknown fault \"%s\"", p.Fault)
		}
	}
	//
	return nil
}
