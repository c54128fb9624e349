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
package memory

import "fmt"

// Stats counts the operations performed by a memory.  Splits and merges are
// counted by the size of the larger segment involved, whilst reads and writes
// are counted by the size of the segment accessed.  Each count corresponds to
// the height of a trace required to prove those operations.
type Stats struct {
	Births uint
	Drains uint
	Splits [NUM_SIZES]uint
	Merges [NUM_SIZES]uint
	Reads  [NUM_SIZES]uint
	Writes [NUM_SIZES]uint
}

// Records returns the total number of records implied by these counts.
func (p *Stats) Records() uint {
	var total = p.Births + p.Drains
	//
	for i := range NUM_SIZES {
		total += 3*p.Splits[i] + 3*p.Merges[i] + 2*p.Reads[i] + 2*p.Writes[i]
	}
	//
	return total
}

// Rows returns one row for each block size, with the columns: size; splits;
// merges; reads; writes.  Sizes with no operations are omitted.
func (p *Stats) Rows() [][]string {
	var rows [][]string
	//
	for i, size := range SIZES {
		if p.Splits[i]+p.Merges[i]+p.Reads[i]+p.Writes[i] != 0 {
			rows = append(rows, []string{fmt.Sprintf("%d", size), fmt.Sprintf("%d", p.Splits[i]),
				fmt.Sprintf("%d", p.Merges[i]), fmt.Sprintf("%d", p.Reads[i]), fmt.Sprintf("%d", p.Writes[i])})
		}
	}
	//
	return rows
}

func (p *Stats) count(counts *[NUM_SIZES]uint, size uint32) {
	class, ok := sizeClass(size)
	//
	if !ok {
		panic(fmt.Sprintf("unsupported block size %d", size))
	}
	//
	counts[class]++
}
