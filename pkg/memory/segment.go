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

import (
	"fmt"
	"math/bits"

	"github.com/consensys/go-zkmem/pkg/util/field"
)

// Segment is a contiguous block of cells within a given address space which is
// read, written and timestamped as a single unit.  The size of a segment is
// always a power of two, and its data always has exactly that many elements.
type Segment struct {
	// Start is the first cell covered by this segment.
	Start uint32
	// Size is the number of cells covered by this segment.
	Size uint32
	// Data holds one element for each cell covered by this segment.
	Data []field.Element
	// Timestamp at which this segment was last touched.
	Timestamp uint32
}

// NewSegment constructs a new segment, whose size is determined by the data
// given.
func NewSegment(start uint32, data []field.Element, timestamp uint32) *Segment {
	if !isPowerOfTwo(uint32(len(data))) {
		panic(fmt.Sprintf("invalid segment size %d", len(data)))
	}
	//
	return &Segment{start, uint32(len(data)), data, timestamp}
}

// End returns the first cell after this segment.  This is a uint64 as the end
// may fall just beyond the largest representable pointer.
func (p *Segment) End() uint64 {
	return uint64(p.Start) + uint64(p.Size)
}

// Contains determines whether a given range of cells is covered by this
// segment.
func (p *Segment) Contains(start, size uint32) bool {
	return p.Start <= start && uint64(start)+uint64(size) <= p.End()
}

// Overlaps determines whether a given range of cells shares at least one cell
// with this segment.
func (p *Segment) Overlaps(start, size uint32) bool {
	return uint64(start) < p.End() && uint64(p.Start) < uint64(start)+uint64(size)
}

// Aligned determines whether this segment starts on a multiple of its own size.
func (p *Segment) Aligned() bool {
	return p.Start%p.Size == 0
}

// Halves returns the start of the second half of this segment, and the size of
// each half.
func (p *Segment) Halves() (uint32, uint32) {
	half := p.Size / 2
	return p.Start + half, half
}

// Clone returns a copy of this segment which shares no data with it.
func (p *Segment) Clone() Segment {
	return Segment{p.Start, p.Size, copyOf(p.Data), p.Timestamp}
}

func (p *Segment) String() string {
	return fmt.Sprintf("[%d,%d)%s@%d", p.Start, p.End(), field.Format(p.Data), p.Timestamp)
}

// Relation describes how a range of cells relates to the segments of a store.
type Relation uint8

const (
	// UNCOVERED indicates no cell in the range belongs to any segment.
	UNCOVERED Relation = iota
	// EXACT indicates a single segment coincides exactly with the range.
	EXACT
	// CONTAINS indicates a single (larger) segment covers the entire range.
	CONTAINS
	// CONTAINED indicates the range is tiled exactly by two or more segments,
	// all of which lie within it.
	CONTAINED
	// FRAGMENTED indicates any other situation, such as partial coverage or
	// segments straddling the edges of the range.
	FRAGMENTED
)

func (p Relation) String() string {
	switch p {
	case UNCOVERED:
		return "uncovered"
	case EXACT:
		return "exact"
	case CONTAINS:
		return "contains"
	case CONTAINED:
		return "contained"
	default:
		return "fragmented"
	}
}

func isPowerOfTwo(n uint32) bool {
	return n != 0 && bits.OnesCount32(n) == 1
}

func copyOf(data []field.Element) []field.Element {
	ndata := make([]field.Element, len(data))
	copy(ndata, data)
	//
	return ndata
}
