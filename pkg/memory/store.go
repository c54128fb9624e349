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

	"github.com/consensys/go-zkmem/pkg/util/collection/set"
)

// Store maintains the set of live segments for a single address space.  Live
// segments are pairwise disjoint, and are indexed by their starting cell such
// that the segment containing any given cell can be found in logarithmic time.
type Store struct {
	// Address space for this store
	space uint32
	// First pointer beyond this address space
	bound uint64
	// Starting cells of all live segments, in order.
	starts *set.SortedSet[uint32]
	// Live segments indexed by their starting cell.
	segments map[uint32]*Segment
}

// NewStore constructs an empty store for a given address space, whose pointers
// are bounded by a given bitwidth.
func NewStore(space uint32, pointerBits uint) *Store {
	return &Store{space, uint64(1) << pointerBits, set.NewSortedSet[uint32](), make(map[uint32]*Segment)}
}

// Space returns the address space of this store.
func (p *Store) Space() uint32 {
	return p.space
}

// Len returns the number of live segments in this store.
func (p *Store) Len() int {
	return len(p.segments)
}

// Exact returns the live segment which coincides exactly with a given range, or
// nil if no such segment exists.
func (p *Store) Exact(start, size uint32) *Segment {
	if seg, ok := p.segments[start]; ok && seg.Size == size {
		return seg
	}
	//
	return nil
}

// Containing returns the live segment covering a given cell, or nil if that
// cell is not covered.
func (p *Store) Containing(pointer uint32) *Segment {
	if start, ok := p.starts.Floor(pointer); ok {
		if seg := p.segments[start]; seg.Contains(pointer, 1) {
			return seg
		}
	}
	//
	return nil
}

// Overlapping returns the live segments which share at least one cell with a
// given range, in ascending order of start.
func (p *Store) Overlapping(start, size uint32) []*Segment {
	var (
		segs []*Segment
		end  = uint64(start) + uint64(size)
	)
	// Check for segment straddling the start
	if seg := p.Containing(start); seg != nil && seg.Start < start {
		segs = append(segs, seg)
	}
	// Check for segments starting within the range
	for _, s := range p.starts.Range(start, clip(end)) {
		segs = append(segs, p.segments[s])
	}
	//
	return segs
}

// Relation determines how a given range of cells relates to the live segments
// of this store.
func (p *Store) Relation(start, size uint32) Relation {
	var (
		segs    = p.Overlapping(start, size)
		end     = uint64(start) + uint64(size)
		covered uint64
	)
	//
	switch {
	case len(segs) == 0:
		return UNCOVERED
	case len(segs) == 1 && segs[0].Start == start && segs[0].Size == size:
		return EXACT
	case len(segs) == 1 && segs[0].Contains(start, size):
		return CONTAINS
	}
	//
	for _, seg := range segs {
		if seg.Start < start || seg.End() > end {
			return FRAGMENTED
		}
		//
		covered += uint64(seg.Size)
	}
	//
	if covered == uint64(size) {
		return CONTAINED
	}
	//
	return FRAGMENTED
}

// Insert a new segment into this store.  This panics if the segment overlaps
// any existing segment, or falls outside the address space, since both
// indicate a failure of the caller to maintain the partition.
func (p *Store) Insert(seg *Segment) {
	if seg.End() > p.bound {
		panic(fmt.Sprintf("segment %s outside address space %d", seg.String(), p.space))
	} else if segs := p.Overlapping(seg.Start, seg.Size); len(segs) != 0 {
		panic(fmt.Sprintf("segment %s overlaps %s in address space %d", seg.String(), segs[0].String(), p.space))
	} else if uint32(len(seg.Data)) != seg.Size {
		panic(fmt.Sprintf("segment %s has inconsistent data", seg.String()))
	}
	//
	p.starts.Insert(seg.Start)
	p.segments[seg.Start] = seg
}

// Remove the segment which coincides exactly with a given range, returning it.
// This panics if no such segment exists.
func (p *Store) Remove(start, size uint32) *Segment {
	seg := p.Exact(start, size)
	//
	if seg == nil {
		panic(fmt.Sprintf("no segment [%d,%d) in address space %d", start, uint64(start)+uint64(size), p.space))
	}
	//
	p.starts.Remove(start)
	delete(p.segments, start)
	//
	return seg
}

// Segments returns all live segments in ascending order of start.
func (p *Store) Segments() []*Segment {
	var segs = make([]*Segment, 0, len(p.segments))
	//
	for _, s := range *p.starts {
		segs = append(segs, p.segments[s])
	}
	//
	return segs
}

// Check that the live segments are pairwise disjoint and well-formed, returning
// an error describing the first violation found (if any).
func (p *Store) Check() error {
	var last *Segment
	//
	if p.starts.Len() != len(p.segments) {
		return fmt.Errorf("index inconsistent (%d starts, %d segments)", p.starts.Len(), len(p.segments))
	}
	//
	for _, s := range *p.starts {
		seg, ok := p.segments[s]
		//
		switch {
		case !ok || seg.Start != s:
			return fmt.Errorf("index inconsistent at %d", s)
		case !isPowerOfTwo(seg.Size) || uint32(len(seg.Data)) != seg.Size:
			return fmt.Errorf("segment %s malformed", seg.String())
		case seg.End() > p.bound:
			return fmt.Errorf("segment %s out of bounds", seg.String())
		case last != nil && last.End() > uint64(seg.Start):
			return fmt.Errorf("segments %s and %s overlap", last.String(), seg.String())
		}
		//
		last = seg
	}
	//
	return nil
}

// Aligned determines whether every live segment starts on a multiple of its own
// size.
func (p *Store) Aligned() bool {
	for _, seg := range p.segments {
		if !seg.Aligned() {
			return false
		}
	}
	//
	return true
}

// Clip a range end into a pointer, noting that an end of exactly 2^32 can only
// arise when the pointer bitwidth is 32 (which the field prevents anyway).
func clip(end uint64) uint32 {
	if end > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	//
	return uint32(end)
}
