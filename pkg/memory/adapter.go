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

	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/timestamp"
	"github.com/consensys/go-zkmem/pkg/util/field"
)

// Determine which chunks overlapping the range [pointer, pointer+size) have
// never been seen, and construct their initial segments.  Nothing is inserted
// into the store at this stage.
func (p *Memory) births(store *Store, pointer, size uint32) ([]*Segment, error) {
	var (
		chunk  = uint64(p.config.Chunk())
		end    = uint64(pointer) + uint64(size)
		births []*Segment
	)
	//
	for c := uint64(pointer) - uint64(pointer)%chunk; c < end; c += chunk {
		// Coverage is always in whole chunks, hence checking the first cell of
		// each chunk is sufficient.
		if store.Containing(uint32(c)) == nil {
			data, err := p.boundary.Birth(store.Space(), uint32(c), uint32(chunk))
			if err != nil {
				return nil, err
			}
			//
			births = append(births, NewSegment(uint32(c), data, timestamp.GENESIS))
		}
	}
	//
	return births, nil
}

// Insert newly born segments into the store.
func (p *Memory) bear(store *Store, births []*Segment) {
	for _, seg := range births {
		store.Insert(seg)
		p.emit(ledger.SEND, ledger.BOUNDARY, store.Space(), seg.Start, seg.Data, seg.Timestamp)
		p.stats.Births++
	}
}

// Reshape the store such that the (fully covered) range [start, start+size) is
// exactly one segment, returning that segment.  The segments straddling either
// end of the range are split down to the boundary.  Then, if the range is not
// already a segment, both halves are materialised and merged.
func (p *Memory) materialize(store *Store, start, size uint32) *Segment {
	p.splitToBoundary(store, start)
	p.splitToBoundary(store, start+size)
	//
	if seg := store.Exact(start, size); seg != nil {
		return seg
	} else if size == 1 {
		panic(fmt.Sprintf("cell (%d,%d) not covered", store.Space(), start))
	}
	//
	var (
		half  = size / 2
		left  = p.materialize(store, start, half)
		right = p.materialize(store, start+half, half)
	)
	//
	return p.merge(store, left, right)
}

// Repeatedly split the segment containing a given cell until that cell begins
// a segment.  This does nothing when the cell is not covered, or already
// begins a segment.
func (p *Memory) splitToBoundary(store *Store, pointer uint32) {
	for seg := store.Containing(pointer); seg != nil && seg.Start != pointer; {
		left, right := p.split(store, seg)
		//
		if pointer < right.Start {
			seg = left
		} else {
			seg = right
		}
	}
}

// Split a live segment into its two halves, both of which inherit its
// timestamp.
func (p *Memory) split(store *Store, seg *Segment) (*Segment, *Segment) {
	var (
		mid, half = seg.Halves()
		left      = NewSegment(seg.Start, copyOf(seg.Data[:half]), seg.Timestamp)
		right     = NewSegment(mid, copyOf(seg.Data[half:]), seg.Timestamp)
		space     = store.Space()
	)
	//
	store.Remove(seg.Start, seg.Size)
	store.Insert(left)
	store.Insert(right)
	//
	p.emit(ledger.RECEIVE, ledger.SPLIT, space, seg.Start, seg.Data, seg.Timestamp)
	p.emit(ledger.SEND, ledger.SPLIT, space, left.Start, left.Data, left.Timestamp)
	p.emit(ledger.SEND, ledger.SPLIT, space, right.Start, right.Data, right.Timestamp)
	p.stats.count(&p.stats.Splits, seg.Size)
	//
	return left, right
}

// Merge two adjacent live segments of equal size.  The merged segment takes
// the later of their timestamps.
func (p *Memory) merge(store *Store, left, right *Segment) *Segment {
	var (
		data  = append(copyOf(left.Data), right.Data...)
		seg   = NewSegment(left.Start, data, max(left.Timestamp, right.Timestamp))
		space = store.Space()
	)
	//
	if left.Size != right.Size || left.End() != uint64(right.Start) {
		panic(fmt.Sprintf("cannot merge %s and %s", left.String(), right.String()))
	}
	//
	store.Remove(left.Start, left.Size)
	store.Remove(right.Start, right.Size)
	store.Insert(seg)
	//
	p.emit(ledger.RECEIVE, ledger.MERGE, space, left.Start, left.Data, left.Timestamp)
	p.emit(ledger.RECEIVE, ledger.MERGE, space, right.Start, right.Data, right.Timestamp)
	p.emit(ledger.SEND, ledger.MERGE, space, seg.Start, seg.Data, seg.Timestamp)
	p.stats.count(&p.stats.Merges, seg.Size)
	//
	return seg
}

// Apply a basic access to a live segment.  The previous contents (and time) are
// received, and the new contents (and time) are sent.
func (p *Memory) apply(store *Store, seg *Segment, op Op, data []field.Element, ts uint32) []field.Element {
	var prev = seg.Data
	//
	p.emit(ledger.RECEIVE, ledger.ACCESS, store.Space(), seg.Start, prev, seg.Timestamp)
	//
	switch op {
	case READ:
		p.stats.count(&p.stats.Reads, seg.Size)
	case WRITE:
		seg.Data = copyOf(data)
		p.stats.count(&p.stats.Writes, seg.Size)
	default:
		panic(fmt.Sprintf("unknown operation %d", op))
	}
	//
	seg.Timestamp = ts
	p.emit(ledger.SEND, ledger.ACCESS, store.Space(), seg.Start, seg.Data, seg.Timestamp)
	//
	return copyOf(prev)
}
