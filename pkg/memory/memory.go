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
	"errors"
	"fmt"
	"slices"

	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/timestamp"
	"github.com/consensys/go-zkmem/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// IMMEDIATE is the read-only address space in which every cell holds its own
// pointer.  Accesses to this space are never recorded.
const IMMEDIATE uint32 = 0

// Op identifies the kind of an access.
type Op uint8

const (
	// READ leaves the segment's data unchanged.
	READ Op = iota
	// WRITE replaces the segment's data.
	WRITE
)

func (p Op) String() string {
	if p == READ {
		return "read"
	}
	//
	return "write"
}

// Memory is a collection of address spaces, each partitioned into segments.
// Every access reshapes the relevant address space such that the range being
// accessed is exactly one segment, and every reshaping (as well as the access
// itself) is reported as balanced records to a sink.  A Memory is not safe for
// concurrent use.
type Memory struct {
	config   Config
	boundary Boundary
	sink     ledger.Sink
	// Live segments for each address space touched so far.
	stores map[uint32]*Store
	// Address spaces which have been drained.
	finalized map[uint32]bool
	// Set once every address space has been drained.
	closed bool
	// Timestamp of the most recent access.
	last  uint32
	stats Stats
}

// NewMemory constructs an empty memory with a given configuration, whose
// segments are born (and drained) by a given boundary, and whose records are
// reported to a given sink.
func NewMemory(config Config, boundary Boundary, sink ledger.Sink) (*Memory, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	} else if boundary.Mode() != config.Mode {
		return nil, fmt.Errorf("%s boundary for %s memory", boundary.Mode(), config.Mode)
	}
	//
	return &Memory{
		config:    config,
		boundary:  boundary,
		sink:      sink,
		stores:    make(map[uint32]*Store),
		finalized: make(map[uint32]bool),
		last:      timestamp.GENESIS,
	}, nil
}

// Config returns the configuration of this memory.
func (p *Memory) Config() Config {
	return p.config
}

// Last returns the timestamp of the most recent access, or the genesis
// timestamp if there have been none.
func (p *Memory) Last() uint32 {
	return p.last
}

// Stats returns the number of operations of each kind performed so far.
func (p *Memory) Stats() Stats {
	return p.stats
}

// SetInitialImage supplies the image from which a persistent memory is born.
// This can only be done before the first access.
func (p *Memory) SetInitialImage(image ImageLoader) error {
	boundary, ok := p.boundary.(interface{ SetImage(ImageLoader) })
	//
	switch {
	case p.config.Mode != PERSISTENT:
		return fmt.Errorf("initial image not supported by %s memory", p.config.Mode)
	case p.last != timestamp.GENESIS:
		return fmt.Errorf("initial image supplied after first access (time %d)", p.last)
	case !ok:
		return errors.New("initial image not supported by boundary")
	}
	//
	boundary.SetImage(image)
	//
	return nil
}

// Read the segment [pointer, pointer+size) at a given time.
func (p *Memory) Read(space, pointer, size uint32, timestamp uint32) ([]field.Element, error) {
	return p.Access(space, pointer, size, READ, nil, timestamp)
}

// Write a segment starting at a given pointer at a given time, returning its
// previous contents.
func (p *Memory) Write(space, pointer uint32, data []field.Element, timestamp uint32) ([]field.Element, error) {
	return p.Access(space, pointer, uint32(len(data)), WRITE, data, timestamp)
}

// ReadCell reads a single cell at a given time.
func (p *Memory) ReadCell(space, pointer uint32, timestamp uint32) (field.Element, error) {
	data, err := p.Read(space, pointer, 1, timestamp)
	if err != nil {
		return field.Zero(), err
	}
	//
	return data[0], nil
}

// WriteCell writes a single cell at a given time, returning its previous value.
func (p *Memory) WriteCell(space, pointer uint32, value field.Element, timestamp uint32) (field.Element, error) {
	data, err := p.Write(space, pointer, []field.Element{value}, timestamp)
	if err != nil {
		return field.Zero(), err
	}
	//
	return data[0], nil
}

// Access the segment [pointer, pointer+size) of a given address space at a
// given time.  A read returns the segment's data, whilst a write returns the
// data it replaced.  Any fault is detected before the memory is changed.
func (p *Memory) Access(space, pointer, size uint32, op Op, data []field.Element,
	timestamp uint32) ([]field.Element, error) {
	//
	if err := p.validate(space, pointer, size, op, data, timestamp); err != nil {
		return nil, err
	} else if space == IMMEDIATE {
		p.last = timestamp
		return []field.Element{field.Uint32(pointer)}, nil
	}
	//
	var (
		store  = p.store(space)
		births []*Segment
		err    error
	)
	// Determine births first, since these can fail.  A fully covered range
	// has nothing to be born.
	switch store.Relation(pointer, size) {
	case EXACT, CONTAINS, CONTAINED:
	default:
		births, err = p.births(store, pointer, size)
	}
	//
	if err != nil {
		var fault *Fault
		if errors.As(err, &fault) {
			fault.Size, fault.Timestamp = size, timestamp
		}
		//
		return nil, err
	}
	// Point of no return
	p.last = timestamp
	p.bear(store, births)
	//
	segment := p.materialize(store, pointer, size)
	//
	return p.apply(store, segment, op, data, timestamp), nil
}

// Peek returns the current value of a given cell without recording anything.
// Cells never accessed have the value they would be born with.
func (p *Memory) Peek(space, pointer uint32) (field.Element, error) {
	switch {
	case space == IMMEDIATE:
		return field.Uint32(pointer), nil
	case uint64(space) >= uint64(1)<<p.config.AddrSpaceMaxBits:
		return field.Zero(), newFault(ErrOutOfRange, space, pointer, 1, p.last, "unconfigured address space")
	case uint64(pointer) >= uint64(1)<<p.config.PointerMaxBits:
		return field.Zero(), newFault(ErrOutOfRange, space, pointer, 1, p.last, "pointer exceeds 2^%d",
			p.config.PointerMaxBits)
	case p.closed || p.finalized[space]:
		return field.Zero(), newFault(ErrFinalized, space, pointer, 1, p.last, "address space already finalized")
	}
	//
	if store, ok := p.stores[space]; ok {
		if seg := store.Containing(pointer); seg != nil {
			return seg.Data[pointer-seg.Start], nil
		}
	}
	//
	// Births are whole chunks, so the entire chunk must be available.
	var (
		chunk = p.config.Chunk()
		start = pointer - pointer%chunk
	)
	//
	data, err := p.boundary.Birth(space, start, chunk)
	if err != nil {
		return field.Zero(), err
	}
	//
	return data[pointer-start], nil
}

// Segments returns a copy of the live segments of a given address space, in
// ascending order of start.
func (p *Memory) Segments(space uint32) []Segment {
	var segments []Segment
	//
	if store, ok := p.stores[space]; ok {
		for _, seg := range store.Segments() {
			segments = append(segments, seg.Clone())
		}
	}
	//
	return segments
}

// Check that every address space is properly partitioned.
func (p *Memory) Check() error {
	for space, store := range p.stores {
		if err := store.Check(); err != nil {
			return fmt.Errorf("address space %d: %w", space, err)
		}
	}
	//
	return nil
}

// Finalize drains every live segment of a given address space, returning the
// drain records.  When the boundary requires it, the address space is first
// reshaped into chunks (which is reported to the sink but not returned).  An
// address space can be finalized at most once, and cannot be accessed
// afterwards.
func (p *Memory) Finalize(space uint32) ([]ledger.Entry, error) {
	switch {
	case space == IMMEDIATE || uint64(space) >= uint64(1)<<p.config.AddrSpaceMaxBits:
		return nil, newFault(ErrOutOfRange, space, 0, 0, p.last, "address space cannot be finalized")
	case p.closed || p.finalized[space]:
		return nil, newFault(ErrFinalized, space, 0, 0, p.last, "address space already finalized")
	}
	//
	var (
		store   = p.store(space)
		chunk   = p.config.Chunk()
		entries []ledger.Entry
	)
	//
	if p.boundary.Equipartition() {
		for _, start := range chunksOf(store, chunk) {
			p.materialize(store, start, chunk)
		}
	}
	//
	segments := store.Segments()
	//
	if err := p.boundary.Drained(space, chunk, segments); err != nil {
		return nil, err
	}
	//
	for _, seg := range segments {
		store.Remove(seg.Start, seg.Size)
		entries = append(entries, p.emit(ledger.RECEIVE, ledger.BOUNDARY, space, seg.Start, seg.Data, seg.Timestamp))
		p.stats.Drains++
	}
	//
	p.finalized[space] = true
	delete(p.stores, space)
	//
	log.Debugf("drained address space %d (%d segments)", space, len(segments))
	//
	return entries, nil
}

// FinalizeAll drains every address space which has not yet been finalized,
// returning the drain records.  No further accesses are permitted afterwards.
func (p *Memory) FinalizeAll() ([]ledger.Entry, error) {
	var (
		spaces  []uint32
		entries []ledger.Entry
	)
	//
	if p.closed {
		return nil, newFault(ErrFinalized, 0, 0, 0, p.last, "memory already finalized")
	}
	//
	for space := range p.stores {
		spaces = append(spaces, space)
	}
	//
	slices.Sort(spaces)
	//
	for _, space := range spaces {
		drained, err := p.Finalize(space)
		if err != nil {
			return nil, err
		}
		//
		entries = append(entries, drained...)
	}
	//
	p.closed = true
	//
	return entries, nil
}

// Check an access is permitted, without changing anything.
func (p *Memory) validate(space, pointer, size uint32, op Op, data []field.Element, ts uint32) error {
	var (
		immediate = space == IMMEDIATE
		end       = uint64(pointer) + uint64(size)
	)
	//
	switch {
	case p.closed || p.finalized[space]:
		return newFault(ErrFinalized, space, pointer, size, ts, "address space already finalized")
	case immediate && op == WRITE:
		return newFault(ErrOutOfRange, space, pointer, size, ts, "immediate address space is read-only")
	case immediate && size != 1:
		return newFault(ErrUnsupportedSize, space, pointer, size, ts, "immediates are read one at a time")
	case !immediate && uint64(space) >= uint64(1)<<p.config.AddrSpaceMaxBits:
		return newFault(ErrOutOfRange, space, pointer, size, ts, "unconfigured address space")
	case !immediate && (!supportedSize(size) || size > p.config.MaxBlockSize):
		return newFault(ErrUnsupportedSize, space, pointer, size, ts, "maximum block size is %d",
			p.config.MaxBlockSize)
	case op == WRITE && uint32(len(data)) != size:
		return newFault(ErrUnsupportedSize, space, pointer, size, ts, "expected %d elements, got %d", size, len(data))
	case !immediate && end > uint64(1)<<p.config.PointerMaxBits:
		return newFault(ErrOutOfRange, space, pointer, size, ts, "pointer exceeds 2^%d", p.config.PointerMaxBits)
	case uint64(ts) >= uint64(1)<<p.config.TimestampMaxBits:
		return newFault(ErrOutOfRange, space, pointer, size, ts, "timestamp exceeds 2^%d", p.config.TimestampMaxBits)
	case ts <= p.last:
		return newFault(ErrNonMonotonicTimestamp, space, pointer, size, ts, "previous access at time %d", p.last)
	case immediate:
		return nil
	}
	// Check against segments being accessed
	if store, ok := p.stores[space]; ok {
		for _, seg := range store.Overlapping(pointer, size) {
			if seg.Timestamp >= ts {
				return newFault(ErrNonMonotonicTimestamp, space, pointer, size, ts, "segment %s already at time %d",
					seg.String(), seg.Timestamp)
			}
		}
	}
	//
	return nil
}

func (p *Memory) store(space uint32) *Store {
	store, ok := p.stores[space]
	//
	if !ok {
		store = NewStore(space, p.config.PointerMaxBits)
		p.stores[space] = store
	}
	//
	return store
}

// Emit a record to the sink, returning it.
func (p *Memory) emit(sign ledger.Sign, kind ledger.Kind, space, start uint32, data []field.Element,
	ts uint32) ledger.Entry {
	entry := ledger.Entry{
		Bus:       p.config.Bus,
		Sign:      sign,
		Kind:      kind,
		Space:     space,
		Start:     start,
		Data:      copyOf(data),
		Timestamp: ts,
	}
	//
	p.sink.Append(entry)
	//
	return entry
}

// Determine the start of every chunk covered by at least one live segment, in
// ascending order.
func chunksOf(store *Store, chunk uint32) []uint32 {
	var starts []uint32
	//
	for _, seg := range store.Segments() {
		for c := uint64(seg.Start - seg.Start%chunk); c < seg.End(); c += uint64(chunk) {
			if n := len(starts); n == 0 || starts[n-1] < uint32(c) {
				starts = append(starts, uint32(c))
			}
		}
	}
	//
	return starts
}
