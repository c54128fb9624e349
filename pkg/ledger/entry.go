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
package ledger

import (
	"fmt"

	"github.com/consensys/go-zkmem/pkg/util/collection/hash"
	"github.com/consensys/go-zkmem/pkg/util/field"
)

// Bus identifies a logical bus on which records are balanced.  Records on
// different buses never cancel each other out.
type Bus uint32

// MEMORY_BUS is the default bus used for all memory records.
const MEMORY_BUS Bus = 1

// Sign determines whether a record is put onto the bus (i.e. sent) or taken
// off the bus (i.e. received).
type Sign int8

const (
	// SEND indicates a record is being put onto the bus.
	SEND Sign = 1
	// RECEIVE indicates a record is being taken off the bus.
	RECEIVE Sign = -1
)

func (p Sign) String() string {
	switch p {
	case SEND:
		return "send"
	case RECEIVE:
		return "receive"
	default:
		return fmt.Sprintf("sign(%d)", int8(p))
	}
}

// Kind identifies the operation which produced a record.  This plays no role in
// balancing, and exists only for reporting.
type Kind uint8

const (
	// BOUNDARY records are produced by the birth and the drain of segments.
	BOUNDARY Kind = iota
	// SPLIT records are produced when a segment is split in two halves.
	SPLIT
	// MERGE records are produced when two adjacent halves are merged.
	MERGE
	// ACCESS records are produced by a basic read or write of a segment.
	ACCESS
)

var kindNames = []string{"boundary", "split", "merge", "access"}

func (p Kind) String() string {
	if int(p) < len(kindNames) {
		return kindNames[p]
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(p))
}

// Entry is a single signed record of the transcript.  It asserts that the
// given data was held at the given address range at the given time.
type Entry struct {
	Bus       Bus
	Sign      Sign
	Kind      Kind
	Space     uint32
	Start     uint32
	Data      []field.Element
	Timestamp uint32
}

// Covers checks whether this entry includes a given cell.
func (p *Entry) Covers(space uint32, pointer uint32) bool {
	return p.Space == space && p.Start <= pointer && uint64(pointer) < uint64(p.Start)+uint64(len(p.Data))
}

// Key returns the balancing key of this entry.  That is, everything except the
// sign and the kind.
func (p *Entry) Key() Key {
	return Key{p.Bus, p.Space, p.Start, p.Data, p.Timestamp}
}

func (p Entry) String() string {
	return fmt.Sprintf("%s %s #%d (%d,%d)=%s@%d", p.Kind, p.Sign, p.Bus, p.Space, p.Start,
		field.Format(p.Data), p.Timestamp)
}

// ============================================================================
// Key
// ============================================================================

var _ hash.Hasher[Key] = Key{}

// Key captures the fields of an entry which must match between a send and
// the corresponding receive.
type Key struct {
	Bus       Bus
	Space     uint32
	Start     uint32
	Data      []field.Element
	Timestamp uint32
}

// Equals implementation for hash.Hasher interface.
func (p Key) Equals(other Key) bool {
	return p.Bus == other.Bus && p.Space == other.Space && p.Start == other.Start &&
		p.Timestamp == other.Timestamp && field.Equal(p.Data, other.Data)
}

// Hash implementation for hash.Hasher interface.
func (p Key) Hash() uint64 {
	h := hash.Seed()
	h = hash.Uint32(h, uint32(p.Bus))
	h = hash.Uint32(h, p.Space)
	h = hash.Uint32(h, p.Start)
	h = hash.Uint32(h, p.Timestamp)
	//
	for _, d := range p.Data {
		h = hash.Uint32(h, field.ToUint32(d))
	}
	//
	return h
}

func (p Key) String() string {
	return fmt.Sprintf("#%d (%d,%d)=%s@%d", p.Bus, p.Space, p.Start, field.Format(p.Data), p.Timestamp)
}
