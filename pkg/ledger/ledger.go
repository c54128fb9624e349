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
	"cmp"
	"fmt"
	"slices"

	"github.com/consensys/go-zkmem/pkg/util/collection/hash"
)

// Sink accepts records as they are produced.  Records are never removed once
// appended.
type Sink interface {
	Append(entry Entry)
}

// Ledger is an append-only, in-memory sink which retains every record in the
// order it was appended.
type Ledger struct {
	entries []Entry
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{nil}
}

// Append implementation for the Sink interface.
func (p *Ledger) Append(entry Entry) {
	p.entries = append(p.entries, entry)
}

// Entries returns all records appended to this ledger so far.  The returned
// array should not be modified.
func (p *Ledger) Entries() []Entry {
	return p.entries
}

// Len returns the number of records appended so far.
func (p *Ledger) Len() int {
	return len(p.entries)
}

// Count returns the number of records of a given kind and sign.
func (p *Ledger) Count(kind Kind, sign Sign) int {
	count := 0
	//
	for _, e := range p.entries {
		if e.Kind == kind && e.Sign == sign {
			count++
		}
	}
	//
	return count
}

// Balance computes the multiset difference between sent and received records
// on every bus.  An empty result indicates the ledger is balanced.
func (p *Ledger) Balance() []Imbalance {
	return Balance(p.entries)
}

// Chain returns (in order) every record which touches a given cell.
func (p *Ledger) Chain(space uint32, pointer uint32) []Entry {
	var chain []Entry
	//
	for _, e := range p.entries {
		if e.Covers(space, pointer) {
			chain = append(chain, e)
		}
	}
	//
	return chain
}

// Imbalance describes a record whose sends and receives do not cancel out.  A
// positive count indicates more sends than receives.
type Imbalance struct {
	Key   Key
	Count int
}

func (p Imbalance) String() string {
	return fmt.Sprintf("%s (%+d)", p.Key.String(), p.Count)
}

// Balance computes the multiset difference between sent and received records
// in a given array of records.  The imbalances are returned in a deterministic
// order.
func Balance(entries []Entry) []Imbalance {
	var (
		counts     = hash.NewMap[Key, int](uint(len(entries)))
		imbalances []Imbalance
	)
	//
	for i := range entries {
		key := entries[i].Key()
		count, _ := counts.Get(key)
		counts.Insert(key, count+int(entries[i].Sign))
	}
	//
	counts.ForEach(func(k Key, n int) {
		if n != 0 {
			imbalances = append(imbalances, Imbalance{k, n})
		}
	})
	//
	slices.SortFunc(imbalances, func(l, r Imbalance) int {
		if c := cmp.Compare(l.Key.Bus, r.Key.Bus); c != 0 {
			return c
		} else if c := cmp.Compare(l.Key.Space, r.Key.Space); c != 0 {
			return c
		} else if c := cmp.Compare(l.Key.Start, r.Key.Start); c != 0 {
			return c
		}
		//
		return cmp.Compare(l.Key.Timestamp, r.Key.Timestamp)
	})
	//
	return imbalances
}
