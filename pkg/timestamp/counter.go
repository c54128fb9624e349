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
package timestamp

import (
	"errors"
	"fmt"
)

// GENESIS is the timestamp at which every segment is born.  No access can ever
// be made at this time.
const GENESIS uint32 = 0

// ErrExhausted is returned when a source has no more timestamps to give out.
var ErrExhausted = errors.New("timestamps exhausted")

// Source supplies timestamps which are strictly increasing across calls.
type Source interface {
	// Next returns the next timestamp, or ErrExhausted.
	Next() (uint32, error)
}

// Counter is a simple Source which counts up from one, and which is bounded by
// a given number of bits.
type Counter struct {
	current uint32
	limit   uint64
}

// NewCounter constructs a counter whose timestamps are all strictly less than
// 2^bits.
func NewCounter(bits uint) *Counter {
	if bits == 0 || bits > 32 {
		panic(fmt.Sprintf("invalid timestamp bitwidth %d", bits))
	}
	//
	return &Counter{GENESIS, uint64(1) << bits}
}

// Next implementation for Source interface.
func (p *Counter) Next() (uint32, error) {
	if uint64(p.current)+1 >= p.limit {
		return 0, fmt.Errorf("%w (limit 2^%d)", ErrExhausted, bitsOf(p.limit))
	}
	//
	p.current++
	//
	return p.current, nil
}

// Current returns the last timestamp given out, or GENESIS if none has been.
func (p *Counter) Current() uint32 {
	return p.current
}

// Advance moves this counter forward such that the next timestamp given out is
// strictly greater than the given timestamp.  Counters never move backwards, so
// advancing to an earlier time has no effect.
func (p *Counter) Advance(timestamp uint32) {
	p.current = max(p.current, timestamp)
}

func bitsOf(limit uint64) uint {
	n := uint(0)
	//
	for limit > 1 {
		limit >>= 1
		n++
	}
	//
	return n
}
