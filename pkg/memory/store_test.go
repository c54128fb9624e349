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
	"testing"

	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Store_01(t *testing.T) {
	store := newStore(0, 4, 4, 2)
	//
	assert.Equal(t, EXACT, store.Relation(0, 4))
	assert.Equal(t, CONTAINS, store.Relation(0, 2))
	assert.Equal(t, CONTAINS, store.Relation(1, 1))
	assert.Equal(t, EXACT, store.Relation(4, 2))
	assert.Equal(t, CONTAINED, store.Relation(0, 6))
	assert.Equal(t, FRAGMENTED, store.Relation(0, 8))
	assert.Equal(t, FRAGMENTED, store.Relation(2, 4))
	assert.Equal(t, UNCOVERED, store.Relation(8, 4))
	assert.Equal(t, UNCOVERED, store.Relation(6, 2))
}

func Test_Store_02(t *testing.T) {
	store := newStore(0, 4, 4, 2, 16, 8)
	//
	check_Containing(t, store, 0, 0)
	check_Containing(t, store, 3, 0)
	check_Containing(t, store, 5, 4)
	check_Containing(t, store, 23, 16)
	assert.Nil(t, store.Containing(6))
	assert.Nil(t, store.Containing(15))
	assert.Nil(t, store.Containing(24))
}

func Test_Store_03(t *testing.T) {
	store := newStore(0, 4, 4, 2)
	// overlapping
	assert.Panics(t, func() { store.Insert(newSegment(2, 4)) })
	assert.Panics(t, func() { store.Insert(newSegment(5, 1)) })
	// out of bounds
	assert.Panics(t, func() { store.Insert(newSegment(60, 8)) })
	// absent
	assert.Panics(t, func() { store.Remove(0, 2) })
	//
	assert.NoError(t, store.Check())
	assert.Equal(t, 2, store.Len())
}

func Test_Store_04(t *testing.T) {
	store := newStore(0, 4, 4, 2)
	assert.True(t, store.Aligned())
	//
	seg := store.Remove(4, 2)
	assert.Equal(t, uint32(4), seg.Start)
	store.Insert(newSegment(6, 4))
	assert.False(t, store.Aligned())
	assert.NoError(t, store.Check())
	//
	segs := store.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, uint32(0), segs[0].Start)
	assert.Equal(t, uint32(6), segs[1].Start)
}

func Test_Store_05(t *testing.T) {
	store := newStore(0, 1, 2, 2, 4, 4, 8, 8)
	overlaps := store.Overlapping(3, 6)
	//
	require.Len(t, overlaps, 3)
	assert.Equal(t, uint32(2), overlaps[0].Start)
	assert.Equal(t, uint32(4), overlaps[1].Start)
	assert.Equal(t, uint32(8), overlaps[2].Start)
	//
	assert.Empty(t, store.Overlapping(1, 1))
}

// ===================================================================
// Test Helpers
// ===================================================================

// Construct a store over 6 bits from a sequence of (start,size) pairs.
func newStore(pairs ...uint32) *Store {
	store := NewStore(2, 6)
	//
	for i := 0; i < len(pairs); i += 2 {
		store.Insert(newSegment(pairs[i], pairs[i+1]))
	}
	//
	return store
}

func newSegment(start, size uint32) *Segment {
	data := make([]field.Element, size)
	//
	for i := range size {
		data[i] = field.Uint32(start + i)
	}
	//
	return NewSegment(start, data, 0)
}

func check_Containing(t *testing.T, store *Store, pointer uint32, start uint32) {
	seg := store.Containing(pointer)
	//
	if assert.NotNil(t, seg) {
		assert.Equal(t, start, seg.Start)
	}
}
