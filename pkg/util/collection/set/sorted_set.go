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
package set

import (
	"cmp"
	"slices"
	"sort"
)

// SortedSet is an array of unique sorted values (i.e. no duplicates).
type SortedSet[T cmp.Ordered] []T

// NewSortedSet returns an empty sorted set.
func NewSortedSet[T cmp.Ordered]() *SortedSet[T] {
	return &SortedSet[T]{}
}

// Len returns the number of elements in this set.
func (p *SortedSet[T]) Len() int {
	return len(*p)
}

// Contains returns true if a given element is in the set.
//
//nolint:revive
func (p *SortedSet[T]) Contains(element T) bool {
	data := *p
	// Find index where element either does occur, or should occur.
	i := p.search(element)
	// Check whether item existed or not.
	return i < len(data) && data[i] == element
}

// Insert an element into this sorted set, returning false if it was already
// present.
//
//nolint:revive
func (p *SortedSet[T]) Insert(element T) bool {
	data := *p
	// Find index where element either does occur, or should occur.
	i := p.search(element)
	// Check whether item existed or not.
	if i < len(data) && data[i] == element {
		return false
	}
	// No, item was not found
	*p = slices.Insert(data, i, element)
	//
	return true
}

// Remove an element from this sorted set, returning false if it was not
// present.
//
//nolint:revive
func (p *SortedSet[T]) Remove(element T) bool {
	data := *p
	// Find index where element either does occur, or should occur.
	i := p.search(element)
	// Check whether item existed or not.
	if i >= len(data) || data[i] != element {
		return false
	}
	//
	*p = slices.Delete(data, i, i+1)
	//
	return true
}

// Floor returns the largest element in this set which is less than or equal to
// the given element.  If no such element exists, false is returned.
func (p *SortedSet[T]) Floor(element T) (T, bool) {
	var (
		data  = *p
		empty T
		i     = p.search(element)
	)
	//
	if i < len(data) && data[i] == element {
		return element, true
	} else if i == 0 {
		return empty, false
	}
	//
	return data[i-1], true
}

// Ceiling returns the smallest element in this set which is greater than or
// equal to the given element.  If no such element exists, false is returned.
func (p *SortedSet[T]) Ceiling(element T) (T, bool) {
	var (
		data  = *p
		empty T
		i     = p.search(element)
	)
	//
	if i < len(data) {
		return data[i], true
	}
	//
	return empty, false
}

// Range returns all elements in the half-open interval [lo, hi).
func (p *SortedSet[T]) Range(lo T, hi T) []T {
	var (
		data = *p
		i    = p.search(lo)
		j    = p.search(hi)
	)
	//
	return data[i:j]
}

// Find index where element either does occur, or should occur.
func (p *SortedSet[T]) search(element T) int {
	data := *p
	//
	return sort.Search(len(data), func(i int) bool {
		return element <= data[i]
	})
}
