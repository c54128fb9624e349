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
	"fmt"
	"testing"

	"github.com/consensys/go-zkmem/pkg/util"
)

func Test_SortedSet_00(t *testing.T) {
	check_SortedSet_Insert(t, 5, 10)
	check_SortedSet_Remove(t, 5, 10)
	check_SortedSet_Floor(t, 5, 10)
}

func Test_SortedSet_01(t *testing.T) {
	// Really hammer it.
	for i := 0; i < 1000; i++ {
		t.Run(fmt.Sprintf("i=%d", i), func(t *testing.T) {
			check_SortedSet_Insert(t, 10, 32)
			check_SortedSet_Remove(t, 10, 32)
			check_SortedSet_Floor(t, 10, 32)
		})
	}
}

func Test_SortedSet_02(t *testing.T) {
	check_SortedSet_Insert(t, 100, 32)
	check_SortedSet_Remove(t, 100, 32)
	check_SortedSet_Floor(t, 50, 32)
}

func Test_SortedSet_03(t *testing.T) {
	check_SortedSet_Insert(t, 1000, 64)
	check_SortedSet_Remove(t, 1000, 64)
	check_SortedSet_Floor(t, 500, 64)
}

func Test_SortedSet_04(t *testing.T) {
	set := toSortedSet([]uint{8, 2, 4, 6})
	//
	if items := set.Range(3, 7); len(items) != 2 || items[0] != 4 || items[1] != 6 {
		t.Errorf("unexpected range %v", items)
	}
	//
	if items := set.Range(9, 20); len(items) != 0 {
		t.Errorf("unexpected range %v", items)
	}
	//
	if !set.Insert(5) || set.Insert(5) || set.Len() != 5 {
		t.Errorf("unexpected insertion behaviour")
	}
}

func TestSlow_SortedSet_05(t *testing.T) {
	check_SortedSet_Insert(t, 100000, 4096)
	check_SortedSet_Remove(t, 50000, 4096)
}

// ===================================================================
// Test Helpers
// ===================================================================

func array_contains(items []uint, element uint) bool {
	for _, e := range items {
		if e == element {
			return true
		}
	}
	// Not present
	return false
}

func check_SortedSet_Insert(t *testing.T, n uint, m uint) {
	items := util.GenerateRandomInputs(n, m)
	aset := toSortedSet(items)

	for i := uint(0); i < m; i++ {
		l := array_contains(items, i)
		r := aset.Contains(i)
		// Check set
		if !l && r {
			t.Errorf("unexpected item %d", i)
		} else if l && !r {
			t.Errorf("missing item %d", i)
		}
	}
	// Check sortedness
	for i := 1; i < aset.Len(); i++ {
		if (*aset)[i-1] >= (*aset)[i] {
			t.Errorf("unsorted items %v", *aset)
		}
	}
}

func check_SortedSet_Remove(t *testing.T, n uint, m uint) {
	items := util.GenerateRandomInputs(n, m)
	removed := util.GenerateRandomInputs(n/2, m)
	aset := toSortedSet(items)
	//
	for _, v := range removed {
		aset.Remove(v)
	}
	//
	for i := uint(0); i < m; i++ {
		l := array_contains(items, i) && !array_contains(removed, i)
		r := aset.Contains(i)
		// Check set
		if !l && r {
			t.Errorf("unexpected item %d", i)
		} else if l && !r {
			t.Errorf("missing item %d", i)
		}
	}
}

func check_SortedSet_Floor(t *testing.T, n uint, m uint) {
	items := util.GenerateRandomInputs(n, m)
	aset := toSortedSet(items)
	//
	for i := uint(0); i < m; i++ {
		var (
			expected, found = uint(0), false
		)
		// Determine expected floor by brute force
		for _, v := range items {
			if v <= i && (!found || v > expected) {
				expected, found = v, true
			}
		}
		//
		actual, ok := aset.Floor(i)
		if ok != found || (found && actual != expected) {
			t.Errorf("floor(%d) = %d/%t, expected %d/%t", i, actual, ok, expected, found)
		}
	}
}

func toSortedSet(items []uint) *SortedSet[uint] {
	set := NewSortedSet[uint]()
	for _, v := range items {
		set.Insert(v)
	}

	return set
}
