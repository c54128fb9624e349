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

	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/util"
	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Random_01(t *testing.T) {
	check_RandomAccesses(t, VOLATILE, 1, 200, true)
}

func Test_Random_02(t *testing.T) {
	check_RandomAccesses(t, VOLATILE, 1, 200, false)
}

func Test_Random_03(t *testing.T) {
	check_RandomAccesses(t, VOLATILE, 4, 200, true)
}

func Test_Random_04(t *testing.T) {
	check_RandomAccesses(t, VOLATILE, 8, 200, false)
}

func Test_Random_05(t *testing.T) {
	check_RandomAccesses(t, PERSISTENT, 1, 200, true)
}

func Test_Random_06(t *testing.T) {
	check_RandomAccesses(t, PERSISTENT, 4, 200, false)
}

func TestSlow_Random_07(t *testing.T) {
	check_RandomAccesses(t, VOLATILE, 2, 5000, false)
}

func TestSlow_Random_08(t *testing.T) {
	check_RandomAccesses(t, PERSISTENT, 8, 5000, false)
}

// ===================================================================
// Test Helpers
// ===================================================================

// Initial value of every cell in a persistent memory under test.
const persistentDefault = 7

// Perform n random accesses over three address spaces, checking every read
// against a shadow memory and checking the memory remains partitioned after
// every access.  Finally, check the transcript balances and that every cell has
// a complete timestamp chain.
func check_RandomAccesses(t *testing.T, mode Mode, chunk uint32, n uint, aligned bool) {
	var (
		config   = testConfig(mode, chunk)
		trace    = ledger.NewLedger()
		boundary = NewBoundary(mode)
		initial  = uint32(0)
		shadow   = make(map[[2]uint32]uint32)
		spaces   = util.GenerateRandomInputs(n, 3)
		sizes    = util.GenerateRandomPowers(n, 4)
		ops      = util.GenerateRandomInputs(n, 2)
	)
	//
	if persistent, ok := boundary.(*Persistent); ok {
		persistent.SetDefault(field.Uint32(persistentDefault))
		initial = persistentDefault
	}
	//
	mem, err := NewMemory(config, boundary, trace)
	require.NoError(t, err)
	//
	for i := range n {
		var (
			space   = uint32(spaces[i]) + 1
			size    = sizes[i]
			pointer = util.GenerateRandomPointer(size, config.PointerMaxBits, aligned)
			ts      = uint32(i) + 1
		)
		// Determine expected contents
		expected := make([]uint32, size)
		//
		for j := range size {
			if v, ok := shadow[[2]uint32{space, pointer + j}]; ok {
				expected[j] = v
			} else {
				expected[j] = initial
			}
		}
		//
		if ops[i] == 0 {
			data, err := mem.Read(space, pointer, size, ts)
			require.NoError(t, err)
			assert.Equal(t, expected, field.ToUint32s(data), "reading (%d,%d) size %d", space, pointer, size)
		} else {
			values := randomValues(size)
			prev, err := mem.Write(space, pointer, field.Elements(values...), ts)
			require.NoError(t, err)
			assert.Equal(t, expected, field.ToUint32s(prev), "writing (%d,%d) size %d", space, pointer, size)
			//
			for j, v := range values {
				shadow[[2]uint32{space, pointer + uint32(j)}] = v
			}
		}
		//
		require.NoError(t, mem.Check())
		//
		if aligned {
			check_Aligned(t, mem, space)
		}
	}
	//
	_, err = mem.FinalizeAll()
	require.NoError(t, err)
	require.Empty(t, trace.Balance())
	//
	for space := uint32(1); space <= 3; space++ {
		for pointer := range uint32(1) << config.PointerMaxBits {
			chain := trace.Chain(space, pointer)
			//
			if len(chain) > 0 {
				require.NoError(t, ledger.CheckChain(space, pointer, chain, true))
				assert.Equal(t, 1, countDrains(chain), "drains of (%d,%d)", space, pointer)
			}
		}
	}
}

func check_Aligned(t *testing.T, mem *Memory, space uint32) {
	for _, seg := range mem.Segments(space) {
		require.True(t, seg.Aligned(), "segment %s not aligned", seg.String())
	}
}

func countDrains(chain []ledger.Entry) int {
	count := 0
	//
	for _, e := range chain {
		if e.Kind == ledger.BOUNDARY && e.Sign == ledger.RECEIVE {
			count++
		}
	}
	//
	return count
}

func randomValues(n uint32) []uint32 {
	var values = make([]uint32, n)
	//
	for i, v := range util.GenerateRandomInputs(uint(n), 1<<20) {
		values[i] = uint32(v)
	}
	//
	return values
}
