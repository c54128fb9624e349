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
package workload

import (
	"testing"

	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/memory"
	"github.com/consensys/go-zkmem/pkg/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Workload_01(t *testing.T) {
	result, err := check_Replay(t, `{"accesses": [
		{"op": "write", "space": 2, "pointer": 0, "data": [1,2,3,4]},
		{"op": "write", "space": 2, "pointer": 4, "data": [5,6,7,8]},
		{"op": "read", "space": 2, "pointer": 2, "size": 4, "expect": [3,4,5,6]}
	]}`)
	//
	require.NoError(t, err)
	assert.Equal(t, Result{Reads: 1, Writes: 2}, result)
}

func Test_Workload_02(t *testing.T) {
	result, err := check_Replay(t, `{"accesses": [
		{"op": "read", "space": 2, "pointer": 536870911, "size": 2, "fault": "OutOfRange"},
		{"op": "read", "space": 2, "pointer": 0, "size": 3, "fault": "UnsupportedSize"},
		{"op": "write", "space": 0, "pointer": 0, "data": [1], "fault": "OutOfRange"},
		{"op": "write", "space": 1, "pointer": 0, "data": [1], "timestamp": 10},
		{"op": "read", "space": 1, "pointer": 0, "size": 1, "timestamp": 10, "fault": "NonMonotonicTimestamp"},
		{"op": "read", "space": 1, "pointer": 0, "size": 1, "expect": [1]}
	]}`)
	//
	require.NoError(t, err)
	assert.Equal(t, Result{Reads: 1, Writes: 1, Faults: 4}, result)
}

func Test_Workload_03(t *testing.T) {
	// Wrong data
	_, err := check_Replay(t, `{"accesses": [{"op": "read", "space": 2, "pointer": 0, "size": 1, "expect": [1]}]}`)
	assert.Error(t, err)
	// Missing fault
	_, err = check_Replay(t, `{"accesses": [{"op": "read", "space": 2, "pointer": 0, "size": 1, "fault": "OutOfRange"}]}`)
	assert.Error(t, err)
	// Wrong fault
	_, err = check_Replay(t, `{"accesses": [{"op": "read", "space": 2, "pointer": 0, "size": 3, "fault": "OutOfRange"}]}`)
	assert.Error(t, err)
	// Unexpected fault
	_, err = check_Replay(t, `{"accesses": [{"op": "read", "space": 9, "pointer": 0, "size": 1}]}`)
	assert.ErrorIs(t, err, memory.ErrOutOfRange)
}

func Test_Workload_04(t *testing.T) {
	invalid := []string{
		`{"accesses": [{"op": "copy", "space": 1, "pointer": 0, "size": 1}]}`,
		`{"accesses": [{"op": "read", "space": 1, "pointer": 0}]}`,
		`{"accesses": [{"op": "read", "space": 1, "pointer": 0, "size": 1, "data": [1]}]}`,
		`{"accesses": [{"op": "write", "space": 1, "pointer": 0, "data": [1], "expect": [1]}]}`,
		`{"accesses": [{"op": "read", "space": 1, "pointer": 0, "size": 1, "fault": "Boom"}]}`,
		`{"mode": "eternal", "accesses": []}`,
		`{"accesses": 1}`,
	}
	//
	for _, input := range invalid {
		_, err := Parse([]byte(input))
		assert.Error(t, err, input)
	}
}

func Test_Workload_05(t *testing.T) {
	workload, err := Parse([]byte(`{"chunk": 4, "accesses": [{"op": "write", "space": 1, "pointer": 2, "data": [9]}]}`))
	require.NoError(t, err)
	//
	encoded, err := workload.ToJSON()
	require.NoError(t, err)
	//
	decoded, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, workload, decoded)
	assert.Equal(t, uint32(1), decoded.Accesses[0].Length())
}

func Test_Workload_06(t *testing.T) {
	for _, aligned := range []bool{true, false} {
		workload := Generate(GenConfig{Accesses: 100, Spaces: 2, PointerBits: 6, MaxSizeBits: 3, Chunk: 2,
			Aligned: aligned})
		// Generated workloads survive encoding
		encoded, err := workload.ToJSON()
		require.NoError(t, err)
		_, err = Parse(encoded)
		require.NoError(t, err)
		// Generated workloads are self-checking
		result, err := check_Replay(t, string(encoded))
		require.NoError(t, err)
		assert.Equal(t, uint(100), result.Reads+result.Writes)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Replay(t *testing.T, input string) (Result, error) {
	workload, err := Parse([]byte(input))
	require.NoError(t, err)
	//
	config := memory.DefaultConfig()
	if workload.Chunk != 0 {
		config.MinBlockSize = workload.Chunk
	}
	//
	trace := ledger.NewLedger()
	mem, err := memory.NewMemory(config, memory.NewBoundary(config.Mode), trace)
	require.NoError(t, err)
	//
	result, err := Replay(mem, timestamp.NewCounter(config.TimestampMaxBits), workload)
	//
	if err == nil {
		_, ferr := mem.FinalizeAll()
		require.NoError(t, ferr)
		assert.Empty(t, trace.Balance())
	}
	//
	return result, err
}
