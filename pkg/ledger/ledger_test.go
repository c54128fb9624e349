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
	"bytes"
	"testing"

	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Ledger_01(t *testing.T) {
	ledger := NewLedger()
	// birth, write, drain
	ledger.Append(entry(SEND, BOUNDARY, 0, 0, 0, 0))
	ledger.Append(entry(RECEIVE, ACCESS, 0, 0, 0, 0))
	ledger.Append(entry(SEND, ACCESS, 0, 1, 7, 8))
	ledger.Append(entry(RECEIVE, BOUNDARY, 0, 1, 7, 8))
	//
	assert.Empty(t, ledger.Balance())
	assert.Equal(t, 4, ledger.Len())
	assert.Equal(t, 1, ledger.Count(ACCESS, SEND))
	assert.NoError(t, CheckChain(2, 0, ledger.Chain(2, 0), true))
	assert.NoError(t, CheckChain(2, 1, ledger.Chain(2, 1), true))
}

func Test_Ledger_02(t *testing.T) {
	ledger := NewLedger()
	// never drained
	ledger.Append(entry(SEND, BOUNDARY, 0, 0, 0, 0))
	ledger.Append(entry(RECEIVE, ACCESS, 0, 0, 0, 0))
	ledger.Append(entry(SEND, ACCESS, 0, 1, 7, 8))
	//
	imbalances := ledger.Balance()
	require.Len(t, imbalances, 1)
	assert.Equal(t, 1, imbalances[0].Count)
	assert.Equal(t, uint32(1), imbalances[0].Key.Timestamp)
	assert.Error(t, CheckChain(2, 0, ledger.Chain(2, 0), true))
	assert.NoError(t, CheckChain(2, 0, ledger.Chain(2, 0), false))
}

func Test_Ledger_03(t *testing.T) {
	// Same key on different buses does not cancel.
	lhs := entry(SEND, BOUNDARY, 0, 0, 1, 2)
	rhs := entry(RECEIVE, BOUNDARY, 0, 0, 1, 2)
	rhs.Bus = 2
	//
	assert.Len(t, Balance([]Entry{lhs, rhs}), 2)
}

func Test_Ledger_04(t *testing.T) {
	// Receiving a stale value breaks the chain
	chain := []Entry{
		entry(SEND, BOUNDARY, 0, 0, 0, 0),
		entry(RECEIVE, ACCESS, 0, 0, 1, 0),
	}
	assert.Error(t, CheckChain(2, 0, chain, false))
	// Receiving a stale timestamp breaks the chain
	chain = []Entry{
		entry(SEND, BOUNDARY, 0, 0, 0, 0),
		entry(RECEIVE, ACCESS, 0, 3, 0, 0),
	}
	assert.Error(t, CheckChain(2, 0, chain, false))
	// Accessing at the same time breaks the chain
	chain = []Entry{
		entry(SEND, BOUNDARY, 0, 5, 0, 0),
		entry(RECEIVE, ACCESS, 0, 5, 0, 0),
		entry(SEND, ACCESS, 0, 5, 0, 0),
	}
	assert.Error(t, CheckChain(2, 0, chain, false))
	// Splits retain the timestamp
	chain = []Entry{
		entry(SEND, BOUNDARY, 0, 5, 0, 0),
		entry(RECEIVE, SPLIT, 0, 5, 0, 0),
		entry(SEND, SPLIT, 0, 5, 0, 0),
	}
	assert.NoError(t, CheckChain(2, 0, chain, false))
}

func Test_Ledger_05(t *testing.T) {
	var (
		buf      bytes.Buffer
		original = Transcript{"run", []Entry{
			entry(SEND, BOUNDARY, 0, 0, 0, 0),
			entry(RECEIVE, MERGE, 4, 9, 2013265920, 3),
		}}
	)
	//
	require.NoError(t, WriteTranscript(&buf, original))
	decoded, err := ReadTranscript(&buf)
	require.NoError(t, err)
	assert.Equal(t, original.RunId, decoded.RunId)
	require.Len(t, decoded.Entries, 2)
	//
	for i := range original.Entries {
		assert.True(t, original.Entries[i].Key().Equals(decoded.Entries[i].Key()))
		assert.Equal(t, original.Entries[i].Sign, decoded.Entries[i].Sign)
		assert.Equal(t, original.Entries[i].Kind, decoded.Entries[i].Kind)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func entry(sign Sign, kind Kind, start uint32, timestamp uint32, data ...uint32) Entry {
	return Entry{MEMORY_BUS, sign, kind, 2, start, field.Elements(data...), timestamp}
}
