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
package util

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/consensys/go-zkmem/pkg/image"
	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/memory"
	"github.com/consensys/go-zkmem/pkg/timestamp"
	"github.com/consensys/go-zkmem/pkg/workload"
	"github.com/stretchr/testify/require"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the workloads (json) and any initial images they require are found.
const TestDir = "../../testdata"

// Check that a given workload replays as expected against a fresh memory, and
// that the transcript produced (once every address space is finalized) is
// balanced with every touched cell forming a complete chain.
func Check(t *testing.T, test string) {
	// Enable testing each workload in parallel
	t.Parallel()
	//
	var (
		w       = readWorkload(t, test)
		config  = configOf(t, w)
		trace   = ledger.NewLedger()
		initial *image.Image
	)
	// Persistent workloads are paired with an image
	if config.Mode == memory.PERSISTENT {
		initial = readImage(t, test)
		require.Equal(t, config.MinBlockSize, initial.Chunk(), "image chunk does not match workload")
	}
	//
	mem, err := memory.NewMemory(config, memory.NewBoundary(config.Mode), trace)
	require.NoError(t, err)
	//
	if initial != nil {
		require.NoError(t, mem.SetInitialImage(initial))
	}
	//
	_, err = workload.Replay(mem, timestamp.NewCounter(config.TimestampMaxBits), w)
	require.NoError(t, err)
	require.NoError(t, mem.Check())
	//
	_, err = mem.FinalizeAll()
	require.NoError(t, err)
	// Check the transcript survives encoding
	entries := roundTrip(t, trace.Entries())
	checkTranscript(t, entries)
	stats := mem.Stats()
	require.Equal(t, stats.Records(), uint(len(entries)))
	// Check the final image is consistent with the transcript
	if initial != nil {
		require.NoError(t, initial.Fold(entries))
		checkFinalImage(t, initial, entries)
	}
}

func checkTranscript(t *testing.T, entries []ledger.Entry) {
	imbalances := ledger.Balance(entries)
	require.Empty(t, imbalances, "transcript unbalanced")
	//
	for _, cell := range touchedCells(entries) {
		chain := chainOf(entries, cell)
		require.NoError(t, ledger.CheckChain(cell.Space, cell.Pointer, chain, true))
	}
}

// Every touched cell must hold the value it was last drained with.
func checkFinalImage(t *testing.T, final *image.Image, entries []ledger.Entry) {
	for _, cell := range touchedCells(entries) {
		var (
			chain     = chainOf(entries, cell)
			drain     = chain[len(chain)-1]
			value, ok = final.Get(cell.Space, cell.Pointer)
		)
		//
		require.True(t, ok, "cell (%d,%d) missing from final image", cell.Space, cell.Pointer)
		require.True(t, value.Equal(&drain.Data[cell.Pointer-drain.Start]), "cell (%d,%d) holds %s",
			cell.Space, cell.Pointer, value.String())
	}
}

func roundTrip(t *testing.T, entries []ledger.Entry) []ledger.Entry {
	var buf bytes.Buffer
	//
	require.NoError(t, ledger.WriteTranscript(&buf, ledger.Transcript{RunId: t.Name(), Entries: entries}))
	transcript, err := ledger.ReadTranscript(&buf)
	require.NoError(t, err)
	require.Equal(t, t.Name(), transcript.RunId)
	require.Equal(t, len(entries), len(transcript.Entries))
	//
	return transcript.Entries
}

func touchedCells(entries []ledger.Entry) []image.Cell {
	var (
		seen  = make(map[image.Cell]bool)
		cells []image.Cell
	)
	//
	for _, e := range entries {
		for i := range len(e.Data) {
			cell := image.Cell{Space: e.Space, Pointer: e.Start + uint32(i)}
			//
			if !seen[cell] {
				seen[cell] = true
				cells = append(cells, cell)
			}
		}
	}
	//
	return cells
}

func chainOf(entries []ledger.Entry, cell image.Cell) []ledger.Entry {
	var chain []ledger.Entry
	//
	for _, e := range entries {
		if e.Covers(cell.Space, cell.Pointer) {
			chain = append(chain, e)
		}
	}
	//
	return chain
}

func configOf(t *testing.T, w *workload.Workload) memory.Config {
	config := memory.DefaultConfig()
	//
	if w.Chunk != 0 {
		config.MinBlockSize = w.Chunk
	}
	//
	if w.Mode != "" {
		mode, err := memory.ParseMode(w.Mode)
		require.NoError(t, err)
		//
		config.Mode = mode
	}
	//
	return config
}

func readWorkload(t *testing.T, test string) *workload.Workload {
	bytes := readFile(t, fmt.Sprintf("%s/%s.json", TestDir, test))
	w, err := workload.Parse(bytes)
	require.NoError(t, err)
	//
	return w
}

func readImage(t *testing.T, test string) *image.Image {
	bytes := readFile(t, fmt.Sprintf("%s/%s.image.json", TestDir, test))
	img, err := image.FromJSON(bytes)
	require.NoError(t, err)
	//
	return img
}

func readFile(t *testing.T, filename string) []byte {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	//
	return bytes
}
