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
package image

import (
	"path/filepath"
	"testing"

	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/memory"
	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImage = `{"chunk": 4, "cells": [
	{"space": 1, "pointer": 0, "value": 7},
	{"space": 1, "pointer": 1, "value": 8},
	{"space": 1, "pointer": 9, "value": 9},
	{"space": 2, "pointer": 3, "value": 10}
]}`

func Test_Image_01(t *testing.T) {
	image, err := FromJSON([]byte(testImage))
	require.NoError(t, err)
	//
	assert.Equal(t, uint32(4), image.Chunk())
	assert.Equal(t, 4, image.Len())
	check_Cell(t, image, 1, 9, 9)
	check_Cell(t, image, 2, 3, 10)
	//
	_, ok := image.Get(2, 0)
	assert.False(t, ok)
	//
	cells := image.Cells()
	assert.Equal(t, []Cell{{1, 0}, {1, 1}, {1, 9}, {2, 3}}, cells)
}

func Test_Image_02(t *testing.T) {
	invalid := []string{
		`{"chunk": 3, "cells": []}`,
		`{"chunk": 128, "cells": []}`,
		`{"chunk": 1, "cells": [{"space": 1, "pointer": 0, "value": 2013265921}]}`,
		`{"chunk": 1, "cells": [{"space": 1, "pointer": 0, "value": 1}, {"space": 1, "pointer": 0, "value": 2}]}`,
		`{"chunk": 1, "cells": {}}`,
	}
	//
	for _, input := range invalid {
		_, err := FromJSON([]byte(input))
		assert.Error(t, err, input)
	}
}

func Test_Image_03(t *testing.T) {
	image, err := FromJSON([]byte(testImage))
	require.NoError(t, err)
	//
	encoded, err := image.ToJSON()
	require.NoError(t, err)
	//
	decoded, err := FromJSON(encoded)
	require.NoError(t, err)
	assert.Equal(t, image.Commit(), decoded.Commit())
}

// Commitments are sensitive to every cell
func Test_Image_04(t *testing.T) {
	image, err := FromJSON([]byte(testImage))
	require.NoError(t, err)
	//
	original := image.Commit()
	assert.Len(t, original, 32)
	//
	image.Set(1, 9, field.Uint32(10))
	assert.NotEqual(t, original, image.Commit())
	//
	image.Set(1, 9, field.Uint32(9))
	assert.Equal(t, original, image.Commit())
	// Chunk size is committed too
	other := NewImage(8)
	for _, c := range image.Cells() {
		value, _ := image.Get(c.Space, c.Pointer)
		other.Set(c.Space, c.Pointer, value)
	}
	//
	assert.NotEqual(t, original, other.Commit())
}

func Test_Image_05(t *testing.T) {
	image, err := FromJSON([]byte(testImage))
	require.NoError(t, err)
	//
	path := filepath.Join(t.TempDir(), "image.db")
	db, err := Open(path, false)
	require.NoError(t, err)
	//
	header, err := db.Write(image, "run-1")
	require.NoError(t, err)
	assert.Equal(t, image.Commit(), header.Commitment)
	require.NoError(t, db.Close())
	//
	db, err = Open(path, true)
	require.NoError(t, err)
	//
	defer db.Close()
	//
	read, header, err := db.Read()
	require.NoError(t, err)
	assert.Equal(t, "run-1", header.RunId)
	assert.Equal(t, 4, header.Cells)
	assert.Equal(t, image.Cells(), read.Cells())
	check_Cell(t, read, 1, 0, 7)
	check_Cell(t, read, 1, 1, 8)
	check_Cell(t, read, 1, 9, 9)
	check_Cell(t, read, 2, 3, 10)
}

func Test_Image_06(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "empty.db"), false)
	require.NoError(t, err)
	//
	defer db.Close()
	//
	_, _, err = db.Read()
	assert.ErrorIs(t, err, ErrNotImage)
}

// Run a persistent memory from an image, then fold the result back in.
func Test_Image_07(t *testing.T) {
	image, err := FromJSON([]byte(testImage))
	require.NoError(t, err)
	// Fill out the chunks being used
	for _, p := range []uint32{2, 3, 8, 10, 11} {
		image.Set(1, p, field.Zero())
	}
	//
	config := memory.DefaultConfig()
	config.Mode = memory.PERSISTENT
	config.MinBlockSize = image.Chunk()
	trace := ledger.NewLedger()
	mem, err := memory.NewMemory(config, memory.NewPersistent(image), trace)
	require.NoError(t, err)
	//
	data, err := mem.Read(1, 0, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{7, 8}, field.ToUint32s(data))
	_, err = mem.Write(1, 9, field.Elements(1, 2), 2)
	require.NoError(t, err)
	//
	drained, err := mem.FinalizeAll()
	require.NoError(t, err)
	require.Empty(t, trace.Balance())
	//
	require.NoError(t, image.Fold(drained))
	check_Cell(t, image, 1, 0, 7)
	check_Cell(t, image, 1, 9, 1)
	check_Cell(t, image, 1, 10, 2)
	check_Cell(t, image, 2, 3, 10)
}

func Test_Image_08(t *testing.T) {
	image := NewImage(4)
	// Drains which are not chunks
	entries := []ledger.Entry{
		{Bus: ledger.MEMORY_BUS, Sign: ledger.RECEIVE, Kind: ledger.BOUNDARY, Space: 1, Start: 2,
			Data: field.Elements(1, 2, 3, 4), Timestamp: 1},
	}
	assert.Error(t, image.Fold(entries))
	assert.Equal(t, 0, image.Len())
	// Other records are ignored
	entries[0].Kind = ledger.ACCESS
	assert.NoError(t, image.Fold(entries))
	assert.Equal(t, 0, image.Len())
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Cell(t *testing.T, image *Image, space, pointer, expected uint32) {
	value, ok := image.Get(space, pointer)
	//
	if assert.True(t, ok, "cell (%d,%d) undefined", space, pointer) {
		assert.Equal(t, expected, field.ToUint32(value))
	}
}
