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
package cmd

import (
	"path/filepath"
	"testing"

	"github.com/consensys/go-zkmem/pkg/image"
	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ImageCmd_01(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "image.db")
	//
	require.NoError(t, writeImage(filename, testImage()))
	assert.NoError(t, showImage(filename, false))
	assert.NoError(t, showImage(filename, true))
	// Database released after showing
	require.NoError(t, writeImage(filename, testImage()))
}

// A database without an image is reported, and released.
func Test_ImageCmd_02(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "empty.db")
	//
	db, err := image.Open(filename, false)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	//
	err = showImage(filename, false)
	assert.ErrorIs(t, err, image.ErrNotImage)
	// Writing requires an exclusive lock, hence fails if still held.
	require.NoError(t, writeImage(filename, testImage()))
	assert.NoError(t, showImage(filename, true))
}

// ===================================================================
// Test Helpers
// ===================================================================

func testImage() *image.Image {
	img := image.NewImage(2)
	img.Set(1, 0, field.Uint32(7))
	img.Set(1, 1, field.Uint32(8))
	//
	return img
}
