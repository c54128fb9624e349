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
package hash

import (
	"bytes"
)

// Hasher provides a generic definition of a hashing function suitable for use
// within the hash map.  Collisions are permitted, hence equality is required as
// well.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

// ============================================================================
// BytesKey Implementation
// ============================================================================

var _ Hasher[BytesKey] = BytesKey{}

// BytesKey wraps a bytes array as something which can be safely placed into a
// hash map.
type BytesKey struct {
	bytes []byte
}

// NewBytesKey constructs a new bytes key.
func NewBytesKey(bytes []byte) BytesKey {
	return BytesKey{bytes}
}

// Equals compares two BytesKeys to check whether they represent the same
// underlying byte array (or not).
func (p BytesKey) Equals(other BytesKey) bool {
	return bytes.Equal(p.bytes, other.bytes)
}

// Hash generates a 64-bit hashcode from the underlying bytes array.
func (p BytesKey) Hash() uint64 {
	return Bytes(offset64, p.bytes)
}

// ============================================================================
// FNV1a helpers
// ============================================================================

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Seed returns the initial value for an incremental FNV1a hash.
func Seed() uint64 {
	return offset64
}

// Uint32 mixes a 32-bit value into an incremental FNV1a hash.
func Uint32(hash uint64, val uint32) uint64 {
	for i := 0; i < 4; i++ {
		hash ^= uint64(val & 0xff)
		hash *= prime64
		val >>= 8
	}
	//
	return hash
}

// Bytes mixes a byte array into an incremental FNV1a hash.
func Bytes(hash uint64, bytes []byte) uint64 {
	for _, b := range bytes {
		hash ^= uint64(b)
		hash *= prime64
	}
	//
	return hash
}
