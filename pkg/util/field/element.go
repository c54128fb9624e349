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
package field

import (
	"encoding/binary"
	"strings"

	"github.com/consensys/gnark-crypto/field/babybear"
)

// Element of the BabyBear prime field (p = 15·2²⁷ + 1).  All memory cells hold
// values of this type.
type Element = babybear.Element

// Zero constructs a field element representing 0
func Zero() Element {
	var element Element
	//
	return element
}

// Uint32 constructs a field element from a given uint32.  Values at or above
// the modulus are reduced.
func Uint32(val uint32) Element {
	var element Element
	//
	element.SetUint64(uint64(val))
	//
	return element
}

// Elements constructs an array of field elements from an array of uint32
// values.
func Elements(vals ...uint32) []Element {
	elements := make([]Element, len(vals))
	//
	for i, v := range vals {
		elements[i] = Uint32(v)
	}
	//
	return elements
}

// ToUint32 returns the canonical (i.e. non-Montgomery) value of a given
// element.
func ToUint32(val Element) uint32 {
	bytes := val.Bytes()
	//
	return binary.BigEndian.Uint32(bytes[:])
}

// ToUint32s returns the canonical values of a given array of elements.
func ToUint32s(vals []Element) []uint32 {
	items := make([]uint32, len(vals))
	//
	for i, v := range vals {
		items[i] = ToUint32(v)
	}
	//
	return items
}

// Equal checks whether two arrays of elements are identical.
func Equal(lhs []Element, rhs []Element) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	//
	for i := range lhs {
		if !lhs[i].Equal(&rhs[i]) {
			return false
		}
	}
	//
	return true
}

// Format an array of elements as a comma-separated list enclosed in brackets.
func Format(vals []Element) string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i := range vals {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(vals[i].String())
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
