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
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr/mimc"
	"github.com/consensys/go-zkmem/pkg/util/field"
)

// Commit computes a MiMC commitment to this image.  The chunk size is absorbed
// first, followed by the address space, pointer and value of every defined
// cell in ascending order.  Each is absorbed as a separate element of the
// BLS12-377 scalar field.
func (p *Image) Commit() []byte {
	var hasher = mimc.NewMiMC()
	//
	absorb := func(val uint32) {
		element := fr.NewElement(uint64(val))
		bytes := element.Bytes()
		// Never fails since bytes are canonical
		_, _ = hasher.Write(bytes[:])
	}
	//
	absorb(p.chunk)
	//
	for _, c := range p.Cells() {
		absorb(c.Space)
		absorb(c.Pointer)
		absorb(field.ToUint32(p.cells[c]))
	}
	//
	return hasher.Sum(nil)
}
