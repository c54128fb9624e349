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
	"cmp"
	"fmt"
	"slices"

	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/util/field"
)

// Cell identifies a single cell within a given address space.
type Cell struct {
	Space   uint32
	Pointer uint32
}

// Compare two cells, ordering first by address space and then by pointer.
func (p Cell) Compare(other Cell) int {
	if c := cmp.Compare(p.Space, other.Space); c != 0 {
		return c
	}
	//
	return cmp.Compare(p.Pointer, other.Pointer)
}

// Image is a sparse snapshot of persistent memory, organised into chunks of a
// fixed size.  Cells not present in the image have no defined value.
type Image struct {
	chunk uint32
	cells map[Cell]field.Element
}

// NewImage constructs an empty image with a given chunk size.
func NewImage(chunk uint32) *Image {
	return &Image{chunk, make(map[Cell]field.Element)}
}

// Chunk returns the chunk size of this image.
func (p *Image) Chunk() uint32 {
	return p.chunk
}

// Len returns the number of cells defined in this image.
func (p *Image) Len() int {
	return len(p.cells)
}

// Get the value of a given cell, returning false if it is not defined.
func (p *Image) Get(space, pointer uint32) (field.Element, bool) {
	value, ok := p.cells[Cell{space, pointer}]
	//
	return value, ok
}

// Set the value of a given cell.
func (p *Image) Set(space, pointer uint32, value field.Element) {
	p.cells[Cell{space, pointer}] = value
}

// Load implementation for memory.ImageLoader interface.
func (p *Image) Load(space, pointer uint32) (field.Element, bool) {
	return p.Get(space, pointer)
}

// Cells returns every defined cell in ascending order.
func (p *Image) Cells() []Cell {
	var cells = make([]Cell, 0, len(p.cells))
	//
	for c := range p.cells {
		cells = append(cells, c)
	}
	//
	slices.SortFunc(cells, Cell.Compare)
	//
	return cells
}

// Fold the drained chunks of a persistent memory back into this image.  Every
// record other than a drain is ignored, whilst a drain which is not an aligned
// chunk is an error (and leaves this image unchanged).
func (p *Image) Fold(entries []ledger.Entry) error {
	var drains []*ledger.Entry
	//
	for i := range entries {
		e := &entries[i]
		//
		if e.Kind != ledger.BOUNDARY || e.Sign != ledger.RECEIVE {
			continue
		} else if uint32(len(e.Data)) != p.chunk || e.Start%p.chunk != 0 {
			return fmt.Errorf("drained record %s is not a chunk of size %d", e.String(), p.chunk)
		}
		//
		drains = append(drains, e)
	}
	//
	for _, e := range drains {
		for i, v := range e.Data {
			p.Set(e.Space, e.Start+uint32(i), v)
		}
	}
	//
	return nil
}
