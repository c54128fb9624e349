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
	"fmt"

	"github.com/consensys/go-zkmem/pkg/util/field"
)

// ImageLoader provides the committed initial contents of a persistent memory.
type ImageLoader interface {
	// Load the initial value of a given cell, returning false if the image has
	// no entry for it.
	Load(space, pointer uint32) (field.Element, bool)
}

// Boundary determines where never-seen segments come from, and what must hold
// of the segments drained at the end of execution.
type Boundary interface {
	// Mode identifies which kind of boundary this is.
	Mode() Mode
	// Birth returns the initial contents of the block [start, start+size)
	// within a given address space.  Births always happen at the genesis
	// timestamp.
	Birth(space, start, size uint32) ([]field.Element, error)
	// Equipartition determines whether every address space must be reshaped
	// into chunk-sized segments before being drained.
	Equipartition() bool
	// Drained checks the segments about to be drained from a given address
	// space, which are supplied in ascending order.
	Drained(space, chunk uint32, segments []*Segment) error
}

// NewBoundary constructs the default boundary for a given mode.  Persistent
// boundaries constructed in this way have no image until one is supplied.
func NewBoundary(mode Mode) Boundary {
	if mode == PERSISTENT {
		return NewPersistent(nil)
	}
	//
	return &Volatile{}
}

// ============================================================================
// Volatile
// ============================================================================

// Volatile is a boundary for memory which starts zeroed.
type Volatile struct{}

// Mode implementation for Boundary interface.
func (p *Volatile) Mode() Mode {
	return VOLATILE
}

// Birth implementation for Boundary interface.
func (p *Volatile) Birth(space, start, size uint32) ([]field.Element, error) {
	return make([]field.Element, size), nil
}

// Equipartition implementation for Boundary interface.
func (p *Volatile) Equipartition() bool {
	return false
}

// Drained implementation for Boundary interface.  This checks the drained
// addresses are strictly increasing, such that no cell is drained twice.  A
// Store always supplies distinct segments, so this only fails for segments
// assembled elsewhere.
func (p *Volatile) Drained(space, chunk uint32, segments []*Segment) error {
	for i := 1; i < len(segments); i++ {
		prev, next := segments[i-1], segments[i]
		//
		if prev.End() > uint64(next.Start) {
			return fmt.Errorf("drained segments %s and %s not distinct in address space %d", prev.String(),
				next.String(), space)
		}
	}
	//
	return nil
}

// ============================================================================
// Persistent
// ============================================================================

// Persistent is a boundary for memory which starts from a committed image, and
// whose final contents are folded back into that image.
type Persistent struct {
	image    ImageLoader
	fallback *field.Element
}

// NewPersistent constructs a persistent boundary over a given image.
func NewPersistent(image ImageLoader) *Persistent {
	return &Persistent{image, nil}
}

// SetImage replaces the image from which segments are born.
func (p *Persistent) SetImage(image ImageLoader) {
	p.image = image
}

// SetDefault configures the value of every cell missing from the image.
// Without a default, a missing cell is an image miss.
func (p *Persistent) SetDefault(value field.Element) {
	p.fallback = &value
}

// Mode implementation for Boundary interface.
func (p *Persistent) Mode() Mode {
	return PERSISTENT
}

// Birth implementation for Boundary interface.
func (p *Persistent) Birth(space, start, size uint32) ([]field.Element, error) {
	var data = make([]field.Element, size)
	//
	for i := range size {
		if value, ok := p.Load(space, start+i); ok {
			data[i] = value
		} else {
			return nil, newFault(ErrImageMiss, space, start+i, size, 0, "no image entry")
		}
	}
	//
	return data, nil
}

// Load the initial value of a cell, falling back on the default (if there is
// one).
func (p *Persistent) Load(space, pointer uint32) (field.Element, bool) {
	if p.image != nil {
		if value, ok := p.image.Load(space, pointer); ok {
			return value, true
		}
	}
	//
	if p.fallback != nil {
		return *p.fallback, true
	}
	//
	return field.Zero(), false
}

// Equipartition implementation for Boundary interface.
func (p *Persistent) Equipartition() bool {
	return true
}

// Drained implementation for Boundary interface.  This checks every drained
// segment is an aligned chunk.
func (p *Persistent) Drained(space, chunk uint32, segments []*Segment) error {
	for _, seg := range segments {
		if seg.Size != chunk || seg.Start%chunk != 0 {
			return fmt.Errorf("drained segment %s is not a chunk in address space %d", seg.String(), space)
		}
	}
	//
	return nil
}
