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
	"encoding/json"
	"fmt"

	"github.com/consensys/go-zkmem/pkg/util/field"
)

type jsonImage struct {
	Chunk uint32     `json:"chunk"`
	Cells []jsonCell `json:"cells"`
}

type jsonCell struct {
	Space   uint32 `json:"space"`
	Pointer uint32 `json:"pointer"`
	Value   uint32 `json:"value"`
}

// FromJSON parses an image from its JSON representation.  For example:
//
//	{"chunk": 4, "cells": [{"space": 1, "pointer": 0, "value": 7}]}
func FromJSON(bytes []byte) (*Image, error) {
	var raw jsonImage
	//
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	} else if raw.Chunk == 0 || raw.Chunk > 64 || raw.Chunk&(raw.Chunk-1) != 0 {
		return nil, fmt.Errorf("invalid image chunk size %d", raw.Chunk)
	}
	//
	image := NewImage(raw.Chunk)
	//
	for _, c := range raw.Cells {
		value := field.Uint32(c.Value)
		// Reject values which would wrap around
		if field.ToUint32(value) != c.Value {
			return nil, fmt.Errorf("value %d of cell (%d,%d) exceeds field", c.Value, c.Space, c.Pointer)
		} else if _, ok := image.Get(c.Space, c.Pointer); ok {
			return nil, fmt.Errorf("cell (%d,%d) defined twice", c.Space, c.Pointer)
		}
		//
		image.Set(c.Space, c.Pointer, value)
	}
	//
	return image, nil
}

// ToJSON returns the JSON representation of this image.
func (p *Image) ToJSON() ([]byte, error) {
	var raw = jsonImage{p.chunk, make([]jsonCell, 0, len(p.cells))}
	//
	for _, c := range p.Cells() {
		raw.Cells = append(raw.Cells, jsonCell{c.Space, c.Pointer, field.ToUint32(p.cells[c])})
	}
	//
	return json.MarshalIndent(&raw, "", "  ")
}
