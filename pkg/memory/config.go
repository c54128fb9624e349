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
	"math/bits"

	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/util/field"
)

// Mode determines how segments are born and how they are drained.
type Mode uint8

const (
	// VOLATILE memory starts zeroed, with no external commitment.
	VOLATILE Mode = iota
	// PERSISTENT memory starts from (and is folded back into) a committed
	// image.
	PERSISTENT
)

func (p Mode) String() string {
	switch p {
	case VOLATILE:
		return "volatile"
	case PERSISTENT:
		return "persistent"
	default:
		return fmt.Sprintf("mode(%d)", uint8(p))
	}
}

// ParseMode converts a string into a mode.
func ParseMode(mode string) (Mode, error) {
	switch mode {
	case "volatile":
		return VOLATILE, nil
	case "persistent":
		return PERSISTENT, nil
	default:
		return 0, fmt.Errorf("unknown memory mode \"%s\"", mode)
	}
}

// Config determines the geometry of a memory.
type Config struct {
	// MinBlockSize is the granularity at which never-seen addresses are born
	// (often referred to as CHUNK).
	MinBlockSize uint32
	// MaxBlockSize is the largest segment size which can be materialised.
	MaxBlockSize uint32
	// PointerMaxBits bounds every pointer to 0..2^PointerMaxBits.
	PointerMaxBits uint
	// TimestampMaxBits bounds every timestamp to 0..2^TimestampMaxBits.
	TimestampMaxBits uint
	// AddrSpaceMaxBits bounds the mutable address spaces to
	// 1..2^AddrSpaceMaxBits.
	AddrSpaceMaxBits uint
	// Mode of operation.
	Mode Mode
	// Bus on which every record is placed.
	Bus ledger.Bus
}

// DefaultConfig returns a configuration suitable for most purposes.
func DefaultConfig() Config {
	return Config{
		MinBlockSize:     1,
		MaxBlockSize:     64,
		PointerMaxBits:   29,
		TimestampMaxBits: 29,
		AddrSpaceMaxBits: 3,
		Mode:             VOLATILE,
		Bus:              ledger.MEMORY_BUS,
	}
}

// Chunk returns the granularity at which never-seen addresses are born.
func (p *Config) Chunk() uint32 {
	return p.MinBlockSize
}

// Validate checks this configuration is internally consistent, and that every
// value it permits can be held in the field without wrapping around.
func (p *Config) Validate() error {
	var bandwidth = field.BABYBEAR.BandWidth
	//
	switch {
	case !supportedSize(p.MinBlockSize):
		return fmt.Errorf("unsupported minimum block size %d", p.MinBlockSize)
	case !supportedSize(p.MaxBlockSize):
		return fmt.Errorf("unsupported maximum block size %d", p.MaxBlockSize)
	case p.MinBlockSize > p.MaxBlockSize:
		return fmt.Errorf("minimum block size %d exceeds maximum %d", p.MinBlockSize, p.MaxBlockSize)
	case !field.BABYBEAR.Fits(p.PointerMaxBits):
		return fmt.Errorf("pointer bitwidth %d exceeds field bandwidth %d", p.PointerMaxBits, bandwidth)
	case p.PointerMaxBits < uint(bits.TrailingZeros32(p.MaxBlockSize)):
		return fmt.Errorf("pointer bitwidth %d too small for block size %d", p.PointerMaxBits, p.MaxBlockSize)
	case p.TimestampMaxBits == 0 || !field.BABYBEAR.Fits(p.TimestampMaxBits):
		return fmt.Errorf("invalid timestamp bitwidth %d (field bandwidth %d)", p.TimestampMaxBits, bandwidth)
	case p.AddrSpaceMaxBits == 0 || !field.BABYBEAR.Fits(p.AddrSpaceMaxBits):
		return fmt.Errorf("invalid address space bitwidth %d (field bandwidth %d)", p.AddrSpaceMaxBits, bandwidth)
	case p.Mode != VOLATILE && p.Mode != PERSISTENT:
		return fmt.Errorf("unknown memory mode %d", p.Mode)
	}
	//
	return nil
}

func supportedSize(size uint32) bool {
	_, ok := sizeClass(size)
	return ok
}
