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
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates an access beyond the configured pointer range, to
	// an unconfigured address space, a write to the immediate address space, or
	// a timestamp beyond the configured timestamp range.
	ErrOutOfRange = errors.New("out of range")
	// ErrUnsupportedSize indicates an access whose size is not one of the
	// supported block sizes.
	ErrUnsupportedSize = errors.New("unsupported size")
	// ErrNonMonotonicTimestamp indicates an access whose timestamp is not
	// strictly greater than every timestamp seen before.
	ErrNonMonotonicTimestamp = errors.New("non-monotonic timestamp")
	// ErrImageMiss indicates a never-seen address which has no entry in the
	// initial image of a persistent memory.
	ErrImageMiss = errors.New("image miss")
	// ErrFinalized indicates an address space which has already been drained.
	ErrFinalized = errors.New("address space finalized")
)

// Fault describes a failed memory operation.  Faults are never transient, and
// the memory is left unchanged by any access which faults.  Use errors.Is()
// against the ErrXXX values to determine the kind of fault.
type Fault struct {
	// Kind of fault (one of the ErrXXX values)
	Kind error
	// Address space being accessed
	Space uint32
	// Pointer being accessed
	Pointer uint32
	// Size of access
	Size uint32
	// Timestamp of access
	Timestamp uint32
	// Additional information
	Msg string
}

func newFault(kind error, space, pointer, size, timestamp uint32, format string, args ...any) *Fault {
	return &Fault{kind, space, pointer, size, timestamp, fmt.Sprintf(format, args...)}
}

func (p *Fault) Error() string {
	return fmt.Sprintf("%s accessing (%d,%d) with size %d at time %d: %s", p.Kind, p.Space, p.Pointer,
		p.Size, p.Timestamp, p.Msg)
}

// Unwrap returns the kind of this fault, thus enabling errors.Is().
func (p *Fault) Unwrap() error {
	return p.Kind
}
