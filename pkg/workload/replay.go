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
package workload

import (
	"errors"
	"fmt"
	"slices"

	"github.com/consensys/go-zkmem/pkg/memory"
	"github.com/consensys/go-zkmem/pkg/timestamp"
	"github.com/consensys/go-zkmem/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// Result summarises the replay of a workload.
type Result struct {
	Reads  uint
	Writes uint
	// Faults encountered (all of which were expected)
	Faults uint
}

// Replay every access of a workload against a given memory, taking timestamps
// from a given source.  Replay stops at the first access which either faults
// unexpectedly, fails to fault as expected, or reads unexpected data.
func Replay(mem *memory.Memory, source timestamp.Source, workload *Workload) (Result, error) {
	var result Result
	//
	for i, access := range workload.Accesses {
		ts, err := nextTimestamp(source, access)
		if err != nil {
			return result, fmt.Errorf("access %d: %w", i, err)
		}
		//
		data, err := mem.Access(access.Space, access.Pointer, access.Length(), access.Operation(),
			field.Elements(access.Data...), ts)
		//
		if err := check(access, data, err); err != nil {
			return result, fmt.Errorf("access %d (%s at %d): %w", i, access.Op, ts, err)
		} else if access.Fault != "" {
			log.Debugf("access %d faulted as expected (%s)", i, access.Fault)
			result.Faults++
		} else if access.Operation() == memory.READ {
			result.Reads++
		} else {
			result.Writes++
		}
	}
	//
	return result, nil
}

func nextTimestamp(source timestamp.Source, access Access) (uint32, error) {
	if access.Timestamp == nil {
		return source.Next()
	}
	// Keep the source ahead of explicit timestamps
	if counter, ok := source.(*timestamp.Counter); ok && access.Fault == "" {
		counter.Advance(*access.Timestamp)
	}
	//
	return *access.Timestamp, nil
}

func check(access Access, data []field.Element, err error) error {
	if access.Fault != "" {
		kind, _ := FaultKind(access.Fault)
		//
		if err == nil {
			return fmt.Errorf("expected %s fault", access.Fault)
		} else if !errors.Is(err, kind) {
			return fmt.Errorf("expected %s fault, got %w", access.Fault, err)
		}
		//
		return nil
	} else if err != nil {
		return err
	} else if access.Expect != nil && !slices.Equal(access.Expect, field.ToUint32s(data)) {
		return fmt.Errorf("expected %v, read %v", access.Expect, field.ToUint32s(data))
	}
	//
	return nil
}
