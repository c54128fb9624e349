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
package ledger

import (
	"fmt"

	"github.com/consensys/go-zkmem/pkg/util/field"
)

// CheckChain checks that the records touching a given cell (in the order they
// were appended) form a single chain from its birth to its drain.  That is,
// sends and receives alternate starting with a send; every receive consumes
// exactly the value and timestamp of the preceding send; and timestamps never
// decrease, strictly increasing across basic accesses.  When complete is set,
// the chain must also end with a receive (i.e. the cell has been drained).
func CheckChain(space uint32, pointer uint32, chain []Entry, complete bool) error {
	var last *Entry
	//
	for i := range chain {
		ith := &chain[i]
		//
		if !ith.Covers(space, pointer) {
			return fmt.Errorf("record %d (%s) does not cover cell (%d,%d)", i, ith, space, pointer)
		}
		//
		switch {
		case last == nil && ith.Sign != SEND:
			return fmt.Errorf("chain of (%d,%d) begins with %s", space, pointer, ith)
		case last == nil:
			// birth
		case last.Sign == ith.Sign:
			return fmt.Errorf("chain of (%d,%d) has consecutive %s records at %d", space, pointer, ith.Sign, i)
		case ith.Sign == RECEIVE && ith.Timestamp != last.Timestamp:
			return fmt.Errorf("chain of (%d,%d) receives timestamp %d after sending %d", space, pointer,
				ith.Timestamp, last.Timestamp)
		case ith.Sign == RECEIVE && !valueAt(ith, pointer).Equal(valueAt(last, pointer)):
			return fmt.Errorf("chain of (%d,%d) receives %s after sending %s", space, pointer,
				valueAt(ith, pointer), valueAt(last, pointer))
		case ith.Sign == SEND && ith.Timestamp < last.Timestamp:
			return fmt.Errorf("chain of (%d,%d) goes back in time (%d after %d)", space, pointer,
				ith.Timestamp, last.Timestamp)
		case ith.Sign == SEND && ith.Kind == ACCESS && ith.Timestamp == last.Timestamp:
			return fmt.Errorf("chain of (%d,%d) accessed twice at timestamp %d", space, pointer, ith.Timestamp)
		}
		//
		last = ith
	}
	//
	if complete && last != nil && last.Sign != RECEIVE {
		return fmt.Errorf("chain of (%d,%d) is never drained", space, pointer)
	}
	//
	return nil
}

func valueAt(entry *Entry, pointer uint32) *field.Element {
	return &entry.Data[pointer-entry.Start]
}
