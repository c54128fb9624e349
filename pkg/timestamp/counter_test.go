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
package timestamp

import (
	"errors"
	"testing"
)

func Test_Counter_01(t *testing.T) {
	counter := NewCounter(29)
	last := GENESIS
	//
	for i := 0; i < 1000; i++ {
		next, err := counter.Next()
		if err != nil {
			t.Fatal(err)
		} else if next <= last {
			t.Errorf("timestamp %d not after %d", next, last)
		}
		//
		last = next
	}
}

func Test_Counter_02(t *testing.T) {
	counter := NewCounter(3)
	// 1..7 are available
	for i := uint32(1); i < 8; i++ {
		if next, err := counter.Next(); err != nil || next != i {
			t.Fatalf("expected %d, got %d (%v)", i, next, err)
		}
	}
	//
	if _, err := counter.Next(); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected exhaustion, got %v", err)
	}
}

func Test_Counter_03(t *testing.T) {
	counter := NewCounter(16)
	counter.Advance(10)
	counter.Advance(5)
	//
	if next, _ := counter.Next(); next != 11 {
		t.Errorf("expected 11, got %d", next)
	}
	//
	if counter.Current() != 11 {
		t.Errorf("expected 11, got %d", counter.Current())
	}
}
