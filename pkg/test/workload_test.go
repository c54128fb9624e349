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
package test

import (
	"testing"

	"github.com/consensys/go-zkmem/pkg/test/util"
)

// ===================================================================
// Handwritten Workloads
// ===================================================================

func Test_Scenarios(t *testing.T) {
	util.Check(t, "scenarios")
}

func Test_Immediates(t *testing.T) {
	util.Check(t, "immediates")
}

func Test_Faults(t *testing.T) {
	util.Check(t, "faults")
}

func Test_Chunked(t *testing.T) {
	util.Check(t, "chunked")
}

func Test_Persistent(t *testing.T) {
	util.Check(t, "persistent")
}

// ===================================================================
// Generated Workloads
// ===================================================================

func Test_Auto_Aligned_0(t *testing.T) {
	util.Check(t, "aligned.auto.0")
}

func Test_Auto_Unaligned_0(t *testing.T) {
	util.Check(t, "unaligned.auto.0")
}

func Test_Auto_Chunked_0(t *testing.T) {
	util.Check(t, "chunked.auto.0")
}

func Test_Auto_Wide_0(t *testing.T) {
	util.Check(t, "wide.auto.0")
}
