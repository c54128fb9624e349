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
package field

// BABYBEAR is the field in which all transcript records are interpreted.
var BABYBEAR = Config{"BABYBEAR", 30}

// FIELD_CONFIGS determines the set of supported fields.
var FIELD_CONFIGS = []Config{
	BABYBEAR,
}

// Config provides a simple mechanism for describing how much of a field can
// be safely used to hold unsigned values (e.g. pointers or timestamps) without
// any risk of wrapping around the modulus.
type Config struct {
	// Name suitable for identifying the config.  This is only really used for
	// improving error reporting, etc.
	Name string
	// Maximum field bandwidth available in the field.  That is, the largest n
	// such that every value in 0..2^n is strictly below the modulus.
	BandWidth uint
}

// Fits checks whether values of a given bitwidth can be held by this field
// without wrapping around.
func (p Config) Fits(bitwidth uint) bool {
	return bitwidth <= p.BandWidth
}

// GetConfig returns the field configuration corresponding with the given
// name, or nil no such config exists.
func GetConfig(name string) *Config {
	for i := range FIELD_CONFIGS {
		if FIELD_CONFIGS[i].Name == name {
			return &FIELD_CONFIGS[i]
		}
	}
	//
	return nil
}
