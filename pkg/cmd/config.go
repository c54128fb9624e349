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
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/consensys/go-zkmem/pkg/memory"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ENV_FILE is the file from which environment defaults are loaded (if it
// exists).
const ENV_FILE = ".env"

// Load the memory configuration.  This starts from the default configuration,
// which is overridden by any ZKMEM_XXX variables in the environment (or the
// .env file), which are in turn overridden by any flags given.
func loadConfig(cmd *cobra.Command) (memory.Config, error) {
	var config = memory.DefaultConfig()
	// Missing .env files are fine
	if err := godotenv.Load(ENV_FILE); err == nil {
		log.Debugf("loaded environment from %s", ENV_FILE)
	}
	//
	settings := []struct {
		env  string
		flag string
		set  func(uint)
	}{
		{"ZKMEM_CHUNK", "chunk", func(v uint) { config.MinBlockSize = uint32(v) }},
		{"ZKMEM_MAX_BLOCK", "max-block", func(v uint) { config.MaxBlockSize = uint32(v) }},
		{"ZKMEM_POINTER_MAX_BITS", "pointer-bits", func(v uint) { config.PointerMaxBits = v }},
		{"ZKMEM_TIMESTAMP_MAX_BITS", "timestamp-bits", func(v uint) { config.TimestampMaxBits = v }},
		{"ZKMEM_ADDR_SPACE_MAX_BITS", "space-bits", func(v uint) { config.AddrSpaceMaxBits = v }},
	}
	//
	for _, s := range settings {
		if val, ok := os.LookupEnv(s.env); ok {
			n, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return config, fmt.Errorf("invalid %s: %w", s.env, err)
			}
			//
			s.set(uint(n))
		}
		//
		if cmd.Flags().Changed(s.flag) {
			s.set(GetUint(cmd, s.flag))
		}
	}
	//
	if val, ok := os.LookupEnv("ZKMEM_MODE"); ok {
		mode, err := memory.ParseMode(val)
		if err != nil {
			return config, err
		}
		//
		config.Mode = mode
	}
	//
	return config, nil
}
