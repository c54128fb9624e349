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

	"github.com/consensys/go-zkmem/pkg/workload"
	"github.com/spf13/cobra"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] workload_file",
	Short: "Generate a random self-checking workload.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if err := GenerateWorkload(cmd, args[0]); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

func genConfig(cmd *cobra.Command) workload.GenConfig {
	return workload.GenConfig{
		Accesses:    GetUint(cmd, "accesses"),
		Spaces:      GetUint(cmd, "spaces"),
		PointerBits: GetUint(cmd, "pointers"),
		MaxSizeBits: GetUint(cmd, "sizes"),
		Chunk:       uint32(GetUint(cmd, "gen-chunk")),
		Aligned:     GetFlag(cmd, "aligned"),
	}
}

// Write a given workload as JSON into a given file.
func writeWorkload(filename string, w *workload.Workload) error {
	bytes, err := w.ToJSON()
	if err != nil {
		return err
	}
	//
	return os.WriteFile(filename, bytes, 0644)
}

// AddGenFlags adds the flags used to configure workload generation to a given
// command.
func AddGenFlags(cmd *cobra.Command) {
	cmd.Flags().Uint("accesses", 100, "number of accesses")
	cmd.Flags().Uint("spaces", 2, "number of address spaces")
	cmd.Flags().Uint("pointers", 8, "pointer bitwidth")
	cmd.Flags().Uint("sizes", 3, "largest access size (as a power of two)")
	cmd.Flags().Uint("gen-chunk", 1, "chunk size")
	cmd.Flags().Bool("aligned", false, "align accesses to their size")
}

// GenerateWorkload generates a workload using the flags added by AddGenFlags
// and writes it into a given file.
func GenerateWorkload(cmd *cobra.Command, filename string) error {
	config := genConfig(cmd)
	//
	if err := config.Validate(); err != nil {
		return err
	}
	//
	return writeWorkload(filename, workload.Generate(config))
}

func init() {
	rootCmd.AddCommand(genCmd)
	AddGenFlags(genCmd)
}
