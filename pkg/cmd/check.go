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
	"slices"

	"github.com/consensys/go-zkmem/pkg/image"
	"github.com/consensys/go-zkmem/pkg/ledger"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] transcript_file",
	Short: "Check a transcript previously written by run.",
	Long: `Check a transcript previously written by run balances, and that the
	records touching each cell form a single chain from birth to drain.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		file, err := os.Open(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		transcript, err := ledger.ReadTranscript(file)
		_ = file.Close()
		//
		if err != nil {
			fmt.Printf("%s: %s\n", args[0], err)
			os.Exit(2)
		}
		//
		if err := checkTranscript(transcript); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		fmt.Printf("transcript of run %s ok (%d records)\n", transcript.RunId, len(transcript.Entries))
	},
}

func checkTranscript(transcript ledger.Transcript) error {
	var trace = ledger.NewLedger()
	//
	for _, e := range transcript.Entries {
		trace.Append(e)
	}
	//
	if imbalances := trace.Balance(); len(imbalances) != 0 {
		return reportImbalances(imbalances)
	}
	//
	cells := touchedCells(transcript.Entries)
	log.Debugf("checking chains of %d cells", len(cells))
	//
	for _, c := range cells {
		if err := ledger.CheckChain(c.Space, c.Pointer, trace.Chain(c.Space, c.Pointer), true); err != nil {
			return err
		}
	}
	//
	return nil
}

// Determine every cell touched by at least one record, in ascending order.
func touchedCells(entries []ledger.Entry) []image.Cell {
	var (
		seen  = make(map[image.Cell]bool)
		cells []image.Cell
	)
	//
	for _, e := range entries {
		for i := range len(e.Data) {
			c := image.Cell{Space: e.Space, Pointer: e.Start + uint32(i)}
			//
			if !seen[c] {
				seen[c] = true
				cells = append(cells, c)
			}
		}
	}
	//
	slices.SortFunc(cells, image.Cell.Compare)
	//
	return cells
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
