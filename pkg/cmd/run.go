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

	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/memory"
	"github.com/consensys/go-zkmem/pkg/timestamp"
	"github.com/consensys/go-zkmem/pkg/util"
	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/consensys/go-zkmem/pkg/util/termio"
	"github.com/consensys/go-zkmem/pkg/workload"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] workload_file",
	Short: "Execute a workload against the memory.",
	Long: `Execute a workload of reads and writes against the memory, checking
	every read returns what was expected and that the resulting transcript
	balances.  When an image is given, the memory is persistent and the image
	is updated at the end.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg runConfig
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg.imagePath = GetString(cmd, "image")
		cfg.dumpPath = GetString(cmd, "dump")
		cfg.transcript = GetFlag(cmd, "transcript")
		cfg.stats = GetFlag(cmd, "stats")
		// Read workload
		w := readWorkloadFile(args[0])
		// Determine configuration
		config, err := loadConfig(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		applyWorkload(&config, w)
		//
		if cfg.imagePath != "" {
			config.Mode = memory.PERSISTENT
		}
		// Go!
		if err := runWorkload(config, cfg, w); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
	},
}

// runConfig encapsulates the options for a single run.
type runConfig struct {
	// Image database to use (persistent runs only)
	imagePath string
	// File to which the transcript should be written (if any)
	dumpPath string
	// Print the transcript
	transcript bool
	// Print operation counts
	stats bool
}

// Apply the overrides of a workload to a given configuration.
func applyWorkload(config *memory.Config, w *workload.Workload) {
	if w.Chunk != 0 {
		config.MinBlockSize = w.Chunk
	}
	//
	if w.Mode != "" {
		// Already validated by the parser
		config.Mode, _ = memory.ParseMode(w.Mode)
	}
}

func runWorkload(config memory.Config, cfg runConfig, w *workload.Workload) error {
	var (
		ctx   = runContext{config, cfg.imagePath, uuid.NewString()}
		stats = util.NewPerfStats("setup")
	)
	//
	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	//
	log.Infof("run %s (%s memory, %d accesses)", ctx.RunId, config.Mode, len(w.Accesses))
	//
	return container.Invoke(func(mem *memory.Memory, trace *ledger.Ledger, store *imageStore) error {
		defer store.Close()
		//
		stats.Next("replay")
		result, err := workload.Replay(mem, timestamp.NewCounter(config.TimestampMaxBits), w)
		if err != nil {
			return err
		}
		//
		stats.Next("finalize")
		drained, err := mem.FinalizeAll()
		if err != nil {
			return err
		}
		//
		stats.Log()
		log.Infof("%d reads, %d writes, %d expected faults, %d records", result.Reads, result.Writes,
			result.Faults, trace.Len())
		//
		if cfg.transcript {
			printTranscript(trace.Entries(), termio.IsTerminal(os.Stdout))
		}
		//
		if cfg.stats {
			printStats(mem.Stats())
		}
		//
		if imbalances := trace.Balance(); len(imbalances) != 0 {
			return reportImbalances(imbalances)
		}
		//
		if cfg.dumpPath != "" {
			if err := dumpTranscript(cfg.dumpPath, ctx.RunId, trace.Entries()); err != nil {
				return err
			}
		}
		// Fold results back into image
		if store.image != nil {
			if err := store.image.Fold(drained); err != nil {
				return err
			}
			//
			header, err := store.db.Write(store.image, ctx.RunId)
			if err != nil {
				return err
			}
			//
			log.Infof("updated image %s (%d cells, commitment 0x%x)", cfg.imagePath, header.Cells, header.Commitment)
		}
		//
		return nil
	})
}

func dumpTranscript(filename string, runId string, entries []ledger.Entry) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	//
	defer file.Close()
	//
	return ledger.WriteTranscript(file, ledger.Transcript{RunId: runId, Entries: entries})
}

func reportImbalances(imbalances []ledger.Imbalance) error {
	const limit = 10
	//
	for i, imbalance := range imbalances {
		if i == limit {
			fmt.Printf("... (%d more)\n", len(imbalances)-limit)
			break
		}
		//
		fmt.Printf("imbalance: %s\n", imbalance.String())
	}
	//
	return fmt.Errorf("transcript does not balance (%d imbalances)", len(imbalances))
}

// Print a transcript as a table, colouring sends and receives differently.
func printTranscript(entries []ledger.Entry, escapes bool) {
	table := termio.NewTablePrinter(7, 1)
	table.SetRow(0, "#", "kind", "sign", "space", "start", "data", "time")
	//
	for i, e := range entries {
		row := table.AddRow(fmt.Sprintf("%d", i), e.Kind.String(), e.Sign.String(), fmt.Sprintf("%d", e.Space),
			fmt.Sprintf("%d", e.Start), field.Format(e.Data), fmt.Sprintf("%d", e.Timestamp))
		//
		colour := termio.TERM_GREEN
		if e.Sign == ledger.RECEIVE {
			colour = termio.TERM_RED
		}
		//
		table.SetEscape(2, row, termio.NewAnsiEscape().FgColour(colour).Build())
	}
	//
	table.SetMaxWidth(5, 48)
	table.AnsiEscapes(escapes)
	table.Print(os.Stdout)
}

// Print operation counts by block size.
func printStats(stats memory.Stats) {
	table := termio.NewTablePrinter(5, 1)
	table.SetRow(0, "size", "splits", "merges", "reads", "writes")
	//
	for _, row := range stats.Rows() {
		table.AddRow(row...)
	}
	//
	table.Print(os.Stdout)
	fmt.Printf("%d births, %d drains, %d records\n", stats.Births, stats.Drains, stats.Records())
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("image", "", "image database for a persistent memory")
	runCmd.Flags().String("dump", "", "write the transcript to a given file")
	runCmd.Flags().BoolP("transcript", "t", false, "print the transcript")
	runCmd.Flags().Bool("stats", false, "print operation counts by block size")
}
