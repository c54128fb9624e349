package main

import (
	"fmt"
	"os"

	util "github.com/consensys/go-zkmem/pkg/cmd"
	"github.com/consensys/go-zkmem/pkg/workload"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint("accesses", 200, "Number of accesses per workload")
	rootCmd.Flags().Uint("count", 1, "Number of workloads to generate")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen [flags] model",
	Short: "Test generation utility for go-zkmem.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Lookup model
		model := findModel(args[0])
		model.Config.Accesses = util.GetUint(cmd, "accesses")
		count := util.GetUint(cmd, "count")
		// Generate & write out
		for i := uint(0); i < count; i++ {
			writeTestWorkload(model, i, workload.Generate(model.Config))
		}
		os.Exit(0)
	},
}

// Model represents a named family of workloads.
type Model struct {
	// Name of the model in question
	Name string
	// Configuration used to generate workloads for this model
	Config workload.GenConfig
}

var models []Model = []Model{
	{"aligned", workload.GenConfig{Spaces: 2, PointerBits: 6, MaxSizeBits: 4, Chunk: 1, Aligned: true}},
	{"unaligned", workload.GenConfig{Spaces: 2, PointerBits: 6, MaxSizeBits: 4, Chunk: 1}},
	{"chunked", workload.GenConfig{Spaces: 3, PointerBits: 8, MaxSizeBits: 3, Chunk: 4}},
	{"wide", workload.GenConfig{Spaces: 1, PointerBits: 10, MaxSizeBits: 6, Chunk: 8, Aligned: true}},
}

func findModel(name string) Model {
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	// Failed
	panic(fmt.Sprintf("unknown model \"%s\"", name))
}

func writeTestWorkload(model Model, index uint, w *workload.Workload) {
	filename := fmt.Sprintf("testdata/%s.auto.%d.json", model.Name, index)
	//
	bytes, err := w.ToJSON()
	if err == nil {
		err = os.WriteFile(filename, bytes, 0644)
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Infof("Wrote %s (%d accesses)", filename, len(w.Accesses))
}
