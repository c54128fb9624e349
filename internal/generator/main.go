package main

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "consensys/go-zkmem")

	specs := []sizeSpecs{
		{Package: "memory", MaxBits: 6},
	}

	for _, spec := range specs {
		cfg, err := spec.config()
		assertNoError(err, "for package \"%s\"", spec.Package)

		assertNoError(bgen.Generate(cfg, spec.Package, "templates",
			bavard.Entry{
				File:      fmt.Sprintf("../../pkg/%s/sizes_gen.go", spec.Package),
				Templates: []string{"sizes.go.tmpl"},
			},
		), "for package \"%s\"", spec.Package)
	}
	// run gofmt on whole directory
	runCmd("gofmt", "-w", "../../pkg/")
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

// sizeSpecs identifies a package requiring a block size table, along with the
// largest block size (as a power of two) it supports.
type sizeSpecs struct {
	Package string
	MaxBits uint
}

type sizeConfig struct {
	sizeSpecs
	Sizes []uint32
}

func (f sizeSpecs) config() (*sizeConfig, error) {
	specs := sizeConfig{
		sizeSpecs: f,
	}

	if f.MaxBits > 31 { // must fit in a uint32
		return nil, fmt.Errorf("block sizes must be less than 2³²")
	}

	for i := uint(0); i <= f.MaxBits; i++ {
		specs.Sizes = append(specs.Sizes, uint32(1)<<i)
	}

	return &specs, nil
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
