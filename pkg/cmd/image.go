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

	"github.com/consensys/go-zkmem/pkg/image"
	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/consensys/go-zkmem/pkg/util/termio"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage the image databases of persistent memories.",
}

var imageInitCmd = &cobra.Command{
	Use:   "init [flags] image_db image_file",
	Short: "Create an image database from a JSON image.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		bytes, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		img, err := image.FromJSON(bytes)
		if err != nil {
			fmt.Printf("%s: %s\n", args[1], err)
			os.Exit(2)
		}
		//
		if err := writeImage(args[0], img); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
	},
}

var imageShowCmd = &cobra.Command{
	Use:   "show [flags] image_db",
	Short: "Print the contents of an image database.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if err := showImage(args[0], GetFlag(cmd, "json")); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
	},
}

func writeImage(filename string, img *image.Image) error {
	db, err := image.Open(filename, false)
	if err != nil {
		return err
	}
	//
	defer db.Close()
	//
	header, err := db.Write(img, uuid.NewString())
	if err != nil {
		return err
	}
	//
	log.Infof("wrote %d cells to %s (commitment 0x%x)", header.Cells, filename, header.Commitment)
	//
	return nil
}

func showImage(filename string, asJson bool) error {
	db, err := image.Open(filename, true)
	if err != nil {
		return err
	}
	//
	defer db.Close()
	//
	img, header, err := db.Read()
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	} else if !asJson {
		printImage(img, header)
		return nil
	}
	//
	bytes, err := img.ToJSON()
	if err != nil {
		return err
	}
	//
	fmt.Println(string(bytes))
	//
	return nil
}

func printImage(img *image.Image, header image.Header) {
	table := termio.NewTablePrinter(3, 1)
	table.SetRow(0, "space", "pointer", "value")
	//
	for _, c := range img.Cells() {
		value, _ := img.Get(c.Space, c.Pointer)
		table.AddRow(fmt.Sprintf("%d", c.Space), fmt.Sprintf("%d", c.Pointer), field.Format([]field.Element{value}))
	}
	//
	table.AnsiEscapes(false)
	table.Print(os.Stdout)
	fmt.Printf("chunk %d, %d cells, written by %s\n", header.Chunk, header.Cells, header.RunId)
	fmt.Printf("commitment 0x%x\n", header.Commitment)
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageInitCmd)
	imageCmd.AddCommand(imageShowCmd)
	imageShowCmd.Flags().Bool("json", false, "print the image as JSON")
}
