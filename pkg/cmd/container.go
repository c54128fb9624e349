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
	"errors"
	"fmt"

	"github.com/consensys/go-zkmem/pkg/image"
	"github.com/consensys/go-zkmem/pkg/ledger"
	"github.com/consensys/go-zkmem/pkg/memory"
	log "github.com/sirupsen/logrus"
	"go.uber.org/dig"
)

// runContext captures everything needed to assemble the components of a run.
type runContext struct {
	Config memory.Config
	// Path of the image database (persistent runs only)
	ImagePath string
	// Unique identifier for this run
	RunId string
}

// imageStore pairs an image database with the image read from it.  Both are
// nil for volatile runs.
type imageStore struct {
	db     *image.DB
	image  *image.Image
	header image.Header
}

// Close the underlying database (if any).
func (p *imageStore) Close() error {
	if p.db == nil {
		return nil
	}
	//
	return p.db.Close()
}

// Assemble the components of a run: configuration, then image, then boundary,
// then ledger, then memory.
func newContainer(ctx runContext) (*dig.Container, error) {
	container := dig.New()
	constructors := []any{
		func() runContext { return ctx },
		provideImage,
		provideBoundary,
		ledger.NewLedger,
		provideMemory,
	}
	//
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}
	//
	return container, nil
}

func provideImage(ctx runContext) (*imageStore, error) {
	switch {
	case ctx.Config.Mode == memory.VOLATILE:
		return &imageStore{}, nil
	case ctx.ImagePath == "":
		return nil, errors.New("persistent memory requires an image")
	}
	//
	db, err := image.Open(ctx.ImagePath, false)
	if err != nil {
		return nil, err
	}
	//
	img, header, err := db.Read()
	//
	if err == nil && img.Chunk() != ctx.Config.MinBlockSize {
		err = fmt.Errorf("image chunk %d does not match memory chunk %d", img.Chunk(), ctx.Config.MinBlockSize)
	}
	//
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", ctx.ImagePath, err)
	}
	//
	log.Debugf("loaded image %s (%d cells, last written by %s)", ctx.ImagePath, header.Cells, header.RunId)
	//
	return &imageStore{db, img, header}, nil
}

func provideBoundary(ctx runContext, store *imageStore) memory.Boundary {
	if ctx.Config.Mode == memory.PERSISTENT {
		return memory.NewPersistent(store.image)
	}
	//
	return &memory.Volatile{}
}

func provideMemory(ctx runContext, boundary memory.Boundary, trace *ledger.Ledger) (*memory.Memory, error) {
	return memory.NewMemory(ctx.Config, boundary, trace)
}
