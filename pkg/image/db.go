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
package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// IMAGE_VERSION identifies the current layout of image databases.
const IMAGE_VERSION uint8 = 1

// ErrNotImage indicates a database which does not hold an image.
var ErrNotImage = errors.New("not an image database")

var (
	metaBucket  = []byte("meta")
	headerKey   = []byte("header")
	spacePrefix = []byte("space/")
)

// Header describes the image held in a database.
type Header struct {
	Version    uint8  `msgpack:"version"`
	Chunk      uint32 `msgpack:"chunk"`
	Cells      int    `msgpack:"cells"`
	Commitment []byte `msgpack:"commitment"`
	// Identifier of the run which last wrote this image
	RunId string `msgpack:"run"`
}

// Each chunk is stored against its (big endian) start within the bucket for its
// address space.  Values are held in canonical form, and the mask identifies
// which are defined.
type chunkRecord struct {
	Mask   uint64   `msgpack:"mask"`
	Values []uint32 `msgpack:"values"`
}

// DB is an image stored in a bolt database.
type DB struct {
	bdb *bbolt.DB
}

// Open the image database at a given path, creating it if necessary (unless
// opening it read-only).
func Open(path string, readOnly bool) (*DB, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	bopt.ReadOnly = readOnly
	//
	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	//
	return &DB{bdb}, nil
}

// Close this database.
func (p *DB) Close() error {
	return p.bdb.Close()
}

// Header reads the header of the image in this database.
func (p *DB) Header() (Header, error) {
	var header Header
	//
	err := p.bdb.View(func(tx *bbolt.Tx) error {
		var err error
		header, err = readHeader(tx)
		//
		return err
	})
	//
	return header, err
}

// Read the image in this database, checking it against its commitment.
func (p *DB) Read() (*Image, Header, error) {
	var (
		image  *Image
		header Header
	)
	//
	err := p.bdb.View(func(tx *bbolt.Tx) error {
		var err error
		//
		if header, err = readHeader(tx); err != nil {
			return err
		}
		//
		image = NewImage(header.Chunk)
		//
		return tx.ForEach(func(name []byte, bucket *bbolt.Bucket) error {
			if !bytes.HasPrefix(name, spacePrefix) {
				return nil
			} else if len(name) != len(spacePrefix)+4 {
				return fmt.Errorf("image: malformed bucket %q", name)
			}
			//
			space := binary.BigEndian.Uint32(name[len(spacePrefix):])
			//
			return bucket.ForEach(func(key, value []byte) error {
				return readChunk(image, space, key, value)
			})
		})
	})
	//
	if err != nil {
		return nil, header, err
	} else if image.Len() != header.Cells {
		return nil, header, fmt.Errorf("image: expected %d cells, found %d", header.Cells, image.Len())
	} else if !bytes.Equal(image.Commit(), header.Commitment) {
		return nil, header, errors.New("image: commitment mismatch")
	}
	//
	return image, header, nil
}

// Write an image into this database, replacing whatever was there before.
func (p *DB) Write(image *Image, runId string) (Header, error) {
	var header = Header{IMAGE_VERSION, image.Chunk(), image.Len(), image.Commit(), runId}
	//
	err := p.bdb.Update(func(tx *bbolt.Tx) error {
		if err := clearAll(tx); err != nil {
			return err
		}
		//
		meta, err := tx.CreateBucket(metaBucket)
		if err != nil {
			return err
		}
		//
		encoded, err := msgpack.Marshal(&header)
		if err != nil {
			return err
		} else if err := meta.Put(headerKey, encoded); err != nil {
			return err
		}
		//
		return writeChunks(tx, image)
	})
	//
	if err != nil {
		return header, fmt.Errorf("image: %w", err)
	}
	//
	return header, nil
}

func readHeader(tx *bbolt.Tx) (Header, error) {
	var header Header
	//
	meta := tx.Bucket(metaBucket)
	if meta == nil {
		return header, ErrNotImage
	}
	//
	encoded := meta.Get(headerKey)
	if encoded == nil {
		return header, ErrNotImage
	} else if err := msgpack.Unmarshal(encoded, &header); err != nil {
		return header, fmt.Errorf("image: malformed header: %w", err)
	} else if header.Version != IMAGE_VERSION {
		return header, fmt.Errorf("image: unsupported version %d", header.Version)
	} else if header.Chunk == 0 || header.Chunk > 64 || header.Chunk&(header.Chunk-1) != 0 {
		return header, fmt.Errorf("image: invalid chunk size %d", header.Chunk)
	}
	//
	return header, nil
}

func readChunk(image *Image, space uint32, key, value []byte) error {
	var record chunkRecord
	//
	if len(key) != 4 {
		return fmt.Errorf("image: malformed key %x", key)
	} else if err := msgpack.Unmarshal(value, &record); err != nil {
		return fmt.Errorf("image: malformed chunk: %w", err)
	} else if uint32(len(record.Values)) != image.Chunk() {
		return fmt.Errorf("image: chunk has %d values, expected %d", len(record.Values), image.Chunk())
	}
	//
	start := binary.BigEndian.Uint32(key)
	//
	for i, v := range record.Values {
		if record.Mask&(1<<i) != 0 {
			image.Set(space, start+uint32(i), field.Uint32(v))
		}
	}
	//
	return nil
}

func writeChunks(tx *bbolt.Tx, image *Image) error {
	var (
		chunk   = image.Chunk()
		bucket  *bbolt.Bucket
		record  chunkRecord
		current = Cell{}
		started = false
	)
	// Flush the chunk currently being assembled
	flush := func() error {
		if !started {
			return nil
		}
		//
		encoded, err := msgpack.Marshal(&record)
		if err != nil {
			return err
		}
		//
		return bucket.Put(binary.BigEndian.AppendUint32(nil, current.Pointer), encoded)
	}
	//
	for _, c := range image.Cells() {
		start := Cell{c.Space, c.Pointer - c.Pointer%chunk}
		//
		if !started || start != current {
			if err := flush(); err != nil {
				return err
			}
			// New address space?
			if !started || start.Space != current.Space {
				var err error
				//
				name := binary.BigEndian.AppendUint32(bytes.Clone(spacePrefix), c.Space)
				if bucket, err = tx.CreateBucket(name); err != nil {
					return err
				}
			}
			//
			current, started = start, true
			record = chunkRecord{0, make([]uint32, chunk)}
		}
		//
		offset := c.Pointer - start.Pointer
		value, _ := image.Get(c.Space, c.Pointer)
		record.Mask |= 1 << offset
		record.Values[offset] = field.ToUint32(value)
	}
	//
	return flush()
}

// Remove every bucket from the database.
func clearAll(tx *bbolt.Tx) error {
	var names [][]byte
	//
	if err := tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
		names = append(names, bytes.Clone(name))
		return nil
	}); err != nil {
		return err
	}
	//
	for _, name := range names {
		if err := tx.DeleteBucket(name); err != nil {
			return err
		}
	}
	//
	return nil
}
