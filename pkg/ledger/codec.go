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
package ledger

import (
	"fmt"
	"io"

	"github.com/consensys/go-zkmem/pkg/util/field"
	"github.com/vmihailenco/msgpack/v5"
)

// TRANSCRIPT_VERSION identifies the current layout of encoded transcripts.
const TRANSCRIPT_VERSION uint8 = 1

// Transcript is a ledger snapshot suitable for writing to disk, along with the
// identifier of the run which produced it.
type Transcript struct {
	RunId   string
	Entries []Entry
}

type wireTranscript struct {
	Version uint8       `msgpack:"version"`
	RunId   string      `msgpack:"run"`
	Entries []wireEntry `msgpack:"entries"`
}

// Data values are held in canonical form, rather than Montgomery form.
type wireEntry struct {
	Bus       uint32   `msgpack:"bus"`
	Sign      int8     `msgpack:"sign"`
	Kind      uint8    `msgpack:"kind"`
	Space     uint32   `msgpack:"space"`
	Start     uint32   `msgpack:"start"`
	Data      []uint32 `msgpack:"data"`
	Timestamp uint32   `msgpack:"ts"`
}

// WriteTranscript encodes a given transcript using MsgPack.
func WriteTranscript(w io.Writer, transcript Transcript) error {
	wire := wireTranscript{TRANSCRIPT_VERSION, transcript.RunId, make([]wireEntry, len(transcript.Entries))}
	//
	for i, e := range transcript.Entries {
		wire.Entries[i] = wireEntry{uint32(e.Bus), int8(e.Sign), uint8(e.Kind), e.Space, e.Start,
			field.ToUint32s(e.Data), e.Timestamp}
	}
	//
	return msgpack.NewEncoder(w).Encode(&wire)
}

// ReadTranscript decodes a transcript previously written with WriteTranscript.
func ReadTranscript(r io.Reader) (Transcript, error) {
	var wire wireTranscript
	//
	if err := msgpack.NewDecoder(r).Decode(&wire); err != nil {
		return Transcript{}, fmt.Errorf("failed to decode transcript: %w", err)
	} else if wire.Version != TRANSCRIPT_VERSION {
		return Transcript{}, fmt.Errorf("unsupported transcript version %d", wire.Version)
	}
	//
	transcript := Transcript{wire.RunId, make([]Entry, len(wire.Entries))}
	//
	for i, e := range wire.Entries {
		transcript.Entries[i] = Entry{Bus(e.Bus), Sign(e.Sign), Kind(e.Kind), e.Space, e.Start,
			field.Elements(e.Data...), e.Timestamp}
	}
	//
	return transcript, nil
}
