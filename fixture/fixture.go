// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fixture defines the records produced by the test vector converters
// and the binary fixture formats they are written in.
package fixture

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TestInfo is one converted test case: the byte strings handed to the test
// harness, in the order the harness expects them, and a one-line description.
type TestInfo struct {
	Data [][]byte
	Desc string
}

// GeneratorFunc converts the contents of a test vector file into records.
// algorithm is the algorithm the caller expects the file to describe and
// keySize its key size in bits.
type GeneratorFunc func(data []byte, algorithm string, keySize uint32) ([]*TestInfo, error)

// Flatten returns the data of every record, in order.
func Flatten(infos []*TestInfo) [][]byte {
	var blobs [][]byte
	for _, info := range infos {
		blobs = append(blobs, info.Data...)
	}
	return blobs
}

// Format is an on-disk encoding of a list of records.
type Format string

const (
	// FormatBlobby stores the flattened record data as a deduplicated blob
	// list. Descriptions are written to a separate file.
	FormatBlobby Format = "blb"
	// FormatProtowire stores records, descriptions included, as a protobuf
	// message.
	FormatProtowire Format = "protowire"
)

// ParseFormat parses the name of a fixture format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatBlobby, FormatProtowire:
		return f, nil
	default:
		return "", fmt.Errorf("unknown fixture format %q, want %q or %q", s, FormatBlobby, FormatProtowire)
	}
}

// Ext returns the file extension used for fixtures in format f.
func (f Format) Ext() string {
	if f == FormatProtowire {
		return ".pb"
	}
	return ".blb"
}

// Write encodes infos in format f to w.
func Write(w io.Writer, infos []*TestInfo, f Format) error {
	var out []byte
	switch f {
	case FormatBlobby:
		var err error
		if out, _, err = EncodeBlobs(Flatten(infos)); err != nil {
			return err
		}
	case FormatProtowire:
		out = EncodeProtowire(infos)
	default:
		return fmt.Errorf("unknown fixture format %q", f)
	}
	_, err := w.Write(out)
	return err
}

// Read decodes a fixture in format f. For FormatBlobby, arity is the number
// of blobs per record and descriptions are left empty.
func Read(data []byte, f Format, arity int) ([]*TestInfo, error) {
	switch f {
	case FormatBlobby:
		return ReadBlobby(data, arity)
	case FormatProtowire:
		return DecodeProtowire(data)
	default:
		return nil, fmt.Errorf("unknown fixture format %q", f)
	}
}

// WriteDescriptions writes the description of every record to w, one per
// line.
func WriteDescriptions(w io.Writer, infos []*TestInfo) error {
	bw := bufio.NewWriter(w)
	for _, info := range infos {
		if strings.ContainsAny(info.Desc, "\r\n") {
			return fmt.Errorf("description %q spans several lines", info.Desc)
		}
		if _, err := fmt.Fprintln(bw, info.Desc); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadDescriptions reads a description file written by WriteDescriptions.
func ReadDescriptions(r io.Reader) ([]string, error) {
	var descs []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for s.Scan() {
		descs = append(descs, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return descs, nil
}
