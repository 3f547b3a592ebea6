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

package fixture

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Blobby VLQ: big-endian groups of 7 bits, every byte but the last has its
// high bit set, and each continuation adds one to the accumulated value so
// that every integer has exactly one encoding.
const (
	vlqNext = 0x80
	vlqVal  = 0x7f
	maxVLQ  = 4
)

var errUnexpectedEnd = errors.New("blobby: unexpected end of data")

func appendVLQ(b []byte, val int) ([]byte, error) {
	if val < 0 {
		return nil, fmt.Errorf("blobby: negative value %d", val)
	}
	v := val
	var buf [maxVLQ]byte
	i := maxVLQ - 1
	buf[i] = byte(v & vlqVal)
	v >>= 7
	for v != 0 {
		if i == 0 {
			return nil, fmt.Errorf("blobby: value %d does not fit in %d bytes", val, maxVLQ)
		}
		i--
		v--
		buf[i] = vlqNext | byte(v&vlqVal)
		v >>= 7
	}
	return append(b, buf[i:]...), nil
}

func readVLQ(data []byte, pos *int) (int, error) {
	if *pos >= len(data) {
		return 0, errUnexpectedEnd
	}
	b := data[*pos]
	*pos++
	val := int(b & vlqVal)
	for n := 1; b&vlqNext != 0; n++ {
		if n == maxVLQ {
			return 0, fmt.Errorf("blobby: VLQ longer than %d bytes", maxVLQ)
		}
		if *pos >= len(data) {
			return 0, errUnexpectedEnd
		}
		b = data[*pos]
		*pos++
		val = ((val + 1) << 7) | int(b&vlqVal)
	}
	return val, nil
}

func readBlob(data []byte, pos *int, n int) ([]byte, error) {
	if n > len(data)-*pos {
		return nil, errUnexpectedEnd
	}
	blob := data[*pos : *pos+n]
	*pos += n
	return blob, nil
}

type indexEntry struct {
	blob  []byte
	count int
	first int
}

// priority ranks the single-byte result encodings ahead of every other blob
// so they get the shortest references.
func (e *indexEntry) priority() int {
	switch {
	case len(e.blob) == 1 && e.blob[0] == 0:
		return 2
	case len(e.blob) == 1 && e.blob[0] == 1:
		return 1
	default:
		return 0
	}
}

// EncodeBlobs encodes blobs in the blobby format and returns the encoding and
// the number of deduplicated blobs stored in its index.
//
// Every non-empty blob that occurs more than once is stored once in the index
// and referenced from the blob list. The output only depends on blobs.
func EncodeBlobs(blobs [][]byte) ([]byte, int, error) {
	seen := make(map[string]*indexEntry)
	var entries []*indexEntry
	for i, b := range blobs {
		if len(b) == 0 {
			continue
		}
		e, ok := seen[string(b)]
		if !ok {
			e = &indexEntry{blob: b, first: i}
			seen[string(b)] = e
			entries = append(entries, e)
		}
		e.count++
	}

	var index []*indexEntry
	for _, e := range entries {
		if e.count > 1 {
			index = append(index, e)
		}
	}
	slices.SortFunc(index, func(a, b *indexEntry) int {
		if c := cmp.Compare(b.priority(), a.priority()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})

	out, err := appendVLQ(nil, len(index))
	if err != nil {
		return nil, 0, err
	}
	positions := make(map[string]int, len(index))
	for pos, e := range index {
		positions[string(e.blob)] = pos
		if out, err = appendVLQ(out, len(e.blob)); err != nil {
			return nil, 0, err
		}
		out = append(out, e.blob...)
	}
	for _, b := range blobs {
		if pos, ok := positions[string(b)]; ok {
			if out, err = appendVLQ(out, pos<<1|1); err != nil {
				return nil, 0, err
			}
			continue
		}
		if out, err = appendVLQ(out, len(b)<<1); err != nil {
			return nil, 0, err
		}
		out = append(out, b...)
	}
	return out, len(index), nil
}

// DecodeBlobs decodes a blob list encoded by EncodeBlobs. The returned blobs
// alias data.
func DecodeBlobs(data []byte) ([][]byte, error) {
	pos := 0
	n, err := readVLQ(data, &pos)
	if err != nil {
		return nil, err
	}
	if n > len(data)-pos {
		return nil, fmt.Errorf("blobby: index length %d exceeds data", n)
	}
	index := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		l, err := readVLQ(data, &pos)
		if err != nil {
			return nil, err
		}
		blob, err := readBlob(data, &pos, l)
		if err != nil {
			return nil, err
		}
		index = append(index, blob)
	}

	var blobs [][]byte
	for pos < len(data) {
		v, err := readVLQ(data, &pos)
		if err != nil {
			return nil, err
		}
		if v&1 == 1 {
			i := v >> 1
			if i >= len(index) {
				return nil, fmt.Errorf("blobby: reference to index entry %d, index has %d entries", i, len(index))
			}
			blobs = append(blobs, index[i])
			continue
		}
		blob, err := readBlob(data, &pos, v>>1)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

// ReadBlobby decodes a blobby fixture and groups its blobs into records of
// arity blobs each.
func ReadBlobby(data []byte, arity int) ([]*TestInfo, error) {
	if arity <= 0 {
		return nil, fmt.Errorf("blobby: invalid arity %d", arity)
	}
	blobs, err := DecodeBlobs(data)
	if err != nil {
		return nil, err
	}
	if len(blobs)%arity != 0 {
		return nil, fmt.Errorf("blobby: %d blobs do not form records of %d", len(blobs), arity)
	}
	infos := make([]*TestInfo, 0, len(blobs)/arity)
	for i := 0; i < len(blobs); i += arity {
		infos = append(infos, &TestInfo{Data: blobs[i : i+arity : i+arity]})
	}
	return infos, nil
}
