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
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the protowire fixture:
//
//	message Fixture { repeated Record records = 1; }
//	message Record { repeated bytes data = 1; string desc = 2; }
const (
	fixtureRecordsField protowire.Number = 1
	recordDataField     protowire.Number = 1
	recordDescField     protowire.Number = 2
)

// EncodeProtowire encodes infos as a Fixture message.
func EncodeProtowire(infos []*TestInfo) []byte {
	var out []byte
	for _, info := range infos {
		var rec []byte
		for _, d := range info.Data {
			rec = protowire.AppendTag(rec, recordDataField, protowire.BytesType)
			rec = protowire.AppendBytes(rec, d)
		}
		if info.Desc != "" {
			rec = protowire.AppendTag(rec, recordDescField, protowire.BytesType)
			rec = protowire.AppendString(rec, info.Desc)
		}
		out = protowire.AppendTag(out, fixtureRecordsField, protowire.BytesType)
		out = protowire.AppendBytes(out, rec)
	}
	return out
}

// DecodeProtowire decodes a Fixture message. Unknown fields are skipped.
func DecodeProtowire(b []byte) ([]*TestInfo, error) {
	var infos []*TestInfo
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("protowire: %w", protowire.ParseError(n))
		}
		b = b[n:]
		if num != fixtureRecordsField || typ != protowire.BytesType {
			if n = protowire.ConsumeFieldValue(num, typ, b); n < 0 {
				return nil, fmt.Errorf("protowire: %w", protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		rec, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, fmt.Errorf("protowire: %w", protowire.ParseError(n))
		}
		b = b[n:]
		info, err := decodeRecord(rec)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func decodeRecord(b []byte) (*TestInfo, error) {
	info := new(TestInfo)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("protowire: record: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == recordDataField && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("protowire: record data: %w", protowire.ParseError(n))
			}
			info.Data = append(info.Data, v)
			b = b[n:]
		case num == recordDescField && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("protowire: record desc: %w", protowire.ParseError(n))
			}
			info.Desc = v
			b = b[n:]
		default:
			if n = protowire.ConsumeFieldValue(num, typ, b); n < 0 {
				return nil, fmt.Errorf("protowire: record: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return info, nil
}
