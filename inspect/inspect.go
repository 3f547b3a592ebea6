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

// Package inspect reports on the contents of a Wycheproof ECDSA verification
// file without converting it.
package inspect

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tink-crypto/wycheproof2blb/ecdsa"
	"github.com/tink-crypto/wycheproof2blb/internal/ec"
	"github.com/tink-crypto/wycheproof2blb/internal/ecsig"
	"github.com/tink-crypto/wycheproof2blb/wycheproof"
)

// Report summarizes a test vector file.
type Report struct {
	Algorithm string
	Version   wycheproof.SchemaVersion
	// Generator is the generatorVersion of legacy files and the schema of v1
	// files.
	Generator string
	// Declared is the numberOfTests field of the file.
	Declared int
	Groups   int
	Cases    int
	Results  map[wycheproof.Result]int
	// Records is the number of records the converter emits for the file.
	Records int
	Flags   map[string]int
	Curves  map[string]int
	Hashes  map[string]int
	Layouts map[ecsig.Layout]int
	// Problems lists groups that the converter or a verifier would reject
	// for structural reasons: unknown curves, unsupported hash functions and
	// key coordinates larger than the field size.
	Problems []string
	Digest   string
}

// Summarize decodes data as an ECDSA verification file of schema version v
// and reports on it. Signatures are classified by layout, never verified.
func Summarize(data []byte, v wycheproof.SchemaVersion) (*Report, error) {
	suite, err := ecdsa.Decode(data, v)
	if err != nil {
		return nil, err
	}
	digest, err := wycheproof.Digest(data)
	if err != nil {
		return nil, err
	}
	r := &Report{
		Algorithm: suite.Algorithm,
		Version:   v,
		Generator: suite.GeneratorVersion,
		Declared:  suite.NumberOfTests,
		Groups:    len(suite.TestGroups),
		Results:   make(map[wycheproof.Result]int),
		Flags:     make(map[string]int),
		Curves:    make(map[string]int),
		Hashes:    make(map[string]int),
		Layouts:   make(map[ecsig.Layout]int),
		Digest:    digest,
	}
	if v == wycheproof.V1 {
		r.Generator = suite.Schema
	}
	for i, g := range suite.TestGroups {
		r.Curves[g.Key.Curve]++
		r.Hashes[g.SHA]++
		if !ecdsa.SupportedHash(g.SHA) {
			r.Problems = append(r.Problems, fmt.Sprintf("group %d: unsupported hash %s", i, g.SHA))
		}
		curve, ok := ec.CurveByName(g.Key.Curve)
		if !ok {
			r.Problems = append(r.Problems, fmt.Sprintf("group %d: unknown curve %s", i, g.Key.Curve))
		} else {
			for name, coord := range map[string][]byte{"wx": g.Key.Wx, "wy": g.Key.Wy} {
				if !curve.FitsFieldSize(coord) {
					r.Problems = append(r.Problems, fmt.Sprintf("group %d: %s does not fit %s", i, name, curve.Name))
				}
			}
		}
		for _, tc := range g.Tests {
			r.Cases++
			r.Results[tc.Result]++
			if tc.Result != wycheproof.Acceptable {
				r.Records++
			}
			for _, f := range tc.Flags {
				r.Flags[f]++
			}
			r.Layouts[ecsig.Classify(tc.Sig, curve)]++
		}
	}
	sort.Strings(r.Problems)
	return r, nil
}

// WriteTo writes r as aligned "key: value" lines. Map valued fields are
// written one key per line in sorted order.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	line := func(key string, value any) {
		fmt.Fprintf(&b, "%-10s %v\n", key+":", value)
	}
	line("algorithm", r.Algorithm)
	line("schema", r.Version)
	line("generator", r.Generator)
	line("digest", r.Digest)
	line("groups", r.Groups)
	line("cases", fmt.Sprintf("%d (declared %d)", r.Cases, r.Declared))
	line("records", r.Records)
	for _, res := range []wycheproof.Result{wycheproof.Valid, wycheproof.Invalid, wycheproof.Acceptable} {
		line("result", fmt.Sprintf("%s %d", res, r.Results[res]))
	}
	for _, l := range []ecsig.Layout{ecsig.DER, ecsig.P1363, ecsig.Other} {
		line("layout", fmt.Sprintf("%s %d", l, r.Layouts[l]))
	}
	writeCounts(&b, "curve", r.Curves)
	writeCounts(&b, "hash", r.Hashes)
	writeCounts(&b, "flag", r.Flags)
	for _, p := range r.Problems {
		line("problem", p)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeCounts(b *strings.Builder, key string, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "%-10s %s %d\n", key+":", name, counts[name])
	}
}
