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

// Package ecdsa converts Wycheproof ECDSA signature verification test vectors
// into fixture records.
//
// Each emitted record holds, in order, the x and y coordinates of the public
// key, the message, the signature and a single byte with the expected result
// (see wycheproof.ResultByte).
package ecdsa

import (
	"slices"
	"strings"

	"github.com/tink-crypto/wycheproof2blb/fixture"
	"github.com/tink-crypto/wycheproof2blb/wycheproof"
)

// Arity is the number of byte strings in each record produced by this
// package.
const Arity = 5

// algorithmFamily may qualify the algorithm names given to Generate, as in
// "ECDSA_secp256r1". Curves are matched against the name with and without it.
const algorithmFamily = "ECDSA_"

var supportedHashes = []string{"SHA-224", "SHA-256", "SHA-384", "SHA-512"}

var (
	_ fixture.GeneratorFunc = Generator
	_ fixture.GeneratorFunc = GeneratorV1
)

// Generator converts a legacy (pre-v1) Wycheproof ECDSA verification file.
// keySize is unused.
func Generator(data []byte, algorithm string, keySize uint32) ([]*fixture.TestInfo, error) {
	return Generate(data, algorithm, keySize, wycheproof.Legacy)
}

// GeneratorV1 converts a v1 Wycheproof ECDSA verification file. keySize is
// unused.
func GeneratorV1(data []byte, algorithm string, keySize uint32) ([]*fixture.TestInfo, error) {
	return Generate(data, algorithm, keySize, wycheproof.V1)
}

// Generate decodes data as a Wycheproof ECDSA verification suite written with
// schema version v and returns one record per test case, in document order.
//
// Every group must use a curve whose name prefixes algorithm and one of the
// SHA-2 hash functions listed in supportedHashes; otherwise a
// *wycheproof.SchemaViolation is returned. Cases whose expected result is
// acceptable are skipped. On error no records are returned.
//
// Records of the same group share the key coordinate slices.
func Generate(data []byte, algorithm string, keySize uint32, v wycheproof.SchemaVersion) ([]*fixture.TestInfo, error) {
	suite, err := Decode(data, v)
	if err != nil {
		return nil, err
	}
	var infos []*fixture.TestInfo
	for i, g := range suite.TestGroups {
		if err := g.check(i, algorithm); err != nil {
			return nil, err
		}
		for _, tc := range g.Tests {
			if tc.Result == wycheproof.Acceptable {
				// TODO: emit acceptable cases once the harness can tell them
				// apart from valid ones; ResultByte maps both to 1.
				continue
			}
			infos = append(infos, &fixture.TestInfo{
				Data: [][]byte{
					g.Key.Wx,
					g.Key.Wy,
					tc.Msg,
					tc.Sig,
					{wycheproof.ResultByte(&tc.Case)},
				},
				Desc: suite.Description(tc),
			})
		}
	}
	return infos, nil
}

// CurveMatches reports whether curve belongs to the algorithm named
// algorithm, that is whether curve prefixes algorithm once the optional
// "ECDSA_" qualifier is removed.
func CurveMatches(algorithm, curve string) bool {
	return strings.HasPrefix(algorithm, curve) ||
		strings.HasPrefix(strings.TrimPrefix(algorithm, algorithmFamily), curve)
}

// SupportedHash reports whether groups using hash can be converted.
func SupportedHash(hash string) bool {
	return slices.Contains(supportedHashes, hash)
}

func (g *Group) check(index int, algorithm string) error {
	if !CurveMatches(algorithm, g.Key.Curve) {
		return &wycheproof.SchemaViolation{
			Group: index,
			Curve: g.Key.Curve,
			SHA:   g.SHA,
			Field: "curve",
			Want:  "a prefix of " + algorithm,
			Got:   g.Key.Curve,
		}
	}
	if !SupportedHash(g.SHA) {
		return &wycheproof.SchemaViolation{
			Group: index,
			Curve: g.Key.Curve,
			SHA:   g.SHA,
			Field: "sha",
			Want:  "one of " + strings.Join(supportedHashes, ", "),
			Got:   g.SHA,
		}
	}
	return nil
}
