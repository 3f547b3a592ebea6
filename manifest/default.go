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

package manifest

import "fmt"

// ecdsaFiles lists the Wycheproof ECDSA verification files that only use
// SHA-2 hash functions. Files for the same curve and hash exist in DER and in
// IEEE P1363 encoding.
var ecdsaFiles = []struct {
	curve string
	bits  uint32
	hash  string
}{
	{curve: "secp224r1", bits: 224, hash: "sha224"},
	{curve: "secp224r1", bits: 224, hash: "sha256"},
	{curve: "secp224r1", bits: 224, hash: "sha512"},
	{curve: "secp256r1", bits: 256, hash: "sha256"},
	{curve: "secp256r1", bits: 256, hash: "sha512"},
	{curve: "secp256k1", bits: 256, hash: "sha256"},
	{curve: "secp256k1", bits: 256, hash: "sha512"},
	{curve: "secp384r1", bits: 384, hash: "sha384"},
	{curve: "secp384r1", bits: 384, hash: "sha512"},
	{curve: "secp521r1", bits: 521, hash: "sha512"},
	{curve: "brainpoolP224r1", bits: 224, hash: "sha224"},
	{curve: "brainpoolP256r1", bits: 256, hash: "sha256"},
	{curve: "brainpoolP320r1", bits: 320, hash: "sha384"},
	{curve: "brainpoolP384r1", bits: 384, hash: "sha384"},
	{curve: "brainpoolP512r1", bits: 512, hash: "sha512"},
}

func defaultEntries() []Entry {
	var entries []Entry
	for _, schema := range []string{"legacy", "v1"} {
		suffix := ""
		if schema == "v1" {
			suffix = "_v1"
		}
		for _, f := range ecdsaFiles {
			for _, enc := range []string{"", "_p1363"} {
				base := fmt.Sprintf("ecdsa_%s_%s%s", f.curve, f.hash, enc)
				entries = append(entries, Entry{
					Name:      base + suffix,
					File:      base + "_test.json",
					Algorithm: f.curve,
					KeySize:   f.bits,
					Schema:    schema,
					Generator: "ecdsa",
				})
			}
		}
	}
	return entries
}

// Default returns the built-in manifest.
func Default() *Manifest {
	m, err := New(defaultEntries())
	if err != nil {
		panic(fmt.Sprintf("manifest: invalid built-in manifest: %v", err))
	}
	return m
}
