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

// Package manifest lists the Wycheproof test vector files the converter knows
// about and how each of them is converted.
package manifest

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/tink-crypto/wycheproof2blb/ecdsa"
	"github.com/tink-crypto/wycheproof2blb/fixture"
	"github.com/tink-crypto/wycheproof2blb/wycheproof"
)

// Entry describes one convertible test vector file.
type Entry struct {
	// Name identifies the entry and names its output files.
	Name string `mapstructure:"name"`
	// File is the name of the file in the Wycheproof directory of Schema.
	File string `mapstructure:"file"`
	// Algorithm is the algorithm every group of the file must belong to.
	Algorithm string `mapstructure:"algorithm"`
	KeySize   uint32 `mapstructure:"key_size"`
	// Schema is "legacy" or "v1".
	Schema string `mapstructure:"schema"`
	// Generator names the converter, see Generators.
	Generator string `mapstructure:"generator"`
	// SHA256, when set, pins the hex SHA-256 digest of the canonical JSON
	// form of File.
	SHA256 string `mapstructure:"sha256"`
}

// Version returns the parsed schema version of e.
func (e Entry) Version() (wycheproof.SchemaVersion, error) {
	return wycheproof.ParseSchemaVersion(e.Schema)
}

// Validate checks that e can be converted.
func (e Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("manifest entry for %q has no name", e.File)
	}
	if e.File == "" {
		return fmt.Errorf("manifest entry %q has no file", e.Name)
	}
	if _, err := e.Version(); err != nil {
		return fmt.Errorf("manifest entry %q: %v", e.Name, err)
	}
	if _, ok := Generators[e.Generator]; !ok {
		return fmt.Errorf("manifest entry %q: unknown generator %q", e.Name, e.Generator)
	}
	if e.SHA256 != "" {
		if d, err := hex.DecodeString(e.SHA256); err != nil || len(d) != 32 {
			return fmt.Errorf("manifest entry %q: sha256 %q is not a hex SHA-256 digest", e.Name, e.SHA256)
		}
	}
	return nil
}

// GeneratorFunc returns the converter for e's generator and schema version.
func (e Entry) GeneratorFunc() (fixture.GeneratorFunc, error) {
	g, ok := Generators[e.Generator]
	if !ok {
		return nil, fmt.Errorf("unknown generator %q", e.Generator)
	}
	v, err := e.Version()
	if err != nil {
		return nil, err
	}
	if v == wycheproof.V1 {
		return g.V1, nil
	}
	return g.Legacy, nil
}

// Generator is a converter registered under a name.
type Generator struct {
	Legacy fixture.GeneratorFunc
	V1     fixture.GeneratorFunc
	// Arity is the number of byte strings in each produced record.
	Arity int
}

// Generators maps generator names to converters.
var Generators = map[string]Generator{
	"ecdsa": {Legacy: ecdsa.Generator, V1: ecdsa.GeneratorV1, Arity: ecdsa.Arity},
}

// Manifest is a validated set of entries with unique names.
type Manifest struct {
	entries []Entry
	byName  map[string]int
}

// New validates entries and returns a manifest holding them in order.
func New(entries []Entry) (*Manifest, error) {
	m := &Manifest{byName: make(map[string]int, len(entries))}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, ok := m.byName[e.Name]; ok {
			return nil, fmt.Errorf("duplicate manifest entry %q", e.Name)
		}
		m.byName[e.Name] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m, nil
}

// Merge returns a manifest holding the entries of m and extra. An entry of
// extra replaces the entry of m with the same name; new entries are appended.
func (m *Manifest) Merge(extra []Entry) (*Manifest, error) {
	entries := append([]Entry(nil), m.entries...)
	seen := make(map[string]bool, len(extra))
	for _, e := range extra {
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate manifest entry %q", e.Name)
		}
		seen[e.Name] = true
		if i, ok := m.byName[e.Name]; ok {
			entries[i] = e
			continue
		}
		entries = append(entries, e)
	}
	return New(entries)
}

// Lookup returns the entry called name.
func (m *Manifest) Lookup(name string) (Entry, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Entries returns all entries in manifest order.
func (m *Manifest) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Names returns the sorted names of all entries.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Select returns the entries called names, in the given order.
func (m *Manifest) Select(names []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		e, ok := m.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown test vector file %q", name)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
