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

// Package wycheproof contains types and helpers shared by the converters of
// Wycheproof test vector files.
package wycheproof

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformedSuite is wrapped by every error caused by a test vector
// document that does not have the shape expected for its schema version.
var ErrMalformedSuite = errors.New("malformed wycheproof suite")

// Notes represents one entry of the notes field of the top level object in a
// Wycheproof JSON file. Legacy files only carry a description string, which
// is stored in Description.
type Notes struct {
	BugType     string   `json:"bugType"`
	Description string   `json:"description"`
	Effect      string   `json:"effect"`
	CVEs        []string `json:"cves"`
	Links       []string `json:"links"`
}

// Suite represents the common elements of the top level object in a
// Wycheproof JSON file, independent of the schema version it was read from.
//
// GeneratorVersion is only set by legacy files and Schema only by v1 files.
type Suite struct {
	Algorithm        string
	GeneratorVersion string
	Schema           string
	NumberOfTests    int
	Header           []string
	Notes            map[string]Notes
}

// Case represents the common elements of a tests object in a Wycheproof
// group.
type Case struct {
	CaseID  int
	Comment string
	Result  Result
	Flags   []string
}

// HexBytes is a helper type for unmarshalling a byte sequence represented as a
// hex encoded string.
type HexBytes []byte

// UnmarshalText converts a hex encoded string into a sequence of bytes.
func (a *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}

	*a = decoded
	return nil
}

// Description returns the one-line description of c used for suites read
// from legacy files.
func Description(s *Suite, c *Case) string {
	return describe(fmt.Sprintf("%s (generator %s)", s.Algorithm, s.GeneratorVersion), c)
}

// DescriptionV1 returns the one-line description of c used for suites read
// from v1 files, which do not carry a generator version.
func DescriptionV1(s *Suite, c *Case) string {
	return describe(s.Algorithm, c)
}

func describe(prefix string, c *Case) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s case %d [%s] %s", prefix, c.CaseID, c.Result, c.Comment)
	if len(c.Flags) > 0 {
		fmt.Fprintf(&b, " {%s}", strings.Join(c.Flags, ","))
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(b.String())
}

// ReadVectors reads filename from the directory holding the test vectors of
// schema version v inside the Wycheproof checkout rooted at baseDir.
func ReadVectors(baseDir string, v SchemaVersion, filename string) ([]byte, error) {
	dir, err := v.Dir()
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(baseDir, dir, filename))
}
