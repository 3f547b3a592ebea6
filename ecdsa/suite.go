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

package ecdsa

import (
	"encoding/json"
	"fmt"

	"github.com/tink-crypto/wycheproof2blb/wycheproof"
)

// Suite is a decoded Wycheproof ECDSA verification file. Both schema versions
// decode into this shape.
type Suite struct {
	wycheproof.Suite
	Version    wycheproof.SchemaVersion
	TestGroups []*Group
}

// Group is a set of test cases sharing a public key and hash function.
type Group struct {
	Type string
	// KeyDER and KeyPEM are the encodings of Key. They are decoded for
	// completeness but not converted.
	KeyDER string
	KeyPEM string
	SHA    string
	Key    PublicKey
	Tests  []*Case
}

// PublicKey is an uncompressed elliptic curve point. Wx and Wy are big-endian
// and may carry a leading zero byte.
type PublicKey struct {
	Curve string
	Type  string
	Wx    []byte
	Wy    []byte
}

// Case is a single ECDSA verification test case.
type Case struct {
	wycheproof.Case
	Msg []byte
	Sig []byte
}

// Description returns the one-line description of tc for the schema version
// s was decoded from.
func (s *Suite) Description(tc *Case) string {
	if s.Version == wycheproof.V1 {
		return wycheproof.DescriptionV1(&s.Suite, &tc.Case)
	}
	return wycheproof.Description(&s.Suite, &tc.Case)
}

// The raw* types mirror the JSON documents of both schema versions. Pointer
// fields tell absent fields apart from empty ones.

type rawSuite struct {
	Algorithm        *string                    `json:"algorithm"`
	GeneratorVersion *string                    `json:"generatorVersion"`
	Schema           *string                    `json:"schema"`
	NumberOfTests    int                        `json:"numberOfTests"`
	Header           []string                   `json:"header"`
	Notes            map[string]json.RawMessage `json:"notes"`
	TestGroups       *[]*rawGroup               `json:"testGroups"`
}

type rawGroup struct {
	Type  string      `json:"type"`
	SHA   *string     `json:"sha"`
	Tests *[]*rawCase `json:"tests"`

	// Legacy key fields.
	KeyDER *string `json:"keyDer"`
	KeyPEM *string `json:"keyPem"`
	Key    *rawKey `json:"key"`

	// V1 key fields.
	PublicKeyDER *string `json:"publicKeyDer"`
	PublicKeyPEM *string `json:"publicKeyPem"`
	PublicKey    *rawKey `json:"publicKey"`
}

type rawKey struct {
	Curve *string              `json:"curve"`
	Type  *string              `json:"type"`
	Wx    *wycheproof.HexBytes `json:"wx"`
	Wy    *wycheproof.HexBytes `json:"wy"`
}

type rawCase struct {
	CaseID  *int                 `json:"tcId"`
	Comment *string              `json:"comment"`
	Result  *wycheproof.Result   `json:"result"`
	Flags   *[]string            `json:"flags"`
	Msg     *wycheproof.HexBytes `json:"msg"`
	Sig     *wycheproof.HexBytes `json:"sig"`
}

// keyFields maps the key fields of a group, whose JSON names depend on the
// schema version, onto the fields of Group.
type keyFields struct {
	key, der, pem string
	pick          func(rg *rawGroup) (key *rawKey, der, pem *string)
}

var versionFields = map[wycheproof.SchemaVersion]keyFields{
	wycheproof.Legacy: {
		key: "key", der: "keyDer", pem: "keyPem",
		pick: func(rg *rawGroup) (*rawKey, *string, *string) { return rg.Key, rg.KeyDER, rg.KeyPEM },
	},
	wycheproof.V1: {
		key: "publicKey", der: "publicKeyDer", pem: "publicKeyPem",
		pick: func(rg *rawGroup) (*rawKey, *string, *string) { return rg.PublicKey, rg.PublicKeyDER, rg.PublicKeyPEM },
	},
}

func malformed(v wycheproof.SchemaVersion, format string, args ...any) error {
	return fmt.Errorf("%w (%v): %s", wycheproof.ErrMalformedSuite, v, fmt.Sprintf(format, args...))
}

// Decode parses data as a Wycheproof ECDSA verification suite written with
// schema version v. Every error wraps wycheproof.ErrMalformedSuite.
func Decode(data []byte, v wycheproof.SchemaVersion) (*Suite, error) {
	fields, ok := versionFields[v]
	if !ok {
		return nil, malformed(v, "unknown schema version")
	}
	raw := new(rawSuite)
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, malformed(v, "%v", err)
	}

	switch {
	case raw.Algorithm == nil:
		return nil, malformed(v, "missing field %q", "algorithm")
	case raw.TestGroups == nil:
		return nil, malformed(v, "missing field %q", "testGroups")
	case v == wycheproof.Legacy && raw.GeneratorVersion == nil:
		return nil, malformed(v, "missing field %q", "generatorVersion")
	case v == wycheproof.V1 && raw.Schema == nil:
		return nil, malformed(v, "missing field %q", "schema")
	}
	suite := &Suite{
		Suite: wycheproof.Suite{
			Algorithm:     *raw.Algorithm,
			NumberOfTests: raw.NumberOfTests,
			Header:        raw.Header,
		},
		Version: v,
	}
	if raw.GeneratorVersion != nil {
		suite.GeneratorVersion = *raw.GeneratorVersion
	}
	if raw.Schema != nil {
		suite.Schema = *raw.Schema
	}
	notes, err := decodeNotes(raw.Notes, v)
	if err != nil {
		return nil, err
	}
	suite.Notes = notes

	for i, rg := range *raw.TestGroups {
		g, err := rg.normalize(fields)
		if err != nil {
			return nil, malformed(v, "testGroups[%d]: %v", i, err)
		}
		suite.TestGroups = append(suite.TestGroups, g)
	}
	return suite, nil
}

// decodeNotes decodes the notes of a legacy suite, which map a flag to its
// description, or of a v1 suite, which map a flag to a Notes object.
func decodeNotes(raw map[string]json.RawMessage, v wycheproof.SchemaVersion) (map[string]wycheproof.Notes, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	notes := make(map[string]wycheproof.Notes, len(raw))
	for flag, msg := range raw {
		var n wycheproof.Notes
		var err error
		if v == wycheproof.Legacy {
			err = json.Unmarshal(msg, &n.Description)
		} else {
			err = json.Unmarshal(msg, &n)
		}
		if err != nil {
			return nil, malformed(v, "notes[%q]: %v", flag, err)
		}
		notes[flag] = n
	}
	return notes, nil
}

func (rg *rawGroup) normalize(fields keyFields) (*Group, error) {
	if rg == nil {
		return nil, fmt.Errorf("null group")
	}
	key, keyDER, keyPEM := fields.pick(rg)
	switch {
	case rg.SHA == nil:
		return nil, fmt.Errorf("missing field %q", "sha")
	case keyDER == nil:
		return nil, fmt.Errorf("missing field %q", fields.der)
	case keyPEM == nil:
		return nil, fmt.Errorf("missing field %q", fields.pem)
	case key == nil:
		return nil, fmt.Errorf("missing field %q", fields.key)
	case rg.Tests == nil:
		return nil, fmt.Errorf("missing field %q", "tests")
	}
	pub, err := key.normalize()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", fields.key, err)
	}
	g := &Group{
		Type:   rg.Type,
		KeyDER: *keyDER,
		KeyPEM: *keyPEM,
		SHA:    *rg.SHA,
		Key:    *pub,
	}
	for i, rc := range *rg.Tests {
		tc, err := rc.normalize()
		if err != nil {
			return nil, fmt.Errorf("tests[%d]: %v", i, err)
		}
		g.Tests = append(g.Tests, tc)
	}
	return g, nil
}

func (rk *rawKey) normalize() (*PublicKey, error) {
	switch {
	case rk.Curve == nil:
		return nil, fmt.Errorf("missing field %q", "curve")
	case rk.Type == nil:
		return nil, fmt.Errorf("missing field %q", "type")
	case rk.Wx == nil:
		return nil, fmt.Errorf("missing field %q", "wx")
	case rk.Wy == nil:
		return nil, fmt.Errorf("missing field %q", "wy")
	}
	return &PublicKey{Curve: *rk.Curve, Type: *rk.Type, Wx: *rk.Wx, Wy: *rk.Wy}, nil
}

func (rc *rawCase) normalize() (*Case, error) {
	if rc == nil {
		return nil, fmt.Errorf("null test case")
	}
	switch {
	case rc.CaseID == nil:
		return nil, fmt.Errorf("missing field %q", "tcId")
	case rc.Comment == nil:
		return nil, fmt.Errorf("missing field %q", "comment")
	case rc.Result == nil:
		return nil, fmt.Errorf("missing field %q", "result")
	case rc.Flags == nil:
		return nil, fmt.Errorf("missing field %q", "flags")
	case rc.Msg == nil:
		return nil, fmt.Errorf("missing field %q", "msg")
	case rc.Sig == nil:
		return nil, fmt.Errorf("missing field %q", "sig")
	}
	return &Case{
		Case: wycheproof.Case{
			CaseID:  *rc.CaseID,
			Comment: *rc.Comment,
			Result:  *rc.Result,
			Flags:   *rc.Flags,
		},
		Msg: *rc.Msg,
		Sig: *rc.Sig,
	}, nil
}
