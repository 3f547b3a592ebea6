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

package ecdsa_test

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tink-crypto/wycheproof2blb/ecdsa"
	"github.com/tink-crypto/wycheproof2blb/fixture"
	"github.com/tink-crypto/wycheproof2blb/wycheproof"
)

var versions = []wycheproof.SchemaVersion{wycheproof.Legacy, wycheproof.V1}

func mustHexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q) err = %v, want nil", s, err)
	}
	return b
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("os.ReadFile(%q) err = %v, want nil", name, err)
	}
	return data
}

func testCase(id int, result, comment, msg, sig string) map[string]any {
	return map[string]any{
		"tcId":    id,
		"comment": comment,
		"flags":   []string{},
		"msg":     msg,
		"sig":     sig,
		"result":  result,
	}
}

func testGroup(v wycheproof.SchemaVersion, curve, sha, wx, wy string, tests ...map[string]any) map[string]any {
	if tests == nil {
		tests = []map[string]any{}
	}
	key := map[string]any{"curve": curve, "type": "EcPublicKey", "wx": wx, "wy": wy}
	g := map[string]any{"type": "EcdsaVerify", "sha": sha, "tests": tests}
	if v == wycheproof.V1 {
		g["publicKey"], g["publicKeyDer"], g["publicKeyPem"] = key, "3059", "-----BEGIN PUBLIC KEY-----"
	} else {
		g["key"], g["keyDer"], g["keyPem"] = key, "3059", "-----BEGIN PUBLIC KEY-----"
	}
	return g
}

func testSuite(v wycheproof.SchemaVersion, groups ...map[string]any) map[string]any {
	if groups == nil {
		groups = []map[string]any{}
	}
	s := map[string]any{"algorithm": "ECDSA", "numberOfTests": 0, "testGroups": groups}
	if v == wycheproof.V1 {
		s["schema"] = "ecdsa_verify_schema_v1.json"
	} else {
		s["generatorVersion"] = "0.8r12"
	}
	return s
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() err = %v, want nil", err)
	}
	return b
}

// minimalSuite holds a single NISTP256/SHA-256 group with key (0x01, 0x02),
// a valid case and an acceptable case.
func minimalSuite(t *testing.T, v wycheproof.SchemaVersion) []byte {
	t.Helper()
	return mustMarshal(t, testSuite(v, testGroup(v, "NISTP256", "SHA-256", "01", "02",
		testCase(1, "valid", "case A", "aa", "bb"),
		testCase(2, "acceptable", "case B", "cc", "dd"),
	)))
}

func TestGenerate_SingleGroup(t *testing.T) {
	for _, tc := range []struct {
		version  wycheproof.SchemaVersion
		generate fixture.GeneratorFunc
		wantDesc string
	}{
		{version: wycheproof.Legacy, generate: ecdsa.Generator, wantDesc: "ECDSA (generator 0.8r12) case 1 [valid] case A"},
		{version: wycheproof.V1, generate: ecdsa.GeneratorV1, wantDesc: "ECDSA case 1 [valid] case A"},
	} {
		t.Run(tc.version.String(), func(t *testing.T) {
			got, err := tc.generate(minimalSuite(t, tc.version), "ECDSA_NISTP256_SHA256", 256)
			if err != nil {
				t.Fatalf("generate() err = %v, want nil", err)
			}
			want := []*fixture.TestInfo{{
				Data: [][]byte{{0x01}, {0x02}, {0xaa}, {0xbb}, {0x01}},
				Desc: tc.wantDesc,
			}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("generate() returned unexpected diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerate_CurveMismatch(t *testing.T) {
	for _, v := range versions {
		t.Run(v.String(), func(t *testing.T) {
			got, err := ecdsa.Generate(minimalSuite(t, v), "ECDSA_NISTP384", 384, v)
			if err == nil {
				t.Fatalf("ecdsa.Generate() err = nil, want error")
			}
			if got != nil {
				t.Errorf("ecdsa.Generate() = %v, want nil", got)
			}
			var sv *wycheproof.SchemaViolation
			if !errors.As(err, &sv) {
				t.Fatalf("ecdsa.Generate() err = %v, want *wycheproof.SchemaViolation", err)
			}
			if sv.Field != "curve" || sv.Group != 0 || sv.Got != "NISTP256" {
				t.Errorf("ecdsa.Generate() violation = %+v, want curve NISTP256 in group 0", sv)
			}
		})
	}
}

func TestCurveMatches(t *testing.T) {
	for _, tc := range []struct {
		algorithm, curve string
		want             bool
	}{
		{algorithm: "secp256r1", curve: "secp256r1", want: true},
		{algorithm: "secp256r1_sha256", curve: "secp256r1", want: true},
		{algorithm: "ECDSA_NISTP256", curve: "NISTP256", want: true},
		{algorithm: "ECDSA_NISTP256_SHA256", curve: "NISTP256", want: true},
		{algorithm: "ECDSA_NISTP256", curve: "ECDSA_NIST", want: true},
		{algorithm: "ECDSA_NISTP384", curve: "NISTP256", want: false},
		{algorithm: "secp256k1", curve: "secp256r1", want: false},
		{algorithm: "secp256", curve: "secp256r1", want: false},
	} {
		if got := ecdsa.CurveMatches(tc.algorithm, tc.curve); got != tc.want {
			t.Errorf("ecdsa.CurveMatches(%q, %q) = %v, want %v", tc.algorithm, tc.curve, got, tc.want)
		}
	}
}

func TestGenerate_HashAllowList(t *testing.T) {
	for _, v := range versions {
		for _, tc := range []struct {
			sha     string
			wantErr bool
		}{
			{sha: "SHA-224"},
			{sha: "SHA-256"},
			{sha: "SHA-384"},
			{sha: "SHA-512"},
			{sha: "SHA-1", wantErr: true},
			{sha: "SHA3-256", wantErr: true},
			{sha: "SHA-512/256", wantErr: true},
			{sha: "sha-256", wantErr: true},
			{sha: "", wantErr: true},
		} {
			t.Run(v.String()+"/"+tc.sha, func(t *testing.T) {
				data := mustMarshal(t, testSuite(v, testGroup(v, "secp256r1", tc.sha, "01", "02",
					testCase(1, "invalid", "", "aa", "bb"),
				)))
				got, err := ecdsa.Generate(data, "secp256r1", 256, v)
				if !tc.wantErr {
					if err != nil {
						t.Fatalf("ecdsa.Generate() err = %v, want nil", err)
					}
					if len(got) != 1 {
						t.Errorf("len(ecdsa.Generate()) = %d, want 1", len(got))
					}
					return
				}
				var sv *wycheproof.SchemaViolation
				if !errors.As(err, &sv) || sv.Field != "sha" {
					t.Fatalf("ecdsa.Generate() err = %v, want sha *wycheproof.SchemaViolation", err)
				}
				if got != nil {
					t.Errorf("ecdsa.Generate() = %v, want nil", got)
				}
			})
		}
	}
}

func TestGenerate_NoPartialResult(t *testing.T) {
	for _, v := range versions {
		t.Run(v.String(), func(t *testing.T) {
			data := mustMarshal(t, testSuite(v,
				testGroup(v, "secp256r1", "SHA-256", "01", "02", testCase(1, "valid", "", "aa", "bb")),
				testGroup(v, "secp256r1", "SHA-1", "01", "02", testCase(2, "valid", "", "aa", "bb")),
			))
			got, err := ecdsa.Generate(data, "secp256r1", 256, v)
			var sv *wycheproof.SchemaViolation
			if !errors.As(err, &sv) || sv.Group != 1 {
				t.Fatalf("ecdsa.Generate() err = %v, want *wycheproof.SchemaViolation in group 1", err)
			}
			if got != nil {
				t.Errorf("ecdsa.Generate() = %v, want nil", got)
			}
		})
	}
}

func TestGenerate_Testdata(t *testing.T) {
	for _, tc := range []struct {
		file      string
		version   wycheproof.SchemaVersion
		algorithm string
		descs     []string
	}{
		{
			file:      "ecdsa_secp256r1_legacy_test.json",
			version:   wycheproof.Legacy,
			algorithm: "secp256r1",
			descs: []string{
				"ECDSA (generator 0.8r12) case 1 [valid] signature malleability {SignatureMalleabilityP256}",
				"ECDSA (generator 0.8r12) case 3 [invalid] modified r {ModifiedInteger}",
				"ECDSA (generator 0.8r12) case 4 [valid] empty message",
				"ECDSA (generator 0.8r12) case 5 [valid] k*G has a large x-coordinate {ArithmeticError}",
				"ECDSA (generator 0.8r12) case 6 [invalid] r too large {ArithmeticError}",
			},
		},
		{
			file:      "ecdsa_secp256r1_v1_test.json",
			version:   wycheproof.V1,
			algorithm: "ECDSA_secp256r1",
			descs: []string{
				"ECDSA case 1 [valid] signature malleability {SignatureMalleabilityP256}",
				"ECDSA case 3 [invalid] modified r {ModifiedInteger}",
				"ECDSA case 4 [valid] empty message",
				"ECDSA case 5 [valid] k*G has a large x-coordinate {ArithmeticError}",
				"ECDSA case 6 [invalid] r too large {ArithmeticError}",
			},
		},
	} {
		t.Run(tc.file, func(t *testing.T) {
			data := readTestdata(t, tc.file)
			got, err := ecdsa.Generate(data, tc.algorithm, 256, tc.version)
			if err != nil {
				t.Fatalf("ecdsa.Generate() err = %v, want nil", err)
			}

			var descs []string
			var results []byte
			for _, info := range got {
				if len(info.Data) != ecdsa.Arity {
					t.Fatalf("len(info.Data) = %d, want %d", len(info.Data), ecdsa.Arity)
				}
				descs = append(descs, info.Desc)
				results = append(results, info.Data[4]...)
			}
			if diff := cmp.Diff(tc.descs, descs); diff != "" {
				t.Errorf("descriptions returned unexpected diff (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]byte{1, 0, 1, 1, 0}, results); diff != "" {
				t.Errorf("result bytes returned unexpected diff (-want +got):\n%s", diff)
			}

			wantWx := mustHexDecode(t, "2927b10512bae3eddcfe467828128bad2903269919f7086069c8c4df6c732838")
			wantWy := mustHexDecode(t, "00c7787964eaac00e5921fb1498a60f4606766b3d9685001558d1a974e7341513e")
			if diff := cmp.Diff([][]byte{wantWx, wantWy, mustHexDecode(t, "313233343030")}, got[0].Data[:3]); diff != "" {
				t.Errorf("first record returned unexpected diff (-want +got):\n%s", diff)
			}
			if len(got[2].Data[2]) != 0 {
				t.Errorf("empty message record has msg %x, want empty", got[2].Data[2])
			}
		})
	}
}

// TestGenerate_FieldFidelity checks every emitted record against the decoded
// document: same order, acceptable cases dropped, fields copied verbatim.
func TestGenerate_FieldFidelity(t *testing.T) {
	for _, tc := range []struct {
		file    string
		version wycheproof.SchemaVersion
	}{
		{file: "ecdsa_secp256r1_legacy_test.json", version: wycheproof.Legacy},
		{file: "ecdsa_secp256r1_v1_test.json", version: wycheproof.V1},
	} {
		t.Run(tc.file, func(t *testing.T) {
			data := readTestdata(t, tc.file)
			suite, err := ecdsa.Decode(data, tc.version)
			if err != nil {
				t.Fatalf("ecdsa.Decode() err = %v, want nil", err)
			}
			var want []*fixture.TestInfo
			total := 0
			for _, g := range suite.TestGroups {
				for _, c := range g.Tests {
					total++
					if c.Result == wycheproof.Acceptable {
						continue
					}
					want = append(want, &fixture.TestInfo{
						Data: [][]byte{g.Key.Wx, g.Key.Wy, c.Msg, c.Sig, {wycheproof.ResultByte(&c.Case)}},
						Desc: suite.Description(c),
					})
				}
			}
			if total != 6 || len(want) != 5 {
				t.Fatalf("testdata has %d cases and %d non-acceptable ones, want 6 and 5", total, len(want))
			}
			got, err := ecdsa.Generate(data, "secp256r1", 256, tc.version)
			if err != nil {
				t.Fatalf("ecdsa.Generate() err = %v, want nil", err)
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ecdsa.Generate() returned unexpected diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	data := readTestdata(t, "ecdsa_secp256r1_legacy_test.json")
	want, err := ecdsa.Generator(data, "secp256r1", 256)
	if err != nil {
		t.Fatalf("ecdsa.Generator() err = %v, want nil", err)
	}
	const workers = 8
	got := make([][]*fixture.TestInfo, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = ecdsa.Generator(data, "secp256r1", 256)
		}(i)
	}
	wg.Wait()
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("ecdsa.Generator() err = %v, want nil", errs[i])
		}
		if diff := cmp.Diff(want, got[i], cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("ecdsa.Generator() returned unexpected diff (-want +got):\n%s", diff)
		}
	}
}

func TestGenerate_EmptySuite(t *testing.T) {
	for _, v := range versions {
		got, err := ecdsa.Generate(mustMarshal(t, testSuite(v)), "secp256r1", 256, v)
		if err != nil {
			t.Fatalf("ecdsa.Generate() err = %v, want nil", err)
		}
		if len(got) != 0 {
			t.Errorf("ecdsa.Generate() = %v, want empty", got)
		}
	}
}

func TestGenerate_Malformed(t *testing.T) {
	group := func(s map[string]any) map[string]any {
		return s["testGroups"].([]map[string]any)[0]
	}
	firstCase := func(s map[string]any) map[string]any {
		return group(s)["tests"].([]map[string]any)[0]
	}
	valid := func(v wycheproof.SchemaVersion) map[string]any {
		return testSuite(v, testGroup(v, "secp256r1", "SHA-256", "01", "02", testCase(1, "valid", "", "aa", "bb")))
	}
	keyField := map[wycheproof.SchemaVersion]string{wycheproof.Legacy: "key", wycheproof.V1: "publicKey"}

	for _, v := range versions {
		for _, tc := range []struct {
			name   string
			raw    []byte
			mutate func(s map[string]any)
		}{
			{name: "not json", raw: []byte(`{"algorithm":`)},
			{name: "top-level array", raw: []byte(`[]`)},
			{name: "missing algorithm", mutate: func(s map[string]any) { delete(s, "algorithm") }},
			{name: "missing testGroups", mutate: func(s map[string]any) { delete(s, "testGroups") }},
			{name: "null testGroups", mutate: func(s map[string]any) { s["testGroups"] = nil }},
			{name: "missing version field", mutate: func(s map[string]any) { delete(s, "generatorVersion"); delete(s, "schema") }},
			{name: "testGroups wrong type", mutate: func(s map[string]any) { s["testGroups"] = "groups" }},
			{name: "null group", mutate: func(s map[string]any) { s["testGroups"] = []any{nil} }},
			{name: "missing sha", mutate: func(s map[string]any) { delete(group(s), "sha") }},
			{name: "missing key", mutate: func(s map[string]any) { delete(group(s), keyField[v]) }},
			{name: "missing key der", mutate: func(s map[string]any) { delete(group(s), keyField[v]+"Der") }},
			{name: "missing key pem", mutate: func(s map[string]any) { delete(group(s), keyField[v]+"Pem") }},
			{name: "missing curve", mutate: func(s map[string]any) { delete(group(s)[keyField[v]].(map[string]any), "curve") }},
			{name: "missing key type", mutate: func(s map[string]any) { delete(group(s)[keyField[v]].(map[string]any), "type") }},
			{name: "missing wx", mutate: func(s map[string]any) { delete(group(s)[keyField[v]].(map[string]any), "wx") }},
			{name: "missing wy", mutate: func(s map[string]any) { delete(group(s)[keyField[v]].(map[string]any), "wy") }},
			{name: "missing tests", mutate: func(s map[string]any) { delete(group(s), "tests") }},
			{name: "null test case", mutate: func(s map[string]any) { group(s)["tests"] = []any{nil} }},
			{name: "missing tcId", mutate: func(s map[string]any) { delete(firstCase(s), "tcId") }},
			{name: "tcId wrong type", mutate: func(s map[string]any) { firstCase(s)["tcId"] = "1" }},
			{name: "missing comment", mutate: func(s map[string]any) { delete(firstCase(s), "comment") }},
			{name: "missing result", mutate: func(s map[string]any) { delete(firstCase(s), "result") }},
			{name: "unknown result", mutate: func(s map[string]any) { firstCase(s)["result"] = "passed" }},
			{name: "missing flags", mutate: func(s map[string]any) { delete(firstCase(s), "flags") }},
			{name: "missing msg", mutate: func(s map[string]any) { delete(firstCase(s), "msg") }},
			{name: "odd length msg", mutate: func(s map[string]any) { firstCase(s)["msg"] = "abc" }},
			{name: "missing sig", mutate: func(s map[string]any) { delete(firstCase(s), "sig") }},
			{name: "non-hex sig", mutate: func(s map[string]any) { firstCase(s)["sig"] = "zz" }},
		} {
			t.Run(v.String()+"/"+tc.name, func(t *testing.T) {
				data := tc.raw
				if data == nil {
					s := valid(v)
					tc.mutate(s)
					data = mustMarshal(t, s)
				}
				got, err := ecdsa.Generate(data, "secp256r1", 256, v)
				if !errors.Is(err, wycheproof.ErrMalformedSuite) {
					t.Errorf("ecdsa.Generate() err = %v, want wycheproof.ErrMalformedSuite", err)
				}
				if got != nil {
					t.Errorf("ecdsa.Generate() = %v, want nil", got)
				}
			})
		}
	}
}

func TestDecode_WrongVersion(t *testing.T) {
	for _, tc := range []struct {
		file    string
		version wycheproof.SchemaVersion
	}{
		{file: "ecdsa_secp256r1_legacy_test.json", version: wycheproof.V1},
		{file: "ecdsa_secp256r1_v1_test.json", version: wycheproof.Legacy},
	} {
		if _, err := ecdsa.Decode(readTestdata(t, tc.file), tc.version); !errors.Is(err, wycheproof.ErrMalformedSuite) {
			t.Errorf("ecdsa.Decode(%s, %v) err = %v, want wycheproof.ErrMalformedSuite", tc.file, tc.version, err)
		}
	}
	if _, err := ecdsa.Decode([]byte(`{}`), wycheproof.SchemaVersion(7)); !errors.Is(err, wycheproof.ErrMalformedSuite) {
		t.Errorf("ecdsa.Decode(version 7) err = %v, want wycheproof.ErrMalformedSuite", err)
	}
}

func TestDecode_Notes(t *testing.T) {
	legacy, err := ecdsa.Decode(readTestdata(t, "ecdsa_secp256r1_legacy_test.json"), wycheproof.Legacy)
	if err != nil {
		t.Fatalf("ecdsa.Decode() err = %v, want nil", err)
	}
	if got, want := legacy.Notes["ModifiedInteger"], (wycheproof.Notes{Description: "The signature has been modified."}); !cmp.Equal(want, got) {
		t.Errorf("legacy.Notes[ModifiedInteger] = %+v, want %+v", got, want)
	}
	if legacy.GeneratorVersion != "0.8r12" || legacy.Algorithm != "ECDSA" || legacy.NumberOfTests != 6 {
		t.Errorf("legacy suite = %+v, want ECDSA 0.8r12 with 6 tests", legacy.Suite)
	}

	v1, err := ecdsa.Decode(readTestdata(t, "ecdsa_secp256r1_v1_test.json"), wycheproof.V1)
	if err != nil {
		t.Fatalf("ecdsa.Decode() err = %v, want nil", err)
	}
	want := wycheproof.Notes{
		BugType:     "CAN_OF_WORMS",
		Description: "The signature has been modified.",
		CVEs:        []string{"CVE-2020-0000"},
		Links:       []string{"https://example.com/modified"},
	}
	if diff := cmp.Diff(want, v1.Notes["ModifiedInteger"]); diff != "" {
		t.Errorf("v1.Notes[ModifiedInteger] returned unexpected diff (-want +got):\n%s", diff)
	}
	if v1.Schema != "ecdsa_verify_schema_v1.json" {
		t.Errorf("v1.Schema = %q, want %q", v1.Schema, "ecdsa_verify_schema_v1.json")
	}
	if g := v1.TestGroups[1]; g.SHA != "SHA-512" || g.Key.Curve != "secp256r1" || g.Type != "EcdsaVerify" || g.KeyDER == "" {
		t.Errorf("v1.TestGroups[1] = %+v, want secp256r1/SHA-512 EcdsaVerify group with a DER key", g)
	}

	if _, err := ecdsa.Decode([]byte(`{"algorithm":"ECDSA","schema":"s","notes":{"A":"text"},"testGroups":[]}`), wycheproof.V1); !errors.Is(err, wycheproof.ErrMalformedSuite) {
		t.Errorf("ecdsa.Decode(v1 with string note) err = %v, want wycheproof.ErrMalformedSuite", err)
	}
}
