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

// Package ec provides utility functions for the elliptic curves used by
// Wycheproof ECDSA test vectors.
package ec

import "fmt"

// Curve describes the sizes of a named curve.
type Curve struct {
	// Name is the Wycheproof name of the curve, such as "secp256r1".
	Name string
	// FieldSize is the size in bytes of a field element (a key coordinate).
	FieldSize int
	// ScalarSize is the size in bytes of the group order (r and s).
	ScalarSize int
}

var curves = map[string]Curve{
	"secp224r1":       {Name: "secp224r1", FieldSize: 28, ScalarSize: 28},
	"secp256r1":       {Name: "secp256r1", FieldSize: 32, ScalarSize: 32},
	"secp256k1":       {Name: "secp256k1", FieldSize: 32, ScalarSize: 32},
	"secp384r1":       {Name: "secp384r1", FieldSize: 48, ScalarSize: 48},
	"secp521r1":       {Name: "secp521r1", FieldSize: 66, ScalarSize: 66},
	"brainpoolP224r1": {Name: "brainpoolP224r1", FieldSize: 28, ScalarSize: 28},
	"brainpoolP256r1": {Name: "brainpoolP256r1", FieldSize: 32, ScalarSize: 32},
	"brainpoolP320r1": {Name: "brainpoolP320r1", FieldSize: 40, ScalarSize: 40},
	"brainpoolP384r1": {Name: "brainpoolP384r1", FieldSize: 48, ScalarSize: 48},
	"brainpoolP512r1": {Name: "brainpoolP512r1", FieldSize: 64, ScalarSize: 64},
}

// CurveByName returns the curve with the given Wycheproof name.
func CurveByName(name string) (Curve, bool) {
	c, ok := curves[name]
	return c, ok
}

// BigIntBytesToFixedSizeBuffer returns the big-endian integer b as exactly
// size bytes. Shorter inputs are left-padded with zeros. Longer inputs lose
// their excess leading bytes, which must all be zero.
func BigIntBytesToFixedSizeBuffer(b []byte, size int) ([]byte, error) {
	switch excess := len(b) - size; {
	case excess == 0:
		return b, nil
	case excess < 0:
		return append(make([]byte, -excess, size), b...), nil
	default:
		for i, c := range b[:excess] {
			if c != 0 {
				return nil, fmt.Errorf("big int has %d significant bytes, want at most %d", len(b)-i, size)
			}
		}
		return b[excess:], nil
	}
}

// FitsFieldSize reports whether the big-endian integer coord, which may carry
// leading zeros, fits in a field element of c.
func (c Curve) FitsFieldSize(coord []byte) bool {
	_, err := BigIntBytesToFixedSizeBuffer(coord, c.FieldSize)
	return err == nil
}
