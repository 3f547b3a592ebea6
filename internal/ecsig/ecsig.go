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

// Package ecsig classifies the byte layout of ECDSA signatures found in test
// vectors. It never checks a signature against a key.
package ecsig

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/tink-crypto/wycheproof2blb/internal/ec"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Signature is an ECDSA signature.
type Signature struct {
	R, S *big.Int
}

var errDERDecoding = errors.New("ecsig: invalid DER signature")

// ParseDER decodes a strict DER encoded SEQUENCE { INTEGER r, INTEGER s }.
// Non-minimal lengths or integers, trailing data and non-positive integers
// are rejected.
func ParseDER(b []byte) (*Signature, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)
	input := cryptobyte.String(b)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, errDERDecoding
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return nil, errDERDecoding
	}
	return &Signature{R: r, S: s}, nil
}

// SplitP1363 decodes an IEEE P1363 signature, the concatenation of r and s
// as fixed size big-endian integers, for curve c.
func SplitP1363(b []byte, c ec.Curve) (*Signature, error) {
	if c.ScalarSize == 0 || len(b) != 2*c.ScalarSize {
		return nil, fmt.Errorf("ecsig: IEEE P1363 signature has %d bytes, want %d for %s", len(b), 2*c.ScalarSize, c.Name)
	}
	return &Signature{
		R: new(big.Int).SetBytes(b[:c.ScalarSize]),
		S: new(big.Int).SetBytes(b[c.ScalarSize:]),
	}, nil
}

// Layout is the apparent encoding of a signature.
type Layout int

const (
	// Other covers every signature that is neither strict DER nor sized
	// like an IEEE P1363 signature.
	Other Layout = iota
	// DER is a strict DER encoded signature.
	DER
	// P1363 is a signature with exactly twice the curve's scalar size.
	P1363
)

func (l Layout) String() string {
	switch l {
	case DER:
		return "der"
	case P1363:
		return "p1363"
	default:
		return "other"
	}
}

// Classify returns the layout of sig for curve c. A zero Curve only
// recognizes DER.
func Classify(sig []byte, c ec.Curve) Layout {
	if _, err := ParseDER(sig); err == nil {
		return DER
	}
	if _, err := SplitP1363(sig, c); err == nil {
		return P1363
	}
	return Other
}
