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

package wycheproof

import "fmt"

// Result is the expected outcome of a Wycheproof test case.
type Result int

const (
	// Valid cases must be accepted by a correct implementation.
	Valid Result = iota + 1
	// Invalid cases must be rejected.
	Invalid
	// Acceptable cases use legal but weak or unusual parameters; an
	// implementation may accept or reject them.
	Acceptable
)

var resultNames = map[Result]string{
	Valid:      "valid",
	Invalid:    "invalid",
	Acceptable: "acceptable",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// UnmarshalText parses one of "valid", "invalid" or "acceptable".
func (r *Result) UnmarshalText(text []byte) error {
	for result, name := range resultNames {
		if string(text) == name {
			*r = result
			return nil
		}
	}
	return fmt.Errorf("unknown test result %q", text)
}

// ResultByte encodes the expected result of c as a single byte: 0 for invalid
// cases and 1 for every case an implementation is allowed to accept.
func ResultByte(c *Case) byte {
	if c.Result == Invalid {
		return 0
	}
	return 1
}
