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

// SchemaVersion identifies the layout of a Wycheproof JSON file.
type SchemaVersion int

const (
	// Legacy is the pre-v1 layout found under testvectors/.
	Legacy SchemaVersion = iota
	// V1 is the layout found under testvectors_v1/.
	V1
)

func (v SchemaVersion) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case V1:
		return "v1"
	default:
		return fmt.Sprintf("SchemaVersion(%d)", int(v))
	}
}

// Dir returns the directory of a Wycheproof checkout holding the test vectors
// written with v.
func (v SchemaVersion) Dir() (string, error) {
	switch v {
	case Legacy:
		return "testvectors", nil
	case V1:
		return "testvectors_v1", nil
	default:
		return "", fmt.Errorf("unknown schema version %v", v)
	}
}

// ParseSchemaVersion parses "legacy" or "v1". The empty string is parsed as
// Legacy.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	switch s {
	case "", "legacy":
		return Legacy, nil
	case "v1":
		return V1, nil
	default:
		return 0, fmt.Errorf("unknown schema version %q, want legacy or v1", s)
	}
}
