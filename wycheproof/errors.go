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

// SchemaViolation reports a test group that is well formed but inconsistent
// with what the caller declared about the file, for example a curve that does
// not belong to the requested algorithm.
type SchemaViolation struct {
	// Group is the zero-based index of the offending group.
	Group int
	Curve string
	SHA   string
	// Field names the checked property, Want the expectation and Got the
	// value found in the group.
	Field string
	Want  string
	Got   string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("group %d (curve %s, sha %s): %s: want %s, got %q", e.Group, e.Curve, e.SHA, e.Field, e.Want, e.Got)
}
