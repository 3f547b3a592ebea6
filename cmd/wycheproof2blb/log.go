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

package main

import (
	"fmt"
	"io"

	"github.com/btcsuite/btclog"
	"github.com/tink-crypto/wycheproof2blb/convert"
)

// Subsystem defines the logging code for the command.
const Subsystem = "W2BL"

var log = btclog.Disabled

// setupLoggers routes the command's and every package's log output to w at
// the named level.
func setupLoggers(w io.Writer, level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	backend := btclog.NewBackend(w)
	newLogger := func(subsystem string) btclog.Logger {
		l := backend.Logger(subsystem)
		l.SetLevel(lvl)
		return l
	}
	log = newLogger(Subsystem)
	convert.UseLogger(newLogger(convert.Subsystem))
	return nil
}
