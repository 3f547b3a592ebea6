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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tink-crypto/wycheproof2blb/inspect"
	"github.com/tink-crypto/wycheproof2blb/wycheproof"
)

const flagSchema = "schema"

func (a *app) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a Wycheproof ECDSA test vector file",
		Long: `Summarize a Wycheproof ECDSA test vector file: its groups, results, flags,
signature layouts and the digest that can pin it in the manifest.

Without --schema, files in a testvectors_v1 directory are read as v1 and all
others as legacy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := cmd.Flags().GetString(flagSchema)
			if err != nil {
				return err
			}
			v, err := schemaOf(args[0], schema)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			r, err := inspect.Summarize(data, v)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			_, err = r.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().String(flagSchema, "", "Schema version of the file: legacy or v1")
	return cmd
}

// schemaOf returns the schema version named by schema, or the version
// implied by the directory of path when schema is empty.
func schemaOf(path, schema string) (wycheproof.SchemaVersion, error) {
	if schema != "" {
		return wycheproof.ParseSchemaVersion(schema)
	}
	if dir, _ := wycheproof.V1.Dir(); filepath.Base(filepath.Dir(path)) == dir {
		return wycheproof.V1, nil
	}
	return wycheproof.Legacy, nil
}
