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
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tink-crypto/wycheproof2blb/ecdsa"
	"github.com/tink-crypto/wycheproof2blb/fixture"
)

const flagArity = "arity"

func (a *app) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <fixture>",
		Short: "Print the records of a fixture",
		Long: `Print the records of a blobby or protowire fixture as hex, each preceded by
its description. Blobby fixtures carry no descriptions; pass the description
file with --txt.

Without --format the format is taken from the file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			name, err := flags.GetString(flagFormat)
			if err != nil {
				return err
			}
			txt, err := flags.GetString(flagTxt)
			if err != nil {
				return err
			}
			arity, err := flags.GetInt(flagArity)
			if err != nil {
				return err
			}

			format := fixture.FormatBlobby
			switch {
			case name != "":
				if format, err = fixture.ParseFormat(name); err != nil {
					return err
				}
			case filepath.Ext(args[0]) == fixture.FormatProtowire.Ext():
				format = fixture.FormatProtowire
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			infos, err := fixture.Read(data, format, arity)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if txt != "" {
				if err := readDescriptions(txt, infos); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			for i, info := range infos {
				fmt.Fprintf(w, "#%d %s\n", i, info.Desc)
				for j, d := range info.Data {
					fmt.Fprintf(w, "  [%d] %s\n", j, hex.EncodeToString(d))
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String(flagFormat, "", "Fixture format: blb or protowire")
	f.String(flagTxt, "", "Description file of the fixture")
	f.Int(flagArity, ecdsa.Arity, "Number of byte strings per record of a blobby fixture")
	return cmd
}

// readDescriptions sets the descriptions of infos from the file at path,
// which must hold one line per record.
func readDescriptions(path string, infos []*fixture.TestInfo) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	descs, err := fixture.ReadDescriptions(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(descs) != len(infos) {
		return fmt.Errorf("%s has %d descriptions for %d records", path, len(descs), len(infos))
	}
	for i, d := range descs {
		infos[i].Desc = d
	}
	return nil
}
