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
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tink-crypto/wycheproof2blb/convert"
	"github.com/tink-crypto/wycheproof2blb/fixture"
	"github.com/tink-crypto/wycheproof2blb/manifest"
)

const (
	flagAll       = "all"
	flagOutDir    = "out-dir"
	flagFormat    = "format"
	flagJobs      = "jobs"
	flagKeepGoing = "keep-going"
	flagBlb       = "blb"
	flagTxt       = "txt"
)

func (a *app) newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [name...]",
		Short: "Convert test vector files named in the manifest",
		Long: `Convert the named test vector files, or every file of the manifest with
--all, into <out-dir>/<name><ext> and <out-dir>/<name>.txt.

With --blb and --txt a single named file is converted into exactly those
two paths.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manifest()
			if err != nil {
				return err
			}
			format, err := fixture.ParseFormat(a.v.GetString(flagFormat))
			if err != nil {
				return err
			}

			blb, err := cmd.Flags().GetString(flagBlb)
			if err != nil {
				return err
			}
			txt, err := cmd.Flags().GetString(flagTxt)
			if err != nil {
				return err
			}
			if blb != "" || txt != "" {
				return a.convertTo(cmd.OutOrStdout(), m, args, convert.Paths{Fixture: blb, Descriptions: txt}, format)
			}

			entries, err := a.selectEntries(m, args)
			if err != nil {
				return err
			}
			opts := convert.Options{
				WycheproofDir: a.wycheproofDir(),
				OutDir:        a.v.GetString(configKey(flagOutDir)),
				Format:        format,
				Jobs:          a.v.GetInt(flagJobs),
				KeepGoing:     a.v.GetBool(configKey(flagKeepGoing)),
			}
			results, err := convert.ConvertAll(cmd.Context(), entries, opts)
			for _, r := range results {
				printResult(cmd.OutOrStdout(), r)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.Bool(flagAll, false, "Convert every file of the manifest")
	f.String(flagOutDir, "out", "Output directory")
	f.String(flagFormat, string(fixture.FormatBlobby), "Fixture format: blb or protowire")
	f.Int(flagJobs, 0, "Number of files converted concurrently (0 means one per CPU)")
	f.Bool(flagKeepGoing, false, "Convert the remaining files after a failure")
	f.String(flagBlb, "", "Fixture output path for a single file (requires --txt)")
	f.String(flagTxt, "", "Description output path for a single file (requires --blb)")
	return cmd
}

// selectEntries returns the entries named by args, or all entries with
// --all.
func (a *app) selectEntries(m *manifest.Manifest, args []string) ([]manifest.Entry, error) {
	all := a.v.GetBool(flagAll)
	switch {
	case all && len(args) > 0:
		return nil, errors.New("--all does not take file names")
	case all:
		return m.Entries(), nil
	case len(args) == 0:
		return nil, errors.New("name the files to convert or pass --all")
	default:
		return m.Select(args)
	}
}

func (a *app) convertTo(w io.Writer, m *manifest.Manifest, args []string, out convert.Paths, format fixture.Format) error {
	if out.Fixture == "" || out.Descriptions == "" {
		return fmt.Errorf("--%s and --%s must be given together", flagBlb, flagTxt)
	}
	if len(args) != 1 || a.v.GetBool(flagAll) {
		return fmt.Errorf("--%s and --%s convert exactly one named file", flagBlb, flagTxt)
	}
	e, ok := m.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown test vector file %q", args[0])
	}
	res, err := convert.ConvertTo(e, a.wycheproofDir(), out, format)
	if err != nil {
		return err
	}
	printResult(w, res)
	return nil
}

func printResult(w io.Writer, r *convert.Result) {
	fmt.Fprintf(w, "%s: %d records to %s and %s\n", r.Entry.Name, r.Records, r.Paths.Fixture, r.Paths.Descriptions)
}
