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

// Package convert runs the converters listed in a manifest over a Wycheproof
// checkout and writes the resulting fixtures.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tink-crypto/wycheproof2blb/fixture"
	"github.com/tink-crypto/wycheproof2blb/manifest"
	"github.com/tink-crypto/wycheproof2blb/wycheproof"
	"golang.org/x/sync/errgroup"
)

// ErrDigestMismatch is returned when a test vector file does not have the
// digest pinned by its manifest entry.
var ErrDigestMismatch = errors.New("test vector digest mismatch")

// Options configures a conversion run.
type Options struct {
	// WycheproofDir is the root of a Wycheproof checkout.
	WycheproofDir string
	// OutDir receives <name><ext> and <name>.txt for every entry.
	OutDir string
	Format fixture.Format
	// Jobs bounds the number of concurrent conversions. Zero means
	// GOMAXPROCS.
	Jobs int
	// KeepGoing converts every entry even after a failure and reports all
	// failures at the end.
	KeepGoing bool
}

// Paths are the output files of one conversion.
type Paths struct {
	Fixture      string
	Descriptions string
}

// OutputPaths returns where Convert writes the output of e.
func OutputPaths(e manifest.Entry, opts Options) Paths {
	return Paths{
		Fixture:      filepath.Join(opts.OutDir, e.Name+opts.Format.Ext()),
		Descriptions: filepath.Join(opts.OutDir, e.Name+".txt"),
	}
}

// Result describes a successful conversion.
type Result struct {
	Entry   manifest.Entry
	Input   string
	Digest  string
	Records int
	Paths   Paths
}

// Convert converts the file described by e and writes it to the paths given
// by OutputPaths.
func Convert(e manifest.Entry, opts Options) (*Result, error) {
	return ConvertTo(e, opts.WycheproofDir, OutputPaths(e, opts), opts.Format)
}

// ConvertTo converts the file described by e, read from the Wycheproof
// checkout at wycheproofDir, and writes the fixture and its descriptions to
// out. Errors name the input file. Output files are only replaced once the
// whole conversion succeeded.
func ConvertTo(e manifest.Entry, wycheproofDir string, out Paths, format fixture.Format) (*Result, error) {
	log.Debugf("Converting %v", newLogClosure(func() string {
		return limitSpewer.Sdump(e)
	}))

	v, err := e.Version()
	if err != nil {
		return nil, err
	}
	generate, err := e.GeneratorFunc()
	if err != nil {
		return nil, err
	}
	dir, err := v.Dir()
	if err != nil {
		return nil, err
	}
	input := filepath.Join(wycheproofDir, dir, e.File)
	data, err := wycheproof.ReadVectors(wycheproofDir, v, e.File)
	if err != nil {
		return nil, err
	}

	digest, err := wycheproof.Digest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	if e.SHA256 != "" && !strings.EqualFold(e.SHA256, digest) {
		return nil, fmt.Errorf("%s: %w: got %s, want %s", input, ErrDigestMismatch, digest, e.SHA256)
	}

	infos, err := generate(data, e.Algorithm, e.KeySize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}

	if err := writeOutputs(out, infos, format); err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}

	log.Infof("Converted %d test cases from %s to %s", len(infos), input, out.Fixture)
	return &Result{
		Entry:   e,
		Input:   input,
		Digest:  digest,
		Records: len(infos),
		Paths:   out,
	}, nil
}

// writeOutputs writes the fixture and the descriptions of infos to
// temporary files next to their destinations. Both are renamed into place
// only once both have been written; on error the temporary files are
// removed and existing outputs are left untouched.
func writeOutputs(out Paths, infos []*fixture.TestInfo, format fixture.Format) (err error) {
	var staged []string
	defer func() {
		if err != nil {
			for _, tmp := range staged {
				os.Remove(tmp)
			}
		}
	}()

	tmp, err := stage(out.Fixture, func(w io.Writer) error {
		return fixture.Write(w, infos, format)
	})
	if err != nil {
		return err
	}
	staged = append(staged, tmp)
	tmp, err = stage(out.Descriptions, func(w io.Writer) error {
		return fixture.WriteDescriptions(w, infos)
	})
	if err != nil {
		return err
	}
	staged = append(staged, tmp)

	if err := os.Rename(staged[1], out.Descriptions); err != nil {
		return err
	}
	// The fixture is renamed last, so it never appears without the
	// descriptions it was written with.
	staged = staged[:1]
	return os.Rename(staged[0], out.Fixture)
}

// stage writes a temporary file in the directory of path and returns its
// name. The file is removed if write fails.
func stage(path string, write func(w io.Writer) error) (name string, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err := write(f); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// ConvertAll converts entries concurrently. Results of successful
// conversions are returned in entry order, also when an error is returned.
//
// Unless opts.KeepGoing is set, the first failure stops conversions that have
// not started yet and is returned. Otherwise all entries are converted and the
// failures are joined.
func ConvertAll(ctx context.Context, entries []manifest.Entry, opts Options) ([]*Result, error) {
	results := make([]*Result, len(entries))
	errs := make([]error, len(entries))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Convert(e, opts)
			if err != nil {
				err = fmt.Errorf("%s: %w", e.Name, err)
				if !opts.KeepGoing {
					return err
				}
				log.Errorf("Skipping %s: %v", e.Name, err)
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = errors.Join(errs...)
	}

	converted := make([]*Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			converted = append(converted, r)
		}
	}
	log.Infof("Converted %d of %d test vector files", len(converted), len(entries))
	return converted, err
}
