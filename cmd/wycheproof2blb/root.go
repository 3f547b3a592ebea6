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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tink-crypto/wycheproof2blb/manifest"
)

// envPrefix prefixes the environment variables that override configuration
// keys, as in WYCHEPROOF2BLB_OUT_DIR.
const envPrefix = "WYCHEPROOF2BLB"

const (
	flagConfig        = "config"
	flagLogLevel      = "log-level"
	flagWycheproofDir = "wycheproof-dir"
)

// app holds the configuration shared by all subcommands of one invocation.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	cmd := &cobra.Command{
		Use:   "wycheproof2blb",
		Short: "Convert Wycheproof ECDSA test vectors into test fixtures",
		Long: `wycheproof2blb converts Wycheproof ECDSA verification test vectors into
blobby or protowire fixtures, each with a text file describing its records.

Every flag can also be set in the configuration file given by --config or in
an environment variable such as WYCHEPROOF2BLB_OUT_DIR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String(flagConfig, "", "Configuration file (YAML, JSON or TOML)")
	pf.String(flagLogLevel, "info", "Log level: trace, debug, info, warn, error, critical or off")
	pf.String(flagWycheproofDir, "wycheproof", "Root of the Wycheproof checkout")

	cmd.AddCommand(
		a.newConvertCmd(),
		a.newListCmd(),
		a.newInspectCmd(),
		a.newDumpCmd(),
	)
	return cmd
}

// configKey returns the configuration key of a flag.
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// load binds the flags of cmd, the environment and the configuration file
// to a.v and sets up logging.
func (a *app) load(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := a.v.BindPFlag(configKey(f.Name), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return bindErr
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.AutomaticEnv()

	if path := a.v.GetString(configKey(flagConfig)); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := setupLoggers(cmd.ErrOrStderr(), a.v.GetString(configKey(flagLogLevel))); err != nil {
		return err
	}
	if path := a.v.ConfigFileUsed(); path != "" {
		log.Debugf("Using config file %s", path)
	}
	return nil
}

// manifest returns the built-in manifest merged with the entries of the
// configuration file.
func (a *app) manifest() (*manifest.Manifest, error) {
	var extra []manifest.Entry
	if err := a.v.UnmarshalKey("entries", &extra); err != nil {
		return nil, fmt.Errorf("reading manifest entries from config: %w", err)
	}
	m, err := manifest.Default().Merge(extra)
	if err != nil {
		return nil, err
	}
	if len(extra) > 0 {
		log.Debugf("Merged %d manifest entries from config", len(extra))
	}
	return m, nil
}

func (a *app) wycheproofDir() string {
	return a.v.GetString(configKey(flagWycheproofDir))
}
