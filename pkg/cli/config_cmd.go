/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/carverauto/fwmetrics/pkg/config"
	"github.com/carverauto/fwmetrics/pkg/models"
)

var errMissingSettings = errors.New("no configuration file exists, --api-key and --hostname are required")

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the exporter configuration",
	}

	cmd.AddCommand(newConfigShowCommand(opts), newConfigWriteCommand(opts))

	return cmd
}

func newConfigShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			log, err := opts.bootstrapLogger(ctx)
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig(ctx, log)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}

type writeOptions struct {
	apiKey    string
	hostname  string
	interval  int
	verifyTLS bool
}

func newConfigWriteCommand(opts *rootOptions) *cobra.Command {
	wo := &writeOptions{}

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Create or update the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			log, err := opts.bootstrapLogger(ctx)
			if err != nil {
				return err
			}

			var cfg models.ExporterConfig

			if configExists(opts.configPath) {
				if err := config.NewFileConfigLoader(log).Load(ctx, opts.configPath, &cfg); err != nil {
					return err
				}
			} else if wo.apiKey == "" || wo.hostname == "" {
				return errMissingSettings
			}

			flags := cmd.Flags()

			if flags.Changed("api-key") {
				cfg.APIKey = wo.apiKey
			}

			if flags.Changed("hostname") {
				cfg.ServerHostname = wo.hostname
			}

			if flags.Changed("interval") {
				cfg.PollingDelaySeconds = wo.interval
			}

			if flags.Changed("verify-tls") {
				cfg.VerifyTLS = &wo.verifyTLS
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := config.WriteFile(opts.configPath, &cfg); err != nil {
				return err
			}

			log.Info().Str("path", opts.configPath).Msg("Configuration written")

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", opts.configPath)

			return err
		},
	}

	cmd.Flags().StringVarP(&wo.apiKey, "api-key", "a", "", "FileWave API key with rights to create groups and queries")
	cmd.Flags().StringVarP(&wo.hostname, "hostname", "e", "", "externally visible DNS name of the FileWave server")
	cmd.Flags().IntVarP(&wo.interval, "interval", "i", models.DefaultPollingDelaySeconds, "seconds between collection cycles")
	cmd.Flags().BoolVar(&wo.verifyTLS, "verify-tls", true, "verify the server's TLS certificate")

	return cmd
}

// configExists reports whether path names a regular file.
func configExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
