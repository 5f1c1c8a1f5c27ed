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

// Package cli implements the extra-metrics command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carverauto/fwmetrics/pkg/config"
	"github.com/carverauto/fwmetrics/pkg/lifecycle"
	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/models"
)

// DefaultConfigPath is where the on-box installer writes the config.
const DefaultConfigPath = "/usr/local/etc/filewave/extra_metrics.ini"

type rootOptions struct {
	configPath string
	debug      bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "extra-metrics",
		Short: "Prometheus exporter for FileWave patch, device and application metrics",
		Long: `extra-metrics polls a FileWave server, rolls up software update,
device compliance and application version data, and serves it as
Prometheus gauges.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", DefaultConfigPath, "path to the configuration file (.ini, .json, .yaml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCommand(opts),
		newCollectCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the command line.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}

// loadConfig reads and validates the configuration at the root --config path.
func (o *rootOptions) loadConfig(ctx context.Context, log logger.Logger) (*models.ExporterConfig, error) {
	var cfg models.ExporterConfig

	if err := config.NewConfig(log).LoadAndValidate(ctx, o.configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", o.configPath, err)
	}

	if o.debug {
		if cfg.Logging == nil {
			cfg.Logging = logger.DefaultConfig()
		}

		cfg.Logging.Debug = true
	}

	return &cfg, nil
}

func (o *rootOptions) bootstrapLogger(ctx context.Context) (logger.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.Debug = cfg.Debug || o.debug
	// stdout carries command output
	cfg.Output = "stderr"

	return lifecycle.CreateComponentLogger(ctx, "extra-metrics", cfg)
}
