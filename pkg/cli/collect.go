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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carverauto/fwmetrics/pkg/collector"
	"github.com/carverauto/fwmetrics/pkg/filewave"
	"github.com/carverauto/fwmetrics/pkg/lifecycle"
	"github.com/carverauto/fwmetrics/pkg/metrics"
)

func newCollectCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Run one collection cycle and print the resulting gauges",
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

			sink := metrics.NewMemorySink()

			client, err := filewave.NewClient(cfg, sink, lifecycle.Component(log, "filewave"))
			if err != nil {
				return err
			}

			svc := collector.NewService(cfg, client, sink, lifecycle.Component(log, "collector"))
			if err := svc.Connect(ctx); err != nil {
				return err
			}

			cycle, cycleErr := svc.RunCycle(ctx)

			if _, err := fmt.Fprint(cmd.OutOrStdout(), sink.Exposition()); err != nil {
				return err
			}

			if cycleErr != nil {
				return fmt.Errorf("cycle %s: %w", cycle.ID, cycleErr)
			}

			return nil
		},
	}
}
