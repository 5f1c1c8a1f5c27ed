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
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/carverauto/fwmetrics/pkg/collector"
	"github.com/carverauto/fwmetrics/pkg/events"
	"github.com/carverauto/fwmetrics/pkg/filewave"
	"github.com/carverauto/fwmetrics/pkg/lifecycle"
	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/metrics"
	"github.com/carverauto/fwmetrics/pkg/models"
	"github.com/carverauto/fwmetrics/pkg/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the exporter: HTTP surface, collector and event subscriber",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	boot, err := opts.bootstrapLogger(ctx)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig(ctx, boot)
	if err != nil {
		return err
	}

	if err := lifecycle.InitializeLogger(ctx, cfg.Logging); err != nil {
		return err
	}

	defer func() { _ = lifecycle.ShutdownLogger() }()

	log, err := lifecycle.CreateComponentLogger(ctx, "extra-metrics", cfg.Logging)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sink := metrics.NewPrometheusSink(registry)

	client, err := filewave.NewClient(cfg, sink, lifecycle.Component(log, "filewave"))
	if err != nil {
		return err
	}

	pending := &events.Pending{}

	svc := collector.NewService(cfg, client, sink, lifecycle.Component(log, "collector"), collector.WithPending(pending))
	httpSrv := server.NewServer(cfg.ListenAddr, registry, svc, pending, lifecycle.Component(log, "http"))

	services := []lifecycle.Service{httpSrv}

	if cfg.EventsEnabled() {
		services = append(services, events.NewSubscriber(cfg.Events, pending, lifecycle.Component(log, "events")))
	}

	services = append(services, svc)

	logSummary(log, cfg)

	if err := lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ServiceName: "extra-metrics",
		Services:    services,
		Logger:      log,
	}); err != nil {
		return fmt.Errorf("extra-metrics failed: %w", err)
	}

	return nil
}

func logSummary(log logger.Logger, cfg *models.ExporterConfig) {
	log.Info().
		Str("host", cfg.ServerHostname).
		Dur("poll_interval", cfg.PollDelay()).
		Bool("verify_tls", cfg.TLSVerification()).
		Str("listen_addr", cfg.ListenAddr).
		Str("patch_source", cfg.PatchSource).
		Str("app_query_group", cfg.AppQueryGroup).
		Bool("events", cfg.EventsEnabled()).
		Msg("Extra Metrics configuration")
}
