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

package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/fwmetrics/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

var errNoServices = errors.New("at least one service is required")

// Service is a long-running component. Start blocks until ctx is cancelled
// or the service fails.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ServerOptions configures RunServer.
type ServerOptions struct {
	ServiceName     string
	Services        []Service
	ShutdownTimeout time.Duration
	Logger          logger.Logger
}

// RunServer starts every service, waits for SIGINT/SIGTERM or the first
// service failure, and then stops all services in reverse order.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	if len(opts.Services) == 0 {
		return errNoServices
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	timeout := opts.ShutdownTimeout
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	for _, svc := range opts.Services {
		g.Go(func() error {
			err := svc.Start(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		})
	}

	log.Info().Str("service", opts.ServiceName).Int("components", len(opts.Services)).Msg("Service started")

	<-gctx.Done()

	log.Info().Str("service", opts.ServiceName).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stopErrs []error

	for i := len(opts.Services) - 1; i >= 0; i-- {
		if err := opts.Services[i].Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Str("service", opts.ServiceName).Msg("Error stopping component")
			stopErrs = append(stopErrs, err)
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return errors.Join(stopErrs...)
}
