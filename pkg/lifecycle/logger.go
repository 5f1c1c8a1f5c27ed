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

// Package lifecycle wires process-level concerns: injected loggers and
// signal-driven shutdown.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/carverauto/fwmetrics/pkg/logger"
)

// InitializeLogger configures the process-wide logger. A nil config uses
// logger.DefaultConfig.
func InitializeLogger(ctx context.Context, config *logger.Config) error {
	if err := logger.Init(ctx, config); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// CreateComponentLogger builds a standalone logger tagged with component.
func CreateComponentLogger(ctx context.Context, component string, config *logger.Config) (logger.Logger, error) {
	zl, err := logger.NewZerolog(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s logger: %w", component, err)
	}

	return logger.Wrap(zl.With().Str("component", component).Logger()), nil
}

// Component derives a child logger from parent, replacing its component.
func Component(parent logger.Logger, component string) logger.Logger {
	return logger.Wrap(parent.WithComponent(component))
}

// ShutdownLogger flushes pending OTel log records.
func ShutdownLogger() error {
	return logger.Shutdown()
}
