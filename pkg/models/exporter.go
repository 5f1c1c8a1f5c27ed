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

// Package models holds configuration and shared data types for the exporter.
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/fwmetrics/pkg/logger"
)

// Duration unmarshals from "30s" strings or numeric nanoseconds.
type Duration = logger.Duration

const (
	PatchSourceUpdates   = "updates"
	PatchSourceInventory = "inventory"

	DefaultPollingDelaySeconds = 30
	DefaultListenAddr          = ":8000"
	DefaultAppQueryGroup       = "Extra Metrics Queries - Apps"
	DefaultNATSURL             = "nats://localhost:4222"
	DefaultEventsSubject       = "filewave.events.>"

	defaultRequestTimeout = 60 * time.Second
)

var (
	ErrMissingHostname      = errors.New("fw_server_hostname is required")
	ErrMissingAPIKey        = errors.New("fw_server_api_key is required")
	ErrInvalidPatchSource   = errors.New("patch_source must be 'updates' or 'inventory'")
	ErrInvalidPollingDelay  = errors.New("fw_query_polling_delay_seconds must be positive")
	ErrUnknownLegacyKey     = errors.New("unknown legacy configuration key")
	ErrInvalidLegacyBoolean = errors.New("invalid boolean value")
)

// ExporterConfig is the full runtime configuration. The four fw_* keys keep
// the names used by the on-box ini file.
type ExporterConfig struct {
	ServerHostname      string               `json:"fw_server_hostname" yaml:"fw_server_hostname"`
	APIKey              string               `json:"fw_server_api_key" yaml:"fw_server_api_key"`
	PollingDelaySeconds int                  `json:"fw_query_polling_delay_seconds" yaml:"fw_query_polling_delay_seconds"`
	VerifyTLS           *bool                `json:"fw_verify_tls,omitempty" yaml:"fw_verify_tls,omitempty"`
	PollInterval        Duration             `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
	RequestTimeout      Duration             `json:"request_timeout" yaml:"request_timeout"`
	ListenAddr          string               `json:"listen_addr" yaml:"listen_addr"`
	PatchSource         string               `json:"patch_source" yaml:"patch_source"`
	AppQueryGroup       string               `json:"app_query_group" yaml:"app_query_group"`
	Retry               RetryConfig          `json:"retry" yaml:"retry"`
	CircuitBreaker      CircuitBreakerConfig `json:"circuit_breaker" yaml:"circuit_breaker"`
	RateLimit           RateLimitConfig      `json:"rate_limit" yaml:"rate_limit"`
	Events              *EventsConfig        `json:"events,omitempty" yaml:"events,omitempty"`
	Logging             *logger.Config       `json:"logging,omitempty" yaml:"logging,omitempty"`
}

type RetryConfig struct {
	Attempts uint     `json:"attempts" yaml:"attempts"`
	Delay    Duration `json:"delay" yaml:"delay"`
	MaxDelay Duration `json:"max_delay" yaml:"max_delay"`
}

type CircuitBreakerConfig struct {
	FailureThreshold int      `json:"failure_threshold" yaml:"failure_threshold"`
	SuccessThreshold int      `json:"success_threshold" yaml:"success_threshold"`
	Timeout          Duration `json:"timeout" yaml:"timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// EventsConfig configures the NATS subscription that bridges server events
// into out-of-cycle collection requests.
type EventsConfig struct {
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	NATSURL  string   `json:"nats_url" yaml:"nats_url"`
	Subjects []string `json:"subjects" yaml:"subjects"`
	Queue    string   `json:"queue,omitempty" yaml:"queue,omitempty"`
}

// Validate fills defaults and reports every missing or invalid field.
func (c *ExporterConfig) Validate() error {
	var errs []error

	if c.ServerHostname == "" {
		errs = append(errs, ErrMissingHostname)
	}

	if c.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}

	if c.PollingDelaySeconds < 0 {
		errs = append(errs, ErrInvalidPollingDelay)
	}

	c.applyDefaults()

	if c.PatchSource != PatchSourceUpdates && c.PatchSource != PatchSourceInventory {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPatchSource, c.PatchSource))
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("logging: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *ExporterConfig) applyDefaults() {
	if c.PollingDelaySeconds == 0 {
		c.PollingDelaySeconds = DefaultPollingDelaySeconds
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = Duration(defaultRequestTimeout)
	}

	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	if c.PatchSource == "" {
		c.PatchSource = PatchSourceUpdates
	}

	if c.AppQueryGroup == "" {
		c.AppQueryGroup = DefaultAppQueryGroup
	}

	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = 3
	}

	if c.Retry.Delay == 0 {
		c.Retry.Delay = Duration(time.Second)
	}

	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = Duration(10 * time.Second)
	}

	if c.CircuitBreaker.FailureThreshold == 0 {
		c.CircuitBreaker.FailureThreshold = 5
	}

	if c.CircuitBreaker.SuccessThreshold == 0 {
		c.CircuitBreaker.SuccessThreshold = 2
	}

	if c.CircuitBreaker.Timeout == 0 {
		c.CircuitBreaker.Timeout = Duration(30 * time.Second)
	}

	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 10
	}

	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}

	if c.Events != nil && c.Events.Enabled {
		if c.Events.NATSURL == "" {
			c.Events.NATSURL = DefaultNATSURL
		}

		if len(c.Events.Subjects) == 0 {
			c.Events.Subjects = []string{DefaultEventsSubject}
		}
	}
}

// PollDelay is the interval between scheduled collection cycles.
func (c *ExporterConfig) PollDelay() time.Duration {
	if c.PollInterval > 0 {
		return time.Duration(c.PollInterval)
	}

	if c.PollingDelaySeconds > 0 {
		return time.Duration(c.PollingDelaySeconds) * time.Second
	}

	return DefaultPollingDelaySeconds * time.Second
}

// TLSVerification reports whether server certificates are verified; unset
// means true.
func (c *ExporterConfig) TLSVerification() bool {
	return c.VerifyTLS == nil || *c.VerifyTLS
}

// EventsEnabled reports whether the NATS event subscriber should run.
func (c *ExporterConfig) EventsEnabled() bool {
	return c.Events != nil && c.Events.Enabled
}

// Redacted returns a copy safe to print.
func (c *ExporterConfig) Redacted() ExporterConfig {
	out := *c

	if out.APIKey != "" {
		out.APIKey = "********"
	}

	return out
}

// SetLegacyValue applies one key from the [extra_metrics] ini section.
func (c *ExporterConfig) SetLegacyValue(key, value string) error {
	value = strings.TrimSpace(value)

	switch strings.ToLower(key) {
	case "fw_server_hostname":
		c.ServerHostname = value
	case "fw_server_api_key":
		c.APIKey = value
	case "fw_query_polling_delay_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("fw_query_polling_delay_seconds: %w", err)
		}

		c.PollingDelaySeconds = n
	case "fw_verify_tls":
		b, err := ParseLegacyBool(value)
		if err != nil {
			return fmt.Errorf("fw_verify_tls: %w", err)
		}

		c.VerifyTLS = &b
	case "listen_addr":
		c.ListenAddr = value
	case "patch_source":
		c.PatchSource = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownLegacyKey, key)
	}

	return nil
}

// LegacyValues returns the keys written to the ini file.
func (c *ExporterConfig) LegacyValues() map[string]string {
	verify := "on"
	if !c.TLSVerification() {
		verify = "off"
	}

	delay := c.PollingDelaySeconds
	if delay == 0 {
		delay = DefaultPollingDelaySeconds
	}

	return map[string]string{
		"fw_server_hostname":             c.ServerHostname,
		"fw_server_api_key":              c.APIKey,
		"fw_query_polling_delay_seconds": strconv.Itoa(delay),
		"fw_verify_tls":                  verify,
	}
}

// ParseLegacyBool accepts on/off, yes/no, true/false and 1/0.
func ParseLegacyBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidLegacyBoolean, s)
	}
}
