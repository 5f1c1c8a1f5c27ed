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

package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	config := &Config{
		Level:  "debug",
		Debug:  true,
		Output: "stdout",
	}

	require.NoError(t, Init(context.Background(), config))

	logger := GetLogger()
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(context.Background(), &Config{Level: "chatty"})
	require.Error(t, err)
}

func TestSetDebug(t *testing.T) {
	SetDebug(true)

	logger := GetLogger()
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	SetDebug(false)

	logger = GetLogger()
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestWithComponent(t *testing.T) {
	SetDebug(false)

	componentLogger := WithComponent("test-component")
	assert.NotEqual(t, zerolog.Disabled, componentLogger.GetLevel())
}

func TestNewZerologDoesNotTouchGlobal(t *testing.T) {
	SetDebug(false)

	zl, err := NewZerolog(context.Background(), &Config{Level: "warn", Output: "stderr"})
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, zl.GetLevel())

	global := GetLogger()
	assert.Equal(t, zerolog.InfoLevel, global.GetLevel())
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OTEL_SERVICE_NAME", "")

	config := DefaultConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "stdout", config.Output)
	assert.Equal(t, defaultServiceName, config.OTel.ServiceName)
}

func TestDefaultOTelConfigHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_HEADERS", "x-token = abc, x-tenant=lab")
	t.Setenv("OTEL_LOGS_ENABLED", "on")

	config := DefaultOTelConfig()

	assert.True(t, config.Enabled)
	assert.Equal(t, map[string]string{"x-token": "abc", "x-tenant": "lab"}, config.Headers)
}

func TestTestLoggerDiscards(t *testing.T) {
	l := NewTestLogger()
	l.Info().Str("k", "v").Msg("discarded")

	assert.Equal(t, zerolog.Disabled, l.WithComponent("x").GetLevel())
}

func TestWriterLoggerCapturesFields(t *testing.T) {
	var buf bytes.Buffer

	l := NewWriterLogger(&buf)
	l.Warn().Int64("device_id", 11).Msg("skipped")

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"device_id":11`)

	buf.Reset()
	l.SetDebug(false)
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestWrapComponent(t *testing.T) {
	var buf bytes.Buffer

	l := NewWriterLogger(&buf)
	child := l.WithComponent("events")
	child.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"events"`)
}

func TestDefaultConfigPrefersPrefixedEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("EXTRA_METRICS_LOG_LEVEL", "debug")

	assert.Equal(t, "debug", DefaultConfig().Level)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, (&Config{Level: "info", Output: "stderr"}).Validate())
	require.NoError(t, (&Config{}).Validate())

	err := (&Config{
		Level:  "chatty",
		Output: "syslog",
		OTel:   OTelConfig{Enabled: true},
	}).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidLevel)
	assert.ErrorIs(t, err, errInvalidOutput)
	assert.ErrorIs(t, err, ErrOTelEndpointRequired)
}
