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

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fwmetrics/pkg/collector"
	"github.com/carverauto/fwmetrics/pkg/events"
	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/metrics"
)

type staticStatus struct {
	status collector.Status
}

func (s staticStatus) Status() collector.Status { return s.status }

type fixedProbe struct{}

func (fixedProbe) process(context.Context, time.Time) ProcessInfo {
	return ProcessInfo{PID: 4242, Goroutines: 7}
}

func (fixedProbe) host(context.Context) HostInfo {
	return HostInfo{Hostname: "exporter-01", OS: "linux"}
}

func newTestServer(t *testing.T, pending *events.Pending) (*Server, *metrics.PrometheusSink) {
	t.Helper()

	sink := metrics.NewPrometheusSink(prometheus.NewRegistry())
	status := staticStatus{status: collector.Status{
		ServerVersion: "15.1.0-abc",
		PatchSource:   "updates",
		Cycles:        3,
		LastCycle:     &collector.CycleStatus{ID: "cycle-1", Patches: collector.OutcomeOK},
	}}

	s := NewServer("127.0.0.1:0", sink.Registry(), status, pending, logger.NewTestLogger())
	s.host = fixedProbe{}

	return s, sink
}

func TestServer_Metrics(t *testing.T) {
	s, sink := newTestServer(t, &events.Pending{})

	require.NoError(t, sink.Replace(metrics.PerDeviceCompliance, []metrics.Sample{
		{Labels: []string{"OK"}, Value: 12},
		{Labels: []string{"ERROR"}, Value: 2},
	}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `extra_metrics_per_device_compliance{compliance="OK"} 12`)
	assert.Contains(t, rec.Body.String(), `extra_metrics_per_device_compliance{compliance="ERROR"} 2`)
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t, &events.Pending{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestServer_Status(t *testing.T) {
	s, _ := newTestServer(t, &events.Pending{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Collector collector.Status `json:"collector"`
		Process   ProcessInfo      `json:"process"`
		Host      HostInfo         `json:"host"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "15.1.0-abc", body.Collector.ServerVersion)
	assert.Equal(t, uint64(3), body.Collector.Cycles)
	require.NotNil(t, body.Collector.LastCycle)
	assert.Equal(t, collector.OutcomeOK, body.Collector.LastCycle.Patches)
	assert.Equal(t, 4242, body.Process.PID)
	assert.Equal(t, "exporter-01", body.Host.Hostname)
}

func TestServer_CollectSetsPending(t *testing.T) {
	pending := &events.Pending{}
	s, _ := newTestServer(t, pending)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/collect", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, pending.IsSet())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/collect", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, pending.IsSet())
}

func TestServer_StartStop(t *testing.T) {
	s, _ := newTestServer(t, &events.Pending{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() { errCh <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + s.Addr().String() + "/healthz") //nolint:noctx // test
		if err != nil {
			return false
		}

		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestGopsutilProbe(t *testing.T) {
	info := gopsutilProbe{}.process(context.Background(), time.Now().Add(-time.Minute))

	assert.Positive(t, info.PID)
	assert.GreaterOrEqual(t, info.UptimeSeconds, 60.0)
	assert.Positive(t, info.Goroutines)
}
