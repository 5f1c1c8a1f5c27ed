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

package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/fwmetrics/pkg/compliance"
	"github.com/carverauto/fwmetrics/pkg/devices"
	"github.com/carverauto/fwmetrics/pkg/events"
	"github.com/carverauto/fwmetrics/pkg/filewave"
	"github.com/carverauto/fwmetrics/pkg/inventory"
	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/metrics"
	"github.com/carverauto/fwmetrics/pkg/models"
	"github.com/carverauto/fwmetrics/pkg/patches"
)

var (
	fixedNow       = time.Date(2021, 3, 11, 10, 0, 0, 0, time.UTC)
	errUnreachable = errors.New("dial tcp: connection refused")
)

type fakeTicker struct {
	ch chan time.Time
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.ch }
func (*fakeTicker) Stop()                    {}

type fakeClock struct {
	mu      sync.Mutex
	tickers map[time.Duration]*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{tickers: make(map[time.Duration]*fakeTicker)}
}

func (*fakeClock) Now() time.Time { return fixedNow }

func (c *fakeClock) Ticker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTicker{ch: make(chan time.Time)}
	c.tickers[d] = t

	return t
}

func (c *fakeClock) tick(t *testing.T, d time.Duration) {
	t.Helper()

	var ticker *fakeTicker

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()

		ticker = c.tickers[d]

		return ticker != nil
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case ticker.ch <- fixedNow:
	case <-time.After(5 * time.Second):
		t.Fatalf("ticker %s not consumed", d)
	}
}

func testConfig() *models.ExporterConfig {
	cfg := &models.ExporterConfig{
		ServerHostname: "fw.example.test",
		APIKey:         "key",
	}
	_ = cfg.Validate()

	return cfg
}

func ids(v ...interface{}) []interface{} { return v }

// criticalSnapshot has one critical macOS update assigned to device 11 and
// not yet installed.
func criticalSnapshot() *patches.Snapshot {
	return &patches.Snapshot{Results: []patches.UpdateRecord{{
		InternalKey:    1,
		Name:           "Security Update",
		UpdateID:       "SU-1",
		Platform:       "0",
		Critical:       true,
		CountRequested: 1,
		Assigned: patches.AssignedDevices{
			Assigned:  patches.DeviceList{Count: 1, DeviceIDs: ids(11.0)},
			Remaining: patches.DeviceList{Count: 1, DeviceIDs: ids(11.0)},
		},
	}}}
}

func clientTable() *inventory.Table {
	return &inventory.Table{
		Fields: devices.RequiredColumns,
		Values: [][]interface{}{
			{"mac-11", 11.0, "2021-03-10T10:00:00.000000Z", 60.0, 100.0},
			{"win-12", 12.0, "2021-03-10T10:00:00.000000Z", 60.0, 100.0},
		},
	}
}

func appQuery() *inventory.Query {
	group := int64(7)

	return &inventory.Query{
		ID:            3,
		Name:          "Zoom",
		Group:         &group,
		MainComponent: "Application",
		Fields: []inventory.Column{
			{Component: "Application", Column: "name"},
			{Component: "Application", Column: "version"},
			{Component: "Client", Column: "device_id"},
		},
	}
}

func appTable() *inventory.Table {
	return &inventory.Table{
		Fields: []string{"Application_name", "Application_version", "Client_device_id"},
		Values: [][]interface{}{
			{"Zoom", "5.1.0", "11"},
			{"Zoom", "5.1.0", "12"},
			{"Zoom", "5.2.0", "13"},
		},
	}
}

func expectApplications(api *MockFileWaveAPI) {
	api.EXPECT().EnsureQueryGroup(gomock.Any(), models.DefaultAppQueryGroup).Return(int64(7), false, nil).AnyTimes()
	api.EXPECT().ListInventoryQueries(gomock.Any()).Return([]inventory.Query{*appQuery()}, nil).AnyTimes()
	api.EXPECT().QueryDefinition(gomock.Any(), int64(3)).Return(appQuery(), nil).AnyTimes()
	api.EXPECT().QueryResults(gomock.Any(), int64(3)).Return(appTable(), nil).AnyTimes()
}

func newTestService(cfg *models.ExporterConfig, api FileWaveAPI, sink metrics.Sink, opts ...Option) *Service {
	opts = append([]Option{WithClock(newFakeClock())}, opts...)

	return NewService(cfg, api, sink, logger.NewTestLogger(), opts...)
}

func TestService_RunCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFileWaveAPI(ctrl)
	sink := metrics.NewMemorySink()

	gomock.InOrder(
		api.EXPECT().FetchUpdates(gomock.Any()).Return(criticalSnapshot(), nil),
		api.EXPECT().FetchClientInventory(gomock.Any()).Return(clientTable(), nil),
		api.EXPECT().EnsureQueryGroup(gomock.Any(), models.DefaultAppQueryGroup).Return(int64(7), false, nil),
	)
	api.EXPECT().ListInventoryQueries(gomock.Any()).Return([]inventory.Query{*appQuery()}, nil)
	api.EXPECT().QueryDefinition(gomock.Any(), int64(3)).Return(appQuery(), nil)
	api.EXPECT().QueryResults(gomock.Any(), int64(3)).Return(appTable(), nil)

	svc := newTestService(testConfig(), api, sink)

	cycle, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, cycle.ID)
	assert.Equal(t, OutcomeOK, cycle.Patches)
	assert.Equal(t, OutcomeOK, cycle.Devices)
	assert.Equal(t, OutcomeOK, cycle.Applications)
	assert.Equal(t, 1, cycle.UpdateCount)
	assert.Equal(t, 2, cycle.DeviceCount)
	assert.Equal(t, 1, cycle.QueryCount)

	// Device 11 is otherwise healthy, so its outstanding critical patch
	// decides its level.
	v, ok := sink.Value(metrics.PerDeviceCompliance, compliance.Error.String())
	require.True(t, ok)
	assert.InDelta(t, 1, v, 0)

	v, ok = sink.Value(metrics.PerDeviceCompliance, compliance.OK.String())
	require.True(t, ok)
	assert.InDelta(t, 1, v, 0)

	v, ok = sink.Value(metrics.SoftwareUpdatesByDevice, "mac-11", "11", "True")
	require.True(t, ok)
	assert.InDelta(t, 1, v, 0)

	_, ok = sink.Value(metrics.SoftwareUpdatesByDevice, "win-12", "12", "True")
	assert.False(t, ok, "devices without patch counters have no per-device samples")

	v, ok = sink.Value(metrics.SoftwareUpdatesByState, patches.StateAssigned)
	require.True(t, ok)
	assert.InDelta(t, 1, v, 0)

	v, ok = sink.Value(metrics.ApplicationVersion, "Zoom", "5.1.0", "3")
	require.True(t, ok)
	assert.InDelta(t, 2, v, 0)

	st := svc.Status()
	assert.Equal(t, uint64(1), st.Cycles)
	assert.False(t, st.Running)
	require.NotNil(t, st.LastCycle)
	assert.Equal(t, cycle.ID, st.LastCycle.ID)
}

func TestService_RunCycleInventorySource(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFileWaveAPI(ctrl)
	sink := metrics.NewMemorySink()

	cfg := testConfig()
	cfg.PatchSource = models.PatchSourceInventory

	api.EXPECT().FetchPatchInventory(gomock.Any()).Return(&inventory.Table{
		Fields: []string{
			patches.ColumnClientID, patches.ColumnClientName, patches.ColumnUpdateName,
			patches.ColumnUpdatePlatform, patches.ColumnUpdateCritical,
		},
		Values: [][]interface{}{
			{12.0, "win-12", "KB500", "1", false},
			{12.0, "win-12", "KB501", "1", false},
		},
	}, nil)
	api.EXPECT().FetchClientInventory(gomock.Any()).Return(clientTable(), nil)
	expectApplications(api)

	svc := newTestService(cfg, api, sink)

	cycle, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, cycle.Patches)

	v, ok := sink.Value(metrics.SoftwareUpdatesByDevice, "win-12", "12", "False")
	require.True(t, ok)
	assert.InDelta(t, 2, v, 0)

	v, ok = sink.Value(metrics.PerDeviceCompliance, compliance.Warning.String())
	require.True(t, ok)
	assert.InDelta(t, 1, v, 0)

	assert.False(t, sink.Published(metrics.SoftwareUpdatesByState), "inventory source has no rollout states")
}

func TestService_RunCycleFailedPassesKeepPreviousValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFileWaveAPI(ctrl)
	sink := metrics.NewMemorySink()

	require.NoError(t, sink.Replace(metrics.SoftwareUpdatesByState, []metrics.Sample{{Labels: []string{"Assigned"}, Value: 42}}))
	require.NoError(t, sink.Replace(metrics.DevicesByCheckinDays, []metrics.Sample{{Labels: []string{"Less than 1"}, Value: 7}}))

	api.EXPECT().FetchUpdates(gomock.Any()).Return(nil, errUnreachable)
	api.EXPECT().FetchClientInventory(gomock.Any()).Return(&inventory.Table{Fields: []string{"Client_device_name"}}, nil)
	api.EXPECT().EnsureQueryGroup(gomock.Any(), gomock.Any()).Return(int64(0), false, errUnreachable)

	svc := newTestService(testConfig(), api, sink)

	cycle, err := svc.RunCycle(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, errUnreachable)
	require.ErrorIs(t, err, inventory.ErrMissingColumn)

	assert.Equal(t, OutcomeFailed, cycle.Patches)
	assert.Equal(t, OutcomeFailed, cycle.Devices)
	assert.Equal(t, OutcomeFailed, cycle.Applications)
	assert.Len(t, cycle.Errors, 3)

	v, _ := sink.Value(metrics.SoftwareUpdatesByState, "Assigned")
	assert.InDelta(t, 42, v, 0)

	v, _ = sink.Value(metrics.DevicesByCheckinDays, "Less than 1")
	assert.InDelta(t, 7, v, 0)

	assert.False(t, sink.Published(metrics.ApplicationVersion))
}

func TestService_EmptySnapshotJoinsWithEmptyCounters(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFileWaveAPI(ctrl)
	sink := metrics.NewMemorySink()

	previous := []metrics.Sample{{Labels: []string{"mac-11", "11", "True"}, Value: 3}}
	require.NoError(t, sink.Replace(metrics.SoftwareUpdatesByDevice, previous))

	api.EXPECT().FetchUpdates(gomock.Any()).Return(&patches.Snapshot{}, nil)
	api.EXPECT().FetchClientInventory(gomock.Any()).Return(clientTable(), nil)
	expectApplications(api)

	svc := newTestService(testConfig(), api, sink)

	cycle, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmpty, cycle.Patches)

	v, ok := sink.Value(metrics.PerDeviceCompliance, compliance.OK.String())
	require.True(t, ok)
	assert.InDelta(t, 2, v, 0)

	// the per-device outstanding series stays with the stale patch gauges
	assert.Equal(t, previous, sink.Samples(metrics.SoftwareUpdatesByDevice))
}

func TestService_RunCycleClearsPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFileWaveAPI(ctrl)

	api.EXPECT().FetchUpdates(gomock.Any()).Return(&patches.Snapshot{}, nil)
	api.EXPECT().FetchClientInventory(gomock.Any()).Return(clientTable(), nil)
	expectApplications(api)

	pending := &events.Pending{}
	svc := newTestService(testConfig(), api, metrics.NewMemorySink(), WithPending(pending))

	svc.RequestRerun()
	svc.RequestRerun()
	assert.True(t, svc.Status().Pending)

	_, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.False(t, pending.IsSet())
}

func TestService_StartFailsWhenServerUnreachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFileWaveAPI(ctrl)

	api.EXPECT().ServerVersion(gomock.Any()).Return(filewave.Version{}, filewave.ErrUnauthorized)

	svc := newTestService(testConfig(), api, metrics.NewMemorySink())

	err := svc.Start(context.Background())
	require.ErrorIs(t, err, filewave.ErrUnauthorized)
}

func TestService_StartSchedulesCycles(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockFileWaveAPI(ctrl)

	api.EXPECT().ServerVersion(gomock.Any()).Return(filewave.Version{Major: 14, Minor: 2, Suffix: "1"}, nil)
	api.EXPECT().FetchUpdates(gomock.Any()).Return(criticalSnapshot(), nil).Times(3)
	api.EXPECT().FetchClientInventory(gomock.Any()).Return(clientTable(), nil).Times(3)
	expectApplications(api)

	cfg := testConfig()
	clock := newFakeClock()
	svc := NewService(cfg, api, metrics.NewMemorySink(), logger.NewTestLogger(), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() { errCh <- svc.Start(ctx) }()

	require.Eventually(t, func() bool { return svc.Status().Cycles == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "14.2.0-1", svc.Status().ServerVersion)

	// No pending request: the check tick is a no-op.
	clock.tick(t, pendingCheckInterval)

	svc.RequestRerun()
	clock.tick(t, pendingCheckInterval)
	require.Eventually(t, func() bool { return svc.Status().Cycles == 2 }, 5*time.Second, 10*time.Millisecond)

	clock.tick(t, cfg.PollDelay())
	require.Eventually(t, func() bool { return svc.Status().Cycles == 3 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Stop(context.Background()))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
