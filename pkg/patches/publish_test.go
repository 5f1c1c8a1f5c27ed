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

package patches

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/fwmetrics/pkg/metrics"
)

func TestPublish_Rollout(t *testing.T) {
	sink := metrics.NewMemorySink()
	res := newTestAggregator().Aggregate(loadSnapshot(t))

	require.NoError(t, Publish(sink, res))

	completed, ok := sink.Value(metrics.SoftwareUpdatesByState, StateCompleted)
	require.True(t, ok)
	assert.InDelta(t, 4.0, completed, 0)

	v, ok := sink.Value(metrics.SoftwareUpdatesByPopularity, "macOS Catalina Update (001-1)", "001-1", "174")
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 0)

	_, ok = sink.Value(metrics.SoftwareUpdatesByPopularity, "macOS Catalina Update (001-2)", "001-2", "175")
	assert.True(t, ok)

	// completed updates are left out of popularity
	assert.Len(t, sink.Samples(metrics.SoftwareUpdatesByPopularity), 2)

	v, ok = sink.Value(metrics.SoftwareUpdatesByPlatform, PlatformMacOS, "True")
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 0)

	v, ok = sink.Value(metrics.SoftwareUpdatesAgeDays, "2021-01 Cumulative Update", "200")
	require.True(t, ok)
	assert.InDelta(t, float64(UnknownAgeDays), v, 0)

	v, ok = sink.Value(metrics.SoftwareUpdatesProgress, "macOS Catalina Update (001-2)", "175", "in_progress")
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 0)
}

func TestPublish_EmptyLeavesPreviousValues(t *testing.T) {
	sink := metrics.NewMemorySink()
	agg := newTestAggregator()

	require.NoError(t, Publish(sink, agg.Aggregate(loadSnapshot(t))))
	require.NoError(t, Publish(sink, agg.Aggregate(&Snapshot{})))
	require.NoError(t, Publish(sink, nil))

	v, ok := sink.Value(metrics.SoftwareUpdatesByState, StateRequested)
	require.True(t, ok)
	assert.InDelta(t, 7.0, v, 0)
}

func TestPublish_InventoryOnlyTouchesPlatform(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := metrics.NewMockSink(ctrl)

	res := &Result{
		Source:    SourceInventory,
		Counters:  NewCounterTable(),
		Platforms: []PlatformSummary{{Platform: "Apple", Critical: true, Count: 3}},
	}

	sink.EXPECT().
		Replace(metrics.SoftwareUpdatesByPlatform, []metrics.Sample{{Labels: []string{"Apple", "True"}, Value: 3}}).
		Return(nil)

	require.NoError(t, Publish(sink, res))
}

func TestPublish_JoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := metrics.NewMockSink(ctrl)
	boom := errors.New("boom")

	sink.EXPECT().Replace(gomock.Any(), gomock.Any()).Return(boom).Times(5)

	err := Publish(sink, newTestAggregator().Aggregate(loadSnapshot(t)))
	require.ErrorIs(t, err, boom)
}
