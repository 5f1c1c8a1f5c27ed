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
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fwmetrics/pkg/inventory"
	"github.com/carverauto/fwmetrics/pkg/logger"
)

var fixedNow = time.Date(2020, 6, 11, 10, 0, 0, 0, time.UTC)

func loadSnapshot(t *testing.T) *Snapshot {
	t.Helper()

	data, err := os.ReadFile("testdata/updates.json")
	require.NoError(t, err)

	s, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, s.Results, 3)

	return s
}

func newTestAggregator() *Aggregator {
	return NewAggregator(logger.NewTestLogger(), WithClock(func() time.Time { return fixedNow }))
}

func TestAggregate_Totals(t *testing.T) {
	res := newTestAggregator().Aggregate(loadSnapshot(t))

	assert.False(t, res.Empty)
	assert.Equal(t, StateTotals{
		Requested:  7,
		Unassigned: 1,
		Assigned:   6,
		Remaining:  2,
		Completed:  4,
	}, res.Totals)
}

func TestAggregate_Conservation(t *testing.T) {
	snap := loadSnapshot(t)
	res := newTestAggregator().Aggregate(snap)

	var unassigned, assigned, completed int
	for _, u := range snap.Results {
		unassigned += u.Unassigned.Count
		assigned += u.Assigned.Assigned.Count
		completed += u.Assigned.Completed.Count
	}

	assert.Equal(t, unassigned, res.Totals.Unassigned)
	assert.Equal(t, assigned, res.Totals.Assigned)
	assert.Equal(t, completed, res.Totals.Completed)
}

func TestAggregate_PerDeviceCounters(t *testing.T) {
	res := newTestAggregator().Aggregate(loadSnapshot(t))

	assert.Equal(t, []int64{11, 12, 13, 21}, res.Counters.IDs())

	d11, ok := res.Counters.Lookup(11)
	require.True(t, ok)
	assert.Equal(t, 0, d11.Standard.TotalNotCompleted())
	assert.Equal(t, 0, d11.Critical.TotalNotCompleted())

	d12, _ := res.Counters.Lookup(12)
	assert.Equal(t, Counter{Assigned: 1, Remaining: 1}, d12.Standard)
	assert.Equal(t, Counter{Assigned: 1, Completed: 1}, d12.Critical)
	assert.Equal(t, 1, d12.Standard.TotalNotCompleted())

	// the string id "13" joins with the numeric id 13
	d13, _ := res.Counters.Lookup(13)
	assert.Equal(t, Counter{Assigned: 2, Remaining: 1, Completed: 1}, d13.Critical)
	assert.Equal(t, 1, d13.Critical.TotalNotCompleted())

	d21, _ := res.Counters.Lookup(21)
	assert.Equal(t, Counter{Unassigned: 1}, d21.Standard)

	_, ok = res.Counters.Lookup(99)
	assert.False(t, ok)
}

func TestAggregate_Idempotent(t *testing.T) {
	agg := newTestAggregator()
	snap := loadSnapshot(t)

	first := agg.Aggregate(snap)
	second := agg.Aggregate(snap)

	assert.Equal(t, first.Totals, second.Totals)
	assert.Equal(t, first.Updates, second.Updates)
	assert.Equal(t, first.Platforms, second.Platforms)

	for _, id := range first.Counters.IDs() {
		a, _ := first.Counters.Lookup(id)
		b, _ := second.Counters.Lookup(id)
		assert.Equal(t, a, b)
	}
}

func TestAggregate_UpdateSummaries(t *testing.T) {
	res := newTestAggregator().Aggregate(loadSnapshot(t))
	require.Len(t, res.Updates, 3)

	byKey := map[int64]UpdateSummary{}
	for _, u := range res.Updates {
		byKey[u.InternalKey] = u
	}

	assert.Equal(t, "macOS Catalina Update (001-1)", byKey[174].DisplayName)
	assert.Equal(t, "macOS Catalina Update (001-2)", byKey[175].DisplayName)
	assert.Equal(t, "2021-01 Cumulative Update", byKey[200].DisplayName)

	assert.False(t, byKey[174].Completed)
	assert.True(t, byKey[200].Completed)

	assert.Equal(t, 13, byKey[174].AgeDays)
	assert.Equal(t, 9, byKey[175].AgeDays)
	assert.Equal(t, UnknownAgeDays, byKey[200].AgeDays)

	assert.Equal(t, PlatformMicrosoft, byKey[200].Platform)

	assert.Equal(t, []PlatformSummary{
		{Platform: PlatformMacOS, Critical: false, Count: 1},
		{Platform: PlatformMacOS, Critical: true, Count: 1},
	}, res.Platforms)
}

func TestAggregate_Empty(t *testing.T) {
	agg := newTestAggregator()

	for _, snap := range []*Snapshot{nil, {}, {Results: []UpdateRecord{}}} {
		res := agg.Aggregate(snap)
		assert.True(t, res.Empty)
		assert.Equal(t, 0, res.Counters.Len())
		assert.Equal(t, StateTotals{}, res.Totals)
	}
}

func TestAggregate_OutstandingWithoutAssignedList(t *testing.T) {
	snap := &Snapshot{Results: []UpdateRecord{
		{
			InternalKey:    1,
			Name:           "Security Update",
			Critical:       true,
			CountRequested: 1,
			Assigned: AssignedDevices{
				Remaining: DeviceList{Count: 1, DeviceIDs: []interface{}{7.0}},
			},
		},
		{
			InternalKey:    2,
			Name:           "Feature Update",
			CountRequested: 2,
			Assigned: AssignedDevices{
				Warning: DeviceList{Count: 1, DeviceIDs: []interface{}{8.0}},
				Error:   DeviceList{Count: 1, DeviceIDs: []interface{}{9.0}},
			},
		},
	}}

	res := newTestAggregator().Aggregate(snap)

	d7, ok := res.Counters.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, 1, d7.Critical.TotalNotCompleted())

	d8, _ := res.Counters.Lookup(8)
	assert.Equal(t, 1, d8.Standard.TotalNotCompleted())

	d9, _ := res.Counters.Lookup(9)
	assert.Equal(t, 1, d9.Standard.TotalNotCompleted())
}

func TestCounter_TotalNotCompleted(t *testing.T) {
	tests := []struct {
		name string
		c    Counter
		want int
	}{
		{name: "empty", c: Counter{}, want: 0},
		{name: "assigned superset", c: Counter{Assigned: 3, Remaining: 1, Completed: 1, Warning: 1}, want: 2},
		{name: "remaining only", c: Counter{Remaining: 2}, want: 2},
		{name: "warning and error only", c: Counter{Warning: 1, Error: 1}, want: 2},
		{name: "completed only", c: Counter{Completed: 4}, want: 0},
		{name: "unassigned ignored", c: Counter{Unassigned: 5}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.TotalNotCompleted())
		})
	}
}

func TestAggregate_SkipsBadIDs(t *testing.T) {
	snap := &Snapshot{Results: []UpdateRecord{{
		InternalKey:    1,
		Name:           "x",
		CountRequested: 2,
		Unassigned:     DeviceList{Count: 2, DeviceIDs: []interface{}{"abc", 5.0}},
	}}}

	res := newTestAggregator().Aggregate(snap)

	assert.Equal(t, 1, res.SkippedIDs)
	assert.Equal(t, []int64{5}, res.Counters.IDs())
}

func TestDecodeSnapshot(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"count": 0}`))
	require.NoError(t, err)
	assert.Empty(t, s.Results)

	_, err = DecodeSnapshot([]byte(`{"results": "nope"}`))
	require.ErrorIs(t, err, ErrMalformedSnapshot)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		platform PlatformCode
		updateID string
		want     string
	}{
		{"Safari", "macOS", "061-1", "Safari (061-1)"},
		{"Safari", "0", "061-1", "Safari (061-1)"},
		{"Safari (061-1)", "0", "061-1", "Safari (061-1)"},
		{"Safari", "0", "", "Safari"},
		{"KB1", "1", "KB1", "KB1"},
		{"Firmware", "7", "fw-1", "Firmware"},
	}

	for _, tt := range tests {
		u := UpdateRecord{Name: tt.name, Platform: tt.platform, UpdateID: tt.updateID}
		assert.Equal(t, tt.want, u.DisplayName())
	}
}

func TestPlatformName(t *testing.T) {
	assert.Equal(t, PlatformMacOS, PlatformName("0"))
	assert.Equal(t, PlatformMicrosoft, PlatformName("1"))
	assert.Equal(t, "7", PlatformName("7"))
	assert.Equal(t, "Apple", inventoryPlatformName("0"))
	assert.Equal(t, "linux", inventoryPlatformName("linux"))
}

func TestAgeDays(t *testing.T) {
	s := func(v string) *string { return &v }

	assert.Equal(t, 10, ageDays(s("2020-06-01T10:00:00Z"), fixedNow))
	assert.Equal(t, 10, ageDays(s("2020-06-01T10:00:00.000001Z"), fixedNow.Add(time.Second)))
	assert.Equal(t, 10, ageDays(s("2020-06-01T10:00:00"), fixedNow))
	assert.Equal(t, 0, ageDays(s("2030-01-01T00:00:00Z"), fixedNow))
	assert.Equal(t, UnknownAgeDays, ageDays(s("last tuesday"), fixedNow))
	assert.Equal(t, UnknownAgeDays, ageDays(nil, fixedNow))
}

func TestAggregateInventory(t *testing.T) {
	tbl := &inventory.Table{
		Fields: []string{
			"Client_filewave_id", "Client_filewave_client_name", "Update_name",
			"Update_update_id", "Update_version", "Update_platform", "Update_critical",
		},
		Values: [][]interface{}{
			{5.0, "mac-5", "Safari", "061-1", "1", "0", true},
			{5.0, "mac-5", "Xcode", "061-2", "1", "0", false},
			{5.0, "mac-5", "Music", "061-3", "1", "0", false},
			{"6", "win-6", "KB1", "KB1", "1", "1", true},
			{nil, "ghost", "KB2", "KB2", "1", "1", true},
		},
	}

	res, err := newTestAggregator().AggregateInventory(tbl)
	require.NoError(t, err)

	assert.Equal(t, SourceInventory, res.Source)
	assert.Equal(t, 1, res.SkippedIDs)

	d5, ok := res.Counters.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, "mac-5", d5.DeviceName)
	assert.Equal(t, 1, d5.Critical.TotalNotCompleted())
	assert.Equal(t, 2, d5.Standard.TotalNotCompleted())

	d6, _ := res.Counters.Lookup(6)
	assert.Equal(t, 1, d6.Critical.TotalNotCompleted())
	assert.Equal(t, Counter{Remaining: 1}, d6.Critical)

	assert.Equal(t, []PlatformSummary{
		{Platform: "Apple", Critical: false, Count: 2},
		{Platform: "Apple", Critical: true, Count: 1},
		{Platform: PlatformMicrosoft, Critical: true, Count: 2},
	}, res.Platforms)
}

func TestAggregateInventory_MissingColumn(t *testing.T) {
	tbl := &inventory.Table{Fields: []string{"Client_filewave_id"}}

	_, err := newTestAggregator().AggregateInventory(tbl)
	require.ErrorIs(t, err, inventory.ErrMissingColumn)
}

func TestAggregateInventory_Empty(t *testing.T) {
	tbl := &inventory.Table{Fields: []string{
		ColumnClientID, ColumnClientName, ColumnUpdateName, ColumnUpdatePlatform, ColumnUpdateCritical,
	}}

	res, err := newTestAggregator().AggregateInventory(tbl)
	require.NoError(t, err)
	assert.True(t, res.Empty)
}
