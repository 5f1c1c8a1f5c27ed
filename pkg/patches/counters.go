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

import "sort"

// Counter accumulates per-bucket appearances of a device across updates.
type Counter struct {
	Unassigned int
	Assigned   int
	Remaining  int
	Completed  int
	Warning    int
	Error      int
}

// TotalNotCompleted is the number of outstanding updates: remaining, warning
// and error. Assigned is not used, as it may or may not repeat the other
// buckets.
func (c Counter) TotalNotCompleted() int {
	return c.Remaining + c.Warning + c.Error
}

// DeviceCounters tracks critical and standard updates for one device.
type DeviceCounters struct {
	DeviceID   int64
	DeviceName string
	Critical   Counter
	Standard   Counter
}

// Counter returns the critical or standard counter.
func (d *DeviceCounters) Counter(critical bool) *Counter {
	if critical {
		return &d.Critical
	}

	return &d.Standard
}

// CounterTable holds DeviceCounters keyed by device id. It is built by the
// Aggregator and only read afterwards.
type CounterTable struct {
	devices map[int64]*DeviceCounters
}

// NewCounterTable returns an empty table. Joining against an empty table
// yields zero outstanding patches for every device.
func NewCounterTable() *CounterTable {
	return &CounterTable{devices: make(map[int64]*DeviceCounters)}
}

// Lookup returns a copy of the counters for a device.
func (t *CounterTable) Lookup(id int64) (DeviceCounters, bool) {
	if t == nil {
		return DeviceCounters{}, false
	}

	d, ok := t.devices[id]
	if !ok {
		return DeviceCounters{}, false
	}

	return *d, true
}

// Len returns the number of devices with counters.
func (t *CounterTable) Len() int {
	if t == nil {
		return 0
	}

	return len(t.devices)
}

// IDs returns the device ids in ascending order.
func (t *CounterTable) IDs() []int64 {
	if t == nil {
		return nil
	}

	ids := make([]int64, 0, len(t.devices))
	for id := range t.devices {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (t *CounterTable) device(id int64) *DeviceCounters {
	d, ok := t.devices[id]
	if !ok {
		d = &DeviceCounters{DeviceID: id}
		t.devices[id] = d
	}

	return d
}
