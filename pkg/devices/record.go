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

// Package devices joins device inventory with per-device patch counters,
// classifies compliance and rolls devices up into summary distributions.
package devices

import (
	"math"
	"time"

	"github.com/carverauto/fwmetrics/pkg/inventory"
)

// Inventory columns read by the pass.
const (
	ColumnDeviceName    = "Client_device_name"
	ColumnFileWaveID    = "Client_filewave_id"
	ColumnLastCheckin   = "Client_last_check_in"
	ColumnFreeDisk      = "Client_free_disk_space"
	ColumnTotalDisk     = "Client_total_disk_space"
	ColumnModelNumber   = "DesktopClient_filewave_model_number"
	ColumnClientVersion = "DesktopClient_filewave_client_version"
	ColumnPlatform      = "OperatingSystem_name"
	ColumnTracked       = "Client_is_tracking_enabled"
	ColumnLocked        = "Client_filewave_client_locked"
)

// RequiredColumns must be present for the pass to run. The remaining
// columns are optional and read as null when absent.
var RequiredColumns = []string{
	ColumnDeviceName,
	ColumnFileWaveID,
	ColumnLastCheckin,
	ColumnFreeDisk,
	ColumnTotalDisk,
}

const (
	// NotReported labels a null client version, platform or flag.
	NotReported = "Not Reported"

	// NeverCheckedInDays is the check-in age of a device with no usable
	// check-in timestamp.
	NeverCheckedInDays = 99
)

var checkinLayouts = []string{
	"2006-01-02T15:04:05.999999Z",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
}

// Record is one device row from the client inventory query.
type Record struct {
	DeviceID      *int64
	DeviceName    string
	Platform      string
	ClientVersion string
	Tracked       string
	Locked        string
	TotalDisk     *float64
	FreeDisk      *float64
	LastCheckin   *time.Time
	ModelNumber   float64
}

func recordFromRow(row inventory.Row) Record {
	r := Record{
		Platform:      labelOrNotReported(row, ColumnPlatform),
		ClientVersion: labelOrNotReported(row, ColumnClientVersion),
		Tracked:       labelOrNotReported(row, ColumnTracked),
		Locked:        labelOrNotReported(row, ColumnLocked),
	}

	r.DeviceName, _ = row.String(ColumnDeviceName)

	if id, ok := row.Int64(ColumnFileWaveID); ok {
		r.DeviceID = &id
	}

	if v, ok := row.Float64(ColumnTotalDisk); ok {
		r.TotalDisk = &v
	}

	if v, ok := row.Float64(ColumnFreeDisk); ok {
		r.FreeDisk = &v
	}

	if v, ok := row.Float64(ColumnModelNumber); ok {
		r.ModelNumber = v
	}

	if s, ok := row.String(ColumnLastCheckin); ok {
		r.LastCheckin = parseCheckin(s)
	}

	return r
}

// CheckinAgeDays returns whole days since the last check-in, or
// NeverCheckedInDays when the timestamp is missing.
func (r *Record) CheckinAgeDays(now time.Time) int {
	if r.LastCheckin == nil {
		return NeverCheckedInDays
	}

	days := math.Floor(now.Sub(*r.LastCheckin).Hours() / 24)
	if days < 0 {
		return 0
	}

	return int(days)
}

func parseCheckin(s string) *time.Time {
	for _, layout := range checkinLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

func labelOrNotReported(row inventory.Row, column string) string {
	if v, ok := row.Label(column); ok {
		return v
	}

	return NotReported
}
