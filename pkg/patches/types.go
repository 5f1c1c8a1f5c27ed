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

// Package patches rolls software update rollout state up into global,
// per-update and per-device counters.
package patches

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedSnapshot is returned when an update snapshot cannot be decoded.
var ErrMalformedSnapshot = errors.New("malformed software update snapshot")

// DeviceList is a count plus the ids of the devices it counts. The two are
// reported independently by the server and are not assumed to agree.
type DeviceList struct {
	Count     int           `json:"count"`
	DeviceIDs []interface{} `json:"device_ids"`
}

// AssignedDevices splits assigned devices by rollout state.
type AssignedDevices struct {
	Assigned  DeviceList `json:"assigned"`
	Warning   DeviceList `json:"warning"`
	Remaining DeviceList `json:"remaining"`
	Completed DeviceList `json:"completed"`
	Error     DeviceList `json:"error"`
}

// PlatformCode accepts the platform as either a JSON string or number.
type PlatformCode string

func (p *PlatformCode) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*p = ""
	case string:
		*p = PlatformCode(x)
	case float64:
		*p = PlatformCode(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return fmt.Errorf("unexpected platform value %s", string(b))
	}

	return nil
}

// UpdateRecord is one software update with its rollout state.
type UpdateRecord struct {
	InternalKey    int64           `json:"id"`
	UniqueHash     string          `json:"unique_hash"`
	Name           string          `json:"name"`
	UpdateID       string          `json:"update_id"`
	Version        string          `json:"version"`
	Platform       PlatformCode    `json:"platform"`
	Critical       bool            `json:"critical"`
	CreationDate   *string         `json:"creation_date"`
	CountRequested int             `json:"count_requested"`
	Unassigned     DeviceList      `json:"unassigned_devices"`
	Assigned       AssignedDevices `json:"assigned_devices"`
}

// IsCompleted reports whether every requested device has the update.
func (u *UpdateRecord) IsCompleted() bool {
	return u.CountRequested > 0 && u.Unassigned.Count == 0 && u.Assigned.Remaining.Count == 0
}

// DisplayName is the name used in per-update labels. macOS updates often
// share a display name, so the update id is appended unless already present.
func (u *UpdateRecord) DisplayName() string {
	if !IsMacOS(u.Platform) || u.UpdateID == "" {
		return u.Name
	}

	suffix := " (" + u.UpdateID + ")"
	if strings.HasSuffix(u.Name, suffix) {
		return u.Name
	}

	return u.Name + suffix
}

// Snapshot is the envelope returned by the updates endpoint.
type Snapshot struct {
	Results []UpdateRecord `json:"results"`
}

// DecodeSnapshot parses an updates envelope. An absent or empty results list
// is a valid empty snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	return &s, nil
}
