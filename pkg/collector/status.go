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

import "time"

// Outcome is the result of one pass within a cycle.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeEmpty   Outcome = "empty"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// CycleStatus describes a finished collection cycle.
type CycleStatus struct {
	ID           string        `json:"id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
	Patches      Outcome       `json:"patches"`
	Devices      Outcome       `json:"devices"`
	Applications Outcome       `json:"applications"`
	UpdateCount  int           `json:"update_count"`
	DeviceCount  int           `json:"device_count"`
	QueryCount   int           `json:"query_count"`
	Errors       []string      `json:"errors,omitempty"`
}

// Status is a point-in-time view of the collector.
type Status struct {
	ServerVersion string       `json:"server_version"`
	PatchSource   string       `json:"patch_source"`
	Pending       bool         `json:"pending"`
	Running       bool         `json:"running"`
	Cycles        uint64       `json:"cycles"`
	LastCycle     *CycleStatus `json:"last_cycle,omitempty"`
}
