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

// Package metrics defines the exporter's gauges and the sinks that publish
// them.
package metrics

import (
	"errors"
	"time"
)

var (
	ErrUnknownMetric      = errors.New("unknown metric")
	ErrLabelCountMismatch = errors.New("label count does not match metric definition")
)

// Sample is one labelled value of a gauge. Labels are positional and follow
// the order in the metric's Definition.
type Sample struct {
	Labels []string
	Value  float64
}

// Sink receives computed gauges. Replace drops every existing series of the
// named gauge and sets the given samples.
//
//go:generate mockgen -destination=mock_sink.go -package=metrics github.com/carverauto/fwmetrics/pkg/metrics Sink,RequestObserver
type Sink interface {
	Replace(name string, samples []Sample) error
}

// RequestObserver records REST request latency per logical method.
type RequestObserver interface {
	ObserveRequest(method string, elapsed time.Duration)
}

// Gauge names.
const (
	SoftwareUpdatesByState      = "extra_metrics_software_updates_by_state"
	SoftwareUpdatesByPopularity = "extra_metrics_software_updates_by_popularity"
	SoftwareUpdatesByPlatform   = "extra_metrics_software_updates_by_platform"
	SoftwareUpdatesByDevice     = "extra_metrics_software_updates_by_device"
	SoftwareUpdatesProgress     = "extra_metrics_software_updates_progress"
	SoftwareUpdatesAgeDays      = "extra_metrics_software_updates_age_days"

	DevicesByCheckinDays = "extra_metrics_devices_by_checkin_days"
	PerDeviceModelNumber = "extra_metrics_per_device_modelnum"
	PerDeviceCompliance  = "extra_metrics_per_device_compliance"
	PerDeviceClientVer   = "extra_metrics_per_device_client_version"
	PerDevicePlatform    = "extra_metrics_per_device_platform"
	PerDeviceTracked     = "extra_metrics_per_device_tracked"
	PerDeviceLocked      = "extra_metrics_per_device_locked"
	ApplicationVersion   = "extra_metrics_application_version"
	HTTPRequestTimeTaken = "extra_metrics_http_request_time_taken"
)

// Definition describes a gauge.
type Definition struct {
	Name   string
	Help   string
	Labels []string
}

// Definitions lists every gauge the exporter publishes.
var Definitions = []Definition{
	{
		Name:   SoftwareUpdatesByState,
		Help:   "buckets of all the software updates by state - the value is the number of devices in each state, this includes completed updates",
		Labels: []string{"state"},
	},
	{
		Name:   SoftwareUpdatesByPopularity,
		Help:   "list of software updates and the number of devices still needing the update (unassigned), completed updates are not included in this count",
		Labels: []string{"update_name", "update_id", "id"},
	},
	{
		Name:   SoftwareUpdatesByPlatform,
		Help:   "list of platforms and the number of [critical] updates they have available, completed updates are not included in this count",
		Labels: []string{"platform_name", "is_update_critical"},
	},
	{
		Name:   SoftwareUpdatesByDevice,
		Help:   "list of devices and the number of [critical] updates they need to have installed, completed updates are not included in this count",
		Labels: []string{"device_name", "device_id", "is_update_critical"},
	},
	{
		Name:   SoftwareUpdatesProgress,
		Help:   "per update device counts by rollout progress (not_started, in_progress, completed, failed)",
		Labels: []string{"update_name", "id", "progress"},
	},
	{
		Name:   SoftwareUpdatesAgeDays,
		Help:   "days since each software update was created on the server",
		Labels: []string{"update_name", "id"},
	},
	{
		Name:   DevicesByCheckinDays,
		Help:   "various interesting stats on a per device basis, days since checked, compliance status",
		Labels: []string{"days"},
	},
	{
		Name:   PerDeviceModelNumber,
		Help:   "provides a value of the model number per device",
		Labels: []string{"device_name"},
	},
	{
		Name:   PerDeviceCompliance,
		Help:   "provides a value of the compliance state per device, used for device health graph",
		Labels: []string{"compliance"},
	},
	{
		Name:   PerDeviceClientVer,
		Help:   "number of devices rolled up by client version",
		Labels: []string{"fw_client_version"},
	},
	{
		Name:   PerDevicePlatform,
		Help:   "number of devices rolled up by platform",
		Labels: []string{"platform"},
	},
	{
		Name:   PerDeviceTracked,
		Help:   "number of devices being tracked",
		Labels: []string{"tracked"},
	},
	{
		Name:   PerDeviceLocked,
		Help:   "number of devices locked",
		Labels: []string{"locked"},
	},
	{
		Name:   ApplicationVersion,
		Help:   "a summary of how many devices are using a particular app & version",
		Labels: []string{"query_name", "application_version", "query_id"},
	},
}

// Lookup returns the definition for a gauge name.
func Lookup(name string) (Definition, bool) {
	for _, d := range Definitions {
		if d.Name == name {
			return d, true
		}
	}

	return Definition{}, false
}
