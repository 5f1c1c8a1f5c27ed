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

package devices

import (
	"errors"
	"sort"
	"strconv"

	"github.com/carverauto/fwmetrics/pkg/compliance"
	"github.com/carverauto/fwmetrics/pkg/metrics"
)

// Publish writes the pass result through sink. A nil result publishes
// nothing; a result joined against empty patch counters skips the
// per-device outstanding series so it stays consistent with the stale
// patch gauges.
func Publish(sink metrics.Sink, res *Result) error {
	if res == nil {
		return nil
	}

	var outstanding error
	if !res.PatchCountersEmpty {
		outstanding = sink.Replace(metrics.SoftwareUpdatesByDevice, outstandingSamples(res.Assessments))
	}

	return errors.Join(
		sink.Replace(metrics.DevicesByCheckinDays, checkinSamples(res.Checkin)),
		sink.Replace(metrics.PerDeviceCompliance, complianceSamples(res.Compliance)),
		sink.Replace(metrics.PerDeviceClientVer, countSamples(res.ClientVersions)),
		sink.Replace(metrics.PerDevicePlatform, countSamples(res.Platforms)),
		sink.Replace(metrics.PerDeviceTracked, countSamples(res.Tracked)),
		sink.Replace(metrics.PerDeviceLocked, countSamples(res.Locked)),
		sink.Replace(metrics.PerDeviceModelNumber, modelSamples(res.Assessments)),
		outstanding,
	)
}

func checkinSamples(buckets map[string]int) []metrics.Sample {
	out := make([]metrics.Sample, 0, len(CheckinBuckets))
	for _, b := range CheckinBuckets {
		out = append(out, metrics.Sample{Labels: []string{b}, Value: float64(buckets[b])})
	}

	return out
}

func complianceSamples(levels map[compliance.Level]int) []metrics.Sample {
	out := make([]metrics.Sample, 0, len(compliance.Levels))
	for _, l := range compliance.Levels {
		out = append(out, metrics.Sample{Labels: []string{l.String()}, Value: float64(levels[l])})
	}

	return out
}

func countSamples(counts map[string]int) []metrics.Sample {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	out := make([]metrics.Sample, 0, len(keys))
	for _, k := range keys {
		out = append(out, metrics.Sample{Labels: []string{k}, Value: float64(counts[k])})
	}

	return out
}

// modelSamples keys by device name; when names repeat the highest device id
// wins.
func modelSamples(assessments []Assessment) []metrics.Sample {
	byName := make(map[string]float64, len(assessments))
	for _, a := range assessments {
		byName[a.DeviceName] = a.ModelNumber
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}

	sort.Strings(names)

	out := make([]metrics.Sample, 0, len(names))
	for _, n := range names {
		out = append(out, metrics.Sample{Labels: []string{n}, Value: byName[n]})
	}

	return out
}

func outstandingSamples(assessments []Assessment) []metrics.Sample {
	out := make([]metrics.Sample, 0, len(assessments)*2)

	for _, a := range assessments {
		if !a.HasPatchCounters {
			continue
		}

		id := strconv.FormatInt(a.DeviceID, 10)
		out = append(out,
			metrics.Sample{Labels: []string{a.DeviceName, id, "True"}, Value: float64(a.OutstandingCritical)},
			metrics.Sample{Labels: []string{a.DeviceName, id, "False"}, Value: float64(a.OutstandingStandard)},
		)
	}

	return out
}
