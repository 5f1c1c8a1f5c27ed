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
	"strconv"

	"github.com/carverauto/fwmetrics/pkg/inventory"
	"github.com/carverauto/fwmetrics/pkg/metrics"
)

// State labels for the by-state gauge.
const (
	StateRequested  = "Requested"
	StateUnassigned = "Unassigned"
	StateAssigned   = "Assigned"
	StateRemaining  = "Remaining"
	StateCompleted  = "Completed"
	StateWarning    = "Warning"
	StateError      = "Error"
)

// Publish writes a Result through sink. Empty results publish nothing so
// the previous cycle's values stay visible.
func Publish(sink metrics.Sink, res *Result) error {
	if res == nil || res.Empty {
		return nil
	}

	var errs []error

	if res.Source == SourceRollout {
		errs = append(errs,
			sink.Replace(metrics.SoftwareUpdatesByState, stateSamples(res.Totals)),
			sink.Replace(metrics.SoftwareUpdatesByPopularity, popularitySamples(res.Updates)),
			sink.Replace(metrics.SoftwareUpdatesProgress, progressSamples(res.Updates)),
			sink.Replace(metrics.SoftwareUpdatesAgeDays, ageSamples(res.Updates)),
		)
	}

	errs = append(errs, sink.Replace(metrics.SoftwareUpdatesByPlatform, platformSamples(res.Platforms)))

	return errors.Join(errs...)
}

func stateSamples(t StateTotals) []metrics.Sample {
	return []metrics.Sample{
		{Labels: []string{StateRequested}, Value: float64(t.Requested)},
		{Labels: []string{StateUnassigned}, Value: float64(t.Unassigned)},
		{Labels: []string{StateAssigned}, Value: float64(t.Assigned)},
		{Labels: []string{StateRemaining}, Value: float64(t.Remaining)},
		{Labels: []string{StateCompleted}, Value: float64(t.Completed)},
		{Labels: []string{StateWarning}, Value: float64(t.Warning)},
		{Labels: []string{StateError}, Value: float64(t.Error)},
	}
}

// popularitySamples reports devices still waiting on each update that is
// not yet complete.
func popularitySamples(updates []UpdateSummary) []metrics.Sample {
	out := make([]metrics.Sample, 0, len(updates))

	for _, u := range updates {
		if u.Completed {
			continue
		}

		out = append(out, metrics.Sample{
			Labels: []string{u.DisplayName, u.UpdateID, strconv.FormatInt(u.InternalKey, 10)},
			Value:  float64(u.NotStarted),
		})
	}

	return out
}

func progressSamples(updates []UpdateSummary) []metrics.Sample {
	out := make([]metrics.Sample, 0, len(updates)*4)

	for _, u := range updates {
		id := strconv.FormatInt(u.InternalKey, 10)
		out = append(out,
			metrics.Sample{Labels: []string{u.DisplayName, id, "not_started"}, Value: float64(u.NotStarted)},
			metrics.Sample{Labels: []string{u.DisplayName, id, "in_progress"}, Value: float64(u.InProgress)},
			metrics.Sample{Labels: []string{u.DisplayName, id, "completed"}, Value: float64(u.Done)},
			metrics.Sample{Labels: []string{u.DisplayName, id, "failed"}, Value: float64(u.Failed)},
		)
	}

	return out
}

func ageSamples(updates []UpdateSummary) []metrics.Sample {
	out := make([]metrics.Sample, 0, len(updates))

	for _, u := range updates {
		out = append(out, metrics.Sample{
			Labels: []string{u.DisplayName, strconv.FormatInt(u.InternalKey, 10)},
			Value:  float64(u.AgeDays),
		})
	}

	return out
}

func platformSamples(platforms []PlatformSummary) []metrics.Sample {
	out := make([]metrics.Sample, 0, len(platforms))

	for _, p := range platforms {
		critical, _ := inventory.AsLabel(p.Critical)
		out = append(out, metrics.Sample{
			Labels: []string{p.Platform, critical},
			Value:  float64(p.Count),
		})
	}

	return out
}
