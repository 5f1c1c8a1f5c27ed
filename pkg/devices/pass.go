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
	"fmt"
	"sort"
	"time"

	"github.com/carverauto/fwmetrics/pkg/compliance"
	"github.com/carverauto/fwmetrics/pkg/inventory"
	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/patches"
)

// Check-in bucket labels.
const (
	BucketLessThan1  = "Less than 1"
	BucketLessThan7  = "Less than 7"
	BucketLessThan30 = "Less than 30"
	BucketMoreThan30 = "More than 30"
)

// CheckinBuckets lists bucket labels in publication order.
var CheckinBuckets = []string{BucketLessThan1, BucketLessThan7, BucketLessThan30, BucketMoreThan30}

// CheckinBucket maps a check-in age to its bucket label.
func CheckinBucket(days int) string {
	switch {
	case days <= 1:
		return BucketLessThan1
	case days < 7:
		return BucketLessThan7
	case days < 30:
		return BucketLessThan30
	default:
		return BucketMoreThan30
	}
}

// Assessment is the classification of one device with a known id.
type Assessment struct {
	DeviceID            int64
	DeviceName          string
	ModelNumber         float64
	CheckinAgeDays      int
	OutstandingCritical int
	OutstandingStandard int
	HasPatchCounters    bool
	Level               compliance.Level
}

// Result holds the distributions computed by one pass.
type Result struct {
	Devices        int
	NullIDs        int
	Checkin        map[string]int
	Compliance     map[compliance.Level]int
	Platforms      map[string]int
	ClientVersions map[string]int
	Tracked        map[string]int
	Locked         map[string]int
	Assessments    []Assessment
	// PatchCountersEmpty is set when the join ran against no patch data.
	// The per-device outstanding series is then left as last published.
	PatchCountersEmpty bool
}

func newResult() *Result {
	return &Result{
		Checkin:        make(map[string]int, len(CheckinBuckets)),
		Compliance:     make(map[compliance.Level]int, len(compliance.Levels)),
		Platforms:      make(map[string]int),
		ClientVersions: make(map[string]int),
		Tracked:        make(map[string]int),
		Locked:         make(map[string]int),
	}
}

// Pass joins device inventory against patch counters.
type Pass struct {
	logger logger.Logger
	now    func() time.Time
}

type Option func(*Pass)

// WithClock overrides the time source used for check-in ages.
func WithClock(now func() time.Time) Option {
	return func(p *Pass) {
		p.now = now
	}
}

func NewPass(log logger.Logger, opts ...Option) *Pass {
	p := &Pass{logger: log, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run classifies every device in tbl. counters must come from this cycle's
// patch aggregation; a nil or empty table means no device has outstanding
// patches. A missing required column aborts the pass with an error.
func (p *Pass) Run(tbl *inventory.Table, counters *patches.CounterTable) (*Result, error) {
	schema, err := tbl.Resolve(RequiredColumns...)
	if err != nil {
		return nil, fmt.Errorf("client inventory: %w", err)
	}

	if counters.Len() == 0 {
		p.logger.Debug().Msg("Joining devices against empty patch counters")
	}

	now := p.now()
	res := newResult()
	res.PatchCountersEmpty = counters.Len() == 0

	for _, row := range tbl.Rows(schema) {
		rec := recordFromRow(row)
		age := rec.CheckinAgeDays(now)
		ageF := float64(age)

		in := compliance.Input{
			TotalDisk:      rec.TotalDisk,
			FreeDisk:       rec.FreeDisk,
			CheckinAgeDays: &ageF,
		}

		var (
			dc     patches.DeviceCounters
			joined bool
		)

		if rec.DeviceID == nil {
			res.NullIDs++

			p.logger.Warn().Str("device_name", rec.DeviceName).Msg("Device has no id, skipping patch lookup")
		} else {
			dc, joined = counters.Lookup(*rec.DeviceID)
			in.OutstandingCritical = dc.Critical.TotalNotCompleted()
			in.OutstandingStandard = dc.Standard.TotalNotCompleted()
		}

		level := compliance.Classify(in)

		res.Devices++
		res.Checkin[CheckinBucket(age)]++
		res.Compliance[level]++
		res.Platforms[rec.Platform]++
		res.ClientVersions[rec.ClientVersion]++
		res.Tracked[rec.Tracked]++
		res.Locked[rec.Locked]++

		if rec.DeviceID != nil {
			res.Assessments = append(res.Assessments, Assessment{
				DeviceID:            *rec.DeviceID,
				DeviceName:          rec.DeviceName,
				ModelNumber:         rec.ModelNumber,
				CheckinAgeDays:      age,
				OutstandingCritical: in.OutstandingCritical,
				OutstandingStandard: in.OutstandingStandard,
				HasPatchCounters:    joined,
				Level:               level,
			})
		}
	}

	sort.Slice(res.Assessments, func(i, j int) bool {
		return res.Assessments[i].DeviceID < res.Assessments[j].DeviceID
	})

	p.logger.Info().
		Int("devices", res.Devices).
		Int("null_ids", res.NullIDs).
		Int("error", res.Compliance[compliance.Error]).
		Int("warning", res.Compliance[compliance.Warning]).
		Msg("Classified devices")

	return res, nil
}
