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
	"math"
	"sort"
	"time"

	"github.com/carverauto/fwmetrics/pkg/inventory"
	"github.com/carverauto/fwmetrics/pkg/logger"
)

// UnknownAgeDays is used for updates whose creation date is missing or
// cannot be parsed.
const UnknownAgeDays = 99

const (
	SourceRollout   = "updates"
	SourceInventory = "inventory"
)

// creationLayouts are tried in order when parsing creation_date.
var creationLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// StateTotals sums each rollout bucket over all updates.
type StateTotals struct {
	Requested  int
	Unassigned int
	Assigned   int
	Remaining  int
	Completed  int
	Warning    int
	Error      int
}

// UpdateSummary is the per-update breakdown keyed by display name and
// internal key.
type UpdateSummary struct {
	DisplayName string
	UpdateID    string
	InternalKey int64
	Platform    string
	Critical    bool
	Completed   bool
	NotStarted  int
	InProgress  int
	Done        int
	Failed      int
	AgeDays     int
}

// PlatformSummary counts outstanding updates per platform and criticality.
type PlatformSummary struct {
	Platform string
	Critical bool
	Count    int
}

// Result is the output of one aggregation run.
type Result struct {
	Source    string
	Empty     bool
	Totals    StateTotals
	Updates   []UpdateSummary
	Platforms []PlatformSummary
	Counters  *CounterTable
	// SkippedIDs counts device ids that could not be coerced to integers.
	SkippedIDs int
}

// Aggregator builds Results from update snapshots.
type Aggregator struct {
	logger logger.Logger
	now    func() time.Time
}

type Option func(*Aggregator)

// WithClock overrides the time source used for update ages.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

func NewAggregator(log logger.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{logger: log, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Aggregate rolls up a rollout snapshot. A nil or empty snapshot yields an
// empty Result with an empty counter table. Each call starts from scratch.
func (a *Aggregator) Aggregate(snapshot *Snapshot) *Result {
	res := &Result{Source: SourceRollout, Counters: NewCounterTable()}

	if snapshot == nil || len(snapshot.Results) == 0 {
		a.logger.Info().Msg("No software update results received from server")

		res.Empty = true

		return res
	}

	now := a.now()
	perUpdate := make(map[updateKey]*UpdateSummary)
	perPlatform := make(map[platformKey]int)

	for i := range snapshot.Results {
		u := &snapshot.Results[i]
		completed := u.IsCompleted()

		res.SkippedIDs += a.fanOut(res.Counters, u)
		addTotals(&res.Totals, u)

		key := updateKey{name: u.DisplayName(), internalKey: u.InternalKey}

		s, ok := perUpdate[key]
		if !ok {
			s = &UpdateSummary{
				DisplayName: key.name,
				UpdateID:    u.UpdateID,
				InternalKey: u.InternalKey,
				Platform:    PlatformName(u.Platform),
				Critical:    u.Critical,
				Completed:   true,
				AgeDays:     ageDays(u.CreationDate, now),
			}
			perUpdate[key] = s
		}

		s.Completed = s.Completed && completed
		s.NotStarted += u.Unassigned.Count
		s.InProgress += u.Assigned.Remaining.Count
		s.Done += u.Assigned.Completed.Count
		s.Failed += u.Assigned.Warning.Count + u.Assigned.Error.Count

		if !completed {
			perPlatform[platformKey{platform: PlatformName(u.Platform), critical: u.Critical}]++
		}
	}

	res.Updates = sortedUpdates(perUpdate)
	res.Platforms = sortedPlatforms(perPlatform)

	if res.SkippedIDs > 0 {
		a.logger.Warn().Int("skipped", res.SkippedIDs).Msg("Ignored device ids that are not integers")
	}

	a.logger.Info().
		Int("updates", len(snapshot.Results)).
		Int("devices", res.Counters.Len()).
		Int("completed", res.Totals.Completed).
		Msg("Aggregated software update rollout")

	return res
}

// fanOut increments each listed device's counter for every bucket the device
// appears in. It returns the number of ids it could not use.
func (*Aggregator) fanOut(table *CounterTable, u *UpdateRecord) int {
	skipped := 0

	apply := func(list DeviceList, bump func(*Counter)) {
		for _, raw := range list.DeviceIDs {
			id, ok := inventory.AsInt64(raw)
			if !ok {
				skipped++

				continue
			}

			bump(table.device(id).Counter(u.Critical))
		}
	}

	apply(u.Unassigned, func(c *Counter) { c.Unassigned++ })
	apply(u.Assigned.Assigned, func(c *Counter) { c.Assigned++ })
	apply(u.Assigned.Remaining, func(c *Counter) { c.Remaining++ })
	apply(u.Assigned.Completed, func(c *Counter) { c.Completed++ })
	apply(u.Assigned.Warning, func(c *Counter) { c.Warning++ })
	apply(u.Assigned.Error, func(c *Counter) { c.Error++ })

	return skipped
}

func addTotals(t *StateTotals, u *UpdateRecord) {
	t.Requested += u.CountRequested
	t.Unassigned += u.Unassigned.Count
	t.Assigned += u.Assigned.Assigned.Count
	t.Remaining += u.Assigned.Remaining.Count
	t.Completed += u.Assigned.Completed.Count
	t.Warning += u.Assigned.Warning.Count
	t.Error += u.Assigned.Error.Count
}

// ageDays returns whole days since the creation date, or UnknownAgeDays.
func ageDays(created *string, now time.Time) int {
	if created == nil || *created == "" {
		return UnknownAgeDays
	}

	for _, layout := range creationLayouts {
		t, err := time.Parse(layout, *created)
		if err != nil {
			continue
		}

		days := math.Floor(now.Sub(t).Hours() / 24)
		if days < 0 {
			return 0
		}

		return int(days)
	}

	return UnknownAgeDays
}

// AggregateInventory builds counters from the software patch inventory
// query. Every row is one outstanding update for one device, so each
// (device, criticality) group's row count is added to Remaining.
func (a *Aggregator) AggregateInventory(tbl *inventory.Table) (*Result, error) {
	res := &Result{Source: SourceInventory, Counters: NewCounterTable()}

	schema, err := tbl.Resolve(
		ColumnClientID, ColumnClientName, ColumnUpdateName, ColumnUpdatePlatform, ColumnUpdateCritical,
	)
	if err != nil {
		return nil, err
	}

	if tbl.Len() == 0 {
		a.logger.Info().Msg("No software patch inventory rows received from server")

		res.Empty = true

		return res, nil
	}

	perPlatform := make(map[platformKey]int)

	for _, row := range tbl.Rows(schema) {
		critical, _ := row.Bool(ColumnUpdateCritical)
		platform, _ := row.String(ColumnUpdatePlatform)

		perPlatform[platformKey{platform: inventoryPlatformName(platform), critical: critical}]++

		id, ok := row.Int64(ColumnClientID)
		if !ok {
			res.SkippedIDs++

			continue
		}

		d := res.Counters.device(id)
		if name, ok := row.String(ColumnClientName); ok {
			d.DeviceName = name
		}

		d.Counter(critical).Remaining++
	}

	res.Platforms = sortedPlatforms(perPlatform)

	if res.SkippedIDs > 0 {
		a.logger.Warn().Int("skipped", res.SkippedIDs).Msg("Ignored patch rows without a device id")
	}

	a.logger.Info().
		Int("rows", tbl.Len()).
		Int("devices", res.Counters.Len()).
		Msg("Aggregated software patch inventory")

	return res, nil
}

// Columns read from the software patch inventory query.
const (
	ColumnClientID       = "Client_filewave_id"
	ColumnClientName     = "Client_filewave_client_name"
	ColumnUpdateName     = "Update_name"
	ColumnUpdatePlatform = "Update_platform"
	ColumnUpdateCritical = "Update_critical"
)

type updateKey struct {
	name        string
	internalKey int64
}

type platformKey struct {
	platform string
	critical bool
}

func sortedUpdates(m map[updateKey]*UpdateSummary) []UpdateSummary {
	out := make([]UpdateSummary, 0, len(m))
	for _, s := range m {
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}

		return out[i].InternalKey < out[j].InternalKey
	})

	return out
}

func sortedPlatforms(m map[platformKey]int) []PlatformSummary {
	out := make([]PlatformSummary, 0, len(m))
	for k, n := range m {
		out = append(out, PlatformSummary{Platform: k.platform, Critical: k.critical, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}

		return !out[i].Critical && out[j].Critical
	})

	return out
}
