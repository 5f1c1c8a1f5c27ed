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

package applications

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"sync"

	"github.com/carverauto/fwmetrics/pkg/inventory"
	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/metrics"
)

//go:embed default_queries/*.json
var defaultQueries embed.FS

var errNoQueryResult = errors.New("query returned no result")

// QueryAPI is the subset of the REST client the manager needs.
//
//go:generate mockgen -destination=mock_applications.go -package=applications github.com/carverauto/fwmetrics/pkg/applications QueryAPI
type QueryAPI interface {
	EnsureQueryGroup(ctx context.Context, name string) (groupID int64, created bool, err error)
	ListInventoryQueries(ctx context.Context) ([]inventory.Query, error)
	QueryDefinition(ctx context.Context, id int64) (*inventory.Query, error)
	CreateInventoryQuery(ctx context.Context, q *inventory.Query) error
	QueryResults(ctx context.Context, id int64) (*inventory.Table, error)
}

// QueryResult is the rollup of one managed query.
type QueryResult struct {
	QueryID   int64
	QueryName string
	Versions  []VersionCount
}

// Result holds every successful query rollup of a cycle.
type Result struct {
	Queries []QueryResult
	Failed  int
}

// Manager keeps the set of application queries in the managed group and
// runs them each cycle.
type Manager struct {
	api     QueryAPI
	group   string
	logger  logger.Logger
	mu      sync.Mutex
	queries []inventory.Query
}

func NewManager(api QueryAPI, group string, log logger.Logger) *Manager {
	return &Manager{api: api, group: group, logger: log}
}

// Refresh ensures the managed group exists, seeds it with the default
// queries when it was just created and reloads the valid queries in it. On
// error the previously loaded queries are kept.
func (m *Manager) Refresh(ctx context.Context) error {
	groupID, created, err := m.api.EnsureQueryGroup(ctx, m.group)
	if err != nil {
		return fmt.Errorf("ensure query group %q: %w", m.group, err)
	}

	if created {
		m.logger.Info().Str("group", m.group).Int64("group_id", groupID).Msg("Created application query group")

		if err := m.seed(ctx, groupID); err != nil {
			return err
		}
	}

	all, err := m.api.ListInventoryQueries(ctx)
	if err != nil {
		return fmt.Errorf("list inventory queries: %w", err)
	}

	var valid []inventory.Query

	for _, q := range all {
		if q.Group == nil || *q.Group != groupID {
			continue
		}

		def, err := m.api.QueryDefinition(ctx, q.ID)
		if err != nil {
			m.logger.Warn().Err(err).Int64("query_id", q.ID).Msg("Failed to fetch query definition")

			continue
		}

		if !IsValidQuery(def) {
			m.logger.Debug().Int64("query_id", q.ID).Msg("Skipping query without application name, version and device id")

			continue
		}

		valid = append(valid, *def)

		m.logger.Info().Int64("query_id", def.ID).Str("name", def.Name).Msg("Refreshed application query")
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].ID < valid[j].ID })

	m.mu.Lock()
	m.queries = valid
	m.mu.Unlock()

	return nil
}

func (m *Manager) seed(ctx context.Context, groupID int64) error {
	defs, err := DefaultQueries()
	if err != nil {
		return err
	}

	for i := range defs {
		q := defs[i]
		q.Group = &groupID

		if err := m.api.CreateInventoryQuery(ctx, &q); err != nil {
			return fmt.Errorf("create default query %q: %w", q.Name, err)
		}
	}

	return nil
}

// Queries returns the currently managed queries.
func (m *Manager) Queries() []inventory.Query {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]inventory.Query(nil), m.queries...)
}

// Collect runs every managed query. A failing query is logged and skipped.
func (m *Manager) Collect(ctx context.Context) *Result {
	res := &Result{}

	for _, q := range m.Queries() {
		versions, err := m.run(ctx, q.ID)
		if err != nil {
			res.Failed++

			m.logger.Error().Err(err).Int64("query_id", q.ID).Str("name", q.Name).Msg("Application query rollup failed")

			continue
		}

		res.Queries = append(res.Queries, QueryResult{QueryID: q.ID, QueryName: q.Name, Versions: versions})
	}

	return res
}

func (m *Manager) run(ctx context.Context, id int64) ([]VersionCount, error) {
	tbl, err := m.api.QueryResults(ctx, id)
	if err != nil {
		return nil, err
	}

	if tbl == nil {
		return nil, errNoQueryResult
	}

	return Rollup(tbl)
}

// IsValidQuery reports whether a definition has a name and id and selects
// the application name, application version and client device id.
func IsValidQuery(q *inventory.Query) bool {
	if q == nil || q.Name == "" || q.ID == 0 {
		return false
	}

	return q.HasColumn("Application", "name") &&
		q.HasColumn("Application", "version") &&
		q.HasColumn("Client", "device_id")
}

// DefaultQueries returns the query definitions seeded into a new group.
func DefaultQueries() ([]inventory.Query, error) {
	entries, err := defaultQueries.ReadDir("default_queries")
	if err != nil {
		return nil, err
	}

	out := make([]inventory.Query, 0, len(entries))

	for _, e := range entries {
		data, err := defaultQueries.ReadFile(path.Join("default_queries", e.Name()))
		if err != nil {
			return nil, err
		}

		var q inventory.Query
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("default query %s: %w", e.Name(), err)
		}

		out = append(out, q)
	}

	return out, nil
}

// Publish writes application version counts through sink. Counts for the
// same version under one query are summed. When every query failed nothing
// is published.
func Publish(sink metrics.Sink, res *Result) error {
	if res == nil || (len(res.Queries) == 0 && res.Failed > 0) {
		return nil
	}

	var samples []metrics.Sample

	for _, q := range res.Queries {
		id := strconv.FormatInt(q.QueryID, 10)
		byVersion := make(map[string]int)

		var order []string

		for _, v := range q.Versions {
			if _, seen := byVersion[v.Version]; !seen {
				order = append(order, v.Version)
			}

			byVersion[v.Version] += v.Devices
		}

		for _, version := range order {
			samples = append(samples, metrics.Sample{
				Labels: []string{q.QueryName, version, id},
				Value:  float64(byVersion[version]),
			})
		}
	}

	return sink.Replace(metrics.ApplicationVersion, samples)
}
