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

// Package collector runs collection cycles: patch rollup, device join and
// application rollup, followed by publication of every successful pass.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carverauto/fwmetrics/pkg/applications"
	"github.com/carverauto/fwmetrics/pkg/devices"
	"github.com/carverauto/fwmetrics/pkg/events"
	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/metrics"
	"github.com/carverauto/fwmetrics/pkg/models"
	"github.com/carverauto/fwmetrics/pkg/patches"
)

const pendingCheckInterval = time.Second

var errNilTable = errors.New("server returned no result table")

// Service schedules collection cycles against one FileWave server.
type Service struct {
	api        FileWaveAPI
	sink       metrics.Sink
	cfg        *models.ExporterConfig
	aggregator *patches.Aggregator
	pass       *devices.Pass
	apps       *applications.Manager
	pending    *events.Pending
	clock      Clock
	logger     logger.Logger

	// cycleMu serializes cycles.
	cycleMu sync.Mutex

	mu      sync.RWMutex
	version string
	running bool
	cycles  uint64
	last    *CycleStatus

	done     chan struct{}
	stopOnce sync.Once
}

type Option func(*Service)

// WithClock replaces the wall clock used for scheduling and ages.
func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithPending shares a rerun flag with other triggers.
func WithPending(p *events.Pending) Option {
	return func(s *Service) {
		s.pending = p
	}
}

func NewService(cfg *models.ExporterConfig, api FileWaveAPI, sink metrics.Sink, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		api:     api,
		sink:    sink,
		cfg:     cfg,
		pending: &events.Pending{},
		clock:   realClock{},
		logger:  log,
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.aggregator = patches.NewAggregator(log, patches.WithClock(s.clock.Now))
	s.pass = devices.NewPass(log, devices.WithClock(s.clock.Now))
	s.apps = applications.NewManager(api, cfg.AppQueryGroup, log)

	return s
}

// RequestRerun asks for a cycle as soon as the current one, if any, is done.
func (s *Service) RequestRerun() {
	s.pending.RequestRerun()
}

// Connect reads the server version. An unauthorized or unreachable server
// is an error.
func (s *Service) Connect(ctx context.Context) error {
	v, err := s.api.ServerVersion(ctx)
	if err != nil {
		return fmt.Errorf("unable to reach FileWave server %s: %w", s.cfg.ServerHostname, err)
	}

	s.mu.Lock()
	s.version = v.String()
	s.mu.Unlock()

	s.logger.Info().
		Str("host", s.cfg.ServerHostname).
		Str("version", v.String()).
		Dur("poll_interval", s.cfg.PollDelay()).
		Str("patch_source", s.cfg.PatchSource).
		Msg("Extra Metrics connected")

	return nil
}

// Start connects, runs an initial cycle and then runs a cycle every poll
// interval or whenever a rerun is pending. It blocks until ctx is done or
// Stop is called.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Connect(ctx); err != nil {
		return err
	}

	s.runLogged(ctx)

	poll := s.clock.Ticker(s.cfg.PollDelay())
	defer poll.Stop()

	check := s.clock.Ticker(pendingCheckInterval)
	defer check.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-poll.Chan():
			s.runLogged(ctx)
		case <-check.Chan():
			if s.pending.IsSet() {
				s.runLogged(ctx)
			}
		}
	}
}

// Stop ends the scheduling loop. A cycle in progress runs to completion.
func (s *Service) Stop(_ context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })

	return nil
}

func (s *Service) runLogged(ctx context.Context) {
	if _, err := s.RunCycle(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Collection cycle finished with errors")
	}
}

// RunCycle runs one full collection cycle. Passes that fail are skipped and
// their gauges keep the previous values; the returned error joins every
// pass failure.
func (s *Service) RunCycle(ctx context.Context) (*CycleStatus, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.pending.Clear()
	s.setRunning(true)

	defer s.setRunning(false)

	cycle := &CycleStatus{ID: uuid.NewString(), StartedAt: s.clock.Now()}
	log := s.logger.With().Str("cycle_id", cycle.ID).Logger()

	log.Info().Msg("Collection cycle started")

	var errs []error

	patchRes, err := s.collectPatches(ctx, &log, cycle)
	errs = append(errs, err)

	deviceRes, err := s.collectDevices(ctx, &log, cycle, patchRes.Counters)
	errs = append(errs, err)

	appRes, err := s.collectApplications(ctx, &log, cycle)
	errs = append(errs, err)

	errs = append(errs, s.publish(patchRes, deviceRes, appRes))

	cycle.Duration = s.clock.Now().Sub(cycle.StartedAt)

	err = errors.Join(errs...)
	if err != nil {
		cycle.Errors = splitErrors(errs)
	}

	s.mu.Lock()
	s.cycles++
	s.last = cycle
	s.mu.Unlock()

	log.Info().
		Dur("duration", cycle.Duration).
		Str("patches", string(cycle.Patches)).
		Str("devices", string(cycle.Devices)).
		Str("applications", string(cycle.Applications)).
		Msg("Collection cycle finished")

	return cycle, err
}

// collectPatches always returns a Result. A failed fetch is treated as an
// empty snapshot, so the device pass sees no outstanding patches.
func (s *Service) collectPatches(ctx context.Context, log *zerolog.Logger, cycle *CycleStatus) (*patches.Result, error) {
	var (
		res *patches.Result
		err error
	)

	if s.cfg.PatchSource == models.PatchSourceInventory {
		res, err = s.patchesFromInventory(ctx)
	} else {
		var snap *patches.Snapshot

		snap, err = s.api.FetchUpdates(ctx)
		res = s.aggregator.Aggregate(snap)
	}

	switch {
	case err != nil:
		cycle.Patches = OutcomeFailed

		log.Warn().Err(err).Str("source", s.cfg.PatchSource).Msg("Patch rollup skipped")

		return &patches.Result{Source: s.cfg.PatchSource, Empty: true, Counters: patches.NewCounterTable()}, fmt.Errorf("patches: %w", err)
	case res.Empty:
		cycle.Patches = OutcomeEmpty
	default:
		cycle.Patches = OutcomeOK
	}

	cycle.UpdateCount = len(res.Updates)

	return res, nil
}

func (s *Service) patchesFromInventory(ctx context.Context) (*patches.Result, error) {
	tbl, err := s.api.FetchPatchInventory(ctx)
	if err != nil {
		return nil, err
	}

	if tbl == nil {
		return nil, errNilTable
	}

	return s.aggregator.AggregateInventory(tbl)
}

func (s *Service) collectDevices(
	ctx context.Context, log *zerolog.Logger, cycle *CycleStatus, counters *patches.CounterTable,
) (*devices.Result, error) {
	tbl, err := s.api.FetchClientInventory(ctx)
	if err == nil && tbl == nil {
		err = errNilTable
	}

	var res *devices.Result

	if err == nil {
		res, err = s.pass.Run(tbl, counters)
	}

	if err != nil {
		cycle.Devices = OutcomeFailed

		log.Warn().Err(err).Msg("Device pass skipped")

		return nil, fmt.Errorf("devices: %w", err)
	}

	if res.Devices == 0 {
		cycle.Devices = OutcomeEmpty
	} else {
		cycle.Devices = OutcomeOK
	}

	cycle.DeviceCount = res.Devices

	return res, nil
}

func (s *Service) collectApplications(ctx context.Context, log *zerolog.Logger, cycle *CycleStatus) (*applications.Result, error) {
	var refreshErr error

	if err := s.apps.Refresh(ctx); err != nil {
		refreshErr = fmt.Errorf("applications: %w", err)

		if len(s.apps.Queries()) == 0 {
			cycle.Applications = OutcomeFailed

			log.Warn().Err(err).Msg("Application rollup skipped")

			return nil, refreshErr
		}

		log.Warn().Err(err).Msg("Failed to refresh application queries, using the previous set")
	}

	res := s.apps.Collect(ctx)
	cycle.QueryCount = len(res.Queries)

	switch {
	case res.Failed > 0 && len(res.Queries) == 0:
		cycle.Applications = OutcomeFailed
	case res.Failed > 0 || refreshErr != nil:
		cycle.Applications = OutcomePartial
	case len(res.Queries) == 0:
		cycle.Applications = OutcomeEmpty
	default:
		cycle.Applications = OutcomeOK
	}

	if res.Failed > 0 {
		return res, errors.Join(refreshErr, fmt.Errorf("applications: %d of %d queries failed", res.Failed, res.Failed+len(res.Queries)))
	}

	return res, refreshErr
}

func (s *Service) publish(p *patches.Result, d *devices.Result, a *applications.Result) error {
	var errs []error

	if err := patches.Publish(s.sink, p); err != nil {
		errs = append(errs, fmt.Errorf("publish patches: %w", err))
	}

	if d != nil {
		if err := devices.Publish(s.sink, d); err != nil {
			errs = append(errs, fmt.Errorf("publish devices: %w", err))
		}
	}

	if err := applications.Publish(s.sink, a); err != nil {
		errs = append(errs, fmt.Errorf("publish applications: %w", err))
	}

	return errors.Join(errs...)
}

func (s *Service) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

// Status returns a snapshot of the collector state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		ServerVersion: s.version,
		PatchSource:   s.cfg.PatchSource,
		Pending:       s.pending.IsSet(),
		Running:       s.running,
		Cycles:        s.cycles,
	}

	if s.last != nil {
		last := *s.last
		last.Errors = append([]string(nil), s.last.Errors...)
		st.LastCycle = &last
	}

	return st
}

func splitErrors(errs []error) []string {
	var out []string

	for _, err := range errs {
		if err != nil {
			out = append(out, err.Error())
		}
	}

	return out
}
