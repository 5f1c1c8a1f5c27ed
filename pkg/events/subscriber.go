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

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/models"
)

const drainTimeout = 5 * time.Second

var (
	errNoSubjects     = errors.New("no event subjects configured")
	errAlreadyStarted = errors.New("subscriber already started")
)

// Subscriber listens for server events and forwards interesting ones to a
// Trigger.
type Subscriber struct {
	cfg     models.EventsConfig
	trigger Trigger
	logger  logger.Logger

	mu   sync.Mutex
	nc   *nats.Conn
	subs []*nats.Subscription

	received atomic.Uint64
	matched  atomic.Uint64
}

func NewSubscriber(cfg *models.EventsConfig, trigger Trigger, log logger.Logger) *Subscriber {
	return &Subscriber{
		cfg:     *cfg,
		trigger: trigger,
		logger:  log,
	}
}

// Open connects and subscribes without blocking.
func (s *Subscriber) Open() error {
	if len(s.cfg.Subjects) == 0 {
		return errNoSubjects
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nc != nil {
		return errAlreadyStarted
	}

	nc, err := nats.Connect(s.cfg.NATSURL,
		nats.Name("extra-metrics"),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			s.logger.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			s.logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			s.logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	for _, subject := range s.cfg.Subjects {
		prefix := SubjectPrefix(subject)
		handler := func(msg *nats.Msg) { s.handle(msg, prefix) }

		var sub *nats.Subscription

		if s.cfg.Queue != "" {
			sub, err = nc.QueueSubscribe(subject, s.cfg.Queue, handler)
		} else {
			sub, err = nc.Subscribe(subject, handler)
		}

		if err != nil {
			nc.Close()
			s.subs = nil

			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}

		s.subs = append(s.subs, sub)
	}

	if err := nc.Flush(); err != nil {
		nc.Close()
		s.subs = nil

		return fmt.Errorf("failed to flush NATS subscriptions: %w", err)
	}

	s.nc = nc

	s.logger.Info().Strs("subjects", s.cfg.Subjects).Str("url", nc.ConnectedUrl()).Msg("FileWave event subscriber started")

	return nil
}

// Start opens the subscription and blocks until ctx is done.
func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.Open(); err != nil {
		return err
	}

	<-ctx.Done()

	return ctx.Err()
}

// Stop drains the subscriptions and closes the connection.
func (s *Subscriber) Stop(_ context.Context) error {
	s.mu.Lock()
	nc := s.nc
	s.nc = nil
	s.subs = nil
	s.mu.Unlock()

	if nc == nil {
		return nil
	}

	done := make(chan struct{})

	nc.SetClosedHandler(func(_ *nats.Conn) { close(done) })

	if err := nc.Drain(); err != nil {
		nc.Close()
		return err
	}

	select {
	case <-done:
	case <-time.After(drainTimeout):
		nc.Close()
	}

	return nil
}

// Stats returns the number of events received and the number that
// requested a rerun.
func (s *Subscriber) Stats() (received, matched uint64) {
	return s.received.Load(), s.matched.Load()
}

func (s *Subscriber) handle(msg *nats.Msg, prefix string) {
	s.received.Add(1)

	ev := Decode(msg.Subject, prefix, msg.Data)

	s.logger.Debug().Str("topic", ev.Topic).Str("subject", msg.Subject).Msg("Event received")

	if verbose(ev.Topic) {
		s.logger.Debug().Str("topic", ev.Topic).RawJSON("payload", rawPayload(ev.Body)).Msg("Event payload")
	}

	if !Interesting(ev) {
		return
	}

	s.matched.Add(1)
	s.logger.Info().Str("topic", ev.Topic).Msg("Event fired, collection will rerun")
	s.trigger.RequestRerun()
}

func rawPayload(b []byte) []byte {
	if json.Valid(b) {
		return b
	}

	quoted, _ := json.Marshal(string(b))

	return quoted
}
