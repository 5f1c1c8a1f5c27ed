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

package filewave

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/carverauto/fwmetrics/pkg/logger"
)

// BreakerState is the circuit breaker state.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a CircuitBreaker.
type BreakerConfig struct {
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold int
	// SuccessThreshold successes in half-open close it again.
	SuccessThreshold int
	// Timeout is how long the circuit stays open before a trial request.
	Timeout time.Duration
}

// CircuitBreaker stops calling the server after repeated failures.
type CircuitBreaker struct {
	config       BreakerConfig
	state        BreakerState
	failureCount int
	successCount int
	lastFailTime time.Time
	now          func() time.Time
	mu           sync.Mutex
	logger       logger.Logger
}

func NewCircuitBreaker(config BreakerConfig, log logger.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
		logger: log,
	}
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.record(err)

	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailTime) < cb.config.Timeout {
			return false
		}

		cb.state = StateHalfOpen
		cb.successCount = 0

		cb.logger.Info().Msg("Circuit breaker half-open, sending trial request")

		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failureCount++
		cb.lastFailTime = cb.now()

		if cb.state == StateHalfOpen || cb.failureCount >= cb.config.FailureThreshold {
			if cb.state != StateOpen {
				cb.logger.Warn().Int("failure_count", cb.failureCount).Msg("Circuit breaker opened")
			}

			cb.state = StateOpen
		}

		return
	}

	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.failureCount = 0

			cb.logger.Info().Msg("Circuit breaker closed after recovery")
		}
	case StateClosed:
		cb.failureCount = 0
	case StateOpen:
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// breakerHTTPClient counts transport errors and 5xx responses as failures.
type breakerHTTPClient struct {
	next    HTTPClient
	breaker *CircuitBreaker
}

func (c *breakerHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	err := c.breaker.Execute(func() error {
		var err error

		resp, err = c.next.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			return fmt.Errorf("%w: %d", ErrServerError, resp.StatusCode)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
