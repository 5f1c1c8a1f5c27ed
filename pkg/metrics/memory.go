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

package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemorySink keeps published gauges in memory. It is used by the one-shot
// collect command and by tests.
type MemorySink struct {
	mu       sync.RWMutex
	gauges   map[string][]Sample
	requests map[string]int
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		gauges:   make(map[string][]Sample),
		requests: make(map[string]int),
	}
}

// Replace implements Sink.
func (m *MemorySink) Replace(name string, samples []Sample) error {
	def, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}

	out := make([]Sample, 0, len(samples))

	for _, s := range samples {
		if len(s.Labels) != len(def.Labels) {
			return fmt.Errorf("%w: %s", ErrLabelCountMismatch, name)
		}

		out = append(out, Sample{Labels: append([]string(nil), s.Labels...), Value: s.Value})
	}

	m.mu.Lock()
	m.gauges[name] = out
	m.mu.Unlock()

	return nil
}

// ObserveRequest implements RequestObserver by counting calls per method.
func (m *MemorySink) ObserveRequest(method string, _ time.Duration) {
	m.mu.Lock()
	m.requests[method]++
	m.mu.Unlock()
}

// Requests returns how many requests were observed for method.
func (m *MemorySink) Requests(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.requests[method]
}

// Value returns the sample with exactly the given labels.
func (m *MemorySink) Value(name string, labels ...string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.gauges[name] {
		if equalLabels(s.Labels, labels) {
			return s.Value, true
		}
	}

	return 0, false
}

// Samples returns a copy of the named gauge's samples.
func (m *MemorySink) Samples(name string) []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Sample(nil), m.gauges[name]...)
}

// Published reports whether the named gauge has been replaced at least once.
func (m *MemorySink) Published(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.gauges[name]

	return ok
}

// Exposition renders the gauges in the Prometheus text format, sorted by
// name and labels.
func (m *MemorySink) Exposition() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	for _, def := range Definitions {
		samples, ok := m.gauges[def.Name]
		if !ok {
			continue
		}

		lines := make([]string, 0, len(samples))

		for _, s := range samples {
			pairs := make([]string, len(def.Labels))
			for i, l := range def.Labels {
				pairs[i] = fmt.Sprintf("%s=%q", l, s.Labels[i])
			}

			lines = append(lines, fmt.Sprintf("%s{%s} %g", def.Name, strings.Join(pairs, ","), s.Value))
		}

		sort.Strings(lines)

		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s gauge\n", def.Name, def.Help, def.Name)

		for _, l := range lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func equalLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
