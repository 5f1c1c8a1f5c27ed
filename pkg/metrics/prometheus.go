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
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusSink publishes gauges into a Prometheus registry.
type PrometheusSink struct {
	registry *prometheus.Registry
	gauges   map[string]*snapshotCollector
	requests *prometheus.HistogramVec
}

// NewPrometheusSink registers every gauge in Definitions, plus the REST
// request histogram, with registry.
func NewPrometheusSink(registry *prometheus.Registry) *PrometheusSink {
	s := &PrometheusSink{
		registry: registry,
		gauges:   make(map[string]*snapshotCollector, len(Definitions)),
	}

	for _, d := range Definitions {
		c := newSnapshotCollector(d)
		registry.MustRegister(c)
		s.gauges[d.Name] = c
	}

	s.requests = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    HTTPRequestTimeTaken,
		Help:    "time taken for FileWave REST requests, by request method",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	return s
}

// Registry returns the registry the sink writes to.
func (s *PrometheusSink) Registry() *prometheus.Registry {
	return s.registry
}

// Replace implements Sink. The new series set is built aside and swapped in
// whole, so a concurrent scrape sees either the old set or the new one.
func (s *PrometheusSink) Replace(name string, samples []Sample) error {
	c, ok := s.gauges[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}

	def, _ := Lookup(name)
	for _, sample := range samples {
		if len(sample.Labels) != len(def.Labels) {
			return fmt.Errorf("%w: %s wants %d, got %d", ErrLabelCountMismatch, name, len(def.Labels), len(sample.Labels))
		}
	}

	return c.replace(samples)
}

// ObserveRequest implements RequestObserver.
func (s *PrometheusSink) ObserveRequest(method string, elapsed time.Duration) {
	s.requests.WithLabelValues(method).Observe(elapsed.Seconds())
}

// snapshotCollector serves one gauge family from an immutable snapshot.
type snapshotCollector struct {
	desc     *prometheus.Desc
	snapshot atomic.Pointer[[]prometheus.Metric]
}

func newSnapshotCollector(d Definition) *snapshotCollector {
	c := &snapshotCollector{
		desc: prometheus.NewDesc(d.Name, d.Help, d.Labels, nil),
	}

	c.snapshot.Store(&[]prometheus.Metric{})

	return c
}

// replace swaps in a new snapshot. Repeated label sets keep the last value.
func (c *snapshotCollector) replace(samples []Sample) error {
	index := make(map[string]int, len(samples))
	next := make([]prometheus.Metric, 0, len(samples))

	for _, sample := range samples {
		m, err := prometheus.NewConstMetric(c.desc, prometheus.GaugeValue, sample.Value, sample.Labels...)
		if err != nil {
			return err
		}

		key := strings.Join(sample.Labels, "\xff")
		if i, seen := index[key]; seen {
			next[i] = m

			continue
		}

		index[key] = len(next)
		next = append(next, m)
	}

	c.snapshot.Store(&next)

	return nil
}

// Describe implements prometheus.Collector.
func (c *snapshotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *snapshotCollector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range *c.snapshot.Load() {
		ch <- m
	}
}
