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

// Package events turns FileWave server notifications, bridged onto NATS,
// into out-of-cycle collection requests.
package events

import (
	"encoding/json"
	"strings"
	"sync/atomic"
)

const (
	TopicModelUpdateFinished = "/server/update_model_finished"
	TopicAuditLog            = "/api/auditlog"
	TopicQueryChanged        = "/inventory/inventory_query_changed"
	TopicChangePackets       = "/server/change_packets"

	reportCreated = "Report Created"
)

//go:generate mockgen -destination=mock_events.go -package=events github.com/carverauto/fwmetrics/pkg/events Trigger

// Trigger receives rerun requests.
type Trigger interface {
	RequestRerun()
}

// Pending is a coalescing rerun flag: any number of requests made before
// the next cycle collapse into one.
type Pending struct {
	set atomic.Bool
}

var _ Trigger = (*Pending)(nil)

func (p *Pending) RequestRerun() {
	p.set.Store(true)
}

// IsSet reports whether a rerun is pending.
func (p *Pending) IsSet() bool {
	return p.set.Load()
}

// Clear drops any pending request.
func (p *Pending) Clear() {
	p.set.Store(false)
}

// Event is a decoded notification.
type Event struct {
	Topic   string
	Message string
	Body    []byte
}

type envelope struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

// Decode builds an Event from a NATS message. The topic comes from the
// body's "topic" field when present, otherwise from the subject with
// prefix removed. Non-JSON bodies are used as the message text.
func Decode(subject, prefix string, data []byte) Event {
	ev := Event{Body: data}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		ev.Topic = env.Topic
		ev.Message = env.Message
	} else {
		ev.Message = string(data)
	}

	if ev.Topic == "" {
		ev.Topic = TopicFromSubject(subject, prefix)
	}

	return ev
}

// TopicFromSubject maps "filewave.events.server.update_model_finished" with
// prefix "filewave.events." to "/server/update_model_finished".
func TopicFromSubject(subject, prefix string) string {
	s := strings.TrimPrefix(subject, prefix)

	return "/" + strings.ReplaceAll(s, ".", "/")
}

// SubjectPrefix returns the literal part of a subscription subject, up to
// the first wildcard token.
func SubjectPrefix(pattern string) string {
	tokens := strings.Split(pattern, ".")

	var b strings.Builder

	for _, tok := range tokens {
		if tok == "*" || tok == ">" {
			break
		}

		b.WriteString(tok)
		b.WriteByte('.')
	}

	return b.String()
}

// Interesting reports whether ev should trigger a collection. Audit log
// events only count when they record a report being created.
func Interesting(ev Event) bool {
	switch ev.Topic {
	case TopicModelUpdateFinished:
		return true
	case TopicAuditLog:
		return strings.Contains(ev.Message, reportCreated)
	default:
		return false
	}
}

func verbose(topic string) bool {
	switch topic {
	case TopicModelUpdateFinished, TopicAuditLog, TopicQueryChanged, TopicChangePackets:
		return true
	default:
		return false
	}
}
