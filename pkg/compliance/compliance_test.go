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

package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestDiskScore(t *testing.T) {
	tests := []struct {
		name  string
		total *float64
		free  *float64
		want  Level
	}{
		{"exactly twenty percent", f(100), f(20), OK},
		{"plenty free", f(100), f(25), OK},
		{"just under twenty", f(100), f(19.99), Warning},
		{"exactly five percent", f(100), f(5), Warning},
		{"under five percent", f(100), f(4.9), Error},
		{"zero sizes", f(0), f(0), Unknown},
		{"negative total", f(-1), f(10), Unknown},
		{"missing total", nil, f(10), Unknown},
		{"missing free", f(100), nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiskScore(tt.total, tt.free))
		})
	}
}

func TestCheckinScore(t *testing.T) {
	tests := []struct {
		age  *float64
		want Level
	}{
		{f(0), OK},
		{f(6), OK},
		{f(7), Warning},
		{f(13), Warning},
		{f(14), Error},
		{f(99), Error},
		{nil, Unknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckinScore(tt.age), "age %v", tt.age)
	}
}

func TestPatchScore(t *testing.T) {
	assert.Equal(t, OK, PatchScore(0, 0))
	assert.Equal(t, Error, PatchScore(1, 0))
	assert.Equal(t, Error, PatchScore(3, 7))
	assert.Equal(t, Warning, PatchScore(0, 1))
	assert.Equal(t, Unknown, PatchScore(NoPatchData, NoPatchData))
}

func TestClassify_WorstWins(t *testing.T) {
	// disk warning, check-in error
	got := Classify(Input{TotalDisk: f(100), FreeDisk: f(5), CheckinAgeDays: f(500)})
	assert.Equal(t, Error, got)

	got = Classify(Input{TotalDisk: f(100), FreeDisk: f(50), CheckinAgeDays: f(1), OutstandingStandard: 2})
	assert.Equal(t, Warning, got)
}

func TestClassify_UnknownDoesNotMask(t *testing.T) {
	got := Classify(Input{CheckinAgeDays: f(10)})
	assert.Equal(t, Warning, got)

	got = Classify(Input{OutstandingCritical: NoPatchData, OutstandingStandard: NoPatchData})
	assert.Equal(t, Unknown, got)
}

func TestLevelString(t *testing.T) {
	names := make([]string, 0, len(Levels))
	for _, l := range Levels {
		names = append(names, l.String())
	}

	assert.Equal(t, []string{"OK", "UNKNOWN", "WARNING", "ERROR"}, names)
	assert.Equal(t, "UNKNOWN", Level(42).String())
	assert.Equal(t, OK, Worst())
}
