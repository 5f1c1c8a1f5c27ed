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

// Package compliance scores device health from disk usage, check-in recency
// and outstanding patches.
package compliance

// Level is an ordinal device health classification. Larger is worse.
type Level int

const (
	OK Level = iota
	Unknown
	Warning
	Error
)

// Levels lists every level in ordinal order.
var Levels = []Level{OK, Unknown, Warning, Error}

const (
	diskOKPercent    = 20.0
	diskErrorPercent = 5.0

	checkinWarningDays = 7
	checkinErrorDays   = 14

	// NoPatchData marks a device for which no patch counts are available.
	NoPatchData = -1
)

func (l Level) String() string {
	switch l {
	case OK:
		return "OK"
	case Unknown:
		return "UNKNOWN"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Input carries the signals for a single device. Nil pointers mean the value
// was not reported.
type Input struct {
	TotalDisk           *float64
	FreeDisk            *float64
	CheckinAgeDays      *float64
	OutstandingCritical int
	OutstandingStandard int
}

// Classify returns the worst of the disk, check-in and patch scores.
// Unknown ranks below Warning so missing data never hides a definite problem.
func Classify(in Input) Level {
	return Worst(
		DiskScore(in.TotalDisk, in.FreeDisk),
		CheckinScore(in.CheckinAgeDays),
		PatchScore(in.OutstandingCritical, in.OutstandingStandard),
	)
}

// DiskScore rates free space as a percentage of total.
func DiskScore(total, free *float64) Level {
	if total == nil || free == nil || *total <= 0 || *free <= 0 {
		return Unknown
	}

	pct := *free / *total * 100

	switch {
	case pct >= diskOKPercent:
		return OK
	case pct < diskErrorPercent:
		return Error
	default:
		return Warning
	}
}

// CheckinScore rates the number of days since the device last checked in.
func CheckinScore(ageDays *float64) Level {
	if ageDays == nil {
		return Unknown
	}

	switch {
	case *ageDays < checkinWarningDays:
		return OK
	case *ageDays < checkinErrorDays:
		return Warning
	default:
		return Error
	}
}

// PatchScore rates outstanding patch counts. Any critical patch is an error.
func PatchScore(critical, standard int) Level {
	switch {
	case critical == 0 && standard == 0:
		return OK
	case critical > 0:
		return Error
	case standard > 0:
		return Warning
	default:
		return Unknown
	}
}

// Worst returns the highest level, or OK when none are given.
func Worst(levels ...Level) Level {
	worst := OK

	for _, l := range levels {
		if l > worst {
			worst = l
		}
	}

	return worst
}
