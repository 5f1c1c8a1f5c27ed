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

// Package applications manages the application inventory queries and rolls
// their results up into per-version device counts.
package applications

import (
	"sort"

	"github.com/carverauto/fwmetrics/pkg/inventory"
)

const (
	ColumnAppName    = "Application_name"
	ColumnAppVersion = "Application_version"
	ColumnDeviceID   = "Client_device_id"
)

// VersionCount is the number of distinct devices running one application
// version.
type VersionCount struct {
	Name    string
	Version string
	Devices int
}

// Rollup groups rows by application name and version and counts distinct
// device ids in each group. Rows with a null name or version are dropped, as
// are null device ids.
func Rollup(tbl *inventory.Table) ([]VersionCount, error) {
	schema, err := tbl.Resolve(ColumnAppName, ColumnAppVersion, ColumnDeviceID)
	if err != nil {
		return nil, err
	}

	type key struct{ name, version string }

	groups := make(map[key]map[string]struct{})

	for _, row := range tbl.Rows(schema) {
		name, okName := row.Label(ColumnAppName)
		version, okVersion := row.Label(ColumnAppVersion)

		if !okName || !okVersion {
			continue
		}

		k := key{name, version}

		devices, ok := groups[k]
		if !ok {
			devices = make(map[string]struct{})
			groups[k] = devices
		}

		if id, ok := row.Label(ColumnDeviceID); ok {
			devices[id] = struct{}{}
		}
	}

	out := make([]VersionCount, 0, len(groups))
	for k, devices := range groups {
		out = append(out, VersionCount{Name: k.name, Version: k.version, Devices: len(devices)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].Version < out[j].Version
	})

	return out, nil
}
