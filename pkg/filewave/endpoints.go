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
	"strconv"
	"strings"
)

const inventoryPort = 20445

// Endpoints builds request URLs for a server, choosing between the legacy
// and v1 web API paths by server version.
type Endpoints struct {
	inventoryBase string
	webBase       string
}

// NewEndpoints returns the endpoints for host.
func NewEndpoints(host string) Endpoints {
	return Endpoints{
		inventoryBase: "https://" + host + ":" + strconv.Itoa(inventoryPort) + "/inv/api/v1/",
		webBase:       "https://" + host + "/api/",
	}
}

// withBases overrides both base URLs.
func withBases(inventoryBase, webBase string) Endpoints {
	return Endpoints{
		inventoryBase: ensureSlash(inventoryBase),
		webBase:       ensureSlash(webBase),
	}
}

func ensureSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}

	return s + "/"
}

// v1 web paths are used from 14.2.0.
func usesV1(v Version) bool {
	return v.AtLeast(14, 2, 0)
}

func (e Endpoints) Inventory(path string) string {
	return e.inventoryBase + path
}

func (e Endpoints) Web(path string) string {
	return e.webBase + path
}

func (e Endpoints) AppConfig() string {
	return e.Web("config/app")
}

func (e Endpoints) SoftwareUpdates(v Version) string {
	if usesV1(v) {
		return e.Web("updates/v1/extended-list?limit=10000")
	}

	return e.Web("updates/extended_list/?limit=10000")
}

func (e Endpoints) GroupsTree(v Version) string {
	if usesV1(v) {
		return e.Web("reports/v1/groups-tree")
	}

	return e.Web("reports/groups_tree")
}

func (e Endpoints) ReportGroups(v Version) string {
	if usesV1(v) {
		return e.Web("reports/v1/groups")
	}

	return e.Web("reports/groups/")
}

func (e Endpoints) QueryResult() string {
	return e.Inventory("query_result/")
}

func (e Endpoints) Queries() string {
	return e.Inventory("query/")
}

func (e Endpoints) QueryDefinition(id int64) string {
	return e.Inventory("query/" + strconv.FormatInt(id, 10))
}

func (e Endpoints) QueryResults(id int64) string {
	return e.Inventory("query_result/" + strconv.FormatInt(id, 10))
}
