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

import "github.com/carverauto/fwmetrics/pkg/inventory"

// ClientInfoQuery selects the per-device columns used by the device pass.
// Archived clients and clients without a desktop client version are excluded.
func ClientInfoQuery() *inventory.Query {
	return &inventory.Query{
		DisplayName:   "extra metrics - client info",
		MainComponent: "Client",
		Criteria: &inventory.Criteria{
			Logic: "all",
			Expressions: []inventory.Expression{
				{Component: "Client", Column: "filewave_id", Operator: "!=", Qualifier: nil},
				{Component: "Client", Column: "archived", Operator: "=", Qualifier: nil},
				{Component: "DesktopClient", Column: "filewave_client_version", Operator: "!=", Qualifier: nil},
			},
		},
		Fields: []inventory.Column{
			{Component: "Client", Column: "device_name"},
			{Component: "Client", Column: "filewave_client_locked"},
			{Component: "Client", Column: "free_disk_space"},
			{Component: "Client", Column: "device_id"},
			{Component: "Client", Column: "is_tracking_enabled"},
			{Component: "Client", Column: "location"},
			{Component: "Client", Column: "serial_number"},
			{Component: "DesktopClient", Column: "filewave_client_version"},
			{Component: "Client", Column: "management_mode"},
			{Component: "Client", Column: "filewave_client_name"},
			{Component: "Client", Column: "filewave_id"},
			{Component: "OperatingSystem", Column: "version"},
			{Component: "Client", Column: "enrollment_state"},
			{Component: "OperatingSystem", Column: "name"},
			{Component: "OperatingSystem", Column: "edition"},
			{Component: "OperatingSystem", Column: "build"},
			{Component: "OperatingSystem", Column: "type"},
			{Component: "Client", Column: "last_check_in"},
			{Component: "DesktopClient", Column: "filewave_model_number"},
			{Component: "DesktopClient", Column: "device_manufacturer"},
			{Component: "Client", Column: "last_logged_in_username"},
			{Component: "Client", Column: "device_product_name"},
			{Component: "Client", Column: "current_upstream_host"},
			{Component: "Client", Column: "current_upstream_port"},
			{Component: "Client", Column: "total_disk_space"},
		},
	}
}

// SoftwarePatchQuery lists every (client, update) pair the server tracks.
func SoftwarePatchQuery() *inventory.Query {
	return &inventory.Query{
		DisplayName:   "extra metrics - software patch",
		MainComponent: "Update",
		Favorite:      true,
		Fields: []inventory.Column{
			{Component: "Client", Column: "filewave_id"},
			{Component: "Client", Column: "filewave_client_name"},
			{Component: "Update", Column: "name"},
			{Component: "Update", Column: "update_id"},
			{Component: "Update", Column: "version"},
			{Component: "Update", Column: "platform"},
			{Component: "Update", Column: "critical"},
		},
	}
}
