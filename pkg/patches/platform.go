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

package patches

import "strings"

const (
	PlatformMacOS     = "macOS"
	PlatformMicrosoft = "Microsoft"
)

// rolloutPlatforms maps platform codes from the updates endpoint.
var rolloutPlatforms = map[string]string{
	"0":         PlatformMacOS,
	"macos":     PlatformMacOS,
	"1":         PlatformMicrosoft,
	"microsoft": PlatformMicrosoft,
	"windows":   PlatformMicrosoft,
}

// inventoryPlatforms maps Update_platform values from inventory queries.
var inventoryPlatforms = map[string]string{
	"0": "Apple",
	"1": PlatformMicrosoft,
}

// PlatformName maps a rollout platform code to its display name. Unknown
// codes pass through unchanged.
func PlatformName(code PlatformCode) string {
	if name, ok := rolloutPlatforms[strings.ToLower(strings.TrimSpace(string(code)))]; ok {
		return name
	}

	return string(code)
}

// IsMacOS reports whether a rollout platform code denotes macOS.
func IsMacOS(code PlatformCode) bool {
	return PlatformName(code) == PlatformMacOS
}

func inventoryPlatformName(code string) string {
	if name, ok := inventoryPlatforms[strings.TrimSpace(code)]; ok {
		return name
	}

	return code
}
