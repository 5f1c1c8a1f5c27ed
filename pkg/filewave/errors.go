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

import "errors"

var (
	// ErrUnauthorized means the API key was rejected. It is never retried.
	ErrUnauthorized = errors.New("401 not allowed, the API key has been revoked or is invalid")
	// ErrUnexpectedStatus is returned for non-2xx responses other than 401 and 5xx.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrServerError is returned for 5xx responses.
	ErrServerError = errors.New("server error")
	// ErrCircuitOpen is returned while the circuit breaker rejects requests.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrMissingAppVersion is returned when config/app has no app_version.
	ErrMissingAppVersion = errors.New("app_version missing from server response")
	// ErrGroupNotFound is returned when a query group cannot be found or created.
	ErrGroupNotFound = errors.New("inventory query group not found")

	errMissingHostname = errors.New("server hostname is required")
)
