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

package collector

import (
	"context"

	"github.com/carverauto/fwmetrics/pkg/applications"
	"github.com/carverauto/fwmetrics/pkg/filewave"
	"github.com/carverauto/fwmetrics/pkg/inventory"
	"github.com/carverauto/fwmetrics/pkg/patches"
)

// FileWaveAPI is the server surface a collection cycle reads from.
//
//go:generate mockgen -destination=mock_collector.go -package=collector github.com/carverauto/fwmetrics/pkg/collector FileWaveAPI
type FileWaveAPI interface {
	applications.QueryAPI
	ServerVersion(ctx context.Context) (filewave.Version, error)
	FetchUpdates(ctx context.Context) (*patches.Snapshot, error)
	FetchClientInventory(ctx context.Context) (*inventory.Table, error)
	FetchPatchInventory(ctx context.Context) (*inventory.Table, error)
}

var _ FileWaveAPI = (*filewave.Client)(nil)
