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

// Package filewave is a REST client for the FileWave inventory and web APIs.
package filewave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/time/rate"

	"github.com/carverauto/fwmetrics/pkg/inventory"
	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/metrics"
	"github.com/carverauto/fwmetrics/pkg/models"
	"github.com/carverauto/fwmetrics/pkg/patches"
	"github.com/carverauto/fwmetrics/pkg/version"
)

// Operation names recorded in the request time histogram.
const (
	OpServerVersion      = "get_server_version"
	OpClientInfo         = "get_client_info"
	OpSoftwarePatches    = "get_software_patches"
	OpSoftwareUpdatesWeb = "get_software_updates_web"
	OpApplications       = "get_applications"
	OpQueryDefinition    = "get_query_definition"
	OpListQueries        = "get_all_inventory_queries"
	OpCreateQuery        = "create_inventory_query"
	OpGroupsTree         = "find_group_with_name"
	OpCreateGroup        = "create_query_group"
)

const maxErrorBody = 512

// Client talks to one FileWave server.
type Client struct {
	endpoints Endpoints
	apiKey    string
	http      HTTPClient
	breaker   *CircuitBreaker
	limiter   *rate.Limiter
	retry     models.RetryConfig
	logger    logger.Logger

	mu      sync.RWMutex
	version Version
}

type Option func(*Client)

// WithHTTPClient replaces the base transport. The circuit breaker and
// request timing still wrap it.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBaseURLs overrides the inventory and web API base URLs.
func WithBaseURLs(inventoryBase, webBase string) Option {
	return func(c *Client) {
		c.endpoints = withBases(inventoryBase, webBase)
	}
}

// NewClient builds a client from cfg. cfg is expected to be validated.
func NewClient(cfg *models.ExporterConfig, observer metrics.RequestObserver, log logger.Logger, opts ...Option) (*Client, error) {
	if cfg.ServerHostname == "" {
		return nil, errMissingHostname
	}

	c := &Client{
		endpoints: NewEndpoints(cfg.ServerHostname),
		apiKey:    cfg.APIKey,
		http:      newBaseHTTPClient(time.Duration(cfg.RequestTimeout), cfg.TLSVerification()),
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
		retry:     cfg.Retry,
		logger:    log,
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.RateLimit.RequestsPerSecond <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	c.breaker = NewCircuitBreaker(BreakerConfig{
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
		Timeout:          time.Duration(cfg.CircuitBreaker.Timeout),
	}, log)

	var transport HTTPClient = &breakerHTTPClient{next: c.http, breaker: c.breaker}
	if observer != nil {
		transport = &timedHTTPClient{next: transport, observer: observer}
	}

	c.http = transport

	return c, nil
}

// Version returns the version recorded by the last ServerVersion call.
func (c *Client) Version() Version {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.version
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() BreakerState {
	return c.breaker.State()
}

type appConfig struct {
	AppVersion *string `json:"app_version"`
}

// ServerVersion reads the server's app_version and selects API paths from
// it. A version string that does not parse is logged and treated as 0.0.0.
func (c *Client) ServerVersion(ctx context.Context) (Version, error) {
	var cfg appConfig
	if err := c.getJSON(ctx, OpServerVersion, c.endpoints.AppConfig(), &cfg); err != nil {
		return Version{}, err
	}

	if cfg.AppVersion == nil {
		return Version{}, ErrMissingAppVersion
	}

	v, ok := ParseVersion(*cfg.AppVersion)
	if !ok {
		c.logger.Warn().Str("app_version", *cfg.AppVersion).Msg("Unrecognized server version, using legacy API paths")
	}

	c.mu.Lock()
	c.version = v
	c.mu.Unlock()

	c.logger.Info().Str("version", v.String()).Msg("FileWave server version detected")

	return v, nil
}

// FetchUpdates returns the software update rollout snapshot.
func (c *Client) FetchUpdates(ctx context.Context) (*patches.Snapshot, error) {
	body, err := c.request(ctx, OpSoftwareUpdatesWeb, http.MethodGet, c.endpoints.SoftwareUpdates(c.Version()), nil)
	if err != nil {
		return nil, err
	}

	return patches.DecodeSnapshot(body)
}

// FetchClientInventory runs the client info query.
func (c *Client) FetchClientInventory(ctx context.Context) (*inventory.Table, error) {
	return c.runQuery(ctx, OpClientInfo, ClientInfoQuery())
}

// FetchPatchInventory runs the software patch query.
func (c *Client) FetchPatchInventory(ctx context.Context) (*inventory.Table, error) {
	return c.runQuery(ctx, OpSoftwarePatches, SoftwarePatchQuery())
}

func (c *Client) runQuery(ctx context.Context, op string, q *inventory.Query) (*inventory.Table, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	body, err := c.request(ctx, op, http.MethodPost, c.endpoints.QueryResult(), payload)
	if err != nil {
		return nil, err
	}

	return inventory.Decode(body)
}

func (c *Client) ListInventoryQueries(ctx context.Context) ([]inventory.Query, error) {
	var queries []inventory.Query
	if err := c.getJSON(ctx, OpListQueries, c.endpoints.Queries(), &queries); err != nil {
		return nil, err
	}

	return queries, nil
}

func (c *Client) QueryDefinition(ctx context.Context, id int64) (*inventory.Query, error) {
	var q inventory.Query
	if err := c.getJSON(ctx, OpQueryDefinition, c.endpoints.QueryDefinition(id), &q); err != nil {
		return nil, err
	}

	return &q, nil
}

func (c *Client) QueryResults(ctx context.Context, id int64) (*inventory.Table, error) {
	body, err := c.request(ctx, OpApplications, http.MethodGet, c.endpoints.QueryResults(id), nil)
	if err != nil {
		return nil, err
	}

	return inventory.Decode(body)
}

// CreateInventoryQuery stores q on the server without checking for an
// existing query of the same name.
func (c *Client) CreateInventoryQuery(ctx context.Context, q *inventory.Query) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	_, err = c.request(ctx, OpCreateQuery, http.MethodPost, c.endpoints.Queries(), payload)

	return err
}

// Group is an entry of the report groups hierarchy.
type Group struct {
	ID   int64
	Name string
}

type groupsTree struct {
	Hierarchy []struct {
		ID   interface{} `json:"id"`
		Name string      `json:"name"`
	} `json:"groups_hierarchy"`
}

// FindGroup looks up a query group by name. It returns nil when absent.
func (c *Client) FindGroup(ctx context.Context, name string) (*Group, error) {
	var tree groupsTree
	if err := c.getJSON(ctx, OpGroupsTree, c.endpoints.GroupsTree(c.Version()), &tree); err != nil {
		return nil, err
	}

	for _, item := range tree.Hierarchy {
		if item.Name != name {
			continue
		}

		id, ok := inventory.AsInt64(item.ID)
		if !ok {
			c.logger.Warn().Str("group", name).Interface("id", item.ID).Msg("Query group has no usable id")

			return nil, nil
		}

		return &Group{ID: id, Name: item.Name}, nil
	}

	return nil, nil
}

// EnsureQueryGroup returns the id of the named group, creating it when
// absent. created reports whether it was created by this call.
func (c *Client) EnsureQueryGroup(ctx context.Context, name string) (int64, bool, error) {
	group, err := c.FindGroup(ctx, name)
	if err != nil {
		return 0, false, err
	}

	if group != nil {
		return group.ID, false, nil
	}

	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return 0, false, err
	}

	if _, err = c.request(ctx, OpCreateGroup, http.MethodPost, c.endpoints.ReportGroups(c.Version()), payload); err != nil {
		return 0, false, fmt.Errorf("failed to create query group %q: %w", name, err)
	}

	group, err = c.FindGroup(ctx, name)
	if err != nil {
		return 0, false, err
	}

	if group == nil {
		return 0, false, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}

	c.logger.Info().Str("group", name).Int64("group_id", group.ID).Msg("Created inventory query group")

	return group.ID, true, nil
}

func (c *Client) getJSON(ctx context.Context, op, url string, out interface{}) error {
	body, err := c.request(ctx, op, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	return nil
}

// request performs one logical call, retrying transport and server errors.
func (c *Client) request(ctx context.Context, op, method, url string, payload []byte) ([]byte, error) {
	ctx = withOperation(ctx, op)

	var body []byte

	err := retry.Do(func() error {
		var err error

		body, err = c.attempt(ctx, method, url, payload)

		return err
	},
		retry.Attempts(c.attempts()),
		retry.Delay(time.Duration(c.retry.Delay)),
		retry.MaxDelay(time.Duration(c.retry.MaxDelay)),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug().Str("method", op).Uint("attempt", n+1).Err(err).Msg("Retrying FileWave request")
		}),
	)
	if err != nil {
		c.logger.Warn().Str("method", op).Err(err).Msg("FileWave request failed")

		return nil, err
	}

	return body, nil
}

func (c *Client) attempts() uint {
	if c.retry.Attempts == 0 {
		return 1
	}

	return c.retry.Attempts
}

func (c *Client) attempt(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(body))
	}

	return body, nil
}

// retryable excludes failures that another attempt cannot fix.
func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrUnexpectedStatus),
		errors.Is(err, ErrCircuitOpen),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}

	return string(b)
}
