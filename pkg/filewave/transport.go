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
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/carverauto/fwmetrics/pkg/metrics"
)

// HTTPClient is the transport used by Client.
//
//go:generate mockgen -destination=mock_filewave.go -package=filewave github.com/carverauto/fwmetrics/pkg/filewave HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type operationKey struct{}

// withOperation names the logical call for request timing.
func withOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

func operationFrom(req *http.Request) string {
	if op, ok := req.Context().Value(operationKey{}).(string); ok && op != "" {
		return op
	}

	return req.Method + " " + req.URL.Path
}

// timedHTTPClient records each request's latency under its operation name.
type timedHTTPClient struct {
	next     HTTPClient
	observer metrics.RequestObserver
}

func (c *timedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.next.Do(req)
	c.observer.ObserveRequest(operationFrom(req), time.Since(start))

	return resp, err
}

func newBaseHTTPClient(timeout time.Duration, verifyTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !verifyTLS, //nolint:gosec // servers often use self-signed certificates
	}

	return &http.Client{Timeout: timeout, Transport: transport}
}
