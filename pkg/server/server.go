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

// Package server exposes the gauges and collector status over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carverauto/fwmetrics/pkg/collector"
	"github.com/carverauto/fwmetrics/pkg/events"
	"github.com/carverauto/fwmetrics/pkg/logger"
)

const readHeaderTimeout = 10 * time.Second

// StatusProvider reports collector state.
type StatusProvider interface {
	Status() collector.Status
}

// Server is the exporter's HTTP surface.
type Server struct {
	addr     string
	engine   *gin.Engine
	gatherer prometheus.Gatherer
	status   StatusProvider
	trigger  events.Trigger
	host     hostProbe
	logger   logger.Logger
	started  time.Time

	mu      sync.Mutex
	httpSrv *http.Server
	bound   net.Addr
}

func NewServer(
	addr string, gatherer prometheus.Gatherer, status StatusProvider, trigger events.Trigger, log logger.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:     addr,
		engine:   gin.New(),
		gatherer: gatherer,
		status:   status,
		trigger:  trigger,
		host:     gopsutilProbe{},
		logger:   log,
		started:  time.Now(),
	}

	s.engine.Use(gin.Recovery(), requestLogger(log))
	s.routes()

	return s
}

func (s *Server) routes() {
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api/v1")
	{
		api.GET("/status", s.handleStatus)
		api.POST("/collect", s.handleCollect)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.bound = ln.Addr()
	s.mu.Unlock()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), readHeaderTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

// Addr returns the bound listen address once Start is serving.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bound
}

func (*Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"collector": s.status.Status(),
		"process":   s.host.process(c.Request.Context(), s.started),
		"host":      s.host.host(c.Request.Context()),
	})
}

func (s *Server) handleCollect(c *gin.Context) {
	s.trigger.RequestRerun()

	s.logger.Info().Str("remote", c.ClientIP()).Msg("Collection requested over HTTP")

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("HTTP request")
	}
}
