// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const (
	routeRoot    = "/"
	routeHealth  = "/health"
	routeReady   = "/ready"
	routeMetrics = "/metrics"
)

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the whole configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.config.Address = addr
	}
}

// WithName sets the name reported on the root route.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the version reported on the root route.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithHandler registers an extra route behind the middleware chain.
func WithHandler(pattern string, h http.Handler) Option {
	return func(s *Server) {
		s.extra[pattern] = h
	}
}

// Server exposes health, readiness and Prometheus metrics.
type Server struct {
	config      *Config
	rateLimiter *rate.Limiter
	handler     http.Handler
	extra       map[string]http.Handler

	mu    sync.RWMutex
	ready bool
	addr  net.Addr
}

// New creates a server. It is not ready until SetReady(true).
func New(opts ...Option) *Server {
	s := &Server{
		config: NewConfig(),
		extra:  map[string]http.Handler{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(routeRoot, s.withMiddleware(http.HandlerFunc(s.handleRoot)))
	mux.Handle(routeHealth, s.withMiddleware(http.HandlerFunc(s.handleHealth)))
	mux.Handle(routeReady, s.withMiddleware(http.HandlerFunc(s.handleReady)))
	mux.Handle(routeMetrics, s.withMiddleware(promhttp.Handler()))
	for pattern, h := range s.extra {
		mux.Handle(pattern, s.withMiddleware(h))
	}
	return mux
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// SetReady flips the readiness probe.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Ready reports the readiness state.
func (s *Server) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Addr returns the bound address once Run or Serve is listening.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Run listens on the configured address and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid server config", err)
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Address)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeIOFailure, "failed to listen", err,
			map[string]any{"address": s.config.Address})
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	slog.Info("metrics listener started",
		slog.String("address", ln.Addr().String()),
		slog.Any("rateLimit", float64(s.config.RateLimit)),
		slog.Int("rateLimitBurst", s.config.RateLimitBurst))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(errors.ErrCodeIOFailure, "metrics listener failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, "metrics listener shutdown", err)
	}
	slog.Info("metrics listener stopped")
	return nil
}
