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
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NVIDIA/idlelog/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNew_Options(t *testing.T) {
	s := New(WithName("idlelog"), WithVersion("1.2.3"), WithAddress("127.0.0.1:0"))

	assert.Equal(t, "idlelog", s.config.Name)
	assert.Equal(t, "1.2.3", s.config.Version)
	assert.Equal(t, "127.0.0.1:0", s.config.Address)
	assert.False(t, s.Ready())
}

func TestHealthEndpoint(t *testing.T) {
	w := get(t, New().Handler(), "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestReadyEndpoint(t *testing.T) {
	s := New()

	w := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.NotEmpty(t, resp.Reason)

	s.SetReady(true)
	w = get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := New()
	// generate at least one sample for the request counters
	get(t, s.Handler(), "/health")

	w := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "idlelog_http_requests_total")
}

func TestRootHandler(t *testing.T) {
	s := New(WithName("idlelog"), WithVersion("v9"))

	w := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Name    string   `json:"name"`
		Version string   `json:"version"`
		Routes  []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "idlelog", resp.Name)
	assert.Equal(t, "v9", resp.Version)
	assert.Contains(t, resp.Routes, "GET /metrics")
}

func TestUnknownRoute(t *testing.T) {
	w := get(t, New().Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeNotFound), resp.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	for _, path := range []string{"/", "/health", "/ready"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, nil)
			w := httptest.NewRecorder()
			New().Handler().ServeHTTP(w, req)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))
		})
	}
}

func TestRequestID(t *testing.T) {
	h := New().Handler()

	t.Run("generated", func(t *testing.T) {
		w := get(t, h, "/health")
		_, err := uuid.Parse(w.Header().Get("X-Request-Id"))
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-Id", id)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, id, w.Header().Get("X-Request-Id"))
	})

	t.Run("invalid replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-Id", "not-a-uuid")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.NotEqual(t, "not-a-uuid", w.Header().Get("X-Request-Id"))
	})
}

func TestRateLimiting(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 2
	h := New(WithConfig(cfg)).Handler()

	codes := make([]int, 0, 4)
	for range 4 {
		codes = append(codes, get(t, h, "/health").Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestPanicRecovery(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	s := New(WithHandler("/boom", boom))

	w := get(t, s.Handler(), "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeInternal), resp.Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{errors.ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeIOFailure, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestWriteErrorFromErr(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		WriteErrorFromErr(w, r, errors.NewWithContext(errors.ErrCodeServiceUnavailable, "warming up",
			map[string]any{"phase": "prime"}))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Retryable)
		assert.Equal(t, "prime", resp.Details["phase"])
	})

	t.Run("plain error", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		WriteErrorFromErr(w, r, fmt.Errorf("plain"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), string(errors.ErrCodeInternal)))
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	cfg.Address = "no-port"
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.RateLimitBurst = 0
	assert.Error(t, cfg.Validate())
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New()
	s.SetReady(true)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool { return s.Addr() != nil }, time.Second, 5*time.Millisecond)

	resp, err := http.Get("http://" + s.Addr().String() + "/ready")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.Ready())
}

func TestRun_InvalidAddress(t *testing.T) {
	err := New(WithAddress("bad")).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
}
