// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package debug

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestReadiness(t *testing.T) {
	defer SetNotReady()
	mux := NewMux(nil)

	assert.Equal(t, http.StatusOK, get(t, mux, "/health").Code)

	SetNotReady()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/ready").Code)
	assert.False(t, IsReady())

	SetReady()
	assert.Equal(t, http.StatusOK, get(t, mux, "/ready").Code)
	assert.True(t, IsReady())

	SetReadyCheck("storage", func() error { return errors.New("down") })
	defer SetReadyCheck("storage", nil)

	rr := get(t, mux, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "failing: storage")
	assert.Equal(t, []string{"storage"}, Failing())

	SetReadyCheck("storage", nil)
	assert.True(t, IsReady())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "resumestore_debug_test_total",
		Help: "test counter",
	}).Add(3)

	rr := get(t, NewMux(reg), "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "resumestore_debug_test_total 3")
}
