// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package debug serves the operational endpoints: Prometheus metrics, pprof,
// liveness and readiness.
package debug

import (
	"net/http"
	"net/http/pprof"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ready atomic.Bool

	checksMu sync.RWMutex
	checks   = make(map[string]func() error)
)

func SetReady() {
	ready.Store(true)
}

func SetNotReady() {
	ready.Store(false)
}

// SetReadyCheck registers a named readiness check. A nil check removes it.
func SetReadyCheck(name string, check func() error) {
	checksMu.Lock()
	defer checksMu.Unlock()
	if check == nil {
		delete(checks, name)
		return
	}
	checks[name] = check
}

// Failing returns the names of failing readiness checks in sorted order.
func Failing() []string {
	checksMu.RLock()
	defer checksMu.RUnlock()

	var failing []string
	for name, check := range checks {
		if err := check(); err != nil {
			failing = append(failing, name)
		}
	}
	sort.Strings(failing)
	return failing
}

// IsReady reports whether SetReady was called and every check passes.
func IsReady() bool {
	return ready.Load() && len(Failing()) == 0
}

// NewMux returns the debug mux. Metrics come from gatherer, or the default
// registry when it is nil.
func NewMux(gatherer prometheus.Gatherer) *http.ServeMux {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/", pprof.Index)
	mux.HandleFunc("/debug/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/profile", pprof.Profile)
	mux.HandleFunc("/debug/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/trace", pprof.Trace)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		if failing := Failing(); len(failing) > 0 {
			http.Error(w, "failing: "+strings.Join(failing, ","), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return mux
}
