// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for outgoing storage requests
var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumestore_s3_requests_total",
			Help: "Total number of signed storage requests by operation and HTTP status",
		},
		[]string{"op", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resumestore_s3_request_duration_seconds",
			Help:    "Duration of signed storage requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	uploadedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resumestore_s3_uploaded_bytes_total",
			Help: "Total bytes successfully uploaded with PutObject",
		},
	)
)
