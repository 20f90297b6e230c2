// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3consts

import "time"

const (
	// --- Core request / tracing ---
	XAmzDate      = "x-amz-date"
	XAmzRequestID = "x-amz-request-id"

	// --- Content / payload ---
	XAmzContentSHA256 = "x-amz-content-sha256"

	// --- Standard headers, lowercased as they appear in canonical requests ---
	Host          = "host"
	ContentType   = "content-type"
	Authorization = "Authorization"

	// ServiceS3 is the service name used in the SigV4 credential scope.
	ServiceS3 = "s3"

	// MaxClockSkew is how far a request's x-amz-date may drift from the
	// server clock before S3 answers RequestTimeTooSkewed.
	MaxClockSkew = 15 * time.Minute
)
