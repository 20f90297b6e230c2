// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned for keys the client refuses to send.
var ErrInvalidKey = errors.New("invalid object key")

// ConfigurationError means the client cannot be used until configuration is
// fixed. It is raised before any network I/O and is never retryable.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return "s3client: missing configuration: " + strings.Join(e.Missing, ", ")
	}
	return "s3client: invalid configuration: " + e.Reason
}

// StorageRequestError is a non-2xx answer from the storage service.
// Code and Message are filled from the S3 XML error document when present.
type StorageRequestError struct {
	Op         string
	Key        string
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *StorageRequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "s3client: %s %s: status %d", e.Op, e.Key, e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " %s: %s", e.Code, e.Message)
	} else if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	return b.String()
}

// TransportError wraps a failure to get any HTTP response (DNS, connection
// reset, timeout, cancellation).
type TransportError struct {
	Op  string
	Key string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("s3client: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
