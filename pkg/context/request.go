// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package context carries per-request values through a context.Context.
package context

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID returns a copy of c carrying id.
func WithRequestID(c context.Context, id string) context.Context {
	return context.WithValue(c, requestIDKey{}, id)
}

// RequestID returns the request id carried by c, or "".
func RequestID(c context.Context) string {
	id, _ := c.Value(requestIDKey{}).(string)
	return id
}

// EnsureRequestID returns c unchanged when it already carries a request id,
// otherwise a copy with a new random one.
func EnsureRequestID(c context.Context) (context.Context, string) {
	if id := RequestID(c); id != "" {
		return c, id
	}
	id := uuid.NewString()
	return WithRequestID(c, id), id
}
