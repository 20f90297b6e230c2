// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// ParseSizeLimit parses a human readable size such as "20MB" or "10MiB".
// An empty string or "0" disables the limit and returns 0.
func ParseSizeLimit(s string) (int64, error) {
	if s == "" || s == "0" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size %q out of range", s)
	}
	return int64(n), nil
}

// HumanSize formats n bytes for logs, e.g. "1.2 MB".
func HumanSize(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.Bytes(uint64(n))
}
