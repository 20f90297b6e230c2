// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

const (
	AuthHeaderV4 = "AWS4-HMAC-SHA256"

	Iso8601BasicFormat = "20060102T150405Z"
	Iso8601DateFormat  = "20060102"

	// Terminator of every SigV4 credential scope.
	scopeTerminator = "aws4_request"

	// Precomputed SHA256 hash of an empty payload
	HashedEmptyPayload = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)
