// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"sort"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// EncodePath encodes an object key as a SigV4 canonical URI.
// Each path segment is encoded separately, preserving slashes as path separators,
// and every byte outside the unreserved set (A-Z a-z 0-9 - _ . ~) is percent-encoded.
// The result is used verbatim both on the wire and in the canonical request.
func EncodePath(key string) string {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "/"
	}

	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = uriEncode(segment)
	}
	return "/" + strings.Join(segments, "/")
}

func uriEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

// BuildCanonicalRequest creates the canonical request string per AWS spec and
// returns it together with the semicolon-joined signed header names.
// canonicalURI must already be encoded (see EncodePath). The canonical query
// string is always empty.
func BuildCanonicalRequest(method, canonicalURI string, headers map[string]string, payloadHash string) (string, string) {
	canonicalHeaders, names := buildCanonicalHeaders(headers)
	signedHeaders := strings.Join(names, ";")

	if canonicalURI == "" {
		canonicalURI = "/"
	}

	// Canonical request format:
	// HTTPMethod + "\n" +
	// CanonicalURI + "\n" +
	// CanonicalQueryString + "\n" +
	// CanonicalHeaders + "\n" +
	// SignedHeaders + "\n" +
	// HashedPayload
	canonical := strings.Join([]string{
		method,
		canonicalURI,
		"",
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	return canonical, signedHeaders
}

// buildCanonicalHeaders lowercases and sorts header names and returns the
// newline-terminated "name:value" block plus the sorted names.
func buildCanonicalHeaders(headers map[string]string) (string, []string) {
	lowered := make(map[string]string, len(headers))
	for name, value := range headers {
		lowered[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	names := make([]string, 0, len(lowered))
	for name := range lowered {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(lowered[name])
		b.WriteByte('\n')
	}
	return b.String(), names
}
