// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{key: "", want: "/"},
		{key: "/", want: "/"},
		{key: "users/U123/", want: "/users/U123/"},
		{key: "users/U123/original_resume/resume.pdf", want: "/users/U123/original_resume/resume.pdf"},
		{key: "/already/leading", want: "/already/leading"},
		{key: "test$file.text", want: "/test%24file.text"},
		{key: "users/a b+c/x", want: "/users/a%20b%2Bc/x"},
		{key: "users/jos\u00e9/r~e_s-u.me", want: "/users/jos%C3%A9/r~e_s-u.me"},
		{key: "users/100%/x", want: "/users/100%25/x"},
		{key: "users/a=b&c@d:e/", want: "/users/a%3Db%26c%40d%3Ae/"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodePath(tt.key))
		})
	}
}

// The encoded path must survive net/url untouched so the wire path and the
// canonical path are the same string.
func TestEncodePath_RoundTripsThroughURL(t *testing.T) {
	t.Parallel()

	for _, key := range []string{
		"users/plain/original_resume/resume.pdf",
		"users/a b+c/original_resume/resume.pdf",
		"users/Zo\u00eb (1)/original_resume/resume.pdf",
		"users/100%/x",
	} {
		encoded := EncodePath(key)
		decoded, err := url.PathUnescape(encoded)
		require.NoError(t, err)

		u := &url.URL{Scheme: "https", Host: testHost, Path: decoded, RawPath: encoded}
		assert.Equal(t, encoded, u.EscapedPath(), key)

		req, err := http.NewRequest(http.MethodPut, u.String(), nil)
		require.NoError(t, err)
		assert.Equal(t, encoded, req.URL.EscapedPath(), key)
	}
}

func TestBuildCanonicalRequest_SortsAndLowercases(t *testing.T) {
	t.Parallel()

	canonical, signed := BuildCanonicalRequest(http.MethodPut, "", map[string]string{
		"X-Amz-Date":   "20240115T120000Z",
		"Host":         "  bucket.s3.eu-west-1.amazonaws.com ",
		"Content-Type": "text/plain",
	}, HashedEmptyPayload)

	assert.Equal(t, "content-type;host;x-amz-date", signed)
	assert.Equal(t, "PUT\n/\n\n"+
		"content-type:text/plain\n"+
		"host:bucket.s3.eu-west-1.amazonaws.com\n"+
		"x-amz-date:20240115T120000Z\n"+
		"\n"+
		"content-type;host;x-amz-date\n"+
		HashedEmptyPayload, canonical)
}
