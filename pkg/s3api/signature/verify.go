// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/resumestore/pkg/s3api/s3consts"
	"github.com/LeeDigitalWorks/resumestore/pkg/s3api/s3err"
)

// SecretLookup resolves the secret key for an access key id.
type SecretLookup func(accessKeyID string) (secret string, ok bool)

// V4Verifier checks SigV4 header authentication the way an S3 endpoint does.
// It backs the in-memory test server and lets the signer be checked against
// an independent parse of what actually went over the wire.
type V4Verifier struct {
	lookup  SecretLookup
	region  string
	maxSkew time.Duration
	now     func() time.Time
}

// VerifierOption configures a V4Verifier.
type VerifierOption func(*V4Verifier)

// WithVerifierClock sets the server clock used for the skew check.
func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *V4Verifier) {
		v.now = now
	}
}

// WithMaxSkew overrides the allowed clock skew (default 15 minutes).
func WithMaxSkew(d time.Duration) VerifierOption {
	return func(v *V4Verifier) {
		v.maxSkew = d
	}
}

// NewV4Verifier creates a new signature v4 verifier for one region.
func NewV4Verifier(lookup SecretLookup, region string, opts ...VerifierOption) *V4Verifier {
	v := &V4Verifier{
		lookup:  lookup,
		region:  region,
		maxSkew: s3consts.MaxClockSkew,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// authInfo contains parsed authentication information from request
type authInfo struct {
	accessKey       string
	date            string // YYYYMMDD format from credential scope
	timestamp       string // Full ISO8601 timestamp (YYYYMMDDTHHMMSSZ)
	region          string
	service         string
	signedHeaders   []string
	signature       string
	credentialScope string
}

// VerifyRequest verifies AWS Signature V4 for a request.
// Returns the access key id on success, or an error code.
func (v *V4Verifier) VerifyRequest(r *http.Request) (string, s3err.ErrorCode) {
	// 1. Extract authentication info from Authorization header
	auth, code := v.extractAuthInfo(r)
	if code != s3err.ErrNone {
		return "", code
	}

	// 2. Lookup credentials by access key
	secret, found := v.lookup(auth.accessKey)
	if !found {
		return "", s3err.ErrInvalidAccessKeyID
	}

	// 3. Reject stale or future-dated requests
	signTime, err := time.Parse(Iso8601BasicFormat, auth.timestamp)
	if err != nil {
		return "", s3err.ErrMalformedDate
	}
	skew := v.now().Sub(signTime)
	if skew < 0 {
		skew = -skew
	}
	if skew > v.maxSkew {
		return "", s3err.ErrRequestTimeTooSkewed
	}
	if !strings.HasPrefix(auth.timestamp, auth.date) || auth.region != v.region {
		return "", s3err.ErrAuthorizationHeaderMalformed
	}

	// 4. Build canonical request and string to sign
	canonicalReq := v.buildCanonicalRequest(r, auth.signedHeaders)
	stringToSign := buildStringToSign(auth.timestamp, auth.credentialScope, canonicalReq)

	// 5. Calculate expected signature
	signingKey := DeriveSigningKey(secret, auth.date, auth.region, auth.service)
	expectedSig := calculateSignature(signingKey, stringToSign)

	// 6. Compare signatures (constant time to prevent timing attacks)
	if !constantTimeCompare(auth.signature, expectedSig) {
		return "", s3err.ErrSignatureDoesNotMatch
	}

	return auth.accessKey, s3err.ErrNone
}

// extractAuthInfo parses "AWS4-HMAC-SHA256 Credential=..., SignedHeaders=..., Signature=..."
func (v *V4Verifier) extractAuthInfo(r *http.Request) (*authInfo, s3err.ErrorCode) {
	authHeader := r.Header.Get(s3consts.Authorization)
	if authHeader == "" {
		return nil, s3err.ErrAccessDenied
	}
	if !strings.HasPrefix(authHeader, AuthHeaderV4+" ") {
		return nil, s3err.ErrAuthorizationHeaderMalformed
	}

	parts := strings.Split(strings.TrimPrefix(authHeader, AuthHeaderV4+" "), ", ")
	auth := &authInfo{}

	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}

		switch kv[0] {
		case "Credential":
			// Format: accessKey/date/region/service/aws4_request
			credParts := strings.Split(kv[1], "/")
			if len(credParts) != 5 || credParts[4] != scopeTerminator {
				return nil, s3err.ErrAuthorizationHeaderMalformed
			}
			auth.accessKey = credParts[0]
			auth.date = credParts[1]
			auth.region = credParts[2]
			auth.service = credParts[3]
			auth.credentialScope = strings.Join(credParts[1:], "/")

		case "SignedHeaders":
			auth.signedHeaders = strings.Split(kv[1], ";")

		case "Signature":
			auth.signature = kv[1]
		}
	}

	if auth.accessKey == "" || auth.signature == "" || len(auth.signedHeaders) == 0 {
		return nil, s3err.ErrAuthorizationHeaderMalformed
	}

	auth.timestamp = r.Header.Get(s3consts.XAmzDate)
	if auth.timestamp == "" {
		return nil, s3err.ErrMissingDateHeader
	}

	return auth, s3err.ErrNone
}

// buildCanonicalRequest rebuilds the canonical request from the received request.
func (v *V4Verifier) buildCanonicalRequest(r *http.Request, signedHeaders []string) string {
	headers := make(map[string]string, len(signedHeaders))
	for _, h := range signedHeaders {
		h = strings.ToLower(strings.TrimSpace(h))

		// Host header is stored in r.Host, not r.Header
		if h == s3consts.Host {
			headers[h] = r.Host
			continue
		}

		vals := r.Header.Values(h)
		trimmed := make([]string, len(vals))
		for i, val := range vals {
			trimmed[i] = strings.TrimSpace(val)
		}
		headers[h] = strings.Join(trimmed, ",")
	}

	hashedPayload := r.Header.Get(s3consts.XAmzContentSHA256)
	if hashedPayload == "" {
		hashedPayload = HashedEmptyPayload
	}

	// Go's server decodes r.URL.Path; EscapedPath returns the path as the
	// client encoded it whenever that encoding is valid.
	canonical, _ := BuildCanonicalRequest(r.Method, r.URL.EscapedPath(), headers, hashedPayload)
	return canonical
}

// constantTimeCompare performs constant-time string comparison to prevent timing attacks
func constantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ParseAuthorization splits an Authorization header into its credential,
// signed headers and signature parts.
func ParseAuthorization(header string) (credential, signedHeaders, sig string, err error) {
	if !strings.HasPrefix(header, AuthHeaderV4+" ") {
		return "", "", "", fmt.Errorf("invalid authorization header")
	}
	for _, part := range strings.Split(strings.TrimPrefix(header, AuthHeaderV4+" "), ", ") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "Credential":
			credential = kv[1]
		case "SignedHeaders":
			signedHeaders = kv[1]
		case "Signature":
			sig = kv[1]
		}
	}
	if credential == "" || signedHeaders == "" || sig == "" {
		return "", "", "", fmt.Errorf("missing required auth fields")
	}
	return credential, signedHeaders, sig, nil
}
