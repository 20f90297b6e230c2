// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"crypto/hmac"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/resumestore/pkg/s3api/s3consts"
	"github.com/LeeDigitalWorks/resumestore/pkg/utils"

	"github.com/minio/sha256-simd"
)

// AWS Signature Version 4 implementation following:
// https://docs.aws.amazon.com/general/latest/gr/signature-version-4.html

// Request describes the parts of an outgoing request that are signed.
type Request struct {
	Method string
	Host   string
	// Path is the encoded canonical URI (see EncodePath), with leading slash.
	Path string
	// ContentType is signed and sent only when non-empty.
	ContentType string
	// PayloadHash is the hex SHA-256 of the body. Empty means an empty body.
	PayloadHash string
}

// Result carries everything produced while signing one request. It is only
// valid for the timestamp it was computed at and must not be reused.
type Result struct {
	AmzDate          string
	PayloadHash      string
	SignedHeaders    string
	Signature        string
	Authorization    string
	CanonicalRequest string
	StringToSign     string
}

// Signer produces SigV4 Authorization headers for a single access key.
// It holds no per-request state and is safe for concurrent use.
type Signer struct {
	accessKeyID     string
	secretAccessKey string
	region          string
	service         string
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithService overrides the credential scope service (default "s3").
func WithService(service string) SignerOption {
	return func(s *Signer) {
		s.service = service
	}
}

// NewSigner creates a signer for the given credentials and region.
func NewSigner(accessKeyID, secretAccessKey, region string, opts ...SignerOption) *Signer {
	s := &Signer{
		accessKeyID:     accessKeyID,
		secretAccessKey: secretAccessKey,
		region:          region,
		service:         s3consts.ServiceS3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PayloadHash returns the hex SHA-256 of body. An empty body always yields
// HashedEmptyPayload without hashing anything.
func PayloadHash(body []byte) string {
	if len(body) == 0 {
		return HashedEmptyPayload
	}
	return utils.Sha256Hex(body)
}

// Sign computes the signature for req at time t.
func (s *Signer) Sign(req Request, t time.Time) Result {
	amzDate := t.UTC().Format(Iso8601BasicFormat)
	dateStamp := amzDate[:len(Iso8601DateFormat)]

	payloadHash := req.PayloadHash
	if payloadHash == "" {
		payloadHash = HashedEmptyPayload
	}

	headers := map[string]string{
		s3consts.Host:              req.Host,
		s3consts.XAmzContentSHA256: payloadHash,
		s3consts.XAmzDate:          amzDate,
	}
	if req.ContentType != "" {
		headers[s3consts.ContentType] = req.ContentType
	}

	canonicalReq, signedHeaders := BuildCanonicalRequest(req.Method, req.Path, headers, payloadHash)

	scope := CredentialScope(dateStamp, s.region, s.service)
	stringToSign := buildStringToSign(amzDate, scope, canonicalReq)

	signingKey := DeriveSigningKey(s.secretAccessKey, dateStamp, s.region, s.service)
	sig := calculateSignature(signingKey, stringToSign)

	return Result{
		AmzDate:          amzDate,
		PayloadHash:      payloadHash,
		SignedHeaders:    signedHeaders,
		Signature:        sig,
		Authorization:    buildAuthorization(s.accessKeyID, scope, signedHeaders, sig),
		CanonicalRequest: canonicalReq,
		StringToSign:     stringToSign,
	}
}

// SignHTTP signs an outgoing request in place. The canonical URI is the
// request's escaped path and the signed host is r.Host (falling back to
// r.URL.Host). Content-Type is signed when the request carries one.
func (s *Signer) SignHTTP(r *http.Request, payloadHash string, t time.Time) Result {
	host := r.Host
	if host == "" {
		host = r.URL.Host
		r.Host = host
	}

	res := s.Sign(Request{
		Method:      r.Method,
		Host:        host,
		Path:        r.URL.EscapedPath(),
		ContentType: r.Header.Get("Content-Type"),
		PayloadHash: payloadHash,
	}, t)

	r.Header.Set(s3consts.XAmzDate, res.AmzDate)
	r.Header.Set(s3consts.XAmzContentSHA256, res.PayloadHash)
	r.Header.Set(s3consts.Authorization, res.Authorization)
	return res
}

// CredentialScope returns date/region/service/aws4_request.
func CredentialScope(dateStamp, region, service string) string {
	return strings.Join([]string{dateStamp, region, service, scopeTerminator}, "/")
}

// buildStringToSign creates the string to sign per AWS spec
func buildStringToSign(amzDate, scope, canonicalRequest string) string {
	h := utils.Sha256PoolGetHasher()
	h.Write([]byte(canonicalRequest))
	hashedRequest := hex.EncodeToString(h.Sum(nil))
	utils.Sha256PoolPutHasher(h)

	// String to sign format:
	// Algorithm + "\n" +
	// RequestDateTime + "\n" +
	// CredentialScope + "\n" +
	// HashedCanonicalRequest
	return strings.Join([]string{
		AuthHeaderV4,
		amzDate,
		scope,
		hashedRequest,
	}, "\n")
}

func buildAuthorization(accessKeyID, scope, signedHeaders, sig string) string {
	return AuthHeaderV4 + " " +
		"Credential=" + accessKeyID + "/" + scope + ", " +
		"SignedHeaders=" + signedHeaders + ", " +
		"Signature=" + sig
}

// DeriveSigningKey derives the day-scoped signing key using the HMAC-SHA256 chain.
// Each step keys on the raw bytes of the previous one.
func DeriveSigningKey(secretKey, dateStamp, region, service string) []byte {
	// kSecret = "AWS4" + SecretKey
	// kDate = HMAC("AWS4" + SecretKey, Date)
	// kRegion = HMAC(kDate, Region)
	// kService = HMAC(kRegion, Service)
	// kSigning = HMAC(kService, "aws4_request")
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte(scopeTerminator))
}

// calculateSignature computes the final signature
func calculateSignature(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))
}

// hmacSHA256 computes HMAC-SHA256
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
