// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package s3client issues SigV4-signed PUT requests against an S3 bucket
// without a vendor SDK. It creates zero-byte folder markers and uploads
// whole objects; it never retries.
package s3client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/resumestore/pkg/logger"
	"github.com/LeeDigitalWorks/resumestore/pkg/s3api/s3err"
	"github.com/LeeDigitalWorks/resumestore/pkg/s3api/signature"
)

const (
	OpCreateFolder = "create_folder"
	OpPutObject    = "put_object"

	defaultContentType = "application/octet-stream"

	// Error bodies are small XML documents; anything larger is truncated.
	maxErrorBodySize = 64 << 10
)

// HTTPDoer is the subset of *http.Client the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one bucket. It keeps no per-request state and is safe for
// concurrent use.
type Client struct {
	cfg        Config
	signer     *signature.Signer
	httpClient HTTPDoer
	now        func() time.Time
	scheme     string
	dialHost   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithClock sets the clock used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New validates cfg and creates a client. A *ConfigurationError is returned
// before anything touches the network.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		cfg:      cfg,
		signer:   signature.NewSigner(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.Region),
		now:      time.Now,
		scheme:   "https",
		dialHost: cfg.Host(),
	}
	if cfg.Endpoint != "" {
		u, _ := url.Parse(cfg.Endpoint)
		c.scheme = u.Scheme
		c.dialHost = u.Host
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(cfg.Timeout)
	}

	return c, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 90 * time.Second

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// ObjectURL returns the canonical https URL of key.
func (c *Client) ObjectURL(key string) string {
	return "https://" + c.cfg.Host() + signature.EncodePath(key)
}

// CreateFolder creates the zero-byte marker object for prefix. "a/b" and
// "a/b/" address the same marker "a/b/". It returns the marker's URL.
func (c *Client) CreateFolder(ctx context.Context, prefix string) (string, error) {
	key := FolderKey(prefix)
	if err := validateKey(key); err != nil {
		return "", err
	}

	if err := c.put(ctx, OpCreateFolder, key, nil, ""); err != nil {
		return "", err
	}
	return c.ObjectURL(key), nil
}

// PutObject uploads body to key, replacing any existing object, and returns
// the object URL.
func (c *Client) PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if strings.HasSuffix(key, "/") {
		return "", fmt.Errorf("%w: %q is a folder key", ErrInvalidKey, key)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	if err := c.put(ctx, OpPutObject, key, body, contentType); err != nil {
		return "", err
	}
	uploadedBytesTotal.Add(float64(len(body)))
	return c.ObjectURL(key), nil
}

// Close releases idle connections of the default HTTP client.
func (c *Client) Close() error {
	if hc, ok := c.httpClient.(*http.Client); ok {
		hc.CloseIdleConnections()
	}
	return nil
}

// FolderKey normalizes prefix to end with exactly one trailing slash.
func FolderKey(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/"
}

func validateKey(key string) error {
	switch {
	case key == "" || key == "/":
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	case strings.HasPrefix(key, "/"):
		return fmt.Errorf("%w: %q has a leading slash", ErrInvalidKey, key)
	}
	return nil
}

// put signs and sends one PUT. The signature is computed right before the
// request is handed to the transport.
func (c *Client) put(ctx context.Context, op, key string, body []byte, contentType string) error {
	encodedPath := signature.EncodePath(key)
	u := &url.URL{
		Scheme:  c.scheme,
		Host:    c.dialHost,
		Path:    "/" + key,
		RawPath: encodedPath,
	}

	var reader io.Reader = http.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.String(), reader)
	if err != nil {
		return fmt.Errorf("s3client: build %s request: %w", op, err)
	}
	req.ContentLength = int64(len(body))
	req.Host = c.cfg.Host()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.signer.SignHTTP(req, signature.PayloadHash(body), c.now())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		logger.Ctx(ctx).Warn().Err(err).
			Str("op", op).
			Str("key", key).
			Dur("duration", elapsed).
			Msg("storage request failed")
		return &TransportError{Op: op, Key: key, Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	logger.Ctx(ctx).Debug().
		Str("op", op).
		Str("bucket", c.cfg.Bucket).
		Str("key", key).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", elapsed).
		Msg("storage request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	reqErr := &StorageRequestError{
		Op:         op,
		Key:        key,
		StatusCode: resp.StatusCode,
		Body:       string(raw),
	}
	if parsed, ok := s3err.ParseErrorResponse(raw); ok {
		reqErr.Code = parsed.Code
		reqErr.Message = parsed.Message
	}
	return reqErr
}
