// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys. With viper.AutomaticEnv they map to the upper-case
// environment variables of the same name (AWS_S3_BUCKET_NAME, ...).
const (
	KeyBucket          = "aws_s3_bucket_name"
	KeyRegion          = "aws_region"
	KeyAccessKeyID     = "aws_access_key_id"
	KeySecretAccessKey = "aws_secret_access_key"
	KeyEndpoint        = "s3_endpoint"
	KeyTimeout         = "s3_timeout"
)

const defaultTimeout = 30 * time.Second

// Config holds the credentials and target of the storage bucket.
// It is built once at startup and never modified afterwards.
type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string

	// Endpoint optionally overrides where connections are made, e.g.
	// "http://127.0.0.1:9000". The Host header, the signed host and the
	// returned object URLs stay virtual-hosted.
	Endpoint string

	// Timeout bounds each request when the default HTTP client is used.
	Timeout time.Duration
}

// ConfigFromViper reads Config from v (env, config file or bound flags).
func ConfigFromViper(v *viper.Viper) Config {
	return Config{
		Bucket:          strings.TrimSpace(v.GetString(KeyBucket)),
		Region:          strings.TrimSpace(v.GetString(KeyRegion)),
		AccessKeyID:     strings.TrimSpace(v.GetString(KeyAccessKeyID)),
		SecretAccessKey: v.GetString(KeySecretAccessKey),
		Endpoint:        strings.TrimSpace(v.GetString(KeyEndpoint)),
		Timeout:         v.GetDuration(KeyTimeout),
	}
}

// Validate reports every missing credential field in one ConfigurationError.
func (c Config) Validate() error {
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, KeyBucket)
	}
	if c.Region == "" {
		missing = append(missing, KeyRegion)
	}
	if c.AccessKeyID == "" {
		missing = append(missing, KeyAccessKeyID)
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, KeySecretAccessKey)
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	if err := ValidateBucketName(c.Bucket); err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("%s %q: %v", KeyBucket, c.Bucket, err)}
	}
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return &ConfigurationError{Reason: fmt.Sprintf("invalid %s %q", KeyEndpoint, c.Endpoint)}
		}
	}
	if c.Timeout < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("negative %s", KeyTimeout)}
	}
	return nil
}

// Host returns the virtual-hosted bucket host name.
func (c Config) Host() string {
	return c.Bucket + ".s3." + c.Region + ".amazonaws.com"
}

// String never includes the secret key.
func (c Config) String() string {
	akid := c.AccessKeyID
	if len(akid) > 4 {
		akid = akid[:4] + "****"
	}
	return fmt.Sprintf("bucket=%s region=%s access_key_id=%s endpoint=%s", c.Bucket, c.Region, akid, c.Endpoint)
}
