// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"errors"
	"net"
	"strings"
)

// Bucket names S3 reserves for its own features.
var (
	reservedBucketPrefixes = []string{"xn--", "sthree-", "amzn-s3-demo-"}
	reservedBucketSuffixes = []string{"-s3alias", "--ol-s3", ".mrap", "--x-s3", "--table-s3"}
)

// ValidateBucketName applies the S3 general purpose bucket naming rules. The
// name becomes part of the virtual host, so anything else would address a
// different host than intended.
func ValidateBucketName(name string) error {
	if len(name) < 3 || len(name) > 63 {
		return errors.New("bucket name must be 3 to 63 characters")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' && c != '.' {
			return errors.New("bucket name may only contain lowercase letters, digits, '-' and '.'")
		}
	}
	if first, last := name[0], name[len(name)-1]; first == '.' || first == '-' || last == '.' || last == '-' {
		return errors.New("bucket name must start and end with a letter or digit")
	}
	if strings.Contains(name, "..") {
		return errors.New("bucket name must not contain '..'")
	}
	if net.ParseIP(name) != nil {
		return errors.New("bucket name must not look like an IP address")
	}
	for _, p := range reservedBucketPrefixes {
		if strings.HasPrefix(name, p) {
			return errors.New("bucket name must not start with " + p)
		}
	}
	for _, s := range reservedBucketSuffixes {
		if strings.HasSuffix(name, s) {
			return errors.New("bucket name must not end with " + s)
		}
	}
	return nil
}
