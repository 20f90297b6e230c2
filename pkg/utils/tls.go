// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"crypto/tls"
	"errors"
	"fmt"
)

// LoadServerTLSConfig loads the certificate pair for an HTTPS listener.
// It returns nil when both paths are empty (plain HTTP).
func LoadServerTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	if certFile == "" && keyFile == "" {
		return nil, nil
	}
	if certFile == "" || keyFile == "" {
		return nil, errors.New("both a TLS certificate and key are required")
	}

	cert, err := tls.LoadX509KeyPair(ResolvePath(certFile), ResolvePath(keyFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
