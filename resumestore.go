// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/LeeDigitalWorks/resumestore/cmd"

	"github.com/getsentry/sentry-go"
)

func main() {
	// DSN is read from SENTRY_DSN; without it the client is a no-op.
	err := sentry.Init(sentry.ClientOptions{
		Environment:      os.Getenv("ENV"),
		Release:          "resumestore@" + cmd.Version,
		SampleRate:       1.0,
		EnableTracing:    true,
		TracesSampleRate: 0.1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentry.Init: %v", err)
	}
	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	cmd.Execute()
}
