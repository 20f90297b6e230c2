// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBucketName(t *testing.T) {
	t.Parallel()

	valid := []string{
		"resumes",
		"job-board.resumes",
		"abc",
		"a1b2c3",
		strings.Repeat("r", 63),
	}
	for _, name := range valid {
		assert.NoError(t, ValidateBucketName(name), name)
	}

	invalid := []string{
		"ab",
		"Resumes",
		"resumes_prod",
		"-resumes",
		"resumes.",
		"job..board",
		"192.168.1.10",
		"xn--resumes",
		"sthree-resumes",
		"resumes-s3alias",
		"resumes--x-s3",
		"resumes/users",
		strings.Repeat("r", 64),
	}
	for _, name := range invalid {
		assert.Error(t, ValidateBucketName(name), name)
	}
}
