// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/LeeDigitalWorks/resumestore/pkg/logger"
	"github.com/LeeDigitalWorks/resumestore/pkg/resume"
	"github.com/LeeDigitalWorks/resumestore/pkg/s3client"
	"github.com/LeeDigitalWorks/resumestore/pkg/utils"

	"github.com/spf13/cobra"
)

const (
	keyMaxUploadSize      = "max_upload_size"
	keyProfileUUID        = "profile_uuid"
	keyAccountID          = "account_id"
	defaultMaxUploadSize  = "20MB"
	defaultStorageTimeout = "30s"
)

// StoreOpts is the storage configuration shared by every command that
// talks to the bucket.
type StoreOpts struct {
	S3            s3client.Config
	MaxUploadSize int64
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String(s3client.KeyBucket, "", "S3 bucket holding the resumes (or set AWS_S3_BUCKET_NAME)")
	cmd.Flags().String(s3client.KeyRegion, "", "AWS region of the bucket (or set AWS_REGION)")
	cmd.Flags().String(s3client.KeyAccessKeyID, "", "AWS access key id (or set AWS_ACCESS_KEY_ID)")
	cmd.Flags().String(s3client.KeySecretAccessKey, "", "AWS secret access key (or set AWS_SECRET_ACCESS_KEY)")
	cmd.Flags().String(s3client.KeyEndpoint, "", "Override the address connections are made to, e.g. http://127.0.0.1:9000")
	cmd.Flags().Duration(s3client.KeyTimeout, 0, "Timeout of each storage request (default "+defaultStorageTimeout+")")
	cmd.Flags().String(keyMaxUploadSize, defaultMaxUploadSize, "Largest accepted resume, e.g. 20MB; 0 disables the limit")
}

func addPrincipalFlags(cmd *cobra.Command) {
	cmd.Flags().String(keyProfileUUID, "", "Profile UUID of the user")
	cmd.Flags().String(keyAccountID, "", "Account id of the user, used when the profile has no UUID")
}

func loadStoreOpts(f *FlagLoader) (StoreOpts, error) {
	opts := StoreOpts{S3: s3client.ConfigFromViper(f.Viper())}

	raw := f.String(keyMaxUploadSize)
	if raw == "" {
		raw = defaultMaxUploadSize
	}
	size, err := utils.ParseSizeLimit(raw)
	if err != nil {
		return StoreOpts{}, fmt.Errorf("%s: %w", keyMaxUploadSize, err)
	}
	opts.MaxUploadSize = size

	if err := opts.S3.Validate(); err != nil {
		return StoreOpts{}, err
	}
	return opts, nil
}

func loadUserKey(f *FlagLoader) (string, error) {
	key := resume.UserKey(f.String(keyProfileUUID), f.String(keyAccountID))
	if key == "" {
		return "", fmt.Errorf("one of --%s or --%s is required", keyProfileUUID, keyAccountID)
	}
	return key, nil
}

// newManager builds the storage client and the resume manager on top of it.
// Callers close the returned client.
func newManager(opts StoreOpts, extra ...resume.Option) (*resume.Manager, *s3client.Client, error) {
	client, err := s3client.New(opts.S3)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug().
		Str("storage", opts.S3.String()).
		Str("max_upload_size", utils.HumanSize(opts.MaxUploadSize)).
		Msg("storage client ready")

	mopts := append([]resume.Option{resume.WithMaxSize(opts.MaxUploadSize)}, extra...)
	return resume.NewManager(client, mopts...), client, nil
}
