// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"encoding/json"
	"io"

	"github.com/LeeDigitalWorks/resumestore/pkg/resume"

	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Create the resume folders of a user",
	Long: `Creates users/<key>/, users/<key>/original_resume/ and
users/<key>/enhanced_resume/ in the bucket. Running it again is harmless.`,
	RunE: runFolders,
}

func init() {
	addStoreFlags(foldersCmd)
	addPrincipalFlags(foldersCmd)
	foldersCmd.Flags().Bool("concurrent", false, "Create the three folder markers in parallel")
	rootCmd.AddCommand(foldersCmd)
}

func runFolders(cmd *cobra.Command, args []string) error {
	f := NewFlagLoader(cmd)

	opts, err := loadStoreOpts(f)
	if err != nil {
		return err
	}
	userKey, err := loadUserKey(f)
	if err != nil {
		return err
	}

	var extra []resume.Option
	if f.Bool("concurrent") {
		extra = append(extra, resume.WithConcurrentProvisioning())
	}
	manager, client, err := newManager(opts, extra...)
	if err != nil {
		return err
	}
	defer client.Close()

	return provisionFolders(cmd.Context(), cmd.OutOrStdout(), manager, userKey)
}

func provisionFolders(ctx context.Context, out io.Writer, manager *resume.Manager, userKey string) error {
	folders, err := manager.ProvisionUserFolders(ctx, userKey)
	if err != nil {
		return err
	}
	return printJSON(out, folders)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
