// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeeDigitalWorks/resumestore/pkg/resume"
	"github.com/LeeDigitalWorks/resumestore/pkg/utils"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a user's resume",
	Long: `Uploads a file as users/<key>/original_resume/resume.<ext>, replacing any
previous resume, and prints where it and its enhanced variant live.`,
	RunE: runUpload,
}

func init() {
	addStoreFlags(uploadCmd)
	addPrincipalFlags(uploadCmd)
	uploadCmd.Flags().String("file", "", "Path of the resume to upload")
	uploadCmd.Flags().String("content_type", "", "Content type of the resume (default from the file extension; application/octet-stream when unknown)")
	rootCmd.AddCommand(uploadCmd)
}

// UploadOpts describes one upload from the command line.
type UploadOpts struct {
	UserKey     string
	Path        string
	ContentType string
}

func runUpload(cmd *cobra.Command, args []string) error {
	f := NewFlagLoader(cmd)

	opts, err := loadStoreOpts(f)
	if err != nil {
		return err
	}
	userKey, err := loadUserKey(f)
	if err != nil {
		return err
	}
	path := f.String("file")
	if path == "" {
		return fmt.Errorf("--file is required")
	}

	manager, client, err := newManager(opts)
	if err != nil {
		return err
	}
	defer client.Close()

	return uploadResume(cmd.Context(), cmd.OutOrStdout(), manager, UploadOpts{
		UserKey:     userKey,
		Path:        path,
		ContentType: f.String("content_type"),
	})
}

func uploadResume(ctx context.Context, out io.Writer, manager *resume.Manager, opts UploadOpts) error {
	path := utils.ResolvePath(opts.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	ext := resume.FileExtension(filepath.Base(path))
	contentType := opts.ContentType
	if contentType == "" {
		contentType = contentTypeFor(ext)
	}

	rec, err := manager.UploadResume(ctx, opts.UserKey, data, ext, contentType)
	if err != nil {
		return err
	}
	return printJSON(out, rec)
}

var resumeContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"odt":  "application/vnd.oasis.opendocument.text",
	"rtf":  "application/rtf",
	"txt":  "text/plain; charset=utf-8",
}

// contentTypeFor maps a file extension to a content type. Common resume
// formats do not depend on the host's MIME tables. An extension nobody knows
// becomes application/octet-stream so it is never stored as a PDF.
func contentTypeFor(ext string) string {
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(ext)
	if ct, ok := resumeContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
