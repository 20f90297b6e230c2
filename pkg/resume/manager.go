// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package resume manages the per-user folder layout and the upload/replace
// lifecycle of resume documents on top of an object store.
package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LeeDigitalWorks/resumestore/pkg/logger"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

const (
	usersPrefix       = "users/"
	originalFolder    = "original_resume"
	enhancedFolder    = "enhanced_resume"
	resumeBaseName    = "resume"
	defaultResumeType = "application/pdf"

	// accountKeyLength is how much of the account id is used when a
	// profile has no UUID.
	accountKeyLength = 10
)

// ErrInvalidInput is wrapped by every error caused by bad caller input.
// Nothing has been sent to the store when it is returned.
var ErrInvalidInput = errors.New("invalid input")

// ObjectStore is the subset of the storage client the manager uses.
// *s3client.Client satisfies it.
type ObjectStore interface {
	CreateFolder(ctx context.Context, prefix string) (string, error)
	PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Folders are the marker keys created for one user.
type Folders struct {
	Main     string `json:"main"`
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
}

// Record describes a stored resume. The enhanced location is where an
// enhanced variant is expected to live; nothing checks that it exists.
type Record struct {
	OriginalURL string `json:"s3_url"`
	OriginalKey string `json:"s3_key"`
	EnhancedURL string `json:"enhanced_folder"`
	EnhancedKey string `json:"enhanced_key"`
}

// Manager provisions user folders and stores resumes.
type Manager struct {
	store      ObjectStore
	concurrent bool
	maxSize    int64
}

// Option configures a Manager.
type Option func(*Manager)

// WithConcurrentProvisioning creates the three folder markers in parallel.
func WithConcurrentProvisioning() Option {
	return func(m *Manager) {
		m.concurrent = true
	}
}

// WithMaxSize rejects uploads larger than n bytes. Zero disables the check.
func WithMaxSize(n int64) Option {
	return func(m *Manager) {
		m.maxSize = n
	}
}

// NewManager creates a manager backed by store.
func NewManager(store ObjectStore, opts ...Option) *Manager {
	m := &Manager{store: store}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FoldersFor returns the marker keys of userKey without creating them.
func FoldersFor(userKey string) Folders {
	main := usersPrefix + userKey + "/"
	return Folders{
		Main:     main,
		Original: main + originalFolder + "/",
		Enhanced: main + enhancedFolder + "/",
	}
}

// ProvisionUserFolders creates the user's root, original_resume and
// enhanced_resume markers. The first failure aborts and is returned; markers
// already created stay. Repeating the call is harmless.
func (m *Manager) ProvisionUserFolders(ctx context.Context, userKey string) (Folders, error) {
	if err := validateUserKey(userKey); err != nil {
		return Folders{}, err
	}

	folders := FoldersFor(userKey)
	keys := []string{folders.Main, folders.Original, folders.Enhanced}

	var err error
	if m.concurrent {
		err = m.createConcurrently(ctx, keys)
	} else {
		err = m.createSequentially(ctx, keys)
	}
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("user_key", userKey).Msg("failed to provision resume folders")
		return Folders{}, err
	}

	logger.Ctx(ctx).Info().Str("user_key", userKey).Msg("resume folders provisioned")
	return folders, nil
}

func (m *Manager) createSequentially(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if _, err := m.store.CreateFolder(ctx, key); err != nil {
			return fmt.Errorf("create folder %s: %w", key, err)
		}
	}
	return nil
}

func (m *Manager) createConcurrently(ctx context.Context, keys []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		g.Go(func() error {
			if _, err := m.store.CreateFolder(gctx, key); err != nil {
				return fmt.Errorf("create folder %s: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// UploadResume stores data as the user's original resume, replacing any
// previous one, and returns where it lives along with the predicted enhanced
// location. An empty contentType means application/pdf.
func (m *Manager) UploadResume(ctx context.Context, userKey string, data []byte, fileExt, contentType string) (*Record, error) {
	if err := validateUserKey(userKey); err != nil {
		return nil, err
	}
	fileExt = strings.TrimPrefix(fileExt, ".")
	if fileExt == "" || strings.Contains(fileExt, "/") {
		return nil, fmt.Errorf("%w: file extension %q", ErrInvalidInput, fileExt)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty resume", ErrInvalidInput)
	}
	if m.maxSize > 0 && int64(len(data)) > m.maxSize {
		return nil, fmt.Errorf("%w: resume is %s, limit is %s", ErrInvalidInput,
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(m.maxSize)))
	}
	if contentType == "" {
		contentType = defaultResumeType
	}

	key := FoldersFor(userKey).Original + resumeBaseName + "." + fileExt
	url, err := m.store.PutObject(ctx, key, data, contentType)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("user_key", userKey).Str("key", key).Msg("failed to upload resume")
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	rec := &Record{
		OriginalURL: url,
		OriginalKey: key,
		EnhancedURL: toEnhanced(url),
		EnhancedKey: toEnhanced(key),
	}

	logger.Ctx(ctx).Info().
		Str("user_key", userKey).
		Str("key", key).
		Str("size", humanize.IBytes(uint64(len(data)))).
		Msg("resume uploaded")
	return rec, nil
}

// toEnhanced swaps the last original_resume folder segment for
// enhanced_resume. User keys never contain '/', so the last segment is the
// folder one.
func toEnhanced(s string) string {
	const from, to = "/" + originalFolder + "/", "/" + enhancedFolder + "/"
	i := strings.LastIndex(s, from)
	if i < 0 {
		return s
	}
	return s[:i] + to + s[i+len(from):]
}

// UserKey picks the per-user namespace: the profile UUID when set, otherwise
// the first ten characters of the account id.
func UserKey(profileUUID, accountID string) string {
	if uuid := strings.TrimSpace(profileUUID); uuid != "" {
		return uuid
	}
	accountID = strings.TrimSpace(accountID)
	if len(accountID) > accountKeyLength {
		return accountID[:accountKeyLength]
	}
	return accountID
}

// FileExtension returns the text after the last '.' of filename, or "" when
// there is none.
func FileExtension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	ext := filename[i+1:]
	if strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}

func validateUserKey(userKey string) error {
	switch {
	case userKey == "", userKey == ".", userKey == "..":
		return fmt.Errorf("%w: user key %q", ErrInvalidInput, userKey)
	case strings.Contains(userKey, "/"):
		return fmt.Errorf("%w: user key %q contains '/'", ErrInvalidInput, userKey)
	}
	return nil
}
