// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package resume

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	mocks "github.com/LeeDigitalWorks/resumestore/mocks/resume"
	"github.com/LeeDigitalWorks/resumestore/pkg/s3api/s3err"
	"github.com/LeeDigitalWorks/resumestore/pkg/s3client"
	"github.com/LeeDigitalWorks/resumestore/pkg/s3client/s3test"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const bucketURL = "https://resumes.s3.us-east-1.amazonaws.com/"

func newStore(t *testing.T) (*s3client.Client, *s3test.Server) {
	t.Helper()

	srv := s3test.NewServer()
	t.Cleanup(srv.Close)

	client, err := s3client.New(s3client.Config{
		Bucket:          srv.Bucket,
		Region:          srv.Region,
		AccessKeyID:     srv.AccessKey,
		SecretAccessKey: srv.SecretKey,
		Endpoint:        srv.URL,
	}, s3client.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client, srv
}

func TestProvisionUserFolders(t *testing.T) {
	t.Parallel()

	for _, concurrent := range []bool{false, true} {
		name := "sequential"
		var opts []Option
		if concurrent {
			name = "concurrent"
			opts = append(opts, WithConcurrentProvisioning())
		}

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store, srv := newStore(t)
			m := NewManager(store, opts...)

			folders, err := m.ProvisionUserFolders(context.Background(), "U123")
			require.NoError(t, err)

			want := Folders{
				Main:     "users/U123/",
				Original: "users/U123/original_resume/",
				Enhanced: "users/U123/enhanced_resume/",
			}
			if diff := cmp.Diff(want, folders); diff != "" {
				t.Errorf("folders mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, []string{
				"users/U123/",
				"users/U123/enhanced_resume/",
				"users/U123/original_resume/",
			}, srv.Keys())

			for _, key := range srv.Keys() {
				obj, ok := srv.Object(key)
				require.True(t, ok)
				assert.Empty(t, obj.Body, key)
			}
		})
	}
}

func TestProvisionUserFolders_Repeatable(t *testing.T) {
	t.Parallel()

	store, srv := newStore(t)
	m := NewManager(store)
	ctx := context.Background()

	first, err := m.ProvisionUserFolders(ctx, "U123")
	require.NoError(t, err)
	second, err := m.ProvisionUserFolders(ctx, "U123")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, srv.Keys(), 3)
	obj, ok := srv.Object("users/U123/original_resume/")
	require.True(t, ok)
	assert.Equal(t, 2, obj.Puts)
}

func TestProvisionUserFolders_FirstFailureAborts(t *testing.T) {
	t.Parallel()

	store, srv := newStore(t)
	srv.FailKey("users/U1/original_resume/", s3err.ErrAccessDenied)
	m := NewManager(store)

	folders, err := m.ProvisionUserFolders(context.Background(), "U1")
	require.Error(t, err)
	assert.Equal(t, Folders{}, folders)

	var reqErr *s3client.StorageRequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
	assert.Equal(t, "AccessDenied", reqErr.Code)

	// The root marker stays, the enhanced one is never attempted
	assert.Equal(t, []string{"users/U1/"}, srv.Keys())
	for _, r := range srv.Requests() {
		assert.NotEqual(t, "users/U1/enhanced_resume/", r.Key)
	}

	srv.ClearFailures()
	_, err = m.ProvisionUserFolders(context.Background(), "U1")
	require.NoError(t, err)
	assert.Len(t, srv.Keys(), 3)
}

func TestProvisionUserFolders_ConcurrentFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	store := mocks.NewMockObjectStore(t)
	store.EXPECT().CreateFolder(mock.Anything, "users/U1/").Return(bucketURL+"users/U1/", nil).Maybe()
	store.EXPECT().CreateFolder(mock.Anything, "users/U1/original_resume/").Return("", boom).Once()
	store.EXPECT().CreateFolder(mock.Anything, "users/U1/enhanced_resume/").Return(bucketURL+"users/U1/enhanced_resume/", nil).Maybe()

	m := NewManager(store, WithConcurrentProvisioning())
	_, err := m.ProvisionUserFolders(context.Background(), "U1")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "users/U1/original_resume/")
}

func TestProvisionUserFolders_InvalidUserKey(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockObjectStore(t)
	m := NewManager(store)

	for _, key := range []string{"", ".", "..", "a/b", "/U1"} {
		_, err := m.ProvisionUserFolders(context.Background(), key)
		assert.ErrorIs(t, err, ErrInvalidInput, key)
	}
	store.AssertNotCalled(t, "CreateFolder", mock.Anything, mock.Anything)
}

func TestUploadResume(t *testing.T) {
	t.Parallel()

	store, srv := newStore(t)
	m := NewManager(store)

	data := []byte("%PDF-1.4 resume")
	rec, err := m.UploadResume(context.Background(), "U123", data, "pdf", "application/pdf")
	require.NoError(t, err)

	want := &Record{
		OriginalURL: bucketURL + "users/U123/original_resume/resume.pdf",
		OriginalKey: "users/U123/original_resume/resume.pdf",
		EnhancedURL: bucketURL + "users/U123/enhanced_resume/resume.pdf",
		EnhancedKey: "users/U123/enhanced_resume/resume.pdf",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	obj, ok := srv.Object("users/U123/original_resume/resume.pdf")
	require.True(t, ok)
	assert.Equal(t, data, obj.Body)
	assert.Equal(t, "application/pdf", obj.ContentType)

	// Only the upload itself hits the store
	assert.Len(t, srv.Requests(), 1)
}

func TestUploadResume_ReplacesPrevious(t *testing.T) {
	t.Parallel()

	store, srv := newStore(t)
	m := NewManager(store)
	ctx := context.Background()

	first, err := m.UploadResume(ctx, "U123", []byte("v1"), "pdf", "")
	require.NoError(t, err)
	second, err := m.UploadResume(ctx, "U123", []byte("v2 longer"), "pdf", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	obj, ok := srv.Object(second.OriginalKey)
	require.True(t, ok)
	assert.Equal(t, 2, obj.Puts)
	assert.Equal(t, []byte("v2 longer"), obj.Body)
	assert.Equal(t, "application/pdf", obj.ContentType)
}

func TestUploadResume_EnhancedDiffersOnlyInFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		userKey string
		ext     string
	}{
		{userKey: "U123", ext: "pdf"},
		{userKey: "original_resume", ext: "docx"},
		{userKey: "8f14e45f-ceea-467f-a0e6-1f8b4a3c2d10", ext: "PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.userKey, func(t *testing.T) {
			t.Parallel()

			store, _ := newStore(t)
			rec, err := NewManager(store).UploadResume(context.Background(), tt.userKey, []byte("x"), tt.ext, "")
			require.NoError(t, err)

			prefix := "users/" + tt.userKey + "/"
			assert.Equal(t, prefix+"original_resume/resume."+tt.ext, rec.OriginalKey)
			assert.Equal(t, prefix+"enhanced_resume/resume."+tt.ext, rec.EnhancedKey)
			assert.Equal(t, bucketURL+rec.EnhancedKey, rec.EnhancedURL)
			assert.Equal(t,
				strings.Replace(rec.OriginalURL, prefix+"original_resume/", prefix+"enhanced_resume/", 1),
				rec.EnhancedURL)
		})
	}
}

func TestUploadResume_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		userKey string
		data    []byte
		ext     string
	}{
		{name: "empty user key", userKey: "", data: []byte("x"), ext: "pdf"},
		{name: "user key with slash", userKey: "a/b", data: []byte("x"), ext: "pdf"},
		{name: "empty data", userKey: "U1", data: nil, ext: "pdf"},
		{name: "empty extension", userKey: "U1", data: []byte("x"), ext: ""},
		{name: "dot only extension", userKey: "U1", data: []byte("x"), ext: "."},
		{name: "extension with slash", userKey: "U1", data: []byte("x"), ext: "pdf/../x"},
		{name: "too large", userKey: "U1", data: make([]byte, 11), ext: "pdf"},
	}

	store := mocks.NewMockObjectStore(t)
	m := NewManager(store, WithMaxSize(10))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := m.UploadResume(context.Background(), tt.userKey, tt.data, tt.ext, "")
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, rec)
		})
	}
	store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadResume_AtSizeLimit(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockObjectStore(t)
	store.EXPECT().
		PutObject(mock.Anything, "users/U1/original_resume/resume.pdf", mock.Anything, "application/pdf").
		Return(bucketURL+"users/U1/original_resume/resume.pdf", nil).
		Once()

	_, err := NewManager(store, WithMaxSize(10)).UploadResume(context.Background(), "U1", make([]byte, 10), ".pdf", "")
	require.NoError(t, err)
}

func TestUploadResume_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	cause := &s3client.TransportError{Op: s3client.OpPutObject, Key: "k", Err: context.DeadlineExceeded}
	store := mocks.NewMockObjectStore(t)
	store.EXPECT().PutObject(mock.Anything, mock.Anything, mock.Anything, "text/plain").Return("", cause).Once()

	rec, err := NewManager(store).UploadResume(context.Background(), "U1", []byte("x"), "txt", "text/plain")
	assert.Nil(t, rec)

	var trErr *s3client.TransportError
	require.True(t, errors.As(err, &trErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestUploadResume_ConcurrentUsersDoNotInterfere(t *testing.T) {
	t.Parallel()

	store, srv := newStore(t)
	m := NewManager(store)

	users := []string{"U1", "U2", "U3", "U4", "U5"}
	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = m.UploadResume(context.Background(), u, []byte("resume of "+u), "pdf", "")
		}()
	}
	wg.Wait()

	for i, u := range users {
		require.NoError(t, errs[i], u)
		obj, ok := srv.Object("users/" + u + "/original_resume/resume.pdf")
		require.True(t, ok)
		assert.Equal(t, "resume of "+u, string(obj.Body))
	}
}

func TestUserKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uuid, account, want string
	}{
		{uuid: "8f14e45f-ceea-467f", account: "0123456789abcdef", want: "8f14e45f-ceea-467f"},
		{uuid: "", account: "0123456789abcdef", want: "0123456789"},
		{uuid: "  ", account: "abc", want: "abc"},
		{uuid: "", account: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserKey(tt.uuid, tt.account))
	}
}

func TestFileExtension(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"resume.pdf":       "pdf",
		"my.cv.final.docx": "docx",
		"README":           "",
		"trailing.":        "",
		".bashrc":          "bashrc",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileExtension(in), in)
	}
}
