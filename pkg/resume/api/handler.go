// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package api exposes the resume lifecycle over HTTP for the web
// application: folder provisioning and resume upload.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	reqctx "github.com/LeeDigitalWorks/resumestore/pkg/context"
	"github.com/LeeDigitalWorks/resumestore/pkg/logger"
	"github.com/LeeDigitalWorks/resumestore/pkg/resume"
	"github.com/LeeDigitalWorks/resumestore/pkg/s3client"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

const (
	RouteFolders = "/resume/folders"
	RouteUpload  = "/resume/upload"

	// Principal headers set by the authenticating gateway.
	HeaderProfileUUID = "X-Profile-Uuid"
	HeaderAccountID   = "X-Account-Id"
	HeaderRequestID   = "X-Request-Id"

	formFileField = "file"

	// Room for multipart boundaries and headers on top of the file itself.
	multipartOverhead = 1 << 20
	maxMemory         = 32 << 20

	allowHeaders = "authorization, x-client-info, apikey, content-type"
)

// Service is the resume lifecycle the handler drives. *resume.Manager
// satisfies it.
type Service interface {
	ProvisionUserFolders(ctx context.Context, userKey string) (resume.Folders, error)
	UploadResume(ctx context.Context, userKey string, data []byte, fileExt, contentType string) (*resume.Record, error)
}

// PrincipalFunc returns the authenticated caller of r. ok is false when the
// request carries no principal.
type PrincipalFunc func(r *http.Request) (profileUUID, accountID string, ok bool)

// HeaderPrincipal reads the principal from X-Profile-Uuid and X-Account-Id.
func HeaderPrincipal(r *http.Request) (string, string, bool) {
	profileUUID := strings.TrimSpace(r.Header.Get(HeaderProfileUUID))
	accountID := strings.TrimSpace(r.Header.Get(HeaderAccountID))
	return profileUUID, accountID, profileUUID != "" || accountID != ""
}

// Handler serves the resume routes.
type Handler struct {
	svc           Service
	principal     PrincipalFunc
	maxUploadSize int64
	mux           *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithPrincipalFunc replaces HeaderPrincipal.
func WithPrincipalFunc(fn PrincipalFunc) Option {
	return func(h *Handler) {
		h.principal = fn
	}
}

// WithMaxUploadSize bounds the request body of uploads. Zero means no bound.
func WithMaxUploadSize(n int64) Option {
	return func(h *Handler) {
		h.maxUploadSize = n
	}
}

// NewHandler creates a handler for svc.
func NewHandler(svc Service, opts ...Option) *Handler {
	h := &Handler{
		svc:       svc,
		principal: HeaderPrincipal,
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.Handle("POST "+RouteFolders, h.instrument("folders", h.handleFolders))
	h.mux.Handle("POST "+RouteUpload, h.instrument("upload", h.handleUpload))
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", allowHeaders)

	ctx := r.Context()
	if id := r.Header.Get(HeaderRequestID); id != "" {
		ctx = reqctx.WithRequestID(ctx, id)
	}
	ctx, requestID := reqctx.EnsureRequestID(ctx)
	w.Header().Set(HeaderRequestID, requestID)

	log := logger.Ctx(ctx).With().Str("request_id", requestID).Logger()
	r = r.WithContext(logger.WithLogger(ctx, &log))

	if r.Method == http.MethodOptions {
		apiRequestsTotal.WithLabelValues("preflight", "200").Inc()
		w.WriteHeader(http.StatusOK)
		return
	}
	h.mux.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) instrument(route string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		fn(rec, r)
		apiRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		apiRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

type foldersResponse struct {
	Success bool           `json:"success"`
	Folders resume.Folders `json:"folders"`
}

type uploadResponse struct {
	Success        bool   `json:"success"`
	S3URL          string `json:"s3_url"`
	S3Key          string `json:"s3_key"`
	EnhancedFolder string `json:"enhanced_folder"`
}

func (h *Handler) handleFolders(w http.ResponseWriter, r *http.Request) {
	userKey, ok := h.userKey(r)
	if !ok {
		writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	folders, err := h.svc.ProvisionUserFolders(r.Context(), userKey)
	if err != nil {
		h.writeServiceError(w, r, "folders", err)
		return
	}

	writeJSON(w, foldersResponse{Success: true, Folders: folders}, http.StatusOK)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	userKey, ok := h.userKey(r)
	if !ok {
		writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formFileField)
	if err != nil {
		writeJSONError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.UploadResume(r.Context(), userKey, data,
		resume.FileExtension(header.Filename), header.Header.Get("Content-Type"))
	if err != nil {
		h.writeServiceError(w, r, "upload", err)
		return
	}

	writeJSON(w, uploadResponse{
		Success:        true,
		S3URL:          rec.OriginalURL,
		S3Key:          rec.OriginalKey,
		EnhancedFolder: rec.EnhancedURL,
	}, http.StatusOK)
}

func (h *Handler) userKey(r *http.Request) (string, bool) {
	profileUUID, accountID, ok := h.principal(r)
	if !ok {
		return "", false
	}
	key := resume.UserKey(profileUUID, accountID)
	return key, key != ""
}

// StatusFor maps a service error to the HTTP status returned to callers.
func StatusFor(err error) int {
	var (
		cfgErr    *s3client.ConfigurationError
		reqErr    *s3client.StorageRequestError
		transport *s3client.TransportError
	)
	switch {
	case errors.Is(err, resume.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.As(err, &reqErr):
		return http.StatusBadGateway
	case errors.As(err, &transport):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, route string, err error) {
	status := StatusFor(err)

	var event *zerolog.Event
	if status >= http.StatusInternalServerError {
		event = logger.Ctx(r.Context()).Error()
		reportFault(r, route, err)
	} else {
		event = logger.Ctx(r.Context()).Warn()
	}
	event.Err(err).Str("route", route).Int("status", status).Msg("resume request failed")

	writeJSONError(w, err.Error(), status)
}

func reportFault(r *http.Request, route string, err error) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("route", route)
		scope.SetRequest(r)
		hub.CaptureException(err)
	})
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, map[string]string{"error": message}, status)
}
