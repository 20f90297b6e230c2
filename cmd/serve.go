// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeeDigitalWorks/resumestore/pkg/debug"
	"github.com/LeeDigitalWorks/resumestore/pkg/logger"
	"github.com/LeeDigitalWorks/resumestore/pkg/resume"
	"github.com/LeeDigitalWorks/resumestore/pkg/resume/api"
	"github.com/LeeDigitalWorks/resumestore/pkg/utils"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 15 * time.Second

	readyCheckStorage = "storage_config"
	readyCheckTLS     = "tls_files"
)

// ServeOpts configures the API server.
type ServeOpts struct {
	Store                  StoreOpts
	BindHost               string
	HTTPPort               int
	DebugPort              int
	ConnTimeout            time.Duration
	ConcurrentProvisioning bool
	TLSCertFile            string
	TLSKeyFile             string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resume API",
	Long: `Serves POST /resume/folders and POST /resume/upload for the job board,
plus /metrics, /health and /ready on the debug port. The caller is expected to
be authenticated upstream and identified by X-Profile-Uuid / X-Account-Id.`,
	Run: runServe,
}

func init() {
	addStoreFlags(serveCmd)
	serveCmd.Flags().String("bind_host", "0.0.0.0", "Host to bind the servers to")
	serveCmd.Flags().Int("http_port", 8080, "Port of the resume API")
	serveCmd.Flags().Int("debug_port", 8081, "Port of the metrics and health endpoints")
	serveCmd.Flags().Duration("conn_timeout", 30*time.Second, "Idle timeout of client connections, scaled by bytes transferred")
	serveCmd.Flags().Bool("concurrent_provisioning", false, "Create folder markers in parallel")
	serveCmd.Flags().String("tls_cert_file", "", "Certificate of the resume API; serves HTTPS together with --tls_key_file")
	serveCmd.Flags().String("tls_key_file", "", "Private key of the resume API certificate")
	rootCmd.AddCommand(serveCmd)
}

func loadServeOpts(cmd *cobra.Command) ServeOpts {
	f := NewFlagLoader(cmd)

	store, err := loadStoreOpts(f)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid storage configuration")
	}

	opts := ServeOpts{
		Store:                  store,
		BindHost:               f.String("bind_host"),
		HTTPPort:               f.Int("http_port"),
		DebugPort:              f.Int("debug_port"),
		ConnTimeout:            f.Duration("conn_timeout"),
		ConcurrentProvisioning: f.Bool("concurrent_provisioning"),
		TLSCertFile:            f.String("tls_cert_file"),
		TLSKeyFile:             f.String("tls_key_file"),
	}
	// Flag defaults are not visible through viper
	if opts.BindHost == "" {
		opts.BindHost = "0.0.0.0"
	}
	if opts.HTTPPort == 0 {
		opts.HTTPPort = 8080
	}
	if opts.DebugPort == 0 {
		opts.DebugPort = 8081
	}
	if opts.ConnTimeout == 0 {
		opts.ConnTimeout = 30 * time.Second
	}
	return opts
}

func runServe(cmd *cobra.Command, args []string) {
	opts := loadServeOpts(cmd)

	debug.SetNotReady()

	var extra []resume.Option
	if opts.ConcurrentProvisioning {
		extra = append(extra, resume.WithConcurrentProvisioning())
	}
	manager, client, err := newManager(opts.Store, extra...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create storage client")
	}
	defer client.Close()

	tlsConfig, err := utils.LoadServerTLSConfig(opts.TLSCertFile, opts.TLSKeyFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load TLS credentials")
	}

	handler := api.NewHandler(manager, api.WithMaxUploadSize(opts.Store.MaxUploadSize))
	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true, WaitForDelivery: false})

	logger.Info().
		Str("bucket", opts.Store.S3.Bucket).
		Str("region", opts.Store.S3.Region).
		Str("max_upload_size", utils.HumanSize(opts.Store.MaxUploadSize)).
		Bool("concurrent_provisioning", opts.ConcurrentProvisioning).
		Msg("Resume API configuration")

	httpServer := startHTTPServer(sentryHandler.Handle(handler), opts.BindHost, opts.HTTPPort, opts.ConnTimeout, tlsConfig)
	debugServer := startHTTPServer(debug.NewMux(nil), opts.BindHost, opts.DebugPort, 0, nil)

	unregister := registerReadyChecks(opts)
	defer unregister()
	debug.SetReady()

	waitForShutdown()

	debug.SetNotReady()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("resume API did not shut down cleanly")
	}
	debugServer.Shutdown(ctx)
}

// registerReadyChecks adds the server's readiness checks to /ready and returns
// a func removing them.
func registerReadyChecks(opts ServeOpts) func() {
	debug.SetReadyCheck(readyCheckStorage, opts.Store.S3.Validate)
	if opts.TLSCertFile != "" {
		debug.SetReadyCheck(readyCheckTLS, func() error {
			for _, path := range []string{opts.TLSCertFile, opts.TLSKeyFile} {
				if _, err := os.Stat(path); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return func() {
		debug.SetReadyCheck(readyCheckStorage, nil)
		debug.SetReadyCheck(readyCheckTLS, nil)
	}
}

func startHTTPServer(handler http.Handler, ip string, port int, timeout time.Duration, tlsConfig *tls.Config) *http.Server {
	addr := utils.JoinHostPort(ip, port)
	listener, err := utils.NewListener(addr, timeout)
	if err != nil {
		logger.Fatal().Err(err).Str("http_addr", addr).Msg("failed to create HTTP listener")
	}
	if tlsConfig != nil {
		listener = tls.NewListener(listener, tlsConfig)
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("http_addr", addr).Bool("tls", tlsConfig != nil).Msg("Starting HTTP server")
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start HTTP server")
		}
	}()
	return httpServer
}

func waitForShutdown() {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	<-stopChan
}
