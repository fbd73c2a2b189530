// Command parserd serves the build-output parsing engine over HTTP:
// POST /parse runs a toolchain's parser suite over captured stdout and
// stderr and returns the extracted tasks.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// version is the service version reported by /health. Overridable at
// build time with -ldflags "-X main.version=...".
var version = "1.0.0"

const (
	// SECURITY: ReadHeaderTimeout bounds how long a client may dribble
	// request headers, closing the slow-loris hole.
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownGrace     = 10 * time.Second
)

func newServer(addr string, h *Handler) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/parse", h.HandleParse)

	return &http.Server{
		Addr: addr,
		// Security headers wrap everything, including log lines' status
		// capture.
		Handler:           SecurityHeadersMiddleware(h.LoggingMiddleware(mux)),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		// SECURITY: cap header size; parse payloads are limited separately
		// in HandleParse.
		MaxHeaderBytes: 1 << 20,
	}
}

func main() {
	addr := flag.String("addr", defaultAddr(), "listen address")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	server := newServer(*addr, NewHandler(version, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("parserd listening", "addr", *addr, "version", version)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
	}
	logger.Info("stopped")
}

func defaultAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}
