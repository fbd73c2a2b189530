package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/orca-ide/outparse/dispatch"
	"github.com/orca-ide/outparse/task"
	"github.com/orca-ide/outparse/tools"
	"github.com/orca-ide/outparse/tools/custom"
	"github.com/orca-ide/outparse/tools/parser"
)

const (
	// SECURITY: Maximum request body size to prevent memory exhaustion DoS.
	// 10MB is sufficient for typical build logs while preventing abuse.
	maxBodySize = 10 * 1024 * 1024

	// SECURITY: Maximum log string length within the JSON to prevent memory exhaustion.
	// This is separate from body size since JSON encoding overhead exists.
	maxLogsLength = 8 * 1024 * 1024
)

// ParseRequest is the request body for POST /parse. Stdout and Stderr
// carry the two output streams; either may be empty. Toolchain
// defaults to "gcc".
type ParseRequest struct {
	Stdout         string            `json:"stdout,omitempty"`
	Stderr         string            `json:"stderr,omitempty"`
	Toolchain      string            `json:"toolchain"`
	CustomParsers  []custom.Settings `json:"customParsers,omitempty"`
	SearchDirs     []string          `json:"searchDirs,omitempty"`
	DemoteErrors   bool              `json:"demoteErrors,omitempty"`
	StdoutIsStderr bool              `json:"stdoutIsStderr,omitempty"`
}

// ParseResponse is the response body for POST /parse.
type ParseResponse struct {
	Tasks       []task.Task `json:"tasks"`
	Stats       task.Stats  `json:"stats"`
	FatalErrors bool        `json:"fatalErrors"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status     string   `json:"status"`
	Toolchains []string `json:"toolchains"`
	Version    string   `json:"version"`
}

// ErrorResponse is the response body for error cases.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds shared state for HTTP handlers.
type Handler struct {
	version string
	logger  *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{version: version, logger: logger}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// SecurityHeadersMiddleware adds security headers to all responses.
// SECURITY: These headers protect against common web vulnerabilities.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// SECURITY: Prevent MIME type sniffing attacks.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		// SECURITY: Prevent clickjacking attacks.
		w.Header().Set("X-Frame-Options", "DENY")
		// SECURITY: Legacy XSS protection for older browsers.
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		// SECURITY: Disable caching for API responses to prevent sensitive data leakage.
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware returns middleware that logs request details.
func (h *Handler) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		h.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", wrapped.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)
	})
}

// HandleHealth handles GET /health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	tcs := tools.Toolchains()
	names := make([]string, len(tcs))
	for i, tc := range tcs {
		names[i] = string(tc)
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Toolchains: names,
		Version:    h.version,
	})
}

// HandleParse handles POST /parse requests.
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	// SECURITY: Validate Content-Type to prevent content-type confusion attacks.
	// Accept missing Content-Type for curl convenience, but reject non-JSON types.
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, ErrorResponse{Error: "Content-Type must be application/json"})
		return
	}

	defer func() { _ = r.Body.Close() }()

	// SECURITY: Limit body size to prevent memory exhaustion DoS.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == maxBodySize {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
		return
	}

	var req ParseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		// SECURITY: Don't expose parsing details that could reveal internal structure.
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON"})
		return
	}

	if req.Stdout == "" && req.Stderr == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "stdout or stderr is required"})
		return
	}
	if len(req.Stdout)+len(req.Stderr) > maxLogsLength {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "logs too large"})
		return
	}

	for i := range req.CustomParsers {
		if err := req.CustomParsers[i].Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}

	tc := tools.Toolchain(req.Toolchain)
	if req.Toolchain == "" {
		tc = tools.Gcc
	}
	suite, err := tools.SuiteFor(tc, req.CustomParsers)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var tasks []task.Task
	d := dispatch.New(suite...)
	d.SetTaskSink(func(s parser.Scheduled) { tasks = append(tasks, s.Task) })
	d.SetForwardStdOutToStdErr(req.StdoutIsStderr)
	d.SetDemoteErrorsToWarnings(req.DemoteErrors)
	for _, dir := range req.SearchDirs {
		d.AddSearchDir(dir)
	}

	d.Append(req.Stdout, parser.StdOut)
	d.Append(req.Stderr, parser.StdErr)
	d.EndOfOutput()

	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, ParseResponse{
		Tasks:       tasks,
		Stats:       task.CountByType(tasks),
		FatalErrors: d.HasFatalErrors(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
