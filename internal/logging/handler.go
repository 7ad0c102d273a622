// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package logging provides structured logging with OpenTelemetry trace
// context for the case pipeline CLI and its embedded VM. Workflow runs
// attach a run_id and workflow name via slog.Logger.With before handing
// the logger to internal/workflow (see internal/vm.VM.ExecuteWorkflow).
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// Version is the case pipeline build version reported in every log
// record's "version" attribute. Overridden at build time via
// -ldflags "-X .../internal/logging.Version=...".
var Version = "dev"

// serviceName is fixed: unlike holomush's gateway/core process split,
// the case pipeline ships as one binary (cmd/casepipe), so there is
// exactly one service name to report.
const serviceName = "casepipe"

// traceHandler wraps a slog.Handler to add trace context.
type traceHandler struct {
	handler slog.Handler
	service string
	version string
}

// Handle adds trace context to the log record.
func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	// Add service and version
	r.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)

	// Extract trace context if present
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.handler.Handle(ctx, r)
}

// Enabled returns true if the level is enabled.
func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs returns a new handler with the given attributes.
func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{
		handler: h.handler.WithAttrs(attrs),
		service: h.service,
		version: h.version,
	}
}

// WithGroup returns a new handler with the given group.
func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{
		handler: h.handler.WithGroup(name),
		service: h.service,
		version: h.version,
	}
}

// Setup creates a configured slog.Logger at slog.LevelDebug.
// format: "json" or "text" (defaults to "json" if empty)
// If w is nil, writes to os.Stderr.
func Setup(service, version, format string, w io.Writer) *slog.Logger {
	return SetupLevel(service, version, format, slog.LevelDebug, w)
}

// SetupLevel is Setup with an explicit minimum level, letting a CLI's
// --verbose flag trade debug-level workflow tracing for quieter info-level
// output without touching the handler's trace/service/version wrapping.
func SetupLevel(service, version, format string, level slog.Level, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	var baseHandler slog.Handler
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if format == "text" {
		baseHandler = slog.NewTextHandler(w, opts)
	} else {
		baseHandler = slog.NewJSONHandler(w, opts)
	}

	handler := &traceHandler{
		handler: baseHandler,
		service: service,
		version: version,
	}

	return slog.New(handler)
}

// SetDefault sets up and configures the default logger.
func SetDefault(service, version, format string) {
	logger := Setup(service, version, format, nil)
	slog.SetDefault(logger)
}

// NewCLILogger builds a CLI logger: a single fixed service name and the
// build-time Version, writing to os.Stderr in the requested format, at
// debug level.
func NewCLILogger(format string) *slog.Logger {
	return Setup(serviceName, Version, format, nil)
}

// NewCLILoggerAt is NewCLILogger with an explicit level. cmd/casepipe's
// run command uses it, passing debug level when the config's Verbose
// flag is set and info level otherwise.
func NewCLILoggerAt(format string, level slog.Level) *slog.Logger {
	return SetupLevel(serviceName, Version, format, level, nil)
}

// SetCLIDefault installs NewCLILogger's logger as the slog default.
func SetCLIDefault(format string) {
	slog.SetDefault(NewCLILogger(format))
}
