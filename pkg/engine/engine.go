// Package engine orchestrates normalization, classification, analytics and
// layout selection for one payload, behind a panic-safe boundary.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/amlgraph/pkg/analytics"
	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/metrics"
	"github.com/DrSkyle/amlgraph/pkg/policy"
)

// ErrEmptyPayload marks a result that degraded to the empty graph. It is
// carried in Result.Reason and never returned as an error.
var ErrEmptyPayload = errors.New("payload degraded to empty graph")

// ErrPartialResult indicates the graph was built but some detectors failed.
var ErrPartialResult = errors.New("analytics completed with partial results")

// Pipeline is the runtime core.
type Pipeline struct {
	Logger *slog.Logger
	Tracer trace.Tracer

	config    config.Config
	metrics   *metrics.Collector
	detectors []analytics.Detector
	analyzer  *analytics.Analyzer
}

// Option defines a functional configuration override.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.Logger = l
		}
	}
}

// WithConfig sets thresholds, analytics constants and analyst rules.
func WithConfig(cfg config.Config) Option {
	return func(p *Pipeline) {
		p.config = cfg
	}
}

// WithMetrics records pipeline diagnostics on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithDetectors registers extra detectors after the built-in ones.
func WithDetectors(d ...analytics.Detector) Option {
	return func(p *Pipeline) {
		p.detectors = append(p.detectors, d...)
	}
}

// New initializes the Pipeline and compiles the configured analyst rules.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer: otel.Tracer("amlgraph/engine"),
		config: config.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	detectors := p.detectors
	if len(p.config.Rules) > 0 {
		rules, err := policy.NewCELEngine(p.Logger)
		if err != nil {
			return nil, err
		}
		if err := rules.Compile(p.config.Rules); err != nil {
			return nil, fmt.Errorf("invalid analyst rules: %w", err)
		}
		detectors = append([]analytics.Detector{policy.RuleDetector{Engine: rules}}, detectors...)
	}
	p.analyzer = analytics.NewAnalyzer(p.config.Analytics, detectors...)
	return p, nil
}

// Config returns the effective configuration.
func (p *Pipeline) Config() config.Config { return p.config }

// recoverPanic turns a panic into the empty result so the host view survives.
func (p *Pipeline) recoverPanic(ctx context.Context, res **Result, err *error) {
	if r := recover(); r != nil {
		_, span := p.Tracer.Start(ctx, "CriticalPanic")

		stack := debug.Stack()

		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "pipeline panic")
		span.SetAttributes(
			attribute.String("crash.stack", string(stack)),
			attribute.String("crash.reason", fmt.Sprintf("%v", r)),
		)
		span.End()

		p.Logger.Error("Pipeline panic", "error", r, "stack", string(stack))

		*res = emptyResult(fmt.Errorf("%w: panic: %v", ErrEmptyPayload, r))
		*err = nil
	}
}

// NewLogger builds the process logger: JSON or text on w, with credential-like
// keys redacted.
func NewLogger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redactSensitiveData}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// redactSensitiveData scrubs sensitive keys from logs.
func redactSensitiveData(groups []string, a slog.Attr) slog.Attr {
	sensitiveKeys := map[string]bool{
		"password": true, "access_key": true, "token": true,
		"secret": true, "api_key": true, "private_key": true, "auth_token": true,
		"session_token": true, "credential": true, "connection_string": true,
		"account_number": true, "iban": true, "ssn": true, "tax_id": true,
	}

	if sensitiveKeys[a.Key] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}
