package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// Engine runs registered detectors.
type Engine struct {
	detectors []Detector
}

// NewEngine initializes an engine with no detectors.
func NewEngine() *Engine {
	return &Engine{
		detectors: []Detector{},
	}
}

// Register appends a detector. Findings are reported in registration order.
func (e *Engine) Register(d Detector) {
	e.detectors = append(e.detectors, d)
}

// Detectors returns the registered detector names.
func (e *Engine) Detectors() []string {
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name()
	}
	return names
}

// Run executes every detector against a read-only graph, one after another
// in registration order. A failing detector does not discard the others'
// findings.
func (e *Engine) Run(ctx context.Context, g *graph.Graph) ([]Finding, error) {
	tracer := otel.Tracer("amlgraph/analytics")

	var all []Finding
	var errs []error
	for _, d := range e.detectors {
		found, err := runDetector(ctx, tracer, d, g)
		if err != nil {
			errs = append(errs, err)
		}
		all = append(all, found...)
	}
	return all, errors.Join(errs...)
}

func runDetector(ctx context.Context, tracer trace.Tracer, d Detector, g *graph.Graph) (found []Finding, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "Detector."+d.Name())
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = fmt.Errorf("%s panicked: %v", d.Name(), r)
			span.RecordError(err)
		}
	}()

	found, err = d.Detect(ctx, g)
	if err != nil {
		span.RecordError(err)
		err = fmt.Errorf("%s failed: %w", d.Name(), err)
	}

	span.SetAttributes(
		attribute.Int64("duration_ms", time.Since(start).Milliseconds()),
		attribute.String("detector", d.Name()),
		attribute.Int("findings", len(found)),
	)
	return found, err
}
