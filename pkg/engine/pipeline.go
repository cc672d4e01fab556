package engine

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/DrSkyle/amlgraph/pkg/analytics"
	"github.com/DrSkyle/amlgraph/pkg/classify"
	"github.com/DrSkyle/amlgraph/pkg/graph"
	"github.com/DrSkyle/amlgraph/pkg/layout"
	"github.com/DrSkyle/amlgraph/pkg/render"
	"github.com/DrSkyle/amlgraph/pkg/source"
)

// Result is everything the rendering engine and host UI need for one load.
type Result struct {
	Graph    *graph.Graph
	Report   *analytics.Report
	Layout   layout.Decision
	Stats    layout.Stats
	Elements []render.Element
	// Reason explains an empty result; it wraps ErrEmptyPayload.
	Reason error
}

// Empty reports whether there is nothing to render.
func (r *Result) Empty() bool { return r == nil || r.Graph.IsEmpty() }

func emptyResult(reason error) *Result {
	g := graph.Empty()
	return &Result{
		Graph:    g,
		Report:   &analytics.Report{Nodes: map[string]*analytics.NodeMetrics{}},
		Layout:   layout.Decision{Name: layout.ForceDirected, Reason: "default"},
		Elements: []render.Element{},
		Reason:   reason,
	}
}

// Build runs the full pipeline on a decoded payload. Missing or malformed
// collections yield an empty result, never an error; the only error is
// ErrPartialResult when a detector failed.
func (p *Pipeline) Build(ctx context.Context, payload map[string]any, center string) (res *Result, err error) {
	ctx, span := p.Tracer.Start(ctx, "Pipeline.Build")
	defer span.End()

	defer p.recoverPanic(ctx, &res, &err)

	g := p.normalize(ctx, payload, center)
	p.classify(ctx, g)

	report, aerr := p.analyze(ctx, g)
	// Bridge and centrality tiers depend on the metrics just written.
	p.classify(ctx, g)

	decision, stats := p.selectLayout(ctx, g)

	res = &Result{
		Graph:    g,
		Report:   report,
		Layout:   decision,
		Stats:    stats,
		Elements: render.Elements(g),
	}
	if g.Diagnostics.NoData {
		res.Reason = fmt.Errorf("%w: missing node or edge collection", ErrEmptyPayload)
	}
	if aerr != nil {
		span.RecordError(aerr)
		p.Logger.Warn("Some detectors failed", "error", aerr)
		return res, fmt.Errorf("%w: %w", ErrPartialResult, aerr)
	}
	return res, nil
}

// BuildBytes decodes data and runs Build. Undecodable input degrades to the
// empty result.
func (p *Pipeline) BuildBytes(ctx context.Context, data []byte, format graph.Format, center string) (*Result, error) {
	payload, err := graph.DecodePayload(data, format)
	if err != nil {
		p.Logger.Warn("Payload could not be decoded", "format", string(format), "error", err)
		return emptyResult(fmt.Errorf("%w: %w", ErrEmptyPayload, err)), nil
	}
	return p.Build(ctx, payload, center)
}

// Load fetches uri from its blob store and builds it. Retrieval failures,
// including source.ErrNotFound, are returned.
func (p *Pipeline) Load(ctx context.Context, uri, center string, opts source.Options) (*Result, error) {
	ctx, span := p.Tracer.Start(ctx, "Pipeline.Fetch")
	data, format, err := source.Fetch(ctx, uri, opts)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	span.SetAttributes(attribute.Int("payload.bytes", len(data)))
	span.End()
	return p.BuildBytes(ctx, data, format, center)
}

func (p *Pipeline) normalize(ctx context.Context, payload map[string]any, center string) *graph.Graph {
	_, span := p.Tracer.Start(ctx, "Pipeline.Normalize")
	defer span.End()

	g := graph.NormalizeCentered(payload, center)
	d := g.Diagnostics
	span.SetAttributes(
		attribute.String("adapter", d.Adapter),
		attribute.Int("nodes", g.NodeCount()),
		attribute.Int("edges", g.EdgeCount()),
		attribute.Int("edges_dropped", d.DroppedEdges),
		attribute.Int("duplicate_nodes", d.DuplicateNodes),
	)
	if d.DroppedEdges > 0 || d.DuplicateNodes > 0 || d.MissingIDs > 0 {
		p.Logger.Debug("Normalization discarded input",
			"edges_dropped", d.DroppedEdges,
			"duplicate_nodes", d.DuplicateNodes,
			"missing_ids", d.MissingIDs,
		)
	}
	p.metrics.ObserveGraph(g.NodeCount(), d.DroppedEdges, d.DuplicateNodes)
	p.Logger.Info("Graph built", "adapter", d.Adapter, "stats", g.Stats(), "center", g.Center)
	return g
}

func (p *Pipeline) classify(ctx context.Context, g *graph.Graph) {
	_, span := p.Tracer.Start(ctx, "Pipeline.Classify")
	defer span.End()
	classify.Apply(g, p.config.Classification)
}

func (p *Pipeline) analyze(ctx context.Context, g *graph.Graph) (*analytics.Report, error) {
	ctx, span := p.Tracer.Start(ctx, "Pipeline.Analyze")
	defer span.End()

	report, err := p.analyzer.Analyze(ctx, g)
	p.metrics.ObserveAnalytics(report.Duration)
	for _, f := range report.Findings {
		p.metrics.ObserveFinding(string(f.Kind))
	}
	span.SetAttributes(
		attribute.Int("findings", len(report.Findings)),
		attribute.Int64("duration_us", report.Duration.Microseconds()),
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		span.RecordError(err)
	}
	return report, err
}

func (p *Pipeline) selectLayout(ctx context.Context, g *graph.Graph) (layout.Decision, layout.Stats) {
	_, span := p.Tracer.Start(ctx, "Pipeline.SelectLayout")
	defer span.End()

	decision, stats := layout.SelectFor(g, p.config.Layout)
	span.SetAttributes(
		attribute.String("layout", string(decision.Name)),
		attribute.Float64("density", stats.Density),
		attribute.Bool("hierarchy", stats.HasHierarchy),
	)
	p.metrics.ObserveLayout(string(decision.Name))
	p.Logger.Debug("Layout selected", "layout", string(decision.Name), "reason", decision.Reason)
	return decision, stats
}
