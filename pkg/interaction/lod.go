package interaction

import (
	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// LabelModeFor maps a zoom level onto the label level of detail.
func LabelModeFor(zoom float64, cfg config.InteractionConfig) LabelMode {
	switch {
	case zoom < cfg.LowZoom:
		return LabelsNone
	case zoom < cfg.MidZoom:
		return LabelsCentral
	case zoom < cfg.HighZoom:
		return LabelsAll
	default:
		return LabelsDetailed
	}
}

// VisibleLabels lists the nodes whose labels render in mode.
func VisibleLabels(g *graph.Graph, mode LabelMode, cutoff float64) []string {
	if g == nil || mode == LabelsNone {
		return nil
	}
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if mode == LabelsCentral && n.Centrality <= cutoff {
			continue
		}
		ids = append(ids, n.ID)
	}
	return ids
}
