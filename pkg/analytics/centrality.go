// Package analytics computes centrality metrics, connected risk and
// suspicious-pattern findings over a normalized graph.
//
// Betweenness is an explicit approximation over a bounded node sample; do not
// replace it with an all-pairs computation.
package analytics

import (
	"github.com/DrSkyle/amlgraph/pkg/config"
	"github.com/DrSkyle/amlgraph/pkg/graph"
)

// DegreeCentrality returns degree/(n-1) per node index. Graphs with fewer
// than two nodes get all zeros.
func DegreeCentrality(g *graph.Graph) []float64 {
	n := g.NodeCount()
	res := make([]float64, n)
	if n < 2 {
		return res
	}
	for i, nb := range g.Adjacency() {
		res[i] = graph.Clamp(float64(len(nb))/float64(n-1), 0, 1)
	}
	return res
}

// SampledBetweenness approximates betweenness from the first
// min(sample, n) nodes. One shortest path is taken per sampled pair and a
// node's score is the fraction of pairs, not ending at the node, whose path
// passes through it. Cost is O(sample² · (n+m)).
func SampledBetweenness(g *graph.Graph, sample int) []float64 {
	n := g.NodeCount()
	res := make([]float64, n)
	if n < 3 || sample < 2 {
		return res
	}
	k := min(sample, n)

	hits := make([]int, n)
	pairs := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			pairs++
			path := g.ShortestPath(i, j)
			if len(path) < 3 {
				continue
			}
			for _, v := range path[1 : len(path)-1] {
				hits[v]++
			}
		}
	}

	for v := range res {
		denom := pairs
		if v < k {
			// Pairs with v as an endpoint cannot pass through it.
			denom -= k - 1
		}
		if denom <= 0 {
			continue
		}
		res[v] = graph.Clamp(float64(hits[v])/float64(denom), 0, 1)
	}
	return res
}

// Closeness is reachable/totalDistance from each node over unit-weight
// edges, 0 when nothing is reachable.
func Closeness(g *graph.Graph) []float64 {
	n := g.NodeCount()
	res := make([]float64, n)
	if n < 2 {
		return res
	}
	for i := range res {
		reachable, total := 0, 0
		for j, d := range g.Distances(i) {
			if j == i || d <= 0 {
				continue
			}
			reachable++
			total += d
		}
		if total > 0 {
			res[i] = graph.Clamp(float64(reachable)/float64(total), 0, 1)
		}
	}
	return res
}

// ConnectedRisk blends a node's own risk with the average and maximum risk
// of its neighbors. Isolated nodes keep their own score.
func ConnectedRisk(g *graph.Graph, w config.ConnectedRiskWeights) []float64 {
	res := make([]float64, g.NodeCount())
	adj := g.Adjacency()
	for i, node := range g.Nodes {
		own := node.RiskScore
		if len(adj[i]) == 0 {
			res[i] = own
			continue
		}
		var sum, peak float64
		for _, nb := range adj[i] {
			r := g.Nodes[nb].RiskScore
			sum += r
			peak = max(peak, r)
		}
		avg := sum / float64(len(adj[i]))
		res[i] = graph.Clamp(w.Own*own+w.AvgNeighbor*avg+w.MaxNeighbor*peak, 0, 100)
	}
	return res
}
