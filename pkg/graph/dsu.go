package graph

// UnionFind is a disjoint-set forest with path compression and union by rank.
type UnionFind struct {
	parent []int
	rank   []int
	sets   int
}

// NewUnionFind creates n singleton sets.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &UnionFind{parent: parent, rank: make([]int, n), sets: n}
}

// Find returns the set representative, or -1 for out-of-range input.
func (uf *UnionFind) Find(i int) int {
	if i < 0 || i >= len(uf.parent) {
		return -1
	}
	if uf.parent[i] != i {
		uf.parent[i] = uf.Find(uf.parent[i])
	}
	return uf.parent[i]
}

// Union merges the sets of i and j.
func (uf *UnionFind) Union(i, j int) {
	rootI, rootJ := uf.Find(i), uf.Find(j)
	if rootI == -1 || rootJ == -1 || rootI == rootJ {
		return
	}

	switch {
	case uf.rank[rootI] < uf.rank[rootJ]:
		uf.parent[rootI] = rootJ
	case uf.rank[rootI] > uf.rank[rootJ]:
		uf.parent[rootJ] = rootI
	default:
		uf.parent[rootJ] = rootI
		uf.rank[rootI]++
	}
	uf.sets--
}

// Connected reports whether i and j share a set.
func (uf *UnionFind) Connected(i, j int) bool {
	r := uf.Find(i)
	return r != -1 && r == uf.Find(j)
}

// Sets is the number of disjoint sets.
func (uf *UnionFind) Sets() int {
	return uf.sets
}

// Components counts weakly connected components.
func (g *Graph) Components() int {
	uf := NewUnionFind(len(g.Nodes))
	for i, nbs := range g.neighbors {
		for _, nb := range nbs {
			uf.Union(i, nb)
		}
	}
	return uf.Sets()
}
