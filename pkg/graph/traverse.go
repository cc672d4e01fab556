package graph

// IndexOf returns the dense index of id, or -1.
func (g *Graph) IndexOf(id string) int {
	idx, ok := g.idMap[id]
	if !ok {
		return -1
	}
	return idx
}

// Adjacency exposes the undirected distinct-neighbor lists by node index.
// Callers must not modify the returned slices.
func (g *Graph) Adjacency() [][]int {
	return g.neighbors
}

// SuccessorIndexes returns the distinct outgoing neighbor indexes of node i.
func (g *Graph) SuccessorIndexes(i int) []int {
	if i < 0 || i >= len(g.out) {
		return nil
	}
	var res []int
	seen := make(map[int]bool, len(g.out[i]))
	for _, e := range g.out[i] {
		t := g.idMap[g.Edges[e].Target]
		if !seen[t] {
			seen[t] = true
			res = append(res, t)
		}
	}
	return res
}

// Neighborhood returns id and every node within depth hops, in BFS order.
// Direction is ignored. Unknown ids yield nil.
func (g *Graph) Neighborhood(id string, depth int) []string {
	start, ok := g.idMap[id]
	if !ok {
		return nil
	}

	visited := map[int]bool{start: true}
	frontier := []int{start}
	result := []string{id}

	for level := 0; level < depth && len(frontier) > 0; level++ {
		var next []int
		for _, cur := range frontier {
			for _, nb := range g.neighbors[cur] {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				next = append(next, nb)
				result = append(result, g.Nodes[nb].ID)
			}
		}
		frontier = next
	}
	return result
}

// EdgesWithin returns the ids of edges whose endpoints are both in ids.
func (g *Graph) EdgesWithin(ids []string) []string {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var res []string
	for _, e := range g.Edges {
		if set[e.Source] && set[e.Target] {
			res = append(res, e.ID)
		}
	}
	return res
}

// Distances runs an unweighted BFS from node index src and returns hop
// counts per index; unreachable nodes are -1.
func (g *Graph) Distances(src int) []int {
	dist := make([]int, len(g.Nodes))
	for i := range dist {
		dist[i] = -1
	}
	if src < 0 || src >= len(g.Nodes) {
		return dist
	}
	dist[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.neighbors[cur] {
			if dist[nb] < 0 {
				dist[nb] = dist[cur] + 1
				queue = append(queue, nb)
			}
		}
	}
	return dist
}

// ShortestPath returns one shortest undirected path between node indexes,
// endpoints included, or nil when none exists. Neighbor order is insertion
// order, so the chosen path is deterministic.
func (g *Graph) ShortestPath(src, dst int) []int {
	n := len(g.Nodes)
	if src < 0 || dst < 0 || src >= n || dst >= n {
		return nil
	}
	if src == dst {
		return []int{src}
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	parent[src] = src
	queue := []int{src}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.neighbors[cur] {
			if parent[nb] >= 0 {
				continue
			}
			parent[nb] = cur
			if nb == dst {
				return tracePath(parent, src, dst)
			}
			queue = append(queue, nb)
		}
	}
	return nil
}

func tracePath(parent []int, src, dst int) []int {
	var path []int
	for cur := dst; cur != src; cur = parent[cur] {
		path = append(path, cur)
	}
	path = append(path, src)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
