package graph

import (
	"container/heap"
	"math"
	"sort"

	"github.com/crazywalk/streetgraph/internal/geo"
)

// WeightedGraph is the junction-level graph used for cycle extraction. It
// keeps at most one undirected edge per node pair; when parallel chains exist
// between the same junctions the lighter one wins.
type WeightedGraph struct {
	nodes []geo.NodeKey
	index map[geo.NodeKey]int
	adj   map[int][]arc
	edges []wedge
	pairs map[[2]int]int // node pair -> edge index
}

type arc struct {
	to   int
	edge int
}

type wedge struct {
	u, v   int
	weight float64
}

// NewWeightedGraph returns an empty graph.
func NewWeightedGraph() *WeightedGraph {
	return &WeightedGraph{
		index: make(map[geo.NodeKey]int),
		adj:   make(map[int][]arc),
		pairs: make(map[[2]int]int),
	}
}

func (g *WeightedGraph) nodeIndex(k geo.NodeKey) int {
	if i, ok := g.index[k]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, k)
	g.index[k] = i
	return i
}

// AddEdge inserts an undirected weighted edge. Self-loops are ignored; a
// duplicate pair keeps the smaller weight.
func (g *WeightedGraph) AddEdge(u, v geo.NodeKey, weight float64) {
	ui, vi := g.nodeIndex(u), g.nodeIndex(v)
	if ui == vi {
		return
	}
	pair := orderedPair(ui, vi)
	if ei, ok := g.pairs[pair]; ok {
		if weight < g.edges[ei].weight {
			g.edges[ei].weight = weight
		}
		return
	}
	ei := len(g.edges)
	g.edges = append(g.edges, wedge{u: ui, v: vi, weight: weight})
	g.pairs[pair] = ei
	g.adj[ui] = append(g.adj[ui], arc{to: vi, edge: ei})
	g.adj[vi] = append(g.adj[vi], arc{to: ui, edge: ei})
}

// Size returns the node and edge counts.
func (g *WeightedGraph) Size() (nodes, edges int) {
	return len(g.nodes), len(g.edges)
}

func orderedPair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// MinimumCycleBasis computes a smallest-total-weight independent cycle set
// spanning the graph's cycle space, via Horton's construction: candidate
// cycles are built from per-vertex shortest-path trees plus one non-tree
// edge, then greedily selected by ascending weight under GF(2) independence.
// Each cycle comes back as an ordered node-key ring without the closing
// repeat. An acyclic graph yields nil.
func (g *WeightedGraph) MinimumCycleBasis() [][]geo.NodeKey {
	n, m := len(g.nodes), len(g.edges)
	if n == 0 || m == 0 {
		return nil
	}

	dim := m - n + g.componentCount()
	if dim <= 0 {
		return nil
	}

	words := (m + 63) / 64
	seen := make(map[string]struct{})
	var candidates []hortonCycle

	for v := 0; v < n; v++ {
		dist, parent, parentEdge := g.shortestPaths(v)

		for ei := range g.edges {
			e := &g.edges[ei]
			x, y := e.u, e.v
			if math.IsInf(dist[x], 1) || math.IsInf(dist[y], 1) {
				continue
			}
			// skip tree edges of this root
			if parentEdge[x] == ei || parentEdge[y] == ei {
				continue
			}

			px := pathFromRoot(parent, v, x)
			py := pathFromRoot(parent, v, y)
			if px == nil || py == nil || !disjointExceptRoot(px, py) {
				continue
			}

			// ring: v..x then y..v (v excluded at the tail)
			ring := make([]int, 0, len(px)+len(py)-1)
			ring = append(ring, px...)
			for i := len(py) - 1; i >= 1; i-- {
				ring = append(ring, py[i])
			}
			if len(ring) < 3 {
				continue
			}

			bits := make([]uint64, words)
			setEdgeBit(bits, ei)
			ok := true
			for i := 0; i < len(ring); i++ {
				a, b := ring[i], ring[(i+1)%len(ring)]
				idx, found := g.pairs[orderedPair(a, b)]
				if !found {
					ok = false
					break
				}
				setEdgeBit(bits, idx)
			}
			if !ok {
				continue
			}

			sig := bitsKey(bits)
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}

			candidates = append(candidates, hortonCycle{
				weight: dist[x] + dist[y] + e.weight,
				ring:   ring,
				bits:   bits,
				sig:    sig,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight < candidates[j].weight
		}
		return candidates[i].sig < candidates[j].sig
	})

	// Greedy GF(2) independence selection.
	var basis [][]uint64
	var pivots []int
	var cycles [][]geo.NodeKey

	for i := range candidates {
		if len(cycles) >= dim {
			break
		}
		reduced := append([]uint64(nil), candidates[i].bits...)
		for bi, bv := range basis {
			if testBit(reduced, pivots[bi]) {
				xorInto(reduced, bv)
			}
		}
		pivot := firstSetBit(reduced)
		if pivot < 0 {
			continue // dependent on already selected cycles
		}
		basis = append(basis, reduced)
		pivots = append(pivots, pivot)

		ring := make([]geo.NodeKey, len(candidates[i].ring))
		for j, ni := range candidates[i].ring {
			ring[j] = g.nodes[ni]
		}
		cycles = append(cycles, ring)
	}

	return cycles
}

type hortonCycle struct {
	weight float64
	ring   []int
	bits   []uint64
	sig    string
}

// shortestPaths runs Dijkstra from root, returning distances, parents and the
// edge index used to reach each node.
func (g *WeightedGraph) shortestPaths(root int) (dist []float64, parent, parentEdge []int) {
	n := len(g.nodes)
	dist = make([]float64, n)
	parent = make([]int, n)
	parentEdge = make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		parent[i] = -1
		parentEdge[i] = -1
	}
	dist[root] = 0

	pq := &nodeQueue{{node: root, dist: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(nodeItem)
		if item.dist > dist[item.node] {
			continue
		}
		for _, a := range g.adj[item.node] {
			nd := item.dist + g.edges[a.edge].weight
			if nd < dist[a.to] {
				dist[a.to] = nd
				parent[a.to] = item.node
				parentEdge[a.to] = a.edge
				heap.Push(pq, nodeItem{node: a.to, dist: nd})
			}
		}
	}
	return dist, parent, parentEdge
}

func (g *WeightedGraph) componentCount() int {
	n := len(g.nodes)
	visited := make([]bool, n)
	count := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		count++
		stack := []int{i}
		visited[i] = true
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, a := range g.adj[v] {
				if !visited[a.to] {
					visited[a.to] = true
					stack = append(stack, a.to)
				}
			}
		}
	}
	return count
}

// pathFromRoot returns root..target along the shortest-path tree, or nil when
// target is unreachable.
func pathFromRoot(parent []int, root, target int) []int {
	var rev []int
	for v := target; v != -1; v = parent[v] {
		rev = append(rev, v)
		if v == root {
			break
		}
	}
	if len(rev) == 0 || rev[len(rev)-1] != root {
		return nil
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// disjointExceptRoot reports whether two root paths share only their first
// node, which makes the stitched candidate a simple cycle.
func disjointExceptRoot(a, b []int) bool {
	seen := make(map[int]struct{}, len(a))
	for _, v := range a[1:] {
		seen[v] = struct{}{}
	}
	for _, v := range b[1:] {
		if _, dup := seen[v]; dup {
			return false
		}
	}
	return true
}

func setEdgeBit(bits []uint64, i int) { bits[i/64] |= 1 << uint(i%64) }

func testBit(bits []uint64, i int) bool { return bits[i/64]&(1<<uint(i%64)) != 0 }

func xorInto(dst, src []uint64) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func firstSetBit(bits []uint64) int {
	for w, v := range bits {
		if v == 0 {
			continue
		}
		for b := 0; b < 64; b++ {
			if v&(1<<uint(b)) != 0 {
				return w*64 + b
			}
		}
	}
	return -1
}

func bitsKey(bits []uint64) string {
	buf := make([]byte, 0, len(bits)*8)
	for _, w := range bits {
		for s := 0; s < 64; s += 8 {
			buf = append(buf, byte(w>>uint(s)))
		}
	}
	return string(buf)
}

type nodeItem struct {
	node int
	dist float64
}

type nodeQueue []nodeItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
