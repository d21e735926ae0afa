// Package graph builds the junction/edge topology of a raw street network:
// intersection detection, chain tracing between junctions and minimum cycle
// basis extraction.
package graph

import (
	"sort"

	"github.com/crazywalk/streetgraph/internal/geo"
)

// Segment is a consecutive coordinate pair taken from a source way.
type Segment struct {
	A geo.Coordinate
	B geo.Coordinate
}

// SegmentsFromWays splits way polylines into consecutive-pair segments.
func SegmentsFromWays(ways [][]geo.Coordinate) []Segment {
	var segments []Segment
	for _, coords := range ways {
		for i := 0; i < len(coords)-1; i++ {
			segments = append(segments, Segment{A: coords[i], B: coords[i+1]})
		}
	}
	return segments
}

// Network indexes the raw node topology of a fetched region by
// fixed-precision coordinate key.
type Network struct {
	degrees   map[geo.NodeKey]int
	adjacency map[geo.NodeKey]map[geo.NodeKey]struct{}
	coords    map[geo.NodeKey]geo.Coordinate
}

// BuildNetwork counts per-node degree and collects adjacency from raw
// segments. Degree counts every segment occurrence; adjacency is a set, so
// parallel segments between the same pair collapse. Zero-length segments are
// skipped.
func BuildNetwork(segments []Segment) *Network {
	n := &Network{
		degrees:   make(map[geo.NodeKey]int),
		adjacency: make(map[geo.NodeKey]map[geo.NodeKey]struct{}),
		coords:    make(map[geo.NodeKey]geo.Coordinate),
	}

	for _, s := range segments {
		ka, kb := s.A.Key(), s.B.Key()
		if ka == kb {
			continue
		}

		n.degrees[ka]++
		n.degrees[kb]++

		if _, ok := n.coords[ka]; !ok {
			n.coords[ka] = s.A
		}
		if _, ok := n.coords[kb]; !ok {
			n.coords[kb] = s.B
		}

		if n.adjacency[ka] == nil {
			n.adjacency[ka] = make(map[geo.NodeKey]struct{})
		}
		if n.adjacency[kb] == nil {
			n.adjacency[kb] = make(map[geo.NodeKey]struct{})
		}
		n.adjacency[ka][kb] = struct{}{}
		n.adjacency[kb][ka] = struct{}{}
	}

	return n
}

// Junctions returns the keys whose raw degree differs from 2, sorted for
// deterministic downstream iteration. Dead ends and true intersections both
// qualify; every node of a closed single-loop way has degree 2 and none does.
func (n *Network) Junctions() []geo.NodeKey {
	var keys []geo.NodeKey
	for k, deg := range n.degrees {
		if deg != 2 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Degree returns the raw segment-occurrence degree of a node.
func (n *Network) Degree(k geo.NodeKey) int {
	return n.degrees[k]
}

// Coordinate returns the first coordinate observed for a node key.
func (n *Network) Coordinate(k geo.NodeKey) geo.Coordinate {
	return n.coords[k]
}

// Neighbors returns the adjacent node keys, sorted.
func (n *Network) Neighbors(k geo.NodeKey) []geo.NodeKey {
	set := n.adjacency[k]
	if len(set) == 0 {
		return nil
	}
	out := make([]geo.NodeKey, 0, len(set))
	for nk := range set {
		out = append(out, nk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// NeighborCount returns the number of distinct adjacent nodes.
func (n *Network) NeighborCount(k geo.NodeKey) int {
	return len(n.adjacency[k])
}

// Empty reports whether the network holds no nodes at all.
func (n *Network) Empty() bool {
	return len(n.degrees) == 0
}
