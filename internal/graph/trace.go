package graph

import (
	"math"

	"github.com/crazywalk/streetgraph/internal/geo"
)

// Chain is a traced path between two distinct junctions through degree-2
// intermediate nodes.
type Chain struct {
	Start  geo.NodeKey
	End    geo.NodeKey
	Path   []geo.Coordinate
	Length float64 // meters
}

type pairKey struct {
	lo geo.NodeKey
	hi geo.NodeKey
}

func newPairKey(a, b geo.NodeKey) pairKey {
	if b.Less(a) {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// TraceChains walks every unvisited neighbor of every junction and extends
// the path while the current node is a plain degree-2 pass-through. A trace
// is accepted only when it terminates at a junction distinct from its start;
// a loop closing back on the start junction without passing another junction
// is rejected. Every physical hop of an accepted or rejected trace is marked
// visited, so the same path is never retraced from the far end.
func TraceChains(n *Network) []Chain {
	junctions := n.Junctions()
	junctionSet := make(map[geo.NodeKey]struct{}, len(junctions))
	for _, k := range junctions {
		junctionSet[k] = struct{}{}
	}

	visited := make(map[pairKey]struct{})
	var chains []Chain

	for _, start := range junctions {
		for _, neighbor := range n.Neighbors(start) {
			firstHop := newPairKey(start, neighbor)
			if _, seen := visited[firstHop]; seen {
				continue
			}

			path := []geo.Coordinate{n.Coordinate(start), n.Coordinate(neighbor)}
			length := geo.Haversine(n.Coordinate(start), n.Coordinate(neighbor))
			prev, curr := start, neighbor

			for {
				if _, isJunction := junctionSet[curr]; isJunction {
					break
				}
				if n.NeighborCount(curr) != 2 {
					break
				}
				var next geo.NodeKey
				found := false
				for _, cand := range n.Neighbors(curr) {
					if cand != prev {
						next = cand
						found = true
						break
					}
				}
				if !found {
					break
				}
				visited[newPairKey(curr, next)] = struct{}{}
				path = append(path, n.Coordinate(next))
				length += geo.Haversine(n.Coordinate(curr), n.Coordinate(next))
				prev, curr = curr, next
			}

			visited[firstHop] = struct{}{}

			if _, isJunction := junctionSet[curr]; isJunction && curr != start {
				chains = append(chains, Chain{
					Start:  start,
					End:    curr,
					Path:   path,
					Length: length,
				})
			}
		}
	}

	return chains
}

// InterpolateAlong places points at regular arc-length spacing along a
// polyline of total length meters. The segment count is max(1,
// round(length/spacing)); for a single segment no points are produced. Each
// target arc length is linearly interpolated within the raw sub-hop that
// contains it.
func InterpolateAlong(path []geo.Coordinate, length, spacing float64) []geo.Coordinate {
	if spacing <= 0 || len(path) < 2 {
		return nil
	}

	segments := int(math.Round(length / spacing))
	if segments < 1 {
		segments = 1
	}
	if segments == 1 {
		return nil
	}

	step := length / float64(segments)
	targets := make([]float64, 0, segments-1)
	for k := 1; k < segments; k++ {
		targets = append(targets, step*float64(k))
	}

	points := make([]geo.Coordinate, 0, len(targets))
	tIdx := 0
	walked := 0.0

	for i := 0; i < len(path)-1 && tIdx < len(targets); i++ {
		p1, p2 := path[i], path[i+1]
		hop := geo.Haversine(p1, p2)
		for tIdx < len(targets) && walked+hop >= targets[tIdx] {
			remaining := targets[tIdx] - walked
			ratio := 0.0
			if hop > 0 {
				ratio = remaining / hop
			}
			points = append(points, geo.Coordinate{
				Lat: p1.Lat + (p2.Lat-p1.Lat)*ratio,
				Lon: p1.Lon + (p2.Lon-p1.Lon)*ratio,
			})
			tIdx++
		}
		walked += hop
	}

	return points
}
