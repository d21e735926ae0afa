// Package geometry implements the planar operations behind polygon
// extraction and merging: ring bookkeeping, Vatti clipping, epsilon offsets,
// label-direction ray casting and boundary-tube coverage. Rings are
// orb.Ring values in (lon, lat) order.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/crazywalk/streetgraph/internal/geo"
)

// FromCoordinates converts a lat/lon polyline into an orb ring, closing it
// when the input is open.
func FromCoordinates(coords []geo.Coordinate) orb.Ring {
	ring := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		ring = append(ring, orb.Point{c.Lon, c.Lat})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// ToCoordinates converts a ring back into lat/lon order.
func ToCoordinates(ring orb.Ring) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(ring))
	for _, p := range ring {
		coords = append(coords, geo.Coordinate{Lat: p[1], Lon: p[0]})
	}
	return coords
}

// CentroidArea returns the ring centroid as a lat/lon coordinate and the
// absolute enclosed area in square degrees.
func CentroidArea(ring orb.Ring) (geo.Coordinate, float64) {
	center, area := planar.CentroidArea(ring)
	return geo.Coordinate{Lat: center[1], Lon: center[0]}, math.Abs(area)
}

// SignedArea returns the shoelace area of the ring: positive when the ring
// winds counterclockwise.
func SignedArea(ring orb.Ring) float64 {
	var sum float64
	for i := 0; i < len(ring)-1; i++ {
		sum += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return sum / 2
}

// DistinctVertices counts the unique fixed-precision vertices of a ring.
func DistinctVertices(ring orb.Ring) int {
	seen := make(map[geo.NodeKey]struct{}, len(ring))
	for _, p := range ring {
		c := geo.Coordinate{Lat: p[1], Lon: p[0]}
		seen[c.Key()] = struct{}{}
	}
	return len(seen)
}

// Contains reports whether the point lies inside the ring.
func Contains(ring orb.Ring, p orb.Point) bool {
	return planar.RingContains(ring, p)
}

// segmentIntersection returns the parameters (t, u) at which segments
// a1-a2 and b1-b2 cross, when they do.
func segmentIntersection(a1, a2, b1, b2 orb.Point) (t, u float64, ok bool) {
	r := orb.Point{a2[0] - a1[0], a2[1] - a1[1]}
	s := orb.Point{b2[0] - b1[0], b2[1] - b1[1]}

	denom := r[0]*s[1] - r[1]*s[0]
	if denom == 0 {
		return 0, 0, false
	}

	qp := orb.Point{b1[0] - a1[0], b1[1] - a1[1]}
	t = (qp[0]*s[1] - qp[1]*s[0]) / denom
	u = (qp[0]*r[1] - qp[1]*r[0]) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, 0, false
	}
	return t, u, true
}

// IsSimple reports whether no two non-adjacent ring segments intersect.
func IsSimple(ring orb.Ring) bool {
	n := len(ring) - 1 // closing point repeats the first
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// skip adjacent segments, including the first/last pair
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if _, _, ok := segmentIntersection(ring[i], ring[i+1], ring[j], ring[j+1]); ok {
				return false
			}
		}
	}
	return true
}

// pointSegmentDistance returns the planar distance from p to segment a-b.
func pointSegmentDistance(p, a, b orb.Point) float64 {
	ab := orb.Point{b[0] - a[0], b[1] - a[1]}
	ap := orb.Point{p[0] - a[0], p[1] - a[1]}

	lenSq := ab[0]*ab[0] + ab[1]*ab[1]
	t := 0.0
	if lenSq > 0 {
		t = (ap[0]*ab[0] + ap[1]*ab[1]) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	dx := p[0] - (a[0] + ab[0]*t)
	dy := p[1] - (a[1] + ab[1]*t)
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceToBoundary returns the minimum planar distance from a point to any
// ring segment.
func DistanceToBoundary(ring orb.Ring, p orb.Point) float64 {
	min := math.Inf(1)
	for i := 0; i < len(ring)-1; i++ {
		if d := pointSegmentDistance(p, ring[i], ring[i+1]); d < min {
			min = d
		}
	}
	return min
}
