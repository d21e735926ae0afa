package geometry

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/crazywalk/streetgraph/internal/geo"
)

const (
	// labelSamples is the number of evenly spaced ray angles probed from the
	// centroid.
	labelSamples = 8

	// labelRayReach is how far each probe ray extends, in degrees (~1 km).
	labelRayReach = 0.01

	// Marker geometry in degrees: a primary marker of 30 px radius, a
	// secondary of 15 px offset 45 px along the label direction, at the
	// 1 px ~ 0.5 m convention used by the client.
	markerPrimaryRadius   = 30.0 / geo.MetersPerDegree
	markerSecondaryRadius = 15.0 / geo.MetersPerDegree
	markerSecondaryOffset = 45.0 / geo.MetersPerDegree
)

// LabelDirection probes evenly spaced angles from the centroid and returns
// the angle whose nearest boundary intersection is farthest away, plus that
// distance in degrees. A degenerate ring yields (0, 0).
func LabelDirection(ring orb.Ring, centroid geo.Coordinate) (angle, maxDistance float64) {
	if len(ring) < 4 {
		return 0, 0
	}
	origin := orb.Point{centroid.Lon, centroid.Lat}

	for i := 0; i < labelSamples; i++ {
		a := float64(i) * 2 * math.Pi / float64(labelSamples)
		far := orb.Point{
			origin[0] + math.Cos(a)*labelRayReach,
			origin[1] + math.Sin(a)*labelRayReach,
		}

		nearest := math.Inf(1)
		for s := 0; s < len(ring)-1; s++ {
			t, _, ok := segmentIntersection(origin, far, ring[s], ring[s+1])
			if !ok {
				continue
			}
			if d := t * labelRayReach; d < nearest {
				nearest = d
			}
		}

		if !math.IsInf(nearest, 1) && nearest > maxDistance {
			maxDistance = nearest
			angle = a
		}
	}
	return angle, maxDistance
}

// MarkerBox returns the axis-aligned bounding box that must fit inside a
// polygon to host the primary marker plus the offset secondary marker.
func MarkerBox(centroid geo.Coordinate, angle float64) (min, max orb.Point) {
	cx, cy := centroid.Lon, centroid.Lat
	sx := cx + math.Cos(angle)*markerSecondaryOffset
	sy := cy + math.Sin(angle)*markerSecondaryOffset

	min = orb.Point{
		math.Min(cx-markerPrimaryRadius, sx-markerSecondaryRadius),
		math.Min(cy-markerPrimaryRadius, sy-markerSecondaryRadius),
	}
	max = orb.Point{
		math.Max(cx+markerPrimaryRadius, sx+markerSecondaryRadius),
		math.Max(cy+markerPrimaryRadius, sy+markerSecondaryRadius),
	}
	return min, max
}

// BoxInsideRing reports whether the axis-aligned box lies fully inside the
// ring: all corners contained and no box edge crossing the boundary.
func BoxInsideRing(min, max orb.Point, ring orb.Ring) bool {
	corners := [4]orb.Point{
		{min[0], min[1]},
		{max[0], min[1]},
		{max[0], max[1]},
		{min[0], max[1]},
	}
	for _, c := range corners {
		if !Contains(ring, c) {
			return false
		}
	}
	for i := 0; i < 4; i++ {
		a, b := corners[i], corners[(i+1)%4]
		for s := 0; s < len(ring)-1; s++ {
			if _, _, ok := segmentIntersection(a, b, ring[s], ring[s+1]); ok {
				return false
			}
		}
	}
	return true
}
