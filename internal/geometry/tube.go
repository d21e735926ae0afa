package geometry

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/crazywalk/streetgraph/internal/geo"
)

// TubeCoverage returns the fraction of the polyline's length lying within
// radius (degrees) of the ring boundary, the "tube" a merged polygon's
// surviving edge must mostly live in. Length-weighted by dense sampling:
// each hop is probed at its midpoints every radius/2.
func TubeCoverage(path []geo.Coordinate, ring orb.Ring, radius float64) float64 {
	if len(path) < 2 || radius <= 0 || len(ring) < 4 {
		return 0
	}

	var total, covered float64
	for i := 0; i < len(path)-1; i++ {
		a := orb.Point{path[i].Lon, path[i].Lat}
		b := orb.Point{path[i+1].Lon, path[i+1].Lat}
		hop := math.Hypot(b[0]-a[0], b[1]-a[1])
		if hop == 0 {
			continue
		}
		total += hop

		samples := int(math.Ceil(hop / (radius / 2)))
		if samples < 1 {
			samples = 1
		}
		piece := hop / float64(samples)
		for s := 0; s < samples; s++ {
			t := (float64(s) + 0.5) / float64(samples)
			p := orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
			if DistanceToBoundary(ring, p) <= radius {
				covered += piece
			}
		}
	}

	if total == 0 {
		return 0
	}
	return covered / total
}
