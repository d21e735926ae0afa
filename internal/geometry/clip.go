package geometry

import (
	"github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
)

func toPolyclip(ring orb.Ring) polyclip.Polygon {
	contour := make(polyclip.Contour, 0, len(ring))
	// polyclip expects open contours
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	for i := 0; i < n; i++ {
		contour = append(contour, polyclip.Point{X: ring[i][0], Y: ring[i][1]})
	}
	return polyclip.Polygon{contour}
}

func fromPolyclip(p polyclip.Polygon) []orb.Ring {
	rings := make([]orb.Ring, 0, len(p))
	for _, contour := range p {
		if len(contour) < 3 {
			continue
		}
		ring := make(orb.Ring, 0, len(contour)+1)
		for _, pt := range contour {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		ring = append(ring, ring[0])
		rings = append(rings, ring)
	}
	return rings
}

// Union merges two rings with Vatti clipping and returns the resulting
// contours. Disjoint inputs come back as multiple rings; holes appear as
// separate contours and are left to the caller.
func Union(a, b orb.Ring) []orb.Ring {
	result := toPolyclip(a).Construct(polyclip.UNION, toPolyclip(b))
	return fromPolyclip(result)
}

// Largest returns the ring with the greatest absolute area, or nil for an
// empty slice.
func Largest(rings []orb.Ring) orb.Ring {
	var best orb.Ring
	bestArea := -1.0
	for _, r := range rings {
		if _, area := CentroidArea(r); area > bestArea {
			bestArea = area
			best = r
		}
	}
	return best
}

// MakeValid repairs a self-intersecting ring by resolving it through a
// zero-width self-union and keeping the largest resulting contour. The
// second return is false when the ring cannot be repaired.
func MakeValid(ring orb.Ring) (orb.Ring, bool) {
	if len(ring) < 4 {
		return nil, false
	}
	if IsSimple(ring) {
		return ring, true
	}
	pc := toPolyclip(ring)
	repaired := fromPolyclip(pc.Construct(polyclip.UNION, pc))
	if len(repaired) == 0 {
		return nil, false
	}
	best := Largest(repaired)
	if len(best) < 4 {
		return nil, false
	}
	return best, true
}
