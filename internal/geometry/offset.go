package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// miterLimit caps the vertex displacement at sharp corners, in multiples of
// the offset distance.
const miterLimit = 3.0

// Offset displaces every ring vertex along its outward miter normal.
// Positive delta grows the ring, negative shrinks it. The output winds
// counterclockwise regardless of the input orientation. Used for the tiny
// epsilon dilation that dissolves coincident-but-not-bit-identical edges
// before a union.
func Offset(ring orb.Ring, delta float64) orb.Ring {
	n := len(ring) - 1 // closing point repeats the first
	if n < 3 {
		return ring
	}

	open := make([]orb.Point, n)
	copy(open, ring[:n])
	if SignedArea(ring) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			open[i], open[j] = open[j], open[i]
		}
	}

	out := make(orb.Ring, 0, n+1)
	for i := 0; i < n; i++ {
		prev := open[(i-1+n)%n]
		curr := open[i]
		next := open[(i+1)%n]

		n1 := outwardNormal(prev, curr)
		n2 := outwardNormal(curr, next)

		dir := orb.Point{n1[0] + n2[0], n1[1] + n2[1]}
		length := math.Hypot(dir[0], dir[1])
		if length == 0 {
			// collinear reversal, fall back to one edge normal
			dir, length = n1, 1
		} else {
			dir = orb.Point{dir[0] / length, dir[1] / length}
			length = 1
		}

		// miter scale: 1/cos(half angle), capped
		scale := 1.0
		if dot := dir[0]*n1[0] + dir[1]*n1[1]; dot > 1.0/miterLimit {
			scale = 1.0 / dot
		} else {
			scale = miterLimit
		}

		out = append(out, orb.Point{
			curr[0] + dir[0]*delta*scale,
			curr[1] + dir[1]*delta*scale,
		})
	}
	out = append(out, out[0])
	return out
}

// outwardNormal returns the unit normal of edge a-b pointing away from the
// interior of a counterclockwise ring.
func outwardNormal(a, b orb.Point) orb.Point {
	dx, dy := b[0]-a[0], b[1]-a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return orb.Point{}
	}
	return orb.Point{dy / length, -dx / length}
}
