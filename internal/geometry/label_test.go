package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazywalk/streetgraph/internal/geo"
)

func TestLabelDirectionRectangle(t *testing.T) {
	// A rectangle stretched along x: the winning ray must be horizontal.
	rect := orb.Ring{{0, 0}, {0.004, 0}, {0.004, 0.001}, {0, 0.001}, {0, 0}}
	centroid, _ := CentroidArea(rect)

	angle, maxDist := LabelDirection(rect, centroid)
	assert.InDelta(t, 0.002, maxDist, 1e-9, "half the long side")

	horizontal := math.Abs(math.Sin(angle)) < 1e-9
	assert.True(t, horizontal, "angle %v should point along the long axis", angle)
}

func TestLabelDirectionDegenerate(t *testing.T) {
	angle, maxDist := LabelDirection(orb.Ring{{0, 0}, {1, 1}, {0, 0}}, geo.Coordinate{})
	assert.Zero(t, angle)
	assert.Zero(t, maxDist)
}

func TestMarkerBoxContainsBothMarkers(t *testing.T) {
	centroid := geo.Coordinate{Lat: 10, Lon: 20}
	min, max := MarkerBox(centroid, 0)

	// Primary marker circle around the centroid.
	assert.LessOrEqual(t, min[0], 20-markerPrimaryRadius)
	assert.GreaterOrEqual(t, max[0], 20+markerPrimaryRadius)

	// Secondary marker offset along +x at angle 0.
	assert.GreaterOrEqual(t, max[0], 20+markerSecondaryOffset+markerSecondaryRadius-1e-12)
	assert.LessOrEqual(t, max[1], 10+markerPrimaryRadius+1e-12,
		"angle 0 must not stretch the box vertically beyond the primary")
}

func TestBoxInsideRing(t *testing.T) {
	big := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	require.True(t, BoxInsideRing(orb.Point{4, 4}, orb.Point{6, 6}, big))

	// Box poking out of the ring.
	assert.False(t, BoxInsideRing(orb.Point{9, 9}, orb.Point{11, 11}, big))

	// Box containing the whole ring: corners outside.
	assert.False(t, BoxInsideRing(orb.Point{-1, -1}, orb.Point{11, 11}, big))
}

func TestBoxInsideRingConcaveNotch(t *testing.T) {
	// A square with a deep notch cut into the top; a centered box crosses
	// the notch even though all four corners stay inside.
	notched := orb.Ring{
		{0, 0}, {10, 0}, {10, 10}, {5.5, 10}, {5.5, 2}, {4.5, 2}, {4.5, 10}, {0, 10}, {0, 0},
	}
	assert.False(t, BoxInsideRing(orb.Point{2, 1}, orb.Point{8, 2.5}, notched))
}
