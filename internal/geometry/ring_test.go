package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazywalk/streetgraph/internal/geo"
)

// unit square, counter-clockwise, closed
func square() orb.Ring {
	return orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
}

func TestFromCoordinatesClosesRing(t *testing.T) {
	coords := []geo.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 1},
	}

	ring := FromCoordinates(coords)
	require.Len(t, ring, 4, "open input gains a closing point")
	assert.Equal(t, ring[0], ring[len(ring)-1])
	// orb points are (x, y) = (lon, lat)
	assert.Equal(t, orb.Point{0, 0}, ring[0])
	assert.Equal(t, orb.Point{1, 0}, ring[1])
}

func TestToCoordinatesDropsClosingPoint(t *testing.T) {
	coords := ToCoordinates(square())
	require.Len(t, coords, 4)
	assert.Equal(t, geo.Coordinate{Lat: 0, Lon: 0}, coords[0])
	assert.Equal(t, geo.Coordinate{Lat: 1, Lon: 0}, coords[2])
}

func TestCentroidAreaUnitSquare(t *testing.T) {
	centroid, area := CentroidArea(square())
	assert.InDelta(t, 1.0, area, 1e-12)
	assert.InDelta(t, 0.5, centroid.Lat, 1e-12)
	assert.InDelta(t, 0.5, centroid.Lon, 1e-12)
}

func TestSignedAreaOrientation(t *testing.T) {
	ccw := square()
	cw := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}

	assert.Positive(t, SignedArea(ccw))
	assert.Negative(t, SignedArea(cw))
}

func TestDistinctVertices(t *testing.T) {
	assert.Equal(t, 4, DistinctVertices(square()))

	degenerate := orb.Ring{{0, 0}, {0, 1e-9}, {1, 1}, {0, 0}}
	assert.Equal(t, 2, DistinctVertices(degenerate), "near-identical vertices collapse")
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(square(), orb.Point{0.5, 0.5}))
	assert.False(t, Contains(square(), orb.Point{1.5, 0.5}))
}

func TestIsSimple(t *testing.T) {
	assert.True(t, IsSimple(square()))

	bowtie := orb.Ring{{0, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}}
	assert.False(t, IsSimple(bowtie))
}

func TestDistanceToBoundary(t *testing.T) {
	d := DistanceToBoundary(square(), orb.Point{0.5, 0.5})
	assert.InDelta(t, 0.5, d, 1e-12, "center of a unit square")

	d = DistanceToBoundary(square(), orb.Point{0.5, 0})
	assert.InDelta(t, 0, d, 1e-12, "point on the boundary")

	d = DistanceToBoundary(square(), orb.Point{2, 0.5})
	assert.InDelta(t, 1, d, 1e-12, "outside points measure to the nearest side")
}
