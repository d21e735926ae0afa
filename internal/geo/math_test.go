package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineOneDegreeLatitude(t *testing.T) {
	a := Coordinate{Lat: 0, Lon: 0}
	b := Coordinate{Lat: 1, Lon: 0}

	// One degree of latitude on a 6371 km sphere is ~111.19 km.
	d := Haversine(a, b)
	assert.InDelta(t, 111195, d, 10, "one degree of latitude")
}

func TestHaversineZero(t *testing.T) {
	c := Coordinate{Lat: 52.52, Lon: 13.405}
	assert.Zero(t, Haversine(c, c))
}

func TestHaversineSymmetric(t *testing.T) {
	a := Coordinate{Lat: 52.52, Lon: 13.405}
	b := Coordinate{Lat: 52.53, Lon: 13.41}
	assert.Equal(t, Haversine(a, b), Haversine(b, a))
}

func TestPathLengthSumsHops(t *testing.T) {
	path := []Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0.001, Lon: 0.001},
	}

	want := Haversine(path[0], path[1]) + Haversine(path[1], path[2])
	assert.InDelta(t, want, PathLength(path), 1e-9, "path length must equal the hop sum")
	assert.Zero(t, PathLength(path[:1]))
	assert.Zero(t, PathLength(nil))
}

func TestNodeKeyRoundsAtSeventhDecimal(t *testing.T) {
	a := Coordinate{Lat: 52.5200000, Lon: 13.4050000}
	b := Coordinate{Lat: 52.52000004, Lon: 13.40500004}
	c := Coordinate{Lat: 52.5200001, Lon: 13.405}

	assert.Equal(t, a.Key(), b.Key(), "sub-precision jitter maps to the same node")
	assert.NotEqual(t, a.Key(), c.Key(), "a full 1e-7 step is a different node")
}

func TestNodeKeyRoundTrip(t *testing.T) {
	c := Coordinate{Lat: -33.8688197, Lon: 151.2092955}
	back := c.Key().Coordinate()
	assert.InDelta(t, c.Lat, back.Lat, 1e-7)
	assert.InDelta(t, c.Lon, back.Lon, 1e-7)
}

func TestAround(t *testing.T) {
	box := Around(10, 20, 0.005)
	assert.Equal(t, BoundingBox{MinLat: 9.995, MinLon: 19.995, MaxLat: 10.005, MaxLon: 20.005}, box)
}

func TestPlanarDistance(t *testing.T) {
	a := Coordinate{Lat: 0, Lon: 0}
	b := Coordinate{Lat: 3, Lon: 4}
	assert.InDelta(t, 5.0, PlanarDistance(a, b), 1e-12)
}
