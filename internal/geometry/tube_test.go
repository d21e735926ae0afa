package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crazywalk/streetgraph/internal/geo"
)

func TestTubeCoverageOnBoundary(t *testing.T) {
	path := []geo.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
	}
	cov := TubeCoverage(path, square(), 0.01)
	assert.InDelta(t, 1.0, cov, 1e-9, "a path along the bottom side is fully covered")
}

func TestTubeCoverageFarAway(t *testing.T) {
	path := []geo.Coordinate{
		{Lat: 5, Lon: 0},
		{Lat: 5, Lon: 1},
	}
	cov := TubeCoverage(path, square(), 0.01)
	assert.Zero(t, cov)
}

func TestTubeCoveragePartial(t *testing.T) {
	// Half the path hugs the side, the other half walks straight away.
	path := []geo.Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 2},
	}
	cov := TubeCoverage(path, square(), 0.01)
	assert.Greater(t, cov, 0.3)
	assert.Less(t, cov, 0.7)
}

func TestTubeCoverageDegenerateInputs(t *testing.T) {
	path := []geo.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}
	assert.Zero(t, TubeCoverage(nil, square(), 0.01))
	assert.Zero(t, TubeCoverage(path, square(), 0))
	assert.Zero(t, TubeCoverage(path, nil, 0.01))
}
