package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazywalk/streetgraph/internal/geo"
)

func TestNewIDFormat(t *testing.T) {
	for _, kind := range []string{KindJunction, KindEdge, KindWaypoint, KindPolygon} {
		id := NewID(kind)
		require.True(t, strings.HasPrefix(id, kind+"_"), "id %q", id)
		assert.Len(t, id, len(kind)+1+8, "eight hex characters after the prefix")
		assert.Equal(t, kind, KindOf(id))
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID(KindEdge)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "jct", KindOf("jct_0a1b2c3d"))
	assert.Equal(t, "", KindOf("noseparator"))
	assert.Equal(t, "", KindOf("_leading"))
}

func TestCentroidIDDeterministic(t *testing.T) {
	c := geo.Coordinate{Lat: 52.5200071, Lon: 13.4050033}
	id := CentroidID(c)

	assert.Equal(t, id, CentroidID(c))
	assert.True(t, strings.HasPrefix(id, KindPolygon+"_"))
	assert.NotContains(t, id, ".", "dots are stripped from the rounded centroid")

	// The fifth decimal is the identity boundary.
	near := geo.Coordinate{Lat: 52.5200071 + 1e-9, Lon: 13.4050033}
	far := geo.Coordinate{Lat: 52.5201, Lon: 13.4050033}
	assert.Equal(t, id, CentroidID(near))
	assert.NotEqual(t, id, CentroidID(far))
}
