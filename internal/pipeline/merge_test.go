package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazywalk/streetgraph/internal/geo"
	"github.com/crazywalk/streetgraph/internal/model"
)

// tinyBlockPair returns two 11 m squares sharing edge "e2", far too small
// for the marker box, plus their edge index.
func tinyBlockPair() (model.Polygon, model.Polygon, map[string]*model.Edge) {
	s := 0.0001
	a, b, cc, d := c(0, 0), c(0, s), c(s, s), c(s, 0)
	e, f := c(0, 2*s), c(s, 2*s)

	mkEdge := func(id string, from, to geo.Coordinate) *model.Edge {
		return &model.Edge{
			ID:     id,
			Start:  from,
			End:    to,
			Path:   []geo.Coordinate{from, to},
			Length: geo.Haversine(from, to),
		}
	}
	edges := map[string]*model.Edge{
		"e1": mkEdge("e1", a, b),
		"e2": mkEdge("e2", b, cc), // shared side
		"e3": mkEdge("e3", cc, d),
		"e4": mkEdge("e4", d, a),
		"e5": mkEdge("e5", b, e),
		"e6": mkEdge("e6", e, f),
		"e7": mkEdge("e7", f, cc),
	}

	p1 := model.Polygon{
		ID:                      "poly_left",
		Centroid:                c(s/2, s/2),
		Boundary:                []geo.Coordinate{a, b, cc, d},
		BoundaryEdgeIDs:         []string{"e1", "e2", "e3", "e4"},
		TotalPoints:             4,
		MergeCount:              1,
		LargestOriginalArea:     1e-8,
		LargestOriginalCentroid: c(s/2, s/2),
	}
	p2 := model.Polygon{
		ID:                      "poly_right",
		Centroid:                c(s/2, 3*s/2),
		Boundary:                []geo.Coordinate{b, e, f, cc},
		BoundaryEdgeIDs:         []string{"e5", "e6", "e7", "e2"},
		TotalPoints:             4,
		MergeCount:              1,
		LargestOriginalArea:     2e-8,
		LargestOriginalCentroid: c(s/2, 3*s/2),
	}
	return p1, p2, edges
}

func TestMergeTwoDropsSharedEdge(t *testing.T) {
	p1, p2, edges := tinyBlockPair()

	merged := mergeTwo(&p1, &p2, "e2", edges)
	require.NotNil(t, merged)

	assert.NotContains(t, merged.BoundaryEdgeIDs, "e2",
		"the shared edge must never survive a merge")
	assert.ElementsMatch(t, []string{"e1", "e3", "e4", "e5", "e6", "e7"}, merged.BoundaryEdgeIDs,
		"all outer edges lie on the merged boundary")
}

func TestMergeTwoGeometry(t *testing.T) {
	p1, p2, edges := tinyBlockPair()

	merged := mergeTwo(&p1, &p2, "e2", edges)
	require.NotNil(t, merged)

	// Two adjacent 0.0001-degree squares fuse into a 2x1 rectangle.
	assert.InDelta(t, 0.00005, merged.Centroid.Lat, 1e-6)
	assert.InDelta(t, 0.0001, merged.Centroid.Lon, 1e-6)

	assert.Equal(t, 8, merged.TotalPoints, "collectible points are summed")
	assert.Equal(t, 2, merged.MergeCount)
}

func TestMergeTwoProvenance(t *testing.T) {
	p1, p2, edges := tinyBlockPair()

	merged := mergeTwo(&p1, &p2, "e2", edges)
	require.NotNil(t, merged)

	assert.Equal(t, p2.LargestOriginalArea, merged.LargestOriginalArea,
		"the larger original wins the provenance")
	assert.Equal(t, p2.LargestOriginalCentroid, merged.LargestOriginalCentroid)
}

func TestMergeTwoDeterministicID(t *testing.T) {
	p1, p2, edges := tinyBlockPair()

	m1 := mergeTwo(&p1, &p2, "e2", edges)
	m2 := mergeTwo(&p1, &p2, "e2", edges)
	require.NotNil(t, m1)
	require.NotNil(t, m2)

	assert.Equal(t, m1.ID, m2.ID, "the merged id derives from the centroid")
	assert.True(t, strings.HasPrefix(m1.ID, model.KindPolygon+"_"))
}

func TestMergeTwoDropsGhostEdges(t *testing.T) {
	p1, p2, edges := tinyBlockPair()

	// An edge nominally on the left boundary whose geometry is nowhere
	// near the merged ring.
	far := c(0.01, 0.01)
	edges["e9"] = &model.Edge{
		ID:    "e9",
		Start: far,
		End:   c(0.01, 0.02),
		Path:  []geo.Coordinate{far, c(0.01, 0.02)},
	}
	p1.BoundaryEdgeIDs = append(p1.BoundaryEdgeIDs, "e9")

	merged := mergeTwo(&p1, &p2, "e2", edges)
	require.NotNil(t, merged)
	assert.NotContains(t, merged.BoundaryEdgeIDs, "e9")
}

func TestMergePolygonsKeepsMarkerSizedPolygons(t *testing.T) {
	// A block large enough for the marker box survives untouched.
	s := 0.005
	boundary := []geo.Coordinate{c(0, 0), c(0, s), c(s, s), c(s, 0)}
	big := model.Polygon{
		ID:              "poly_big",
		Centroid:        c(s/2, s/2),
		Boundary:        boundary,
		BoundaryEdgeIDs: []string{"e1", "e2", "e3", "e4"},
		MergeCount:      1,
	}

	out := MergePolygons([]model.Polygon{big}, map[string]*model.Edge{}, DefaultConfig())
	require.Len(t, out, 1)
	assert.Equal(t, "poly_big", out[0].ID)
	assert.Equal(t, 1, out[0].MergeCount)
}

func TestMergePolygonsRemovesIsolatedUndersized(t *testing.T) {
	p1, _, edges := tinyBlockPair()

	// Undersized with no neighbor to absorb it: a border polygon, removed.
	out := MergePolygons([]model.Polygon{p1}, edges, DefaultConfig())
	assert.Empty(t, out)
}

func TestMergePolygonsFixpoint(t *testing.T) {
	p1, p2, edges := tinyBlockPair()

	// The pair merges on the first pass; the merged rectangle is still
	// undersized and has no neighbor left, so it is removed on the next.
	out := MergePolygons([]model.Polygon{p1, p2}, edges, DefaultConfig())
	assert.Empty(t, out)
}

func TestMergePolygonsIterationCap(t *testing.T) {
	p1, p2, edges := tinyBlockPair()

	cfg := DefaultConfig()
	cfg.MergeIterations = 1

	// One pass only: the merge happens, the border removal pass does not.
	out := MergePolygons([]model.Polygon{p1, p2}, edges, cfg)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].MergeCount)
}

func TestSymmetricDifference(t *testing.T) {
	out := symmetricDifference([]string{"a", "b", "cc"}, []string{"b", "d"})
	assert.Equal(t, []string{"a", "cc", "d"}, out)
	assert.Empty(t, symmetricDifference([]string{"x"}, []string{"x"}))
}
