package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazywalk/streetgraph/internal/geo"
	"github.com/crazywalk/streetgraph/internal/model"
)

func TestParseMode(t *testing.T) {
	mode, ok := ParseMode("initial")
	assert.True(t, ok)
	assert.Equal(t, ModeInitial, mode)

	mode, ok = ParseMode("expand")
	assert.True(t, ok)
	assert.Equal(t, ModeExpand, mode)

	_, ok = ParseMode("teleport")
	assert.False(t, ok)
}

func TestFilterInitialNearestWaypoint(t *testing.T) {
	bundle := runTwoBlocks(t)

	// Spawn near the left block's far corner: the nearest waypoint sits on
	// one of its boundary edges, anchoring only that polygon.
	out := Filter(bundle, ModeInitial, c(0.0005, 0.0001), nil)

	require.Len(t, out.Polygons, 1)
	assert.Len(t, out.Edges, 4, "the kept polygon's boundary only")
	assert.Len(t, out.Junctions, 4)
}

func TestFilterInitialRestoreList(t *testing.T) {
	bundle := runTwoBlocks(t)
	want := bundle.Polygons[1].ID

	out := Filter(bundle, ModeInitial, geo.Coordinate{}, []string{want, "poly_bogus"})

	require.Len(t, out.Polygons, 1)
	assert.Equal(t, want, out.Polygons[0].ID, "restore ids are taken verbatim")
}

func TestFilterExpandNearestJunction(t *testing.T) {
	bundle := runTwoBlocks(t)

	// Tap on a shared corner: both polygons touch it and both stay.
	out := Filter(bundle, ModeExpand, c(0, 0.001), nil)
	assert.Len(t, out.Polygons, 2)
}

func TestFilterSubsetInvariants(t *testing.T) {
	bundle := runTwoBlocks(t)
	out := Filter(bundle, ModeExpand, c(0.0005, 0.0001), nil)

	fullEdges := make(map[string]struct{})
	for _, e := range bundle.Edges {
		fullEdges[e.ID] = struct{}{}
	}
	keptEdges := make(map[string]struct{})
	for _, e := range out.Edges {
		_, inFull := fullEdges[e.ID]
		assert.True(t, inFull, "filtered edges are a subset of the full graph")
		keptEdges[e.ID] = struct{}{}
	}

	keptJunctions := make(map[string]struct{})
	for _, j := range out.Junctions {
		keptJunctions[j.ID] = struct{}{}
	}
	for _, j := range out.Junctions {
		for _, id := range j.ConnectedEdgeIDs {
			_, ok := keptEdges[id]
			assert.True(t, ok, "kept junction references only kept edges")
		}
	}
	for _, e := range out.Edges {
		_, ok := keptJunctions[e.StartJunctionID]
		assert.True(t, ok)
		_, ok = keptJunctions[e.EndJunctionID]
		assert.True(t, ok)
	}
	for _, w := range out.Waypoints {
		_, ok := keptEdges[w.ParentEdgeID]
		assert.True(t, ok, "kept waypoint rides a kept edge")
	}
}

func TestFilterOnlyReducesCompleteness(t *testing.T) {
	bundle := runTwoBlocks(t)
	out := Filter(bundle, ModeInitial, c(0.0005, 0.0001), nil)

	fullByID := make(map[string]model.Junction)
	for _, j := range bundle.Junctions {
		fullByID[j.ID] = j
	}

	for _, j := range out.Junctions {
		full, ok := fullByID[j.ID]
		require.True(t, ok)
		assert.Equal(t, full.Connections, j.Connections, "raw degree survives the cut")
		assert.LessOrEqual(t, len(j.ConnectedPolygonIDs), len(full.ConnectedPolygonIDs))
		assert.LessOrEqual(t, j.Stats.ConnectedLines, full.Stats.ConnectedLines)
		if !full.IsSaturated {
			assert.False(t, j.IsSaturated, "filtering must not create saturation")
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	bundle := runTwoBlocks(t)
	edgesBefore := len(bundle.Edges)
	polysBefore := len(bundle.Polygons)

	_ = Filter(bundle, ModeInitial, c(0.0005, 0.0001), nil)

	assert.Len(t, bundle.Edges, edgesBefore)
	assert.Len(t, bundle.Polygons, polysBefore)
}

func TestFilterStaleRestoreKeepsNothing(t *testing.T) {
	bundle := runTwoBlocks(t)

	// A restore list is the anchor verbatim: ids that match no polygon keep
	// nothing, they never widen visibility back to the full graph.
	out := Filter(bundle, ModeInitial, geo.Coordinate{}, []string{"poly_gone_1", "poly_gone_2"})

	assert.Empty(t, out.Polygons)
	assert.Empty(t, out.Edges)
	assert.Empty(t, out.Junctions)
	assert.Empty(t, out.Waypoints)
}

func TestFilterNoAnchorIsNoOp(t *testing.T) {
	bundle := runTwoBlocks(t)

	// Without a restore list the nearest-element paths need something to
	// anchor on; an unanchorable request returns the full graph.
	out := Filter(bundle, ModeInitial, geo.Coordinate{}, nil)
	assert.NotEmpty(t, out.Polygons)

	empty := &model.Bundle{}
	assert.Equal(t, empty, Filter(empty, ModeExpand, c(0, 0), nil))
}
