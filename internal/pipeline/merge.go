package pipeline

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/crazywalk/streetgraph/internal/geometry"
	"github.com/crazywalk/streetgraph/internal/model"
)

const (
	// mergeEpsilon is the outward/inward dilation (degrees) that dissolves
	// coincident-but-not-bit-identical shared edges before the union.
	mergeEpsilon = 1e-7

	// ghostTubeRadius is the boundary-tube half-width (degrees) an edge must
	// mostly fall inside to survive a merge.
	ghostTubeRadius = 4e-5

	// ghostCoverageMin is the minimum fraction of an edge polyline's length
	// inside the tube; anything below is a ghost and is discarded.
	ghostCoverageMin = 0.15
)

// MergePolygons absorbs polygons too small to host the fixed-size UI marker
// into a neighbor, iterating to a fixpoint or the iteration cap. A polygon
// whose marker does not fit but that shares no boundary edge with another
// polygon is removed as a border polygon; the loss is logged.
func MergePolygons(polygons []model.Polygon, edges map[string]*model.Edge, cfg Config) []model.Polygon {
	iterations := cfg.MergeIterations
	if iterations <= 0 {
		iterations = 10
	}

	for iter := 0; iter < iterations; iter++ {
		// edge id -> polygons bordering it
		edgeToPolys := make(map[string][]int)
		for i := range polygons {
			for _, id := range polygons[i].BoundaryEdgeIDs {
				edgeToPolys[id] = append(edgeToPolys[id], i)
			}
		}

		// Blue edges per polygon: if the marker box does not fit inside
		// the ring, every boundary edge becomes a merge candidate.
		blue := make(map[int][]string)
		for i := range polygons {
			p := &polygons[i]
			ring := geometry.FromCoordinates(p.Boundary)
			bmin, bmax := geometry.MarkerBox(p.Centroid, p.LabelDirection.Angle)
			if !geometry.BoxInsideRing(bmin, bmax, ring) {
				ids := append([]string(nil), p.BoundaryEdgeIDs...)
				sort.Strings(ids)
				blue[i] = ids
			}
		}

		if len(blue) == 0 {
			break
		}
		log.Debug().
			Int("iteration", iter).
			Int("with_blue_edges", len(blue)).
			Msg("Polygon merge pass")

		consumed := make(map[int]struct{})
		removed := make(map[int]struct{})
		var next []model.Polygon
		merges := 0

		for i := range polygons {
			if _, done := consumed[i]; done {
				continue
			}
			if _, gone := removed[i]; gone {
				continue
			}

			blueIDs, hasBlue := blue[i]
			if hasBlue {
				neighbor, sharedID := findMergeCandidate(i, blueIDs, edgeToPolys, consumed, removed)
				if neighbor >= 0 {
					merged := mergeTwo(&polygons[i], &polygons[neighbor], sharedID, edges)
					if merged != nil {
						consumed[i] = struct{}{}
						consumed[neighbor] = struct{}{}
						next = append(next, *merged)
						merges++
						continue
					}
				} else {
					// Border polygon: undersized but without a mergeable
					// neighbor. Dropped, which loses playable area at the
					// region boundary.
					removed[i] = struct{}{}
					log.Info().Str("polygon", polygons[i].ID).Msg("Removed border polygon with no merge neighbor")
					continue
				}
			}

			next = append(next, polygons[i])
		}

		polygons = next
		if merges == 0 {
			break
		}
	}

	return polygons
}

// findMergeCandidate picks the lexicographically smallest blue edge shared
// with another live polygon.
func findMergeCandidate(self int, blueIDs []string, edgeToPolys map[string][]int, consumed, removed map[int]struct{}) (neighbor int, sharedID string) {
	for _, id := range blueIDs {
		for _, candidate := range edgeToPolys[id] {
			if candidate == self {
				continue
			}
			if _, done := consumed[candidate]; done {
				continue
			}
			if _, gone := removed[candidate]; gone {
				continue
			}
			return candidate, id
		}
	}
	return -1, ""
}

// mergeTwo unions two polygons geometrically and rebuilds the combined
// boundary with ghost-edge validation. Returns nil when the union produces
// no usable ring.
func mergeTwo(a, b *model.Polygon, sharedID string, edges map[string]*model.Edge) *model.Polygon {
	ringA := geometry.FromCoordinates(a.Boundary)
	ringB := geometry.FromCoordinates(b.Boundary)
	if len(ringA) < 4 || len(ringB) < 4 {
		return nil
	}

	// Grow, union, shrink: the epsilon dilation welds shared edges that
	// drifted apart by floating error.
	pieces := geometry.Union(geometry.Offset(ringA, mergeEpsilon), geometry.Offset(ringB, mergeEpsilon))
	if len(pieces) == 0 {
		log.Warn().Str("a", a.ID).Str("b", b.ID).Msg("Polygon union produced nothing")
		return nil
	}
	if len(pieces) > 1 {
		// Disjoint result; keep the largest piece. Lossy, but the inputs
		// were supposed to share an edge.
		log.Warn().Str("a", a.ID).Str("b", b.ID).Int("pieces", len(pieces)).Msg("Union split into pieces, keeping largest")
	}
	merged := geometry.Offset(geometry.Largest(pieces), -mergeEpsilon)
	if len(merged) < 4 {
		return nil
	}

	log.Debug().Str("a", a.ID).Str("b", b.ID).Str("shared_edge", sharedID).Msg("Merging polygons")
	centroid, _ := geometry.CentroidArea(merged)

	// Provenance: keep the larger original polygon's pre-merge area and
	// centroid through arbitrary merge chains.
	largestArea, largestCentroid := a.LargestOriginalArea, a.LargestOriginalCentroid
	if b.LargestOriginalArea > largestArea {
		largestArea, largestCentroid = b.LargestOriginalArea, b.LargestOriginalCentroid
	}

	// Candidate surviving edges: symmetric difference of the two boundary
	// sets. The shared internal edge is on both sides and drops outright.
	candidates := symmetricDifference(a.BoundaryEdgeIDs, b.BoundaryEdgeIDs)

	var surviving []string
	ghosts := 0
	for _, id := range candidates {
		edge, ok := edges[id]
		if !ok || len(edge.Path) < 2 {
			continue
		}
		coverage := geometry.TubeCoverage(edge.Path, merged, ghostTubeRadius)
		if coverage > ghostCoverageMin {
			surviving = append(surviving, id)
		} else {
			ghosts++
			log.Debug().Str("edge", id).Float64("coverage", coverage).Msg("Dropped ghost edge after merge")
		}
	}
	if ghosts > 0 {
		log.Info().Str("merged", a.ID+"+"+b.ID).Int("ghost_edges", ghosts).Msg("Ghost edges removed by merge validation")
	}

	angle, maxDist := geometry.LabelDirection(merged, centroid)

	return &model.Polygon{
		ID:                      model.CentroidID(centroid),
		Centroid:                centroid,
		Boundary:                geometry.ToCoordinates(merged),
		BoundaryEdgeIDs:         surviving,
		TotalPoints:             a.TotalPoints + b.TotalPoints,
		LabelDirection:          model.LabelDirection{Angle: angle, MaxDistance: maxDist},
		MergeCount:              a.MergeCount + b.MergeCount,
		LargestOriginalArea:     largestArea,
		LargestOriginalCentroid: largestCentroid,
	}
}

// symmetricDifference returns ids present in exactly one of the two slices,
// sorted.
func symmetricDifference(a, b []string) []string {
	counts := make(map[string]int, len(a)+len(b))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]++
	}
	var out []string
	for id, c := range counts {
		if c == 1 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
