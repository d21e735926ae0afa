package pipeline

import (
	"github.com/rs/zerolog/log"

	"github.com/crazywalk/streetgraph/internal/geo"
	"github.com/crazywalk/streetgraph/internal/geometry"
	"github.com/crazywalk/streetgraph/internal/graph"
	"github.com/crazywalk/streetgraph/internal/model"
)

const (
	// sliverArea is the square-degree area (~25-50 m²) below which a ring
	// cannot host gameplay and is discarded.
	sliverArea = 2e-9

	// suspiciousArea flags rings large enough to suggest a stitching error.
	// They are kept, but logged.
	suspiciousArea = 1e-4
)

// ExtractPolygons computes a minimum cycle basis over the junction/edge
// graph and stitches each basis cycle into a polygon ring. It returns the
// polygons plus the set of edge ids used by at least one boundary; edges
// outside that set are orphaned. A graph without cycles yields
// ErrNoCyclesFound.
func ExtractPolygons(junctions []model.Junction, edges []model.Edge, cfg Config) ([]model.Polygon, map[string]struct{}, error) {
	g := graph.NewWeightedGraph()
	edgeLookup := make(map[[2]geo.NodeKey]*model.Edge, len(edges))
	for i := range edges {
		e := &edges[i]
		u, v := e.Start.Key(), e.End.Key()
		g.AddEdge(u, v, e.Length)

		pair := orderedKeyPair(u, v)
		// Parallel chains between the same junctions collapse onto the
		// shorter one, matching the cycle graph's single-edge-per-pair rule.
		if existing, ok := edgeLookup[pair]; !ok || e.Length < existing.Length {
			edgeLookup[pair] = e
		}
	}

	cycles := g.MinimumCycleBasis()
	if len(cycles) == 0 {
		return nil, nil, ErrNoCyclesFound
	}

	var polygons []model.Polygon
	usedEdges := make(map[string]struct{})
	repairFailures := 0
	slivers := 0

	for _, cycle := range cycles {
		if len(cycle) < 3 {
			continue
		}

		var ringCoords []geo.Coordinate
		boundarySet := make(map[string]struct{})
		var boundaryIDs []string
		waypointTotal := 0
		cycleJunctions := make(map[geo.NodeKey]struct{})

		for i := range cycle {
			u := cycle[i]
			v := cycle[(i+1)%len(cycle)]
			cycleJunctions[u] = struct{}{}

			e, ok := edgeLookup[orderedKeyPair(u, v)]
			if !ok {
				// No traced edge for this hop; fall back to the straight
				// segment so the ring still closes.
				ringCoords = append(ringCoords, u.Coordinate())
				continue
			}

			if _, seen := boundarySet[e.ID]; !seen {
				boundarySet[e.ID] = struct{}{}
				boundaryIDs = append(boundaryIDs, e.ID)
				waypointTotal += len(e.WaypointIDs)
			}

			// Orient the stored polyline to start at u, then append all but
			// its last point; the next hop supplies it.
			path := e.Path
			if path[len(path)-1].Key() == u {
				for j := len(path) - 1; j >= 1; j-- {
					ringCoords = append(ringCoords, path[j])
				}
			} else {
				ringCoords = append(ringCoords, path[:len(path)-1]...)
			}
		}

		if len(ringCoords) < 3 {
			continue
		}
		ringCoords = append(ringCoords, ringCoords[0])

		ring, ok := geometry.MakeValid(geometry.FromCoordinates(ringCoords))
		if !ok {
			repairFailures++
			log.Warn().Int("vertices", len(ringCoords)).Msg("Dropping unrepairable polygon ring")
			continue
		}

		centroid, area := geometry.CentroidArea(ring)
		if area < sliverArea {
			slivers++
			continue
		}
		if area > suspiciousArea {
			log.Warn().
				Float64("area_deg2", area).
				Float64("lat", centroid.Lat).
				Float64("lon", centroid.Lon).
				Msg("Suspiciously large polygon, possible ghost ring")
		}

		angle, maxDist := geometry.LabelDirection(ring, centroid)

		polygons = append(polygons, model.Polygon{
			ID:                      model.NewID(model.KindPolygon),
			Centroid:                centroid,
			Boundary:                geometry.ToCoordinates(ring),
			BoundaryEdgeIDs:         boundaryIDs,
			TotalPoints:             waypointTotal + len(cycleJunctions),
			LabelDirection:          model.LabelDirection{Angle: angle, MaxDistance: maxDist},
			MergeCount:              1,
			LargestOriginalArea:     area,
			LargestOriginalCentroid: centroid,
		})
		for _, id := range boundaryIDs {
			usedEdges[id] = struct{}{}
		}
	}

	if repairFailures > 0 || slivers > 0 {
		log.Info().
			Int("repair_failures", repairFailures).
			Int("slivers", slivers).
			Int("polygons", len(polygons)).
			Msg("Polygon extraction discards")
	}

	if len(polygons) == 0 {
		return nil, nil, ErrNoCyclesFound
	}
	return polygons, usedEdges, nil
}

func orderedKeyPair(a, b geo.NodeKey) [2]geo.NodeKey {
	if b.Less(a) {
		a, b = b, a
	}
	return [2]geo.NodeKey{a, b}
}
