// Package pipeline derives the playable graph from raw street segments:
// junction detection, edge tracing with waypoints, minimum-cycle polygon
// extraction, small-polygon merging, connectivity enrichment and visibility
// filtering.
package pipeline

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crazywalk/streetgraph/internal/geo"
	"github.com/crazywalk/streetgraph/internal/graph"
	"github.com/crazywalk/streetgraph/internal/model"
)

// Config holds the derivation knobs.
type Config struct {
	// WaypointSpacing is the target arc-length distance between waypoints on
	// an edge, in meters.
	WaypointSpacing float64

	// MergeEnabled toggles the small-polygon merge pass.
	MergeEnabled bool

	// MergeIterations caps the merge fixpoint loop.
	MergeIterations int

	// RegionSizes are the bounding-box half-sizes (degrees) tried in order
	// until generation succeeds.
	RegionSizes []float64

	// CacheTTL bounds how long an initial-mode bundle stays cached.
	CacheTTL time.Duration
}

// DefaultConfig mirrors the production tuning: 15 m waypoint spacing, merge
// pass on, regions of roughly 166 m, 555 m and 1100 m.
func DefaultConfig() Config {
	return Config{
		WaypointSpacing: 15.0,
		MergeEnabled:    true,
		MergeIterations: 10,
		RegionSizes:     []float64{0.0015, 0.005, 0.01},
		CacheTTL:        24 * time.Hour,
	}
}

// Run executes the sequential derivation on a raw segment set and returns
// the full (unfiltered) bundle. Soft failures are ErrInputUnavailable and
// ErrNoCyclesFound; everything else in the pass degrades locally.
func Run(segments []graph.Segment, cfg Config) (*model.Bundle, error) {
	if len(segments) == 0 {
		return nil, ErrInputUnavailable
	}

	network := graph.BuildNetwork(segments)
	if network.Empty() {
		return nil, ErrInputUnavailable
	}

	junctionKeys := network.Junctions()
	log.Debug().
		Int("segments", len(segments)).
		Int("junctions", len(junctionKeys)).
		Msg("Intersections identified")

	chains := graph.TraceChains(network)
	junctions, edges, waypoints := buildEntities(network, junctionKeys, chains, cfg)
	log.Debug().
		Int("edges", len(edges)).
		Int("waypoints", len(waypoints)).
		Msg("Edges traced")

	polygons, usedEdges, err := ExtractPolygons(junctions, edges, cfg)
	if err != nil {
		return nil, err
	}

	// Everything not on a polygon boundary is orphaned and pruned.
	edges, waypoints = pruneOrphans(edges, waypoints, usedEdges)

	if cfg.MergeEnabled {
		edgeIndex := make(map[string]*model.Edge, len(edges))
		for i := range edges {
			edgeIndex[edges[i].ID] = &edges[i]
		}
		polygons = MergePolygons(polygons, edgeIndex, cfg)

		// A merge can drop ghost edges from every boundary; re-prune.
		stillUsed := make(map[string]struct{})
		for i := range polygons {
			for _, id := range polygons[i].BoundaryEdgeIDs {
				stillUsed[id] = struct{}{}
			}
		}
		edges, waypoints = pruneOrphans(edges, waypoints, stillUsed)
	}

	bundle := &model.Bundle{
		Junctions: junctions,
		Edges:     edges,
		Waypoints: waypoints,
		Polygons:  polygons,
	}
	Enrich(bundle)
	return bundle, nil
}

// buildEntities turns junction keys and traced chains into model entities
// with allocated ids and interpolated waypoints.
func buildEntities(network *graph.Network, junctionKeys []geo.NodeKey, chains []graph.Chain, cfg Config) ([]model.Junction, []model.Edge, []model.Waypoint) {
	junctions := make([]model.Junction, 0, len(junctionKeys))
	junctionIDs := make(map[geo.NodeKey]string, len(junctionKeys))
	for _, k := range junctionKeys {
		c := network.Coordinate(k)
		id := model.NewID(model.KindJunction)
		junctionIDs[k] = id
		junctions = append(junctions, model.Junction{
			ID:          id,
			Lat:         c.Lat,
			Lon:         c.Lon,
			Connections: network.Degree(k),
		})
	}

	var edges []model.Edge
	var waypoints []model.Waypoint
	for _, chain := range chains {
		edge := model.Edge{
			ID:              model.NewID(model.KindEdge),
			StartJunctionID: junctionIDs[chain.Start],
			EndJunctionID:   junctionIDs[chain.End],
			Start:           chain.Path[0],
			End:             chain.Path[len(chain.Path)-1],
			Path:            chain.Path,
			Length:          chain.Length,
		}

		for _, c := range graph.InterpolateAlong(chain.Path, chain.Length, cfg.WaypointSpacing) {
			wp := model.Waypoint{
				ID:           model.NewID(model.KindWaypoint),
				Lat:          c.Lat,
				Lon:          c.Lon,
				ParentEdgeID: edge.ID,
			}
			edge.WaypointIDs = append(edge.WaypointIDs, wp.ID)
			waypoints = append(waypoints, wp)
		}

		edges = append(edges, edge)
	}

	return junctions, edges, waypoints
}

// pruneOrphans keeps only edges whose id is in used, and the waypoints that
// ride on them.
func pruneOrphans(edges []model.Edge, waypoints []model.Waypoint, used map[string]struct{}) ([]model.Edge, []model.Waypoint) {
	keptEdges := edges[:0]
	dropped := 0
	for _, e := range edges {
		if _, ok := used[e.ID]; ok {
			keptEdges = append(keptEdges, e)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Int("edges_pruned", dropped).Msg("Pruned orphaned edges")
	}

	keptIDs := make(map[string]struct{}, len(keptEdges))
	for i := range keptEdges {
		keptIDs[keptEdges[i].ID] = struct{}{}
	}

	keptWaypoints := waypoints[:0]
	for _, w := range waypoints {
		if _, ok := keptIDs[w.ParentEdgeID]; ok {
			keptWaypoints = append(keptWaypoints, w)
		}
	}

	return keptEdges, keptWaypoints
}

// sortedIDs returns the set contents as a sorted slice, for stable output.
func sortedIDs(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
