package pipeline

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/crazywalk/streetgraph/internal/geo"
	"github.com/crazywalk/streetgraph/internal/model"
)

// Enrich derives all cross-reference and display statistics over the final
// entity sets, in place: junction active degrees and edge links, polygon
// membership via boundary topology, saturation flags, per-edge slots,
// waypoint inheritance, stale-reference sanitization and polygon neighbor
// sets. Junctions left without any accepted edge are dropped.
func Enrich(b *model.Bundle) {
	type nodeInfo struct {
		count   int
		edgeIDs []string
	}

	// Degree against accepted edges only, by fixed-precision endpoint key.
	nodes := make(map[geo.NodeKey]*nodeInfo)
	touch := func(c geo.Coordinate, edgeID string) {
		k := c.Key()
		info := nodes[k]
		if info == nil {
			info = &nodeInfo{}
			nodes[k] = info
		}
		info.count++
		info.edgeIDs = append(info.edgeIDs, edgeID)
	}
	for i := range b.Edges {
		e := &b.Edges[i]
		touch(e.Start, e.ID)
		touch(e.End, e.ID)
	}

	kept := b.Junctions[:0]
	droppedJunctions := 0
	for _, j := range b.Junctions {
		info := nodes[j.Coordinate().Key()]
		if info == nil || info.count == 0 {
			droppedJunctions++
			continue
		}
		j.ActiveConnections = info.count
		j.ConnectedEdgeIDs = append([]string(nil), info.edgeIDs...)
		sort.Strings(j.ConnectedEdgeIDs)
		kept = append(kept, j)
	}
	b.Junctions = kept
	if droppedJunctions > 0 {
		log.Debug().Int("junctions_dropped", droppedJunctions).Msg("Dropped junctions with no accepted edges")
	}

	junctionByKey := make(map[geo.NodeKey]*model.Junction, len(b.Junctions))
	for i := range b.Junctions {
		junctionByKey[b.Junctions[i].Coordinate().Key()] = &b.Junctions[i]
	}
	edgeByID := make(map[string]*model.Edge, len(b.Edges))
	for i := range b.Edges {
		edgeByID[b.Edges[i].ID] = &b.Edges[i]
	}

	// Polygon membership: junctions are linked through their boundary
	// edges' endpoints, never by point-in-polygon containment; merging can
	// shift ring vertices off the true junction coordinates.
	junctionPolys := make(map[string]map[string]struct{})
	edgePolys := make(map[string]map[string]struct{})
	for i := range b.Polygons {
		p := &b.Polygons[i]
		for _, edgeID := range p.BoundaryEdgeIDs {
			e, ok := edgeByID[edgeID]
			if !ok {
				continue
			}

			if set := edgePolys[edgeID]; set == nil {
				edgePolys[edgeID] = map[string]struct{}{p.ID: {}}
			} else {
				set[p.ID] = struct{}{}
			}

			for _, endpoint := range []geo.Coordinate{e.Start, e.End} {
				if j, found := junctionByKey[endpoint.Key()]; found {
					if set := junctionPolys[j.ID]; set == nil {
						junctionPolys[j.ID] = map[string]struct{}{p.ID: {}}
					} else {
						set[p.ID] = struct{}{}
					}
				}
			}
		}
	}

	validPolygons := make(map[string]struct{}, len(b.Polygons))
	for i := range b.Polygons {
		validPolygons[b.Polygons[i].ID] = struct{}{}
	}

	for i := range b.Junctions {
		j := &b.Junctions[i]
		j.ConnectedPolygonIDs = sortedIDs(junctionPolys[j.ID])
		polyCount := len(j.ConnectedPolygonIDs)

		// Each tallied polygon accounts for two of the junction's sectors,
		// clamped to the raw degree.
		connectedLines := polyCount * 2
		if connectedLines > j.Connections {
			connectedLines = j.Connections
		}
		j.Stats = model.Stats{
			ConnectedLines:       connectedLines,
			NotConnectedLines:    maxInt(0, j.Connections-connectedLines),
			ConnectedPolygons:    polyCount,
			NotConnectedPolygons: maxInt(0, j.Connections-polyCount),
		}
		j.IsSaturated = j.ActiveConnections > 0 && j.ActiveConnections == polyCount
	}

	staleRefs := 0
	for i := range b.Edges {
		e := &b.Edges[i]
		e.ConnectedPolygonIDs = sortedIDs(edgePolys[e.ID])
		e.ConnectedPolygonIDs, staleRefs = sanitize(e.ConnectedPolygonIDs, validPolygons, staleRefs)
		n := len(e.ConnectedPolygonIDs)
		e.Stats = model.Stats{
			ConnectedPolygons:    n,
			NotConnectedPolygons: maxInt(0, 2-n),
		}
	}

	for i := range b.Waypoints {
		w := &b.Waypoints[i]
		if parent, ok := edgeByID[w.ParentEdgeID]; ok {
			w.ConnectedPolygonIDs = append([]string(nil), parent.ConnectedPolygonIDs...)
		} else {
			w.ConnectedPolygonIDs = nil
		}
		n := len(w.ConnectedPolygonIDs)
		w.Stats = model.Stats{
			ConnectedPolygons:    n,
			NotConnectedPolygons: maxInt(0, 2-n),
		}
	}

	for i := range b.Junctions {
		j := &b.Junctions[i]
		j.ConnectedPolygonIDs, staleRefs = sanitize(j.ConnectedPolygonIDs, validPolygons, staleRefs)
	}
	if staleRefs > 0 {
		log.Warn().Int("stale_refs", staleRefs).Msg("Sanitized references to pruned polygons")
	}

	// Neighbor sets and boundary completeness per polygon.
	for i := range b.Polygons {
		p := &b.Polygons[i]
		neighbors := make(map[string]struct{})
		fullyConnected, missing := 0, 0

		for _, edgeID := range p.BoundaryEdgeIDs {
			e, ok := edgeByID[edgeID]
			if !ok {
				continue
			}
			if len(e.ConnectedPolygonIDs) >= 2 {
				fullyConnected++
			} else {
				missing++
			}
			for _, pid := range e.ConnectedPolygonIDs {
				if pid != p.ID {
					neighbors[pid] = struct{}{}
				}
			}
		}

		p.NeighborPolygonIDs = sortedIDs(neighbors)
		p.Stats = model.PolygonStats{
			ConnectedLines: fullyConnected,
			MissingLines:   missing,
		}
	}
}

// sanitize removes ids missing from the valid set and bumps the running
// stale counter.
func sanitize(ids []string, valid map[string]struct{}, stale int) ([]string, int) {
	out := ids[:0]
	for _, id := range ids {
		if _, ok := valid[id]; ok {
			out = append(out, id)
		} else {
			stale++
		}
	}
	return out, stale
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
