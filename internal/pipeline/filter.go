package pipeline

import (
	"github.com/rs/zerolog/log"

	"github.com/crazywalk/streetgraph/internal/geo"
	"github.com/crazywalk/streetgraph/internal/model"
)

// Mode selects how the visibility filter anchors itself.
type Mode string

const (
	// ModeInitial anchors on the restore list when given, otherwise on the
	// waypoint nearest to the requested coordinate.
	ModeInitial Mode = "initial"
	// ModeExpand anchors on the junction nearest to the tapped coordinate.
	ModeExpand Mode = "expand"
)

// ParseMode validates a request mode string.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeInitial, ModeExpand:
		return Mode(s), true
	}
	return "", false
}

// Filter restricts the bundle to the graph subset reachable from the anchor
// polygon set and recomputes all statistics against the kept universe. The
// input bundle is not modified. A restore list is always applied, even when
// none of its ids survive; only the nearest-element paths fall back to the
// full graph when they cannot resolve an anchor.
func Filter(b *model.Bundle, mode Mode, at geo.Coordinate, restore []string) *model.Bundle {
	anchor, ok := resolveAnchor(b, mode, at, restore)
	if !ok {
		log.Debug().Str("mode", string(mode)).Msg("No filter anchor resolved, returning full graph")
		return b
	}

	out := b.Clone()

	keptPolys := out.Polygons[:0]
	keepEdge := make(map[string]struct{})
	for _, p := range out.Polygons {
		if _, ok := anchor[p.ID]; !ok {
			continue
		}
		keptPolys = append(keptPolys, p)
		for _, eid := range p.BoundaryEdgeIDs {
			keepEdge[eid] = struct{}{}
		}
	}
	out.Polygons = keptPolys

	keepJunction := make(map[geo.NodeKey]struct{})
	keptEdges := out.Edges[:0]
	for _, e := range out.Edges {
		if _, ok := keepEdge[e.ID]; !ok {
			continue
		}
		keptEdges = append(keptEdges, e)
		keepJunction[e.Start.Key()] = struct{}{}
		keepJunction[e.End.Key()] = struct{}{}
	}
	out.Edges = keptEdges

	keptJunctions := out.Junctions[:0]
	for _, j := range out.Junctions {
		if _, ok := keepJunction[j.Coordinate().Key()]; ok {
			keptJunctions = append(keptJunctions, j)
		}
	}
	out.Junctions = keptJunctions

	keptWaypoints := out.Waypoints[:0]
	for _, w := range out.Waypoints {
		if _, ok := keepEdge[w.ParentEdgeID]; ok {
			keptWaypoints = append(keptWaypoints, w)
		}
	}
	out.Waypoints = keptWaypoints

	// Raw degrees survive the cut so apparent completeness can only shrink:
	// a junction saturated against the full graph may show missing polygons
	// here, never the reverse.
	Enrich(out)

	log.Debug().
		Str("mode", string(mode)).
		Int("polygons", len(out.Polygons)).
		Int("edges", len(out.Edges)).
		Int("junctions", len(out.Junctions)).
		Msg("Filtered graph to anchor subset")
	return out
}

// resolveAnchor returns the polygon-id set the filter keeps. A restore list
// is taken verbatim without checking the ids against the bundle: stale ids
// simply match no polygon, so a fully stale list keeps nothing rather than
// widening back to the full graph.
func resolveAnchor(b *model.Bundle, mode Mode, at geo.Coordinate, restore []string) (map[string]struct{}, bool) {
	anchor := make(map[string]struct{})

	if mode == ModeInitial && len(restore) > 0 {
		for _, id := range restore {
			anchor[id] = struct{}{}
		}
		return anchor, true
	}

	switch mode {
	case ModeInitial:
		if w := nearestWaypoint(b, at); w != nil {
			for _, id := range w.ConnectedPolygonIDs {
				anchor[id] = struct{}{}
			}
		}
	case ModeExpand:
		if j := nearestJunction(b, at); j != nil {
			for _, id := range j.ConnectedPolygonIDs {
				anchor[id] = struct{}{}
			}
		}
	}
	return anchor, len(anchor) > 0
}

func nearestWaypoint(b *model.Bundle, at geo.Coordinate) *model.Waypoint {
	var best *model.Waypoint
	bestDist := 0.0
	for i := range b.Waypoints {
		w := &b.Waypoints[i]
		d := geo.PlanarDistance(at, w.Coordinate())
		if best == nil || d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}

func nearestJunction(b *model.Bundle, at geo.Coordinate) *model.Junction {
	var best *model.Junction
	bestDist := 0.0
	for i := range b.Junctions {
		j := &b.Junctions[i]
		d := geo.PlanarDistance(at, j.Coordinate())
		if best == nil || d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}
