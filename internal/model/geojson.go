package model

import "github.com/crazywalk/streetgraph/internal/geo"

// GeoJSON flattens the bundle into a FeatureCollection for inspection in
// standard map tooling. Junctions and waypoints become points, edges become
// linestrings, polygons become polygon features; stats land in properties.
func (b *Bundle) GeoJSON() geo.GeoJSONFeatureCollection {
	fc := geo.GeoJSONFeatureCollection{Type: "FeatureCollection"}

	for i := range b.Polygons {
		p := &b.Polygons[i]
		fc.Features = append(fc.Features, geo.GeoJSONFeature{
			Type:     "Feature",
			Geometry: geo.PolygonGeometry(p.Boundary),
			Properties: map[string]interface{}{
				"id":           p.ID,
				"kind":         "polygon",
				"total_points": p.TotalPoints,
				"merge_count":  p.MergeCount,
				"neighbors":    len(p.NeighborPolygonIDs),
			},
		})
	}

	for i := range b.Edges {
		e := &b.Edges[i]
		fc.Features = append(fc.Features, geo.GeoJSONFeature{
			Type:     "Feature",
			Geometry: geo.LineStringGeometry(e.Path),
			Properties: map[string]interface{}{
				"id":        e.ID,
				"kind":      "edge",
				"length":    e.Length,
				"waypoints": len(e.WaypointIDs),
				"polygons":  len(e.ConnectedPolygonIDs),
			},
		})
	}

	for i := range b.Junctions {
		j := &b.Junctions[i]
		fc.Features = append(fc.Features, geo.GeoJSONFeature{
			Type:     "Feature",
			Geometry: geo.PointGeometry(j.Coordinate()),
			Properties: map[string]interface{}{
				"id":                 j.ID,
				"kind":               "junction",
				"connections":        j.Connections,
				"active_connections": j.ActiveConnections,
				"is_saturated":       j.IsSaturated,
			},
		})
	}

	for i := range b.Waypoints {
		w := &b.Waypoints[i]
		fc.Features = append(fc.Features, geo.GeoJSONFeature{
			Type:     "Feature",
			Geometry: geo.PointGeometry(w.Coordinate()),
			Properties: map[string]interface{}{
				"id":             w.ID,
				"kind":           "waypoint",
				"parent_edge_id": w.ParentEdgeID,
			},
		})
	}

	return fc
}
