// Package model defines the playable graph entities produced by a generation
// pass: junctions, edges, waypoints and polygons, plus the bundle that groups
// them for a single request.
package model

import "github.com/crazywalk/streetgraph/internal/geo"

// Stats carries the per-entity completion counters rendered by the client.
type Stats struct {
	ConnectedLines       int `json:"connected_lines"`
	NotConnectedLines    int `json:"not_connected_lines"`
	ConnectedPolygons    int `json:"connected_polygons"`
	NotConnectedPolygons int `json:"not_connected_polygons"`
}

// Junction is a street-network node whose raw degree differs from 2: an
// intersection or a dead end.
type Junction struct {
	ID string `json:"id"`

	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Connections is the raw degree in the source network; ActiveConnections
	// counts only accepted edges.
	Connections       int `json:"connections"`
	ActiveConnections int `json:"active_connections"`

	ConnectedEdgeIDs    []string `json:"connected_edge_ids"`
	ConnectedPolygonIDs []string `json:"connected_polygon_ids"`

	IsSaturated bool  `json:"is_saturated"`
	Stats       Stats `json:"stats"`
}

// Coordinate returns the junction position.
func (j *Junction) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: j.Lat, Lon: j.Lon}
}

// Edge is a traced path between two junctions through any number of degree-2
// intermediate points.
type Edge struct {
	ID string `json:"id"`

	StartJunctionID string `json:"start_junction_id"`
	EndJunctionID   string `json:"end_junction_id"`

	Start geo.Coordinate   `json:"start"`
	End   geo.Coordinate   `json:"end"`
	Path  []geo.Coordinate `json:"path"`

	// Length is the summed haversine arc length in meters.
	Length float64 `json:"length"`

	WaypointIDs         []string `json:"waypoint_ids"`
	ConnectedPolygonIDs []string `json:"connected_polygon_ids"`

	Stats Stats `json:"stats"`
}

// Waypoint is an interpolated collectible point at fixed arc-length spacing
// along one edge.
type Waypoint struct {
	ID string `json:"id"`

	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	ParentEdgeID        string   `json:"parent_edge_id"`
	ConnectedPolygonIDs []string `json:"connected_polygon_ids"`

	Stats Stats `json:"stats"`
}

// Coordinate returns the waypoint position.
func (w *Waypoint) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: w.Lat, Lon: w.Lon}
}

// LabelDirection is the angle from a polygon centroid with the greatest clear
// distance to the boundary, used to place the secondary marker.
type LabelDirection struct {
	Angle       float64 `json:"angle"`        // radians
	MaxDistance float64 `json:"max_distance"` // degrees
}

// PolygonStats counts boundary edges shared with neighbors versus edges still
// missing a second polygon.
type PolygonStats struct {
	ConnectedLines int `json:"connected_lines"`
	MissingLines   int `json:"missing_lines"`
}

// Polygon is a simple closed region bounded by a minimal cycle of edges.
type Polygon struct {
	ID string `json:"id"`

	Centroid geo.Coordinate   `json:"centroid"`
	Boundary []geo.Coordinate `json:"boundary"`

	BoundaryEdgeIDs    []string `json:"boundary_edge_ids"`
	NeighborPolygonIDs []string `json:"neighbor_polygon_ids"`

	// TotalPoints counts collectibles inside the polygon: boundary waypoints
	// plus distinct boundary junctions.
	TotalPoints int `json:"total_points"`

	LabelDirection LabelDirection `json:"label_direction"`
	MergeCount     int            `json:"merge_count"`
	Stats          PolygonStats   `json:"stats"`

	// Merge provenance: the largest pre-merge polygon's area and centroid,
	// carried through merge chains so repeated absorption keeps a stable
	// visual center.
	LargestOriginalArea     float64        `json:"-"`
	LargestOriginalCentroid geo.Coordinate `json:"-"`
}

// Bundle is the self-contained graph snapshot for one request.
type Bundle struct {
	Junctions []Junction `json:"junctions"`
	Edges     []Edge     `json:"edges"`
	Waypoints []Waypoint `json:"waypoints"`
	Polygons  []Polygon  `json:"polygons"`

	// RegionSize is the bounding-box half-size in degrees the bundle was
	// generated from, reported for retry policy.
	RegionSize float64 `json:"region_size"`
}

// Clone returns a deep copy of the bundle. Filtering mutates derived fields,
// so cached full bundles must never be filtered in place.
func (b *Bundle) Clone() *Bundle {
	out := &Bundle{
		Junctions:  make([]Junction, len(b.Junctions)),
		Edges:      make([]Edge, len(b.Edges)),
		Waypoints:  make([]Waypoint, len(b.Waypoints)),
		Polygons:   make([]Polygon, len(b.Polygons)),
		RegionSize: b.RegionSize,
	}
	for i, j := range b.Junctions {
		j.ConnectedEdgeIDs = append([]string(nil), j.ConnectedEdgeIDs...)
		j.ConnectedPolygonIDs = append([]string(nil), j.ConnectedPolygonIDs...)
		out.Junctions[i] = j
	}
	for i, e := range b.Edges {
		e.Path = append([]geo.Coordinate(nil), e.Path...)
		e.WaypointIDs = append([]string(nil), e.WaypointIDs...)
		e.ConnectedPolygonIDs = append([]string(nil), e.ConnectedPolygonIDs...)
		out.Edges[i] = e
	}
	for i, w := range b.Waypoints {
		w.ConnectedPolygonIDs = append([]string(nil), w.ConnectedPolygonIDs...)
		out.Waypoints[i] = w
	}
	for i, p := range b.Polygons {
		p.Boundary = append([]geo.Coordinate(nil), p.Boundary...)
		p.BoundaryEdgeIDs = append([]string(nil), p.BoundaryEdgeIDs...)
		p.NeighborPolygonIDs = append([]string(nil), p.NeighborPolygonIDs...)
		out.Polygons[i] = p
	}
	return out
}
