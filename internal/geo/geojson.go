package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and
// properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties"`
	Type       string                 `json:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature. Coordinates hold
// [lon, lat] for points, nested arrays for linestrings and polygons.
type GeoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// PointGeometry builds a GeoJSON Point from a coordinate.
func PointGeometry(c Coordinate) GeoJSONGeometry {
	return GeoJSONGeometry{
		Type:        "Point",
		Coordinates: []float64{c.Lon, c.Lat},
	}
}

// LineStringGeometry builds a GeoJSON LineString from a polyline.
func LineStringGeometry(path []Coordinate) GeoJSONGeometry {
	coords := make([][]float64, 0, len(path))
	for _, c := range path {
		coords = append(coords, []float64{c.Lon, c.Lat})
	}
	return GeoJSONGeometry{Type: "LineString", Coordinates: coords}
}

// PolygonGeometry builds a GeoJSON Polygon with a single exterior ring,
// closing it when the input leaves it open.
func PolygonGeometry(ring []Coordinate) GeoJSONGeometry {
	coords := make([][]float64, 0, len(ring)+1)
	for _, c := range ring {
		coords = append(coords, []float64{c.Lon, c.Lat})
	}
	if len(coords) > 0 {
		first, last := coords[0], coords[len(coords)-1]
		if first[0] != last[0] || first[1] != last[1] {
			coords = append(coords, first)
		}
	}
	return GeoJSONGeometry{Type: "Polygon", Coordinates: [][][]float64{coords}}
}
