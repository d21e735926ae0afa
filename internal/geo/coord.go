// Package geo handles geographic primitives and coordinate identity.
package geo

import "math"

const (
	// keyScale fixes node identity at 1e-7 degrees (~11 mm). Graph lookups
	// never compare raw floats.
	keyScale = 1e7

	// MetersPerDegree approximates one degree of latitude at street scale.
	MetersPerDegree = 111000.0
)

// Coordinate is a WGS84 (lat, lon) pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NodeKey identifies a coordinate for graph purposes at fixed precision.
type NodeKey struct {
	Lat int64
	Lon int64
}

// Key returns the fixed-precision identity of c.
func (c Coordinate) Key() NodeKey {
	return NodeKey{
		Lat: int64(math.Round(c.Lat * keyScale)),
		Lon: int64(math.Round(c.Lon * keyScale)),
	}
}

// Coordinate converts the key back to its canonicalized coordinate.
func (k NodeKey) Coordinate() Coordinate {
	return Coordinate{
		Lat: float64(k.Lat) / keyScale,
		Lon: float64(k.Lon) / keyScale,
	}
}

// Less orders keys by latitude then longitude, for deterministic iteration.
func (k NodeKey) Less(o NodeKey) bool {
	if k.Lat != o.Lat {
		return k.Lat < o.Lat
	}
	return k.Lon < o.Lon
}

// BoundingBox is a latitude/longitude aligned region.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Around builds a box centered on (lat, lon) with the given half-size in
// degrees.
func Around(lat, lon, halfSize float64) BoundingBox {
	return BoundingBox{
		MinLat: lat - halfSize,
		MinLon: lon - halfSize,
		MaxLat: lat + halfSize,
		MaxLon: lon + halfSize,
	}
}
