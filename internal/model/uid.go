package model

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/crazywalk/streetgraph/internal/geo"
)

// Entity kind prefixes. Ids are opaque, but the prefix lets a consumer
// type-check a reference without a schema lookup.
const (
	KindJunction = "jct"
	KindEdge     = "edge"
	KindWaypoint = "wpt"
	KindPolygon  = "poly"
)

// NewID returns a unique id of the form <kind>_xxxxxxxx (8 hex characters).
// Stateless; safe for concurrent use.
func NewID(kind string) string {
	u := uuid.New()
	return kind + "_" + hex.EncodeToString(u[:4])
}

// KindOf returns the kind prefix of an id, or "" when the id carries none.
func KindOf(id string) string {
	if i := strings.IndexByte(id, '_'); i > 0 {
		return id[:i]
	}
	return ""
}

// CentroidID derives a deterministic polygon id from the rounded centroid.
// Merged polygons use it so the same merged shape regenerates the same id.
func CentroidID(c geo.Coordinate) string {
	lat := strconv.FormatFloat(math.Round(c.Lat*1e5)/1e5, 'f', -1, 64)
	lon := strconv.FormatFloat(math.Round(c.Lon*1e5)/1e5, 'f', -1, 64)
	return strings.ReplaceAll(KindPolygon+"_"+lat+"_"+lon, ".", "")
}
