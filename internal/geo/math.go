package geo

import "math"

// EarthRadius is the mean earth radius in meters, used for arc lengths along
// traced paths.
const EarthRadius = 6371000.0

// Haversine returns the great-circle distance between two coordinates in
// meters.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180.0
	lon1 := a.Lon * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	lon2 := b.Lon * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

// PathLength returns the summed haversine length of a polyline in meters.
func PathLength(path []Coordinate) float64 {
	var total float64
	for i := 0; i < len(path)-1; i++ {
		total += Haversine(path[i], path[i+1])
	}
	return total
}

// PlanarDistance returns the Euclidean distance between two coordinates in
// degrees. Only useful where ordering matters, such as nearest-entity lookups
// inside a small region.
func PlanarDistance(a, b Coordinate) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}
