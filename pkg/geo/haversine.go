// Package geo provides great-circle distance math for geographic coordinates.
package geo

import "math"

// Earth radii used for haversine distances.
const (
	EarthRadiusMiles = 3958.8
	EarthRadiusKm    = 6371.0
)

// Point is a latitude/longitude pair in degrees
type Point struct {
	Lat float64
	Lng float64
}

// Distance returns the great-circle distance between a and b using the
// haversine formula. The result is in the same unit as radius.
func Distance(a, b Point, radius float64) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return radius * c
}

// DistanceMiles returns the great-circle distance in statute miles.
func DistanceMiles(a, b Point) float64 {
	return Distance(a, b, EarthRadiusMiles)
}

// DistanceKm returns the great-circle distance in kilometers.
func DistanceKm(a, b Point) float64 {
	return Distance(a, b, EarthRadiusKm)
}
