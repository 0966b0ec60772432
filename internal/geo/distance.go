// Package geo computes great-circle distances on a spherical Earth.
package geo

import (
	"math"
)

// EarthRadiusMeters is the spherical Earth approximation used for all
// distance computations.
const EarthRadiusMeters = 6_371_000

// Distance returns the great-circle distance in meters between two
// latitude/longitude pairs, using the spherical law of cosines. The result
// is rounded to six decimal digits.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	// Coincident points must be exactly zero; the cosine sum below can land
	// a hair under 1.0 and turn them into a few centimeters.
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	p1 := radians(lat1)
	p2 := radians(lat2)
	dl := radians(lon2) - radians(lon1)

	// Rounding can push the cosine sum slightly past 1.0 when the points
	// coincide, which would take Acos out of its domain.
	c := math.Cos(p1)*math.Cos(p2)*math.Cos(dl) + math.Sin(p1)*math.Sin(p2)
	if c > 1.0 {
		c = 1.0
	}

	return round6(math.Acos(c) * EarthRadiusMeters)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
