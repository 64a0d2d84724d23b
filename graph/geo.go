package graph

import (
	"math"
)

const earthRadiusKm = 6371

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Great-circle distance in km between two coordinates.
func Distance(aLat, aLon, bLat, bLon float64) float64 {
	dLat := radians(bLat - aLat)
	dLon := radians(bLon - aLon)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(aLat))*math.Cos(radians(bLat))*math.Pow(math.Sin(dLon/2), 2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
