package tracker

import (
	"ecotracker/internal/models"
	"math"
)

const earthRadiusKm = 6371

// DistanceKm is the haversine great-circle distance between two points.
// Accumulation does not use it; it only feeds the fix step metric.
func DistanceKm(prev, curr models.Location) float64 {
	dLat := toRad(curr.Latitude - prev.Latitude)
	dLng := toRad(curr.Longitude - prev.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(prev.Latitude))*math.Cos(toRad(curr.Latitude))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
