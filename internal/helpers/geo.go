package helpers

import (
	"fmt"
	"math"
)

// EarthRadiusMiles is the mean radius used for every distance in the API.
const EarthRadiusMiles = 3956.0

// HaversineMiles returns the great-circle distance between two points in miles.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return EarthRadiusMiles * c
}

func FormatDistance(miles float64) string {
	switch {
	case miles < 0.1:
		return "Nearby"
	case miles < 1:
		return fmt.Sprintf("%.1f miles", miles)
	default:
		return fmt.Sprintf("%d miles", int(math.Round(miles)))
	}
}
