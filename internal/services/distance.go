package services

import (
	"github.com/joshua-takyi/foodshare/internal/helpers"
)

// Locatable is anything with an optional pickup location.
type Locatable interface {
	Location() (lat, lon float64, ok bool)
}

type distanceAnnotated interface {
	Locatable
	SetDistance(miles float64, label string)
}

// FilterByDistance keeps items that have no location or lie within maxMiles
// of the origin. Missing origin or radius disables the filter. Ranges are
// not validated here.
func FilterByDistance[T Locatable](items []T, originLat, originLon, maxMiles *float64) []T {
	if originLat == nil || originLon == nil || maxMiles == nil {
		return items
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		lat, lon, ok := item.Location()
		if !ok || helpers.HaversineMiles(*originLat, *originLon, lat, lon) <= *maxMiles {
			kept = append(kept, item)
		}
	}
	return kept
}

// annotateDistance stamps each located item with its distance from the origin.
func annotateDistance[T distanceAnnotated](items []T, originLat, originLon *float64) {
	if originLat == nil || originLon == nil {
		return
	}
	for _, item := range items {
		if lat, lon, ok := item.Location(); ok {
			miles := helpers.HaversineMiles(*originLat, *originLon, lat, lon)
			item.SetDistance(miles, helpers.FormatDistance(miles))
		}
	}
}
