package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/foodshare/internal/models"
)

func located(title string, lat, lon *float64) *models.FoodListing {
	return &models.FoodListing{Title: title, PickupLatitude: lat, PickupLongitude: lon}
}

func titles(list []*models.FoodListing) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.Title)
	}
	return out
}

func TestFilterByDistance(t *testing.T) {
	originLat, originLon := ptr(33.789), ptr(-84.326)
	items := []*models.FoodListing{
		located("near", ptr(33.792), ptr(-84.324)),
		located("far", ptr(34.789), ptr(-85.326)),
		located("unknown", nil, nil),
	}

	t.Run("keeps nearby and unlocated items", func(t *testing.T) {
		kept := FilterByDistance(items, originLat, originLon, ptr(1.0))
		assert.Equal(t, []string{"near", "unknown"}, titles(kept))
	})

	t.Run("wide radius keeps everything", func(t *testing.T) {
		kept := FilterByDistance(items, originLat, originLon, ptr(200.0))
		assert.Len(t, kept, 3)
	})

	t.Run("missing parameter disables the filter", func(t *testing.T) {
		assert.Len(t, FilterByDistance(items, nil, originLon, ptr(1.0)), 3)
		assert.Len(t, FilterByDistance(items, originLat, nil, ptr(1.0)), 3)
		assert.Len(t, FilterByDistance(items, originLat, originLon, nil), 3)
	})
}

func TestAnnotateDistance(t *testing.T) {
	items := []*models.FoodListing{
		located("near", ptr(33.792), ptr(-84.324)),
		located("unknown", nil, nil),
	}
	annotateDistance(items, ptr(33.789), ptr(-84.326))

	require.NotNil(t, items[0].DistanceMiles)
	assert.InDelta(t, 0.2368, *items[0].DistanceMiles, 0.001)
	assert.Equal(t, "0.2 miles", items[0].Distance)
	assert.Nil(t, items[1].DistanceMiles)
	assert.Empty(t, items[1].Distance)
}

func TestAnnotateDistanceWithoutOrigin(t *testing.T) {
	items := []*models.FoodListing{located("near", ptr(33.792), ptr(-84.324))}
	annotateDistance(items, nil, nil)
	assert.Nil(t, items[0].DistanceMiles)
}
