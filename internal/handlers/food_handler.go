package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/services"
)

func ListFood(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, lon, maxDistance, ok := origin(c)
		if !ok {
			return
		}
		minDays, ok := queryInt(c, "min_expiration_days")
		if !ok {
			return
		}
		list, err := cs.ListFood(c.Request.Context(), services.FoodQuery{
			FoodType:          c.Query("food_type"),
			Query:             c.Query("q"),
			Status:            c.Query("status"),
			MinExpirationDays: minDays,
			Latitude:          lat,
			Longitude:         lon,
			MaxDistance:       maxDistance,
		})
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"food_listings": nonNil(list)})
	}
}

func CreateFood(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		var in models.FoodListingInput
		if !decodeJSON(c, &in) {
			return
		}
		food, err := cs.CreateFood(c.Request.Context(), userID, in)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"food": food, "message": "Food listing created successfully"})
	}
}

func GetFood(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		food, err := cs.GetFood(c.Request.Context(), id)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"food": food})
	}
}

func UpdateFood(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		raw, ok := readBody(c)
		if !ok {
			return
		}
		if err := cs.AuthorizeFood(c.Request.Context(), id, userID); err != nil {
			helpers.RespondError(c, err)
			return
		}
		var patch models.FoodListingPatch
		if !bindBody(c, raw, &patch) {
			return
		}
		food, err := cs.UpdateFood(c.Request.Context(), id, patch, userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"food": food, "message": "Food listing updated successfully"})
	}
}

func DeleteFood(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := cs.DeleteFood(c.Request.Context(), id, userID); err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Food listing deleted successfully"})
	}
}

// ReserveFood is the food-only shortcut for POST /reservations.
func ReserveFood(ls *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			PickupTime *time.Time `json:"pickup_time"`
		}
		if c.Request.ContentLength > 0 && !decodeJSON(c, &req) {
			return
		}
		ref := models.ResourceRef{Type: models.ResourceFood, ID: id}
		reservation, err := ls.Reserve(c.Request.Context(), ref, userID, req.PickupTime)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"reservation": reservation, "message": "Reservation created successfully"})
	}
}
