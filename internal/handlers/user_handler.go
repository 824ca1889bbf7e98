package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/realtime"
	"github.com/joshua-takyi/foodshare/internal/services"
)

func GetProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		user, err := u.GetUser(c.Request.Context(), userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		var patch models.ProfilePatch
		if !decodeJSON(c, &patch) {
			return
		}
		user, err := u.UpdateProfile(c.Request.Context(), userID, patch)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "message": "Profile updated successfully"})
	}
}

// UserPosts lists another user's food listings.
func UserPosts(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		list, err := cs.ListFoodByOwner(c.Request.Context(), id)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"food_listings": nonNil(list)})
	}
}

// FoodPostings lists the caller's own food listings.
func FoodPostings(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		list, err := cs.ListFoodByOwner(c.Request.Context(), userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"food_listings": nonNil(list)})
	}
}

func FoodInterested(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		list, err := cs.InterestedFood(c.Request.Context(), userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"food_listings": nonNil(list)})
	}
}

func UserPresence(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		online, err := hub.IsOnline(c.Request.Context(), id)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id, "online": online})
	}
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
