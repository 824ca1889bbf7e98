package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/services"
)

func SaveResource(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		ref, ok := resourceParam(c)
		if !ok {
			return
		}
		if _, err := f.Save(c.Request.Context(), userID, ref); err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Saved"})
	}
}

func UnsaveResource(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		ref, ok := resourceParam(c)
		if !ok {
			return
		}
		if err := f.Unsave(c.Request.Context(), userID, ref); err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from saved"})
	}
}

func ListSaved(f *services.FavouriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		items, err := f.List(c.Request.Context(), userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": items})
	}
}
