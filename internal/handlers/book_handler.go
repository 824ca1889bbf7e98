package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/services"
)

func ListBooks(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, lon, maxDistance, ok := origin(c)
		if !ok {
			return
		}
		list, err := cs.ListBooks(c.Request.Context(), services.BookQuery{
			Genre:       c.Query("genre"),
			Query:       c.Query("q"),
			Status:      c.Query("status"),
			Latitude:    lat,
			Longitude:   lon,
			MaxDistance: maxDistance,
		})
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"book_listings": nonNil(list)})
	}
}

func CreateBook(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		var in models.BookListingInput
		if !decodeJSON(c, &in) {
			return
		}
		book, err := cs.CreateBook(c.Request.Context(), userID, in)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"book": book, "message": "Book listing created successfully"})
	}
}

func GetBook(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		book, err := cs.GetBook(c.Request.Context(), id)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"book": book})
	}
}

func UpdateBook(cs *services.CatalogService) gin.HandlerFunc {
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
		if err := cs.AuthorizeBook(c.Request.Context(), id, userID); err != nil {
			helpers.RespondError(c, err)
			return
		}
		var patch models.BookListingPatch
		if !bindBody(c, raw, &patch) {
			return
		}
		book, err := cs.UpdateBook(c.Request.Context(), id, patch, userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"book": book, "message": "Book listing updated successfully"})
	}
}

func DeleteBook(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := cs.DeleteBook(c.Request.Context(), id, userID); err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Book listing deleted successfully"})
	}
}
