package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/services"
)

const maxImageBytes = 10 << 20

func UploadImage(is *services.ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		ref, ok := resourceParam(c)
		if !ok {
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
		header, err := c.FormFile("image")
		if err != nil {
			helpers.BadRequest(c, "image file is required")
			return
		}
		file, err := header.Open()
		if err != nil {
			helpers.BadRequest(c, "could not read image file")
			return
		}
		defer file.Close()

		img, err := is.Upload(c.Request.Context(), ref, userID, file, c.PostForm("caption"))
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"image": img, "message": "Image uploaded successfully"})
	}
}

func ListImages(is *services.ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, ok := resourceParam(c)
		if !ok {
			return
		}
		images, err := is.List(c.Request.Context(), ref)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"images": nonNil(images)})
	}
}

func DeleteImage(is *services.ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := is.Delete(c.Request.Context(), id, userID); err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
	}
}
