package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/models"
)

// queryFloat reads an optional float query parameter. ok is false after a
// 400 has been written.
func queryFloat(c *gin.Context, name string) (*float64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		helpers.BadRequest(c, "%s must be a number", name)
		return nil, false
	}
	return &v, true
}

func queryInt(c *gin.Context, name string) (*int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		helpers.BadRequest(c, "%s must be an integer", name)
		return nil, false
	}
	return &v, true
}

// origin reads latitude, longitude and max_distance together.
func origin(c *gin.Context) (lat, lon, maxDistance *float64, ok bool) {
	if lat, ok = queryFloat(c, "latitude"); !ok {
		return
	}
	if lon, ok = queryFloat(c, "longitude"); !ok {
		return
	}
	if maxDistance, ok = queryFloat(c, "max_distance"); !ok {
		return
	}
	if maxDistance != nil && *maxDistance < 0 {
		helpers.BadRequest(c, "max_distance must not be negative")
		return nil, nil, nil, false
	}
	return lat, lon, maxDistance, true
}

// resourceParam reads the :type and :id path parameters as a ResourceRef.
func resourceParam(c *gin.Context) (models.ResourceRef, bool) {
	t, err := models.ParseResourceType(c.Param("type"))
	if err != nil {
		helpers.RespondError(c, err)
		return models.ResourceRef{}, false
	}
	id, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return models.ResourceRef{}, false
	}
	return models.ResourceRef{Type: t, ID: id}, true
}

// decodeJSON only decodes. Field validation is left to the services.
func decodeJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		helpers.BadRequest(c, "invalid request body")
		return false
	}
	return true
}

// readBody takes the raw request body so it can be decoded after an
// ownership check has passed.
func readBody(c *gin.Context) ([]byte, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		helpers.BadRequest(c, "invalid request body")
		return nil, false
	}
	return raw, true
}

func bindBody(c *gin.Context, raw []byte, dst any) bool {
	if err := binding.JSON.BindBody(raw, dst); err != nil {
		helpers.BadRequest(c, "invalid request body")
		return false
	}
	return true
}
