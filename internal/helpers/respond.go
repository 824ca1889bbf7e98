package helpers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/models"
)

// RespondError writes client errors directly. Anything else is handed to the
// error middleware, which logs it and answers with a generic 500.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := models.AsAppError(err); ok && appErr.Code != models.CodeInternal {
		c.AbortWithStatusJSON(appErr.StatusCode, models.ErrorResponse(appErr))
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func BadRequest(c *gin.Context, format string, args ...any) {
	RespondError(c, models.NewValidationError(format, args...))
}

// ParseUUIDParam reads a path parameter as a UUID, tolerating stray quotes.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := strings.Trim(strings.TrimSpace(c.Param(name)), "\"'")
	id, err := uuid.Parse(raw)
	if err != nil {
		BadRequest(c, "invalid %s", name)
		return uuid.Nil, false
	}
	return id, true
}

// RequireUser returns the caller's id or answers 401.
func RequireUser(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := CurrentUser(c)
	if !ok {
		RespondError(c, models.NewUnauthenticatedError("authentication required"))
		return uuid.Nil, false
	}
	return claims.UserID, true
}
