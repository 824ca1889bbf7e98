package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/foodshare/internal/models"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	refreshTokenMaxAge = 3600 * 24 * 30
)

// SetAuthCookies stores a session as http-only cookies.
func SetAuthCookies(c *gin.Context, session *models.AuthSession, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, session.AccessToken, session.ExpiresIn, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, session.RefreshToken, refreshTokenMaxAge, "/", "", secure, true)
}

func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}
