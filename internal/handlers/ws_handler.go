package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/middleware"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/realtime"
)

// ServeWS authenticates the socket from the token query parameter, or the
// usual header and cookie, before upgrading.
func ServeWS(hub *realtime.Hub, verifier middleware.TokenVerifier, upgrader *websocket.Upgrader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = middleware.AccessToken(c)
		}
		if token == "" {
			helpers.RespondError(c, models.NewUnauthenticatedError("token is required"))
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			helpers.RespondError(c, models.NewUnauthenticatedError("invalid or expired token"))
			return
		}
		enhanced, err := helpers.NewEnhancedClaims(claims)
		if err != nil {
			helpers.RespondError(c, models.NewUnauthenticatedError("invalid token subject"))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// the upgrader has already written the HTTP error
			logger.Debug("websocket upgrade failed", "error", err)
			return
		}
		realtime.Serve(context.WithoutCancel(c.Request.Context()), hub, conn, enhanced.UserID)
	}
}
