package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/metrics"
	"github.com/joshua-takyi/foodshare/internal/models"
)

const RequestIDKey = "request_id"

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger logs one line per request once the handler chain is done.
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get(RequestIDKey)
		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler turns errors left on the context into a generic 500. The
// underlying error is logged, never returned.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get(RequestIDKey)
		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		if c.Writer.Written() {
			return
		}

		resp := models.ErrorResponse(models.NewInternalError(err.Err))
		resp.RequestID = requestID
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// Metrics records every request against its route template.
func Metrics(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rec.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*helpers.CustomClaims, error)
}

// TokenRefresher exchanges a refresh token for a new session.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*models.AuthSession, error)
}

// AccessToken reads the bearer token, falling back to the access_token cookie.
func AccessToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	token, _ := c.Cookie(helpers.AccessTokenCookie)
	return token
}

// AuthMiddleware verifies the caller's access token. An expired token is
// refreshed transparently when a refresh_token cookie is present.
func AuthMiddleware(verifier TokenVerifier, refresher TokenRefresher, secureCookies bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := AccessToken(c)
		if token == "" {
			helpers.RespondError(c, models.NewUnauthenticatedError("authentication required"))
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			refreshToken, cookieErr := c.Cookie(helpers.RefreshTokenCookie)
			if !helpers.IsExpired(err) || cookieErr != nil || refreshToken == "" {
				logger.Debug("Token rejected", "error", err)
				helpers.RespondError(c, models.NewUnauthenticatedError("invalid or expired token"))
				return
			}

			session, refreshErr := refresher.RefreshToken(c.Request.Context(), refreshToken)
			if refreshErr != nil {
				logger.Info("Token refresh failed", "error", refreshErr)
				helpers.ClearAuthCookies(c, secureCookies)
				helpers.RespondError(c, refreshErr)
				return
			}
			helpers.SetAuthCookies(c, session, secureCookies)
			logger.Info("Token refreshed successfully",
				"user_id", session.UserID,
				"expires_in", session.ExpiresIn,
			)

			claims, err = verifier.Verify(session.AccessToken)
			if err != nil {
				helpers.RespondError(c, models.NewUnauthenticatedError("refreshed token validation failed"))
				return
			}
		}

		enhanced, err := helpers.NewEnhancedClaims(claims)
		if err != nil {
			logger.Warn("Invalid user ID in token", "subject", claims.Subject)
			helpers.RespondError(c, models.NewUnauthenticatedError("invalid token subject"))
			return
		}
		c.Set(helpers.ClaimsKey, enhanced)
		c.Next()
	}
}
