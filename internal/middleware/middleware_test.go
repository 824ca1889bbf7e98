package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/models"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := helpers.CustomClaims{
		Role:  "authenticated",
		Email: "ada@emory.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

type stubRefresher struct {
	session *models.AuthSession
	err     error
	calls   int
}

func (s *stubRefresher) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	s.calls++
	return s.session, s.err
}

func authRouter(refresher TokenRefresher) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(helpers.NewSecretVerifier(testSecret), refresher, false, quietLogger()))
	r.GET("/me", func(c *gin.Context) {
		claims, _ := helpers.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID})
	})
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddlewareBearer(t *testing.T) {
	user := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, user.String(), time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	authRouter(&stubRefresher{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.String(), decodeBody(t, w)["id"])
}

func TestAuthMiddlewareCookie(t *testing.T) {
	user := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: signToken(t, user.String(), time.Now().Add(time.Hour))})
	w := httptest.NewRecorder()
	authRouter(&stubRefresher{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"non uuid subject", signToken(t, "service-role", time.Now().Add(time.Hour))},
		{"expired without refresh cookie", signToken(t, uuid.NewString(), time.Now().Add(-time.Minute))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			authRouter(&stubRefresher{}).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, string(models.CodeUnauthenticated), body["code"])
		})
	}
}

func TestAuthMiddlewareRefreshesExpiredToken(t *testing.T) {
	user := uuid.New()
	fresh := signToken(t, user.String(), time.Now().Add(time.Hour))
	refresher := &stubRefresher{session: &models.AuthSession{
		AccessToken: fresh, RefreshToken: "next-refresh", ExpiresIn: 3600, UserID: user,
	}}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: signToken(t, user.String(), time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: helpers.RefreshTokenCookie, Value: "old-refresh"})
	w := httptest.NewRecorder()
	authRouter(refresher).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, refresher.calls)
	cookies := map[string]string{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c.Value
	}
	assert.Equal(t, fresh, cookies[helpers.AccessTokenCookie])
	assert.Equal(t, "next-refresh", cookies[helpers.RefreshTokenCookie])
}

func TestAuthMiddlewareRefreshFailure(t *testing.T) {
	refresher := &stubRefresher{err: models.NewUnauthenticatedError("session expired, please log in again")}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: signToken(t, uuid.NewString(), time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: helpers.RefreshTokenCookie, Value: "stale"})
	w := httptest.NewRecorder()
	authRouter(refresher).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "session expired, please log in again", decodeBody(t, w)["error"])
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(quietLogger()))
	r.GET("/boom", func(c *gin.Context) {
		helpers.RespondError(c, errors.New("pq: connection refused"))
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error","code":"internal_error","request_id":"req-123"}`, w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), StructuredLogger(quietLogger()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
