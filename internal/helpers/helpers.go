package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	Role         string         `json:"role"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// TokenVerifier checks access tokens issued by Supabase auth. Asymmetric
// tokens are checked against the project JWKS, HS256 tokens against the
// project JWT secret.
type TokenVerifier struct {
	jwks   *keyfunc.JWKS
	secret []byte
}

// NewTokenVerifier fetches the JWKS once and keeps it refreshed in the
// background. A missing JWKS endpoint is tolerated when a secret is set.
func NewTokenVerifier(ctx context.Context, supabaseURL, secret string, logger *slog.Logger) (*TokenVerifier, error) {
	v := &TokenVerifier{secret: []byte(secret)}
	if supabaseURL == "" {
		if secret == "" {
			return nil, errors.New("either a Supabase URL or a JWT secret is required")
		}
		return v, nil
	}

	jwksURL := strings.TrimRight(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("JWKS refresh failed", "error", err)
		},
	})
	if err != nil {
		if secret == "" {
			return nil, fmt.Errorf("failed to load JWKS: %w", err)
		}
		logger.Warn("JWKS unavailable, verifying with shared secret only", "error", err)
		return v, nil
	}
	v.jwks = jwks
	return v, nil
}

// NewSecretVerifier verifies HS256 tokens only.
func NewSecretVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) keyfunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		if len(v.secret) == 0 {
			return nil, errors.New("HMAC tokens are not accepted")
		}
		return v.secret, nil
	}
	if v.jwks == nil {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return v.jwks.Keyfunc(token)
}

func (v *TokenVerifier) Verify(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, v.keyfunc,
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{"HS256", "RS256", "ES256"}),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// IsExpired reports whether err came from an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func (v *TokenVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[@$!%*?&#^_\-]`).MatchString(password)
	return hasLower && hasUpper && hasNumber && hasSpecial
}

// IsAllowedEmail checks the address belongs to domain. An empty domain allows everything.
func IsAllowedEmail(email, domain string) bool {
	if domain == "" {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	return strings.HasSuffix(email, "@"+strings.ToLower(strings.TrimPrefix(domain, "@")))
}
