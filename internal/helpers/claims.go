package helpers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ClaimsKey = "user"

type EnhancedClaims struct {
	*CustomClaims
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role"`
}

func NewEnhancedClaims(claims *CustomClaims) (*EnhancedClaims, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, err
	}
	return &EnhancedClaims{
		CustomClaims: claims,
		UserID:       id,
		Email:        claims.Email,
		Role:         claims.Role,
	}, nil
}

func (ec *EnhancedClaims) IsOwner(userID uuid.UUID) bool {
	return ec.UserID == userID
}

// CurrentUser pulls the authenticated caller set by the auth middleware.
func CurrentUser(c *gin.Context) (*EnhancedClaims, bool) {
	raw, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := raw.(*EnhancedClaims)
	return claims, ok
}
