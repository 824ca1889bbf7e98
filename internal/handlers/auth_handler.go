package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/services"
)

func Signup(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.SignupInput
		if !decodeJSON(c, &in) {
			return
		}
		user, err := u.SignUp(c.Request.Context(), in)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"user":    user,
			"message": "Account created. Check your email to verify your address.",
		})
	}
}

// Login sets the session cookies and also returns the access token for
// clients that prefer the Authorization header.
func Login(u *services.UserService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.LoginInput
		if !decodeJSON(c, &in) {
			return
		}
		session, user, err := u.Login(c.Request.Context(), in)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		helpers.SetAuthCookies(c, session, secureCookies)
		c.JSON(http.StatusOK, gin.H{
			"user":  user,
			"token": session.AccessToken,
		})
	}
}

func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		helpers.ClearAuthCookies(c, secureCookies)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// ResetPasswordRequest answers the same way whether or not the email exists.
func ResetPasswordRequest(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if !decodeJSON(c, &req) {
			return
		}
		if err := u.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "If that email is registered, a reset link is on its way."})
	}
}
