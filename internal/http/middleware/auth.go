package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transitcrm/internal/session"
	"transitcrm/internal/utils"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.From(c).Authenticated() {
			utils.LogEvent(GetRequestID(c), "auth", "require_auth", "redirect path="+c.Request.URL.Path)
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PublicOnly keeps signed-in operators away from the login and signup pages.
func PublicOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.From(c).Authenticated() {
			c.Redirect(http.StatusSeeOther, HomePath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// FallbackRedirect answers unmatched paths with the page the session may see.
func FallbackRedirect() gin.HandlerFunc {
	return func(c *gin.Context) {
		target := LoginPath
		if session.From(c).Authenticated() {
			target = HomePath
		}
		c.Redirect(http.StatusSeeOther, target)
	}
}
