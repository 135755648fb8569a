package session

import (
	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// LoadSession rehydrates the session once per request and stores it on c.
func LoadSession(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, m.Initialize(c.Request))
		c.Next()
	}
}

// From returns the request's session, anonymous when none was loaded.
func From(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok && s != nil {
			return s
		}
	}
	return &Session{}
}

// Attach replaces the session for the rest of the request, e.g. after login.
func Attach(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}
