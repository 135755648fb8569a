package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestLoadSessionInjectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager(newCookieStore(t), time.Hour)

	r := gin.New()
	r.Use(LoadSession(m))
	var seen *Session
	r.GET("/", func(c *gin.Context) {
		seen = From(c)
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == nil || seen.Authenticated() {
		t.Fatalf("expected anonymous session, got %+v", seen)
	}
}

func TestFromWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if From(c).Authenticated() {
		t.Fatalf("expected anonymous session")
	}
}
