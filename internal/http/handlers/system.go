package handlers

import (
	"database/sql"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
	// sessionDB is set only when sessions live in MySQL.
	sessionDB *sql.DB
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func SetSessionDB(db *sql.DB) {
	routerMu.Lock()
	defer routerMu.Unlock()
	sessionDB = db
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "transit console running"})
}

// DBCheck reports on the session database when the MySQL store is in use.
func DBCheck(c *gin.Context) {
	routerMu.RLock()
	db := sessionDB
	routerMu.RUnlock()
	if db == nil {
		c.JSON(http.StatusOK, gin.H{"message": "sessions are cookie based", "store": "cookie"})
		return
	}
	var count int
	err := db.QueryRowContext(ctxOf(c), "SELECT COUNT(*) FROM console_sessions").Scan(&count)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "db_error", "session database query failed", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session database OK", "store": "mysql", "sessions": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
