// Package debug serves a read-only local HTTP surface for inspecting the
// running engine: a health probe and a state snapshot. It renders nothing;
// presentation belongs to the UI process.
package debug

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Snapshotter is the piece of the engine the debug surface reads.
type Snapshotter interface {
	Snapshot() map[string]any
}

// Handler builds the debug router.
func Handler(engine Snapshotter) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, engine.Snapshot())
	})
	return router
}
