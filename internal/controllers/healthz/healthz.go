// Package healthz implements the liveness endpoint.
package healthz

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/tallybook/backend/internal/storage"
)

// Options returns the allowed HTTP verbs.
func Options(c *gin.Context) {
	c.Header("allow", "OPTIONS, GET")
	c.Status(http.StatusNoContent)
}

// Get reports whether the backend can serve requests. The document tree
// must be writable, otherwise every mutation would fail.
func Get(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		probe := filepath.Join(store.Root(), ".healthz")
		if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}

		os.Remove(probe)
		c.Status(http.StatusOK)
	}
}
