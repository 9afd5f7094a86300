package v1

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tallybook/backend/internal/backup"
	"github.com/tallybook/backend/internal/httputil"
	"github.com/tallybook/backend/internal/storage"
)

// RegisterBackupRoutes registers the routes for the backup engine.
func RegisterBackupRoutes(r *gin.RouterGroup, store *storage.Store, engine *backup.Engine) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", getBackups(engine))
	r.POST("", createBackup(engine))

	r.OPTIONS("/restore", httputil.OptionsPost)
	r.POST("/restore", restoreBackup(engine))

	r.OPTIONS("/export", httputil.OptionsPost)
	r.POST("/export", exportBackup(engine))

	r.OPTIONS("/old", httputil.OptionsDelete)
	r.DELETE("/old", cleanOldBackups(store, engine))
}

// @Summary		List backups
// @Description	Returns all local backup archives, newest first
// @Tags			Backups
// @Produce		json
// @Router			/v1/backups [get]
func getBackups(engine *backup.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		archives, err := engine.List()
		if err != nil {
			e := err.Error()
			c.JSON(status(err), listResponse[backup.Archive]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newListResponse(archives))
	}
}

// @Summary		Create backup
// @Description	Snapshots all collection directories into a local archive
// @Tags			Backups
// @Produce		json
// @Router			/v1/backups [post]
func createBackup(engine *backup.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		archive, err := engine.Create()
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[backup.Archive]{Error: &e})
			return
		}

		c.JSON(http.StatusCreated, newResponse(archive))
	}
}

// RestoreRequest names the local archive to restore.
type RestoreRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary		Restore backup
// @Description	Replaces the live document tree with the archive's contents. A failed restore is rolled back from the safety copy automatically; the error names the safety copy location.
// @Tags			Backups
// @Accept		json
// @Router			/v1/backups/restore [post]
func restoreBackup(engine *backup.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body RestoreRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}

		// Only bare archive names are accepted, the path is always local.
		if filepath.Base(body.Name) != body.Name {
			abortError(c, backup.ErrInvalidArchive)
			return
		}

		if err := engine.Restore(filepath.Join(engine.Dir(), body.Name)); err != nil {
			abortError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// ExportRequest names the directory an archive is exported to.
type ExportRequest struct {
	Destination string `json:"destination" binding:"required"`
}

// ExportResponse returns the path the archive was exported to.
type ExportResponse struct {
	Path string `json:"path"`
}

// @Summary		Export backup
// @Description	Creates a backup and copies the archive to an external destination. The local archive is deleted only after a successful copy.
// @Tags			Backups
// @Accept		json
// @Produce		json
// @Router			/v1/backups/export [post]
func exportBackup(engine *backup.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ExportRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}

		path, err := engine.Export(body.Destination)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[ExportResponse]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(ExportResponse{Path: path}))
	}
}

// @Summary		Clean old backups
// @Description	Deletes all but the most recent local archives. The keep query parameter overrides the configured retention.
// @Tags			Backups
// @Param			keep	query	int	false	"How many archives to keep"
// @Router			/v1/backups/old [delete]
func cleanOldBackups(store *storage.Store, engine *backup.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		keep := storage.LoadDocument(store, storage.Settings).BackupKeep

		if raw, ok := c.GetQuery("keep"); ok {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, httpError{Error: "keep must be a non-negative integer"})
				return
			}
			keep = parsed
		}

		if err := engine.CleanOld(keep); err != nil {
			abortError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
