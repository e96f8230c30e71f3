package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"plannerd/internal/app"
	"plannerd/internal/model"
	"plannerd/internal/state"
)

// SaveResponse is returned by PUT /api/state.
type SaveResponse struct {
	SavedAtISO string `json:"saved_at_iso"`
	BackupID   string `json:"backup_id"`
}

// RestoreResponse is returned by POST /api/state/backups/:id/restore.
type RestoreResponse struct {
	RestoredAtISO string `json:"restored_at_iso"`
	BackupID      string `json:"backup_id"`
}

// BackupListResponse is returned by GET /api/state/backups.
type BackupListResponse struct {
	Backups []model.BackupRecord `json:"backups"`
}

// HistoryEntry is one journal entry in GET /api/history responses.
type HistoryEntry struct {
	ID            string `json:"id"`
	Operation     string `json:"operation"`
	BackupID      string `json:"backup_id,omitempty"`
	Status        string `json:"status"`
	StartedAtISO  string `json:"started_at_iso"`
	FinishedAtISO string `json:"finished_at_iso,omitempty"`
}

// Health reports API availability.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API is running"})
	}
}

// GetState returns the full current document.
func GetState(a *app.App, logger state.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := a.GetState()
		if err != nil {
			logger.Error("loading state failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load state"})
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// SaveState replaces the full document with the request body, snapshotting
// the submitted document first. Last write wins: no version check, no
// merge.
func SaveState(a *app.App, logger state.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc := model.NewDocument()
		if err := c.ShouldBindJSON(doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed document: " + err.Error()})
			return
		}
		doc.Normalize()
		if err := doc.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		savedAt, backupID, err := a.SaveState(doc, true)
		if err != nil {
			logger.Error("saving state failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save state"})
			return
		}

		c.JSON(http.StatusOK, SaveResponse{
			SavedAtISO: savedAt.Format(time.RFC3339),
			BackupID:   backupID,
		})
	}
}

// ListBackups returns the backup catalog in creation order.
func ListBackups(a *app.App, logger state.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		backups, err := a.ListBackups()
		if err != nil {
			logger.Error("listing backups failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list backups"})
			return
		}
		c.JSON(http.StatusOK, BackupListResponse{Backups: backups})
	}
}

// RestoreBackup restores the document from the identified snapshot. An
// unknown id or a missing snapshot file yields 404.
func RestoreBackup(a *app.App, logger state.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		backupID := c.Param("id")

		restoredAt, _, err := a.Restore(backupID)
		if err != nil {
			if errors.Is(err, state.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			logger.Error("restore failed", "backup_id", backupID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to restore backup"})
			return
		}

		c.JSON(http.StatusOK, RestoreResponse{
			RestoredAtISO: restoredAt.Format(time.RFC3339),
			BackupID:      backupID,
		})
	}
}

// History returns recent journal entries, newest first. The limit query
// parameter defaults to 50.
func History(a *app.App, logger state.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		entries, err := a.History(limit)
		if err != nil {
			logger.Error("listing history failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list history"})
			return
		}

		out := make([]HistoryEntry, 0, len(entries))
		for _, e := range entries {
			h := HistoryEntry{
				ID:           e.ID,
				Operation:    e.Operation,
				BackupID:     e.BackupID,
				Status:       e.Status,
				StartedAtISO: e.StartedAt.Format(time.RFC3339),
			}
			if e.FinishedAt != nil {
				h.FinishedAtISO = e.FinishedAt.Format(time.RFC3339)
			}
			out = append(out, h)
		}
		c.JSON(http.StatusOK, gin.H{"entries": out})
	}
}
