package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
	"github.com/sirupsen/logrus"
)

// MaintenanceHandler hosts the scheduled cleanup endpoint. An external cron
// hits it with the shared secret; nothing inside the service calls it.
type MaintenanceHandler struct {
	repo       *db.Postgres
	cronSecret string
	retention  time.Duration
}

func NewMaintenanceHandler(repo *db.Postgres, cronSecret string, retention time.Duration) *MaintenanceHandler {
	return &MaintenanceHandler{repo: repo, cronSecret: cronSecret, retention: retention}
}

type cleanupResult struct {
	LockoutsDeleted int64 `json:"lockoutsDeleted"`
	SessionsDeleted int64 `json:"sessionsDeleted"`
}

// Cleanup godoc
// @Summary Purge stale lockout rows and expired sessions
// @Description Requires the cron bearer secret. Lockout rows older than the retention window are removed.
// @Tags maintenance
// @Produce json
// @Success 200 {object} model.Envelope
// @Failure 401 {object} model.Envelope
// @Router /api/v1/maintenance/cleanup [post]
func (h *MaintenanceHandler) Cleanup(c *gin.Context) {
	if !h.authorized(c) {
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
		return
	}

	ctx := c.Request.Context()
	cutoff := time.Now().Add(-h.retention)

	lockouts, err := h.repo.DeleteStaleLockouts(ctx, cutoff)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	sessions, err := h.repo.DeleteDeadSessions(ctx, time.Now())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"lockouts_deleted": lockouts,
		"sessions_deleted": sessions,
		"cutoff":           cutoff.Format(time.RFC3339),
	}).Info("maintenance cleanup complete")

	respondOK(c, "cleanup complete", cleanupResult{
		LockoutsDeleted: lockouts,
		SessionsDeleted: sessions,
	})
}

func (h *MaintenanceHandler) authorized(c *gin.Context) bool {
	if h.cronSecret == "" {
		return false
	}
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) == 1
}
