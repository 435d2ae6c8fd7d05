package handlers

import (
	"context"
	"net/http"

	"healthcart/models"
	"healthcart/services/reconcile"
	"healthcart/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates operational admin endpoints.
type AdminHandler struct {
	Reconciler *reconcile.Reconciler
	// Enqueue hands a reconcile pass to the background worker. Nil disables async runs.
	Enqueue func(ctx context.Context) (string, error)
}

func NewAdminHandler(rec *reconcile.Reconciler, enqueue func(ctx context.Context) (string, error)) *AdminHandler {
	return &AdminHandler{Reconciler: rec, Enqueue: enqueue}
}

// Reconcile handles POST /admin/reconcile. With ?async=true the pass is queued for the
// worker instead of running inline.
func (h *AdminHandler) Reconcile(c *gin.Context) {
	if c.Query("async") == "true" && h.Enqueue != nil {
		taskID, err := h.Enqueue(c.Request.Context())
		if err != nil {
			utils.RespondError(c, utils.UnavailableError("Failed to queue reconciliation", err))
			return
		}
		utils.RespondOK(c, http.StatusAccepted, gin.H{"taskId": taskID}, "Reconciliation queued")
		return
	}

	report, err := h.Reconciler.Run(c.Request.Context())
	if err != nil {
		zap.L().Error("Reconciliation failed", zap.Error(err))
		utils.RespondError(c, utils.RepoError("Reconciliation failed", err))
		return
	}
	utils.RespondOK(c, http.StatusOK, report, "Reconciliation finished")
}

// Health reports the latest dependency snapshot; 503 when MongoDB is unreachable.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, models.APIResponse{Success: status.Mongo, Data: status})
}
