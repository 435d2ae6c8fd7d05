package handlers

import (
	"net/http"
	"strconv"

	"healthcart/models"
	"healthcart/services/collector"
	"healthcart/utils"

	"github.com/gin-gonic/gin"
)

// CollectorHandler serves the admin API for collector folders.
type CollectorHandler struct {
	Service collector.CollectorService
}

func NewCollectorHandler(svc collector.CollectorService) *CollectorHandler {
	return &CollectorHandler{Service: svc}
}

func (h *CollectorHandler) List(c *gin.Context) {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondError(c, utils.ValidationError("active must be true or false"))
			return
		}
		active = &v
	}

	folders, err := h.Service.List(c.Request.Context(), active)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondList(c, folders, len(folders))
}

func (h *CollectorHandler) Get(c *gin.Context) {
	folder, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, folder, "")
}

func (h *CollectorHandler) Create(c *gin.Context) {
	var req models.CollectorFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("Invalid request payload: name and pincodes are required"))
		return
	}
	folder, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, folder, "Collector folder created successfully")
}

func (h *CollectorHandler) Update(c *gin.Context) {
	var upd models.CollectorFolderUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondError(c, utils.ValidationError("Invalid request payload"))
		return
	}
	folder, err := h.Service.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, folder, "Collector folder updated successfully")
}

type statusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (h *CollectorHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("isActive is required"))
		return
	}
	folder, err := h.Service.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	msg := "Collector folder deactivated"
	if folder.IsActive {
		msg = "Collector folder activated"
	}
	utils.RespondOK(c, http.StatusOK, folder, msg)
}

func (h *CollectorHandler) Delete(c *gin.Context) {
	removed, err := h.Service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"deletedTimeSlots": removed}, "Collector folder deleted successfully")
}

func (h *CollectorHandler) Stats(c *gin.Context) {
	stats, err := h.Service.DailyStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, stats, "")
}
