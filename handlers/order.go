package handlers

import (
	"net/http"

	"healthcart/middleware"
	"healthcart/models"
	"healthcart/services/order"
	"healthcart/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Service order.OrderService
}

func NewOrderHandler(svc order.OrderService) *OrderHandler {
	return &OrderHandler{Service: svc}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("At least one test with testId and name is required"))
		return
	}
	o, err := h.Service.Create(c.Request.Context(), middleware.CallerFromContext(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, o, "Order created successfully")
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.Service.Get(c.Request.Context(), middleware.CallerFromContext(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, o, "")
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.Service.ListMine(c.Request.Context(), middleware.CallerFromContext(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondList(c, orders, len(orders))
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.Service.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondList(c, orders, len(orders))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("status is required"))
		return
	}
	o, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, o, "Order status updated")
}
