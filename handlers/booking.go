package handlers

import (
	"net/http"
	"strconv"

	"healthcart/middleware"
	"healthcart/models"
	"healthcart/services/booking"
	"healthcart/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes slot enumeration, reservation and cancellation.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// AvailableSlots handles GET /bookings/available-slots?pincode=&date=.
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	day, err := h.Service.AvailableSlots(c.Request.Context(), c.Query("pincode"), c.Query("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, day, "")
}

// NextAvailableSlot handles GET /bookings/next-available-slot?pincode=&date=&currentHour=.
func (h *BookingHandler) NextAvailableSlot(c *gin.Context) {
	var currentHour *int
	if raw := c.Query("currentHour"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, utils.ValidationError("currentHour must be an integer"))
			return
		}
		currentHour = &v
	}

	next, err := h.Service.NextAvailable(c.Request.Context(), c.Query("pincode"), c.Query("date"), currentHour)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, next, next.Message)
}

// BookSlot handles POST /bookings/book-slot.
func (h *BookingHandler) BookSlot(c *gin.Context) {
	var req models.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("orderId, pincode, date and hour are required"))
		return
	}

	order, err := h.Service.BookSlot(c.Request.Context(), middleware.CallerFromContext(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, order, "Slot booked successfully")
}

// CancelBooking handles DELETE /bookings/cancel/:orderId.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	order, err := h.Service.CancelBooking(c.Request.Context(), middleware.CallerFromContext(c), c.Param("orderId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, order, "Booking cancelled successfully")
}

// FolderSlots handles GET /bookings/collector/:folderId?date=.
func (h *BookingHandler) FolderSlots(c *gin.Context) {
	slots, err := h.Service.FolderSlots(c.Request.Context(), c.Param("folderId"), c.Query("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondList(c, slots, len(slots))
}
