package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobility/internal/domain"
	"mobility/internal/middleware"
	"mobility/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	VehicleID string `json:"vehicle_id"`
}

// BookingResponse is the HTTP response for booking operations.
type BookingResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	VehicleID string `json:"vehicle_id"`
	Status    string `json:"status"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func bookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		VehicleID: b.VehicleID,
		Status:    string(b.Status),
		StartTime: b.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		EndTime:   b.EndTime.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), middleware.UserID(c), req.VehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, bookingResponse(booking))
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), bookingID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}
