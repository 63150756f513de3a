package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobility/internal/domain"
	"mobility/internal/middleware"
	"mobility/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService    *service.RideService
	bookingService *service.BookingService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, bookingService *service.BookingService) *RideHandler {
	return &RideHandler{
		rideService:    rideService,
		bookingService: bookingService,
	}
}

// StartRideRequest is the HTTP request body for starting a ride.
type StartRideRequest struct {
	BookingID string `json:"booking_id"`
}

// RideResponse is the HTTP response for ride operations.
type RideResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	VehicleID      string   `json:"vehicle_id"`
	BookingID      string   `json:"booking_id,omitempty"`
	Status         string   `json:"status"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time,omitempty"`
	StartLat       *float64 `json:"start_lat,omitempty"`
	StartLng       *float64 `json:"start_lng,omitempty"`
	CurrentLat     *float64 `json:"current_lat,omitempty"`
	CurrentLng     *float64 `json:"current_lng,omitempty"`
	CurrentBattery int      `json:"current_battery"`
	TotalCost      float64  `json:"total_cost"`
}

// SubscriptionInfoResponse summarizes the billing context applied to a ride.
type SubscriptionInfoResponse struct {
	HasSubscription      bool    `json:"has_subscription"`
	FreeMinutesUsed      float64 `json:"free_minutes_used"`
	FreeMinutesRemaining float64 `json:"free_minutes_remaining"`
}

// StartRideResponse is the HTTP response for starting a ride.
type StartRideResponse struct {
	Message          string                   `json:"message"`
	Ride             RideResponse             `json:"ride"`
	SubscriptionInfo SubscriptionInfoResponse `json:"subscription_info"`
}

// CostResponse is the billing breakdown of a finished ride.
type CostResponse struct {
	DurationMinutes float64 `json:"duration_minutes"`
	FreeMinutesUsed float64 `json:"free_minutes_used"`
	BillableMinutes float64 `json:"billable_minutes"`
	Total           float64 `json:"total"`
}

// FinishRideResponse is the HTTP response for finishing a ride.
type FinishRideResponse struct {
	Message                 string       `json:"message"`
	Ride                    RideResponse `json:"ride"`
	Cost                    CostResponse `json:"cost"`
	ReturnToStationVerified bool         `json:"return_to_station_verified"`
	ViolationDetails        string       `json:"violation_details,omitempty"`
	FineIssued              bool         `json:"fine_issued,omitempty"`
	FineID                  string       `json:"fine_id,omitempty"`
	FineAmount              float64      `json:"fine_amount,omitempty"`
}

// CheckBookingResponse is the HTTP response for a booking usability probe.
type CheckBookingResponse struct {
	Booking BookingResponse `json:"booking"`
	CanRide bool            `json:"can_ride"`
}

func rideResponse(r *domain.Ride) RideResponse {
	response := RideResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		VehicleID:      r.VehicleID,
		BookingID:      r.BookingID,
		Status:         string(r.Status),
		StartTime:      r.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		StartLat:       r.StartLat,
		StartLng:       r.StartLng,
		CurrentLat:     r.CurrentLat,
		CurrentLng:     r.CurrentLng,
		CurrentBattery: r.CurrentBattery,
		TotalCost:      r.TotalCost,
	}
	if !r.EndTime.IsZero() {
		response.EndTime = r.EndTime.Format("2006-01-02T15:04:05Z07:00")
	}
	return response
}

// StartRide handles POST /v1/rides/start
func (h *RideHandler) StartRide(c *gin.Context) {
	var req StartRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.rideService.StartRide(c.Request.Context(), req.BookingID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, StartRideResponse{
		Message: "Ride started successfully",
		Ride:    rideResponse(result.Ride),
		SubscriptionInfo: SubscriptionInfoResponse{
			HasSubscription:      result.Subscription.HasSubscription,
			FreeMinutesUsed:      result.Subscription.FreeMinutesUsed,
			FreeMinutesRemaining: result.Subscription.FreeMinutesRemaining,
		},
	})
}

// FinishRide handles PUT /v1/rides/:id/finish
func (h *RideHandler) FinishRide(c *gin.Context) {
	rideID := c.Param("id")

	result, err := h.rideService.FinishRide(c.Request.Context(), rideID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := FinishRideResponse{
		Message: "Ride finished successfully",
		Ride:    rideResponse(result.Ride),
		Cost: CostResponse{
			DurationMinutes: result.Cost.DurationMinutes,
			FreeMinutesUsed: result.Cost.FreeMinutesUsed,
			BillableMinutes: result.Cost.BillableMinutes,
			Total:           result.Cost.Total,
		},
		ReturnToStationVerified: result.ReturnVerified,
	}

	if !result.ReturnVerified {
		response.ViolationDetails = result.ViolationDetails
		if result.Fine != nil {
			response.FineIssued = true
			response.FineID = result.Fine.ID
			response.FineAmount = result.Fine.Amount
		}
	}

	respondJSON(c, http.StatusOK, response)
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID := c.Param("id")

	ride, err := h.rideService.GetRide(c.Request.Context(), rideID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, rideResponse(ride))
}

// CheckBooking handles GET /v1/rides/check-booking/:booking_id
func (h *RideHandler) CheckBooking(c *gin.Context) {
	bookingID := c.Param("booking_id")

	booking, canRide, err := h.bookingService.CheckBooking(c.Request.Context(), bookingID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CheckBookingResponse{
		Booking: bookingResponse(booking),
		CanRide: canRide,
	})
}
