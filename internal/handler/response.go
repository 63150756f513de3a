package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mobility/internal/repository"
	"mobility/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UnpaidFineResponse is the fine summary surfaced on gate rejections. The
// fine's internal status is deliberately absent.
type UnpaidFineResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	var unpaid *service.UnpaidFineError
	if errors.As(err, &unpaid) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "User has unpaid fines",
			"details": "Cannot proceed with this action until fines are paid",
			"unpaid_fine": UnpaidFineResponse{
				ID:          unpaid.Fine.ID,
				Type:        string(unpaid.Fine.Type),
				Amount:      unpaid.Fine.Amount,
				Description: unpaid.Fine.Description,
				DueDate:     unpaid.Fine.DueDate,
			},
		})
		return
	}

	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrRideNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidPlanID),
		errors.Is(err, service.ErrInvalidFineID),
		errors.Is(err, service.ErrInvalidPaymentAmount):
		return http.StatusBadRequest

	// State precondition violations - Bad Request
	case errors.Is(err, service.ErrVehicleNotAvailable),
		errors.Is(err, service.ErrActiveBookingExists),
		errors.Is(err, service.ErrBookingNotUsable),
		errors.Is(err, service.ErrRideNotInProgress):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrCooldownActive),
		errors.Is(err, service.ErrBookingNotActive),
		errors.Is(err, service.ErrSubscriptionOverlap),
		errors.Is(err, service.ErrFineNotPending):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
