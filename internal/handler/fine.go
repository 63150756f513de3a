package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobility/internal/domain"
	"mobility/internal/middleware"
	"mobility/internal/service"
)

// FineHandler handles HTTP requests for fines.
type FineHandler struct {
	fineService *service.FineService
}

// NewFineHandler creates a new FineHandler.
func NewFineHandler(fineService *service.FineService) *FineHandler {
	return &FineHandler{fineService: fineService}
}

// FineResponse is the HTTP response for a single fine.
type FineResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	CreatedAt   string  `json:"created_at"`
}

// PayFineResponse is the HTTP response for paying a fine.
type PayFineResponse struct {
	Message   string  `json:"message"`
	FineID    string  `json:"fine_id"`
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

func fineResponse(f *domain.Fine) FineResponse {
	return FineResponse{
		ID:          f.ID,
		Type:        string(f.Type),
		Amount:      f.Amount,
		Status:      string(f.Status),
		Description: f.Description,
		DueDate:     f.DueDate.Format("2006-01-02T15:04:05Z07:00"),
		CreatedAt:   f.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListFines handles GET /v1/fines
func (h *FineHandler) ListFines(c *gin.Context) {
	fines, err := h.fineService.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]FineResponse, 0, len(fines))
	for _, f := range fines {
		response = append(response, fineResponse(f))
	}

	c.JSON(http.StatusOK, gin.H{"fines": response})
}

// PayFine handles POST /v1/fines/:id/pay
func (h *FineHandler) PayFine(c *gin.Context) {
	fineID := c.Param("id")

	payment, err := h.fineService.Pay(c.Request.Context(), fineID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PayFineResponse{
		Message:   "Fine paid successfully",
		FineID:    fineID,
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Status:    string(payment.Status),
	})
}
