package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobility/internal/domain"
	"mobility/internal/middleware"
	"mobility/internal/service"
)

// SubscriptionHandler handles HTTP requests for subscriptions.
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// PurchaseSubscriptionRequest is the HTTP request body for purchasing a
// subscription.
type PurchaseSubscriptionRequest struct {
	TariffPlanID string `json:"tariff_plan_id"`
}

// SubscriptionResponse is the HTTP response for subscription operations.
type SubscriptionResponse struct {
	ID           string  `json:"id"`
	TariffPlanID string  `json:"tariff_plan_id"`
	Status       string  `json:"status"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	UsedMinutes  float64 `json:"used_minutes"`
}

// TariffPlanResponse describes a purchasable plan.
type TariffPlanResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	FreeMinutes float64 `json:"free_minutes"`
}

// ActiveSubscriptionResponse is the HTTP response for the active
// subscription lookup.
type ActiveSubscriptionResponse struct {
	Subscription         SubscriptionResponse `json:"subscription"`
	Plan                 TariffPlanResponse   `json:"plan"`
	FreeMinutesRemaining float64              `json:"free_minutes_remaining"`
}

func subscriptionResponse(s *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           s.ID,
		TariffPlanID: s.TariffPlanID,
		Status:       string(s.Status),
		StartDate:    s.StartDate.Format("2006-01-02T15:04:05Z07:00"),
		EndDate:      s.EndDate.Format("2006-01-02T15:04:05Z07:00"),
		UsedMinutes:  s.UsedMinutes,
	}
}

// Purchase handles POST /v1/subscriptions
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	var req PurchaseSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	sub, err := h.subscriptionService.Purchase(c.Request.Context(), middleware.UserID(c), req.TariffPlanID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, subscriptionResponse(sub))
}

// GetActive handles GET /v1/subscriptions/active
func (h *SubscriptionHandler) GetActive(c *gin.Context) {
	sub, plan, err := h.subscriptionService.ActiveForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusOK, gin.H{"subscription": nil})
		return
	}

	remaining := plan.FreeMinutes - sub.UsedMinutes
	if remaining < 0 {
		remaining = 0
	}

	respondJSON(c, http.StatusOK, ActiveSubscriptionResponse{
		Subscription: subscriptionResponse(sub),
		Plan: TariffPlanResponse{
			ID:          plan.ID,
			Name:        plan.Name,
			Price:       plan.Price,
			FreeMinutes: plan.FreeMinutes,
		},
		FreeMinutesRemaining: remaining,
	})
}

// ListPlans handles GET /v1/tariff-plans
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TariffPlanResponse, 0, len(plans))
	for _, p := range plans {
		response = append(response, TariffPlanResponse{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			FreeMinutes: p.FreeMinutes,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tariff_plans": response})
}
