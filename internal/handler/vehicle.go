package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobility/internal/service"
)

// VehicleHandler handles HTTP requests for the vehicle fleet.
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// VehicleResponse is the HTTP response for a single vehicle.
type VehicleResponse struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Model          string   `json:"model"`
	Status         string   `json:"status"`
	PricePerMinute float64  `json:"price_per_minute"`
	BatteryLevel   int      `json:"battery_level"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	GearCount      int      `json:"gear_count,omitempty"`
	MaxSpeedKmh    int      `json:"max_speed_kmh,omitempty"`
}

// ListAvailable handles GET /v1/vehicles
func (h *VehicleHandler) ListAvailable(c *gin.Context) {
	vehicles, err := h.vehicleService.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// GetVehicle handles GET /v1/vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VehicleResponse{
		ID:             vehicle.ID,
		Type:           string(vehicle.Type),
		Model:          vehicle.Model,
		Status:         string(vehicle.Status),
		PricePerMinute: vehicle.PricePerMinute,
		BatteryLevel:   vehicle.BatteryLevel,
		Lat:            vehicle.CurrentLat,
		Lng:            vehicle.CurrentLng,
		GearCount:      vehicle.GearCount,
		MaxSpeedKmh:    vehicle.MaxSpeedKmh,
	})
}
