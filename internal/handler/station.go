package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobility/internal/service"
)

// StationHandler handles HTTP requests for stations.
type StationHandler struct {
	stationService *service.StationService
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(stationService *service.StationService) *StationHandler {
	return &StationHandler{stationService: stationService}
}

// StationResponse is the HTTP response for a single station.
type StationResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Capacity int     `json:"capacity"`
}

// ListStations handles GET /v1/stations
func (h *StationHandler) ListStations(c *gin.Context) {
	stations, err := h.stationService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]StationResponse, 0, len(stations))
	for _, s := range stations {
		response = append(response, StationResponse{
			ID:       s.ID,
			Name:     s.Name,
			Lat:      s.Lat,
			Lng:      s.Lng,
			Capacity: s.Capacity,
		})
	}

	c.JSON(http.StatusOK, gin.H{"stations": response})
}
