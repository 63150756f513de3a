package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"mobility/internal/handler"
	"mobility/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler      *handler.BookingHandler
	RideHandler         *handler.RideHandler
	VehicleHandler      *handler.VehicleHandler
	StationHandler      *handler.StationHandler
	FineHandler         *handler.FineHandler
	SubscriptionHandler *handler.SubscriptionHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
	JWTSecret           string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes. Everything under /v1 requires an authenticated user.
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTSecret))
	{
		// Vehicle routes.
		vehicles := v1.Group("/vehicles")
		{
			vehicles.GET("", deps.VehicleHandler.ListAvailable)
			vehicles.GET("/:id", deps.VehicleHandler.GetVehicle)
		}

		// Station routes.
		v1.GET("/stations", deps.StationHandler.ListStations)

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("/start", deps.RideHandler.StartRide)
			rides.GET("/check-booking/:booking_id", deps.RideHandler.CheckBooking)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.PUT("/:id/finish", deps.RideHandler.FinishRide)
		}

		// Subscription routes.
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("", deps.SubscriptionHandler.Purchase)
			subscriptions.GET("/active", deps.SubscriptionHandler.GetActive)
		}

		v1.GET("/tariff-plans", deps.SubscriptionHandler.ListPlans)

		// Fine routes.
		fines := v1.Group("/fines")
		{
			fines.GET("", deps.FineHandler.ListFines)
			fines.POST("/:id/pay", deps.FineHandler.PayFine)
		}
	}

	return router
}
