package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"mobility/internal/app"
	"mobility/internal/config"
	"mobility/internal/handler"
	internalRedis "mobility/internal/redis"
	"mobility/internal/repository/postgres"
	"mobility/internal/service"
)

func main() {
	// Load .env if present, then configuration.
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, sweeper, tracking := wireServer(db, redisClient, nrApp, cfg)

	// Start the booking expiration sweeper.
	sweeper.Start()

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	sweeper.Stop()
	tracking.Shutdown()

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// background workers the shutdown path needs to stop.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.ExpirationSweeper, *service.TrackingService) {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)
	trackPublisher := internalRedis.NewTrackPublisher(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	stationRepo := postgres.NewStationRepository(db)
	fineRepo := postgres.NewFineRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	planRepo := postgres.NewTariffPlanRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	// Initialize services.
	psp := service.NewMockPSP()
	paymentService := service.NewPaymentService(paymentRepo, psp)
	fineService := service.NewFineService(fineRepo, paymentService)
	costEngine := service.NewCostEngine()
	geofence := service.NewGeofenceEvaluator(cfg.Geofence.RadiusMeters)
	trackingService := service.NewTrackingService(rideRepo, vehicleRepo, costEngine, trackPublisher, cfg.Tracking.Interval)
	bookingService := service.NewBookingService(db, userRepo, vehicleRepo, bookingRepo, fineService, cacheStore,
		cfg.Booking.ReservationWindow, cfg.Booking.Cooldown)
	rideService := service.NewRideService(db, rideRepo, bookingRepo, vehicleRepo, stationRepo, subscriptionRepo,
		fineService, costEngine, geofence, trackingService, cacheStore, cfg.Fine.StationReturnAmount)
	vehicleService := service.NewVehicleService(vehicleRepo, cacheStore)
	stationService := service.NewStationService(stationRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, planRepo)
	sweeper := service.NewExpirationSweeper(db, lockStore, cacheStore, cfg.Sweeper.Interval)

	// Initialize handlers.
	bookingHandler := handler.NewBookingHandler(bookingService)
	rideHandler := handler.NewRideHandler(rideService, bookingService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	stationHandler := handler.NewStationHandler(stationService)
	fineHandler := handler.NewFineHandler(fineService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		BookingHandler:      bookingHandler,
		RideHandler:         rideHandler,
		VehicleHandler:      vehicleHandler,
		StationHandler:      stationHandler,
		FineHandler:         fineHandler,
		SubscriptionHandler: subscriptionHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
		JWTSecret:           cfg.Auth.JWTSecret,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, sweeper, trackingService
}
