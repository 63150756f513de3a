package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Auth     AuthConfig
	Booking  BookingConfig
	Sweeper  SweeperConfig
	Tracking TrackingConfig
	Geofence GeofenceConfig
	Fine     FineConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// AuthConfig holds JWT verification configuration.
type AuthConfig struct {
	JWTSecret string
}

// BookingConfig holds reservation policy configuration.
type BookingConfig struct {
	ReservationWindow time.Duration
	Cooldown          time.Duration
}

// SweeperConfig holds the expiration sweeper configuration.
type SweeperConfig struct {
	Interval time.Duration
}

// TrackingConfig holds the ride tracking loop configuration.
type TrackingConfig struct {
	Interval time.Duration
}

// GeofenceConfig holds return-to-station verification configuration.
type GeofenceConfig struct {
	RadiusMeters float64
}

// FineConfig holds fine policy configuration.
type FineConfig struct {
	StationReturnAmount float64
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "mobility"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "mobility-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		},
		Booking: BookingConfig{
			ReservationWindow: getDurationEnv("BOOKING_RESERVATION_WINDOW", 15*time.Minute),
			Cooldown:          getDurationEnv("BOOKING_COOLDOWN", 5*time.Minute),
		},
		Sweeper: SweeperConfig{
			Interval: getDurationEnv("SWEEPER_INTERVAL", 30*time.Second),
		},
		Tracking: TrackingConfig{
			Interval: getDurationEnv("TRACKING_INTERVAL", 10*time.Second),
		},
		Geofence: GeofenceConfig{
			RadiusMeters: getFloatEnv("GEOFENCE_RADIUS_METERS", 50),
		},
		Fine: FineConfig{
			StationReturnAmount: getFloatEnv("FINE_STATION_RETURN_AMOUNT", 1000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
