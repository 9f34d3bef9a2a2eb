package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Booking configuration
	DeskCheckInWindow  time.Duration
	RoomCheckInWindow  time.Duration
	DefaultKarmaPoints int
	MinRoomBooking     time.Duration
	MaxRoomBooking     time.Duration

	// Allocation configuration
	RandomSeed int64

	// Background task configuration
	PositionUpdateInterval time.Duration
	WaitlistPositionTTL    time.Duration

	// Rate limiting
	MaxRequestsPerMinute int64

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Booking
		DeskCheckInWindow:  getEnvAsDuration("DESK_CHECKIN_WINDOW", "30m"),
		RoomCheckInWindow:  getEnvAsDuration("ROOM_CHECKIN_WINDOW", "15m"),
		DefaultKarmaPoints: getEnvAsInt("DEFAULT_KARMA_POINTS", 1000),
		MinRoomBooking:     getEnvAsDuration("MIN_ROOM_BOOKING", "30m"),
		MaxRoomBooking:     getEnvAsDuration("MAX_ROOM_BOOKING", "9h"),

		// Allocation; 0 seeds from the clock
		RandomSeed: int64(getEnvAsInt("RANDOM_SEED", 0)),

		// Background tasks
		PositionUpdateInterval: getEnvAsDuration("POSITION_UPDATE_INTERVAL", "5s"),
		WaitlistPositionTTL:    getEnvAsDuration("WAITLIST_POSITION_TTL", "15s"),

		// Rate limiting
		MaxRequestsPerMinute: int64(getEnvAsInt("MAX_REQUESTS_PER_MINUTE", 60)),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
