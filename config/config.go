package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration (realtime admin notifications)
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Pricing policy
	FreeTravelKm          float64
	TravelRatePerKm       float64
	DefaultDepositPercent int

	// Submission rate limiting (rolling window)
	SubmissionLimit  int
	SubmissionWindow time.Duration

	// Submission pipeline timeout
	SubmitTimeout time.Duration

	// Notification function
	NotifyPort   string
	NotifyURL    string
	OwnerEmail   string
	FromEmail    string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Pricing: travel free within 20km, then 0.50/km; 30% deposit
		FreeTravelKm:          getEnvAsFloat("FREE_TRAVEL_KM", 20),
		TravelRatePerKm:       getEnvAsFloat("TRAVEL_RATE_PER_KM", 0.5),
		DefaultDepositPercent: getEnvAsInt("DEFAULT_DEPOSIT_PERCENT", 30),

		// Rate limiting: 3 submissions per rolling hour
		SubmissionLimit:  getEnvAsInt("SUBMISSION_LIMIT", 3),
		SubmissionWindow: getEnvAsDuration("SUBMISSION_WINDOW", "1h"),

		// Timeouts
		SubmitTimeout: getEnvAsDuration("SUBMIT_TIMEOUT", "10s"),

		// Notification function
		NotifyPort:   getEnv("NOTIFY_PORT", "8091"),
		NotifyURL:    getEnv("NOTIFY_URL", "http://localhost:8091/send-booking-notification"),
		OwnerEmail:   getEnv("OWNER_EMAIL", "a.magaia@gmail.com"),
		FromEmail:    getEnv("FROM_EMAIL", "info@djanselme.com"),
		FromName:     getEnv("FROM_NAME", "DJ Anselme"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

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
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
