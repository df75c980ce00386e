package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	RedisAddr       string
	ShutdownTimeout time.Duration

	PaymentBaseURL string
	PaymentAPIKey  string
	PushBaseURL    string
	PushVAPIDKey   string
	GeocodeBaseURL string
	UserAgent      string

	Currency     string
	AllowOrigins []string
}

// FromEnv builds Config with defaults, overridden by environment variables.
// An empty DB_DSN selects the built-in demo catalog; an empty REDIS_ADDR
// keeps cart sessions in process memory.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    envOrDefault("DB_DSN", ""),
		RedisAddr:       envOrDefault("REDIS_ADDR", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		PaymentBaseURL:  envOrDefault("PAYMENT_GATEWAY_URL", "http://localhost:3051"),
		PaymentAPIKey:   envOrDefault("PAYMENT_GATEWAY_KEY", ""),
		PushBaseURL:     envOrDefault("PUSH_PROVIDER_URL", ""),
		PushVAPIDKey:    envOrDefault("PUSH_VAPID_KEY", ""),
		GeocodeBaseURL:  envOrDefault("GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		UserAgent:       envOrDefault("GEOCODE_USER_AGENT", "storefront-checkout/1.0"),
		Currency:        envOrDefault("CURRENCY", "usd"),
		AllowOrigins:    []string{envOrDefault("CORS_ALLOW_ORIGIN", "*")},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
