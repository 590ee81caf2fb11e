package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissing is returned by Validate when a required setting is absent.
var ErrMissing = errors.New("required configuration missing")

// Config holds all application configuration.
type Config struct {
	AppName string
	Port    string

	DatabaseURL string
	JWTSecret   string

	AllowedOrigins []string

	LogLevel  string
	LogFormat string // "text" or "json"

	FluentEnabled bool
	FluentHost    string
	FluentPort    int
	FluentLevel   string

	RabbitMQURL    string
	NotifyExchange string

	GoogleMapsAPIKey   string
	GeocodeInterval    time.Duration
	GeocodeBatch       int
	GeocodeConcurrency int
	GeocodeRPS         float64

	LocationTTL     time.Duration
	DefaultPageSize int

	// Warnings collects settings that were present but malformed and fell
	// back to their defaults.
	Warnings []string
}

// Default returns configuration with development defaults.
func Default() *Config {
	return &Config{
		AppName:            "mealdeal",
		Port:               "3003",
		AllowedOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:5174"},
		LogLevel:           "info",
		LogFormat:          "text",
		FluentHost:         "127.0.0.1",
		FluentPort:         24224,
		FluentLevel:        "info",
		NotifyExchange:     "mealdeal.events",
		GeocodeInterval:    2 * time.Second,
		GeocodeBatch:       200,
		GeocodeConcurrency: 50,
		GeocodeRPS:         10,
		LocationTTL:        30 * time.Minute,
		DefaultPageSize:    12,
	}
}

// Load reads a .env file if present, then overrides defaults from the environment.
func Load() *Config {
	_ = godotenv.Load()
	cfg := Default()
	cfg.LoadFromEnv()
	return cfg
}

// LoadFromEnv overrides fields from environment variables.
func (c *Config) LoadFromEnv() {
	setString(&c.Port, "PORT")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.JWTSecret, "JWT_SECRET")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	c.setBool(&c.FluentEnabled, "FLUENT_ENABLED")
	setString(&c.FluentHost, "FLUENT_HOST")
	c.setInt(&c.FluentPort, "FLUENT_PORT")
	setString(&c.FluentLevel, "FLUENT_LEVEL")

	setString(&c.RabbitMQURL, "RABBITMQ_URL")
	setString(&c.NotifyExchange, "NOTIFY_EXCHANGE")

	setString(&c.GoogleMapsAPIKey, "GOOGLE_MAPS_API_KEY")
	c.setDuration(&c.GeocodeInterval, "GEOCODE_INTERVAL")
	c.setInt(&c.GeocodeBatch, "GEOCODE_BATCH")
	c.setInt(&c.GeocodeConcurrency, "GEOCODE_CONCURRENCY")
	c.setFloat(&c.GeocodeRPS, "GEOCODE_RPS")

	c.setDuration(&c.LocationTTL, "LOCATION_TTL")
	c.setInt(&c.DefaultPageSize, "DEFAULT_PAGE_SIZE")
}

// Validate checks settings required to serve HTTP traffic.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) warn(key, value string) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is malformed, using default", key, value))
}

func (c *Config) setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.warn(key, v)
		return
	}
	*dst = n
}

func (c *Config) setFloat(dst *float64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !(f > 0) {
		c.warn(key, v)
		return
	}
	*dst = f
}

func (c *Config) setBool(dst *bool, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.warn(key, v)
		return
	}
	*dst = b
}

func (c *Config) setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.warn(key, v)
		return
	}
	*dst = d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
