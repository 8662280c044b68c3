// Package config loads application configuration from environment
// variables, optionally seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-ticket-booking/internal/esewa"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env     string // application environment (dev, test, prod)
	Port    string // HTTP port to listen on
	BaseURL string // absolute origin the gateway redirects back to

	DBUser string
	DBPass string // empty allowed
	DBHost string
	DBPort string
	DBName string

	JWTSecret string // HMAC key shared with the login service

	ESewa ESewaConfig

	DefaultSeatPrice int64         // price per seat when a show carries none
	PendingTTL       time.Duration // lifetime of an unconsumed pending booking
	PendingPrefix    string        // Redis key prefix for pending bookings

	RabbitURL      string // broker for booking.confirmed; empty disables publishing
	BookingLogPath string // file the booking consumer appends to
}

// ESewaConfig identifies the merchant account.
type ESewaConfig struct {
	FormURL     string
	ProductCode string
	SecretKey   string
}

// Merchant converts the configuration into the signing account.
func (e ESewaConfig) Merchant() esewa.Merchant {
	return esewa.Merchant{FormURL: e.FormURL, ProductCode: e.ProductCode, SecretKey: []byte(e.SecretKey)}
}

// SuccessURL is the absolute callback for completed payments.
func (c Config) SuccessURL() string { return strings.TrimRight(c.BaseURL, "/") + "/payment/success" }

// FailureURL is the absolute callback for abandoned or failed payments.
func (c Config) FailureURL() string { return strings.TrimRight(c.BaseURL, "/") + "/payment/failure" }

// Production reports whether APP_ENV is prod.
func (c Config) Production() bool { return c.Env == "prod" || c.Env == "production" }

// Load reads .env when present, then the environment.  Missing required
// variables cause the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	cfg, err := load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:       envStr("APP_ENV", "dev"),
		Port:      envStr("APP_PORT", "8080"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    envStr("DB_HOST", "127.0.0.1"),
		DBPort:    envStr("DB_PORT", "3306"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		DefaultSeatPrice: int64(envInt("DEFAULT_SEAT_PRICE", 500)),
		PendingTTL:       envDur("PENDING_TTL", 24*time.Hour),
		PendingPrefix:    envStr("PENDING_PREFIX", "pending"),
		RabbitURL:        firstEnv("RABBITMQ_URL", "AMQP_URL"),
		BookingLogPath:   envStr("BOOKING_LOG_PATH", "logs/booking.log"),
	}
	cfg.BaseURL = envStr("APP_BASE_URL", "http://localhost:"+cfg.Port)

	// The sandbox account is only a default outside production.
	if cfg.Production() {
		cfg.ESewa = ESewaConfig{
			FormURL:     must("ESEWA_FORM_URL"),
			ProductCode: must("ESEWA_PRODUCT_CODE"),
			SecretKey:   must("ESEWA_SECRET_KEY"),
		}
	} else {
		cfg.ESewa = ESewaConfig{
			FormURL:     envStr("ESEWA_FORM_URL", esewa.SandboxFormURL),
			ProductCode: envStr("ESEWA_PRODUCT_CODE", esewa.SandboxProductCode),
			SecretKey:   envStr("ESEWA_SECRET_KEY", esewa.SandboxSecretKey),
		}
	}

	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.DefaultSeatPrice <= 0 {
		return cfg, fmt.Errorf("DEFAULT_SEAT_PRICE must be positive, got %d", cfg.DefaultSeatPrice)
	}
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
