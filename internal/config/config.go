// internal/config/config.go
//
// Process configuration read from the environment.
// Initialization behavior (Load):
//   1. godotenv loads .env (if present) without overriding real env vars.
//   2. Every setting falls back to its default when unset or empty.
//   3. Validate reports every problem at once so a bad deploy fails fast.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// DefaultAuthToken is the bearer token accepted when AUTH_TOKEN is unset.
const DefaultAuthToken = "mystery_game_token"

// Config holds every tunable of the server.
type Config struct {
	Port            string
	LogLevel        string
	AuthToken       string
	AuthTokenBcrypt string
	JWTSecret       string
	JWTExpiresDays  int
	OwnerContact    string
	WorldFile       string
	DBPath          string
	ClientOrigin    string
	RequestTimeout  time.Duration
}

// Load reads .env (best effort) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment and validates it.
func FromEnv() (Config, error) {
	var errs []error

	days, err := envInt("JWT_EXPIRES_DAYS", 14)
	if err != nil {
		errs = append(errs, err)
	}
	timeout, err := envDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		errs = append(errs, err)
	}

	c := Config{
		Port:            getEnv("PORT", "8000"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AuthToken:       getEnv("AUTH_TOKEN", DefaultAuthToken),
		AuthTokenBcrypt: os.Getenv("AUTH_TOKEN_BCRYPT"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTExpiresDays:  days,
		OwnerContact:    os.Getenv("OWNER_CONTACT"),
		WorldFile:       os.Getenv("WORLD_FILE"),
		DBPath:          os.Getenv("DB_PATH"),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		RequestTimeout:  timeout,
	}
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return c, errors.Join(errs...)
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if n, err := strconv.Atoi(c.Port); err != nil || n < 1 || n > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q is not a valid port", c.Port))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err))
	}
	if c.AuthToken == "" && c.AuthTokenBcrypt == "" && c.JWTSecret == "" {
		errs = append(errs, errors.New("no credential configured: set AUTH_TOKEN, AUTH_TOKEN_BCRYPT or JWT_SECRET"))
	}
	if c.AuthTokenBcrypt != "" && !strings.HasPrefix(c.AuthTokenBcrypt, "$2") {
		errs = append(errs, errors.New("AUTH_TOKEN_BCRYPT is not a bcrypt hash"))
	}
	if c.JWTExpiresDays < 1 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.JWTExpiresDays))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not an integer", k, v)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not a duration", k, v)
	}
	return d, nil
}

// OwnerNotConfigured is what the validate endpoints answer when OWNER_CONTACT is unset.
const OwnerNotConfigured = "ERROR: Owner contact not configured by server owner."

// OwnerReply returns the identity the validate endpoints report and whether
// an owner contact is configured.
func (c Config) OwnerReply() (string, bool) {
	if strings.TrimSpace(c.OwnerContact) == "" {
		return OwnerNotConfigured, false
	}
	return c.OwnerContact, true
}
