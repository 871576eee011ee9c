package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var ErrMissingEnv = errors.New("missing required environment variable")

// Config is everything the service reads from the environment.
type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	// PlanCatalog names the catalog to serve. There is no default.
	PlanCatalog string

	DBURL           string
	JWTSecret       string
	StripeSecretKey string
	CORSOrigin      string
}

// IsProduction reports whether missing price references should fail startup.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadEnv reads a .env file if present, then the process environment.
func LoadEnv() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using system environment variables.")
	}
	return Load(os.LookupEnv)
}

// Load builds a Config from lookup.
func Load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		AppEnv:          strings.ToLower(getEnv(lookup, "APP_ENV", "development")),
		Port:            getEnv(lookup, "PORT", "8080"),
		LogLevel:        getEnv(lookup, "LOG_LEVEL", "info"),
		DBURL:           getEnv(lookup, "DB_URL", ""),
		JWTSecret:       getEnv(lookup, "JWT_SECRET", ""),
		StripeSecretKey: getEnv(lookup, "STRIPE_SECRET_KEY", ""),
		CORSOrigin:      getEnv(lookup, "CORS_ORIGIN", "http://localhost:5173"),
	}

	catalog, err := mustEnv(lookup, "PLAN_CATALOG")
	if err != nil {
		return Config{}, err
	}
	cfg.PlanCatalog = catalog

	return cfg, nil
}

func mustEnv(lookup func(string) (string, bool), key string) (string, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return strings.TrimSpace(v), nil
}

func getEnv(lookup func(string) (string, bool), key string, fallback string) string {
	if value, exists := lookup(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
