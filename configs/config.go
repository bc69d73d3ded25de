package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Port           string
	Environment    string
	APIKey         string
	AdminUsername  string
	AdminPassword  string
	AllowedOrigins []string

	StoreBackend string
	DatabaseURL  string

	TemporalHost      string
	TemporalNamespace string
	SweepTaskQueue    string
	SweepCron         string
	SweepConcurrency  int

	ForecastHorizonDays    int
	ForecastMaxHorizonDays int
	ForecastLookbackDays   int
	DefaultLeadTimeDays    int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		APIKey:         getEnv("API_KEY", ""),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		TemporalHost:      getEnv("TEMPORAL_HOST", "localhost:7233"),
		TemporalNamespace: getEnv("TEMPORAL_NAMESPACE", "default"),
		SweepTaskQueue:    getEnv("SWEEP_TASK_QUEUE", "reorder-sweep"),
		SweepCron:         getEnv("SWEEP_CRON", "0 */6 * * *"),
		SweepConcurrency:  getEnvInt("SWEEP_CONCURRENCY", 4),

		ForecastHorizonDays:    getEnvInt("FORECAST_HORIZON_DAYS", 30),
		ForecastMaxHorizonDays: getEnvInt("FORECAST_MAX_HORIZON_DAYS", 90),
		ForecastLookbackDays:   getEnvInt("FORECAST_LOOKBACK_DAYS", 90),
		DefaultLeadTimeDays:    getEnvInt("DEFAULT_LEAD_TIME_DAYS", 7),
	}
}

// Validate reports configuration combinations that cannot start.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	if c.ForecastHorizonDays < 1 || c.ForecastHorizonDays > c.ForecastMaxHorizonDays {
		errs = append(errs, fmt.Errorf("FORECAST_HORIZON_DAYS must be within 1..%d", c.ForecastMaxHorizonDays))
	}
	if c.ForecastLookbackDays < 1 {
		errs = append(errs, errors.New("FORECAST_LOOKBACK_DAYS must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable, falling back to the default
// when unset or malformed
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
