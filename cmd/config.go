package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"orderwatch/internal/adapters/out/postgres"
	"orderwatch/internal/jobs"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisURL               string
	KafkaHost              string
	KafkaOrderChangedTopic string

	ConsoleBaseURL string
	ConsoleToken   string
	ActuatorURL    string

	Timezone           string
	LogLevel           string
	StatusPatternsFile string

	MonitorLimit        int
	EnrichmentBatchSize int
	EnrichmentMaxCycles int
	SweepMaxPages       int
}

// LoadConfig reads the environment after loading envFile into it. A missing
// envFile is fine; variables already set in the environment win.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	defaults := jobs.DefaultSettings()
	cfg := Config{
		HTTPPort:               env("HTTP_PORT", "8080"),
		DBHost:                 env("DB_HOST", "localhost"),
		DBPort:                 env("DB_PORT", "5432"),
		DBUser:                 env("DB_USER", "postgres"),
		DBPassword:             env("DB_PASSWORD", ""),
		DBName:                 env("DB_NAME", "orderwatch"),
		DBSslMode:              env("DB_SSLMODE", "disable"),
		RedisURL:               env("REDIS_URL", "redis://localhost:6379/0"),
		KafkaHost:              env("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: env("KAFKA_ORDER_CHANGED_TOPIC", "order.status_changed"),
		ConsoleBaseURL:         env("CONSOLE_BASE_URL", ""),
		ConsoleToken:           env("CONSOLE_TOKEN", ""),
		ActuatorURL:            env("ACTUATOR_URL", ""),
		Timezone:               env("TIMEZONE", "America/Caracas"),
		LogLevel:               env("LOG_LEVEL", "info"),
		StatusPatternsFile:     env("STATUS_PATTERNS_FILE", ""),
	}

	var err error
	cfg.MonitorLimit, err = envInt("MONITOR_LIMIT", defaults.MonitorLimit, err)
	cfg.EnrichmentBatchSize, err = envInt("ENRICHMENT_BATCH_SIZE", defaults.EnrichmentBatchSize, err)
	cfg.EnrichmentMaxCycles, err = envInt("ENRICHMENT_MAX_CYCLES", defaults.EnrichmentMaxCycles, err)
	cfg.SweepMaxPages, err = envInt("SWEEP_MAX_PAGES", defaults.SweepMaxPages, err)
	if err != nil {
		return Config{}, err
	}

	if cfg.ActuatorURL == "" {
		cfg.ActuatorURL = cfg.ConsoleBaseURL
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) DatabaseURL() string {
	return postgres.ConnectionURL(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Location is the business time zone used for schedules and report dates.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) JobSettings() jobs.Settings {
	s := jobs.DefaultSettings()
	s.MonitorLimit = c.MonitorLimit
	s.EnrichmentBatchSize = c.EnrichmentBatchSize
	s.EnrichmentMaxCycles = c.EnrichmentMaxCycles
	s.SweepMaxPages = c.SweepMaxPages
	return s
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// envInt keeps the first error so a chain of reads can be checked once.
func envInt(key string, fallback int, prev error) (int, error) {
	raw := env(key, "")
	if raw == "" || prev != nil {
		return fallback, prev
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}
