package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ReferenceDateLayout is the accepted format of REFERENCE_DATE.
const ReferenceDateLayout = "2006-01-02"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string `validate:"numeric"`
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string `validate:"oneof=disable require verify-ca verify-full"`
	StorePostgres    bool

	MaxConcurrency int `validate:"min=1,max=64"`
	MaxRetries     int `validate:"min=1"`

	InputPath       string `validate:"required"`
	OutputPath      string `validate:"required"`
	TrimsOutputPath string
	RulesFile       string

	ReferenceDate time.Time
	LogLevel      string `validate:"oneof=debug info warn error"`
}

// Load reads the .env file and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	ref, err := getEnvDate("REFERENCE_DATE", time.Now().UTC())
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "carvalu"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "carvalu123"),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		StorePostgres:    getEnvBool("STORE_POSTGRES", false),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		InputPath:       getEnv("INPUT_PATH", "./data/raw"),
		OutputPath:      getEnv("OUTPUT_PATH", "./output/cleaned_listings.csv"),
		TrimsOutputPath: getEnv("TRIMS_OUTPUT_PATH", ""),
		RulesFile:       getEnv("RULES_FILE", ""),

		ReferenceDate: ref,
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}

// Rules returns the configured rules: the defaults, overlaid with RulesFile when set.
func (c *Config) Rules() (Rules, error) {
	if c.RulesFile == "" {
		return DefaultRules(), nil
	}
	return LoadRules(c.RulesFile)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDate(key string, fallback time.Time) (time.Time, error) {
	val := os.Getenv(key)
	if val == "" {
		return truncateDay(fallback), nil
	}
	t, err := time.Parse(ReferenceDateLayout, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: parse %s %q: %w", key, val, err)
	}
	return t, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
