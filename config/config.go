package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	Fetcher           string
	ChromeBin         string
	MaxConcurrency    int
	RateLimitMs       int
	MaxRetries        int
	RequestTimeoutSec int
	CandidateLimit    int

	MockBasePrice float64
	MockSpread    float64
	MockSeed      int64

	ReportPath    string
	CSVOutputPath string
	LogLevel      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "comparator"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "comparator123"),
		PostgresDB:       getEnv("POSTGRES_DB", "prices_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		Fetcher:           strings.ToLower(getEnv("FETCHER", "http")),
		ChromeBin:         getEnv("CHROME_BIN", ""),
		MaxConcurrency:    getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:       getEnvInt("RATE_LIMIT_MS", 0),
		MaxRetries:        getEnvInt("MAX_RETRIES", 1),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 10),
		CandidateLimit:    getEnvInt("CANDIDATE_LIMIT", 10),

		MockBasePrice: getEnvFloat("MOCK_BASE_PRICE", 299.99),
		MockSpread:    getEnvFloat("MOCK_SPREAD", 50),
		MockSeed:      int64(getEnvInt("MOCK_SEED", 0)),

		ReportPath:    getEnv("REPORT_PATH", "price_report.txt"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
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

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
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
