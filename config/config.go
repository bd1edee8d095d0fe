package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string

	StoreDriver    string
	MongoURI       string
	MongoDatabase  string
	DBUrl          string
	RedisURL       string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	PublicBaseURL  string
	UploadDir      string
	CORSOrigins    []string
	AdminJWTSecret string
	BookingsPerMin int
	EmailProvider  string
	EmailFromAddr  string
	EmailFromName  string
	AWSRegion      string
	AWSAccessKeyID string
	AWSSecretKey   string
	SESInsecureTLS bool
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the process environment is authoritative and .env may not exist.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Debug(".env file not loaded", "err", err)
		}
	}
	return fromEnv(env)
}

func fromEnv(env string) (*Config, error) {
	var problems []string

	cfg := &Config{
		Environment:    env,
		Port:           getenv("PORT", "8080"),
		StoreDriver:    strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),
		MongoURI:       os.Getenv("MONGODB_URI"),
		MongoDatabase:  getenv("MONGODB_DATABASE", "eventhub"),
		DBUrl:          os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		UploadDir:      getenv("UPLOAD_DIR", "./uploads"),
		CORSOrigins:    splitCSV(os.Getenv("CORS_ORIGINS")),
		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		EmailProvider:  getenv("EMAIL_PROVIDER", "noop"),
		EmailFromAddr:  os.Getenv("EMAIL_FROM_ADDRESS"),
		EmailFromName:  getenv("EMAIL_FROM_NAME", "Eventhub"),
		AWSRegion:      getenv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
	cfg.PublicBaseURL = strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port), "/")

	var err error
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", 5*time.Minute); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.BookingsPerMin, err = intEnv("BOOKING_RATE_PER_MINUTE", 10); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.SESInsecureTLS, err = boolEnv("SES_INSECURE_SKIP_VERIFY", false); err != nil {
		problems = append(problems, err.Error())
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			problems = append(problems, "MONGODB_URI is required when STORE_DRIVER=mongo")
		}
	case StorePostgres:
		if cfg.DBUrl == "" {
			problems = append(problems, "DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StorePostgres, cfg.StoreDriver))
	}
	if cfg.EmailProvider == "ses" && cfg.EmailFromAddr == "" {
		problems = append(problems, "EMAIL_FROM_ADDRESS is required when EMAIL_PROVIDER=ses")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, s)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, s)
	}
	return b, nil
}
