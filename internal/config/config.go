package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Timestamp encoding profiles. A build talks to exactly one backend revision,
// so exactly one profile is active per Config.
const (
	ProfileUTCFraction = "utc-fraction"
	ProfileLocalOffset = "local-offset"
)

// Config holds client configuration
type Config struct {
	APIBaseURL         string
	APIToken           string
	LogLevel           string
	TimestampProfile   string
	Timezone           string
	PageSize           int
	ReceiptJPEGQuality int
	GCSCredentialsFile string
	GCSEndpoint        string
	MockAPIPort        string
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment take precedence over .env.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	pageSize, err := getEnvInt("HOMEAPP_PAGE_SIZE", 30)
	if err != nil {
		return nil, err
	}
	quality, err := getEnvInt("HOMEAPP_RECEIPT_JPEG_QUALITY", 70)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:         strings.TrimRight(getEnv("HOMEAPP_API_BASE_URL", "http://localhost:8080"), "/"),
		APIToken:           getEnv("HOMEAPP_API_TOKEN", ""),
		LogLevel:           getEnv("HOMEAPP_LOG_LEVEL", "info"),
		TimestampProfile:   getEnv("HOMEAPP_TIMESTAMP_PROFILE", ProfileUTCFraction),
		Timezone:           getEnv("HOMEAPP_TIMEZONE", "America/Toronto"),
		PageSize:           pageSize,
		ReceiptJPEGQuality: quality,
		GCSCredentialsFile: getEnv("HOMEAPP_GCS_CREDENTIALS_FILE", ""),
		GCSEndpoint:        getEnv("HOMEAPP_GCS_ENDPOINT", ""),
		MockAPIPort:        getEnv("HOMEAPP_MOCKAPI_PORT", "8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. The API token is not checked here because the
// mock backend can run without one; callers that talk to a backend use RequireToken.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("HOMEAPP_API_BASE_URL is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("HOMEAPP_PAGE_SIZE must be positive")
	}
	if c.ReceiptJPEGQuality < 1 || c.ReceiptJPEGQuality > 100 {
		return fmt.Errorf("HOMEAPP_RECEIPT_JPEG_QUALITY must be between 1 and 100")
	}
	switch c.TimestampProfile {
	case ProfileUTCFraction, ProfileLocalOffset:
	default:
		return fmt.Errorf("HOMEAPP_TIMESTAMP_PROFILE must be %q or %q", ProfileUTCFraction, ProfileLocalOffset)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("HOMEAPP_TIMEZONE: %w", err)
	}
	return nil
}

// RequireToken fails when no bearer token is configured.
func (c *Config) RequireToken() error {
	if c.APIToken == "" {
		return fmt.Errorf("HOMEAPP_API_TOKEN is required")
	}
	return nil
}

// Location returns the configured civil-time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(raw) == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
