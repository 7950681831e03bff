package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment.
type Config struct {
	AppPort  int
	AppEnv   string
	LogLevel string

	DatabaseURL string

	// LLM
	LLMProvider  string // googleai or openai
	LLMModel     string
	GeminiAPIKey string
	OpenAIAPIKey string

	// Google Workspace
	GoogleCredentialsFile string
	GoogleTokenFile       string
	GmailEnabled          bool
	CalendarID            string

	// Uploads
	MaxUploadBytes int64

	CORSAllowOrigins []string
}

const defaultDSN = "host=localhost user=postgres password=password dbname=talentcrm port=5432 sslmode=disable"

// LoadDotEnv reads a .env file into the environment. A missing file is not
// an error; values already set in the environment win.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads Config from environment variables, applying defaults.
func Load() (*Config, error) {
	port, err := intEnv("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	maxUpload, err := intEnv("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	gmail, err := boolEnv("GMAIL_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppPort:               port,
		AppEnv:                getEnv("APP_ENV", "production"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DatabaseURL:           getEnv("DATABASE_URL", defaultDSN),
		LLMProvider:           strings.ToLower(getEnv("LLM_PROVIDER", "googleai")),
		LLMModel:              os.Getenv("LLM_MODEL"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credential.json"),
		GoogleTokenFile:       getEnv("GOOGLE_TOKEN_FILE", "token.json"),
		GmailEnabled:          gmail,
		CalendarID:            os.Getenv("CALENDAR_ID"),
		MaxUploadBytes:        int64(maxUpload),
		CORSAllowOrigins:      splitList(os.Getenv("CORS_ALLOW_ORIGINS")),
	}

	if cfg.LLMModel == "" {
		switch cfg.LLMProvider {
		case "openai":
			cfg.LLMModel = "gpt-4o-mini"
		default:
			cfg.LLMModel = "gemini-2.5-flash"
		}
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
