package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	pkgerr "mkaplan/eventdigest/pkg/errors"
)

// Config represents the application configuration loaded from the environment
type Config struct {
	// SMTP configuration
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	EmailRecipient string
	EmailSubject   string

	// Analyzer configuration
	AnthropicAPIKey string

	// Headless browser service for JS-rendered calendars
	BrowserAddr string

	// Memcache configuration (optional fetch rate-limit guard)
	MemcacheAddr string

	// Redis configuration (optional digest stream)
	RedisAddr   string
	RedisDB     int
	RedisStream string

	// URLs for the venue scrapers
	PetalumaURL   string
	CalTheatreURL string
	NorthBayURL   string

	// Path to the static venue/analyzer configuration file
	ConfigFile string

	// TestMode renders the digest without sending it
	TestMode bool

	// Environment
	Environment string
}

// VenueConfig is one venue entry from the configuration file
type VenueConfig struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// AnalyzerConfig holds model settings and the owner's event preferences
type AnalyzerConfig struct {
	Model             string   `json:"model"`
	MaxTokens         int      `json:"max_tokens"`
	StrongInterests   []string `json:"strong_interests"`
	ModerateInterests []string `json:"moderate_interests"`
	Dislikes          []string `json:"dislikes"`
}

// FileConfig is the static per-run configuration read from config.json.
// It is loaded once at process start and never mutated.
type FileConfig struct {
	Venues   []VenueConfig  `json:"venues"`
	Analyzer AnalyzerConfig `json:"analyzer"`
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	testMode, _ := strconv.ParseBool(getEnv("TEST_MODE", "false"))

	return Config{
		SMTPHost:        os.Getenv("SMTP_SERVER"),
		SMTPPort:        smtpPort,
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		EmailRecipient:  os.Getenv("EMAIL_RECIPIENT"),
		EmailSubject:    getEnv("EMAIL_SUBJECT", "Event Updates"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		BrowserAddr:     getEnv("BROWSER_ADDR", "http://localhost:3000"),
		MemcacheAddr:    os.Getenv("MEMCACHE_ADDR"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisDB:         redisDB,
		RedisStream:     getEnv("REDIS_STREAM", "eventdigest"),
		PetalumaURL:     getEnv("PETALUMA_URL", "https://tockify.com/pdaevents"),
		CalTheatreURL:   getEnv("CALTHEATRE_URL", "https://www.caltheatre.com/"),
		NorthBayURL:     getEnv("NORTHBAY_URL", "https://northbaystageandscreen.com/onstage/"),
		ConfigFile:      getEnv("CONFIG_FILE", "config.json"),
		TestMode:        testMode,
		Environment:     getEnv("EVENT_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration can support a full run
func (c *Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return pkgerr.NewConfiguration("ANTHROPIC_API_KEY is required", nil)
	}
	if c.TestMode {
		// Dry-run notifications need no SMTP credentials
		return nil
	}
	if c.SMTPHost == "" {
		return pkgerr.NewConfiguration("SMTP_SERVER is required", nil)
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return pkgerr.NewConfiguration(fmt.Sprintf("invalid SMTP_PORT: %d", c.SMTPPort), nil)
	}
	if c.SMTPUsername == "" || c.SMTPPassword == "" {
		return pkgerr.NewConfiguration("SMTP_USERNAME and SMTP_PASSWORD are required", nil)
	}
	if c.EmailRecipient == "" {
		return pkgerr.NewConfiguration("EMAIL_RECIPIENT is required", nil)
	}
	return nil
}

// LoadVenues reads the static venue/analyzer configuration file
func LoadVenues(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerr.NewConfiguration(fmt.Sprintf("failed to read %s", path), err)
	}

	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, pkgerr.NewConfiguration(fmt.Sprintf("failed to parse %s", path), err)
	}

	if fc.Analyzer.Model == "" {
		fc.Analyzer.Model = "claude-3-5-sonnet-latest"
	}
	if fc.Analyzer.MaxTokens <= 0 {
		fc.Analyzer.MaxTokens = 2500
	}

	return &fc, nil
}

// Enabled reports whether the named venue is enabled in the file config.
// Venues absent from the file are treated as enabled.
func (fc *FileConfig) Enabled(name string) bool {
	for _, v := range fc.Venues {
		if v.Name == name {
			return v.Enabled
		}
	}
	return true
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
