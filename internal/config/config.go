// Package config loads the digest settings from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Gemini settings
	GeminiAPIKey string
	GeminiModel  string

	// Mail settings
	EmailFrom     string
	EmailTo       []string
	EmailPassword string
	SMTPHost      string
	SMTPPort      int

	// Feed settings
	SourcesConfigPath string
	FeedUserAgent     string
	WindowDays        int
	PerSourceLimit    int
	SummaryMaxChars   int
	FetchConcurrency  int
	FetchTimeout      time.Duration
	FeedHostInterval  time.Duration // minimum gap between requests to one host

	// Digest settings
	MaxPromptArticles   int
	MaxFallbackArticles int
	KeywordMatch        string // "word" or "substring"
	GenerateTimeout     time.Duration
	SendTimeout         time.Duration

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		GeminiModel:         "gemini-2.5-flash",
		SMTPHost:            "smtp.gmail.com",
		SMTPPort:            465,
		SourcesConfigPath:   "configs/sources.yaml",
		FeedUserAgent:       "aidigest/1.0 (+https://github.com/deusflow/aidigest)",
		WindowDays:          7,
		PerSourceLimit:      20,
		SummaryMaxChars:     500,
		FetchConcurrency:    4,
		FetchTimeout:        20 * time.Second,
		FeedHostInterval:    time.Second,
		MaxPromptArticles:   15,
		MaxFallbackArticles: 15,
		KeywordMatch:        "word",
		GenerateTimeout:     60 * time.Second,
		SendTimeout:         30 * time.Second,
	}

	// Credentials
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.EmailFrom = strings.TrimSpace(os.Getenv("EMAIL_FROM"))
	cfg.EmailTo = splitList(os.Getenv("EMAIL_TO"))
	cfg.EmailPassword = os.Getenv("EMAIL_PASSWORD")

	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)
	cfg.SMTPHost = getEnvOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvIntOrDefault("SMTP_PORT", cfg.SMTPPort)

	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.FeedUserAgent = getEnvOrDefault("FEED_USER_AGENT", cfg.FeedUserAgent)
	cfg.WindowDays = getEnvIntOrDefault("WINDOW_DAYS", cfg.WindowDays)
	cfg.PerSourceLimit = getEnvIntOrDefault("PER_SOURCE_LIMIT", cfg.PerSourceLimit)
	cfg.SummaryMaxChars = getEnvIntOrDefault("SUMMARY_MAX_CHARS", cfg.SummaryMaxChars)
	cfg.FetchConcurrency = getEnvIntOrDefault("FETCH_CONCURRENCY", cfg.FetchConcurrency)
	cfg.FetchTimeout = getEnvDurationOrDefault("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.FeedHostInterval = getEnvDurationOrDefault("FEED_HOST_INTERVAL", cfg.FeedHostInterval)

	cfg.MaxPromptArticles = getEnvIntOrDefault("MAX_PROMPT_ARTICLES", cfg.MaxPromptArticles)
	cfg.MaxFallbackArticles = getEnvIntOrDefault("MAX_FALLBACK_ARTICLES", cfg.MaxFallbackArticles)
	cfg.KeywordMatch = strings.ToLower(getEnvOrDefault("KEYWORD_MATCH", cfg.KeywordMatch))
	cfg.GenerateTimeout = getEnvDurationOrDefault("GENERATE_TIMEOUT", cfg.GenerateTimeout)
	cfg.SendTimeout = getEnvDurationOrDefault("SEND_TIMEOUT", cfg.SendTimeout)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

// Window is the trailing relevance window.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowDays) * 24 * time.Hour
}

// MissingCredentials lists the credential variables that are not set. They are
// not required up front: without GEMINI_API_KEY the fallback digest is sent,
// and the mail variables only matter when actually sending.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.EmailFrom == "" {
		missing = append(missing, "EMAIL_FROM")
	}
	if len(c.EmailTo) == 0 {
		missing = append(missing, "EMAIL_TO")
	}
	if c.EmailPassword == "" {
		missing = append(missing, "EMAIL_PASSWORD")
	}
	return missing
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
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

func (c *Config) Validate() error {
	if c.WindowDays < 1 || c.WindowDays > 30 {
		return fmt.Errorf("WINDOW_DAYS must be between 1 and 30, got %d", c.WindowDays)
	}
	if c.PerSourceLimit < 1 || c.PerSourceLimit > 50 {
		return fmt.Errorf("PER_SOURCE_LIMIT must be between 1 and 50, got %d", c.PerSourceLimit)
	}
	if c.SummaryMaxChars < 1 {
		return fmt.Errorf("SUMMARY_MAX_CHARS must be positive")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}
	if c.FeedHostInterval < 0 {
		return fmt.Errorf("FEED_HOST_INTERVAL must not be negative")
	}
	if c.MaxPromptArticles < 1 || c.MaxFallbackArticles < 1 {
		return fmt.Errorf("MAX_PROMPT_ARTICLES and MAX_FALLBACK_ARTICLES must be positive")
	}
	if c.KeywordMatch != "word" && c.KeywordMatch != "substring" {
		return fmt.Errorf("KEYWORD_MATCH must be 'word' or 'substring'")
	}
	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT out of range: %d", c.SMTPPort)
	}
	return nil
}
