package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"GEMINI_API_KEY", "EMAIL_FROM", "EMAIL_TO", "EMAIL_PASSWORD", "WINDOW_DAYS", "KEYWORD_MATCH", "FETCH_TIMEOUT", "FEED_HOST_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.WindowDays)
	assert.Equal(t, 7*24*time.Hour, cfg.Window())
	assert.Equal(t, "word", cfg.KeywordMatch)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Second, cfg.FeedHostInterval)
	assert.ElementsMatch(t, []string{"GEMINI_API_KEY", "EMAIL_FROM", "EMAIL_TO", "EMAIL_PASSWORD"}, cfg.MissingCredentials())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("EMAIL_FROM", "digest@example.com")
	t.Setenv("EMAIL_TO", " a@example.com, ,b@example.com ")
	t.Setenv("EMAIL_PASSWORD", "secret")
	t.Setenv("WINDOW_DAYS", "30")
	t.Setenv("KEYWORD_MATCH", "Substring")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.EmailTo)
	assert.Equal(t, 30, cfg.WindowDays)
	assert.Equal(t, "substring", cfg.KeywordMatch)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.Debug)
	assert.Empty(t, cfg.MissingCredentials())
}

func TestLoad_InvalidWindow(t *testing.T) {
	t.Setenv("WINDOW_DAYS", "45")

	_, err := Load()
	assert.ErrorContains(t, err, "WINDOW_DAYS")
}

func TestValidate_KeywordMatch(t *testing.T) {
	t.Setenv("KEYWORD_MATCH", "fuzzy")

	_, err := Load()
	assert.ErrorContains(t, err, "KEYWORD_MATCH")
}
