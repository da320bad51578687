package config_test

import (
	"testing"
	"time"

	"go-leaveform/internal/config"

	"github.com/stretchr/testify/assert"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.FromEnv(envOf(nil))
		assert.NoError(t, err)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, config.DefaultSubmissionEndpoint, cfg.Submission.Endpoint)
		assert.Equal(t, 15*time.Second, cfg.Submission.Timeout)
		assert.False(t, cfg.Submission.StrictStatus)
		assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
		assert.Equal(t, 3, cfg.Session.RateBurst)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Empty(t, cfg.CORSOrigins)
		assert.Equal(t, 20, cfg.Session.IPRateBurst)
		assert.Equal(t, config.DefaultTimezone, cfg.Location.String())
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := config.FromEnv(envOf(map[string]string{
			"PORT":                     "8080",
			"SUBMISSION_ENDPOINT":      "http://backend.local/submit",
			"SUBMISSION_TIMEOUT":       "2s",
			"SUBMISSION_STRICT_STATUS": "true",
			"DB_HOST":                  "db",
			"DB_NAME":                  "forms",
			"CORS_ALLOW_ORIGINS":       "http://localhost:5173, https://leave.example.com,",
			"TIMEZONE":                 "UTC",
			"SUBMIT_IP_RATE_BURST":     "50",
		}))
		assert.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "http://backend.local/submit", cfg.Submission.Endpoint)
		assert.Equal(t, 2*time.Second, cfg.Submission.Timeout)
		assert.True(t, cfg.Submission.StrictStatus)
		assert.Contains(t, cfg.Database.DSN(), "host=db")
		assert.Contains(t, cfg.Database.DSN(), "dbname=forms")
		assert.Equal(t, []string{"http://localhost:5173", "https://leave.example.com"}, cfg.CORSOrigins)
		assert.Equal(t, time.UTC, cfg.Location)
		assert.Equal(t, 50, cfg.Session.IPRateBurst)
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := config.FromEnv(envOf(map[string]string{"SUBMISSION_TIMEOUT": "soon"}))
		assert.Error(t, err)
	})

	t.Run("invalid bool", func(t *testing.T) {
		_, err := config.FromEnv(envOf(map[string]string{"SUBMISSION_STRICT_STATUS": "maybe"}))
		assert.Error(t, err)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		_, err := config.FromEnv(envOf(map[string]string{"TIMEZONE": "Mars/Olympus"}))
		assert.Error(t, err)
	})
}
