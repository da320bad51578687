package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	DefaultSubmissionEndpoint = "https://discord-leave-backend.onrender.com/submit-form"
	DefaultTimezone           = "Asia/Bangkok"
)

type Config struct {
	Port string
	// Location decides which calendar day is "today" for date checks. The
	// form's users are in Thailand, not wherever the server runs.
	Location *time.Location

	Submission SubmissionConfig
	Session    SessionConfig
	Database   DatabaseConfig
	RedisAddr  string
	// CORSOrigins lists browser origins allowed to call the API. Empty
	// disables the CORS middleware.
	CORSOrigins []string
}

type SubmissionConfig struct {
	Endpoint string
	Timeout  time.Duration
	// StrictStatus treats non-2xx responses as failures. Off by default so
	// only transport errors fail a submission.
	StrictStatus bool
}

type SessionConfig struct {
	TTL time.Duration
	// RatePerSec and RateBurst limit submits per form session.
	RatePerSec float64
	RateBurst  int
	// IPRatePerSec and IPRateBurst limit submits per client IP across
	// sessions.
	IPRatePerSec float64
	IPRateBurst  int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function so tests can feed a map.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}

	timeout, err := time.ParseDuration(get("SUBMISSION_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("SUBMISSION_TIMEOUT: %w", err)
	}
	strict, err := strconv.ParseBool(get("SUBMISSION_STRICT_STATUS", "false"))
	if err != nil {
		return nil, fmt.Errorf("SUBMISSION_STRICT_STATUS: %w", err)
	}
	ttl, err := time.ParseDuration(get("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	rps, err := strconv.ParseFloat(get("SUBMIT_RATE_PER_SEC", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("SUBMIT_RATE_PER_SEC: %w", err)
	}
	burst, err := strconv.Atoi(get("SUBMIT_RATE_BURST", "3"))
	if err != nil {
		return nil, fmt.Errorf("SUBMIT_RATE_BURST: %w", err)
	}
	ipRPS, err := strconv.ParseFloat(get("SUBMIT_IP_RATE_PER_SEC", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("SUBMIT_IP_RATE_PER_SEC: %w", err)
	}
	ipBurst, err := strconv.Atoi(get("SUBMIT_IP_RATE_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("SUBMIT_IP_RATE_BURST: %w", err)
	}
	loc, err := time.LoadLocation(get("TIMEZONE", DefaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	return &Config{
		Port:     get("PORT", "3000"),
		Location: loc,
		Submission: SubmissionConfig{
			Endpoint:     get("SUBMISSION_ENDPOINT", DefaultSubmissionEndpoint),
			Timeout:      timeout,
			StrictStatus: strict,
		},
		Session: SessionConfig{
			TTL:          ttl,
			RatePerSec:   rps,
			RateBurst:    burst,
			IPRatePerSec: ipRPS,
			IPRateBurst:  ipBurst,
		},
		Database: DatabaseConfig{
			Host:     get("DB_HOST", "localhost"),
			Port:     get("DB_PORT", "5432"),
			User:     get("DB_USER", "postgres"),
			Password: get("DB_PASSWORD", ""),
			Name:     get("DB_NAME", "leaveform"),
			SSLMode:  get("DB_SSLMODE", "disable"),
		},
		RedisAddr:   get("REDIS_ADDR", "localhost:6379"),
		CORSOrigins: splitList(getenv("CORS_ALLOW_ORIGINS")),
	}, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
