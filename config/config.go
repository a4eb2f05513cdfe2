// Package config loads the assistant service configuration from the environment
package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/giygas/pharmly/upstream"
)

// Environment is the deployment stage
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

// String returns the canonical short name
func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment accepts the short names and their long forms
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
}

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogDir            string
	LogRetentionWeeks int   // weeks of log files kept
	MaxLogFileSize    int64 // bytes before a log file is split
	MaxRequestBody    int64
	MaxHeaderSize     int64

	APIEnv          string
	APIBaseURL      string // resolved from APIEnv unless API_BASE_URL is set
	UpstreamTimeout time.Duration
	CustomerID      string
	SessionFile     string

	TypingDelay         time.Duration
	VerifyDelay         time.Duration
	CatalogRefreshTimes string
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               env,
		LogLevel:          strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogDir:            getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 5242880),    // 5MB, prescription scans
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),

		APIEnv:          getEnvWithDefault("API_ENV", upstream.EnvLocal),
		UpstreamTimeout: getDurationEnvWithDefault("UPSTREAM_TIMEOUT", 10*time.Second),
		CustomerID:      getEnvWithDefault("CUSTOMER_ID", "PAT999"),
		SessionFile:     getEnvWithDefault("SESSION_FILE", ".pharmly-session.json"),

		TypingDelay:         getDurationEnvWithDefault("TYPING_DELAY", 900*time.Millisecond),
		VerifyDelay:         getDurationEnvWithDefault("VERIFY_DELAY", 2*time.Second),
		CatalogRefreshTimes: getEnvWithDefault("CATALOG_REFRESH_TIMES", "06:00;18:00"),
	}

	baseURL, err := upstream.ResolveBaseURL(cfg.APIEnv, os.Getenv("API_BASE_URL"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid API_ENV: %w", err)
	}
	cfg.APIBaseURL = baseURL

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateBaseURL(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}

	if cfg.UpstreamTimeout <= 0 {
		return fmt.Errorf("invalid UPSTREAM_TIMEOUT: must be positive, got: %s", cfg.UpstreamTimeout)
	}

	if strings.TrimSpace(cfg.CustomerID) == "" {
		return fmt.Errorf("invalid CUSTOMER_ID: cannot be empty")
	}

	if err := validateDelay(cfg.TypingDelay); err != nil {
		return fmt.Errorf("invalid TYPING_DELAY: %w", err)
	}

	if err := validateDelay(cfg.VerifyDelay); err != nil {
		return fmt.Errorf("invalid VERIFY_DELAY: %w", err)
	}

	if err := validateRefreshTimes(cfg.CatalogRefreshTimes); err != nil {
		return fmt.Errorf("invalid CATALOG_REFRESH_TIMES: %w", err)
	}

	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

func validateLogLevel(logLevel string) error {
	switch logLevel {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("LOG_LEVEL must be one of: [debug info warn error], got: %s", logLevel)
}

func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 {
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

func validateMaxLogFileSize(size int64) error {
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

func validateBaseURL(raw string) error {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return fmt.Errorf("must start with http:// or https://, got: %s", raw)
	}
	return nil
}

func validateDelay(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got: %s", d)
	}
	if d > time.Minute {
		return fmt.Errorf("is too large (max 1m), got: %s", d)
	}
	return nil
}

var refreshTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// validateRefreshTimes checks the gocron At() syntax: HH:MM separated by ';'
func validateRefreshTimes(times string) error {
	if times == "" {
		return fmt.Errorf("cannot be empty")
	}
	for _, t := range strings.Split(times, ";") {
		if !refreshTimeRegex.MatchString(t) {
			return fmt.Errorf("expected HH:MM[;HH:MM...], got: %s", times)
		}
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnvWithDefault accepts Go durations ("900ms") or bare milliseconds
func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"API_ENV",
		"API_BASE_URL",
		"UPSTREAM_TIMEOUT",
		"CUSTOMER_ID",
		"SESSION_FILE",
		"TYPING_DELAY",
		"VERIFY_DELAY",
		"CATALOG_REFRESH_TIMES",
	}
}
