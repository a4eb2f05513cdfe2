package config

import (
	"strings"
	"testing"
	"time"
)

// setBaseEnv pins every variable so tests do not depend on the host
func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "8002")
	t.Setenv("ADDRESS", "127.0.0.1")
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "info")
}

func TestLoadValidConfig(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("API_ENV", "render")
	t.Setenv("TYPING_DELAY", "0")
	t.Setenv("VERIFY_DELAY", "1500ms")
	t.Setenv("CUSTOMER_ID", "PAT100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.APIBaseURL != "https://hackfusion-final.onrender.com" {
		t.Errorf("Expected render URL, got %s", cfg.APIBaseURL)
	}
	if cfg.TypingDelay != 0 {
		t.Errorf("Expected no typing delay, got %s", cfg.TypingDelay)
	}
	if cfg.VerifyDelay != 1500*time.Millisecond {
		t.Errorf("Expected verify delay 1.5s, got %s", cfg.VerifyDelay)
	}
	if cfg.CustomerID != "PAT100" {
		t.Errorf("Expected customer PAT100, got %s", cfg.CustomerID)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	for _, key := range GetEnvVars() {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected default address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:5000" {
		t.Errorf("Expected local API URL, got %s", cfg.APIBaseURL)
	}
	if cfg.CustomerID != "PAT999" {
		t.Errorf("Expected default customer PAT999, got %s", cfg.CustomerID)
	}
	if cfg.TypingDelay != 900*time.Millisecond || cfg.VerifyDelay != 2*time.Second {
		t.Errorf("Unexpected default delays %s, %s", cfg.TypingDelay, cfg.VerifyDelay)
	}
	if cfg.CatalogRefreshTimes != "06:00;18:00" {
		t.Errorf("Expected default refresh times, got %s", cfg.CatalogRefreshTimes)
	}
}

func TestBaseURLOverride(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("API_ENV", "unknown-but-overridden")
	t.Setenv("API_BASE_URL", "https://api.example.test/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.test" {
		t.Errorf("Expected override without trailing slash, got %s", cfg.APIBaseURL)
	}
}

func TestInvalidValues(t *testing.T) {
	testCases := []struct {
		key      string
		value    string
		expected string
	}{
		{"PORT", "abc", "PORT must be a valid number"},
		{"PORT", "0", "PORT must be between 1 and 65535"},
		{"PORT", "65536", "PORT must be between 1 and 65535"},
		{"PORT", "80", "PORT 80 is privileged"},
		{"ADDRESS", "invalid", "ADDRESS must be a valid IP address"},
		{"ADDRESS", "8.8.8.8", "is a public IP"},
		{"ENV", "invalid", "ENV must be one of"},
		{"LOG_LEVEL", "invalid", "LOG_LEVEL must be one of"},
		{"LOG_RETENTION_WEEKS", "53", "too large"},
		{"MAX_LOG_FILE_SIZE", "10", "too small"},
		{"API_ENV", "staging", "unknown API environment"},
		{"API_BASE_URL", "ftp://files", "must start with http"},
		{"UPSTREAM_TIMEOUT", "-1s", "must be positive"},
		{"TYPING_DELAY", "-5ms", "must not be negative"},
		{"VERIFY_DELAY", "2h", "too large"},
		{"CATALOG_REFRESH_TIMES", "6am", "expected HH:MM"},
		{"CATALOG_REFRESH_TIMES", "06:00;25:00", "expected HH:MM"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s, got nil", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestDurationParsing(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", 3 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"1500", 1500 * time.Millisecond},
		{"garbage", 3 * time.Second},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION", tt.value)
		if got := getDurationEnvWithDefault("TEST_DURATION", 3*time.Second); got != tt.expected {
			t.Errorf("For %q expected %s, got %s", tt.value, tt.expected, got)
		}
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		hasError bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"prod", EnvProduction, false},
		{"PRODUCTION", EnvProduction, false},
		{"test", EnvTest, false},
		{"invalid", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := ParseEnvironment(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for %s, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.input, err)
			}
			if env != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, env)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	tests := []struct {
		env      Environment
		expected string
	}{
		{EnvDevelopment, "dev"},
		{EnvStaging, "staging"},
		{EnvProduction, "prod"},
		{EnvTest, "test"},
	}

	for _, tt := range tests {
		if got := tt.env.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}
