package config

import (
	"os"
	"testing"
	"time"
)

var testEnvVars = []string{
	"PORT", "LOG_LEVEL", "JWT_SECRET", "HMAC_SHARED_SECRET",
	"SIGNATURE_FRESHNESS_WINDOW", "MAX_BODY_BYTES",
	"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_DEFAULT", "RATE_LIMIT_WINDOW",
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range testEnvVars {
		os.Unsetenv(key)
	}
}

func validConfig() *Config {
	cfg := Load()
	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.HMACSharedSecret = "shared-secret"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config := Load()

	if config.Port != "8080" {
		t.Errorf("Load() Port = %v, want %v", config.Port, "8080")
	}

	if config.LogLevel != "info" {
		t.Errorf("Load() LogLevel = %v, want %v", config.LogLevel, "info")
	}

	if config.JWTSecret != "" {
		t.Errorf("Load() JWTSecret = %v, want empty", config.JWTSecret)
	}

	if config.HMACSharedSecret != "" {
		t.Errorf("Load() HMACSharedSecret = %v, want empty", config.HMACSharedSecret)
	}

	if config.FreshnessWindow != 5*time.Minute {
		t.Errorf("Load() FreshnessWindow = %v, want %v", config.FreshnessWindow, 5*time.Minute)
	}

	if config.MaxBodyBytes != 1<<20 {
		t.Errorf("Load() MaxBodyBytes = %v, want %v", config.MaxBodyBytes, 1<<20)
	}

	if config.RedisAddress != "" {
		t.Errorf("Load() RedisAddress = %v, want empty", config.RedisAddress)
	}

	if !config.RateLimitEnabled {
		t.Errorf("Load() RateLimitEnabled = %v, want true", config.RateLimitEnabled)
	}

	if config.RateLimitDefault != "100" {
		t.Errorf("Load() RateLimitDefault = %v, want %v", config.RateLimitDefault, "100")
	}

	if config.RateLimitWindow != "60s" {
		t.Errorf("Load() RateLimitWindow = %v, want %v", config.RateLimitWindow, "60s")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearTestEnvVars(t)
	defer clearTestEnvVars(t)

	os.Setenv("PORT", "9090")
	os.Setenv("SIGNATURE_FRESHNESS_WINDOW", "90s")
	os.Setenv("MAX_BODY_BYTES", "2048")
	os.Setenv("RATE_LIMIT_ENABLED", "false")

	config := Load()

	if config.Port != "9090" {
		t.Errorf("Load() Port = %v, want %v", config.Port, "9090")
	}
	if config.FreshnessWindow != 90*time.Second {
		t.Errorf("Load() FreshnessWindow = %v, want %v", config.FreshnessWindow, 90*time.Second)
	}
	if config.MaxBodyBytes != 2048 {
		t.Errorf("Load() MaxBodyBytes = %v, want %v", config.MaxBodyBytes, 2048)
	}
	if config.RateLimitEnabled {
		t.Errorf("Load() RateLimitEnabled = %v, want false", config.RateLimitEnabled)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	clearTestEnvVars(t)
	defer clearTestEnvVars(t)

	os.Setenv("SIGNATURE_FRESHNESS_WINDOW", "not-a-duration")
	os.Setenv("MAX_BODY_BYTES", "not-a-number")

	config := Load()

	if config.FreshnessWindow != 5*time.Minute {
		t.Errorf("Load() FreshnessWindow = %v, want default %v", config.FreshnessWindow, 5*time.Minute)
	}
	if config.MaxBodyBytes != 1<<20 {
		t.Errorf("Load() MaxBodyBytes = %v, want default %v", config.MaxBodyBytes, 1<<20)
	}
}

func TestValidate(t *testing.T) {
	clearTestEnvVars(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing JWT secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: true,
		},
		{
			name:    "short JWT secret",
			mutate:  func(c *Config) { c.JWTSecret = "tooshort" },
			wantErr: true,
		},
		{
			name:    "missing HMAC secret",
			mutate:  func(c *Config) { c.HMACSharedSecret = "" },
			wantErr: true,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Port = "notaport" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantErr: true,
		},
		{
			name:    "zero freshness window",
			mutate:  func(c *Config) { c.FreshnessWindow = 0 },
			wantErr: true,
		},
		{
			name:    "zero body limit",
			mutate:  func(c *Config) { c.MaxBodyBytes = 0 },
			wantErr: true,
		},
		{
			name: "invalid redis db",
			mutate: func(c *Config) {
				c.RedisAddress = "localhost:6379"
				c.RedisDB = "16"
			},
			wantErr: true,
		},
		{
			name: "invalid redis pool size",
			mutate: func(c *Config) {
				c.RedisAddress = "localhost:6379"
				c.RedisPoolSize = "0"
			},
			wantErr: true,
		},
		{
			name:    "invalid rate limit default",
			mutate:  func(c *Config) { c.RateLimitDefault = "0" },
			wantErr: true,
		},
		{
			name:    "invalid rate limit window",
			mutate:  func(c *Config) { c.RateLimitWindow = "bogus" },
			wantErr: true,
		},
		{
			name: "rate limit disabled skips its validation",
			mutate: func(c *Config) {
				c.RateLimitEnabled = false
				c.RateLimitWindow = "bogus"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
