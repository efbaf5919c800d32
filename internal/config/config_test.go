package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			JWTSecret: "test-secret-at-least-32-chars-long-for-security",
			JWTIssuer: "tutorhive",
		},
		Content: ContentConfig{
			DefaultPageSize:   10,
			MaxPageSize:       200,
			NotifyMaxAttempts: 3,
			NotifyRetryDelay:  100 * time.Millisecond,
		},
	}
}

func TestConfig_Validate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestConfig_Validate_ShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short jwt secret")
	}
}

func TestConfig_Validate_PageSizes(t *testing.T) {
	cfg := validConfig()
	cfg.Content.DefaultPageSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero default page size")
	}

	cfg = validConfig()
	cfg.Content.MaxPageSize = 5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max < default page size")
	}
}

func TestConfig_Validate_NotifyAttempts(t *testing.T) {
	cfg := validConfig()
	cfg.Content.NotifyMaxAttempts = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero notify attempts")
	}
}
