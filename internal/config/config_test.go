package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("KEEP_SIGNED_IN_DAYS", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SUBMIT_GUARD_TTL_SECONDS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected api base url: %s", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("debug mode should default to debug logging, got %s", cfg.LogLevel)
	}
	if cfg.GuardTTL() != 120*time.Second {
		t.Fatalf("unexpected guard ttl: %v", cfg.GuardTTL())
	}
}

func TestValidateReleaseRequiresSecret(t *testing.T) {
	cfg := &Config{GinMode: "release", APIBaseURL: "https://api.example.com", KeepSignedInDays: 30}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without SESSION_SECRET in release mode")
	}
	cfg.SessionSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	cfg := &Config{GinMode: "debug", APIBaseURL: "localhost:8000", KeepSignedInDays: 30}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for base url without scheme")
	}
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("KEEP_SIGNED_IN_DAYS", "abc")
	if got := getEnvAsInt("KEEP_SIGNED_IN_DAYS", 30); got != 30 {
		t.Fatalf("getEnvAsInt = %d, want 30", got)
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://a.example, http://b.example,,"}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "http://a.example" || origins[1] != "http://b.example" {
		t.Fatalf("unexpected origins: %#v", origins)
	}
}

func TestKeepSignedInMaxAge(t *testing.T) {
	cfg := &Config{KeepSignedInDays: 1}
	if got := cfg.KeepSignedInMaxAge(); got != 86400 {
		t.Fatalf("KeepSignedInMaxAge = %d, want 86400", got)
	}
}
