package config

import (
	"testing"
	"time"
)

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("SHOPIFY_STORE_DOMAIN", "shop.example.com")
	t.Setenv("SHOPIFY_API_VERSION", "2024-04")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.HTTPAddr)
	}
	if !cfg.Production() {
		t.Fatalf("expected production environment")
	}
	if cfg.CacheBackend != "redis" {
		t.Fatalf("expected lowercased backend, got %q", cfg.CacheBackend)
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("expected 1m ttl, got %s", cfg.CacheTTL)
	}
	if got := cfg.GraphQLEndpoint(); got != "https://shop.example.com/api/2024-04/graphql.json" {
		t.Fatalf("unexpected endpoint %q", got)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("APP_ENV", "")
	cfg := FromEnv()
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if cfg.Production() {
		t.Fatalf("expected non-production default")
	}
}

func TestEnsureStartsWith(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"shop.example.com":         "https://shop.example.com",
		"https://shop.example.com": "https://shop.example.com",
	}
	for in, want := range cases {
		if got := EnsureStartsWith(in, "https://"); got != want {
			t.Fatalf("EnsureStartsWith(%q) = %q, want %q", in, got, want)
		}
	}
}
