package db

import (
	"testing"
	"time"
)

func TestPoolConfig_CacheOptions(t *testing.T) {
	cfg, err := poolConfig("postgres://u:p@localhost:5432/storefront?sslmode=disable", CacheOptions)
	if err != nil {
		t.Fatalf("pool config: %v", err)
	}
	if cfg.MaxConns != 10 {
		t.Fatalf("expected 10 max conns, got %d", cfg.MaxConns)
	}
	params := cfg.ConnConfig.RuntimeParams
	if params["application_name"] != "storefront-cache" {
		t.Fatalf("expected application name, got %q", params["application_name"])
	}
	if params["statement_timeout"] != "2000" {
		t.Fatalf("expected statement timeout in ms, got %q", params["statement_timeout"])
	}
}

func TestPoolConfig_ZeroOptionsKeepDefaults(t *testing.T) {
	cfg, err := poolConfig("postgres://u:p@localhost:5432/storefront", Options{})
	if err != nil {
		t.Fatalf("pool config: %v", err)
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["statement_timeout"]; ok {
		t.Fatalf("expected no statement timeout")
	}
	if cfg.MaxConnIdleTime != 5*time.Minute {
		t.Fatalf("expected idle time tuning, got %s", cfg.MaxConnIdleTime)
	}
}

func TestPoolConfig_BadDSN(t *testing.T) {
	if _, err := poolConfig("postgres://%zz", Options{}); err == nil {
		t.Fatalf("expected parse error")
	}
}
