package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")

	cfg := New()
	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:8000/api/" {
		t.Fatalf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.LowStockThreshold != 5 {
		t.Fatalf("low stock threshold = %d", cfg.LowStockThreshold)
	}
	if cfg.PurchaseDisplay() != 3*time.Second {
		t.Fatalf("purchase display = %s", cfg.PurchaseDisplay())
	}
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("API_TIMEOUT_SECONDS", "4")
	t.Setenv("NOTICE_CAPACITY", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("DASHBOARD_TIMEZONE", "UTC")

	cfg := New()
	if cfg.APITimeout() != 4*time.Second {
		t.Fatalf("timeout = %s", cfg.APITimeout())
	}
	if cfg.NoticeCapacity != 50 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.NoticeCapacity)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("location = %v", cfg.Location())
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	cfg := &Config{DashboardTimezone: "Nowhere/Invalid"}
	if cfg.Location() != time.Local {
		t.Fatalf("expected local fallback")
	}
}
