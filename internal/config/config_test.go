package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	for _, key := range []string{"PORT", "DATABASE_PATH", "UPLOAD_DIR", "LOW_STOCK_THRESHOLD", "LOW_STOCK_CRON"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.ServerPort)
	}
	if cfg.DatabasePath != "./inventory.db" {
		t.Errorf("unexpected database path %s", cfg.DatabasePath)
	}
	if cfg.UploadDir != "./uploads" {
		t.Errorf("unexpected upload dir %s", cfg.UploadDir)
	}
	if cfg.LowStockThreshold != 5 {
		t.Errorf("unexpected threshold %d", cfg.LowStockThreshold)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}
