package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"JWT_SECRET", "SERVER_MODE", "MONGO_DATABASE", "MONGO_URI", "PORT"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "jwt:\n  secret: test-secret\n")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Server.Mode != "debug" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.JWT.ExpireTime != 72*time.Hour {
		t.Errorf("jwt expiry = %v, want 72h", cfg.JWT.ExpireTime)
	}
	if cfg.Mongo.Timeout() != 10*time.Second {
		t.Errorf("mongo timeout = %v", cfg.Mongo.Timeout())
	}
	if cfg.Exam.EnforceWindow {
		t.Error("window enforcement should default to off")
	}
	if cfg.Exam.CacheTTL() != 5*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Exam.CacheTTL())
	}
	if cfg.RateLimit.Window() != time.Minute {
		t.Errorf("rate window = %v", cfg.RateLimit.Window())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, `
jwt:
  secret: test-secret
  expire_hours: 2
exam:
  enforce_window: true
  sweep_cron: "@every 1m"
`)
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Exam.EnforceWindow || cfg.Exam.SweepCron != "@every 1m" {
		t.Errorf("exam = %+v", cfg.Exam)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Errorf("jwt expiry = %v", cfg.JWT.ExpireTime)
	}
}

func TestLoadConfigRejectsWeakReleaseSecret(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "server:\n  mode: release\njwt:\n  secret: short\n")

	_, err := LoadConfig(dir)
	if err == nil || !strings.Contains(err.Error(), "too short") {
		t.Fatalf("err = %v, want short secret error", err)
	}
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "server:\n  mode: debug\n")

	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}
