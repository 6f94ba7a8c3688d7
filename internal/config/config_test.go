package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CONFIG_FILE", "PORT", "NODE_ENV", "JWT_EXPIRES_DAYS", "COOKIE_NAME", "DAILY_SALT", "GEMINI_MODEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "5175" || cfg.JWTExpiresDays != 14 || cfg.Production {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bingo.yaml")
	body := "port: \"8080\"\ndaily_salt: from-file\njwt_expires_days: 3\ngemini_model: file-model\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")
	t.Setenv("NODE_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("env should override file: port=%s", cfg.Port)
	}
	if cfg.DailySalt != "from-file" || cfg.JWTExpiresDays != 3 || cfg.GeminiModel != "file-model" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.CookieName != "bingo_token" {
		t.Errorf("keys missing from the file should keep defaults, got %q", cfg.CookieName)
	}
	if !cfg.Production {
		t.Error("NODE_ENV=production should set Production")
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid JWT_EXPIRES_DAYS")
	}
}
