// internal/config/config.go
//
// Server configuration.
//
// Sources, later ones winning:
//   1. Built-in defaults (suitable for local development).
//   2. An optional YAML file named by CONFIG_FILE.
//   3. Environment variables (a .env file is loaded by main via godotenv).

package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the server.
type Config struct {
	Port         string `yaml:"port"`
	LogLevel     string `yaml:"log_level"`
	DBPath       string `yaml:"db_path"`
	ClientOrigin string `yaml:"client_origin"`
	PublicURL    string `yaml:"public_url"` // base of shareable phrase links
	Production   bool   `yaml:"production"`

	JWTSecret      string `yaml:"jwt_secret"`
	JWTExpiresDays int    `yaml:"jwt_expires_days"`
	CookieName     string `yaml:"cookie_name"`

	DailySalt   string `yaml:"daily_salt"`
	PhrasesFile string `yaml:"phrases_file"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Port:           "5175",
		LogLevel:       "info",
		DBPath:         "./data/app.db",
		ClientOrigin:   "http://localhost:5173",
		PublicURL:      "http://localhost:5173",
		JWTSecret:      "dev_secret_change_me",
		JWTExpiresDays: 14,
		CookieName:     "bingo_token",
		DailySalt:      "local_dev_salt",
	}
}

// Load builds a Config from defaults, CONFIG_FILE and the environment.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays the keys present in a YAML file.
func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setStr(&c.Port, "PORT")
	setStr(&c.LogLevel, "LOG_LEVEL")
	setStr(&c.DBPath, "DB_PATH")
	setStr(&c.ClientOrigin, "CLIENT_ORIGIN")
	setStr(&c.PublicURL, "PUBLIC_URL")
	setStr(&c.JWTSecret, "JWT_SECRET")
	setStr(&c.CookieName, "COOKIE_NAME")
	setStr(&c.DailySalt, "DAILY_SALT")
	setStr(&c.PhrasesFile, "PHRASES_FILE")
	setStr(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setStr(&c.GeminiModel, "GEMINI_MODEL")
	if v := os.Getenv("NODE_ENV"); v != "" {
		c.Production = v == "production"
	}
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("JWT_EXPIRES_DAYS: invalid value %q", v)
		}
		c.JWTExpiresDays = n
	}
	return nil
}

// setStr overwrites *dst with env var k when it is set and non-empty.
func setStr(dst *string, k string) {
	if v := os.Getenv(k); v != "" {
		*dst = v
	}
}
