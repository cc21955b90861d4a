package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string // remote backend (Postgres)
	LocalDBPath string // local SQLite file
	Identity    string // signed-in account email; empty = offline/anonymous
	Locale      string
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	// A .env file is optional; variables may come from the environment
	// directly (Docker, CI, etc.).
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LocalDBPath: os.Getenv("FIESTAS_DB_PATH"),
		Identity:    os.Getenv("FIESTAS_IDENTITY"),
		Locale:      os.Getenv("FIESTAS_LOCALE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies defaults and all the rules on the loaded configuration.
func (c *Config) validate() error {
	if strings.TrimSpace(c.LocalDBPath) == "" {
		c.LocalDBPath = "fiestas.db"
	}

	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = "es"
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Local development default when DATABASE_URL is not set.
		c.DatabaseURL = "postgres://localhost:5432/fiestas?sslmode=disable"
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL inválida (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL inválida (%q): falta scheme o host", c.DatabaseURL)
	}

	if c.Identity != "" && !strings.Contains(c.Identity, "@") {
		return fmt.Errorf("config: FIESTAS_IDENTITY debe ser un email (%q)", c.Identity)
	}

	return nil
}
