package config

import (
	"fmt"
	"os"
)

// Config holds the environment-driven settings the server boots with.
type Config struct {
	Port            string
	SpreadsheetID   string
	CredentialsFile string
	SessionSecret   string
	RoleCatalogPath string
}

// FromEnv reads settings from the environment. SPREADSHEET_ID and
// SESSION_SECRET are required; everything else has a default.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "4000"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: getenv("GOOGLE_CREDENTIALS_FILE", "service-account.json"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		RoleCatalogPath: getenv("ROLE_CATALOG", "roles.yaml"),
	}
	if cfg.SpreadsheetID == "" {
		return Config{}, fmt.Errorf("config: SPREADSHEET_ID is required")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("config: SESSION_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
