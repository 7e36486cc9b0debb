package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	SpreadsheetID      string
	CredentialsFile    string
	OAuthClientID      string
	OAuthClientSecret  string
	OAuthRedirectURI   string
	OAuthRefreshToken  string
	SheetsRateLimitRPS int

	RegistrySheet     string
	RosterSheet       string
	MaintenanceSuffix string

	CapacityHoursPerDay float64
	DefaultTargetRate   float64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		SpreadsheetID:      getEnv("SHEETS_SPREADSHEET_ID", ""),
		CredentialsFile:    getEnv("SHEETS_CREDENTIALS_FILE", filepath.Join(cwd, "secrets.json")),
		OAuthClientID:      getEnv("SHEETS_OAUTH_CLIENT_ID", ""),
		OAuthClientSecret:  getEnv("SHEETS_OAUTH_CLIENT_SECRET", ""),
		OAuthRedirectURI:   getEnv("SHEETS_OAUTH_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		OAuthRefreshToken:  getEnv("SHEETS_OAUTH_REFRESH_TOKEN", ""),
		SheetsRateLimitRPS: getEnvInt("SHEETS_RATE_LIMIT_RPS", 1),

		RegistrySheet:     getEnv("SHEET_EQUIPMENT_REGISTRY", "장비목록"),
		RosterSheet:       getEnv("SHEET_COMPANY_ROSTER", "기업목록"),
		MaintenanceSuffix: getEnv("SHEET_MAINTENANCE_SUFFIX", "_유지보수"),

		CapacityHoursPerDay: getEnvFloat("CAPACITY_HOURS_PER_DAY", 8.0),
		DefaultTargetRate:   getEnvFloat("DEFAULT_TARGET_RATE", 70.0),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
