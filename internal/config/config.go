// Package config loads client configuration from the environment. A .env
// file in the working directory is honored when present so local setups
// don't need to export anything.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultAPIURL matches the backend's local development host.
	DefaultAPIURL = "http://localhost:5000"

	// SessionCheckInterval is how often a mounted protected view re-checks
	// the session credential.
	SessionCheckInterval = 60 * time.Second
)

// Config holds runtime settings for the journal client.
type Config struct {
	// APIURL is the backend origin used to resolve relative request paths.
	APIURL string

	// StateDir is where durable client state lives (token store, TUI log).
	StateDir string

	// WeekStart is the day the display week begins on (for time-bucket
	// grouping). Sunday unless configured otherwise.
	WeekStart time.Weekday

	// Ark settings for the title suggestion model. When APIKey is empty the
	// suggester is disabled and new entries fall back to the default title.
	ArkAPIKey  string
	ArkModel   string
	ArkBaseURL string
}

// Load reads configuration from the environment, overlaying defaults.
// A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	stateDir := strings.TrimSpace(os.Getenv("JOURNAL_STATE_DIR"))
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		stateDir = filepath.Join(home, ".journal")
	}

	weekStart, err := parseWeekStart(os.Getenv("JOURNAL_WEEK_START"))
	if err != nil {
		return nil, err
	}

	return &Config{
		APIURL:     envOr("JOURNAL_API_URL", DefaultAPIURL),
		StateDir:   stateDir,
		WeekStart:  weekStart,
		ArkAPIKey:  strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkModel:   envOr("ARK_MODEL", "doubao-seed-1-6-250615"),
		ArkBaseURL: envOr("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
	}, nil
}

func parseWeekStart(v string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	default:
		return time.Sunday, fmt.Errorf("invalid JOURNAL_WEEK_START value: %q", v)
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
