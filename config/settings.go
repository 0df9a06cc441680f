package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"gopkg.in/yaml.v3"
)

const (
	CatalogFromFile = "file"
	CatalogFromDB   = "db"
)

// Settings is the runtime configuration. Values come from defaults, then
// the YAML file named by STOREFRONT_CONFIG, then environment variables.
type Settings struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	CatalogSource string        `yaml:"catalog_source"`
	CatalogPath   string        `yaml:"catalog_path"`
	CatalogTTL    time.Duration `yaml:"catalog_ttl"`
	// CatalogPoll is how often the database is checked for catalog edits.
	// Zero disables polling.
	CatalogPoll time.Duration `yaml:"catalog_poll"`
	DatabaseURL string        `yaml:"database_url"`

	RedisURL   string        `yaml:"redis_url"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	MaxTabs    int           `yaml:"max_tabs"`

	SearchDelay     time.Duration `yaml:"search_delay"`
	RestoreAttempts int           `yaml:"restore_attempts"`
	RestoreInterval time.Duration `yaml:"restore_interval"`

	RateLimit    int           `yaml:"rate_limit"`
	RateWindow   time.Duration `yaml:"rate_window"`
	AllowOrigins []string      `yaml:"allow_origins"`

	PriceRanges []models.PriceRange `yaml:"price_ranges"`
}

func Defaults() Settings {
	return Settings{
		Port:            "8081",
		Env:             "development",
		LogLevel:        "info",
		CatalogSource:   CatalogFromFile,
		CatalogPath:     "data/catalog.json",
		CatalogTTL:      5 * time.Minute,
		SessionTTL:      30 * time.Minute,
		MaxTabs:         10000,
		SearchDelay:     300 * time.Millisecond,
		RestoreAttempts: 10,
		RestoreInterval: 100 * time.Millisecond,
		RateLimit:       300,
		RateWindow:      time.Minute,
		AllowOrigins:    []string{"http://localhost:3000", "http://localhost:3001"},
		PriceRanges: []models.PriceRange{
			{Min: 0, Max: 1000, Label: "Under 1,000"},
			{Min: 1000, Max: 5000, Label: "1,000 - 5,000"},
			{Min: 5000, Max: 10000, Label: "5,000 - 10,000"},
			{Min: 10000, Label: "10,000+"},
		},
	}
}

// Load builds the settings for this process.
func Load() (Settings, error) {
	s := Defaults()
	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := s.LoadFile(path); err != nil {
			return s, err
		}
	}
	if err := s.applyEnv(); err != nil {
		return s, err
	}
	return s, s.Validate()
}

// LoadFile overlays the YAML file at path. Keys missing from the file keep
// their current values.
func (s *Settings) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyEnv() error {
	s.Port = getEnv("PORT", s.Port)
	s.Env = getEnv("APP_ENV", s.Env)
	s.LogLevel = getEnv("LOG_LEVEL", s.LogLevel)
	s.CatalogSource = getEnv("CATALOG_SOURCE", s.CatalogSource)
	s.CatalogPath = getEnv("CATALOG_PATH", s.CatalogPath)
	s.DatabaseURL = getEnv("DATABASE_URL", s.DatabaseURL)
	s.RedisURL = getEnv("REDIS_URL", s.RedisURL)
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		s.AllowOrigins = strings.Split(origins, ",")
	}

	var errs []error
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CATALOG_TTL", &s.CatalogTTL},
		{"CATALOG_POLL", &s.CatalogPoll},
		{"SESSION_TTL", &s.SessionTTL},
		{"SEARCH_DELAY", &s.SearchDelay},
		{"RESTORE_INTERVAL", &s.RestoreInterval},
		{"RATE_WINDOW", &s.RateWindow},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", d.key, err))
				continue
			}
			*d.dst = parsed
		}
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"MAX_TABS", &s.MaxTabs},
		{"RESTORE_ATTEMPTS", &s.RestoreAttempts},
		{"RATE_LIMIT", &s.RateLimit},
	}
	for _, n := range ints {
		if v := os.Getenv(n.key); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", n.key, err))
				continue
			}
			*n.dst = parsed
		}
	}
	return errors.Join(errs...)
}

func (s Settings) Validate() error {
	switch s.CatalogSource {
	case CatalogFromFile:
		if s.CatalogPath == "" {
			return errors.New("config: CATALOG_PATH is required for the file catalog")
		}
	case CatalogFromDB:
		if s.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the db catalog")
		}
	default:
		return fmt.Errorf("config: unknown catalog source %q", s.CatalogSource)
	}
	for _, r := range s.PriceRanges {
		if r.Label == "" {
			return errors.New("config: price range without a label")
		}
		if r.Max > 0 && r.Max < r.Min {
			return fmt.Errorf("config: price range %q has max below min", r.Label)
		}
	}
	return nil
}

func (s Settings) Production() bool {
	return s.Env == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
