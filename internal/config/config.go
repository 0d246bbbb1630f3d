// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

// EnvPrefix prefixes every environment override, e.g. BNAPP_SCHEDULE_DAY_START.
const EnvPrefix = "BNAPP"

// Config holds the application configuration.
type Config struct {
	Household  HouseholdConfig  `toml:"household"`
	Schedule   ScheduleConfig   `toml:"schedule"`
	Categories CategoriesConfig `toml:"categories"`
	Scaffold   ScaffoldConfig   `toml:"scaffold"`
	Location   LocationConfig   `toml:"location"`
	Providers  ProvidersConfig  `toml:"providers"`
	Reminders  RemindersConfig  `toml:"reminders"`
	LLM        LLMConfig        `toml:"llm"`
	Storage    StorageConfig    `toml:"storage"`
	UI         UIConfig         `toml:"ui"`
	Log        LogConfig        `toml:"log"`
}

// HouseholdConfig names the two users and picks who is looking.
type HouseholdConfig struct {
	CurrentUser string `toml:"current_user" split_words:"true"` // "userA", "userB" or "shared"
	UserAName   string `toml:"user_a_name" split_words:"true"`
	UserBName   string `toml:"user_b_name" split_words:"true"`
}

// ScheduleConfig holds the free-time search window.
type ScheduleConfig struct {
	DayStart       string   `toml:"day_start" split_words:"true"`
	DayEnd         string   `toml:"day_end" split_words:"true"`
	MinFreeMinutes int      `toml:"min_free_minutes" split_words:"true"`
	Workdays       []string `toml:"workdays" split_words:"true"` // e.g., ["sunday", "monday", ...]
}

// CategoriesConfig lists the titles counted as sleep, work and meals.
type CategoriesConfig struct {
	Sleep []string `toml:"sleep" split_words:"true"`
	Work  []string `toml:"work" split_words:"true"`
	Meal  []string `toml:"meal" split_words:"true"`
}

// ScaffoldConfig holds the default daily blocks.
type ScaffoldConfig struct {
	Enabled    bool   `toml:"enabled" split_words:"true"`
	SleepTitle string `toml:"sleep_title" split_words:"true"`
	SleepStart string `toml:"sleep_start" split_words:"true"`
	SleepEnd   string `toml:"sleep_end" split_words:"true"`
	WorkTitle  string `toml:"work_title" split_words:"true"`
	WorkStart  string `toml:"work_start" split_words:"true"`
	WorkEnd    string `toml:"work_end" split_words:"true"`
	MealTitle  string `toml:"meal_title" split_words:"true"`
	MealStart  string `toml:"meal_start" split_words:"true"`
	MealEnd    string `toml:"meal_end" split_words:"true"`
}

// LocationConfig is the household's place, used for weather and Shabbat times.
type LocationConfig struct {
	City      string  `toml:"city" split_words:"true"`
	Latitude  float64 `toml:"latitude" split_words:"true"`
	Longitude float64 `toml:"longitude" split_words:"true"`
	Timezone  string  `toml:"timezone" split_words:"true"`
}

// ProvidersConfig holds the external lookup endpoints.
type ProvidersConfig struct {
	GeocodingURL   string `toml:"geocoding_url" split_words:"true"`
	WeatherURL     string `toml:"weather_url" split_words:"true"`
	HebcalURL      string `toml:"hebcal_url" split_words:"true"`
	TimeoutSeconds int    `toml:"timeout_seconds" split_words:"true"`
}

// RemindersConfig holds the reminder daemon settings.
type RemindersConfig struct {
	Schedule        string `toml:"schedule" split_words:"true"` // cron spec, e.g. "@every 1m"
	WindowSeconds   int    `toml:"window_seconds" split_words:"true"`
	LookbackSeconds int    `toml:"lookback_seconds" split_words:"true"`
	Listen          string `toml:"listen" split_words:"true"`
	WebhookURL      string `toml:"webhook_url" split_words:"true"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider" split_words:"true"` // "copilot", "ollama", "lmstudio", "none"
	Model    string `toml:"model" split_words:"true"`
	BaseURL  string `toml:"base_url" split_words:"true"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path" split_words:"true"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme" split_words:"true"` // one of theme.Available()
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" split_words:"true"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Household: HouseholdConfig{
			CurrentUser: string(event.OwnerA),
			UserAName:   "User A",
			UserBName:   "User B",
		},
		Schedule: ScheduleConfig{
			DayStart:       "08:00",
			DayEnd:         "22:00",
			MinFreeMinutes: 30,
			Workdays:       []string{"sunday", "monday", "tuesday", "wednesday", "thursday"},
		},
		Categories: CategoriesConfig{
			Sleep: []string{"Sleep", "שינה"},
			Work:  []string{"Work", "עבודה"},
			Meal:  []string{"Meal", "אוכל + מקלחת"},
		},
		Scaffold: ScaffoldConfig{
			Enabled:    true,
			SleepTitle: "Sleep",
			SleepStart: "00:00",
			SleepEnd:   "08:00",
			WorkTitle:  "Work",
			WorkStart:  "08:00",
			WorkEnd:    "17:00",
			MealTitle:  "Meal",
			MealStart:  "17:00",
			MealEnd:    "18:30",
		},
		Location: LocationConfig{
			City:      "Jerusalem",
			Latitude:  31.7683,
			Longitude: 35.2137,
			Timezone:  "Asia/Jerusalem",
		},
		Providers: ProvidersConfig{
			GeocodingURL:   "https://geocoding-api.open-meteo.com",
			WeatherURL:     "https://api.open-meteo.com",
			HebcalURL:      "https://www.hebcal.com",
			TimeoutSeconds: 10,
		},
		Reminders: RemindersConfig{
			Schedule:        "@every 1m",
			WindowSeconds:   60,
			LookbackSeconds: 300,
			Listen:          "127.0.0.1:9477",
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bnapp.db"
	}
	return filepath.Join(home, ".local", "share", "bnapp", "bnapp.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "bnapp", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Unset variables leave the field untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !event.Owner(c.Household.CurrentUser).Valid() {
		return fmt.Errorf("current_user must be %q, %q or %q, got %q",
			event.OwnerA, event.OwnerB, event.OwnerShared, c.Household.CurrentUser)
	}

	if err := validateRange(c.Schedule.DayStart, c.Schedule.DayEnd, "day_start", "day_end"); err != nil {
		return err
	}
	if c.Schedule.MinFreeMinutes <= 0 {
		return errors.New("min_free_minutes must be positive")
	}
	for _, day := range c.Schedule.Workdays {
		if _, ok := dateutil.ParseWeekday(day); !ok {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}

	s := c.Scaffold
	if err := validateRange(s.SleepStart, s.SleepEnd, "sleep_start", "sleep_end"); err != nil {
		return err
	}
	if err := validateRange(s.WorkStart, s.WorkEnd, "work_start", "work_end"); err != nil {
		return err
	}
	if err := validateRange(s.MealStart, s.MealEnd, "meal_start", "meal_end"); err != nil {
		return err
	}

	if _, err := time.LoadLocation(c.Location.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Location.Timezone, err)
	}
	if c.Providers.TimeoutSeconds <= 0 {
		return errors.New("timeout_seconds must be positive")
	}

	if _, err := cron.ParseStandard(c.Reminders.Schedule); err != nil {
		return fmt.Errorf("invalid reminders schedule %q: %w", c.Reminders.Schedule, err)
	}
	if c.Reminders.WindowSeconds <= 0 || c.Reminders.LookbackSeconds < 0 {
		return errors.New("reminder window must be positive and lookback non-negative")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// validateRange checks that start and end are "HH:MM" and start < end.
func validateRange(start, end, startField, endField string) error {
	s, ok := event.TimeToMinutes(start)
	if !ok {
		return fmt.Errorf("%s must be in HH:MM format, got %q", startField, start)
	}
	e, ok := event.TimeToMinutes(end)
	if !ok {
		return fmt.Errorf("%s must be in HH:MM format, got %q", endField, end)
	}
	if s >= e {
		return fmt.Errorf("%s must be before %s", startField, endField)
	}
	return nil
}

// CurrentUser returns the configured viewer.
func (c *Config) CurrentUser() event.Owner {
	return event.Owner(c.Household.CurrentUser)
}

// UserName returns the display name of owner.
func (c *Config) UserName(owner event.Owner) string {
	switch owner {
	case event.OwnerA:
		return c.Household.UserAName
	case event.OwnerB:
		return c.Household.UserBName
	default:
		return "Shared"
	}
}

// IsWorkday returns true if the given weekday is a configured workday.
func (c *Config) IsWorkday(day time.Weekday) bool {
	for _, d := range c.Schedule.Workdays {
		if wd, ok := dateutil.ParseWeekday(d); ok && wd == day {
			return true
		}
	}
	return false
}

// TimeLocation returns the configured timezone, falling back to local time.
func (c *Config) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ProviderTimeout returns the external lookup timeout.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.TimeoutSeconds) * time.Second
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
