package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/bnapp/internal/event"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected day_start 08:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "22:00" {
		t.Errorf("expected day_end 22:00, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.Schedule.MinFreeMinutes != 30 {
		t.Errorf("expected min_free_minutes 30, got %d", cfg.Schedule.MinFreeMinutes)
	}
	if len(cfg.Schedule.Workdays) != 5 {
		t.Errorf("expected 5 workdays, got %d", len(cfg.Schedule.Workdays))
	}
	if cfg.CurrentUser() != event.OwnerA {
		t.Errorf("expected current user userA, got %s", cfg.CurrentUser())
	}
	if cfg.Reminders.Schedule != "@every 1m" {
		t.Errorf("expected reminder schedule @every 1m, got %s", cfg.Reminders.Schedule)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected default day_start, got %s", cfg.Schedule.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[household]
current_user = "userB"
user_b_name = "Noa"

[schedule]
workdays = ["sunday", "monday", "tuesday"]
day_start = "07:00"
day_end = "21:00"

[categories]
sleep = ["Nap", "Sleep"]

[location]
city = "Haifa"
timezone = "Asia/Jerusalem"

[llm]
provider = "ollama"
model = "llama3"
base_url = "http://localhost:11435"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CurrentUser() != event.OwnerB {
		t.Errorf("expected current_user userB, got %s", cfg.CurrentUser())
	}
	if cfg.UserName(event.OwnerB) != "Noa" {
		t.Errorf("expected user B name Noa, got %s", cfg.UserName(event.OwnerB))
	}
	if cfg.Schedule.DayStart != "07:00" || cfg.Schedule.DayEnd != "21:00" {
		t.Errorf("unexpected window %s-%s", cfg.Schedule.DayStart, cfg.Schedule.DayEnd)
	}
	if len(cfg.Schedule.Workdays) != 3 {
		t.Errorf("expected 3 workdays, got %d", len(cfg.Schedule.Workdays))
	}
	if len(cfg.Categories.Sleep) != 2 || cfg.Categories.Sleep[0] != "Nap" {
		t.Errorf("unexpected sleep titles %v", cfg.Categories.Sleep)
	}
	if len(cfg.Categories.Work) != 2 {
		t.Errorf("work titles should keep defaults, got %v", cfg.Categories.Work)
	}
	if cfg.Location.City != "Haifa" {
		t.Errorf("expected city Haifa, got %s", cfg.Location.City)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "llama3" {
		t.Errorf("unexpected llm %+v", cfg.LLM)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
day_start = "08:00"
day_end = "16:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("BNAPP_SCHEDULE_DAY_START", "10:00")
	t.Setenv("BNAPP_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("BNAPP_SCHEDULE_WORKDAYS", "monday,friday")
	t.Setenv("BNAPP_REMINDERS_WINDOW_SECONDS", "120")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "10:00" {
		t.Errorf("expected day_start 10:00 from env, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "16:00" {
		t.Errorf("expected day_end 16:00 from file, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini from env, got %s", cfg.LLM.Model)
	}
	if len(cfg.Schedule.Workdays) != 2 || cfg.Schedule.Workdays[1] != "friday" {
		t.Errorf("expected workdays from env, got %v", cfg.Schedule.Workdays)
	}
	if cfg.Reminders.WindowSeconds != 120 {
		t.Errorf("expected window 120 from env, got %d", cfg.Reminders.WindowSeconds)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid day_start", func(c *Config) { c.Schedule.DayStart = "25:00" }},
		{"day_start after day_end", func(c *Config) { c.Schedule.DayStart, c.Schedule.DayEnd = "18:00", "09:00" }},
		{"zero min free", func(c *Config) { c.Schedule.MinFreeMinutes = 0 }},
		{"invalid workday", func(c *Config) { c.Schedule.Workdays = []string{"monday", "funday"} }},
		{"invalid user", func(c *Config) { c.Household.CurrentUser = "userC" }},
		{"inverted meal block", func(c *Config) { c.Scaffold.MealStart = "19:00" }},
		{"bad timezone", func(c *Config) { c.Location.Timezone = "Mars/Olympus" }},
		{"bad cron", func(c *Config) { c.Reminders.Schedule = "every minute" }},
		{"zero window", func(c *Config) { c.Reminders.WindowSeconds = 0 }},
		{"zero timeout", func(c *Config) { c.Providers.TimeoutSeconds = 0 }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_EmptyWorkdaysAllowed(t *testing.T) {
	cfg := Default()
	cfg.Schedule.Workdays = nil
	if err := cfg.Validate(); err != nil {
		t.Errorf("a household without workdays is valid: %v", err)
	}
}

func TestIsWorkday(t *testing.T) {
	cfg := Default()

	tests := []struct {
		day  time.Weekday
		want bool
	}{
		{time.Sunday, true},
		{time.Thursday, true},
		{time.Friday, false},
		{time.Saturday, false},
	}

	for _, tc := range tests {
		t.Run(tc.day.String(), func(t *testing.T) {
			got := cfg.IsWorkday(tc.day)
			if got != tc.want {
				t.Errorf("IsWorkday(%s) = %v, want %v", tc.day, got, tc.want)
			}
		})
	}
}

func TestUserName(t *testing.T) {
	cfg := Default()
	if got := cfg.UserName(event.OwnerShared); got != "Shared" {
		t.Errorf("UserName(shared) = %q", got)
	}
	if got := cfg.UserName(event.OwnerA); got != "User A" {
		t.Errorf("UserName(userA) = %q", got)
	}
}

func TestTimeLocation(t *testing.T) {
	cfg := Default()
	if cfg.TimeLocation().String() != "Asia/Jerusalem" {
		t.Errorf("unexpected location %s", cfg.TimeLocation())
	}
	cfg.Location.Timezone = "Nowhere/Town"
	if cfg.TimeLocation() != time.Local {
		t.Error("invalid timezone should fall back to local time")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Schedule.DayStart = "07:30"
	cfg.Schedule.DayEnd = "15:30"
	cfg.Location.City = "Tel Aviv"
	cfg.Location.Latitude = 32.08
	cfg.Storage.DBPath = filepath.Join(tmpDir, "bnapp.db")

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Schedule.DayStart != "07:30" || loaded.Schedule.DayEnd != "15:30" {
		t.Errorf("unexpected window %s-%s", loaded.Schedule.DayStart, loaded.Schedule.DayEnd)
	}
	if loaded.Location.City != "Tel Aviv" || loaded.Location.Latitude != 32.08 {
		t.Errorf("unexpected location %+v", loaded.Location)
	}
	if len(loaded.Categories.Meal) != 2 {
		t.Errorf("expected meal titles to round-trip, got %v", loaded.Categories.Meal)
	}
}
