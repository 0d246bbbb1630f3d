package ui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/bnapp/internal/config"
	"github.com/javiermolinar/bnapp/internal/event"
)

func TestRunConfigInteractive_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	if err := runConfigInteractive(strings.NewReader("n\n"), &out, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "Created "+path) {
		t.Errorf("expected creation notice:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "day_start        = 08:00") {
		t.Errorf("expected the current config to be printed:\n%s", out.String())
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected default day_start, got %s", cfg.Schedule.DayStart)
	}
}

func TestRunConfigInteractive_Edit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	answers := []string{
		"y",              // edit
		"userB",          // current user
		"",               // user A name
		"Noa",            // user B name
		"07:00",          // day start
		"",               // day end
		"sunday, monday", // workdays
		"Haifa",          // city
		"",               // time zone
		"none",           // llm provider
		"",               // llm model
		"",               // llm base url
		"",               // db path
		"neon",           // theme, rejected
		"Latte",          // theme
	}
	in := strings.NewReader(strings.Join(answers, "\n") + "\n")

	var out bytes.Buffer
	if err := runConfigInteractive(in, &out, path); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), `Invalid theme "neon"`) {
		t.Errorf("expected the unknown theme to be rejected:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Configuration saved!") {
		t.Errorf("expected save confirmation:\n%s", out.String())
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if cfg.CurrentUser() != event.OwnerB || cfg.UserName(event.OwnerB) != "Noa" {
		t.Errorf("unexpected household %+v", cfg.Household)
	}
	if cfg.Schedule.DayStart != "07:00" || cfg.Schedule.DayEnd != "22:00" {
		t.Errorf("unexpected window %s-%s", cfg.Schedule.DayStart, cfg.Schedule.DayEnd)
	}
	if len(cfg.Schedule.Workdays) != 2 || cfg.Schedule.Workdays[1] != "monday" {
		t.Errorf("unexpected workdays %v", cfg.Schedule.Workdays)
	}
	if cfg.Location.City != "Haifa" || cfg.LLM.Provider != "none" || cfg.UI.Theme != "latte" {
		t.Errorf("unexpected config %+v %+v %+v", cfg.Location, cfg.LLM, cfg.UI)
	}
}

func TestRunConfigInteractive_InvalidEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	in := strings.NewReader("y\nuserC\n" + strings.Repeat("\n", 12))

	var out bytes.Buffer
	if err := runConfigInteractive(in, &out, path); err == nil {
		t.Fatal("expected an invalid config error")
	}
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tc := range tests {
		var out bytes.Buffer
		got := promptYesNo(bufioReader(tc.input), &out, "Continue?")
		if got != tc.want {
			t.Errorf("promptYesNo(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
