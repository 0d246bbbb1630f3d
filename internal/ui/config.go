package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/config"
	"github.com/javiermolinar/bnapp/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.`,
		Example: `  bnapp config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{r: reader, w: out}
	cfg.Household.CurrentUser = p.value("Current user (userA, userB, shared)", cfg.Household.CurrentUser)
	cfg.Household.UserAName = p.value("User A name", cfg.Household.UserAName)
	cfg.Household.UserBName = p.value("User B name", cfg.Household.UserBName)
	cfg.Schedule.DayStart = p.value("Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = p.value("Day end", cfg.Schedule.DayEnd)
	cfg.Schedule.Workdays = p.slice("Workdays (comma-separated)", cfg.Schedule.Workdays)
	cfg.Location.City = p.value("City (use 'bnapp city' to look up coordinates)", cfg.Location.City)
	cfg.Location.Timezone = p.value("Time zone", cfg.Location.Timezone)
	cfg.LLM.Provider = p.value("LLM provider (copilot, ollama, lmstudio, none)", cfg.LLM.Provider)
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[household]")
	fmt.Fprintf(w, "  current_user     = %s\n", cfg.Household.CurrentUser)
	fmt.Fprintf(w, "  user_a_name      = %s\n", cfg.Household.UserAName)
	fmt.Fprintf(w, "  user_b_name      = %s\n", cfg.Household.UserBName)
	fmt.Fprintln(w, "\n[schedule]")
	fmt.Fprintf(w, "  day_start        = %s\n", cfg.Schedule.DayStart)
	fmt.Fprintf(w, "  day_end          = %s\n", cfg.Schedule.DayEnd)
	fmt.Fprintf(w, "  min_free_minutes = %d\n", cfg.Schedule.MinFreeMinutes)
	fmt.Fprintf(w, "  workdays         = %s\n", strings.Join(cfg.Schedule.Workdays, ", "))
	fmt.Fprintln(w, "\n[location]")
	fmt.Fprintf(w, "  city             = %s\n", cfg.Location.City)
	fmt.Fprintf(w, "  timezone         = %s\n", cfg.Location.Timezone)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(r *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := r.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) slice(label string, current []string) []string {
	fmt.Fprintf(p.w, "  %s [%s]: ", label, strings.Join(current, ", "))
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for range 3 {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.w, "  Invalid theme %q. Available: %s\n", value, options)
	}
	return current
}
