package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/config"
	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/provider"
)

func (a *App) place() provider.Place {
	return provider.Place{
		Name:      a.config.Location.City,
		Latitude:  a.config.Location.Latitude,
		Longitude: a.config.Location.Longitude,
		Timezone:  a.config.Location.Timezone,
	}
}

func (a *App) weatherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weather [date]",
		Short: "Show the noon forecast for the household's city",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dk, err := a.resolveDate(firstArg(args))
			if err != nil {
				return err
			}
			w := provider.NewWeather(a.config.Providers.WeatherURL, a.config.ProviderTimeout())
			f, err := w.ForDate(cmd.Context(), a.place(), dk)
			if err != nil {
				return fmt.Errorf("weather for %s: %w", dk, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", a.config.Location.City, dk, f)
			return nil
		},
	}
}

func (a *App) shabbatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shabbat [date]",
		Short: "Show candle lighting and havdalah for the week of a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dk, err := a.resolveDate(firstArg(args))
			if err != nil {
				return err
			}
			day, err := dateutil.ParseDate(dk)
			if err != nil {
				return err
			}
			hebcal := provider.NewHebcal(a.config.Providers.HebcalURL, a.config.ProviderTimeout())
			times, err := hebcal.Shabbat(cmd.Context(), a.place(), provider.FridayOf(day))
			if err != nil {
				return fmt.Errorf("shabbat times: %w", err)
			}

			loc := a.location()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Shabbat %s, %s\n", times.Friday, a.config.Location.City)
			if !times.Candles.IsZero() {
				fmt.Fprintf(out, "  🕯️  Candles   %s\n", times.Candles.In(loc).Format("Mon 15:04"))
			}
			if !times.Havdalah.IsZero() {
				fmt.Fprintf(out, "  ✨ Havdalah  %s\n", times.Havdalah.In(loc).Format("Mon 15:04"))
			}
			return nil
		},
	}
}

func (a *App) cityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "city <name>",
		Short: "Set the household's city",
		Long: `Look the city up with the Open-Meteo geocoder and save its name,
coordinates and time zone to the config file.`,
		Example: `  bnapp city "Tel Aviv"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			geo := provider.NewGeocoder(a.config.Providers.GeocodingURL, a.config.ProviderTimeout())
			p, err := geo.ResolveCity(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			a.config.Location = config.LocationConfig{
				City:      p.Name,
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				Timezone:  p.Timezone,
			}
			if err := a.config.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if err := a.config.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "City set to %s (%.4f, %.4f, %s)\n", p.Name, p.Latitude, p.Longitude, p.Timezone)
			return nil
		},
	}
}
