package ui

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/apply"
	"github.com/javiermolinar/bnapp/internal/logger"
	"github.com/javiermolinar/bnapp/internal/reminder"
)

func (a *App) remindCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder daemon",
		Long: `Scan the calendar on the configured schedule and deliver reminders for
today's and tomorrow's records whose lead time has come. Each reminder is
delivered once. Deliveries are logged and, when a webhook URL is set,
posted to it.

The daemon serves /healthz, /metrics and /api/reminders on the configured
listen address.`,
		Example: `  bnapp remind
  bnapp remind --once`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			log := logger.New("bnapp-reminders", a.config.Log.Level)

			var dispatch reminder.Dispatcher = reminder.NewLogDispatcher(log)
			if url := a.config.Reminders.WebhookURL; url != "" {
				dispatch = reminder.Multi{dispatch, reminder.NewWebhookDispatcher(url, a.config.ProviderTimeout())}
			}

			engine := reminder.NewEngine(reminder.Options{
				Store:      a.store,
				Runner:     apply.NewRunner(a.store, log),
				Dispatcher: dispatch,
				Log:        log,
				Location:   a.location(),
				Lookback:   time.Duration(a.config.Reminders.LookbackSeconds) * time.Second,
				Window:     time.Duration(a.config.Reminders.WindowSeconds) * time.Second,
				Now:        a.now,
			})

			if once {
				_, err := engine.Tick(cmd.Context())
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return reminder.Serve(ctx, engine, a.config.Reminders.Schedule, a.config.Reminders.Listen, log)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run a single scan and exit")
	return cmd
}
