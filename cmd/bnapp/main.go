package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/javiermolinar/bnapp/internal/config"
	"github.com/javiermolinar/bnapp/internal/logger"
	"github.com/javiermolinar/bnapp/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := ui.NewApp(nil, cfg, logger.NewConsole(cfg.Log.Level))
	defer func() { _ = app.Close() }()
	return app.ExecuteContext(ctx)
}
