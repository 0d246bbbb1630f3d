package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/db"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/ical"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import records from another database, a JSON dump or an iCalendar file",
		Long: `Import records into the current database.

The source format follows the file extension:
  .db    another bnapp database; ids, goals and holidays are kept
  .json  a JSON dump of the store tree
  .ics   an iCalendar file; events are added for the current user`,
		Example: `  bnapp import /path/to/other.db
  bnapp import backup.json
  bnapp import --user=shared school.ics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}
			if sourcePath == destPath {
				return errors.New("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source path is a directory: %s", sourcePath)
			}

			count, err := a.importFile(cmd.Context(), sourcePath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %s\n", count, sourcePath)
			return nil
		},
	}

	return cmd
}

func (a *App) importFile(ctx context.Context, path string) (int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("opening dump: %w", err)
		}
		defer func() { _ = f.Close() }()
		tree, err := db.ReadTree(f)
		if err != nil {
			return 0, err
		}
		return a.store.ImportTree(ctx, tree)

	case ".ics", ".ical":
		owner, err := a.viewer()
		if err != nil {
			return 0, err
		}
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("opening calendar: %w", err)
		}
		defer func() { _ = f.Close() }()
		events, err := ical.Parse(f, owner, a.location())
		if err != nil {
			return 0, err
		}
		return a.importEvents(ctx, events)

	default:
		return a.store.Import(ctx, path)
	}
}

// importEvents writes parsed calendar records, assigning ids to records
// that came without one.
func (a *App) importEvents(ctx context.Context, events []event.Event) (int, error) {
	cmds := make([]event.Command, 0, len(events))
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = a.store.NewID()
		}
		ev = event.Normalize(ev)
		if err := event.Validate(ev); err != nil {
			return 0, fmt.Errorf("importing %q: %w", ev.Title, err)
		}
		cmds = append(cmds, event.SetEvent(ev))
	}
	if err := a.apply(ctx, cmds); err != nil {
		return 0, err
	}
	return len(cmds), nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
