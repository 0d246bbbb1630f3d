package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/assistant"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/llm"
	"github.com/javiermolinar/bnapp/internal/recurrence"
)

const maxRetries = 3

func (a *App) newAssistant(withModel bool) (*assistant.Assistant, error) {
	opts := assistant.Options{
		Scheduler:  a.scheduler(),
		Humor:      assistant.NewHumor(nil),
		UserName:   a.config.UserName,
		MaxRetries: maxRetries,
		Compact:    llm.IsLocal(a.config.LLM.Provider),
		Log:        a.log,
	}
	if withModel {
		client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("creating LLM client: %w", err)
		}
		opts.Parser = llm.NewCommandParser(client)
	}
	return assistant.New(opts), nil
}

func (a *App) assistantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assistant",
		Aliases: []string{"gihari"},
		Short:   "Ask the household assistant",
	}
	cmd.AddCommand(
		a.assistantSummaryCmd(),
		a.assistantSuggestCmd(),
		a.assistantPlaceCmd(),
		a.assistantAskCmd(),
	)
	return cmd
}

func (a *App) assistantSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [date]",
		Short: "Grade the load of a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			dk, err := a.resolveDate(firstArg(args))
			if err != nil {
				return err
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			helper, _ := a.newAssistant(false)
			fmt.Fprintln(cmd.OutOrStdout(), helper.Say(helper.Summary(snap, dk, viewer).String()))
			return nil
		},
	}
}

func (a *App) assistantSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Find the next free window today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			helper, _ := a.newAssistant(false)
			fmt.Fprintln(cmd.OutOrStdout(), helper.SuggestMessage(snap, viewer, a.clock()))
			return nil
		},
	}
}

func (a *App) assistantPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place",
		Short: "Place undated tasks and save the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}
			helper, _ := a.newAssistant(false)
			report := helper.PlaceUndated(snap, a.today())
			if err := a.apply(ctx, report.Commands()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), helper.PlacementMessage(report))
			return nil
		},
	}
}

func (a *App) assistantAskCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "ask <request>",
		Short: "Turn a spoken or typed request into records",
		Long: `Send a free-form request to the language model and propose the
records it describes. Nothing is saved until you confirm.`,
		Example: `  bnapp assistant ask "dentist tomorrow at 9 for an hour, remind me 30 minutes before"
  bnapp assistant ask "family dinner friday 19:00" --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}
			helper, err := a.newAssistant(true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatMuted("Thinking..."))
			draft, err := helper.Ask(ctx, snap, viewer, strings.Join(args, " "), a.clock())
			if err != nil {
				return err
			}
			printDraft(out, a, draft)
			if !draft.Valid() || len(draft.Events) == 0 {
				return fmt.Errorf("the assistant could not produce valid records")
			}

			if !yes && !confirm(cmd.InOrStdin(), out, "Save these records?") {
				fmt.Fprintln(out, "Nothing saved.")
				return nil
			}

			var cmds []event.Command
			for _, ev := range draft.Events {
				ev.ID = a.store.NewID()
				if ev.IsTemplate() {
					series, err := recurrence.ExpandCommands(ev)
					if err != nil {
						return err
					}
					cmds = append(cmds, series...)
					continue
				}
				cmds = append(cmds, event.SetEvent(ev))
			}
			if err := a.apply(ctx, cmds); err != nil {
				return err
			}
			fmt.Fprintln(out, helper.Say(fmt.Sprintf("Saved %d record(s).", len(draft.Events))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Save without asking")
	return cmd
}

func printDraft(w io.Writer, a *App, d *assistant.Draft) {
	for _, ev := range d.Events {
		fmt.Fprintf(w, "  %s ", ev.DateKey)
		PrintEventRow(w, ev, a.config.UserName(ev.Owner), 30)
	}
	for _, warn := range d.Warnings {
		fmt.Fprintf(w, "  %s %s\n", formatWarn("!"), warn)
	}
	for _, e := range d.Errors {
		fmt.Fprintf(w, "  %s %s\n", formatWarn("✗"), e)
	}
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := bufio.NewReader(in).ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
