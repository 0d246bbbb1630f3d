// Package tui provides the terminal day view of the household calendar.
package tui

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/bnapp/internal/apply"
	"github.com/javiermolinar/bnapp/internal/config"
	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/scheduler"
	"github.com/javiermolinar/bnapp/internal/tui/commands"
	"github.com/javiermolinar/bnapp/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd         // typing a quick-add line
)

const statusTimeout = 3 * time.Second

// Model is the main TUI model.
type Model struct {
	store  event.Store
	runner *apply.Runner
	config *config.Config
	sched  *scheduler.Scheduler
	styles *Styles
	keys   keyMap
	help   help.Model
	input  textinput.Model
	log    zerolog.Logger
	now    func() time.Time
	sub    <-chan *event.Snapshot

	snap     *event.Snapshot
	dateKey  string
	user     event.Owner
	holidays map[string]bool
	cursor   int
	mode     Mode
	width    int
	height   int
	status   string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithClock overrides the clock.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// WithSubscription feeds the model from a snapshot subscription.
func WithSubscription(sub <-chan *event.Snapshot) ModelOption {
	return func(m *Model) {
		m.sub = sub
	}
}

// WithSnapshot sets the initial snapshot.
func WithSnapshot(snap *event.Snapshot) ModelOption {
	return func(m *Model) {
		m.snap = snap
	}
}

// New creates a new TUI model showing today for user.
func New(store event.Store, cfg *config.Config, user event.Owner, log zerolog.Logger, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		log.Warn().Err(err).Str("theme", cfg.UI.Theme).Msg("falling back to default theme")
	}

	ti := textinput.New()
	ti.Placeholder = "18:00-19:00 Dinner  or  Buy milk"
	ti.CharLimit = 256
	ti.Width = 48

	if !user.Valid() {
		user = cfg.CurrentUser()
	}

	m := &Model{
		store:    store,
		runner:   apply.NewRunner(store, log),
		config:   cfg,
		sched:    scheduler.New(cfg.Schedule.DayStart, cfg.Schedule.DayEnd, cfg.Schedule.MinFreeMinutes),
		styles:   NewStyles(t),
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    ti,
		log:      log,
		now:      time.Now,
		user:     user,
		holidays: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.dateKey = m.today()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.sub != nil {
		cmds = append(cmds, commands.WaitForSnapshot(m.sub))
	}
	cmds = append(cmds, m.loadHoliday())
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case commands.SnapshotMsg:
		m.snap = msg.Snap
		m.cursor = min(m.cursor, max(len(m.dayEvents())-1, 0))
		return m, commands.WaitForSnapshot(m.sub)

	case commands.SubscriptionClosedMsg:
		return m, nil

	case commands.HolidayMsg:
		m.holidays[msg.DateKey] = msg.Holiday
		return m, nil

	case commands.AppliedMsg:
		if err := msg.Report.Err(); err != nil {
			m.log.Error().Err(err).Msg("write failed")
			return m.setStatus("Save failed: " + err.Error())
		}
		return m.setStatus(msg.Status)

	case commands.ErrMsg:
		return m.setStatus(msg.Err.Error())

	case commands.StatusMsg:
		return m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		m.status = ""
		return m, nil
	}

	if m.mode == ModeAdd {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) setStatus(s string) (tea.Model, tea.Cmd) {
	m.status = s
	return m, commands.ClearStatusAfter(statusTimeout)
}

func (m Model) loadHoliday() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return commands.LoadHoliday(m.store, m.dateKey)
}

func (m Model) today() string {
	return dateutil.Today(m.now(), m.config.TimeLocation())
}

func (m Model) snapshot() *event.Snapshot {
	if m.snap == nil {
		return event.FromEvents()
	}
	return m.snap
}

// dayEvents returns the records of the shown day visible to the current
// user, timed ones first in start order.
func (m Model) dayEvents() []event.Event {
	var out []event.Event
	for _, ev := range m.snapshot().Day(m.dateKey) {
		if !event.Relevant(ev.Owner, m.user) || ev.IsTemplate() {
			continue
		}
		out = append(out, ev)
	}
	slices.SortStableFunc(out, func(a, b event.Event) int {
		if a.HasTimes() != b.HasTimes() {
			if a.HasTimes() {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	return out
}

func (m Model) selected() (event.Event, bool) {
	events := m.dayEvents()
	if m.cursor < 0 || m.cursor >= len(events) {
		return event.Event{}, false
	}
	return events[m.cursor], true
}

func freeSlotsText(dateKey string, slots []scheduler.Interval) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.String()
	}
	day := dateKey
	if t, err := dateutil.ParseDate(dateKey); err == nil {
		day = t.Format("Mon 2 Jan")
	}
	return fmt.Sprintf("Free on %s: %s", day, strings.Join(parts, ", "))
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, store event.Store, cfg *config.Config, user event.Owner, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := New(store, cfg, user, log, WithSubscription(store.Subscribe(ctx)))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
