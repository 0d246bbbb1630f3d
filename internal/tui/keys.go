package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/tui/commands"
)

type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Today  key.Binding
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	User   key.Binding
	Copy   key.Binding
	Add    key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev day")),
		Next:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next day")),
		Today:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
		User:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "switch user")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy free time")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Toggle, k.Add, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Today},
		{k.Up, k.Down, k.Toggle},
		{k.User, k.Copy, k.Add},
		{k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == ModeAdd {
		return m.handleAddKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Prev):
		return m.gotoDay(dateutil.AddDays(m.dateKey, -1))
	case key.Matches(msg, m.keys.Next):
		return m.gotoDay(dateutil.AddDays(m.dateKey, 1))
	case key.Matches(msg, m.keys.Today):
		return m.gotoDay(m.today())

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.dayEvents())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.User):
		m.user = nextUser(m.user)
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		ev, ok := m.selected()
		if !ok {
			return m, nil
		}
		status := "Marked done: " + ev.Title
		if ev.Completed {
			status = "Marked not done: " + ev.Title
		}
		cmd := event.CompleteCommand(ev, !ev.Completed, m.now().UnixMilli())
		return m, commands.Apply(m.runner, []event.Command{cmd}, status)

	case key.Matches(msg, m.keys.Copy):
		load := m.sched.DayLoad(m.snapshot(), m.dateKey, m.user)
		if len(load.FreeSlots) == 0 {
			return m.setStatus("No free time to copy")
		}
		return m, commands.Copy(freeSlotsText(m.dateKey, load.FreeSlots), "Copied free time")

	case key.Matches(msg, m.keys.Add):
		m.mode = ModeAdd
		m.input.SetValue("")
		return m, tea.Batch(m.input.Focus(), textinput.Blink)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		m.mode = ModeNormal
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		ev, err := parseQuickAdd(text, m.dateKey, m.user)
		if err != nil {
			return m.setStatus(err.Error())
		}
		if m.store != nil {
			ev.ID = m.store.NewID()
		}
		if err := event.Validate(ev); err != nil {
			return m.setStatus(err.Error())
		}
		return m, commands.Apply(m.runner, []event.Command{event.SetEvent(ev)}, fmt.Sprintf("Added %q", ev.Title))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) gotoDay(dateKey string) (tea.Model, tea.Cmd) {
	m.dateKey = dateKey
	m.cursor = 0
	return m, m.loadHoliday()
}

func nextUser(u event.Owner) event.Owner {
	for i, o := range event.Owners {
		if o == u {
			return event.Owners[(i+1)%len(event.Owners)]
		}
	}
	return event.OwnerA
}
