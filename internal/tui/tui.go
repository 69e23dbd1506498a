// Package tui is the interactive "today" screen: the day's task instances
// for the household, completed or skipped as the selected user.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/chorequest/internal/avatar"
	"github.com/idilsaglam/chorequest/internal/level"
	"github.com/idilsaglam/chorequest/internal/session"
	"github.com/idilsaglam/chorequest/internal/toast"
	"github.com/idilsaglam/chorequest/internal/ui"
)

type keyMap struct {
	Complete, Note, Skip, Theme, Refresh, Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Complete: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "erledigt")),
		Note:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "mit Notiz")),
		Skip:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "überspringen")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "neu laden")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "beenden")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Complete, k.Note, k.Skip, k.Theme, k.Refresh}
}

type (
	overviewMsg struct {
		ov  session.Overview
		err error
	}
	// actionMsg reports a finished complete or skip; the queue already
	// carries the user-facing outcome.
	actionMsg struct{ err error }
	toastsMsg []toast.Toast
	tickMsg   time.Time
)

type Model struct {
	ctx  context.Context
	s    *session.Session
	keys keyMap

	list    list.Model
	spin    spinner.Model
	notes   textinput.Model
	noting  bool
	noteFor int

	loading bool
	err     error
	toasts  []toast.Toast
	toastCh chan []toast.Toast
	every   time.Duration

	width, height int
}

// New builds the screen. Calls to the API use ctx.
func New(ctx context.Context, s *session.Session) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Heute"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("Aufgabe", "Aufgaben")
	l.FilterInput.Prompt = "/ "
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Notiz..."
	ti.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	every := s.Config().PollInterval
	if every <= 0 {
		every = session.DefaultPollInterval
	}

	return Model{
		ctx:     ctx,
		s:       s,
		keys:    keys,
		list:    l,
		spin:    sp,
		notes:   ti,
		loading: true,
		toastCh: make(chan []toast.Toast, 1),
		every:   every,
	}
}

// Run shows the screen until the user quits or ctx ends.
func Run(ctx context.Context, s *session.Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, s)
	unsubscribe := s.Toasts.Subscribe(m.forwardToasts)
	defer unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// forwardToasts keeps only the newest snapshot in the channel.
func (m Model) forwardToasts(ts []toast.Toast) {
	for {
		select {
		case m.toastCh <- ts:
			return
		default:
			select {
			case <-m.toastCh:
			default:
			}
		}
	}
}

func (m Model) listenToasts() tea.Cmd {
	return func() tea.Msg {
		select {
		case ts := <-m.toastCh:
			return toastsMsg(ts)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		ov, err := m.s.LoadOverview(m.ctx)
		return overviewMsg{ov, err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) complete(id int, notes string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.s.Complete(m.ctx, id, notes)
		return actionMsg{err}
	}
}

func (m Model) skip(it instanceItem) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{m.s.Skip(m.ctx, it.ID, it.Task.Title)}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load(), m.listenToasts(), m.tick())
}

// selected returns the highlighted pending instance.
func (m Model) selected() (instanceItem, bool) {
	it, ok := m.list.SelectedItem().(instanceItem)
	if !ok || !it.pending() {
		return instanceItem{}, false
	}
	return it, true
}

// act sends cmd for the highlighted instance. Completing needs a selected
// user; skipping does not.
func (m Model) act(needsUser bool, cmd func(it instanceItem) tea.Cmd) (Model, tea.Cmd) {
	it, ok := m.selected()
	if !ok {
		return m, nil
	}
	if needsUser {
		if _, err := m.s.RequireSelected(); err != nil {
			m.s.Toasts.Error("Kein Benutzer ausgewählt")
			return m, nil
		}
	}
	m.loading = true
	return m, tea.Batch(cmd(it), m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case overviewMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.s.Logger().Warn("overview failed", zap.Error(msg.err))
			return m, nil
		}
		return m, m.list.SetItems(toItems(msg.ov.Today))

	case actionMsg:
		if msg.err != nil {
			m.loading = false
			return m, nil
		}
		return m, m.load()

	case toastsMsg:
		m.toasts = msg
		m.resize()
		return m, m.listenToasts()

	case tickMsg:
		return m, tea.Batch(m.load(), m.tick())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.noting {
		return m.updateNotes(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(k, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(k, m.keys.Complete):
			return m.act(true, func(it instanceItem) tea.Cmd { return m.complete(it.ID, "") })
		case key.Matches(k, m.keys.Skip):
			return m.act(false, m.skip)
		case key.Matches(k, m.keys.Note):
			if it, ok := m.selected(); ok {
				m.noting, m.noteFor = true, it.ID
				m.notes.SetValue("")
				m.notes.Focus()
				m.resize()
				return m, textinput.Blink
			}
			return m, nil
		case key.Matches(k, m.keys.Theme):
			if err := m.s.Theme.Toggle(); err != nil {
				m.s.Toasts.Error("Theme nicht gespeichert")
			}
			m.list.Styles.Title = ui.Current().Title
			return m, nil
		case key.Matches(k, m.keys.Refresh):
			m.loading = true
			return m, tea.Batch(m.load(), m.spin.Tick)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateNotes(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			notes := strings.TrimSpace(m.notes.Value())
			id := m.noteFor
			m.noting = false
			m.notes.Blur()
			m.resize()
			return m.act(true, func(instanceItem) tea.Cmd { return m.complete(id, notes) })
		case "esc":
			m.noting = false
			m.notes.Blur()
			m.resize()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

// resize gives the list whatever the header, note box and toasts leave.
func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	h := m.height - lipgloss.Height(m.header()) - len(m.toasts) - 4
	if m.noting {
		h -= 4
	}
	m.list.SetSize(m.width-4, max(h, 3))
}

func (m Model) header() string {
	t := ui.Current()
	done, pending := counts(m.list.Items())
	status := fmt.Sprintf("%s %d  %s %d",
		t.Success.Render(t.SymDone), done, t.Pending.Render(t.SymPending), pending)
	if m.loading {
		status += " " + m.spin.View()
	}

	lines := []string{t.Title.Render("ChoreQuest"), status}
	u := m.s.SelectedUser.Get()
	if u == nil {
		lines = append(lines, t.Muted.Render("kein Benutzer ausgewählt"))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, u.Name(), ui.LevelBar(level.Compute(u.TotalPoints), 20))
	return lipgloss.JoinHorizontal(lipgloss.Top,
		ui.Avatar(avatar.New(u.ID)), "  ", strings.Join(lines, "\n"))
}

func (m Model) View() string {
	t := ui.Current()
	parts := []string{m.header(), ""}
	if m.err != nil {
		parts = append(parts, t.Error.Render("Laden fehlgeschlagen: "+m.err.Error()))
	}
	parts = append(parts, m.list.View())
	if m.noting {
		box := lipgloss.NewStyle().Border(t.Frame).BorderForeground(t.Border.GetForeground()).Padding(0, 1)
		parts = append(parts, box.Render("Notiz zur Erledigung\n"+m.notes.View()))
	}
	if len(m.toasts) > 0 {
		parts = append(parts, ui.Toasts(m.toasts))
	}
	return ui.Panel(parts)
}
