package inspect

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"svcctl/internal/registry"
	"svcctl/internal/services"
)

// Source is what the interactive view reads from and acts on.
type Source interface {
	Snapshot() []registry.SlotInfo
	Get(ctx context.Context, id services.ID) (services.Service, error)
}

// KeyMap defines the keybindings of the interactive view.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Resolve key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "navigate up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "navigate down"),
		),
		Resolve: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "resolve service"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Resolve, k.Refresh},
		{k.Help, k.Quit},
	}
}

// Model is the bubbletea model of the interactive slot table.
type Model struct {
	src    Source
	slots  []registry.SlotInfo
	table  table.Model
	help   help.Model
	keys   KeyMap
	status string
	failed bool
}

// NewModel builds the view over src and loads the first snapshot.
func NewModel(src Source) Model {
	columns := make([]table.Column, len(Headers))
	for i, h := range Headers {
		columns[i] = table.Column{Title: h, Width: columnWidth(i)}
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(styles)

	m := Model{
		src:   src,
		table: t,
		help:  help.New(),
		keys:  DefaultKeyMap(),
	}
	m.refresh()
	return m
}

func columnWidth(col int) int {
	switch col {
	case 0:
		return 4
	case 1:
		return 20
	case statusColumn:
		return 22
	case 3:
		return 5
	default:
		return 14
	}
}

func (m *Model) refresh() {
	m.slots = m.src.Snapshot()
	rows := Rows(m.slots)
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}
	m.table.SetRows(tableRows)
}

// Selected returns the ID under the cursor.
func (m Model) Selected() (services.ID, bool) {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(row[0])
	if err != nil {
		return 0, false
	}
	return services.ID(n), true
}

// Status returns the message shown under the table.
func (m Model) Status() string {
	return m.status
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.status, m.failed = "Refreshed", false
			return m, nil
		case key.Matches(msg, m.keys.Resolve):
			m.resolveSelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) resolveSelected() {
	id, ok := m.Selected()
	if !ok {
		return
	}
	svc, err := m.src.Get(context.Background(), id)
	switch {
	case err != nil:
		m.status, m.failed = fmt.Sprintf("Resolving %d failed: %v", id, err), true
	case svc == nil:
		m.status, m.failed = fmt.Sprintf("Service %d has failed before and is not retried", id), true
	default:
		m.status, m.failed = fmt.Sprintf("Service %d resolved", id), false
	}
	m.refresh()
}

func (m Model) View() string {
	status := okStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("svcctl registry"),
		m.table.View(),
		summaryStyle.Render(Summary(m.slots)),
		status,
		m.help.View(m.keys),
	)
}

// Run starts the interactive view and blocks until the user quits.
func Run(src Source) error {
	_, err := tea.NewProgram(NewModel(src), tea.WithAltScreen()).Run()
	return err
}
