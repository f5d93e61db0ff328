// Package tui is the interactive roster screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jes-seguranca/jesctl/internal/format"
	"github.com/jes-seguranca/jesctl/internal/roster"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const help = "type to filter • ↑/↓ move • tab select • ctrl+a all/none • ctrl+y copy • ctrl+r refresh • esc quit"

type refreshMsg struct{}

type fetchedMsg struct{ res roster.Result }

// Model is the bubbletea model for the roster screen. The view-model is only
// touched from Update, which bubbletea runs on a single goroutine.
type Model struct {
	ctx    context.Context
	vm     *roster.ViewModel
	input  textinput.Model
	cursor int
	height int

	status    string
	statusErr bool
}

// New returns a roster screen over vm. ctx bounds every fetch.
func New(ctx context.Context, vm *roster.ViewModel) Model {
	ti := textinput.New()
	ti.Placeholder = "nome ou cpf"
	ti.Prompt = "Filtro: "
	ti.Focus()
	return Model{ctx: ctx, vm: vm, input: ti}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, vm *roster.ViewModel) error {
	_, err := tea.NewProgram(New(ctx, vm), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return refreshMsg{} })
}

// fetch runs req off the update loop and reports back with its result.
func fetch(req *roster.Request) tea.Cmd {
	return func() tea.Msg { return fetchedMsg{res: req.Run()} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		m.setStatus("loading…", false)
		return m, fetch(m.vm.Refresh(m.ctx))

	case fetchedMsg:
		if m.vm.Apply(msg.res) {
			m.afterRefresh()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.vm.Visible())-1 {
				m.cursor++
			}
			return m, nil
		case "tab":
			if rows := m.vm.Visible(); m.cursor < len(rows) {
				m.vm.ToggleSelection(rows[m.cursor].CPF)
			}
			return m, nil
		case "ctrl+a":
			m.vm.SelectAllOrClear()
			return m, nil
		case "ctrl+y":
			m.copySelection()
			return m, nil
		case "ctrl+r":
			return m, func() tea.Msg { return refreshMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.vm.Filter() {
		m.vm.SetFilter(m.input.Value())
		m.clampCursor()
	}
	return m, cmd
}

func (m *Model) afterRefresh() {
	m.clampCursor()
	if m.vm.Phase() == roster.Failed {
		m.setStatus(m.vm.Err().Error(), true)
		return
	}
	ch := m.vm.LastChange()
	if ch.Empty() {
		m.setStatus(fmt.Sprintf("roster updated: %d employees", len(m.vm.Snapshot())), false)
		return
	}
	m.setStatus(fmt.Sprintf("roster updated: %d employees (+%d -%d ~%d)",
		len(m.vm.Snapshot()), len(ch.Added), len(ch.Removed), len(ch.Renamed)), false)
}

func (m *Model) copySelection() {
	n, err := m.vm.CopySelection()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("%d record(s) copied", n), false)
}

func (m *Model) clampCursor() {
	n := len(m.vm.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// Cursor returns the index of the highlighted visible row.
func (m Model) Cursor() int { return m.cursor }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Vigilantes"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d • %d selected",
		len(m.vm.Visible()), len(m.vm.Snapshot()), len(m.vm.Selected()))))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	rows := m.vm.Visible()
	start, end := m.window(len(rows))
	for i := start; i < end; i++ {
		e := rows[i]
		mark := "[ ]"
		if m.vm.IsSelected(e.CPF) {
			mark = selectedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %-40s %s", mark, format.Name(e.Nome), format.CPF(e.CPF))
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(rows) == 0 && m.vm.Phase() == roster.Ready {
		b.WriteString(dimStyle.Render("  no matches") + "\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(dimStyle.Render(m.status))
	}
	b.WriteString("\n" + dimStyle.Render(help) + "\n")
	return b.String()
}

// window returns the row range that fits the terminal around the cursor.
func (m Model) window(n int) (int, int) {
	room := m.height - 8
	if m.height == 0 || room >= n {
		return 0, n
	}
	if room < 1 {
		room = 1
	}
	start := m.cursor - room/2
	if start < 0 {
		start = 0
	}
	if start+room > n {
		start = n - room
	}
	return start, start + room
}
