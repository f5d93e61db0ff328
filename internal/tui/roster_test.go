package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/roster"
)

type stubFetcher struct {
	mu   sync.Mutex
	emps []api.Employee
	err  error
}

func (f *stubFetcher) FetchAll(context.Context) ([]api.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emps, f.err
}

type memClipboard struct{ text string }

func (c *memClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

var crew = []api.Employee{
	{ID: "1", Nome: "caio lima", CPF: "33344455566"},
	{ID: "2", Nome: "Ana Souza", CPF: "11122233344"},
	{ID: "3", Nome: "beto dias", CPF: "22233344455"},
}

// send delivers msg and follows refresh and fetch commands to completion.
// Commands from typed text belong to the text input and are dropped.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyRunes || k.Type == tea.KeySpace) {
		return m
	}
	for cmd != nil {
		out := cmd()
		switch out := out.(type) {
		case refreshMsg, fetchedMsg:
			next, cmd = m.Update(out)
			m = next.(Model)
		default:
			cmd = nil
		}
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, f roster.Fetcher, clip roster.Clipboard) (Model, *roster.ViewModel) {
	t.Helper()
	vm := roster.New(f, roster.WithClipboard(clip))
	m := send(t, New(context.Background(), vm), refreshMsg{})
	require.Equal(t, roster.Ready, vm.Phase())
	return m, vm
}

func TestRefreshLoadsSortedRoster(t *testing.T) {
	m, vm := loaded(t, &stubFetcher{emps: crew}, nil)
	assert.Equal(t, "Ana Souza", vm.Visible()[0].Nome)
	assert.Contains(t, m.Status(), "3 employees")
	assert.Contains(t, m.View(), "Ana Souza")
	assert.Contains(t, m.View(), "111.222.333-44")
}

func TestRefreshFailureShowsError(t *testing.T) {
	vm := roster.New(&stubFetcher{err: errors.New("boom")})
	m := send(t, New(context.Background(), vm), refreshMsg{})
	assert.Equal(t, roster.Failed, vm.Phase())
	assert.Contains(t, m.Status(), "could not load roster")
}

func TestTypingFilters(t *testing.T) {
	m, vm := loaded(t, &stubFetcher{emps: crew}, nil)
	m = send(t, m, key("down"))
	m = send(t, m, key("down"))
	assert.Equal(t, 2, m.Cursor())

	m = send(t, m, key("beto"))
	assert.Equal(t, "beto", vm.Filter())
	require.Len(t, vm.Visible(), 1)
	assert.Equal(t, 0, m.Cursor())
}

func TestTabTogglesRowUnderCursor(t *testing.T) {
	m, vm := loaded(t, &stubFetcher{emps: crew}, nil)
	m = send(t, m, key("down"))
	m = send(t, m, key("tab"))
	assert.Equal(t, []string{"22233344455"}, vm.Selected())

	send(t, m, key("tab"))
	assert.Empty(t, vm.Selected())
}

func TestSpaceIsPartOfFilter(t *testing.T) {
	m, vm := loaded(t, &stubFetcher{emps: crew}, nil)
	m = send(t, m, key("ana"))
	m = send(t, m, key(" "))
	m = send(t, m, key("souza"))

	assert.Equal(t, "ana souza", vm.Filter())
	require.Len(t, vm.Visible(), 1)
	assert.Equal(t, "11122233344", vm.Visible()[0].CPF)
	assert.Empty(t, vm.Selected())
	assert.Equal(t, 0, m.Cursor())
}

func TestSelectAllAndCopy(t *testing.T) {
	clip := &memClipboard{}
	m, vm := loaded(t, &stubFetcher{emps: crew}, clip)

	m = send(t, m, key("ctrl+a"))
	assert.Len(t, vm.Selected(), 3)

	m = send(t, m, key("ctrl+y"))
	assert.Equal(t, "3 record(s) copied", m.Status())
	assert.Contains(t, clip.text, "NOME: Ana Souza\nCPF: 111.222.333-44\n")

	m = send(t, m, key("ctrl+a"))
	assert.Empty(t, vm.Selected())
	m = send(t, m, key("ctrl+y"))
	assert.Equal(t, roster.ErrNothingSelected.Error(), m.Status())
}

func TestCtrlRReportsChanges(t *testing.T) {
	f := &stubFetcher{emps: crew}
	m, _ := loaded(t, f, nil)

	f.mu.Lock()
	f.emps = append(crew[:2:2], api.Employee{ID: "4", Nome: "Duda", CPF: "44455566677"})
	f.mu.Unlock()

	m = send(t, m, key("ctrl+r"))
	assert.Contains(t, m.Status(), "+1 -1")
}

func TestStaleFetchIgnored(t *testing.T) {
	vm := roster.New(&stubFetcher{emps: crew})
	m := New(context.Background(), vm)

	first := vm.Refresh(context.Background())
	second := vm.Refresh(context.Background())

	next, _ := m.Update(fetchedMsg{res: second.Run()})
	m = next.(Model)
	require.Equal(t, roster.Ready, vm.Phase())

	next, _ = m.Update(fetchedMsg{res: first.Run()})
	m = next.(Model)
	assert.Equal(t, second.Token(), vm.State().Token)
	assert.Contains(t, m.Status(), "roster updated")
}

func TestEscQuits(t *testing.T) {
	m, _ := loaded(t, &stubFetcher{emps: crew}, nil)
	_, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
