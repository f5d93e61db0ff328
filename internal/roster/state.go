// Package roster holds the employee roster screen state: the remote snapshot,
// the text filter, the multi-selection and the loading state machine.
//
// All transitions go through Reduce, a pure function of (State, Event).
// ViewModel owns one State and is driven from a single event thread.
package roster

import (
	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/delta"
)

// Phase is the loading state of the roster.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// State is an immutable value; Reduce returns a new one.
type State struct {
	Phase    Phase
	Snapshot []api.Employee // sorted by nome, never mutated in place
	Filter   string
	Selected Selection
	Err      error  // set in Failed, cleared when a refresh starts
	Token    uint64 // token of the newest refresh
	Loaded   bool   // at least one refresh succeeded
	Change   delta.Change

	// PruneSelection drops selected cpfs missing from a new snapshot.
	PruneSelection bool
}

// Event is a roster transition input.
type Event interface {
	isEvent()
}

type (
	// RefreshStarted enters Loading and makes Token the current request.
	RefreshStarted struct {
		Token uint64
	}

	// RefreshSucceeded carries a fetched snapshot.
	RefreshSucceeded struct {
		Token     uint64
		Employees []api.Employee
	}

	// RefreshFailed carries a fetch error.
	RefreshFailed struct {
		Token uint64
		Err   error
	}

	// FilterChanged replaces the filter text.
	FilterChanged struct {
		Text string
	}

	// SelectionToggled flips membership of CPF in the selection.
	SelectionToggled struct {
		CPF string
	}

	// SelectAllToggled selects every cpf in the snapshot, or clears the
	// selection when it already has as many members as the snapshot.
	SelectAllToggled struct{}
)

func (RefreshStarted) isEvent()   {}
func (RefreshSucceeded) isEvent() {}
func (RefreshFailed) isEvent()    {}
func (FilterChanged) isEvent()    {}
func (SelectionToggled) isEvent() {}
func (SelectAllToggled) isEvent() {}

// Reduce applies ev to s. Refresh results whose token is not the current one
// leave s unchanged.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case RefreshStarted:
		s.Phase = Loading
		s.Token = e.Token
		s.Err = nil

	case RefreshSucceeded:
		if e.Token != s.Token {
			return s
		}
		snap := SortByName(e.Employees)
		if s.Loaded {
			s.Change = delta.Compare(s.Snapshot, snap)
		} else {
			s.Change = delta.Change{}
		}
		s.Phase = Ready
		s.Snapshot = snap
		s.Loaded = true
		if s.PruneSelection {
			s.Selected = s.Selected.Retain(cpfs(snap))
		}

	case RefreshFailed:
		if e.Token != s.Token {
			return s
		}
		s.Phase = Failed
		s.Err = e.Err

	case FilterChanged:
		s.Filter = e.Text

	case SelectionToggled:
		s.Selected = s.Selected.Toggle(e.CPF)

	case SelectAllToggled:
		// Compared against the whole snapshot, not the filtered rows.
		if s.Selected.Len() == len(s.Snapshot) {
			s.Selected = Selection{}
		} else {
			s.Selected = NewSelection(cpfs(s.Snapshot)...)
		}
	}
	return s
}

// Visible returns the snapshot rows that pass the filter.
func (s State) Visible() []api.Employee {
	return Filter(s.Snapshot, s.Filter)
}

func cpfs(emps []api.Employee) []string {
	out := make([]string, len(emps))
	for i, e := range emps {
		out[i] = e.CPF
	}
	return out
}
