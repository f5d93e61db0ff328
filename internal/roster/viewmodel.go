package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/delta"
)

var (
	// ErrLoadFailed wraps every roster fetch failure.
	ErrLoadFailed = errors.New("could not load roster")
	// ErrNothingSelected is returned by CopySelection when there is nothing to export.
	ErrNothingSelected = errors.New("nothing selected")
	// ErrNoClipboard is returned by CopySelection when no clipboard was configured.
	ErrNoClipboard = errors.New("no clipboard available")
)

// Fetcher reads the full employee collection.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]api.Employee, error)
}

// Clipboard receives exported text.
type Clipboard interface {
	WriteText(text string) error
}

// ViewModel owns the roster State. It is not safe for concurrent use: every
// method must be called from the same event thread. Only Request.Run may be
// called elsewhere.
type ViewModel struct {
	fetcher Fetcher
	clip    Clipboard
	log     zerolog.Logger

	state   State
	next    uint64
	pending *Request
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithClipboard sets the clipboard used by CopySelection.
func WithClipboard(c Clipboard) Option {
	return func(vm *ViewModel) { vm.clip = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(vm *ViewModel) { vm.log = l }
}

// WithPruneSelection controls whether selected cpfs that disappear from a
// refreshed snapshot are dropped. Enabled by default.
func WithPruneSelection(prune bool) Option {
	return func(vm *ViewModel) { vm.state.PruneSelection = prune }
}

// New returns an Idle view-model reading from f.
func New(f Fetcher, opts ...Option) *ViewModel {
	vm := &ViewModel{
		fetcher: f,
		log:     zerolog.Nop(),
		state:   State{Phase: Idle, PruneSelection: true},
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Request is one in-flight roster fetch.
type Request struct {
	token     uint64
	ctx       context.Context
	cancel    context.CancelFunc
	fetcher   Fetcher
	abandoned bool
}

// Result is the outcome of Request.Run, to be handed to ViewModel.Apply.
type Result struct {
	Token     uint64
	Employees []api.Employee
	Err       error

	req *Request
}

// Token returns the request's staleness token.
func (r *Request) Token() uint64 { return r.token }

// Run performs the fetch. It touches no view-model state and may run on any
// goroutine.
func (r *Request) Run() Result {
	emps, err := r.fetcher.FetchAll(r.ctx)
	r.cancel()
	return Result{Token: r.token, Employees: emps, Err: err, req: r}
}

// Abandon cancels the request; its result will be ignored by Apply.
// Call it from the event thread.
func (r *Request) Abandon() {
	r.abandoned = true
	r.cancel()
}

// Refresh enters Loading and returns a new request. Any request still in
// flight is abandoned so its late result cannot overwrite this one.
func (vm *ViewModel) Refresh(ctx context.Context) *Request {
	if vm.pending != nil {
		vm.log.Debug().Uint64("token", vm.pending.token).Msg("abandoning stale roster request")
		vm.pending.Abandon()
	}
	vm.next++
	rctx, cancel := context.WithCancel(ctx)
	req := &Request{token: vm.next, ctx: rctx, cancel: cancel, fetcher: vm.fetcher}
	vm.pending = req
	vm.dispatch(RefreshStarted{Token: req.token})
	return req
}

// Apply folds a fetch result into the state. It returns false when the
// result was ignored because its request was abandoned or superseded.
func (vm *ViewModel) Apply(res Result) bool {
	if (res.req != nil && res.req.abandoned) || res.Token != vm.state.Token {
		vm.log.Debug().Uint64("token", res.Token).Uint64("current", vm.state.Token).Msg("ignoring stale roster result")
		return false
	}
	vm.pending = nil

	if res.Err != nil {
		vm.log.Warn().Err(res.Err).Msg("roster refresh failed")
		vm.dispatch(RefreshFailed{Token: res.Token, Err: fmt.Errorf("%w: %w", ErrLoadFailed, res.Err)})
		return true
	}
	vm.dispatch(RefreshSucceeded{Token: res.Token, Employees: res.Employees})
	vm.log.Info().Int("employees", len(vm.state.Snapshot)).Msg("roster loaded")
	return true
}

// Reload runs a refresh to completion on the calling goroutine.
func (vm *ViewModel) Reload(ctx context.Context) error {
	req := vm.Refresh(ctx)
	vm.Apply(req.Run())
	if vm.state.Phase == Failed {
		return vm.state.Err
	}
	return nil
}

// Pending reports whether a refresh is in flight.
func (vm *ViewModel) Pending() bool { return vm.pending != nil }

func (vm *ViewModel) dispatch(ev Event) {
	prev := vm.state.Phase
	vm.state = Reduce(vm.state, ev)
	if vm.state.Phase != prev {
		vm.log.Debug().Stringer("from", prev).Stringer("to", vm.state.Phase).Msg("roster phase")
	}
}

// State returns the current state value.
func (vm *ViewModel) State() State { return vm.state }

// Phase returns the current phase.
func (vm *ViewModel) Phase() Phase { return vm.state.Phase }

// Err returns the last refresh error, if the roster is Failed.
func (vm *ViewModel) Err() error { return vm.state.Err }

// Snapshot returns the full, sorted roster.
func (vm *ViewModel) Snapshot() []api.Employee { return vm.state.Snapshot }

// Visible returns the rows passing the current filter.
func (vm *ViewModel) Visible() []api.Employee { return vm.state.Visible() }

// Filter returns the current filter text.
func (vm *ViewModel) Filter() string { return vm.state.Filter }

// Selected returns the selected cpfs in ascending order.
func (vm *ViewModel) Selected() []string { return vm.state.Selected.Slice() }

// IsSelected reports whether cpf is selected.
func (vm *ViewModel) IsSelected(cpf string) bool { return vm.state.Selected.Has(cpf) }

// AllSelected reports whether select-all-or-clear would clear.
func (vm *ViewModel) AllSelected() bool {
	return vm.state.Selected.Len() == len(vm.state.Snapshot)
}

// LastChange returns what the most recent successful refresh changed.
func (vm *ViewModel) LastChange() delta.Change { return vm.state.Change }

// SetFilter replaces the filter text.
func (vm *ViewModel) SetFilter(text string) { vm.dispatch(FilterChanged{Text: text}) }

// ToggleSelection flips the selection of cpf.
func (vm *ViewModel) ToggleSelection(cpf string) { vm.dispatch(SelectionToggled{CPF: cpf}) }

// SelectAllOrClear clears the selection when its size equals the full
// roster size, otherwise selects every cpf in the roster. The filter is not
// taken into account.
func (vm *ViewModel) SelectAllOrClear() { vm.dispatch(SelectAllToggled{}) }

// ExportText returns the clipboard text for the current selection.
func (vm *ViewModel) ExportText() string {
	return ExportText(vm.state.Snapshot, vm.state.Selected)
}

// CopySelection writes the export text to the clipboard and returns the
// number of exported records. An empty export leaves the clipboard untouched
// and returns ErrNothingSelected.
func (vm *ViewModel) CopySelection() (int, error) {
	records := exportRecords(vm.state.Snapshot, vm.state.Selected)
	text := strings.Join(records, "\n")
	if strings.TrimSpace(text) == "" {
		return 0, ErrNothingSelected
	}
	if vm.clip == nil {
		return 0, ErrNoClipboard
	}
	if err := vm.clip.WriteText(text); err != nil {
		return 0, fmt.Errorf("copying to clipboard: %w", err)
	}
	vm.log.Info().Int("records", len(records)).Msg("selection copied")
	return len(records), nil
}
