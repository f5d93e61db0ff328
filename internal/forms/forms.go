// Package forms holds the state behind the registration and edit screens.
// Fields survive a failed submit so the user can retry.
package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jes-seguranca/jesctl/internal/api"
)

// Creator registers employees.
type Creator interface {
	Create(ctx context.Context, nome, cpf string) error
}

// Updater patches employees.
type Updater interface {
	Update(ctx context.Context, id api.ID, patch api.EmployeePatch) error
}

// Registration is the new-employee form. Submitted accumulates the entries
// accepted during this session, oldest first.
type Registration struct {
	Nome      string
	CPF       string
	Submitted []api.NewEmployee

	creator Creator
	log     zerolog.Logger
}

// NewRegistration returns an empty form backed by c.
func NewRegistration(c Creator, log zerolog.Logger) *Registration {
	return &Registration{creator: c, log: log}
}

// Submit sends the current fields. On success the entry is appended to
// Submitted and both fields are cleared; on any failure they are kept.
func (r *Registration) Submit(ctx context.Context) error {
	entry := api.NewEmployee{Nome: strings.TrimSpace(r.Nome), CPF: strings.TrimSpace(r.CPF)}
	if err := r.creator.Create(ctx, entry.Nome, entry.CPF); err != nil {
		r.log.Warn().Err(err).Msg("registration failed")
		return fmt.Errorf("registering %q: %w", entry.Nome, err)
	}
	r.log.Info().Str("nome", entry.Nome).Msg("employee registered")
	r.Submitted = append(r.Submitted, entry)
	r.Nome, r.CPF = "", ""
	return nil
}

// Edit is the form for an existing employee. Fields left blank are not sent.
type Edit struct {
	ID   api.ID
	Nome string
	CPF  string

	updater Updater
	log     zerolog.Logger
}

// NewEdit returns a form prefilled from e.
func NewEdit(u Updater, e api.Employee, log zerolog.Logger) *Edit {
	return &Edit{ID: e.ID, Nome: e.Nome, CPF: e.CPF, updater: u, log: log}
}

// Patch returns what Save would send.
func (e *Edit) Patch() api.EmployeePatch {
	return api.EmployeePatch{Nome: strings.TrimSpace(e.Nome), CPF: strings.TrimSpace(e.CPF)}
}

// Save sends the non-empty fields. The form is unchanged either way; the
// roster must be reloaded to see the result.
func (e *Edit) Save(ctx context.Context) error {
	if err := e.updater.Update(ctx, e.ID, e.Patch()); err != nil {
		e.log.Warn().Err(err).Str("id", string(e.ID)).Msg("update failed")
		return fmt.Errorf("updating employee %s: %w", e.ID, err)
	}
	e.log.Info().Str("id", string(e.ID)).Msg("employee updated")
	return nil
}
