package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jes-seguranca/jesctl/internal/api"
)

// FetchAll returns the whole employee collection. Malformed records are
// dropped and logged.
func (c *Client) FetchAll(ctx context.Context) ([]api.Employee, error) {
	const op = "fetch roster"
	body, err := c.do(ctx, op, http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}
	emps, dropped, err := api.DecodeEmployees(body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	for _, d := range dropped {
		c.log.Warn().Int("index", d.Index).Str("reason", d.Reason).Msg("dropping malformed employee record")
	}
	return emps, nil
}

// Create registers a new employee. Both fields are required.
func (c *Client) Create(ctx context.Context, nome, cpf string) error {
	in := api.NewEmployee{Nome: strings.TrimSpace(nome), CPF: strings.TrimSpace(cpf)}
	var missing []string
	if in.Nome == "" {
		missing = append(missing, "nome")
	}
	if in.CPF == "" {
		missing = append(missing, "cpf")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	_, err := c.do(ctx, "create employee", http.MethodPost, "/usuarios", in)
	return err
}

// Update sends the non-empty fields of patch for employee id.
func (c *Client) Update(ctx context.Context, id api.ID, patch api.EmployeePatch) error {
	patch.Nome = strings.TrimSpace(patch.Nome)
	patch.CPF = strings.TrimSpace(patch.CPF)
	if id == "" {
		return &ValidationError{Fields: []string{"id"}}
	}
	if patch.Empty() {
		return &ValidationError{Fields: []string{"nome", "cpf"}}
	}

	_, err := c.do(ctx, "update employee", http.MethodPut, "/"+url.PathEscape(string(id)), patch)
	return err
}
