package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jes-seguranca/jesctl/internal/api"
)

// ListEquipment returns the equipment inventory.
func (c *Client) ListEquipment(ctx context.Context) ([]api.Equipment, error) {
	const op = "list equipment"
	body, err := c.do(ctx, op, http.MethodGet, "/equipamentos", nil)
	if err != nil {
		return nil, err
	}
	items, dropped, err := api.DecodeEquipment(body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	for _, d := range dropped {
		c.log.Warn().Int("index", d.Index).Str("reason", d.Reason).Msg("dropping malformed equipment record")
	}
	return items, nil
}

// AdjustEquipment asks the server to add or remove one unit of item id.
// The response body is ignored; callers refetch to see the new quantity.
func (c *Client) AdjustEquipment(ctx context.Context, id api.ID, adj api.Adjustment) error {
	if id == "" {
		return &ValidationError{Fields: []string{"id"}}
	}
	if adj != api.Add && adj != api.Remove {
		return &ValidationError{Fields: []string{"adjustment"}}
	}

	path := fmt.Sprintf("/equipamentos/%s/%s", url.PathEscape(string(id)), adj)
	_, err := c.do(ctx, string(adj)+" equipment", http.MethodPost, path, nil)
	return err
}
