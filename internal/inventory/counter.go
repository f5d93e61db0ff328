// Package inventory tracks uniform and equipment counts held by the remote
// service. Quantities are never computed locally: every mutation is followed
// by a refetch of the whole list.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jes-seguranca/jesctl/internal/api"
)

// Client is the part of the remote API the counter needs.
type Client interface {
	ListEquipment(ctx context.Context) ([]api.Equipment, error)
	AdjustEquipment(ctx context.Context, id api.ID, adj api.Adjustment) error
}

// Counter holds the last fetched equipment list.
type Counter struct {
	client Client
	log    zerolog.Logger
	items  []api.Equipment
	loaded bool
}

// NewCounter returns an empty counter backed by client.
func NewCounter(client Client, log zerolog.Logger) *Counter {
	return &Counter{client: client, log: log}
}

// Items returns the last fetched list. It is stale between a mutation and
// the refetch that follows it.
func (c *Counter) Items() []api.Equipment { return c.items }

// Loaded reports whether at least one fetch succeeded.
func (c *Counter) Loaded() bool { return c.loaded }

// Find returns the item with the given id from the last fetched list.
func (c *Counter) Find(id api.ID) (api.Equipment, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return api.Equipment{}, false
}

// Load replaces the list with a fresh fetch. On failure the previous list
// is kept.
func (c *Counter) Load(ctx context.Context) error {
	items, err := c.client.ListEquipment(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("loading equipment failed")
		return fmt.Errorf("loading equipment: %w", err)
	}
	c.items = items
	c.loaded = true
	return nil
}

// Increment adds one unit of id on the server, then refetches.
func (c *Counter) Increment(ctx context.Context, id api.ID) error {
	return c.adjust(ctx, id, api.Add)
}

// Decrement removes one unit of id on the server, then refetches.
func (c *Counter) Decrement(ctx context.Context, id api.ID) error {
	return c.adjust(ctx, id, api.Remove)
}

// adjust refetches whether or not the mutation succeeded, so the list shows
// whatever the server ended up with. Both errors are reported.
func (c *Counter) adjust(ctx context.Context, id api.ID, adj api.Adjustment) error {
	var mutErr error
	if err := c.client.AdjustEquipment(ctx, id, adj); err != nil {
		c.log.Warn().Err(err).Str("id", string(id)).Str("op", string(adj)).Msg("equipment mutation failed")
		mutErr = fmt.Errorf("%s equipment %s: %w", adj, id, err)
	}
	return errors.Join(mutErr, c.Load(ctx))
}
