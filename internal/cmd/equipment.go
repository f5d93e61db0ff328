package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/inventory"
)

func (a *app) equipmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "equipment",
		Aliases: []string{"equipamentos"},
		Short:   "Show and adjust uniform and equipment counts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every item with its quantity",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c := inventory.NewCounter(a.client, a.log)
				if err := c.Load(cmd.Context()); err != nil {
					return err
				}
				a.printEquipment(c.Items())
				return nil
			},
		},
		a.adjustCmd("add", "Add one unit of an item", (*inventory.Counter).Increment),
		a.adjustCmd("remove", "Remove one unit of an item", (*inventory.Counter).Decrement),
	)
	return cmd
}

func (a *app) adjustCmd(use, short string, op func(*inventory.Counter, context.Context, api.ID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := api.ID(strings.TrimSpace(args[0]))
			c := inventory.NewCounter(a.client, a.log)
			err := op(c, cmd.Context(), id)
			// The refetch may have succeeded even if the mutation did not.
			if it, ok := c.Find(id); ok {
				fmt.Fprintf(a.stdout, "%s: %d\n", it.Nome, it.Quantidade)
			}
			return err
		},
	}
}

func (a *app) printEquipment(items []api.Equipment) {
	if len(items) == 0 {
		fmt.Fprintln(a.stdout, "no equipment registered")
		return
	}
	fmt.Fprintf(a.stdout, "%-6s %-24s %-8s %s\n", "ID", "NOME", "TIPO", "QTD")
	for _, it := range items {
		fmt.Fprintf(a.stdout, "%-6s %-24s %-8s %d\n", it.ID, it.Nome, inventory.CategoryOf(it.Nome), it.Quantidade)
	}
}
