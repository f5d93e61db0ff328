package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/delta"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize the roster and the equipment stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				emps  []api.Employee
				items []api.Equipment
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				emps, err = a.client.FetchAll(ctx)
				return err
			})
			g.Go(func() (err error) {
				items, err = a.client.ListEquipment(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			units := 0
			for _, it := range items {
				units += it.Quantidade
			}

			fmt.Fprintln(a.stdout, headerStyle.Render("JES Segurança"))
			fmt.Fprintf(a.stdout, "Vigilantes:   %d\n", len(emps))
			fmt.Fprintf(a.stdout, "Equipamentos: %d items, %d units\n", len(items), units)
			fmt.Fprintf(a.stdout, "Roster:       %s\n", delta.Fingerprint(emps))
			fmt.Fprintf(a.stdout, "Latency:      %s avg over %d requests\n", a.client.Latency(), a.client.Requests())
			return nil
		},
	}
}
