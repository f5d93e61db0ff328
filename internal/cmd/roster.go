package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jes-seguranca/jesctl/internal/format"
	"github.com/jes-seguranca/jesctl/internal/roster"
	"github.com/jes-seguranca/jesctl/internal/tui"
)

const (
	FlagFilter = "filter"
	FlagAll    = "all"
	FlagStdout = "stdout"
)

func (a *app) rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Browse, filter, select and copy guards interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), a.viewModel())
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the roster sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString(FlagFilter)

			vm := a.viewModel()
			if err := vm.Reload(cmd.Context()); err != nil {
				return err
			}
			vm.SetFilter(filter)
			for _, e := range vm.Visible() {
				fmt.Fprintf(a.stdout, "%-40s %s\n", format.Name(e.Nome), format.CPF(e.CPF))
			}
			return nil
		},
	}
	cmd.Flags().String(FlagFilter, "", "only show guards whose name or cpf contains this text")
	return cmd
}

func (a *app) copyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy [CPF...]",
		Short: "Copy NOME/CPF blocks for the selected guards to the clipboard",
		Long: `Selects guards and copies one "NOME: ...\nCPF: ..." block per guard.

With CPF arguments only those guards are selected. With --all every guard is
selected. Otherwise the guards matching --filter are selected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString(FlagFilter)
			all, _ := cmd.Flags().GetBool(FlagAll)
			toStdout, _ := cmd.Flags().GetBool(FlagStdout)

			if !all && filter == "" && len(args) == 0 {
				return fmt.Errorf("nothing to copy: pass CPFs, --%s or --%s", FlagAll, FlagFilter)
			}

			vm := a.viewModel()
			if err := vm.Reload(cmd.Context()); err != nil {
				return err
			}
			if err := selectFor(vm, all, filter, args); err != nil {
				return err
			}

			if toStdout {
				text := vm.ExportText()
				if text == "" {
					return roster.ErrNothingSelected
				}
				fmt.Fprint(a.stdout, text)
				return nil
			}
			n, err := vm.CopySelection()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "copied %d record(s) to the clipboard\n", n)
			return nil
		},
	}
	cmd.Flags().String(FlagFilter, "", "select guards whose name or cpf contains this text")
	cmd.Flags().Bool(FlagAll, false, "select every guard")
	cmd.Flags().Bool(FlagStdout, false, "print instead of copying")
	return cmd
}

// selectFor applies the copy command's selection rules to a loaded roster.
func selectFor(vm *roster.ViewModel, all bool, filter string, cpfs []string) error {
	switch {
	case len(cpfs) > 0:
		for _, arg := range cpfs {
			cpf, ok := lookupCPF(vm, arg)
			if !ok {
				return fmt.Errorf("cpf %s is not in the roster", arg)
			}
			if !vm.IsSelected(cpf) {
				vm.ToggleSelection(cpf)
			}
		}
	case all:
		if !vm.AllSelected() {
			vm.SelectAllOrClear()
		}
	default:
		vm.SetFilter(filter)
		for _, e := range vm.Visible() {
			if !vm.IsSelected(e.CPF) {
				vm.ToggleSelection(e.CPF)
			}
		}
	}
	return nil
}

// lookupCPF finds the roster cpf matching arg, ignoring punctuation.
func lookupCPF(vm *roster.ViewModel, arg string) (string, bool) {
	want := format.Digits(arg)
	if want == "" {
		return "", false
	}
	for _, e := range vm.Snapshot() {
		if format.Digits(e.CPF) == want {
			return e.CPF, true
		}
	}
	return "", false
}
