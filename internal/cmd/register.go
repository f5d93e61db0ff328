package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/format"
	"github.com/jes-seguranca/jesctl/internal/forms"
	"github.com/jes-seguranca/jesctl/internal/remote"
)

const (
	FlagNome = "nome"
	FlagCPF  = "cpf"
)

func (a *app) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register new guards",
		Long: `Registers a guard from --nome and --cpf, or opens a form that keeps
asking for guards until you decline to continue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := forms.NewRegistration(a.client, a.log)
			if cmd.Flags().Changed(FlagNome) || cmd.Flags().Changed(FlagCPF) {
				form.Nome, _ = cmd.Flags().GetString(FlagNome)
				form.CPF, _ = cmd.Flags().GetString(FlagCPF)
				if err := form.Submit(cmd.Context()); err != nil {
					return err
				}
				last := form.Submitted[len(form.Submitted)-1]
				fmt.Fprintf(a.stdout, "registered %s (%s)\n", format.Name(last.Nome), format.CPF(last.CPF))
				return nil
			}
			return a.registerLoop(cmd, form)
		},
	}
	cmd.Flags().String(FlagNome, "", "full name")
	cmd.Flags().String(FlagCPF, "", "cpf, with or without punctuation")
	return cmd
}

func (a *app) registerLoop(cmd *cobra.Command, form *forms.Registration) error {
	for {
		if err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Nome").
				Value(&form.Nome).
				Validate(required("nome")),
			huh.NewInput().
				Title("CPF").
				Description("11 digits, punctuation optional").
				Value(&form.CPF).
				Validate(required("cpf")),
		)).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		if err := form.Submit(cmd.Context()); err != nil {
			// Fields are kept so the next round starts prefilled.
			fmt.Fprintf(a.stderr, "error: %v\n", err)
		} else {
			fmt.Fprintln(a.stdout, "Registered this session:")
			for _, e := range form.Submitted {
				fmt.Fprintf(a.stdout, "  %-40s %s\n", format.Name(e.Nome), format.CPF(e.CPF))
			}
		}

		again := true
		if err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Register another guard?").
				Value(&again),
		)).Run(); err != nil || !again {
			return nil
		}
	}
}

func (a *app) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a guard's name or cpf",
		Long: `Sends --nome and/or --cpf for the guard with the given id. Without
flags, opens a form prefilled from the current roster.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := api.ID(strings.TrimSpace(args[0]))

			var form *forms.Edit
			if cmd.Flags().Changed(FlagNome) || cmd.Flags().Changed(FlagCPF) {
				form = forms.NewEdit(a.client, api.Employee{ID: id}, a.log)
				form.Nome, _ = cmd.Flags().GetString(FlagNome)
				form.CPF, _ = cmd.Flags().GetString(FlagCPF)
			} else {
				emp, err := a.findEmployee(cmd, id)
				if err != nil {
					return err
				}
				form = forms.NewEdit(a.client, emp, a.log)
				if err := huh.NewForm(huh.NewGroup(
					huh.NewInput().Title("Nome").Value(&form.Nome),
					huh.NewInput().Title("CPF").Value(&form.CPF),
				)).Run(); err != nil {
					return err
				}
			}

			if err := form.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "updated %s\n", id)
			return nil
		},
	}
	cmd.Flags().String(FlagNome, "", "new name")
	cmd.Flags().String(FlagCPF, "", "new cpf")
	return cmd
}

func (a *app) findEmployee(cmd *cobra.Command, id api.ID) (api.Employee, error) {
	vm := a.viewModel()
	if err := vm.Reload(cmd.Context()); err != nil {
		return api.Employee{}, err
	}
	for _, e := range vm.Snapshot() {
		if e.ID == id {
			return e, nil
		}
	}
	return api.Employee{}, fmt.Errorf("no guard with id %s", id)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &remote.ValidationError{Fields: []string{field}}
		}
		return nil
	}
}
