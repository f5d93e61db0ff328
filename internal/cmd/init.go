package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jes-seguranca/jesctl/internal/auth"
	"github.com/jes-seguranca/jesctl/internal/config"
)

const FlagReinit = "reinit"

func (a *app) initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the jesctl config file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reinit, _ := cmd.Flags().GetBool(FlagReinit)
			return a.runInit(reinit)
		},
	}
	cmd.Flags().BoolP(FlagReinit, "r", false, "overwrite an existing config file")
	return cmd
}

// runInit asks for every config field, prefilled with the loaded values.
func (a *app) runInit(reinit bool) error {
	path := a.cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !reinit {
		fmt.Fprintf(a.stdout, "%s already exists. Run with --reinit to overwrite.\n", path)
		return nil
	}

	fmt.Fprintln(a.stdout, "Welcome to jesctl init. Let's point the client at the roster API.")
	fmt.Fprintln(a.stdout)

	cfg := *a.cfg
	prune := cfg.Prune()

	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("API URL").
			Description("e.g. " + config.DefaultAPIURL).
			Value(&cfg.APIURL).
			Validate(func(s string) error {
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must start with http:// or https://")
				}
				return nil
			}),
		huh.NewInput().
			Title("API token").
			Description("Leave empty if the API is public. JESCTL_TOKEN overrides it.").
			EchoMode(huh.EchoModePassword).
			Value(&cfg.Token),
		huh.NewSelect[string]().
			Title("Log level").
			Options(huh.NewOptions("warn", "info", "debug", "trace", "error", "off")...).
			Value(&cfg.LogLevel),
		huh.NewConfirm().
			Title("Drop selected guards that disappear after a refresh?").
			Value(&prune),
	)).Run(); err != nil {
		return err
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.PruneSelection = &prune
	if err := config.Save(path, &cfg); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(a.stdout, "Created %s\n", path)
	if cfg.Token != "" {
		fmt.Fprintf(a.stdout, "Token %s stored (mode 0600). Prefer JESCTL_TOKEN on shared machines.\n", auth.Mask(cfg.Token))
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Done! Next steps:")
	fmt.Fprintln(a.stdout, "  1. Run: jesctl dashboard")
	fmt.Fprintln(a.stdout, "  2. Run: jesctl roster")
	return nil
}
