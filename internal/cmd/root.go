// Package cmd wires the jesctl command tree.
package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jes-seguranca/jesctl/internal/clipboard"
	"github.com/jes-seguranca/jesctl/internal/config"
	"github.com/jes-seguranca/jesctl/internal/logging"
	"github.com/jes-seguranca/jesctl/internal/remote"
	"github.com/jes-seguranca/jesctl/internal/roster"
)

const (
	FlagConfig   = "config"
	FlagAPIURL   = "api-url"
	FlagLogLevel = "log-level"
)

// app is the state shared by every subcommand once the config is loaded.
type app struct {
	stdout io.Writer
	stderr io.Writer
	clip   roster.Clipboard

	cfgPath string
	cfg     *config.ClientConfig
	log     zerolog.Logger
	client  *remote.Client
}

// Option configures the command tree.
type Option func(*app)

// WithClipboard replaces the system clipboard.
func WithClipboard(c roster.Clipboard) Option {
	return func(a *app) { a.clip = c }
}

// NewRootCmd returns the jesctl command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer, opts ...Option) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, clip: clipboard.System{}, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "jesctl",
		Short:         "Roster and equipment client for JES Segurança",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().String(FlagConfig, "", "config file (default ~/.config/jesctl/config.yaml)")
	root.PersistentFlags().String(FlagAPIURL, "", "API base URL, overrides config and environment")
	root.PersistentFlags().String(FlagLogLevel, "", "trace|debug|info|warn|error|off")

	root.AddCommand(
		a.rosterCmd(),
		a.listCmd(),
		a.copyCmd(),
		a.registerCmd(),
		a.editCmd(),
		a.equipmentCmd(),
		a.dashboardCmd(),
		a.initCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, err := flags.GetString(FlagConfig)
	if err != nil {
		return fmt.Errorf("%s flag: %w", FlagConfig, err)
	}
	a.cfgPath = path

	// init must run on a broken config, since it is how the config gets fixed.
	repair := cmd.Name() == "init"
	load := config.Load
	if repair {
		load = config.Read
	}
	cfg, err := load(path)
	if err != nil {
		return err
	}
	if u, _ := flags.GetString(FlagAPIURL); u != "" {
		cfg.APIURL = u
		if err := cfg.Validate(); err != nil && !repair {
			return fmt.Errorf("--%s: %w", FlagAPIURL, err)
		}
	}
	if lvl, _ := flags.GetString(FlagLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	a.cfg = cfg

	a.log = logging.New(a.stderr, cfg.LogLevel)
	a.client = remote.New(cfg.APIURL, remote.WithToken(cfg.Token), remote.WithLogger(a.log))
	a.log.Debug().Str("api_url", cfg.APIURL).Str("command", cmd.Name()).Msg("config loaded")
	return nil
}

func (a *app) viewModel() *roster.ViewModel {
	return roster.New(a.client,
		roster.WithClipboard(a.clip),
		roster.WithLogger(a.log),
		roster.WithPruneSelection(a.cfg.Prune()),
	)
}
