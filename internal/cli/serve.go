package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/erwd/internal/server"
	"github.com/matzehuels/erwd/pkg/cache"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags layoutFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

POST a project (widgets, leaf markup, CSS) to /v1/layout for its breakpoint
summary or to /v1/build for its HTML and CSS. The config file is read from
the current directory unless --config is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(defaultWidgetsFile)
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, c.Logger)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}

			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache, cache.NewScopedKeyer(nil, "serve:"))
			if err != nil {
				return err
			}
			defer runner.Close()

			return server.New(runner, opts, c.Logger).ListenAndServe(cmd.Context(), cfg.Serve.Addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
