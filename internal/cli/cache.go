package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erwd/pkg/cache"
	"github.com/matzehuels/erwd/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [widgets.json]",
		Short: "Remove every cached layout and artifact",
		Long: `Remove every cached layout and artifact.

Only the file cache can be cleared. Redis and MongoDB entries expire on
their own.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(widgetsFile(args))
			if err != nil {
				return err
			}

			switch cfg.Cache.Backend {
			case "", cache.BackendFile:
			case cache.BackendNone:
				printInfo(cmd.OutOrStdout(), "Caching is disabled")
				return nil
			default:
				return errors.New(errors.ErrCodeUnsupported, "cannot clear the %s cache, entries expire on their own", cfg.Cache.Backend)
			}

			dir, err := cacheDir(cfg)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "get cache dir")
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "open cache")
			}
			if err := fc.Clear(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}

			printSuccess(cmd.OutOrStdout(), "Cleared cache")
			printDetail(cmd.OutOrStdout(), "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path [widgets.json]",
		Short: "Print the file cache directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(widgetsFile(args))
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "get cache dir")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
