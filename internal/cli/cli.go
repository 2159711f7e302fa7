// Package cli implements the erwd command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erwd/pkg/buildinfo"
	"github.com/matzehuels/erwd/pkg/cache"
	"github.com/matzehuels/erwd/pkg/config"
	"github.com/matzehuels/erwd/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "erwd"

	// defaultWidgetsFile is read when no widgets file is given.
	defaultWidgetsFile = "widgets.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty means erwd.toml next to the
	// widgets file.
	ConfigPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "erwd lays out widget trees as responsive HTML and CSS",
		Long: `erwd computes every layout a widget tree takes across viewport widths and
emits plain HTML with CSS grid media queries, so pages reflow without scripts.`,
		Version:      buildinfo.Resolve().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			bindHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: erwd.toml next to the widgets file)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// widgetsFile returns the widgets file named by args, or the default.
func widgetsFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultWidgetsFile
}

// loadConfig reads the configuration for the project holding file.
func (c *CLI) loadConfig(file string) (*config.Config, error) {
	cfg, err := config.Find(filepath.Dir(file), c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	opts := cfg.CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNone
	}
	store, err := cache.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// cacheDir returns the file cache directory of cfg.
func cacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the layout options every command accepts. Flags the user
// sets override the config file.
type layoutFlags struct {
	maxWidth       int
	widthAlgorithm string
	arrangement    string
	workers        int
	noCache        bool
	refresh        bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxWidth, "max-width", pipeline.DefaultMaxWidth, "widest viewport width sampled")
	cmd.Flags().StringVar(&f.widthAlgorithm, "width-algorithm", pipeline.DefaultWidthAlgorithm, "width allocation: left-first, flex-dag")
	cmd.Flags().StringVar(&f.arrangement, "arrangement", pipeline.DefaultArrangement, "arrangement: min-height, left-justified")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "sampling goroutines (0: one per CPU)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// options merges cfg with the flags set on cmd.
func (f *layoutFlags) options(cmd *cobra.Command, cfg *config.Config, logger *log.Logger) pipeline.Options {
	opts := *cfg.PipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("max-width") {
		opts.MaxWidth = f.maxWidth
	}
	if flags.Changed("width-algorithm") {
		opts.WidthAlgorithm = f.widthAlgorithm
	}
	if flags.Changed("arrangement") {
		opts.Arrangement = f.arrangement
	}
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	opts.Refresh = f.refresh
	opts.Logger = logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHTML, pipeline.FormatCSS}
	}
	return strings.Split(s, ",")
}

// stdoutIsTerminal reports whether stdout is an interactive terminal.
func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
