package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erwd/pkg/core/widget"
	"github.com/matzehuels/erwd/pkg/errors"
	erwdio "github.com/matzehuels/erwd/pkg/io"
	"github.com/matzehuels/erwd/pkg/pipeline"
)

// buildCommand creates the build command for writing pages.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags      layoutFlags
		output     string
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "build [widgets.json]",
		Short: "Write the HTML and CSS of every page",
		Long: `Write the HTML and CSS of every page.

The build command reads the widgets file (widgets.json by default) and the
src directory beside it, lays out every page across all viewport widths and
writes <page>.html and <page>.css into the build directory. The build
directory is emptied first.

Results are cached, so rebuilding an unchanged project is instant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := widgetsFile(args)
			cfg, err := c.loadConfig(file)
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, c.Logger)
			opts.File = file
			opts.Formats = parseFormats(formatsStr)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache, nil)
			if err != nil {
				return err
			}
			defer runner.Close()

			if output == "" {
				output = filepath.Join(filepath.Dir(file), erwdio.BuildDir)
			}
			return c.runBuild(cmd.Context(), cmd.OutOrStdout(), runner, opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: build beside the widgets file)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html, css (comma-separated, default both)")

	return cmd
}

// runBuild executes the pipeline and writes every artifact into dir.
func (c *CLI) runBuild(ctx context.Context, w io.Writer, runner *pipeline.Runner, opts pipeline.Options, dir string) error {
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Laying out pages...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError(w, "Build failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := erwdio.PrepareBuildDir(dir); err != nil {
		return err
	}
	names := make([]string, 0, len(result.Artifacts))
	for name := range result.Artifacts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := erwdio.WriteArtifact(dir, name, result.Artifacts[name]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Wrote %d artifacts", len(names)))

	printSuccess(w, "Build complete")
	for _, name := range names {
		printFile(w, filepath.Join(dir, name))
	}
	printStats(w, result.Stats, result.CacheInfo.EmitHit)
	printNextStep(w, "Inspect breakpoints", appName+" layout "+opts.File)
	return nil
}

// findContainer returns the container called name, or the first page when
// name is empty.
func findContainer(p *erwdio.Project, name string) (*widget.Widget, error) {
	if name == "" {
		pages := p.Pages()
		if len(pages) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "project %s has no pages", p.App)
		}
		name = pages[0].Name()
	}
	w, ok := p.Widgets[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no widget named %q", name)
	}
	if w.IsLeaf() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "widget %q is a leaf", name)
	}
	return w, nil
}
