package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erwd/pkg/core/engine"
	"github.com/matzehuels/erwd/pkg/core/widget"
	"github.com/matzehuels/erwd/pkg/errors"
	erwdio "github.com/matzehuels/erwd/pkg/io"
	"github.com/matzehuels/erwd/pkg/pipeline"
)

// exploreCommand creates the explore command for the interactive viewer.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "explore [widgets.json]",
		Short: "Step containers through widths interactively",
		Long: `Step containers through widths interactively.

The explorer shows the layout a container uses at the current width, the
grid cell and width of every child, and a sketch of the grid. Arrow keys
change the width, tab switches container.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdoutIsTerminal() {
				return errors.New(errors.ErrCodeUnsupported, "explore needs an interactive terminal, use %s layout instead", appName)
			}

			file := widgetsFile(args)
			cfg, err := c.loadConfig(file)
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, c.Logger)
			opts.File = file
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), cfg, true, nil)
			if err != nil {
				return err
			}
			defer runner.Close()

			p, err := c.computeProject(cmd.Context(), runner, opts)
			if err != nil {
				return err
			}
			containers, err := containersOf(p)
			if err != nil {
				return err
			}

			m := NewExploreModel(containers, opts.MaxWidth)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil && cmd.Context().Err() == nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "explorer")
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// computeProject loads the project and lays out every page.
func (c *CLI) computeProject(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*erwdio.Project, error) {
	p, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := runner.Compute(ctx, p, opts); err != nil {
		return nil, err
	}
	return p, nil
}

// containersOf lists the containers of every page, children before their
// parents, each once.
func containersOf(p *erwdio.Project) ([]*widget.Widget, error) {
	seen := make(map[string]bool)
	var out []*widget.Widget
	for _, page := range p.Pages() {
		order, err := engine.PostOrder(page)
		if err != nil {
			return nil, err
		}
		for _, w := range order {
			if w.IsLeaf() || seen[w.Name()] {
				continue
			}
			seen[w.Name()] = true
			out = append(out, w)
		}
	}
	return out, nil
}
