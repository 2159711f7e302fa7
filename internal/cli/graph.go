package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/errors"
	"github.com/matzehuels/erwd/pkg/pipeline"
	"github.com/matzehuels/erwd/pkg/render/dot"
)

// graphCommand creates the graph command for drawing layout graphs.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags     layoutFlags
		container string
		width     int
		output    string
	)

	cmd := &cobra.Command{
		Use:   "graph [widgets.json]",
		Short: "Draw a container's layout graph at one width",
		Long: `Draw a container's layout graph at one width.

Children side by side are joined by solid edges, children stacked below
others by dashed ones. Every child is labelled with its width range and the
width it receives. The output is DOT source, or SVG when the output file ends
in .svg.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			name, g, err := c.layoutAt(cmd.Context(), runner, opts, container, width)
			if err != nil {
				return err
			}
			return c.writeGraph(cmd.Context(), cmd.OutOrStdout(), name, g, width, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&container, "container", "c", "", "container to draw (default: the first page)")
	cmd.Flags().IntVarP(&width, "width", "w", 1024, "container width in pixels")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .dot or .svg (default: DOT on stdout)")

	return cmd
}

// layoutAt computes the project and returns the layout graph the named
// container uses at width.
func (c *CLI) layoutAt(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, name string, width int) (string, *layout.Graph, error) {
	p, err := c.computeProject(ctx, runner, opts)
	if err != nil {
		return "", nil, err
	}
	w, err := findContainer(p, name)
	if err != nil {
		return "", nil, err
	}
	resp, _ := w.Responsive()
	g, err := resp.LayoutAt(width)
	if err != nil {
		return "", nil, err
	}
	return w.Name(), g, nil
}

func (c *CLI) writeGraph(ctx context.Context, w io.Writer, name string, g *layout.Graph, width int, output string) error {
	src, err := dot.ToDOT(g, dot.Options{Width: width})
	if err != nil {
		return err
	}
	if output == "" {
		_, err := io.WriteString(w, src)
		return err
	}

	data := []byte(src)
	if strings.EqualFold(filepath.Ext(output), ".svg") {
		svg, err := dot.RenderSVG(ctx, src)
		if err != nil {
			return err
		}
		data = svg
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
	}
	printSuccess(w, "%s", dot.Title(name, g, width))
	printKeyValue(w, "Layout", g.String())
	printFile(w, output)
	return nil
}
