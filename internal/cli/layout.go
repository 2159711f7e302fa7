package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erwd/pkg/errors"
	"github.com/matzehuels/erwd/pkg/pipeline"
)

// layoutCommand creates the layout command for inspecting breakpoints.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags    layoutFlags
		asJSON   bool
		pageName string
	)

	cmd := &cobra.Command{
		Use:   "layout [widgets.json]",
		Short: "Print the breakpoints of every container",
		Long: `Print the breakpoints of every container.

For each container, children first, the layout command prints the widths the
container accepts and a table of the thresholds at which its arrangement or
height changes. Use --json for machine-readable output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := widgetsFile(args)
			cfg, err := c.loadConfig(file)
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, c.Logger)
			opts.File = file

			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache, nil)
			if err != nil {
				return err
			}
			defer runner.Close()

			summary, err := c.summarize(cmd.Context(), runner, opts)
			if err != nil {
				return err
			}
			if pageName != "" {
				summary.Pages = slices.DeleteFunc(summary.Pages, func(p pipeline.PageSummary) bool {
					return p.Name != pageName
				})
				if len(summary.Pages) == 0 {
					return errors.New(errors.ErrCodeNotFound, "no page named %q", pageName)
				}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			writeSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().StringVar(&pageName, "page", "", "only print this page")

	return cmd
}

func (c *CLI) summarize(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
	p, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	spinner := newSpinnerWithContext(ctx, "Computing breakpoints...")
	spinner.Start()
	summary, hit, err := runner.Summarize(ctx, p, opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("computed summary", "pages", len(summary.Pages), "cached", hit)
	return summary, nil
}

// writeSummary renders one table per container.
func writeSummary(w io.Writer, s *pipeline.Summary) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	for _, page := range s.Pages {
		fmt.Fprintln(w, StyleTitle.Render(page.Name))
		for _, cs := range page.Containers {
			fmt.Fprintf(w, "%s %s\n", StyleHighlight.Render(cs.Name), StyleDim.Render("width "+cs.Width))
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("From", "To", "Height", "Layout").
				Rows(summaryRows(cs)...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col < 3 {
						return StyleNumber
					}
					return StyleValue
				})
			fmt.Fprintln(w, t.Render())
		}
		fmt.Fprintln(w)
	}
}

// summaryRows merges the layout and height thresholds of a container into
// one row per interval on which both stay constant.
func summaryRows(cs pipeline.ContainerSummary) [][]string {
	var cuts []int
	for _, l := range cs.Layouts {
		cuts = append(cuts, l.From)
	}
	for _, h := range cs.Heights {
		cuts = append(cuts, h.From)
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	rows := make([][]string, 0, len(cuts))
	for i, from := range cuts {
		to := "∞"
		if i+1 < len(cuts) {
			to = strconv.Itoa(cuts[i+1])
		} else if end := lastEnd(cs); end != nil {
			to = strconv.Itoa(*end)
		}
		height := "-"
		for _, h := range cs.Heights {
			if contains(h.From, h.To, from) {
				height = strconv.Itoa(h.Height)
			}
		}
		graph := "-"
		for _, l := range cs.Layouts {
			if contains(l.From, l.To, from) {
				graph = l.Graph
			}
		}
		rows = append(rows, []string{strconv.Itoa(from), to, height, graph})
	}
	return rows
}

func contains(from int, to *int, x int) bool {
	return x >= from && (to == nil || x < *to)
}

// lastEnd is the end of the final interval, nil when it is unbounded.
func lastEnd(cs pipeline.ContainerSummary) *int {
	if n := len(cs.Layouts); n > 0 {
		return cs.Layouts[n-1].To
	}
	return nil
}

