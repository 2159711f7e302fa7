// Package dot draws layout graphs as Graphviz diagrams.
//
// Children that sit side by side are joined by solid edges and placed on
// the same rank; children stacked vertically are joined by dashed edges.
// The diagram reads like a sketch of the grid the layout produces.
//
//	src, err := dot.ToDOT(g, dot.Options{Width: 800})
//	svg, err := dot.RenderSVG(ctx, src)
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/erwd/pkg/core/dag/transform"
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/errors"
)

// Options configures diagram generation.
type Options struct {
	// Width, when positive, labels every child with its width range and
	// the width it is assigned in a container this wide.
	Width int
}

// ToDOT converts a layout graph to Graphviz DOT source. Edges implied by
// others are left out. With a positive width, allocator failures are
// returned.
func ToDOT(g *layout.Graph, opts Options) (string, error) {
	var widths []int
	if opts.Width > 0 {
		var err error
		if widths, err = g.Widths(opts.Width); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for id := range g.Len() {
		c := g.Child(id)
		label := c.Name()
		if widths != nil {
			label += fmt.Sprintf("\n%v\n%dpx", c.WidthRange(), widths[id])
		}
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", id, label)
	}

	right, _ := transform.TransitiveReduction(g.Right())
	below, _ := transform.TransitiveReduction(g.Below())

	buf.WriteString("\n")
	for _, e := range right.Edges() {
		fmt.Fprintf(&buf, "  n%d -> n%d [constraint=false];\n", e.From, e.To)
		fmt.Fprintf(&buf, "  { rank=same; n%d; n%d; }\n", e.From, e.To)
	}
	for _, e := range below.Edges() {
		fmt.Fprintf(&buf, "  n%d -> n%d [style=dashed];\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root element so the diagram scales from
// its origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Title returns a one-line caption for a diagram of g.
func Title(container string, g *layout.Graph, width int) string {
	return fmt.Sprintf("%s at %dpx: %d children, %d edges", container, width, g.Len(), g.EdgeCount())
}
