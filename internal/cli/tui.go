package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/erwd/pkg/core/grid"
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/core/widget"
)

// Explorer styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Width steps of the explorer keys.
const (
	coarseStep = 10
	fineStep   = 1
)

// sketch cell bounds, in terminal columns.
const (
	minTrackCols = 6
	maxTrackCols = 18
)

// =============================================================================
// ExploreModel - Interactive breakpoint explorer
// =============================================================================

// ExploreModel is the bubbletea model for stepping a container through
// widths and watching its layout change.
type ExploreModel struct {
	Containers []*widget.Widget
	Cursor     int
	Width      int
	MaxWidth   int
	TermWidth  int
}

// NewExploreModel creates an explorer over containers, which must all be
// finalized. The initial width is the widest one the first container
// accepts up to maxWidth.
func NewExploreModel(containers []*widget.Widget, maxWidth int) ExploreModel {
	m := ExploreModel{Containers: containers, MaxWidth: maxWidth, TermWidth: 80}
	m.Width = maxWidth
	if resp, ok := m.current(); ok && !resp.Width.IsEmpty() {
		m.Width = widest(resp.Width, maxWidth)
	}
	m.Width = m.clamp(m.Width)
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Width = m.clamp(m.Width - coarseStep)
		case "right", "l":
			m.Width = m.clamp(m.Width + coarseStep)
		case "H", "shift+left":
			m.Width = m.clamp(m.Width - fineStep)
		case "L", "shift+right":
			m.Width = m.clamp(m.Width + fineStep)
		case "tab", "down", "j":
			if len(m.Containers) > 0 {
				m.Cursor = (m.Cursor + 1) % len(m.Containers)
				m.Width = m.clamp(m.Width)
			}
		case "shift+tab", "up", "k":
			if len(m.Containers) > 0 {
				m.Cursor = (m.Cursor + len(m.Containers) - 1) % len(m.Containers)
				m.Width = m.clamp(m.Width)
			}
		}
	case tea.WindowSizeMsg:
		m.TermWidth = max(msg.Width, 40)
	}
	return m, nil
}

// clamp keeps w between the current container's narrowest width and the
// widest sampled viewport.
func (m ExploreModel) clamp(w int) int {
	lo := 0
	if resp, ok := m.current(); ok && !resp.Width.IsEmpty() {
		lo = resp.Width.Lo()
	}
	return min(max(w, lo), max(m.MaxWidth, lo))
}

func (m ExploreModel) current() (*layout.Responsive, bool) {
	if m.Cursor >= len(m.Containers) {
		return nil, false
	}
	return m.Containers[m.Cursor].Responsive()
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore Breakpoints"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ ±10px  H/L ±1px  tab next container  q quit"))
	b.WriteString("\n\n")

	if len(m.Containers) == 0 {
		b.WriteString(listDimStyle.Render("no containers"))
		return b.String()
	}

	for i, w := range m.Containers {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + w.Name()))
		} else {
			b.WriteString(listNormalStyle.Render("  " + w.Name()))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	w := m.Containers[m.Cursor]
	resp, ok := w.Responsive()
	if !ok {
		b.WriteString(styleIconError.Render(iconError + " " + w.Name() + " has no layouts"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s at %s  %s\n",
		StyleValue.Render(w.Name()),
		StyleNumber.Render(strconv.Itoa(m.Width)+"px"),
		listDimStyle.Render("accepts "+resp.Width.String())))

	g, err := resp.LayoutAt(m.Width)
	if err != nil {
		b.WriteString(styleIconError.Render(iconError + " " + err.Error()))
		return b.String()
	}
	cells, err := g.Cells(m.Width)
	if err != nil {
		b.WriteString(styleIconError.Render(iconError + " " + err.Error()))
		return b.String()
	}
	widths, _ := g.Widths(m.Width)
	height, _ := resp.HeightAt(m.Width)

	b.WriteString(listDimStyle.Render(fmt.Sprintf("height %dpx  %s", height, g.String())))
	b.WriteString("\n\n")
	b.WriteString(childTable(g, cells, widths))
	b.WriteString("\n\n")
	b.WriteString(sketch(g, cells, m.TermWidth))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Containers))))

	return b.String()
}

// childTable lists where every child sits and how wide it is.
func childTable(g *layout.Graph, cells []grid.Placement, widths []int) string {
	rows := make([][]string, g.Len())
	for i := range rows {
		c := g.Child(i)
		px := "-"
		if i < len(widths) {
			px = strconv.Itoa(widths[i])
		}
		rows[i] = []string{c.Name(), span(cells[i].Column), span(cells[i].Row), px, c.WidthRange().String()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Child", "Column", "Row", "Width", "Accepts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// span formats a grid cell as CSS grid lines.
func span(c grid.Cell) string {
	return fmt.Sprintf("%d / %d", c.Index+1, c.End()+1)
}

// sketch draws the grid one text line per row track, each child a
// bracketed box across the column tracks it spans.
func sketch(g *layout.Graph, cells []grid.Placement, termWidth int) string {
	cols, rows := 0, 0
	for _, c := range cells {
		cols = max(cols, c.Column.End())
		rows = max(rows, c.Row.End())
	}
	if cols == 0 {
		return ""
	}

	owner := make([][]int, rows)
	for r := range owner {
		owner[r] = make([]int, cols)
		for c := range owner[r] {
			owner[r][c] = -1
		}
	}
	for id, p := range cells {
		for r := p.Row.Index; r < p.Row.End(); r++ {
			for c := p.Column.Index; c < p.Column.End(); c++ {
				owner[r][c] = id
			}
		}
	}

	track := min(max((termWidth-4)/cols, minTrackCols), maxTrackCols)
	var b strings.Builder
	for r := range owner {
		b.WriteString("  ")
		for c := 0; c < cols; {
			id := owner[r][c]
			end := c + 1
			for end < cols && owner[r][end] == id {
				end++
			}
			b.WriteString(box(g, id, (end-c)*track))
			c = end
		}
		b.WriteString("\n")
	}
	return b.String()
}

// box renders child id as a bracketed label exactly cols cells wide.
func box(g *layout.Graph, id, cols int) string {
	if id < 0 {
		return strings.Repeat(" ", cols)
	}
	inner := cols - 2
	label := runewidth.Truncate(g.Child(id).Name(), inner, "…")
	return listSelectedStyle.Render("[" + runewidth.FillRight(label, inner) + "]")
}

// widest returns the largest width in r not above limit, or limit when r
// has none.
func widest(r ranges.Range, limit int) int {
	w, err := ranges.Floor(r, limit)
	if err != nil {
		return limit
	}
	return w
}
