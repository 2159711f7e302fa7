// Package css generates responsive page styles.
//
// Every container of a page is a CSS grid. For each range of viewport
// widths on which a container's layout, width assignment and grid cells
// stay the same, [Page] emits one min-width media query setting the width
// and grid placement of the container's children. [Builder.Squish] then
// drops declarations that repeat what an earlier query already set.
package css

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Builder collects CSS rules and min-width media queries. Selectors and
// properties keep their insertion order.
type Builder struct {
	indent    string
	selectors []string
	rules     map[string]*block
	media     map[int]*Builder
}

type block struct {
	props  []string
	values map[string]string
}

// NewBuilder returns an empty builder indenting with two spaces.
func NewBuilder() *Builder {
	return &Builder{indent: "  ", rules: map[string]*block{}, media: map[int]*Builder{}}
}

// MediaQuery returns the condition used for a min-width query.
func MediaQuery(minWidth int) string {
	return fmt.Sprintf("@media only screen and (min-width: %dpx)", minWidth)
}

// Add sets property of selector. A later value replaces an earlier one.
func (b *Builder) Add(selector, property, value string) {
	r, ok := b.rules[selector]
	if !ok {
		r = &block{values: map[string]string{}}
		b.rules[selector] = r
		b.selectors = append(b.selectors, selector)
	}
	if _, ok := r.values[property]; !ok {
		r.props = append(r.props, property)
	}
	r.values[property] = value
}

// Get returns the value of property for selector.
func (b *Builder) Get(selector, property string) (string, bool) {
	r, ok := b.rules[selector]
	if !ok {
		return "", false
	}
	v, ok := r.values[property]
	return v, ok
}

// Media returns the builder for the query with the given min-width,
// creating it on first use.
func (b *Builder) Media(minWidth int) *Builder {
	m, ok := b.media[minWidth]
	if !ok {
		m = &Builder{indent: b.indent, rules: map[string]*block{}, media: map[int]*Builder{}}
		b.media[minWidth] = m
	}
	return m
}

// Squish removes media query declarations that set a property to the value
// it already has from the base rules or a narrower query.
func (b *Builder) Squish() {
	active := map[string]map[string]string{}
	for sel, r := range b.rules {
		active[sel] = maps.Clone(r.values)
	}
	for _, w := range b.widths() {
		m := b.media[w]
		for _, sel := range m.selectors {
			r := m.rules[sel]
			if active[sel] == nil {
				active[sel] = map[string]string{}
			}
			kept := r.props[:0]
			for _, p := range r.props {
				if v, ok := active[sel][p]; ok && v == r.values[p] {
					delete(r.values, p)
					continue
				}
				active[sel][p] = r.values[p]
				kept = append(kept, p)
			}
			r.props = kept
		}
	}
}

func (b *Builder) widths() []int {
	ws := make([]int, 0, len(b.media))
	for w := range b.media {
		ws = append(ws, w)
	}
	slices.Sort(ws)
	return ws
}

// String renders the base rules followed by the media queries in
// increasing min-width. Empty rules and queries are left out.
func (b *Builder) String() string {
	return b.render(0)
}

func (b *Builder) render(depth int) string {
	base := strings.Repeat(b.indent, depth)
	var rules []string
	for _, sel := range b.selectors {
		r := b.rules[sel]
		if len(r.props) == 0 {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s%s {\n", base, sel)
		for _, p := range r.props {
			fmt.Fprintf(&sb, "%s%s%s: %s;\n", base, b.indent, p, r.values[p])
		}
		fmt.Fprintf(&sb, "%s}", base)
		rules = append(rules, sb.String())
	}

	var queries []string
	for _, w := range b.widths() {
		inner := b.media[w].render(depth + 1)
		if inner == "" {
			continue
		}
		queries = append(queries, fmt.Sprintf("%s%s {\n%s%s}", base, MediaQuery(w), inner, base))
	}

	var parts []string
	if len(rules) > 0 {
		parts = append(parts, strings.Join(rules, "\n\n")+"\n")
	}
	if len(queries) > 0 {
		parts = append(parts, strings.Join(queries, "\n\n")+"\n")
	}
	return strings.Join(parts, "\n")
}
