// Package render turns finalized widget trees into build artifacts.
//
// # Overview
//
// The package itself only knows about instance trees: a widget used in
// several places of a page is rendered once per use, and every use gets
// its own DOM id of the form "<name>-<n>". The subpackages produce the
// artifacts:
//
//   - [css]: responsive page styles built from layout breakpoints
//   - [html]: the nested page markup
//   - [dot]: Graphviz diagrams of a single layout graph
//
// Both the markup and the styles of a page are generated from the same
// [Tree], so the ids they use agree.
//
//	tree := render.NewTree(page)
//	markup := html.Page(tree, app, head)
//	styles, err := css.Page(tree, css.Options{})
//
// [css]: github.com/matzehuels/erwd/pkg/render/css
// [html]: github.com/matzehuels/erwd/pkg/render/html
// [dot]: github.com/matzehuels/erwd/pkg/render/dot
package render
