// Package html generates page markup.
//
// Every widget becomes a div with class "erwd-widget <name>" and the DOM id
// of its instance. A container wraps its children in a second div with
// class "erwd-children", which the generated styles turn into a grid.
package html

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/matzehuels/erwd/pkg/render"
)

const indent = "  "

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>{{.App}} | {{.Name}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
    <link rel="stylesheet" href="{{.Name}}.css">
{{- if .Head}}
    {{.Head}}
{{- end}}
  </head>
  <body style="margin:0;">
{{.Body}}  </body>
</html>
`))

// Page renders the complete document of a page. head is inserted verbatim
// into the document head.
func Page(tree *render.Tree, app, head string) ([]byte, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		App, Name string
		Head      template.HTML
		Body      template.HTML
	}{
		App:  app,
		Name: tree.Root.Widget.Name(),
		Head: template.HTML(strings.TrimSpace(head)),
		Body: template.HTML(Widget(tree.Root, 2)),
	})
	return buf.Bytes(), err
}

// Widget renders the markup of one instance and everything below it,
// indented by depth levels.
func Widget(n *render.Node, depth int) string {
	var sb strings.Builder
	write(&sb, n, depth)
	return sb.String()
}

func write(sb *strings.Builder, n *render.Node, depth int) {
	pad := strings.Repeat(indent, depth)
	sb.WriteString(pad + `<div id="` + template.HTMLEscapeString(n.ID) + `" class="erwd-widget ` + template.HTMLEscapeString(n.Widget.Name()) + "\">\n")
	if n.Widget.IsLeaf() {
		for _, line := range strings.Split(strings.TrimRight(n.Widget.Markup(), " \t\r\n"), "\n") {
			if line == "" {
				sb.WriteString("\n")
				continue
			}
			sb.WriteString(pad + indent + line + "\n")
		}
	} else {
		sb.WriteString(pad + indent + "<div class=\"erwd-children\">\n")
		for _, c := range n.Children {
			write(sb, c, depth+2)
		}
		sb.WriteString(pad + indent + "</div>\n")
	}
	sb.WriteString(pad + "</div>\n")
}
