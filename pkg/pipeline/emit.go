package pipeline

import (
	"github.com/matzehuels/erwd/pkg/core/breakpoints"
	"github.com/matzehuels/erwd/pkg/errors"
	erwdio "github.com/matzehuels/erwd/pkg/io"
	"github.com/matzehuels/erwd/pkg/render"
	"github.com/matzehuels/erwd/pkg/render/css"
	"github.com/matzehuels/erwd/pkg/render/html"
)

// Emit generates the requested artifacts for every page of a computed
// project, keyed by [ArtifactName].
func Emit(p *erwdio.Project, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)
	for _, page := range p.Pages() {
		tree := render.NewTree(page)
		for _, format := range opts.Formats {
			data, err := emitPage(p, tree, format, opts)
			if err != nil {
				code := errors.GetCode(err)
				if code == "" {
					code = errors.ErrCodeInternal
				}
				return nil, errors.Wrap(code, err, "emit %s", ArtifactName(page.Name(), format))
			}
			artifacts[ArtifactName(page.Name(), format)] = data
		}
	}
	return artifacts, nil
}

func emitPage(p *erwdio.Project, tree *render.Tree, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatHTML:
		return html.Page(tree, p.App, p.Head)
	case FormatCSS:
		b, err := css.Page(tree, css.Options{
			MaxScreenWidth: opts.MaxWidth,
			Sampler:        breakpoints.Sampler{Workers: opts.Workers},
		})
		if err != nil {
			return nil, err
		}
		// User styles come first so that layout rules win on conflicts.
		out := b.String()
		if p.CSS != "" {
			out = p.CSS + "\n\n" + out
		}
		return []byte(out), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
}
