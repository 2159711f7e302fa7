package pipeline

import (
	"context"

	"github.com/matzehuels/erwd/pkg/errors"
	erwdio "github.com/matzehuels/erwd/pkg/io"
)

// Compute finalizes every page of p. Widgets shared between pages are laid
// out once.
func Compute(ctx context.Context, p *erwdio.Project, opts Options) error {
	eng, err := opts.Engine()
	if err != nil {
		return err
	}
	pages := p.Pages()
	if len(pages) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "project %s has no pages", p.App)
	}
	for _, page := range pages {
		if err := eng.Layout(ctx, page); err != nil {
			return err
		}
		opts.Logger.Debug("laid out page", "page", page.Name())
	}
	return nil
}

// containers counts the non-leaf widgets of p.
func containers(p *erwdio.Project) int {
	n := 0
	for _, w := range p.Widgets {
		if !w.IsLeaf() {
			n++
		}
	}
	return n
}
