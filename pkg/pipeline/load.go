package pipeline

import (
	"bytes"
	"encoding/json"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/erwd/pkg/cache"
	"github.com/matzehuels/erwd/pkg/errors"
	erwdio "github.com/matzehuels/erwd/pkg/io"
)

// DefaultApp names projects supplied without a name.
const DefaultApp = "app"

// Sources is a project supplied in memory, as the HTTP service receives
// it. Leaves maps a leaf name to its markup, size comment first.
type Sources struct {
	App     string            `json:"app,omitempty"`
	Widgets json.RawMessage   `json:"widgets"`
	Leaves  map[string]string `json:"leaves"`
	CSS     string            `json:"css,omitempty"`
	Head    string            `json:"head,omitempty"`
}

// Load reads the project whose widgets file is file.
func Load(file string) (*erwdio.Project, error) {
	if file == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "widgets file is required")
	}
	return erwdio.Load(file)
}

// LoadSources builds a project from in-memory sources. The inputs are
// recorded under the paths they would have on disk, so a project hashes the
// same whichever way it was loaded.
func LoadSources(src Sources) (*erwdio.Project, error) {
	if len(src.Widgets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "widgets are required")
	}
	app := src.App
	if app == "" {
		app = DefaultApp
	}
	if err := errors.ValidatePath(app); err != nil {
		return nil, err
	}
	defs, err := erwdio.ReadWidgets(bytes.NewReader(src.Widgets))
	if err != nil {
		return nil, err
	}

	widgetsFile := app + ".json"
	inputs := []erwdio.Input{{Path: widgetsFile, Data: src.Widgets}}
	names := make([]string, 0, len(src.Leaves))
	for name := range src.Leaves {
		names = append(names, name)
	}
	slices.Sort(names)

	leaves := make([]erwdio.Leaf, 0, len(names))
	for _, name := range names {
		markup := src.Leaves[name]
		leaf, err := erwdio.ReadLeaf(name, strings.NewReader(markup))
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
		inputs = append(inputs, erwdio.Input{Path: path.Join(erwdio.SourceDir, name+".html"), Data: []byte(markup)})
	}
	if src.CSS != "" {
		inputs = append(inputs, erwdio.Input{Path: path.Join(erwdio.SourceDir, "style.css"), Data: []byte(src.CSS)})
	}
	if src.Head != "" {
		inputs = append(inputs, erwdio.Input{Path: path.Join(erwdio.SourceDir, erwdio.HeadFile), Data: []byte(src.Head)})
	}

	p, err := erwdio.NewProject(app, defs, leaves, src.CSS, src.Head)
	if err != nil {
		return nil, err
	}
	p.Inputs = inputs
	return p, nil
}

// InputHash hashes every input of p.
func InputHash(p *erwdio.Project) string {
	names := make([]string, len(p.Inputs))
	contents := make([][]byte, len(p.Inputs))
	for i, in := range p.Inputs {
		names[i] = in.Path
		contents[i] = in.Data
	}
	return cache.HashAll(names, contents)
}
