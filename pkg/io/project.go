package io

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/erwd/pkg/core/widget"
	"github.com/matzehuels/erwd/pkg/errors"
)

// SourceDir is the directory next to the widgets file holding leaf markup,
// styles and head content.
const SourceDir = "src"

// HeadFile is the optional extra <head> content inside SourceDir.
const HeadFile = "head.html"

// Input is one file that went into a project, kept for content hashing.
type Input struct {
	Path string
	Data []byte
}

// Project is a loaded and linked widget project.
type Project struct {
	// App names the project after its widgets file.
	App         string
	Definitions Definitions
	Leaves      []Leaf
	CSS         string
	Head        string
	Widgets     map[string]*widget.Widget
	// Inputs lists the source files in load order.
	Inputs []Input
}

// NewProject links definitions and leaves into a project.
func NewProject(app string, defs Definitions, leaves []Leaf, css, head string) (*Project, error) {
	widgets, err := Assemble(defs, leaves)
	if err != nil {
		return nil, err
	}
	return &Project{
		App:         app,
		Definitions: defs,
		Leaves:      leaves,
		CSS:         css,
		Head:        head,
		Widgets:     widgets,
	}, nil
}

// Pages returns the project's top-level widgets.
func (p *Project) Pages() []*widget.Widget { return Pages(p.Widgets) }

// Load reads the widgets file at file and the src directory next to it.
func Load(file string) (*Project, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "widgets file %s", file)
	}
	return LoadFS(os.DirFS(filepath.Dir(file)), filepath.Base(file))
}

// LoadFS reads a project from fsys. widgetsFile is relative to the root of
// fsys and the sources are read from SourceDir beside it.
func LoadFS(fsys fs.FS, widgetsFile string) (*Project, error) {
	raw, err := fs.ReadFile(fsys, widgetsFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", widgetsFile)
	}
	defs, err := ReadWidgets(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", widgetsFile)
	}
	inputs := []Input{{Path: widgetsFile, Data: raw}}

	var (
		leaves []Leaf
		css    strings.Builder
		head   string
	)
	src := path.Join(path.Dir(widgetsFile), SourceDir)
	err = fs.WalkDir(fsys, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := path.Ext(p)
		if ext != ".html" && ext != ".htm" && ext != ".css" {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		inputs = append(inputs, Input{Path: p, Data: data})
		switch {
		case ext == ".css":
			css.Write(data)
		case p == path.Join(src, HeadFile):
			head = string(data)
		default:
			leaf, err := ReadLeaf(strings.TrimSuffix(path.Base(p), ext), bytes.NewReader(data))
			if err != nil {
				return err
			}
			leaves = append(leaves, leaf)
		}
		return nil
	})
	if err != nil {
		if errors.GetCode(err) == "" {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", src)
		}
		return nil, err
	}

	app := strings.TrimSuffix(path.Base(widgetsFile), path.Ext(widgetsFile))
	p, err := NewProject(app, defs, leaves, css.String(), head)
	if err != nil {
		return nil, err
	}
	p.Inputs = inputs
	return p, nil
}
