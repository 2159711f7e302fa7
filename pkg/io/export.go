package io

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/erwd/pkg/errors"
)

// BuildDir is the default output directory, relative to the project.
const BuildDir = "build"

// PrepareBuildDir empties dir, creating it if needed.
func PrepareBuildDir(dir string) error {
	switch filepath.Clean(dir) {
	case ".", "..", string(filepath.Separator):
		return errors.New(errors.ErrCodeInvalidPath, "refusing to clear %q", dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "clear %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}
	return nil
}

// WriteArtifact writes one build artifact such as "home.html" into dir.
func WriteArtifact(dir, name string, data []byte) error {
	if err := errors.ValidatePath(name); err != nil {
		return err
	}
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", filepath.Dir(p))
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", p)
	}
	return nil
}
