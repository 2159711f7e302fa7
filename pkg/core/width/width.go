package width

import (
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/errors"
)

// Allocator names accepted by ByName.
const (
	NameLeftFirst = "left-first"
	NameFlexDAG   = "flex-dag"
)

// Names lists the allocator names in documentation order.
func Names() []string { return []string{NameLeftFirst, NameFlexDAG} }

// ByName returns the allocator registered under name. flex configures the
// flex-dag allocator and is ignored otherwise.
func ByName(name string, flex FlexDAG) (layout.Allocator, error) {
	switch name {
	case NameLeftFirst, "":
		return LeftFirst{}, nil
	case NameFlexDAG:
		return flex, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown width algorithm %q (want %s or %s)", name, NameLeftFirst, NameFlexDAG)
}
