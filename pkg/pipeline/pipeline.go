// Package pipeline provides the build pipeline for erwd projects.
//
// The pipeline is shared by the CLI and the HTTP service so that both lay
// out and emit pages the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read the widgets file, leaf markup, styles and head
//  2. Compute: finalize every page with the layout engine
//  3. Emit: generate HTML and CSS for every page
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{File: "site.json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	css := result.Artifacts["home.css"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erwd/pkg/cache"
	"github.com/matzehuels/erwd/pkg/core/arrange"
	"github.com/matzehuels/erwd/pkg/core/breakpoints"
	"github.com/matzehuels/erwd/pkg/core/engine"
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/width"
	"github.com/matzehuels/erwd/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultMaxWidth is the widest viewport sampled.
	DefaultMaxWidth = breakpoints.DefaultMaxWidth

	// DefaultWidthAlgorithm divides container width among children.
	DefaultWidthAlgorithm = width.NameLeftFirst

	// DefaultArrangement picks the layout of a container.
	DefaultArrangement = arrange.NameMinHeight

	// MaxSupportedWidth bounds MaxWidth. Sampling is linear in the width.
	MaxSupportedWidth = 16384
)

// Format constants for emitted artifacts.
const (
	FormatHTML = "html"
	FormatCSS  = "css"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatCSS:  true,
}

// ValidWidthAlgorithms is the set of supported width algorithms.
var ValidWidthAlgorithms = map[string]bool{
	width.NameLeftFirst: true,
	width.NameFlexDAG:   true,
}

// ValidArrangements is the set of supported arrangement strategies.
var ValidArrangements = map[string]bool{
	arrange.NameLeftJustified: true,
	arrange.NameMinHeight:     true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the build pipeline.
type Options struct {
	// Load options
	File string `json:"-"`

	// Compute options
	MaxWidth       int     `json:"max_width,omitempty"`
	WidthAlgorithm string  `json:"width_algorithm,omitempty"`
	Arrangement    string  `json:"arrangement,omitempty"`
	Workers        int     `json:"workers,omitempty"`
	MaxIterations  int     `json:"max_iterations,omitempty"`
	Tolerance      float64 `json:"tolerance,omitempty"`

	// Emit options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pages lists the page names in order.
	Pages []string

	// InputHash is the content hash of every input file.
	InputHash string

	// Artifacts contains emitted files keyed by file name, such as
	// "home.html" and "home.css".
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Widgets     int
	Containers  int
	LoadTime    time.Duration
	ComputeTime time.Duration
	EmitTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	EmitHit    bool // Whether all artifacts came from cache
	SummaryHit bool // Whether the breakpoint summary came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be one of: html, css)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWidthAlgorithm checks that a width algorithm is valid.
func ValidateWidthAlgorithm(name string) error {
	if !ValidWidthAlgorithms[name] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid width_algorithm: %q (must be one of: %s, %s)", name, width.NameLeftFirst, width.NameFlexDAG)
	}
	return nil
}

// ValidateArrangement checks that an arrangement is valid.
func ValidateArrangement(name string) error {
	if !ValidArrangements[name] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid arrangement: %q (must be one of: %s, %s)", name, arrange.NameLeftJustified, arrange.NameMinHeight)
	}
	return nil
}

// ValidateMaxWidth checks that the sampled viewport is usable.
func ValidateMaxWidth(w int) error {
	if w <= 0 || w > MaxSupportedWidth {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid max_width: %d (must be in 1..%d)", w, MaxSupportedWidth)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForEmit(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetComputeDefaults sets default values for layout computation.
func (o *Options) SetComputeDefaults() {
	if o.MaxWidth == 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.WidthAlgorithm == "" {
		o.WidthAlgorithm = DefaultWidthAlgorithm
	}
	if o.Arrangement == "" {
		o.Arrangement = DefaultArrangement
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = width.DefaultMaxIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = width.DefaultTolerance
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForCompute validates and sets defaults for layout computation.
func (o *Options) ValidateForCompute() error {
	o.SetComputeDefaults()
	if err := ValidateMaxWidth(o.MaxWidth); err != nil {
		return err
	}
	if err := ValidateWidthAlgorithm(o.WidthAlgorithm); err != nil {
		return err
	}
	if err := ValidateArrangement(o.Arrangement); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid workers: %d", o.Workers)
	}
	if o.MaxIterations < 0 || o.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "flex iteration limits must not be negative")
	}
	return nil
}

// SetEmitDefaults sets default values for emitting.
func (o *Options) SetEmitDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML, FormatCSS}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForEmit validates and sets defaults for emitting.
func (o *Options) ValidateForEmit() error {
	o.SetEmitDefaults()
	return ValidateFormats(o.Formats)
}

// Wants reports whether format is requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// Engine builds the layout engine the options describe.
func (o *Options) Engine() (*engine.Engine, error) {
	o.SetComputeDefaults()
	alloc, err := width.ByName(o.WidthAlgorithm, width.FlexDAG{
		MaxIterations: o.MaxIterations,
		Tolerance:     o.Tolerance,
	})
	if err != nil {
		return nil, err
	}
	arr, err := arrange.ByName(o.Arrangement)
	if err != nil {
		return nil, err
	}
	return &engine.Engine{
		Arranger: arr,
		Options: layout.Options{
			Allocator: alloc,
			MaxWidth:  o.MaxWidth,
			Sampler:   breakpoints.Sampler{Workers: o.Workers},
		},
	}, nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		MaxWidth:       o.MaxWidth,
		WidthAlgorithm: o.WidthAlgorithm,
		Arrangement:    o.Arrangement,
	}
	// Flex limits only matter to the flex allocator.
	if o.WidthAlgorithm == width.NameFlexDAG {
		opts.MaxIterations = o.MaxIterations
		opts.Tolerance = o.Tolerance
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one artifact of a page.
func (o *Options) ArtifactKeyOpts(page, format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		LayoutKeyOpts: o.LayoutKeyOpts(),
		Page:          page,
		Format:        format,
	}
}

// ArtifactName is the file name of a page's artifact.
func ArtifactName(page, format string) string {
	return page + "." + format
}

// Copy returns o with its validation mark cleared, so that fields changed on
// the copy are validated again.
func (o Options) Copy() Options {
	o.validated = false
	return o
}
