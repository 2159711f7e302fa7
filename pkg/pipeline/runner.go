package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erwd/pkg/cache"
	"github.com/matzehuels/erwd/pkg/errors"
	erwdio "github.com/matzehuels/erwd/pkg/io"
	"github.com/matzehuels/erwd/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options, as long
// as each works on its own project.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → compute → emit pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	p, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.ExecuteProject(ctx, p, opts)
}

// Load reads the project named by opts.File.
func (r *Runner) Load(ctx context.Context, opts Options) (*erwdio.Project, error) {
	start := time.Now()
	p, err := Load(opts.File)
	widgets := 0
	if p != nil {
		widgets = len(p.Widgets)
	}
	observability.Pipeline().OnLoadComplete(ctx, widgets, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded project", "app", p.App, "widgets", widgets, "inputs", len(p.Inputs))
	return p, nil
}

// ExecuteProject computes and emits a loaded project. Artifacts are served
// from cache when every requested one is present for the project's inputs
// and options.
func (r *Runner) ExecuteProject(ctx context.Context, p *erwdio.Project, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		InputHash: InputHash(p),
		Artifacts: make(map[string][]byte),
		Stats: Stats{
			Widgets:    len(p.Widgets),
			Containers: containers(p),
		},
	}
	for _, page := range p.Pages() {
		result.Pages = append(result.Pages, page.Name())
	}

	artifacts := cache.Instrument(r.Cache, "artifact")
	if !opts.Refresh {
		if cached, ok := r.cachedArtifacts(ctx, artifacts, result, opts); ok {
			result.Artifacts = cached
			result.CacheInfo.EmitHit = true
			r.Logger.Info("artifacts from cache", "pages", len(result.Pages), "artifacts", len(cached))
			return result, nil
		}
	}

	computeStart := time.Now()
	if err := r.Compute(ctx, p, opts); err != nil {
		return nil, err
	}
	result.Stats.ComputeTime = time.Since(computeStart)

	emitStart := time.Now()
	emitted, err := r.Emit(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = emitted
	result.Stats.EmitTime = time.Since(emitStart)

	for _, page := range result.Pages {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(result.InputHash, opts.ArtifactKeyOpts(page, format))
			if err := artifacts.Set(ctx, key, emitted[ArtifactName(page, format)], cache.TTLArtifact); err != nil {
				r.Logger.Warn("cache write failed", "page", page, "format", format, "err", err)
			}
		}
	}
	return result, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, c cache.Cache, result *Result, opts Options) (map[string][]byte, bool) {
	if len(result.Pages) == 0 {
		return nil, false
	}
	out := make(map[string][]byte)
	for _, page := range result.Pages {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(result.InputHash, opts.ArtifactKeyOpts(page, format))
			data, hit, err := c.Get(ctx, key)
			if err != nil || !hit {
				return nil, false
			}
			out[ArtifactName(page, format)] = data
		}
	}
	return out, true
}

// Compute lays out every page of p.
func (r *Runner) Compute(ctx context.Context, p *erwdio.Project, opts Options) error {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return err
	}

	start := time.Now()
	err := Compute(ctx, p, opts)
	observability.Pipeline().OnComputeComplete(ctx, len(p.Pages()), time.Since(start), err)
	if err != nil {
		return err
	}
	r.Logger.Info("computed layouts",
		"pages", len(p.Pages()),
		"containers", containers(p),
		"duration", time.Since(start))
	return nil
}

// Emit generates the artifacts of a computed project.
func (r *Runner) Emit(ctx context.Context, p *erwdio.Project, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForEmit(); err != nil {
		return nil, err
	}

	start := time.Now()
	artifacts, err := Emit(p, opts)
	observability.Pipeline().OnEmitComplete(ctx, len(artifacts), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("emitted artifacts",
		"formats", opts.Formats,
		"artifacts", len(artifacts),
		"duration", time.Since(start))
	return artifacts, nil
}

// Summarize computes p if needed and returns its breakpoint summary. The
// bool reports a cache hit.
func (r *Runner) Summarize(ctx context.Context, p *erwdio.Project, opts Options) (*Summary, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return nil, false, err
	}

	summaries := cache.Instrument(r.Cache, "summary")
	key := r.Keyer.SummaryKey(InputHash(p), opts.LayoutKeyOpts())
	if !opts.Refresh {
		if data, hit, err := summaries.Get(ctx, key); err == nil && hit {
			var s Summary
			if err := json.Unmarshal(data, &s); err == nil {
				return &s, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	if err := r.Compute(ctx, p, opts); err != nil {
		return nil, false, err
	}
	s, err := Summarize(p)
	if err != nil {
		return nil, false, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode summary")
	}
	if err := summaries.Set(ctx, key, data, cache.TTLSummary); err != nil {
		r.Logger.Warn("cache write failed", "key", "summary", "err", err)
	}
	return s, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
