// Package cli implements the erwd command-line interface.
//
// The CLI lays out widget projects, writes their HTML and CSS, inspects the
// computed breakpoints and serves the pipeline over HTTP. It is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - build: Write build/<page>.html and build/<page>.css
//   - layout: Print the breakpoints of every container
//   - graph: Draw one container's layout graph at one width
//   - explore: Step through viewport widths interactively
//   - serve: Run the HTTP service
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Library
// packages never log; their observability hooks are bound to the CLI logger
// before any command runs.
//
// # Example
//
//	import "github.com/matzehuels/erwd/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erwd/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Wrote 4 artifacts (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports library events at debug level.
type logHooks struct {
	logger *log.Logger
}

// bindHooks routes every observability hook to logger.
func bindHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.SetEngineHooks(h)
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h *logHooks) OnContainerStart(_ context.Context, widget string, children int) {
	h.logger.Debug("laying out container", "widget", widget, "children", children)
}

func (h *logHooks) OnSample(_ context.Context, widget, sweep string, points int, d time.Duration) {
	h.logger.Debug("sampled", "widget", widget, "sweep", sweep, "breakpoints", points, "duration", d)
}

func (h *logHooks) OnContainerComplete(_ context.Context, widget string, layouts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("container failed", "widget", widget, "duration", d, "err", err)
		return
	}
	h.logger.Debug("container finalized", "widget", widget, "layouts", layouts, "duration", d)
}

func (h *logHooks) OnLoadComplete(_ context.Context, widgets int, d time.Duration, err error) {
	h.stage("load", "widgets", widgets, d, err)
}

func (h *logHooks) OnComputeComplete(_ context.Context, pages int, d time.Duration, err error) {
	h.stage("compute", "pages", pages, d, err)
}

func (h *logHooks) OnEmitComplete(_ context.Context, artifacts int, d time.Duration, err error) {
	h.stage("emit", "artifacts", artifacts, d, err)
}

func (h *logHooks) stage(name, unit string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", name, "duration", d, "err", err)
		return
	}
	h.logger.Debug("stage complete", "stage", name, unit, n, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.logger.Debug("request started", "request_id", requestID, "method", method, "path", path)
}

// OnResponse is a no-op: the server already logs every response.
func (h *logHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
