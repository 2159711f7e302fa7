package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames are drawn in turn, one per spinnerInterval.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows that a long computation is running. It draws on a terminal
// only; on pipes and in tests it stays silent.
type Spinner struct {
	message string
	parent  context.Context
	out     io.Writer
	draw    bool

	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

// newSpinner creates a spinner on stderr.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner on stderr that stops drawing when
// ctx is done.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, stderrIsTerminal(), message)
}

func newSpinnerTo(ctx context.Context, out io.Writer, draw bool, message string) *Spinner {
	return &Spinner{
		message: message,
		parent:  ctx,
		out:     out,
		draw:    draw,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start draws frames until Stop is called or the context is done.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.parent.Done():
				s.clearLine()
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.frame(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) frame(f string) {
	if !s.draw {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(f), StyleDim.Render(s.message))
}

// Stop waits for the drawing goroutine and clears the line. It may be
// called more than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.stopped
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	if !s.draw {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops the spinner and reports success on w.
func (s *Spinner) StopWithSuccess(w io.Writer, message string) {
	s.Stop()
	printSuccess(w, "%s", message)
}

// StopWithError stops the spinner and reports failure on w.
func (s *Spinner) StopWithError(w io.Writer, message string) {
	s.Stop()
	printError(w, "%s", message)
}

// Cancelled reports whether the spinner's context ended before Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// stderrIsTerminal reports whether stderr is an interactive terminal.
func stderrIsTerminal() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
