package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsFrames(t *testing.T) {
	var out bytes.Buffer
	s := newSpinnerTo(context.Background(), &out, true, "Computing breakpoints...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(out.String(), "Computing breakpoints...") {
		t.Errorf("spinner output = %q, want message", out.String())
	}
	if !strings.HasSuffix(out.String(), "\r") {
		t.Errorf("spinner should clear its line on Stop, got %q", out.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerQuietOffTerminal(t *testing.T) {
	var out bytes.Buffer
	s := newSpinnerTo(context.Background(), &out, false, "quiet")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()
	if out.Len() != 0 {
		t.Errorf("spinner wrote %q without a terminal", out.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinnerTo(ctx, &bytes.Buffer{}, false, "waiting")
			s.Start()
			cancel()
			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner goroutine did not exit on cancellation")
			}
			if !s.Cancelled() {
				t.Error("Cancelled() = false after context ended")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &bytes.Buffer{}, false, "twice")
	s.Start()
	s.Stop()
	s.Stop()
}
