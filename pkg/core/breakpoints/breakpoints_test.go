package breakpoints

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/errors"
)

func constant(int) (string, error) { return "same", nil }

func identity(x int) (int, error) { return x, nil }

// steps changes value at 0, 300, 768 and 1200.
func steps(x int) (string, error) {
	switch {
	case x >= 1200:
		return "wide", nil
	case x >= 768:
		return "tablet", nil
	case x >= 300:
		return "phone", nil
	}
	return "tiny", nil
}

func TestFromSamples(t *testing.T) {
	t.Run("constant yields one breakpoint", func(t *testing.T) {
		b, err := FromSamples(Domain(DefaultMaxWidth), constant, Exact[string])
		if err != nil {
			t.Fatalf("FromSamples() error: %v", err)
		}
		if b.Len() != 1 {
			t.Errorf("Len() = %d, want 1", b.Len())
		}
	})

	t.Run("changing every sample yields one per sample", func(t *testing.T) {
		b, err := FromSamples(ranges.Span(10, 60), identity, Exact[int])
		if err != nil {
			t.Fatalf("FromSamples() error: %v", err)
		}
		if b.Len() != 51 {
			t.Fatalf("Len() = %d, want 51", b.Len())
		}
		for _, p := range b.Points() {
			got, err := b.At(p.Threshold)
			if err != nil {
				t.Fatalf("At(%d) error: %v", p.Threshold, err)
			}
			if got != p.Threshold {
				t.Errorf("At(%d) = %d, want %d", p.Threshold, got, p.Threshold)
			}
		}
	})

	t.Run("steps", func(t *testing.T) {
		b, err := FromSamples(Domain(DefaultMaxWidth), steps, Exact[string])
		if err != nil {
			t.Fatalf("FromSamples() error: %v", err)
		}
		if got, want := b.Thresholds(), []int{0, 300, 768, 1200}; !slices.Equal(got, want) {
			t.Errorf("Thresholds() = %v, want %v", got, want)
		}
	})

	t.Run("error aborts", func(t *testing.T) {
		failing := func(x int) (int, error) {
			if x == 5 {
				return 0, fmt.Errorf("boom at %d", x)
			}
			return 0, nil
		}
		if _, err := FromSamples(ranges.Span(0, 10), failing, Exact[int]); err == nil {
			t.Error("FromSamples() error = nil, want error")
		}
	})

	t.Run("empty domain", func(t *testing.T) {
		_, err := FromSamples(ranges.Range{}, identity, Exact[int])
		if !errors.Is(err, errors.ErrCodeInvalidRange) {
			t.Errorf("FromSamples(empty) error = %v, want INVALID_RANGE", err)
		}
	})
}

func TestAt(t *testing.T) {
	b, err := FromSamples(ranges.Span(100, 1920), steps, Exact[string])
	if err != nil {
		t.Fatalf("FromSamples() error: %v", err)
	}

	tests := []struct {
		x       int
		want    string
		wantErr bool
	}{
		{99, "", true},
		{100, "tiny", false},
		{299, "tiny", false},
		{300, "phone", false},
		{767, "phone", false},
		{768, "tablet", false},
		{5000, "wide", false},
	}

	for _, tt := range tests {
		got, err := b.At(tt.x)
		if (err != nil) != tt.wantErr {
			t.Fatalf("At(%d) error = %v, wantErr %v", tt.x, err, tt.wantErr)
		}
		if err != nil {
			if !errors.Is(err, errors.ErrCodeDomain) {
				t.Errorf("At(%d) error code = %v, want DOMAIN_ERROR", tt.x, errors.GetCode(err))
			}
			continue
		}
		if got != tt.want {
			t.Errorf("At(%d) = %q, want %q", tt.x, got, tt.want)
		}
	}

	var empty Breakpoints[int]
	if _, err := empty.At(0); !errors.Is(err, errors.ErrCodeDomain) {
		t.Errorf("empty At() error = %v, want DOMAIN_ERROR", err)
	}
}

func TestSlice(t *testing.T) {
	b, err := FromSamples(Domain(DefaultMaxWidth), steps, Exact[string])
	if err != nil {
		t.Fatalf("FromSamples() error: %v", err)
	}

	tests := []struct {
		name     string
		from, to int
		want     []int
	}{
		{"inner", 500, 1000, []int{500, 768}},
		{"aligned", 300, 768, []int{300}},
		{"tail", 1500, ranges.PosInf, []int{1500}},
		{"everything", 0, ranges.PosInf, []int{0, 300, 768, 1200}},
		{"empty interval", 400, 400, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Slice(tt.from, tt.to)
			if !slices.Equal(got.Thresholds(), tt.want) {
				t.Errorf("Slice(%d, %d) = %v, want %v", tt.from, tt.to, got.Thresholds(), tt.want)
			}
		})
	}

	sliced := b.Slice(500, 1000)
	if v, _ := sliced.At(500); v != "phone" {
		t.Errorf("Slice(500, 1000).At(500) = %q, want phone", v)
	}
}

func TestAllIntervals(t *testing.T) {
	b, err := FromSamples(Domain(DefaultMaxWidth), steps, Exact[string])
	if err != nil {
		t.Fatalf("FromSamples() error: %v", err)
	}
	var got []Interval
	for iv := range b.All() {
		got = append(got, iv)
	}
	want := []Interval{{0, 300}, {300, 768}, {768, 1200}, {1200, ranges.PosInf}}
	if !slices.Equal(got, want) {
		t.Errorf("All() intervals = %v, want %v", got, want)
	}
}

func TestSampleMatchesSerial(t *testing.T) {
	domain := ranges.Span(0, 1000)
	serial, err := FromSamples(domain, steps, Exact[string])
	if err != nil {
		t.Fatalf("FromSamples() error: %v", err)
	}

	for _, workers := range []int{0, 1, 2, 7} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			parallel, err := Sample(Sampler{Workers: workers}, domain, steps, Exact[string])
			if err != nil {
				t.Fatalf("Sample() error: %v", err)
			}
			if !slices.Equal(parallel.Points(), serial.Points()) {
				t.Errorf("Sample() = %v, want %v", parallel.Points(), serial.Points())
			}
		})
	}
}

func TestSampleReportsFirstError(t *testing.T) {
	failing := func(x int) (int, error) {
		if x%200 == 199 {
			return 0, fmt.Errorf("failed at %d", x)
		}
		return x / 100, nil
	}
	_, err := Sample(Sampler{Workers: 4}, ranges.Span(0, 1000), failing, Exact[int])
	if err == nil || err.Error() != "failed at 199" {
		t.Errorf("Sample() error = %v, want failed at 199", err)
	}
}

func TestMap(t *testing.T) {
	b, err := FromSamples(ranges.Span(0, 999), identity, func(a, b int) bool { return a/250 == b/250 })
	if err != nil {
		t.Fatalf("FromSamples() error: %v", err)
	}
	labels := Map(b, func(v int) string { return fmt.Sprintf("from-%d", v) })
	if got, want := labels.Thresholds(), []int{0, 250, 500, 750}; !slices.Equal(got, want) {
		t.Errorf("Map() thresholds = %v, want %v", got, want)
	}
	if v, _ := labels.At(600); v != "from-500" {
		t.Errorf("Map().At(600) = %q, want from-500", v)
	}
}

func TestNew(t *testing.T) {
	b, err := New(Breakpoint[string]{0, "narrow"}, Breakpoint[string]{600, "wide"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if v, _ := b.At(599); v != "narrow" {
		t.Errorf("At(599) = %q, want narrow", v)
	}
	if v, _ := b.At(600); v != "wide" {
		t.Errorf("At(600) = %q, want wide", v)
	}

	if _, err := New(Breakpoint[int]{10, 1}, Breakpoint[int]{10, 2}); err == nil {
		t.Error("New() with repeated threshold: expected error")
	}
}
