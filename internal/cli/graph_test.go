package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/erwd/pkg/errors"
)

func TestGraphCommand(t *testing.T) {
	file := writeProject(t)
	out := filepath.Join(t.TempDir(), "home.dot")
	if _, err := runCommand(t, "graph", file, "--width", "400", "-o", out); err != nil {
		t.Fatalf("graph error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("graph output not written: %v", err)
	}
	for _, want := range []string{"digraph G {", "logo", "menu", "[constraint=false]"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("graph output missing %q:\n%s", want, data)
		}
	}
}

func TestGraphCommandErrors(t *testing.T) {
	file := writeProject(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown container", []string{"graph", file, "--container", "nope"}, errors.ErrCodeNotFound},
		{"leaf", []string{"graph", file, "--container", "logo"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
