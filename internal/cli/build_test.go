package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeProject lays out a two-leaf project in a temporary directory and
// returns the widgets file.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"site.json":     `{"home": {"children": ["logo", "menu"]}}`,
		"src/logo.html": "<!-- \"width\": 100, \"height\": 40 -->\n<img src=\"logo.png\">",
		"src/menu.html": "<!-- \"width\": [150, 300], \"height\": 60 -->\n<nav>menu</nav>",
		"src/site.css":  "nav{font-weight:bold}",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "site.json")
}

func runCommand(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return c, root.Execute()
}

func TestBuildCommand(t *testing.T) {
	file := writeProject(t)
	if _, err := runCommand(t, "build", file, "--no-cache"); err != nil {
		t.Fatalf("build error: %v", err)
	}

	dir := filepath.Join(filepath.Dir(file), "build")
	html, err := os.ReadFile(filepath.Join(dir, "home.html"))
	if err != nil {
		t.Fatalf("home.html not written: %v", err)
	}
	if !strings.Contains(string(html), "<title>site | home</title>") {
		t.Errorf("home.html = %s", html)
	}
	css, err := os.ReadFile(filepath.Join(dir, "home.css"))
	if err != nil {
		t.Fatalf("home.css not written: %v", err)
	}
	if !strings.HasPrefix(string(css), "nav{font-weight:bold}") {
		t.Errorf("home.css should start with user styles: %s", css)
	}
}

func TestBuildCommandFormatAndOutput(t *testing.T) {
	file := writeProject(t)
	out := filepath.Join(t.TempDir(), "public")
	if _, err := runCommand(t, "build", file, "--no-cache", "-f", "css", "-o", out); err != nil {
		t.Fatalf("build error: %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "home.css" {
		t.Errorf("output = %v, want only home.css", entries)
	}
}

func TestBuildCommandErrors(t *testing.T) {
	file := writeProject(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"build", filepath.Join(t.TempDir(), "nope.json"), "--no-cache"}},
		{"bad format", []string{"build", file, "--no-cache", "-f", "pdf"}},
		{"bad algorithm", []string{"build", file, "--no-cache", "--width-algorithm", "greedy"}},
		{"bad config", []string{"build", file, "--no-cache", "--config", filepath.Join(t.TempDir(), "missing.toml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCommand(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"html", "css"}},
		{"css", []string{"css"}},
		{"html,css", []string{"html", "css"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			root.SetArgs([]string{"completion", shell})
			root.SetOut(&out)
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("completion %s does not mention %s", shell, appName)
			}
		})
	}
	if _, err := runCommand(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
