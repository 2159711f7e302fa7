package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/erwd/pkg/cache"
	"github.com/matzehuels/erwd/pkg/config"
	"github.com/matzehuels/erwd/pkg/errors"
)

func TestCacheDir(t *testing.T) {
	cfg := config.Default()
	dir, err := cacheDir(cfg)
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	want, err := cache.DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	cfg.Cache.Dir = "/tmp/erwd-cache"
	if dir, _ := cacheDir(cfg); dir != "/tmp/erwd-cache" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

// writeCacheConfig points the project's file cache at a fresh directory.
func writeCacheConfig(t *testing.T, file, backend string) string {
	t.Helper()
	dir := t.TempDir()
	content := "[cache]\nbackend = '" + backend + "'\ndir = '" + dir + "'\n"
	if err := os.WriteFile(filepath.Join(filepath.Dir(file), config.FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCacheClearCommand(t *testing.T) {
	file := writeProject(t)
	dir := writeCacheConfig(t, file, cache.BackendFile)

	if _, err := runCommand(t, "build", file); err != nil {
		t.Fatalf("build error: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) == 0 {
		t.Fatal("build wrote nothing to the cache")
	}

	if _, err := runCommand(t, "cache", "clear", file); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	entries, _ = os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache holds %d entries after clear", len(entries))
	}
}

func TestCacheClearUnsupported(t *testing.T) {
	file := writeProject(t)
	writeCacheConfig(t, file, cache.BackendRedis)

	_, err := runCommand(t, "cache", "clear", file)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("cache clear on redis = %v, want UNSUPPORTED", err)
	}
}
