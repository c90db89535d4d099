package driver

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func TestLoadConfigResolvesRelativePaths(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigFileName)
	writeFile(t, path, `
max_call_depth: 64
stdlib: lib/boot.lisp
search_paths:
  - src
  - /opt/lisp
prompt: "lisp> "
history_file: .history
log_level: DEBUG
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MaxCallDepth != 64 {
		t.Fatalf("MaxCallDepth = %d, want 64", cfg.MaxCallDepth)
	}
	if want := filepath.Join(root, "lib", "boot.lisp"); cfg.Stdlib != want {
		t.Fatalf("Stdlib = %q, want %q", cfg.Stdlib, want)
	}
	if len(cfg.SearchPaths) != 2 || cfg.SearchPaths[0] != filepath.Join(root, "src") || cfg.SearchPaths[1] != "/opt/lisp" {
		t.Fatalf("unexpected search paths %v", cfg.SearchPaths)
	}
	if cfg.Prompt != "lisp> " || !cfg.LoadStdlib {
		t.Fatalf("unexpected prompt/load_stdlib: %q %v", cfg.Prompt, cfg.LoadStdlib)
	}
	if cfg.HistoryFile != filepath.Join(root, ".history") {
		t.Fatalf("HistoryFile = %q", cfg.HistoryFile)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	def := DefaultConfig()
	if cfg.MaxCallDepth != def.MaxCallDepth || cfg.Stdlib != def.Stdlib || cfg.Prompt != def.Prompt || cfg.Path != path {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "max_depth: 3\n")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "max_depth") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, `
max_call_depth: 0
stdlib: ""
log_level: loud
`)
	_, err := LoadConfig(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", verr.Issues)
	}
	if !strings.Contains(verr.Error(), "max_call_depth must be positive") {
		t.Fatalf("unexpected message %q", verr.Error())
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), "prompt: \"> \"")
	child := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindConfig(child)
	if err != nil {
		t.Fatalf("FindConfig returned error: %v", err)
	}
	if want := filepath.Join(root, ConfigFileName); found != want {
		t.Fatalf("FindConfig = %q, want %q", found, want)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MINILISP_STDLIB", "/tmp/boot.lisp")
	t.Setenv("MINILISP_PATH", "a"+string(os.PathListSeparator)+" "+string(os.PathListSeparator)+"b")
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.Stdlib != "/tmp/boot.lisp" {
		t.Fatalf("Stdlib = %q", cfg.Stdlib)
	}
	if len(cfg.SearchPaths) != 2 || cfg.SearchPaths[0] != "a" || cfg.SearchPaths[1] != "b" {
		t.Fatalf("SearchPaths = %v", cfg.SearchPaths)
	}
}
