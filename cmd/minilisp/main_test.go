package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
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

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	t.Cleanup(func() {
		if chdirErr := os.Chdir(oldWD); chdirErr != nil {
			t.Fatalf("restore working directory: %v", chdirErr)
		}
	})
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "minilisp",
			Email: "minilisp@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := newCLI(strings.NewReader(stdin), &stdout, &stderr).run(args)
	return code, stdout.String(), stderr.String()
}

func TestRunFileWithEmbeddedStdlib(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "main.lisp"), `
(setq xs (list 1 2 3))
(print "length: " (length xs))
(print (map square xs))
`)

	code, stdout, stderr := runCLI(t, "", "run", "main.lisp")
	if code != 0 {
		t.Fatalf("run returned exit code %d, stderr: %s", code, stderr)
	}
	if want := "length: 3\n(1 4 9)\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestRunShortcutAcceptsSourceFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "hello.lisp"), `(print "hello")`)

	code, stdout, _ := runCLI(t, "", "hello.lisp")
	if code != 0 || stdout != "hello\n" {
		t.Fatalf("got code %d stdout %q", code, stdout)
	}
}

func TestRunWithoutStdlib(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "main.lisp"), `
(print (inc 1))
(print (+ 1 1))
`)

	code, stdout, stderr := runCLI(t, "", "run", "--no-stdlib", "main.lisp")
	if code != 0 {
		t.Fatalf("run returned exit code %d", code)
	}
	if stdout != "nil\n2\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "symbol not found") {
		t.Fatalf("expected unbound symbol warning, got %q", stderr)
	}
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "loop.lisp"), `
(defun (loop n) (loop n))
(loop 1)
(print "unreachable")
`)
	writeFile(t, filepath.Join(dir, "broken.lisp"), `(print "x"`)

	cases := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing file", []string{"run", "missing.lisp"}, "couldn't load file at missing.lisp"},
		{"stack overflow", []string{"run", "loop.lisp"}, "max call stack size reached"},
		{"read error", []string{"run", "broken.lisp"}, "broken.lisp:1:1"},
		{"no file", []string{"run"}, "exactly one source file"},
		{"rev without git", []string{"run", "--rev", "HEAD", "loop.lisp"}, "--rev requires --git"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "", tc.args...)
			if code != 1 {
				t.Fatalf("expected exit code 1, got %d", code)
			}
			if strings.Contains(stdout, "unreachable") {
				t.Fatalf("evaluation should stop at the failure")
			}
			if !strings.Contains(stderr, tc.message) {
				t.Fatalf("stderr %q does not mention %q", stderr, tc.message)
			}
		})
	}
}

func TestRunUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "minilisp.yml"), `
max_call_depth: 8
stdlib: boot/prelude.lisp
`)
	writeFile(t, filepath.Join(dir, "boot", "prelude.lisp"), `(setq greeting "hi from prelude")`)
	writeFile(t, filepath.Join(dir, "main.lisp"), `
(print greeting)
(defun (down n) (if (= n 0) "done" (down (- n 1))))
(print (down 5))
(print (down 50))
`)

	code, stdout, stderr := runCLI(t, "", "run", "main.lisp")
	if code != 1 {
		t.Fatalf("expected the deep recursion to fail, got %d", code)
	}
	if stdout != "hi from prelude\ndone\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "max call stack size reached (8)") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	cfgPath := filepath.Join(dir, "custom.yml")
	writeFile(t, cfgPath, "max_call_depth: -1")
	writeFile(t, filepath.Join(dir, "main.lisp"), `(print 1)`)

	code, _, stderr := runCLI(t, "", "run", "--config", cfgPath, "main.lisp")
	if code != 1 || !strings.Contains(stderr, "max_call_depth must be positive") {
		t.Fatalf("got code %d stderr %q", code, stderr)
	}
}

func TestRunFromGitRepository(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "src", "main.lisp"), `(print "from git " (max 3 7))`)
	commit := initGitRepo(t, repoDir)

	writeFile(t, filepath.Join(repoDir, "src", "main.lisp"), `(print "uncommitted")`)
	chdir(t, t.TempDir())

	code, stdout, stderr := runCLI(t, "", "run", "--git", repoDir, "--rev", commit, "src/main.lisp")
	if code != 0 {
		t.Fatalf("run returned exit code %d, stderr: %s", code, stderr)
	}
	if stdout != "from git 7\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestReplFromStream(t *testing.T) {
	chdir(t, t.TempDir())
	code, stdout, stderr := runCLI(t, "(setq x 4)\n(square x)\n.exit\n(print \"late\")\n", "repl")
	if code != 0 {
		t.Fatalf("repl returned exit code %d, stderr: %s", code, stderr)
	}
	if want := ">> nil\n>> 16\n>> "; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestVersionAndHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "version")
	if code != 0 || strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("version: code %d stdout %q", code, stdout)
	}
	code, stdout, _ = runCLI(t, "", "help")
	if code != 0 || !strings.Contains(stdout, "Usage:") {
		t.Fatalf("help: code %d stdout %q", code, stdout)
	}
}
