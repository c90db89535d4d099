package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"minilisp/interpreter-go/pkg/driver"
	"minilisp/interpreter-go/pkg/interpreter"
	"minilisp/interpreter-go/pkg/repl"
	"minilisp/interpreter-go/stdlib"
)

const cliToolVersion = "minilisp 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return newCLI(os.Stdin, os.Stdout, os.Stderr).run(args)
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (c *cli) run(args []string) int {
	if len(args) == 0 {
		return c.runRepl(nil)
	}

	switch args[0] {
	case "--help", "-h", "help":
		c.printUsage(c.stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(c.stdout, cliToolVersion)
		return 0
	case "run":
		return c.runFile(args[1:])
	case "repl":
		return c.runRepl(args[1:])
	default:
		if looksLikeSourceFile(args[0]) {
			return c.runFile(args)
		}
		fmt.Fprintf(c.stderr, "unknown command %q\n", args[0])
		c.printUsage(c.stderr)
		return 1
	}
}

type commonFlags struct {
	configPath string
	noStdlib   bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "path to a minilisp.yml configuration file")
	fs.BoolVar(&f.noStdlib, "no-stdlib", false, "skip loading the bootstrap library")
}

func (c *cli) runFile(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var common commonFlags
	common.register(fs)
	gitRepo := fs.String("git", "", "read the program from this git repository (path or URL)")
	gitRev := fs.String("rev", "", "git revision to read from (default HEAD)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.stderr, "minilisp run requires exactly one source file")
		return 1
	}
	if *gitRev != "" && *gitRepo == "" {
		fmt.Fprintln(c.stderr, "--rev requires --git")
		return 1
	}

	cfg, interp, err := c.setup(common)
	if err != nil {
		fmt.Fprintf(c.stderr, "%v\n", err)
		return 1
	}

	var loader driver.SourceLoader = driver.NewFileLoader(cfg.SearchPaths...)
	if *gitRepo != "" {
		loader = driver.NewGitLoader(*gitRepo, *gitRev)
	}
	if _, err := interp.LoadFile(loader, fs.Arg(0)); err != nil {
		fmt.Fprintf(c.stderr, "%v\n", err)
		return 1
	}
	return 0
}

func (c *cli) runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(c.stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 1
	}

	cfg, interp, err := c.setup(common)
	if err != nil {
		fmt.Fprintf(c.stderr, "%v\n", err)
		return 1
	}

	var console repl.Console
	if f, ok := c.stdin.(*os.File); ok && f == os.Stdin && repl.Interactive() {
		lc := repl.NewLinerConsole(cfg.HistoryFile)
		defer func() {
			if err := lc.Close(); err != nil {
				fmt.Fprintf(c.stderr, "%v\n", err)
			}
		}()
		console = lc
	} else {
		console = repl.NewStreamConsole(c.stdin, c.stdout)
	}
	if err := repl.Run(interp, console, cfg.Prompt); err != nil {
		fmt.Fprintf(c.stderr, "%v\n", err)
		return 1
	}
	return 0
}

// setup loads the configuration and returns an interpreter with the
// bootstrap library already evaluated.
func (c *cli) setup(common commonFlags) (*driver.Config, *interpreter.Interpreter, error) {
	cfg, err := loadConfig(common.configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyEnv()

	logger := slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: dropTime,
	}))
	interp := interpreter.New(interpreter.Options{
		MaxCallDepth: cfg.MaxCallDepth,
		Stdout:       c.stdout,
		Logger:       logger,
	})
	if cfg.LoadStdlib && !common.noStdlib {
		if err := interp.Bootstrap(bootstrapLoader(cfg), cfg.Stdlib); err != nil {
			return nil, nil, fmt.Errorf("bootstrap %s: %w", cfg.Stdlib, err)
		}
	}
	return cfg, interp, nil
}

// loadConfig reads an explicit configuration file, or the nearest
// minilisp.yml above the working directory, or falls back to defaults.
func loadConfig(explicit string) (*driver.Config, error) {
	if explicit != "" {
		return driver.LoadConfig(explicit)
	}
	path, err := driver.FindConfig(".")
	if err != nil {
		if errors.Is(err, driver.ErrConfigNotFound) {
			return driver.DefaultConfig(), nil
		}
		return nil, err
	}
	return driver.LoadConfig(path)
}

// bootstrapLoader prefers a bootstrap file on disk and falls back to the
// copy bundled into the binary.
func bootstrapLoader(cfg *driver.Config) driver.SourceLoader {
	return driver.ChainLoader{
		driver.NewFileLoader(cfg.SearchPaths...),
		&driver.FSLoader{FS: stdlib.Files, Root: stdlib.Root},
	}
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		return slog.Attr{}
	}
	return a
}

func looksLikeSourceFile(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	if filepath.Ext(arg) == ".lisp" {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

func (c *cli) printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  minilisp [repl] [--config file] [--no-stdlib]")
	fmt.Fprintln(w, "  minilisp run [--config file] [--no-stdlib] [--git repo [--rev revision]] <file.lisp>")
	fmt.Fprintln(w, "  minilisp <file.lisp>")
	fmt.Fprintln(w, "  minilisp version")
}
