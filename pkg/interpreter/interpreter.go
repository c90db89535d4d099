package interpreter

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"minilisp/interpreter-go/pkg/driver"
	"minilisp/interpreter-go/pkg/reader"
	"minilisp/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested user function calls.
const DefaultMaxCallDepth = 256

// Options configures a new interpreter. Zero fields fall back to defaults.
type Options struct {
	MaxCallDepth int
	Stdout       io.Writer
	Logger       *slog.Logger
	Host         Host
}

// Interpreter holds all evaluation state: the global frame, the call depth
// and the streams builtins write to. Instances are independent of each other
// and must be used from a single goroutine.
type Interpreter struct {
	global      *runtime.Environment
	depth       int
	maxDepth    int
	out         io.Writer
	logger      *slog.Logger
	host        Host
	diagnostics []Diagnostic
}

// New returns an interpreter whose global frame holds the constants and the
// builtin catalog. The bootstrap library is not loaded; see Bootstrap.
func New(opts Options) *Interpreter {
	i := &Interpreter{
		global:   runtime.NewEnvironment(nil),
		maxDepth: opts.MaxCallDepth,
		out:      opts.Stdout,
		logger:   opts.Logger,
		host:     opts.Host,
	}
	if i.maxDepth <= 0 {
		i.maxDepth = DefaultMaxCallDepth
	}
	if i.out == nil {
		i.out = os.Stdout
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if i.host == nil {
		i.host = SystemHost{}
	}
	i.global.Define("nil", runtime.Nil)
	i.global.Define("true", runtime.True)
	i.global.Define("false", runtime.False)
	i.global.Define("else", runtime.Else)
	i.registerBuiltins()
	return i
}

// Global returns the interpreter's global frame.
func (i *Interpreter) Global() *runtime.Environment {
	return i.global
}

// Depth returns the number of user function calls currently active.
func (i *Interpreter) Depth() int {
	return i.depth
}

// MaxCallDepth returns the configured call depth limit.
func (i *Interpreter) MaxCallDepth() int {
	return i.maxDepth
}

// Diagnostics returns the recoverable errors reported so far.
func (i *Interpreter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(i.diagnostics))
	copy(out, i.diagnostics)
	return out
}

// ResetDiagnostics forgets previously reported diagnostics.
func (i *Interpreter) ResetDiagnostics() {
	i.diagnostics = nil
}

// Eval evaluates one value in the global frame.
func (i *Interpreter) Eval(v runtime.Value) (runtime.Value, error) {
	return i.eval(v, i.global)
}

// EvalSource reads and evaluates every top-level form of text in order and
// returns the last result. Read errors and fatal evaluation errors stop the
// run; recoverable errors are reported and evaluation continues.
func (i *Interpreter) EvalSource(name, text string) (runtime.Value, error) {
	r := reader.New(name, text)
	var last runtime.Value = runtime.Nil
	for {
		form, err := r.Next()
		if err == io.EOF {
			return last, nil
		}
		if err != nil {
			return nil, err
		}
		last, err = i.eval(form, i.global)
		if err != nil {
			return nil, err
		}
	}
}

// LoadFile obtains path from loader and evaluates it. A failure to obtain the
// text is returned as a *SourceError.
func (i *Interpreter) LoadFile(loader driver.SourceLoader, path string) (runtime.Value, error) {
	text, err := loader.Read(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	i.logger.Debug("loading source", slog.String("path", path), slog.Int("bytes", len(text)))
	return i.EvalSource(path, text)
}

// Bootstrap loads the bootstrap library. A file that cannot be obtained is
// reported and skipped; errors raised while evaluating it are returned.
func (i *Interpreter) Bootstrap(loader driver.SourceLoader, path string) error {
	_, err := i.LoadFile(loader, path)
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		i.logger.Warn("skipping bootstrap file", slog.String("path", path), slog.String("error", srcErr.Err.Error()))
		return nil
	}
	return err
}
