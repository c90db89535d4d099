package interpreter

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"minilisp/interpreter-go/pkg/reader"
	"minilisp/interpreter-go/pkg/runtime"
)

type fakeHost struct {
	now   time.Time
	mem   uint64
	slept []time.Duration
}

func (h *fakeHost) MemoryUsage() uint64 { return h.mem }

func (h *fakeHost) Sleep(d time.Duration) {
	h.slept = append(h.slept, d)
	h.now = h.now.Add(d)
}

func (h *fakeHost) Now() time.Time { return h.now }

func newTestInterpreter(t *testing.T, opts Options) (*Interpreter, *bytes.Buffer, *fakeHost) {
	t.Helper()
	var stdout bytes.Buffer
	host := &fakeHost{now: time.Unix(1700000000, 0), mem: 4096}
	if opts.Stdout == nil {
		opts.Stdout = &stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Host == nil {
		opts.Host = host
	}
	return New(opts), &stdout, host
}

func mustEval(t *testing.T, interp *Interpreter, src string) runtime.Value {
	t.Helper()
	val, err := interp.EvalSource("test", src)
	if err != nil {
		t.Fatalf("evaluating %q: %v", src, err)
	}
	return val
}

func mustRead(t *testing.T, src string) runtime.Value {
	t.Helper()
	forms, err := reader.ReadAll("test", src)
	if err != nil {
		t.Fatalf("reading %q: %v", src, err)
	}
	if len(forms) != 1 {
		t.Fatalf("expected one form in %q, got %d", src, len(forms))
	}
	return forms[0]
}

func diagnosticKinds(interp *Interpreter) []ErrorKind {
	var kinds []ErrorKind
	for _, d := range interp.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func sameKinds(a, b []ErrorKind) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}
