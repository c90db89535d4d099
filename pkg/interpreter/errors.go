package interpreter

import (
	"errors"
	"fmt"
	"log/slog"

	"minilisp/interpreter-go/pkg/runtime"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	ErrUnboundSymbol ErrorKind = iota + 1
	ErrArityMismatch
	ErrTypeMismatch
	ErrNotCallable
	ErrMalformedVariadic
	ErrDivisionByZero
	ErrMalformedForm
	ErrStackOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnboundSymbol:
		return "UnboundSymbol"
	case ErrArityMismatch:
		return "ArityMismatch"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrNotCallable:
		return "NotCallable"
	case ErrMalformedVariadic:
		return "MalformedVariadic"
	case ErrDivisionByZero:
		return "DivisionByZero"
	case ErrMalformedForm:
		return "MalformedForm"
	case ErrStackOverflow:
		return "StackOverflow"
	default:
		return fmt.Sprintf("EvalError(%d)", int(k))
	}
}

// Fatal reports whether an error of this kind aborts the evaluation in
// progress. Every other kind is reported and replaced by nil.
func (k ErrorKind) Fatal() bool {
	return k == ErrStackOverflow
}

// EvalError is an evaluation failure.
type EvalError struct {
	Kind    ErrorKind
	Message string
}

func (e *EvalError) Error() string {
	return e.Message
}

// Diagnostic is a recoverable error that was reported during evaluation.
type Diagnostic struct {
	Kind    ErrorKind
	Message string
}

// SourceError wraps a failure to obtain program text from a loader.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("couldn't load file at %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func evalErrorf(kind ErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// recoverable turns a non-fatal evaluation error into a diagnostic and a nil
// result. Fatal errors and foreign errors are passed through.
func (i *Interpreter) recoverable(err error) (runtime.Value, error) {
	var evalErr *EvalError
	if !errors.As(err, &evalErr) || evalErr.Kind.Fatal() {
		return nil, err
	}
	i.report(evalErr)
	return runtime.Nil, nil
}

func (i *Interpreter) report(err *EvalError) {
	i.diagnostics = append(i.diagnostics, Diagnostic{Kind: err.Kind, Message: err.Message})
	i.logger.Warn(err.Message, slog.String("kind", err.Kind.String()))
}
