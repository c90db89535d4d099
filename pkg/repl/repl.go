// Package repl runs the interactive read-eval-print loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"minilisp/interpreter-go/pkg/interpreter"
	"minilisp/interpreter-go/pkg/runtime"
)

// ExitCommand ends the loop when entered on its own line.
const ExitCommand = ".exit"

// DefaultPrompt is shown before each line when none is configured.
const DefaultPrompt = ">> "

// SourceName labels forms read from the console in error messages.
const SourceName = "repl"

// Run reads lines from console until ExitCommand or end of input. Every form
// on a line is evaluated and the value of the last one is echoed. Errors are
// written to the console and the loop continues with the next line.
func Run(interp *interpreter.Interpreter, console Console, prompt string) error {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	for {
		line, err := console.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("repl: read line: %w", err)
		}
		input := strings.TrimSpace(line)
		if input == ExitCommand {
			return nil
		}
		if input == "" {
			continue
		}
		if err := console.WriteLine(evalLine(interp, input)); err != nil {
			return fmt.Errorf("repl: write line: %w", err)
		}
	}
}

func evalLine(interp *interpreter.Interpreter, input string) string {
	defer interp.ResetDiagnostics()
	val, err := interp.EvalSource(SourceName, input)
	if err != nil {
		return "error: " + err.Error()
	}
	return runtime.Display(val)
}
