package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// Console is the line-oriented front end the read loop talks to.
type Console interface {
	// ReadLine shows prompt and returns one line without its terminator.
	// io.EOF reports that no more input will arrive.
	ReadLine(prompt string) (string, error)
	WriteLine(line string) error
}

// StreamConsole reads lines from any reader and writes to any writer.
// It serves piped input and tests.
type StreamConsole struct {
	in  *bufio.Reader
	out io.Writer
}

func NewStreamConsole(in io.Reader, out io.Writer) *StreamConsole {
	return &StreamConsole{in: bufio.NewReader(in), out: out}
}

func (c *StreamConsole) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(c.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *StreamConsole) WriteLine(line string) error {
	_, err := fmt.Fprintln(c.out, line)
	return err
}

// LinerConsole is an interactive terminal console with line editing and
// history. Close must be called to restore the terminal.
type LinerConsole struct {
	state       *liner.State
	out         io.Writer
	historyPath string
}

// NewLinerConsole puts the terminal in raw mode and loads history from
// historyPath when it is set and readable.
func NewLinerConsole(historyPath string) *LinerConsole {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	c := &LinerConsole{state: state, out: os.Stdout, historyPath: historyPath}
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
	}
	return c
}

// Interactive reports whether stdin is a terminal liner can drive.
func Interactive() bool {
	if !liner.TerminalSupported() {
		return false
	}
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (c *LinerConsole) ReadLine(prompt string) (string, error) {
	line, err := c.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", nil
		}
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		c.state.AppendHistory(line)
	}
	return line, nil
}

func (c *LinerConsole) WriteLine(line string) error {
	_, err := fmt.Fprintln(c.out, line)
	return err
}

// Close writes the history file and restores the terminal.
func (c *LinerConsole) Close() error {
	var saveErr error
	if c.historyPath != "" {
		f, err := os.Create(c.historyPath)
		if err != nil {
			saveErr = fmt.Errorf("repl: save history: %w", err)
		} else {
			if _, err := c.state.WriteHistory(f); err != nil {
				saveErr = fmt.Errorf("repl: save history: %w", err)
			}
			f.Close()
		}
	}
	if err := c.state.Close(); err != nil {
		return err
	}
	return saveErr
}
