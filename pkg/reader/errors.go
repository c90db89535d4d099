package reader

import "fmt"

// ErrorKind classifies read failures. Every read failure is fatal to the
// source being read.
type ErrorKind int

const (
	ErrUnexpectedEOF ErrorKind = iota + 1
	ErrInvalidCharacter
	ErrNumberOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedEOF:
		return "UnexpectedEof"
	case ErrInvalidCharacter:
		return "InvalidCharacter"
	case ErrNumberOutOfRange:
		return "NumberOutOfRange"
	default:
		return fmt.Sprintf("ReadError(%d)", int(k))
	}
}

// SourceLocation is a 1-based line/column position plus the byte offset.
type SourceLocation struct {
	Offset int
	Line   int
	Column int
}

// Error includes a message plus the location where reading stopped.
type Error struct {
	Kind     ErrorKind
	File     string
	Location SourceLocation
	Message  string
}

func (e *Error) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Location.Line, e.Location.Column, e.Message)
}
