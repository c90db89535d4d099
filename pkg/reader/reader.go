package reader

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"minilisp/interpreter-go/pkg/runtime"
)

// Reader turns source text into values one top-level form at a time. Lexing
// and parsing happen in the same recursive-descent pass.
type Reader struct {
	file string
	text string
	pos  int
	line int
	col  int
}

// New returns a reader positioned at the start of text. file is only used in
// error messages.
func New(file, text string) *Reader {
	return &Reader{file: file, text: text, line: 1, col: 1}
}

// ReadOne reads the form starting at or after pos and returns it with the
// position just past it. io.EOF is returned when only whitespace and comments remain.
func ReadOne(text string, pos int) (runtime.Value, int, error) {
	r := New("", text)
	for r.pos < pos && r.pos < len(r.text) {
		r.advance()
	}
	v, err := r.Next()
	return v, r.pos, err
}

// ReadAll reads every top-level form in text.
func ReadAll(file, text string) ([]runtime.Value, error) {
	r := New(file, text)
	var forms []runtime.Value
	for {
		v, err := r.Next()
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
}

// Offset returns the current byte offset.
func (r *Reader) Offset() int {
	return r.pos
}

// Location returns the current source location.
func (r *Reader) Location() SourceLocation {
	return SourceLocation{Offset: r.pos, Line: r.line, Column: r.col}
}

// Next reads the next top-level form, or returns io.EOF when the input is exhausted.
func (r *Reader) Next() (runtime.Value, error) {
	r.skipAtmosphere()
	if r.eof() {
		return nil, io.EOF
	}
	return r.readExpr()
}

func (r *Reader) readExpr() (runtime.Value, error) {
	ch := r.peek()
	switch {
	case ch == '(':
		return r.readList(false)
	case ch == '\'':
		start := r.Location()
		r.advance()
		if r.eof() {
			return nil, r.errorAt(ErrUnexpectedEOF, start, "unexpected end of input after quote")
		}
		if r.peek() != '(' {
			return nil, r.errorAt(ErrInvalidCharacter, r.Location(), fmt.Sprintf("expected ( after quote but found %s", r.describeChar()))
		}
		return r.readList(true)
	case ch == '"':
		return r.readString()
	case ch == '.':
		r.advance()
		return runtime.Dot, nil
	case isDigit(ch):
		return r.readNumber()
	case isSymbolChar(ch):
		return r.readSymbol(), nil
	default:
		return nil, r.errorAt(ErrInvalidCharacter, r.Location(), fmt.Sprintf("invalid character: %s", r.describeChar()))
	}
}

func (r *Reader) readList(literal bool) (runtime.Value, error) {
	start := r.Location()
	r.advance() // '('
	var list *runtime.ListValue
	if literal {
		list = runtime.NewLiteralList()
	} else {
		list = runtime.NewList()
	}
	for {
		r.skipAtmosphere()
		if r.eof() {
			return nil, r.errorAt(ErrUnexpectedEOF, start, "unexpected end of input: list opened here is never closed")
		}
		if r.peek() == ')' {
			r.advance()
			return list, nil
		}
		elem, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		list.Append(elem)
	}
}

// readString copies characters verbatim up to the closing quote. There are no
// escape sequences.
func (r *Reader) readString() (runtime.Value, error) {
	start := r.Location()
	r.advance() // opening '"'
	begin := r.pos
	for !r.eof() && r.peek() != '"' {
		r.advance()
	}
	if r.eof() {
		return nil, r.errorAt(ErrUnexpectedEOF, start, "unexpected end of input: unterminated string")
	}
	s := r.text[begin:r.pos]
	r.advance() // closing '"'
	return runtime.NewString(s), nil
}

func (r *Reader) readNumber() (runtime.Value, error) {
	start := r.Location()
	begin := r.pos
	for !r.eof() && isDigit(r.peek()) {
		r.advance()
	}
	digits := r.text[begin:r.pos]
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return nil, r.errorAt(ErrNumberOutOfRange, start, fmt.Sprintf("number %s does not fit in 32 bits", digits))
	}
	return runtime.NewNumber(n), nil
}

func (r *Reader) readSymbol() runtime.Value {
	begin := r.pos
	for !r.eof() && isSymbolChar(r.peek()) {
		r.advance()
	}
	return runtime.NewSymbol(r.text[begin:r.pos])
}

// skipAtmosphere consumes whitespace and ;-comments.
func (r *Reader) skipAtmosphere() {
	for !r.eof() {
		switch r.peek() {
		case ' ', '\r', '\n':
			r.advance()
		case ';':
			for !r.eof() && r.peek() != '\n' {
				r.advance()
			}
		default:
			return
		}
	}
}

func (r *Reader) eof() bool {
	return r.pos >= len(r.text)
}

func (r *Reader) peek() byte {
	return r.text[r.pos]
}

func (r *Reader) advance() {
	if r.text[r.pos] == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	r.pos++
}

func (r *Reader) describeChar() string {
	ch, _ := utf8.DecodeRuneInString(r.text[r.pos:])
	return fmt.Sprintf("%q (%d)", ch, ch)
}

func (r *Reader) errorAt(kind ErrorKind, loc SourceLocation, msg string) *Error {
	return &Error{Kind: kind, File: r.file, Location: loc, Message: msg}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSymbolChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		return true
	}
	switch ch {
	case '+', '-', '=', '*', '/', '>', '<', '?':
		return true
	}
	return false
}
