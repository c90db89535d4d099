package runtime

import "fmt"

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindSymbol
	KindList
	KindFunction
	KindSentinel
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindFunction:
		return "function"
	case KindSentinel:
		return "sentinel"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Flags is the per-value flag set.
type Flags uint8

const (
	// FlagEvaluated marks a value in final form. Evaluating it again returns it unchanged.
	FlagEvaluated Flags = 1 << iota
	// FlagListLiteral marks a quoted list: its elements are evaluated in place
	// instead of the list being treated as a call.
	FlagListLiteral
)

// Value is the shared behaviour for all runtime values. Values are always
// handled through pointers so flag updates are visible to every holder.
type Value interface {
	Kind() Kind
	Flags() Flags
	Mark(Flags)
}

type header struct {
	flags Flags
}

func (h *header) Flags() Flags { return h.flags }

func (h *header) Mark(f Flags) { h.flags |= f }

// IsEvaluated reports whether v carries FlagEvaluated.
func IsEvaluated(v Value) bool {
	return v.Flags()&FlagEvaluated != 0
}

// IsListLiteral reports whether v is a quoted list.
func IsListLiteral(v Value) bool {
	return v.Kind() == KindList && v.Flags()&FlagListLiteral != 0
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct {
	header
}

func (*NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	header
	Val bool
}

func (*BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	header
	Val int64
}

func (*NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	header
	Val string
}

func (*StringValue) Kind() Kind { return KindString }

// SymbolValue is a lookup key. Symbols are never marked evaluated; resolving one
// rewrites the environment slot it names instead.
type SymbolValue struct {
	header
	Name string
}

func (*SymbolValue) Kind() Kind { return KindSymbol }

// SentinelValue is a reserved marker compared by identity (the dot token and
// the cond else marker).
type SentinelValue struct {
	header
	Name string
}

func (*SentinelValue) Kind() Kind { return KindSentinel }

var (
	// Nil is the shared nil value.
	Nil = &NilValue{header: header{flags: FlagEvaluated}}
	// True and False are the shared boolean values.
	True  = &BoolValue{header: header{flags: FlagEvaluated}, Val: true}
	False = &BoolValue{header: header{flags: FlagEvaluated}, Val: false}
	// Dot introduces variadic binding in parameter lists and call sites.
	Dot = &SentinelValue{header: header{flags: FlagEvaluated}, Name: "."}
	// Else always matches as a cond guard.
	Else = &SentinelValue{header: header{flags: FlagEvaluated}, Name: "else"}
)

// Bool returns the shared boolean value for b.
func Bool(b bool) *BoolValue {
	if b {
		return True
	}
	return False
}

func NewNumber(n int64) *NumberValue {
	return &NumberValue{header: header{flags: FlagEvaluated}, Val: n}
}

func NewString(s string) *StringValue {
	return &StringValue{header: header{flags: FlagEvaluated}, Val: s}
}

func NewSymbol(name string) *SymbolValue {
	return &SymbolValue{Name: name}
}

//-----------------------------------------------------------------------------
// Lists
//-----------------------------------------------------------------------------

// ListValue owns an ordered sequence of child values.
type ListValue struct {
	header
	Elements []Value
}

func (*ListValue) Kind() Kind { return KindList }

// NewList builds a plain (call form) list.
func NewList(elems ...Value) *ListValue {
	return &ListValue{Elements: elems}
}

// NewLiteralList builds a quoted list.
func NewLiteralList(elems ...Value) *ListValue {
	return &ListValue{header: header{flags: FlagListLiteral}, Elements: elems}
}

// NewDataList builds a list whose elements are already final values.
func NewDataList(elems []Value) *ListValue {
	if elems == nil {
		elems = []Value{}
	}
	return &ListValue{header: header{flags: FlagEvaluated | FlagListLiteral}, Elements: elems}
}

func (l *ListValue) Len() int { return len(l.Elements) }

// At returns the element at idx, or Nil when idx is out of range.
func (l *ListValue) At(idx int) Value {
	if idx < 0 || idx >= len(l.Elements) {
		return Nil
	}
	return l.Elements[idx]
}

func (l *ListValue) Append(v Value) {
	l.Elements = append(l.Elements, v)
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// Opcode identifies a native builtin operation. OpUser marks a user-defined function.
type Opcode int

const OpUser Opcode = 0

// FunctionValue is either a builtin (Op != OpUser) or a user function defined
// by defun or lambda.
type FunctionValue struct {
	header
	Name   string
	Op     Opcode
	Params []Value
	Body   []Value
	Lambda bool
}

func (*FunctionValue) Kind() Kind { return KindFunction }

// NewBuiltin wraps a native operation.
func NewBuiltin(name string, op Opcode) *FunctionValue {
	return &FunctionValue{header: header{flags: FlagEvaluated}, Name: name, Op: op}
}

// NewUserFunction builds a defun (named) or lambda (anonymous) function.
func NewUserFunction(name string, params, body []Value, lambda bool) *FunctionValue {
	return &FunctionValue{
		header: header{flags: FlagEvaluated},
		Name:   name,
		Op:     OpUser,
		Params: params,
		Body:   body,
		Lambda: lambda,
	}
}

func (f *FunctionValue) IsBuiltin() bool { return f.Op != OpUser }

// Truthy treats nil and false as false and everything else as true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case *BoolValue:
		return val.Val
	case *NilValue:
		return false
	default:
		return true
	}
}
