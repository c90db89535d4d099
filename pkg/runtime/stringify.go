package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Display renders v the way print shows it: strings appear without quotes.
func Display(v Value) string {
	var b strings.Builder
	render(&b, v, false, true)
	return b.String()
}

// Inspect renders v as re-readable source where possible: strings are quoted
// and literal lists keep their quote prefix.
func Inspect(v Value) string {
	var b strings.Builder
	render(&b, v, true, true)
	return b.String()
}

func render(b *strings.Builder, v Value, quoted bool, top bool) {
	switch val := v.(type) {
	case nil:
		b.WriteString("nil")
	case *NilValue:
		b.WriteString("nil")
	case *BoolValue:
		if val.Val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *NumberValue:
		b.WriteString(strconv.FormatInt(val.Val, 10))
	case *StringValue:
		if quoted || !top {
			b.WriteByte('"')
			b.WriteString(val.Val)
			b.WriteByte('"')
		} else {
			b.WriteString(val.Val)
		}
	case *SymbolValue:
		b.WriteString(val.Name)
	case *SentinelValue:
		b.WriteString(val.Name)
	case *ListValue:
		if quoted && val.Flags()&FlagListLiteral != 0 {
			b.WriteByte('\'')
		}
		b.WriteByte('(')
		for idx, el := range val.Elements {
			if idx > 0 {
				b.WriteByte(' ')
			}
			render(b, el, quoted, false)
		}
		b.WriteByte(')')
	case *FunctionValue:
		switch {
		case val.IsBuiltin():
			fmt.Fprintf(b, "<builtin %s>", val.Name)
		case val.Lambda:
			b.WriteString("<lambda>")
		default:
			fmt.Fprintf(b, "<function %s>", val.Name)
		}
	default:
		fmt.Fprintf(b, "<%s>", v.Kind())
	}
}

// Equal compares two values structurally. Functions and sentinels compare by identity.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *NilValue:
		return true
	case *BoolValue:
		return av.Val == b.(*BoolValue).Val
	case *NumberValue:
		return av.Val == b.(*NumberValue).Val
	case *StringValue:
		return av.Val == b.(*StringValue).Val
	case *SymbolValue:
		return av.Name == b.(*SymbolValue).Name
	case *ListValue:
		bv := b.(*ListValue)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for idx := range av.Elements {
			if !Equal(av.Elements[idx], bv.Elements[idx]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
