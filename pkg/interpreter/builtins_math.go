package interpreter

import (
	"minilisp/interpreter-go/pkg/runtime"
)

type binaryOp func(left, right runtime.Value) (runtime.Value, error)

// foldNumbers evaluates every operand left to right and folds them pairwise.
// At least two operands are required.
func (i *Interpreter) foldNumbers(form *runtime.ListValue, env *runtime.Environment, name string, op binaryOp) (runtime.Value, error) {
	if got := form.Len() - 1; got < 2 {
		return nil, evalErrorf(ErrArityMismatch, "%s needs at least two operands, %d given", name, got)
	}
	acc, err := i.eval(form.Elements[1], env)
	if err != nil {
		return nil, err
	}
	for _, expr := range form.Elements[2:] {
		operand, err := i.eval(expr, env)
		if err != nil {
			return nil, err
		}
		acc, err = op(acc, operand)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// binary evaluates exactly two operands and applies op.
func (i *Interpreter) binary(form *runtime.ListValue, env *runtime.Environment, name string, op binaryOp) (runtime.Value, error) {
	if got := form.Len() - 1; got != 2 {
		return nil, evalErrorf(ErrArityMismatch, "%s takes exactly 2 operands, %d given", name, got)
	}
	left, err := i.eval(form.Elements[1], env)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(form.Elements[2], env)
	if err != nil {
		return nil, err
	}
	return op(left, right)
}

func numberOperands(name string, left, right runtime.Value) (int64, int64, error) {
	l, lok := left.(*runtime.NumberValue)
	r, rok := right.(*runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, evalErrorf(ErrTypeMismatch, "%s expects numbers, got %s and %s", name, runtime.Inspect(left), runtime.Inspect(right))
	}
	return l.Val, r.Val, nil
}

func addValues(left, right runtime.Value) (runtime.Value, error) {
	if ls, ok := left.(*runtime.StringValue); ok {
		if rs, ok := right.(*runtime.StringValue); ok {
			return runtime.NewString(ls.Val + rs.Val), nil
		}
	}
	l, r, err := numberOperands("+", left, right)
	if err != nil {
		return nil, err
	}
	return runtime.NewNumber(l + r), nil
}

func subValues(left, right runtime.Value) (runtime.Value, error) {
	l, r, err := numberOperands("-", left, right)
	if err != nil {
		return nil, err
	}
	return runtime.NewNumber(l - r), nil
}

func mulValues(left, right runtime.Value) (runtime.Value, error) {
	l, r, err := numberOperands("*", left, right)
	if err != nil {
		return nil, err
	}
	return runtime.NewNumber(l * r), nil
}

func divValues(left, right runtime.Value) (runtime.Value, error) {
	l, r, err := numberOperands("/", left, right)
	if err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, evalErrorf(ErrDivisionByZero, "division by zero: %d / 0", l)
	}
	return runtime.NewNumber(l / r), nil
}

// powValues raises to an integer power. Negative exponents truncate toward zero.
func powValues(left, right runtime.Value) (runtime.Value, error) {
	base, exp, err := numberOperands("**", left, right)
	if err != nil {
		return nil, err
	}
	if exp < 0 {
		switch base {
		case 0:
			return nil, evalErrorf(ErrDivisionByZero, "division by zero: 0 ** %d", exp)
		case 1:
			return runtime.NewNumber(1), nil
		case -1:
			if exp%2 == 0 {
				return runtime.NewNumber(1), nil
			}
			return runtime.NewNumber(-1), nil
		default:
			return runtime.NewNumber(0), nil
		}
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return runtime.NewNumber(result), nil
}

func equalValues(left, right runtime.Value) (runtime.Value, error) {
	return runtime.Bool(runtime.Equal(left, right)), nil
}

func compareValues(name string, left, right runtime.Value) (int, error) {
	if ls, ok := left.(*runtime.StringValue); ok {
		if rs, ok := right.(*runtime.StringValue); ok {
			switch {
			case ls.Val < rs.Val:
				return -1, nil
			case ls.Val > rs.Val:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	l, r, err := numberOperands(name, left, right)
	if err != nil {
		return 0, err
	}
	switch {
	case l < r:
		return -1, nil
	case l > r:
		return 1, nil
	default:
		return 0, nil
	}
}

func greaterValues(left, right runtime.Value) (runtime.Value, error) {
	cmp, err := compareValues(">", left, right)
	if err != nil {
		return nil, err
	}
	return runtime.Bool(cmp > 0), nil
}

func lessValues(left, right runtime.Value) (runtime.Value, error) {
	cmp, err := compareValues("<", left, right)
	if err != nil {
		return nil, err
	}
	return runtime.Bool(cmp < 0), nil
}
