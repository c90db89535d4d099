package interpreter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"minilisp/interpreter-go/pkg/runtime"
)

// builtinPrint writes every evaluated operand, without separators, followed by a newline.
func (i *Interpreter) builtinPrint(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	var b strings.Builder
	for _, expr := range form.Elements[1:] {
		val, err := i.eval(expr, env)
		if err != nil {
			return nil, err
		}
		b.WriteString(runtime.Display(val))
	}
	b.WriteByte('\n')
	if _, err := fmt.Fprint(i.out, b.String()); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return runtime.Nil, nil
}

func (i *Interpreter) builtinMemtotal(form *runtime.ListValue) (runtime.Value, error) {
	if err := expectArgs(form, "memtotal", 0); err != nil {
		return nil, err
	}
	return runtime.NewNumber(int64(i.host.MemoryUsage())), nil
}

// builtinTimeit evaluates its operand, discards the result and returns the
// elapsed wall time in milliseconds as text.
func (i *Interpreter) builtinTimeit(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if err := expectArgs(form, "timeit", 1); err != nil {
		return nil, err
	}
	start := i.host.Now()
	if _, err := i.eval(form.Elements[1], env); err != nil {
		return nil, err
	}
	elapsed := i.host.Now().Sub(start)
	ms := float64(elapsed) / float64(time.Millisecond)
	return runtime.NewString(strconv.FormatFloat(ms, 'f', 6, 64)), nil
}

// builtinSleep blocks the evaluation for the given number of milliseconds.
func (i *Interpreter) builtinSleep(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if err := expectArgs(form, "sleep", 1); err != nil {
		return nil, err
	}
	val, err := i.eval(form.Elements[1], env)
	if err != nil {
		return nil, err
	}
	ms, ok := val.(*runtime.NumberValue)
	if !ok || ms.Val < 0 {
		return nil, evalErrorf(ErrTypeMismatch, "sleep expects a non-negative number of milliseconds, got %s", runtime.Inspect(val))
	}
	i.host.Sleep(time.Duration(ms.Val) * time.Millisecond)
	return runtime.Nil, nil
}
