package interpreter

import (
	"log/slog"

	"minilisp/interpreter-go/pkg/runtime"
)

// callFunction applies a user function to the call form. Arguments are
// evaluated in the caller's frame, then a new frame whose parent is the
// caller's frame is pushed for the body.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if i.depth > i.maxDepth {
		return nil, evalErrorf(ErrStackOverflow, "max call stack size reached (%d) calling %s", i.maxDepth, functionName(fn))
	}
	frame, err := i.bindArguments(fn, form.Elements[1:], env)
	if err != nil {
		return nil, err
	}

	i.depth++
	i.logger.Debug("push stack frame", slog.String("function", functionName(fn)), slog.Int("depth", i.depth))
	defer func() {
		i.depth--
		i.logger.Debug("pop stack frame", slog.String("function", functionName(fn)), slog.Int("depth", i.depth))
	}()

	var last runtime.Value = runtime.Nil
	for _, expr := range fn.Body {
		last, err = i.eval(expr, frame)
		if err != nil {
			return nil, err
		}
	}
	return last, nil
}

// bindArguments builds the callee frame. Parameters bind positionally; a
// missing argument binds nil and extra arguments are ignored unless the
// parameter list ends in ". rest", which collects them into a fresh list.
func (i *Interpreter) bindArguments(fn *runtime.FunctionValue, args []runtime.Value, env *runtime.Environment) (*runtime.Environment, error) {
	site, err := newCallSite(i, env, fn, args)
	if err != nil {
		return nil, err
	}
	frame := env.Extend()
	params := fn.Params
	for idx := 0; idx < len(params); idx++ {
		param := params[idx]
		if param == runtime.Dot {
			if idx != len(params)-2 {
				return nil, evalErrorf(ErrMalformedVariadic,
					"%s: the dot in a parameter list must be followed by exactly one rest parameter name", functionName(fn))
			}
			name, ok := params[idx+1].(*runtime.SymbolValue)
			if !ok {
				return nil, evalErrorf(ErrMalformedVariadic, "%s: rest parameter must be a symbol, got %s", functionName(fn), runtime.Inspect(params[idx+1]))
			}
			rest, err := site.rest(idx)
			if err != nil {
				return nil, err
			}
			frame.Define(name.Name, runtime.NewDataList(rest))
			return frame, nil
		}
		name, ok := param.(*runtime.SymbolValue)
		if !ok {
			return nil, evalErrorf(ErrMalformedForm, "%s: parameter %d must be a symbol, got %s", functionName(fn), idx, runtime.Inspect(param))
		}
		val, _, err := site.argument(idx)
		if err != nil {
			return nil, err
		}
		frame.Define(name.Name, val)
	}
	return frame, nil
}

// callSite hands out call arguments in order. A ". expr" pair at the end of
// the call splices the elements of the list expr evaluates to; expr is only
// evaluated once a position past the explicit arguments is requested.
type callSite struct {
	interp   *Interpreter
	env      *runtime.Environment
	fn       *runtime.FunctionValue
	exprs    []runtime.Value
	splice   runtime.Value
	spread   []runtime.Value
	expanded bool
}

func newCallSite(interp *Interpreter, env *runtime.Environment, fn *runtime.FunctionValue, args []runtime.Value) (*callSite, error) {
	site := &callSite{interp: interp, env: env, exprs: args, fn: fn}
	for idx, arg := range args {
		if arg != runtime.Dot {
			continue
		}
		if idx != len(args)-2 {
			return nil, evalErrorf(ErrMalformedVariadic,
				"error while calling %s: dot notation on the caller side must be followed by a list argument containing the variadic expansion",
				functionName(fn))
		}
		site.exprs = args[:idx]
		site.splice = args[idx+1]
		break
	}
	return site, nil
}

// argument returns the evaluated argument at position idx and whether the call
// supplied one. Missing arguments are nil.
func (c *callSite) argument(idx int) (runtime.Value, bool, error) {
	if idx < len(c.exprs) {
		val, err := c.interp.eval(c.exprs[idx], c.env)
		if err != nil {
			return nil, false, err
		}
		return val, true, nil
	}
	if err := c.expand(); err != nil {
		return nil, false, err
	}
	if pos := idx - len(c.exprs); pos < len(c.spread) {
		return c.spread[pos], true, nil
	}
	return runtime.Nil, false, nil
}

// rest evaluates every argument from position from onward.
func (c *callSite) rest(from int) ([]runtime.Value, error) {
	out := []runtime.Value{}
	for idx := from; ; idx++ {
		val, ok, err := c.argument(idx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, val)
	}
}

func (c *callSite) expand() error {
	if c.expanded || c.splice == nil {
		return nil
	}
	c.expanded = true
	val, err := c.interp.eval(c.splice, c.env)
	if err != nil {
		return err
	}
	list, ok := val.(*runtime.ListValue)
	if !ok {
		return evalErrorf(ErrMalformedVariadic,
			"error while calling %s: dot operator on the caller side should always be followed by a list argument, got %s",
			functionName(c.fn), runtime.Inspect(val))
	}
	c.spread = append([]runtime.Value(nil), list.Elements...)
	return nil
}

func functionName(fn *runtime.FunctionValue) string {
	if fn.Lambda || fn.Name == "" {
		return "<lambda>"
	}
	return fn.Name
}
