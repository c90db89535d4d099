package interpreter

import (
	"minilisp/interpreter-go/pkg/runtime"
)

// eval reduces v in env. Evaluated values come back unchanged, symbols resolve
// through the frame chain, quoted lists evaluate their elements in place and
// plain lists are calls.
func (i *Interpreter) eval(v runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	if runtime.IsEvaluated(v) {
		return v, nil
	}
	switch val := v.(type) {
	case *runtime.SymbolValue:
		return i.evaluateSymbol(val, env)
	case *runtime.ListValue:
		if runtime.IsListLiteral(val) {
			return i.evaluateLiteralList(val, env)
		}
		return i.evaluateCall(val, env)
	default:
		return v, nil
	}
}

// evaluateSymbol resolves the nearest binding. A binding that is not yet in
// final form is evaluated once and the result is written back into the frame
// that held it.
func (i *Interpreter) evaluateSymbol(sym *runtime.SymbolValue, env *runtime.Environment) (runtime.Value, error) {
	bound, frame, ok := env.Lookup(sym.Name)
	if !ok {
		return i.recoverable(evalErrorf(ErrUnboundSymbol, "symbol not found: %q", sym.Name))
	}
	if runtime.IsEvaluated(bound) {
		return bound, nil
	}
	res, err := i.eval(bound, env)
	if err != nil {
		return nil, err
	}
	res.Mark(runtime.FlagEvaluated)
	frame.Define(sym.Name, res)
	return res, nil
}

func (i *Interpreter) evaluateLiteralList(list *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	for idx, el := range list.Elements {
		res, err := i.eval(el, env)
		if err != nil {
			return nil, err
		}
		list.Elements[idx] = res
	}
	list.Mark(runtime.FlagEvaluated)
	return list, nil
}

func (i *Interpreter) evaluateCall(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if form.Len() == 0 {
		return form, nil
	}
	callee, err := i.eval(form.Elements[0], env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*runtime.FunctionValue)
	if !ok {
		return i.recoverable(evalErrorf(ErrNotCallable, "%q is not callable", runtime.Display(callee)))
	}
	var result runtime.Value
	if fn.IsBuiltin() {
		result, err = i.callBuiltin(fn, form, env)
	} else {
		result, err = i.callFunction(fn, form, env)
	}
	if err != nil {
		return i.recoverable(err)
	}
	return result, nil
}
