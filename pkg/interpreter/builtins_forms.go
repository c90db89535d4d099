package interpreter

import (
	"minilisp/interpreter-go/pkg/runtime"
)

// builtinSetq binds the evaluated second operand to the literal name in the
// first operand, in the current frame.
func (i *Interpreter) builtinSetq(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if err := expectArgs(form, "setq", 2); err != nil {
		return nil, err
	}
	name, ok := form.Elements[1].(*runtime.SymbolValue)
	if !ok {
		return nil, evalErrorf(ErrTypeMismatch, "setq expects a symbol name, got %s", runtime.Inspect(form.Elements[1]))
	}
	val, err := i.eval(form.Elements[2], env)
	if err != nil {
		return nil, err
	}
	env.Define(name.Name, val)
	return runtime.Nil, nil
}

// builtinDefun handles (defun (name params...) body...).
func (i *Interpreter) builtinDefun(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if form.Len() < 3 {
		return nil, evalErrorf(ErrArityMismatch, "function should have an argument list and a body")
	}
	signature, ok := form.Elements[1].(*runtime.ListValue)
	if !ok {
		return nil, evalErrorf(ErrTypeMismatch, "function definition list should be a list, got %s", runtime.Inspect(form.Elements[1]))
	}
	if signature.Len() == 0 {
		return nil, evalErrorf(ErrMalformedForm, "function definition list needs a name")
	}
	name, ok := signature.Elements[0].(*runtime.SymbolValue)
	if !ok {
		return nil, evalErrorf(ErrMalformedForm, "function name must be a symbol, got %s", runtime.Inspect(signature.Elements[0]))
	}
	fn := runtime.NewUserFunction(name.Name, signature.Elements[1:], form.Elements[2:], false)
	env.Define(name.Name, fn)
	return fn, nil
}

// builtinLambda handles (lambda (params...) body...).
func (i *Interpreter) builtinLambda(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if form.Len() < 3 {
		return nil, evalErrorf(ErrArityMismatch, "lambdas should have an argument list and a body")
	}
	params, ok := form.Elements[1].(*runtime.ListValue)
	if !ok {
		return nil, evalErrorf(ErrTypeMismatch, "first parameter of lambda should be a list, got %s", runtime.Inspect(form.Elements[1]))
	}
	return runtime.NewUserFunction("", params.Elements, form.Elements[2:], true), nil
}

// builtinIf evaluates the condition and exactly one branch.
func (i *Interpreter) builtinIf(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if got := form.Len() - 1; got != 3 {
		return nil, evalErrorf(ErrArityMismatch,
			"if takes exactly 3 arguments: condition, then, and else blocks; %d given", got)
	}
	cond, err := i.eval(form.Elements[1], env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.eval(form.Elements[2], env)
	}
	return i.eval(form.Elements[3], env)
}

// builtinCond tries (guard consequent) clauses in order. The first guard that
// is truthy or evaluates to the else marker selects its consequent.
func (i *Interpreter) builtinCond(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	if form.Len() < 2 {
		return nil, evalErrorf(ErrArityMismatch, "cond requires at least one condition pair argument")
	}
	for _, raw := range form.Elements[1:] {
		clause, ok := raw.(*runtime.ListValue)
		if !ok || clause.Len() == 0 {
			return nil, evalErrorf(ErrMalformedForm, "cond clause must be a (condition value) pair, got %s", runtime.Inspect(raw))
		}
		guard, err := i.eval(clause.Elements[0], env)
		if err != nil {
			return nil, err
		}
		if guard == runtime.Else || runtime.Truthy(guard) {
			return i.eval(clause.At(1), env)
		}
	}
	return runtime.Nil, nil
}
