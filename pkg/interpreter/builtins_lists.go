package interpreter

import (
	"minilisp/interpreter-go/pkg/runtime"
)

func (i *Interpreter) listOperand(form *runtime.ListValue, env *runtime.Environment, name string) (*runtime.ListValue, error) {
	if err := expectArgs(form, name, 1); err != nil {
		return nil, err
	}
	val, err := i.eval(form.Elements[1], env)
	if err != nil {
		return nil, err
	}
	list, ok := val.(*runtime.ListValue)
	if !ok {
		return nil, evalErrorf(ErrTypeMismatch, "%s only operates on lists, got %s", name, runtime.Inspect(val))
	}
	return list, nil
}

// builtinListIndex backs car and cadr. Out of range positions yield nil.
func (i *Interpreter) builtinListIndex(form *runtime.ListValue, env *runtime.Environment, name string, idx int) (runtime.Value, error) {
	list, err := i.listOperand(form, env, name)
	if err != nil {
		return nil, err
	}
	return list.At(idx), nil
}

// builtinCdr copies everything past the first element into a new list. An
// empty list is returned as is.
func (i *Interpreter) builtinCdr(form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	list, err := i.listOperand(form, env, "cdr")
	if err != nil {
		return nil, err
	}
	if list.Len() < 1 {
		return list, nil
	}
	tail := make([]runtime.Value, list.Len()-1)
	copy(tail, list.Elements[1:])
	return runtime.NewDataList(tail), nil
}
