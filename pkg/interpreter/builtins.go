package interpreter

import (
	"fmt"

	"minilisp/interpreter-go/pkg/runtime"
)

const (
	opAdd runtime.Opcode = iota + 1
	opSub
	opMul
	opDiv
	opPow
	opEqual
	opGreater
	opLess
	opSetq
	opDefun
	opLambda
	opIf
	opCond
	opCar
	opCdr
	opCadr
	opPrint
	opMemtotal
	opTimeit
	opSleep
)

type builtinEntry struct {
	name string
	op   runtime.Opcode
}

// builtinCatalog is registered into the global frame in this order.
var builtinCatalog = []builtinEntry{
	{"+", opAdd},
	{"-", opSub},
	{"*", opMul},
	{"/", opDiv},
	{"**", opPow},
	{"=", opEqual},
	{">", opGreater},
	{"<", opLess},
	{"setq", opSetq},
	{"defun", opDefun},
	{"lambda", opLambda},
	{"if", opIf},
	{"cond", opCond},
	{"car", opCar},
	{"cdr", opCdr},
	{"cadr", opCadr},
	{"print", opPrint},
	{"memtotal", opMemtotal},
	{"timeit", opTimeit},
	{"sleep", opSleep},
}

// BuiltinNames lists the builtin catalog.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinCatalog))
	for _, entry := range builtinCatalog {
		names = append(names, entry.name)
	}
	return names
}

func (i *Interpreter) registerBuiltins() {
	for _, entry := range builtinCatalog {
		i.global.Define(entry.name, runtime.NewBuiltin(entry.name, entry.op))
	}
}

// callBuiltin runs a native operation on the unevaluated call form. Each
// builtin decides which operands to evaluate and when.
func (i *Interpreter) callBuiltin(fn *runtime.FunctionValue, form *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	switch fn.Op {
	case opAdd:
		return i.foldNumbers(form, env, "+", addValues)
	case opSub:
		return i.foldNumbers(form, env, "-", subValues)
	case opMul:
		return i.binary(form, env, "*", mulValues)
	case opDiv:
		return i.binary(form, env, "/", divValues)
	case opPow:
		return i.binary(form, env, "**", powValues)
	case opEqual:
		return i.binary(form, env, "=", equalValues)
	case opGreater:
		return i.binary(form, env, ">", greaterValues)
	case opLess:
		return i.binary(form, env, "<", lessValues)
	case opSetq:
		return i.builtinSetq(form, env)
	case opDefun:
		return i.builtinDefun(form, env)
	case opLambda:
		return i.builtinLambda(form, env)
	case opIf:
		return i.builtinIf(form, env)
	case opCond:
		return i.builtinCond(form, env)
	case opCar:
		return i.builtinListIndex(form, env, "car", 0)
	case opCadr:
		return i.builtinListIndex(form, env, "cadr", 1)
	case opCdr:
		return i.builtinCdr(form, env)
	case opPrint:
		return i.builtinPrint(form, env)
	case opMemtotal:
		return i.builtinMemtotal(form)
	case opTimeit:
		return i.builtinTimeit(form, env)
	case opSleep:
		return i.builtinSleep(form, env)
	default:
		return nil, fmt.Errorf("builtin %s has unknown opcode %d", fn.Name, fn.Op)
	}
}

// expectArgs checks that the call form carries exactly n operands.
func expectArgs(form *runtime.ListValue, name string, n int) error {
	if got := form.Len() - 1; got != n {
		return evalErrorf(ErrArityMismatch, "%s takes exactly %d argument%s, %d given", name, n, plural(n), got)
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
