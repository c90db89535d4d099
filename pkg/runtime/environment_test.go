package runtime

import (
	"reflect"
	"testing"
)

func TestEnvironmentShadowing(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", NewNumber(1))
	global.Define("y", NewNumber(2))
	local := global.Extend()
	local.Define("x", NewNumber(10))

	val, frame, ok := local.Lookup("x")
	if !ok || frame != local {
		t.Fatalf("expected x in local frame, got frame=%p ok=%v", frame, ok)
	}
	if n := val.(*NumberValue).Val; n != 10 {
		t.Fatalf("expected shadowed x=10, got %d", n)
	}

	val, frame, ok = local.Lookup("y")
	if !ok || frame != global {
		t.Fatalf("expected y in global frame")
	}
	if n := val.(*NumberValue).Val; n != 2 {
		t.Fatalf("expected y=2, got %d", n)
	}

	gx, err := global.Get("x")
	if err != nil {
		t.Fatalf("global lookup failed: %v", err)
	}
	if n := gx.(*NumberValue).Val; n != 1 {
		t.Fatalf("child binding leaked into parent: x=%d", n)
	}
}

func TestEnvironmentMissingBinding(t *testing.T) {
	env := NewEnvironment(nil).Extend()
	if _, _, ok := env.Lookup("missing"); ok {
		t.Fatalf("expected lookup miss")
	}
	if _, err := env.Get("missing"); err == nil {
		t.Fatalf("expected error for undefined symbol")
	}
}

func TestEnvironmentParentAndKeys(t *testing.T) {
	global := NewEnvironment(nil)
	if !global.IsGlobal() || global.Parent() != nil {
		t.Fatalf("expected root frame to be global")
	}
	child := global.Extend()
	if child.IsGlobal() || child.Parent() != global {
		t.Fatalf("expected child frame to link to global")
	}
	child.Define("b", Nil)
	child.Define("a", Nil)
	if got, want := child.Keys(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}
