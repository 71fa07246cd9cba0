package environment

import (
	"testing"

	"zrv/internal/token"
	"zrv/internal/value"
)

func ident(name string) *token.Token {
	return token.New(token.IDENTIFIER, name, 1, 0, len(name))
}

func TestDefineAndGet(t *testing.T) {
	env := New(nil)
	env.Define("x", value.NewInt(1))

	v, err := env.Get(ident("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := v.(value.Number); !ok || n.Int64() != 1 {
		t.Errorf("got %#v, want Int(1)", v)
	}
}

func TestGetUndefinedIsAnError(t *testing.T) {
	env := New(nil)
	if _, err := env.Get(ident("missing")); err == nil {
		t.Fatalf("expected an undefined-variable error")
	}
}

func TestGetWalksEnclosingChain(t *testing.T) {
	outer := New(nil)
	outer.Define("x", value.NewInt(1))
	inner := New(outer)

	v, err := inner.Get(ident("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := v.(value.Number); n.Int64() != 1 {
		t.Errorf("got %v, want 1", n.Int64())
	}
}

func TestAssignRebindsOwningScope(t *testing.T) {
	outer := New(nil)
	outer.Define("x", value.NewInt(1))
	inner := New(outer)

	if err := inner.Assign(ident("x"), value.NewInt(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.HasLocal("x") {
		t.Errorf("assign through an enclosing scope should not shadow locally")
	}
	v, _ := outer.Get(ident("x"))
	if v.(value.Number).Int64() != 2 {
		t.Errorf("got %v, want 2 in the owning scope", v)
	}
}

func TestAssignUndefinedIsAnError(t *testing.T) {
	env := New(nil)
	if err := env.Assign(ident("missing"), value.NewInt(1)); err == nil {
		t.Fatalf("expected an undefined-variable error")
	}
}

func TestShadowing(t *testing.T) {
	outer := New(nil)
	outer.Define("x", value.NewInt(1))
	inner := New(outer)
	inner.Define("x", value.NewInt(99))

	v, _ := inner.Get(ident("x"))
	if v.(value.Number).Int64() != 99 {
		t.Errorf("inner scope should shadow outer, got %v", v)
	}
	outerV, _ := outer.Get(ident("x"))
	if outerV.(value.Number).Int64() != 1 {
		t.Errorf("shadowing a name should not mutate the outer binding, got %v", outerV)
	}
}

func TestHasLocalVsHas(t *testing.T) {
	outer := New(nil)
	outer.Define("x", value.NewInt(1))
	inner := New(outer)

	if inner.HasLocal("x") {
		t.Errorf("HasLocal should not see the enclosing scope's bindings")
	}
	if !inner.Has("x") {
		t.Errorf("Has should walk the enclosing scope")
	}
}
