package eval

import (
	"testing"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

func TestEnv_LookupMissing(t *testing.T) {
	env := NewEnv()
	if _, ok := env.Lookup("x"); ok {
		t.Error("expected lookup on empty env to fail")
	}
}

func TestEnv_WithAndLookup(t *testing.T) {
	env := NewEnv().With("x", wdl.IntValue(1))
	v, ok := env.Lookup("x")
	if !ok || v.Int != 1 {
		t.Errorf("Lookup(x) = %v, %v; want IntValue(1), true", v, ok)
	}
}

func TestEnv_InnermostShadowsOuter(t *testing.T) {
	env := NewEnv().With("x", wdl.IntValue(1)).With("x", wdl.IntValue(2))
	v, ok := env.Lookup("x")
	if !ok || v.Int != 2 {
		t.Errorf("Lookup(x) = %v, %v; want IntValue(2), true", v, ok)
	}
}

func TestEnv_WithDoesNotMutateParent(t *testing.T) {
	base := NewEnv().With("x", wdl.IntValue(1))
	_ = base.With("x", wdl.IntValue(99))

	v, ok := base.Lookup("x")
	if !ok || v.Int != 1 {
		t.Errorf("parent env mutated: Lookup(x) = %v, %v; want IntValue(1), true", v, ok)
	}
}
