package eval

import "github.com/wdlkit/wdlkit/pkg/wdl"

// Env is an immutable value-binding chain, the runtime counterpart of
// internal/checker.Scope: declarations thread a new Env left-to-right
// rather than mutating one in place (spec.md §4.5), so a captured Env
// (e.g. inside a scatter iteration) never observes a later binding.
type Env struct {
	parent *Env
	name   string
	value  wdl.Value
}

// NewEnv returns the empty root environment.
func NewEnv() *Env { return nil }

// With returns a new environment extending e with one additional
// binding, shadowing any outer binding of the same name.
func (e *Env) With(name string, v wdl.Value) *Env {
	return &Env{parent: e, name: name, value: v}
}

// Lookup resolves name against e and its ancestors, innermost first.
func (e *Env) Lookup(name string) (wdl.Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.value, true
		}
	}
	return wdl.Value{}, false
}
