package checker

import "github.com/wdlkit/wdlkit/pkg/wdl"

// Scope is a lexical binding chain, grounded on the parent-pointer
// symbol table pattern used throughout the pack's WDL front ends: a
// scatter or conditional body opens a child scope over its enclosing
// workflow scope, and Resolve walks outward until a binding or the
// root is found.
type Scope struct {
	parent *Scope
	names  map[string]*wdl.Type
}

// NewScope opens a root scope with no parent.
func NewScope() *Scope {
	return &Scope{names: map[string]*wdl.Type{}}
}

// Child opens a nested scope over s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, names: map[string]*wdl.Type{}}
}

// Define binds name to t in this scope. It reports whether name was
// already visible before the bind: redeclared is set if name was
// already bound in this exact scope, shadowed if it was only visible
// through an enclosing scope. Callers use these to surface spec.md
// §4.4's redeclaration and shadowing TypeErrors instead of letting the
// bind silently overwrite the existing name.
func (s *Scope) Define(name string, t *wdl.Type) (redeclared, shadowed bool) {
	_, local := s.names[name]
	_, visible := s.Resolve(name)
	s.names[name] = t
	return local, visible && !local
}

// Resolve looks up name in this scope or any enclosing scope.
func (s *Scope) Resolve(name string) (*wdl.Type, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if t, ok := scope.names[name]; ok {
			return t, true
		}
	}
	return nil, false
}
