// Package importresolve implements component C7 of spec.md §4.7: it
// walks a document's import graph, canonicalizing URIs, detecting
// cycles, and stitching imported struct/task/workflow symbols into
// each importing document's namespace.
package importresolve

import (
	"context"

	"github.com/wdlkit/wdlkit/internal/astlower"
	"github.com/wdlkit/wdlkit/internal/parser"
	"github.com/wdlkit/wdlkit/internal/source"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// Resolver walks and resolves a document's transitive imports.
type Resolver struct {
	src *source.Resolver
	// docs caches already-parsed documents by canonical URI so a
	// diamond-shaped import graph parses each file exactly once.
	docs map[string]*wdl.Document
}

// New builds a Resolver backed by src.
func New(src *source.Resolver) *Resolver {
	return &Resolver{src: src, docs: map[string]*wdl.Document{}}
}

// Resolve parses sourceURI and recursively resolves its imports,
// returning the root document with every Import.Document populated.
// A cycle anywhere in the graph is reported as a fatal ImportError
// naming the cycle (spec.md §4.7).
func (r *Resolver) Resolve(ctx context.Context, sourceURI string) (*wdl.Document, error) {
	return r.resolve(ctx, "", sourceURI, map[string]bool{})
}

func (r *Resolver) resolve(ctx context.Context, baseURI, uri string, onStack map[string]bool) (*wdl.Document, error) {
	data, canonical, err := r.src.Read(ctx, baseURI, uri)
	if err != nil {
		return nil, wdl.NewImportError(uri, "%v", err)
	}
	if onStack[canonical] {
		return nil, wdl.NewImportError(canonical, "import cycle detected at %q", canonical)
	}
	if cached, ok := r.docs[canonical]; ok {
		return cached, nil
	}

	doc, err := parser.ParseDocument(canonical, string(data))
	if err != nil {
		return nil, err
	}
	doc, err = astlower.Lower(doc)
	if err != nil {
		return nil, err
	}

	onStack[canonical] = true
	defer delete(onStack, canonical)

	for _, imp := range doc.Imports {
		child, err := r.resolve(ctx, canonical, imp.URI, onStack)
		if err != nil {
			return nil, err
		}
		imp.Document = child
		if imp.Namespace == "" {
			imp.Namespace = baseNameOf(imp.URI)
		}
		if err := checkStructIdentity(doc, child, imp); err != nil {
			return nil, err
		}
	}

	r.docs[canonical] = doc
	return doc, nil
}

// checkStructIdentity enforces spec.md §4.7's rule: two structs of the
// same name reachable in one document's namespace (directly or via
// distinct import paths) must be structurally identical, or importing
// fails with an ImportError.
func checkStructIdentity(into, from *wdl.Document, imp *wdl.Import) error {
	seen := map[string]*wdl.StructDef{}
	for _, sd := range into.Structs {
		seen[sd.Name] = sd
	}
	for _, other := range into.Imports {
		if other == imp || other.Document == nil {
			continue
		}
		for _, sd := range other.Document.Structs {
			name := sd.Name
			if alias, ok := other.StructAliases[sd.Name]; ok {
				name = alias
			}
			seen[name] = sd
		}
	}
	for _, sd := range from.Structs {
		name := sd.Name
		if alias, ok := imp.StructAliases[sd.Name]; ok {
			name = alias
		}
		if existing, ok := seen[name]; ok && !sameShape(existing, sd) {
			return wdl.NewImportError(from.SourceURI,
				"struct %q imported from %q conflicts with a differently-shaped struct of the same name", name, from.SourceURI)
		}
	}
	return nil
}

// sameShape compares two struct definitions member-by-member by name
// and declared type spelling (spec.md §4.7: "structural equality").
func sameShape(a, b *wdl.StructDef) bool {
	if len(a.Members) != len(b.Members) {
		return false
	}
	bm := map[string]string{}
	for _, m := range b.Members {
		bm[m.Name] = typeRefString(m.Type)
	}
	for _, m := range a.Members {
		if bm[m.Name] != typeRefString(m.Type) {
			return false
		}
	}
	return true
}

func typeRefString(t *wdl.TypeRef) string {
	s := t.Name
	if len(t.Elems) > 0 {
		s += "["
		for i, e := range t.Elems {
			if i > 0 {
				s += ","
			}
			s += typeRefString(e)
		}
		s += "]"
	}
	if t.NonEmpty {
		s += "+"
	}
	if t.Optional {
		s += "?"
	}
	return s
}

func baseNameOf(uri string) string {
	start := 0
	for i := len(uri) - 1; i >= 0; i-- {
		if uri[i] == '/' {
			start = i + 1
			break
		}
	}
	name := uri[start:]
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}

// AllDocuments flattens the import graph rooted at doc into a
// canonical-URI-keyed map, used by internal/checker to resolve
// namespace-qualified references (`ns.Task`).
func AllDocuments(doc *wdl.Document) map[string]*wdl.Document {
	out := map[string]*wdl.Document{doc.SourceURI: doc}
	collect(doc, out)
	return out
}

func collect(doc *wdl.Document, out map[string]*wdl.Document) {
	for _, imp := range doc.Imports {
		if imp.Document == nil {
			continue
		}
		if _, ok := out[imp.Document.SourceURI]; ok {
			continue
		}
		out[imp.Document.SourceURI] = imp.Document
		collect(imp.Document, out)
	}
}
