// Package wdl defines the data model shared by every stage of the WDL
// front end: source spans, the type lattice, runtime values, the
// version-neutral AST, and the standard-library prototype table.
package wdl

import "fmt"

// Span identifies a region of source text. Lines and columns are
// 1-based; the end column is exclusive, matching how most editors
// report selections.
type Span struct {
	SourceURI string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String renders a span as "uri:line:col-line:col" for error messages.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.SourceURI, s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// Join returns the smallest span covering both a and b. Both must
// belong to the same source document.
func Join(a, b Span) Span {
	out := Span{SourceURI: a.SourceURI}
	if before(a.StartLine, a.StartCol, b.StartLine, b.StartCol) {
		out.StartLine, out.StartCol = a.StartLine, a.StartCol
	} else {
		out.StartLine, out.StartCol = b.StartLine, b.StartCol
	}
	if before(a.EndLine, a.EndCol, b.EndLine, b.EndCol) {
		out.EndLine, out.EndCol = b.EndLine, b.EndCol
	} else {
		out.EndLine, out.EndCol = a.EndLine, a.EndCol
	}
	return out
}

func before(l1, c1, l2, c2 int) bool {
	if l1 != l2 {
		return l1 < l2
	}
	return c1 < c2
}

// Comment is one parsed comment, either standalone ("## text",
// Preformatted=true) or a regular trailing/leading comment.
type Comment struct {
	Text          string
	Preformatted  bool
	Span          Span
}

// CommentMap is a sorted mapping from source line number to the
// comment found on that line. It supports range queries used to
// attach comments to the nearest following (or, for end-of-line
// comments, preceding) syntactic element.
type CommentMap struct {
	byLine map[int]Comment
	lines  []int // sorted
}

// NewCommentMap returns an empty comment map.
func NewCommentMap() *CommentMap {
	return &CommentMap{byLine: make(map[int]Comment)}
}

// Add records a comment at its starting line. Comments are expected to
// be added in increasing line order (the lexer emits them that way);
// Add re-sorts defensively if not.
func (m *CommentMap) Add(c Comment) {
	line := c.Span.StartLine
	if _, exists := m.byLine[line]; !exists {
		m.lines = append(m.lines, line)
	}
	m.byLine[line] = c
	if n := len(m.lines); n > 1 && m.lines[n-1] < m.lines[n-2] {
		sortInts(m.lines)
	}
}

// At returns the comment on the given line, if any.
func (m *CommentMap) At(line int) (Comment, bool) {
	c, ok := m.byLine[line]
	return c, ok
}

// Range returns every comment whose start line is in [startLine, endLine).
func (m *CommentMap) Range(startLine, endLine int) []Comment {
	var out []Comment
	for _, l := range m.lines {
		if l >= startLine && l < endLine {
			out = append(out, m.byLine[l])
		}
		if l >= endLine {
			break
		}
	}
	return out
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
