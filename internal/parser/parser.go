// Package parser implements the version-dispatched CST parser of
// spec.md §4.1 (component C2). One recursive-descent grammar core is
// shared by draft-2, 1.0 and 1.1, parameterized by VersionFeatures;
// each parsed node carries a source Span, and top-level comments are
// collected into a wdl.CommentMap alongside the document.
package parser

import (
	"strconv"

	"github.com/wdlkit/wdlkit/internal/lexer"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// Parser holds one token of lookahead over a lexer.Lexer, plus a
// second slot used only to disambiguate a placeholder option name
// (`true`, `false`, `default`, `sep`) from a bare variable reference
// of the same name: the option form is always immediately followed by
// `=`.
type Parser struct {
	uri      string
	lex      *lexer.Lexer
	features VersionFeatures
	cur      lexer.Token
	peeked   *lexer.Token
}

// ParseDocument scans sourceURI's text end to end and returns the
// version-neutral AST the parser builds directly, or the first
// SyntaxError encountered.
func ParseDocument(sourceURI, src string) (*wdl.Document, error) {
	p := &Parser{uri: sourceURI, lex: lexer.New(sourceURI, src)}
	if err := p.bump(); err != nil {
		return nil, err
	}
	return p.parseDocument()
}

func (p *Parser) bump() error {
	if p.peeked != nil {
		p.cur = *p.peeked
		p.peeked = nil
		return nil
	}
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// peekNext returns the token after p.cur without consuming it,
// caching it so the next bump reuses it instead of re-scanning.
func (p *Parser) peekNext() (lexer.Token, error) {
	if p.peeked == nil {
		tok, err := p.lex.Next()
		if err != nil {
			return lexer.Token{}, err
		}
		p.peeked = &tok
	}
	return *p.peeked, nil
}

func (p *Parser) isKeyword(kw string) bool {
	return p.cur.Kind == lexer.TokKeyword && p.cur.Text == kw
}

func (p *Parser) expectKeyword(kw string) (wdl.Span, error) {
	if !p.isKeyword(kw) {
		return wdl.Span{}, wdl.NewSyntaxError(p.cur.Span, "expected %q, found %q", kw, p.cur.Text)
	}
	span := p.cur.Span
	return span, p.bump()
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	if p.cur.Kind != kind {
		return lexer.Token{}, wdl.NewSyntaxError(p.cur.Span, "expected %s, found %q", kind, p.cur.Text)
	}
	tok := p.cur
	return tok, p.bump()
}

func (p *Parser) expectIdent() (lexer.Token, error) {
	if p.cur.Kind != lexer.TokIdent && p.cur.Kind != lexer.TokKeyword {
		return lexer.Token{}, wdl.NewSyntaxError(p.cur.Span, "expected identifier, found %q", p.cur.Text)
	}
	tok := p.cur
	return tok, p.bump()
}

func (p *Parser) parseDocument() (*wdl.Document, error) {
	start := p.cur.Span
	doc := &wdl.Document{SourceURI: p.uri, Version: "draft-2"}

	if p.isKeyword("version") {
		if err := p.bump(); err != nil {
			return nil, err
		}
		// `1.0`/`1.1` lex as a float literal; `draft-2` lexes as an
		// identifier, a minus and an int.
		if p.cur.Kind == lexer.TokFloatLit {
			p.cur.Kind = lexer.TokIdent
		}
		tok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		doc.Version = tok.Text
		if tok.Text == "draft" && p.cur.Kind == lexer.TokMinus {
			if err := p.bump(); err != nil {
				return nil, err
			}
			num, err := p.expect(lexer.TokIntLit)
			if err != nil {
				return nil, err
			}
			doc.Version += "-" + num.Text
		}
	}
	p.features = Features(doc.Version)

	for p.cur.Kind != lexer.TokEOF {
		switch {
		case p.isKeyword("import"):
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			doc.Imports = append(doc.Imports, imp)
		case p.isKeyword("struct"):
			if !p.features.AllowStructs {
				return nil, wdl.NewSyntaxError(p.cur.Span, "struct definitions require WDL 1.0 or later")
			}
			sd, err := p.parseStructDef()
			if err != nil {
				return nil, err
			}
			doc.Structs = append(doc.Structs, sd)
		case p.isKeyword("task"):
			t, err := p.parseTask()
			if err != nil {
				return nil, err
			}
			doc.Tasks = append(doc.Tasks, t)
		case p.isKeyword("workflow"):
			if doc.Workflow != nil {
				return nil, wdl.NewSyntaxError(p.cur.Span, "a document may declare at most one workflow")
			}
			w, err := p.parseWorkflow()
			if err != nil {
				return nil, err
			}
			doc.Workflow = w
		default:
			return nil, wdl.NewSyntaxError(p.cur.Span, "expected import, struct, task or workflow, found %q", p.cur.Text)
		}
	}

	doc.DocSpan = wdl.Join(start, p.cur.Span)
	doc.Comments = wdl.NewCommentMap()
	for _, c := range p.lex.Comments() {
		doc.Comments.Add(c)
	}
	return doc, nil
}

func (p *Parser) parseImport() (*wdl.Import, error) {
	start, err := p.expectKeyword("import")
	if err != nil {
		return nil, err
	}
	uriTok, err := p.parseStringLiteralSimple()
	if err != nil {
		return nil, err
	}
	imp := &wdl.Import{URI: uriTok, StructAliases: map[string]string{}}

	if p.isKeyword("as") {
		if err := p.bump(); err != nil {
			return nil, err
		}
		tok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		imp.Namespace = tok.Text
	}
	for p.isKeyword("alias") {
		if err := p.bump(); err != nil {
			return nil, err
		}
		from, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("as"); err != nil {
			return nil, err
		}
		to, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		imp.StructAliases[from.Text] = to.Text
	}
	imp.ImportSpan = wdl.Join(start, p.cur.Span)
	return imp, nil
}

// parseStringLiteralSimple parses a non-interpolated string, used for
// import URIs where embedded expressions make no sense.
func (p *Parser) parseStringLiteralSimple() (string, error) {
	if p.cur.Kind != lexer.TokStringStart {
		return "", wdl.NewSyntaxError(p.cur.Span, "expected string literal, found %q", p.cur.Text)
	}
	quote := rune(p.cur.Text[0])
	var out string
	for {
		tok, err := p.lex.NextStringPart(quote)
		if err != nil {
			return "", err
		}
		switch tok.Kind {
		case lexer.TokStringPart:
			out += tok.Text
		case lexer.TokStringEnd:
			return out, p.bump()
		default:
			return "", wdl.NewSyntaxError(tok.Span, "import URIs may not contain interpolation")
		}
	}
}

func (p *Parser) parseStructDef() (*wdl.StructDef, error) {
	start, err := p.expectKeyword("struct")
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	sd := &wdl.StructDef{Name: name.Text}
	for p.cur.Kind != lexer.TokRBrace {
		ty, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		memberName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		sd.Members = append(sd.Members, wdl.StructMember{Name: memberName.Text, Type: ty})
	}
	end, err := p.expect(lexer.TokRBrace)
	if err != nil {
		return nil, err
	}
	sd.DefSpan = wdl.Join(start, end.Span)
	return sd, nil
}

// parseTypeRef parses the raw type syntax of spec.md §3.2: a
// primitive keyword, Array[T]/Map[K,V]/Pair[L,R], a bare struct/Object
// name, or any of those suffixed with `?` or (Array only) `+`.
func (p *Parser) parseTypeRef() (*wdl.TypeRef, error) {
	start := p.cur.Span
	tok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if tok.Text == "Directory" && !p.features.AllowDirectory {
		return nil, wdl.NewSyntaxError(start, "the Directory type requires WDL 1.0 or later")
	}
	ref := &wdl.TypeRef{Name: tok.Text}

	if tok.Text == "Array" || tok.Text == "Map" || tok.Text == "Pair" {
		if _, err := p.expect(lexer.TokLBracket); err != nil {
			return nil, err
		}
		first, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		ref.Elems = append(ref.Elems, first)
		for p.cur.Kind == lexer.TokComma {
			if err := p.bump(); err != nil {
				return nil, err
			}
			next, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			ref.Elems = append(ref.Elems, next)
		}
		if _, err := p.expect(lexer.TokRBracket); err != nil {
			return nil, err
		}
		if tok.Text == "Array" && p.cur.Kind == lexer.TokPlus {
			ref.NonEmpty = true
			if err := p.bump(); err != nil {
				return nil, err
			}
		}
	}
	if p.cur.Kind == lexer.TokQuestion {
		ref.Optional = true
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	ref.TypeSpan = wdl.Join(start, p.cur.Span)
	return ref, nil
}

func (p *Parser) parseTask() (*wdl.Task, error) {
	start, err := p.expectKeyword("task")
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	t := &wdl.Task{Name: name.Text}
	for p.cur.Kind != lexer.TokRBrace {
		switch {
		case p.isKeyword("input"):
			decls, err := p.parseInputSection()
			if err != nil {
				return nil, err
			}
			t.Inputs = decls
		case p.isKeyword("output"):
			decls, err := p.parseOutputSection()
			if err != nil {
				return nil, err
			}
			t.Outputs = decls
		case p.isKeyword("command"):
			cmd, err := p.parseCommandSection()
			if err != nil {
				return nil, err
			}
			t.Command = cmd
		case p.isKeyword("runtime"):
			entries, err := p.parseRuntimeSection()
			if err != nil {
				return nil, err
			}
			t.Runtime = entries
		case p.isKeyword("hints"):
			if !p.features.AllowHints {
				return nil, wdl.NewSyntaxError(p.cur.Span, "task \"hints\" sections require WDL 1.1 or later")
			}
			entries, err := p.parseHintsSection()
			if err != nil {
				return nil, err
			}
			t.Hints = entries
		case p.isKeyword("meta"):
			m, err := p.parseMetaSection("meta")
			if err != nil {
				return nil, err
			}
			t.Meta = m
		case p.isKeyword("parameter_meta"):
			m, err := p.parseMetaSection("parameter_meta")
			if err != nil {
				return nil, err
			}
			t.ParameterMeta = m
		default:
			d, err := p.parseDeclaration()
			if err != nil {
				return nil, err
			}
			t.Decls = append(t.Decls, d)
		}
	}
	end, err := p.expect(lexer.TokRBrace)
	if err != nil {
		return nil, err
	}
	t.TaskSpan = wdl.Join(start, end.Span)
	return t, nil
}

func (p *Parser) parseInputSection() ([]*wdl.Declaration, error) {
	if _, err := p.expectKeyword("input"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var decls []*wdl.Declaration
	for p.cur.Kind != lexer.TokRBrace {
		d, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	_, err := p.expect(lexer.TokRBrace)
	return decls, err
}

func (p *Parser) parseOutputSection() ([]*wdl.Declaration, error) {
	if _, err := p.expectKeyword("output"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var decls []*wdl.Declaration
	for p.cur.Kind != lexer.TokRBrace {
		d, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	_, err := p.expect(lexer.TokRBrace)
	return decls, err
}

func (p *Parser) parseDeclaration() (*wdl.Declaration, error) {
	start := p.cur.Span
	ty, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	d := &wdl.Declaration{Name: name.Text, Type: ty}
	if p.cur.Kind == lexer.TokEquals {
		if err := p.bump(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		d.Expr = expr
	}
	d.DeclSpan = wdl.Join(start, p.cur.Span)
	return d, nil
}

func (p *Parser) parseRuntimeSection() ([]wdl.RuntimeEntry, error) {
	if _, err := p.expectKeyword("runtime"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var entries []wdl.RuntimeEntry
	for p.cur.Kind != lexer.TokRBrace {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokColon); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, wdl.RuntimeEntry{Name: name.Text, Expr: expr})
	}
	_, err := p.expect(lexer.TokRBrace)
	return entries, err
}

// parseHintsSection parses a task-level `hints { key: expr, ... }`
// block (1.1+); its grammar is identical to runtime's.
func (p *Parser) parseHintsSection() ([]wdl.RuntimeEntry, error) {
	if _, err := p.expectKeyword("hints"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var entries []wdl.RuntimeEntry
	for p.cur.Kind != lexer.TokRBrace {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokColon); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, wdl.RuntimeEntry{Name: name.Text, Expr: expr})
	}
	_, err := p.expect(lexer.TokRBrace)
	return entries, err
}

// parseCommandSection handles both `command { ... }` and
// `command <<< ... >>>` forms (1.0+); the fragment vocabulary is the
// same either way.
func (p *Parser) parseCommandSection() (*wdl.CommandSection, error) {
	start, err := p.expectKeyword("command")
	if err != nil {
		return nil, err
	}
	heredoc := p.features.AllowMultilineCommandHeredoc && p.cur.Kind == lexer.TokHeredocOpen
	// The body is read straight from the lexer, so p.cur stays on the
	// opening delimiter instead of bumping past it into the body text.
	if !heredoc && p.cur.Kind != lexer.TokLBrace {
		return nil, wdl.NewSyntaxError(p.cur.Span, "expected %s, found %q", lexer.TokLBrace, p.cur.Text)
	}

	var frags []wdl.StringFragment
	for {
		var tok lexer.Token
		var terr error
		if heredoc {
			tok, terr = p.lex.HeredocBody()
		} else {
			tok, terr = p.lex.NextStringPart('}')
		}
		if terr != nil {
			return nil, terr
		}
		switch tok.Kind {
		case lexer.TokStringPart:
			text := tok.Text
			frags = append(frags, wdl.StringFragment{Literal: &text})
		case lexer.TokInterpStart:
			expr, err := p.parseInterpolation()
			if err != nil {
				return nil, err
			}
			frags = append(frags, wdl.StringFragment{Expr: expr})
			continue
		case lexer.TokHeredocClose, lexer.TokStringEnd:
			if err := p.bump(); err != nil {
				return nil, err
			}
			sec := &wdl.CommandSection{Fragments: frags, SecSpan: wdl.Join(start, tok.Span)}
			return sec, nil
		}
	}
}

// parseInterpolation parses the expression (and optional
// true=/false=/default=/sep= placeholder option) inside a `~{...}` or
// `${...}` opened by the lexer, consuming tokens up to the matching
// `}`. p.cur is left on that `}` without scanning past it, so the
// caller resumes reading string text right after it.
func (p *Parser) parseInterpolation() (wdl.Expr, error) {
	p.peeked = nil
	if err := p.bump(); err != nil {
		return nil, err
	}

	start := p.cur.Span
	if p.isOption("true") || p.isOption("false") {
		return p.parsePlaceholderEqual(start)
	}
	if p.isOption("default") {
		return p.parsePlaceholderDefault(start)
	}
	if p.isOption("sep") {
		return p.parsePlaceholderSep(start)
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.TokRBrace {
		return nil, wdl.NewSyntaxError(p.cur.Span, "expected '}' to close interpolation, found %q", p.cur.Text)
	}
	return expr, nil
}

// isOption reports whether the current token spells a placeholder
// option name (true/false/default/sep) immediately followed by `=`.
// true/false lex as TokBoolLit rather than TokIdent, so both kinds are
// accepted; a name not followed by `=` is a bare expression instead
// (e.g. the boolean literal `true` or a variable named `sep`).
func (p *Parser) isOption(name string) bool {
	if p.cur.Text != name {
		return false
	}
	if p.cur.Kind != lexer.TokIdent && p.cur.Kind != lexer.TokBoolLit {
		return false
	}
	next, err := p.peekNext()
	if err != nil {
		return false
	}
	return next.Kind == lexer.TokEquals
}

func (p *Parser) parsePlaceholderEqual(start wdl.Span) (wdl.Expr, error) {
	// Consumed generically below; a true= or false= option, optionally
	// followed by the other one (`true="x" false="y"`), comes ahead of
	// the governing Boolean expression supplied as the interpolated
	// value itself, per spec.md §4.6.
	firstOpt := p.cur.Text
	if err := p.bump(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return nil, err
	}
	firstVal, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var trueExpr, falseExpr wdl.Expr
	if firstOpt == "true" {
		trueExpr = firstVal
	} else {
		falseExpr = firstVal
	}
	if p.isOption("true") || p.isOption("false") {
		secondOpt := p.cur.Text
		if err := p.bump(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokEquals); err != nil {
			return nil, err
		}
		secondVal, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if secondOpt == "true" {
			trueExpr = secondVal
		} else {
			falseExpr = secondVal
		}
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.TokRBrace {
		return nil, wdl.NewSyntaxError(p.cur.Span, "expected '}' to close placeholder")
	}
	end := p.cur.Span
	return &wdl.PlaceholderEqualExpr{Info: wdl.Info{ExprSpan: wdl.Join(start, end)}, Cond: cond, True: trueExpr, False: falseExpr}, nil
}

func (p *Parser) parsePlaceholderDefault(start wdl.Span) (wdl.Expr, error) {
	if err := p.bump(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return nil, err
	}
	def, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.TokRBrace {
		return nil, wdl.NewSyntaxError(p.cur.Span, "expected '}' to close placeholder")
	}
	end := p.cur.Span
	return &wdl.PlaceholderDefaultExpr{Info: wdl.Info{ExprSpan: wdl.Join(start, end)}, Value: val, Default: def}, nil
}

func (p *Parser) parsePlaceholderSep(start wdl.Span) (wdl.Expr, error) {
	if err := p.bump(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return nil, err
	}
	sep, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	arr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.TokRBrace {
		return nil, wdl.NewSyntaxError(p.cur.Span, "expected '}' to close placeholder")
	}
	end := p.cur.Span
	return &wdl.PlaceholderSepExpr{Info: wdl.Info{ExprSpan: wdl.Join(start, end)}, Sep: sep, Array: arr}, nil
}

func (p *Parser) parseMetaSection(keyword string) (*wdl.MetaSection, error) {
	start, err := p.expectKeyword(keyword)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	m := &wdl.MetaSection{Entries: map[string]wdl.MetaValue{}}
	for p.cur.Kind != lexer.TokRBrace {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokColon); err != nil {
			return nil, err
		}
		val, err := p.parseMetaValue()
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, name.Text)
		m.Entries[name.Text] = val
	}
	end, err := p.expect(lexer.TokRBrace)
	if err != nil {
		return nil, err
	}
	m.SecSpan = wdl.Join(start, end.Span)
	return m, nil
}

// parseMetaValue parses the restricted literal sum allowed inside
// meta/parameter_meta sections (spec.md §3.6): no identifiers or
// expressions other than the bare keyword `null`.
func (p *Parser) parseMetaValue() (wdl.MetaValue, error) {
	start := p.cur.Span
	switch {
	case p.isKeyword("null"):
		if err := p.bump(); err != nil {
			return wdl.MetaValue{}, err
		}
		return wdl.MetaValue{IsNull: true, MetaSpan: start}, nil
	case p.cur.Kind == lexer.TokBoolLit:
		b := p.cur.Text == "true"
		if err := p.bump(); err != nil {
			return wdl.MetaValue{}, err
		}
		return wdl.MetaValue{Bool: &b, MetaSpan: start}, nil
	case p.cur.Kind == lexer.TokIntLit:
		n, _ := strconv.ParseInt(p.cur.Text, 10, 64)
		if err := p.bump(); err != nil {
			return wdl.MetaValue{}, err
		}
		return wdl.MetaValue{Int: &n, MetaSpan: start}, nil
	case p.cur.Kind == lexer.TokFloatLit:
		f, _ := strconv.ParseFloat(p.cur.Text, 64)
		if err := p.bump(); err != nil {
			return wdl.MetaValue{}, err
		}
		return wdl.MetaValue{Float: &f, MetaSpan: start}, nil
	case p.cur.Kind == lexer.TokStringStart:
		s, err := p.parseStringLiteralSimple()
		if err != nil {
			return wdl.MetaValue{}, err
		}
		return wdl.MetaValue{Str: &s, MetaSpan: start}, nil
	case p.cur.Kind == lexer.TokLBracket:
		if err := p.bump(); err != nil {
			return wdl.MetaValue{}, err
		}
		var arr []wdl.MetaValue
		for p.cur.Kind != lexer.TokRBracket {
			v, err := p.parseMetaValue()
			if err != nil {
				return wdl.MetaValue{}, err
			}
			arr = append(arr, v)
			if p.cur.Kind == lexer.TokComma {
				if err := p.bump(); err != nil {
					return wdl.MetaValue{}, err
				}
			}
		}
		end, err := p.expect(lexer.TokRBracket)
		if err != nil {
			return wdl.MetaValue{}, err
		}
		return wdl.MetaValue{Array: arr, MetaSpan: wdl.Join(start, end.Span)}, nil
	case p.cur.Kind == lexer.TokLBrace:
		if err := p.bump(); err != nil {
			return wdl.MetaValue{}, err
		}
		obj := map[string]wdl.MetaValue{}
		var keys []string
		for p.cur.Kind != lexer.TokRBrace {
			name, err := p.expectIdentOrString()
			if err != nil {
				return wdl.MetaValue{}, err
			}
			if _, err := p.expect(lexer.TokColon); err != nil {
				return wdl.MetaValue{}, err
			}
			v, err := p.parseMetaValue()
			if err != nil {
				return wdl.MetaValue{}, err
			}
			obj[name] = v
			keys = append(keys, name)
			if p.cur.Kind == lexer.TokComma {
				if err := p.bump(); err != nil {
					return wdl.MetaValue{}, err
				}
			}
		}
		end, err := p.expect(lexer.TokRBrace)
		if err != nil {
			return wdl.MetaValue{}, err
		}
		return wdl.MetaValue{Object: obj, ObjectKeys: keys, MetaSpan: wdl.Join(start, end.Span)}, nil
	default:
		return wdl.MetaValue{}, wdl.NewSyntaxError(p.cur.Span, "invalid meta value %q (identifiers and expressions are not permitted in meta sections)", p.cur.Text)
	}
}

func (p *Parser) expectIdentOrString() (string, error) {
	if p.cur.Kind == lexer.TokStringStart {
		return p.parseStringLiteralSimple()
	}
	tok, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}
