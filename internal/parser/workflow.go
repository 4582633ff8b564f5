package parser

import (
	"github.com/wdlkit/wdlkit/internal/lexer"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

func (p *Parser) parseWorkflow() (*wdl.Workflow, error) {
	start, err := p.expectKeyword("workflow")
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
	w := &wdl.Workflow{Name: name.Text}
	for p.cur.Kind != lexer.TokRBrace {
		switch {
		case p.isKeyword("input"):
			decls, err := p.parseInputSection()
			if err != nil {
				return nil, err
			}
			w.Inputs = decls
		case p.isKeyword("output"):
			decls, err := p.parseOutputSection()
			if err != nil {
				return nil, err
			}
			w.Outputs = decls
		case p.isKeyword("meta"):
			m, err := p.parseMetaSection("meta")
			if err != nil {
				return nil, err
			}
			w.Meta = m
		case p.isKeyword("parameter_meta"):
			m, err := p.parseMetaSection("parameter_meta")
			if err != nil {
				return nil, err
			}
			w.ParameterMeta = m
		default:
			el, err := p.parseWorkflowElement()
			if err != nil {
				return nil, err
			}
			w.Body = append(w.Body, el)
		}
	}
	end, err := p.expect(lexer.TokRBrace)
	if err != nil {
		return nil, err
	}
	w.WorkflowSpan = wdl.Join(start, end.Span)
	return w, nil
}

func (p *Parser) parseWorkflowBody() ([]wdl.WorkflowElement, error) {
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var body []wdl.WorkflowElement
	for p.cur.Kind != lexer.TokRBrace {
		el, err := p.parseWorkflowElement()
		if err != nil {
			return nil, err
		}
		body = append(body, el)
	}
	_, err := p.expect(lexer.TokRBrace)
	return body, err
}

func (p *Parser) parseWorkflowElement() (wdl.WorkflowElement, error) {
	switch {
	case p.isKeyword("call"):
		return p.parseCall()
	case p.isKeyword("scatter"):
		return p.parseScatter()
	case p.isKeyword("if"):
		return p.parseConditional()
	default:
		return p.parseDeclaration()
	}
}

// parseCall parses `call [namespace.]Name [as alias] [after other]*
// [{ input: ... }]` (spec.md §3.6, §4.4). The `after` clause is 1.1+
// and is otherwise a syntax error, raised here from VersionFeatures'
// AllowAfterClause, matching the way other version-gated syntax is
// handled elsewhere in this parser.
func (p *Parser) parseCall() (*wdl.Call, error) {
	start, err := p.expectKeyword("call")
	if err != nil {
		return nil, err
	}
	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	callee := first.Text
	alias := first.Text
	for p.cur.Kind == lexer.TokDot {
		if err := p.bump(); err != nil {
			return nil, err
		}
		part, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		callee += "." + part.Text
		alias = part.Text
	}
	c := &wdl.Call{Callee: callee, Alias: alias}

	if p.isKeyword("as") {
		if err := p.bump(); err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		c.Alias = name.Text
	}
	for p.isKeyword("after") {
		if !p.features.AllowAfterClause {
			return nil, wdl.NewSyntaxError(p.cur.Span, "call \"after\" clauses require WDL 1.1 or later")
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
		if _, err := p.expectIdent(); err != nil {
			return nil, err
		}
	}
	if p.cur.Kind == lexer.TokLBrace {
		if err := p.bump(); err != nil {
			return nil, err
		}
		if p.isKeyword("input") {
			if err := p.bump(); err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokColon); err != nil {
				return nil, err
			}
		}
		for p.cur.Kind != lexer.TokRBrace {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			ci := wdl.CallInput{Name: name.Text}
			if p.cur.Kind == lexer.TokEquals {
				if err := p.bump(); err != nil {
					return nil, err
				}
				expr, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				ci.Expr = expr
			}
			c.Inputs = append(c.Inputs, ci)
			if p.cur.Kind == lexer.TokComma {
				if err := p.bump(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(lexer.TokRBrace); err != nil {
			return nil, err
		}
	}
	c.CallSpan = wdl.Join(start, p.cur.Span)
	return c, nil
}

func (p *Parser) parseScatter() (*wdl.Scatter, error) {
	start, err := p.expectKeyword("scatter")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	v, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	coll, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseWorkflowBody()
	if err != nil {
		return nil, err
	}
	return &wdl.Scatter{Var: v.Text, Collection: coll, Body: body, ScatterSpan: wdl.Join(start, p.cur.Span)}, nil
}

func (p *Parser) parseConditional() (*wdl.Conditional, error) {
	start, err := p.expectKeyword("if")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseWorkflowBody()
	if err != nil {
		return nil, err
	}
	return &wdl.Conditional{Condition: cond, Body: body, CondSpan: wdl.Join(start, p.cur.Span)}, nil
}
