package parser

import (
	"strconv"

	"github.com/wdlkit/wdlkit/internal/lexer"
	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// binaryPrecedence orders WDL's binary operators, low to high, for a
// standard precedence-climbing parser.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3, "<": 3, "<=": 3, ">": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5, "%": 5,
}

func tokOp(k lexer.TokenKind) (string, bool) {
	switch k {
	case lexer.TokOr:
		return "||", true
	case lexer.TokAnd:
		return "&&", true
	case lexer.TokEq:
		return "==", true
	case lexer.TokNe:
		return "!=", true
	case lexer.TokLt:
		return "<", true
	case lexer.TokLe:
		return "<=", true
	case lexer.TokGt:
		return ">", true
	case lexer.TokGe:
		return ">=", true
	case lexer.TokPlus:
		return "+", true
	case lexer.TokMinus:
		return "-", true
	case lexer.TokStar:
		return "*", true
	case lexer.TokSlash:
		return "/", true
	case lexer.TokPercent:
		return "%", true
	}
	return "", false
}

// parseExpr parses a full expression at the lowest precedence.
func (p *Parser) parseExpr() (wdl.Expr, error) {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) (wdl.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := tokOp(p.cur.Kind)
		if !ok {
			return left, nil
		}
		prec := binaryPrecedence[op]
		if prec < minPrec {
			return left, nil
		}
		opSpan := p.cur.Span
		if err := p.bump(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &wdl.BinaryExpr{
			Info: wdl.Info{ExprSpan: wdl.Join(left.Span(), wdl.Join(opSpan, right.Span()))},
			Op:   op, X: left, Y: right,
		}
	}
}

func (p *Parser) parseUnary() (wdl.Expr, error) {
	if p.cur.Kind == lexer.TokMinus || p.cur.Kind == lexer.TokNot {
		op := "-"
		if p.cur.Kind == lexer.TokNot {
			op = "!"
		}
		start := p.cur.Span
		if err := p.bump(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &wdl.UnaryExpr{Info: wdl.Info{ExprSpan: wdl.Join(start, x.Span())}, Op: op, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (wdl.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case lexer.TokLBracket:
			if err := p.bump(); err != nil {
				return nil, err
			}
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(lexer.TokRBracket)
			if err != nil {
				return nil, err
			}
			x = &wdl.AtExpr{Info: wdl.Info{ExprSpan: wdl.Join(x.Span(), end.Span)}, Array: x, Index: idx}
		case lexer.TokDot:
			if err := p.bump(); err != nil {
				return nil, err
			}
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			x = &wdl.GetNameExpr{Info: wdl.Info{ExprSpan: wdl.Join(x.Span(), field.Span)}, X: x, Field: field.Text}
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (wdl.Expr, error) {
	start := p.cur.Span
	switch {
	case p.isKeyword("null"):
		if err := p.bump(); err != nil {
			return nil, err
		}
		return &wdl.NullLit{Info: wdl.Info{ExprSpan: start}}, nil
	case p.cur.Kind == lexer.TokBoolLit:
		v := p.cur.Text == "true"
		if err := p.bump(); err != nil {
			return nil, err
		}
		return &wdl.BoolLit{Info: wdl.Info{ExprSpan: start}, Value: v}, nil
	case p.cur.Kind == lexer.TokIntLit:
		text := p.cur.Text
		if err := p.bump(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, wdl.NewSyntaxError(start, "invalid integer literal %q", text)
		}
		return &wdl.IntLit{Info: wdl.Info{ExprSpan: start}, Value: n}, nil
	case p.cur.Kind == lexer.TokFloatLit:
		text := p.cur.Text
		if err := p.bump(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, wdl.NewSyntaxError(start, "invalid float literal %q", text)
		}
		return &wdl.FloatLit{Info: wdl.Info{ExprSpan: start}, Value: f}, nil
	case p.cur.Kind == lexer.TokStringStart:
		return p.parseCompoundString()
	case p.isKeyword("if"):
		return p.parseIfThenElse()
	case p.isKeyword("object"):
		return p.parseObjectLit()
	case p.cur.Kind == lexer.TokLBracket:
		return p.parseArrayLit()
	case p.cur.Kind == lexer.TokLBrace:
		return p.parseMapLit()
	case p.cur.Kind == lexer.TokLParen:
		return p.parseParenOrPair()
	case p.cur.Kind == lexer.TokIdent || p.cur.Kind == lexer.TokKeyword:
		return p.parseIdentOrApply()
	}
	return nil, wdl.NewSyntaxError(p.cur.Span, "unexpected token %q in expression", p.cur.Text)
}

func (p *Parser) parseCompoundString() (wdl.Expr, error) {
	start := p.cur.Span
	quote := rune(p.cur.Text[0])
	var frags []wdl.StringFragment
	for {
		tok, err := p.lex.NextStringPart(quote)
		if err != nil {
			return nil, err
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
		case lexer.TokStringEnd:
			if err := p.bump(); err != nil {
				return nil, err
			}
			return &wdl.CompoundString{Info: wdl.Info{ExprSpan: wdl.Join(start, tok.Span)}, Fragments: frags}, nil
		}
	}
}

func (p *Parser) parseIfThenElse() (wdl.Expr, error) {
	start, err := p.expectKeyword("if")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	t, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	f, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &wdl.IfThenElseExpr{Info: wdl.Info{ExprSpan: wdl.Join(start, f.Span())}, Cond: cond, True: t, False: f}, nil
}

func (p *Parser) parseObjectLit() (wdl.Expr, error) {
	start, err := p.expectKeyword("object")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var entries []wdl.ObjectLitEntry
	for p.cur.Kind != lexer.TokRBrace {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokColon); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, wdl.ObjectLitEntry{Name: name.Text, Value: val})
		if p.cur.Kind == lexer.TokComma {
			if err := p.bump(); err != nil {
				return nil, err
			}
		}
	}
	end, err := p.expect(lexer.TokRBrace)
	if err != nil {
		return nil, err
	}
	return &wdl.ObjectLit{Info: wdl.Info{ExprSpan: wdl.Join(start, end.Span)}, Entries: entries}, nil
}

func (p *Parser) parseArrayLit() (wdl.Expr, error) {
	start, err := p.expect(lexer.TokLBracket)
	if err != nil {
		return nil, err
	}
	var elems []wdl.Expr
	for p.cur.Kind != lexer.TokRBracket {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.cur.Kind == lexer.TokComma {
			if err := p.bump(); err != nil {
				return nil, err
			}
		}
	}
	end, err := p.expect(lexer.TokRBracket)
	if err != nil {
		return nil, err
	}
	return &wdl.ArrayLit{Info: wdl.Info{ExprSpan: wdl.Join(start.Span, end.Span)}, Elems: elems}, nil
}

func (p *Parser) parseMapLit() (wdl.Expr, error) {
	start, err := p.expect(lexer.TokLBrace)
	if err != nil {
		return nil, err
	}
	var entries []wdl.MapLitEntry
	for p.cur.Kind != lexer.TokRBrace {
		k, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokColon); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, wdl.MapLitEntry{Key: k, Value: v})
		if p.cur.Kind == lexer.TokComma {
			if err := p.bump(); err != nil {
				return nil, err
			}
		}
	}
	end, err := p.expect(lexer.TokRBrace)
	if err != nil {
		return nil, err
	}
	return &wdl.MapLit{Info: wdl.Info{ExprSpan: wdl.Join(start.Span, end.Span)}, Entries: entries}, nil
}

// parseParenOrPair handles both a grouping `(expr)` and a Pair
// literal `(left, right)`.
func (p *Parser) parseParenOrPair() (wdl.Expr, error) {
	start, err := p.expect(lexer.TokLParen)
	if err != nil {
		return nil, err
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == lexer.TokComma {
		if err := p.bump(); err != nil {
			return nil, err
		}
		second, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(lexer.TokRParen)
		if err != nil {
			return nil, err
		}
		return &wdl.PairExpr{Info: wdl.Info{ExprSpan: wdl.Join(start.Span, end.Span)}, Left: first, Right: second}, nil
	}
	_, err = p.expect(lexer.TokRParen)
	return first, err
}

// parseIdentOrApply parses a bare identifier or, if followed by `(`,
// a standard-library call `name(args...)`.
func (p *Parser) parseIdentOrApply() (wdl.Expr, error) {
	tok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.TokLParen {
		return &wdl.IdentifierExpr{Info: wdl.Info{ExprSpan: tok.Span}, Name: tok.Text}, nil
	}
	if err := p.bump(); err != nil {
		return nil, err
	}
	var args []wdl.Expr
	for p.cur.Kind != lexer.TokRParen {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur.Kind == lexer.TokComma {
			if err := p.bump(); err != nil {
				return nil, err
			}
		}
	}
	end, err := p.expect(lexer.TokRParen)
	if err != nil {
		return nil, err
	}
	return &wdl.ApplyExpr{Info: wdl.Info{ExprSpan: wdl.Join(tok.Span, end.Span)}, FuncName: tok.Text, Args: args}, nil
}
