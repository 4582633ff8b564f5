package eval

import (
	"context"
	"strings"

	"github.com/wdlkit/wdlkit/pkg/wdl"
)

// ApplyCommand materializes a task's CommandSection into the literal
// shell command string (spec.md §4.5's `applyCommand(cmd, ctx) →
// String`): every fragment is evaluated and stringified, the result is
// concatenated, and the concatenation is dedented.
func (ev *Evaluator) ApplyCommand(ctx context.Context, env *Env, cmd *wdl.CommandSection) (string, error) {
	var sb strings.Builder
	for _, f := range cmd.Fragments {
		if f.Literal != nil {
			sb.WriteString(*f.Literal)
			continue
		}
		v, err := ev.Eval(ctx, env, f.Expr)
		if err != nil {
			return "", err
		}
		s, err := v.CanonicalString()
		if err != nil {
			return "", wdl.NewEvalError(f.Expr.Span(), wdl.ReasonBadCoercion, "%v", err)
		}
		sb.WriteString(s)
	}
	return dedent(sb.String()), nil
}

// dedent implements spec.md §4.6's command-block dedent: strip the
// minimum common leading whitespace width from every line (tabs count
// as two columns), then trim one leading and one trailing blank line.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	minWidth := -1
	for i, line := range lines {
		if i == 0 || i == len(lines)-1 {
			if strings.TrimSpace(line) == "" {
				continue
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		w := leadingWidth(line)
		if minWidth == -1 || w < minWidth {
			minWidth = w
		}
	}
	if minWidth <= 0 {
		minWidth = 0
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = stripWidth(line, minWidth)
	}

	if len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}

// leadingWidth measures the leading-whitespace column width of a
// line, counting a tab as two columns.
func leadingWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 2
		default:
			return w
		}
	}
	return w
}

// stripWidth removes up to width columns of leading whitespace from
// line, counting a tab as two columns and splitting a tab if width
// falls inside it.
func stripWidth(line string, width int) string {
	col := 0
	for i, r := range line {
		if col >= width {
			return line[i:]
		}
		switch r {
		case ' ':
			col++
		case '\t':
			col += 2
		default:
			return line[i:]
		}
	}
	return ""
}
