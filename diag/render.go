package diag

import (
	"errors"
	"fmt"
	"strings"
)

const (
	colorRed   = "\x1b[31m"
	colorBold  = "\x1b[1m"
	colorReset = "\x1b[0m"
)

// Render は err をソースの抜粋とキャレットつきで整形する。
// *Error 以外のエラーはメッセージをそのまま返す。
//
//	SyntaxError in main.easel at 3:12: expected ")", got end of input
//
//	   2 | prepare x as (1 + 2
//	   3 |
//	     |            ^
func Render(err error, name, src string, color bool) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	header := e.Kind.String()
	if color {
		header = colorBold + colorRed + header + colorReset
	}

	var b strings.Builder
	switch {
	case e.Pos.Line <= 0 && name != "":
		fmt.Fprintf(&b, "%s in %s: %s\n", header, name, e.Message())
		return b.String()
	case e.Pos.Line <= 0:
		fmt.Fprintf(&b, "%s: %s\n", header, e.Message())
		return b.String()
	case name != "":
		fmt.Fprintf(&b, "%s in %s at %s: %s\n\n", header, name, e.Pos, e.Message())
	default:
		fmt.Fprintf(&b, "%s at %s: %s\n\n", header, e.Pos, e.Message())
	}

	lines := strings.Split(src, "\n")
	line := clamp(e.Pos.Line, 1, len(lines))
	col := e.Pos.Column
	if col < 1 {
		col = 1
	}

	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	caret := "^"
	if color {
		caret = colorRed + caret + colorReset
	}
	fmt.Fprintf(&b, "     | %s%s\n", caretPadding(lines[line-1], col), caret)
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// caretPadding はキャレットの前に置く空白を作る。タブはそのまま残して桁を揃える。
func caretPadding(line string, col int) string {
	var b strings.Builder
	i := 1
	for _, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		i++
	}
	for ; i < col; i++ {
		b.WriteRune(' ')
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
