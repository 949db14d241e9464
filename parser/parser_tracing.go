// parser_tracing.go はパーサーのデバッグ用トレーシング機能を提供する。
// --dbg のときだけ有効になり、各解析関数の入口と出口で
// "BEGIN" / "END" をネストに応じたインデントつきで書き出す。
package parser

import (
	"fmt"
	"io"
	"strings"
)

const traceIdentPlaceholder string = "\t"

// tracer はトレースの出力先とインデントレベルを持つ。
// パーサーごとに持つので、複数のパーサーが同時に動いても混ざらない。
type tracer struct {
	out   io.Writer
	level int
}

// identLevel は現在のトレースレベルに応じたインデント文字列を返す。
func (t *tracer) identLevel() string {
	return strings.Repeat(traceIdentPlaceholder, t.level-1)
}

// tracePrint はインデント付きでメッセージを出力する。
func (t *tracer) tracePrint(fs string) {
	fmt.Fprintf(t.out, "%s%s\n", t.identLevel(), fs)
}

// Trace はトレースの出力先を設定する。nil を渡すと無効になる。
func (p *Parser) Trace(out io.Writer) {
	if out == nil {
		p.tracer = nil
		return
	}
	p.tracer = &tracer{out: out}
}

// trace は解析関数の入口で呼ぶ。"BEGIN <msg>" を出力してインデントを増やす。
// 典型的な使い方: defer p.untrace(p.trace("parseExpression"))
func (p *Parser) trace(msg string) string {
	if p.tracer == nil {
		return msg
	}
	p.tracer.level++
	p.tracer.tracePrint("BEGIN " + msg + " " + p.curToken.Literal)
	return msg
}

// untrace は解析関数の出口で呼ぶ。"END <msg>" を出力してインデントを減らす。
func (p *Parser) untrace(msg string) {
	if p.tracer == nil {
		return
	}
	p.tracer.tracePrint("END " + msg)
	p.tracer.level--
}
