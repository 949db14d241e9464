// Package repl は Easel言語のREPL（Read-Eval-Print Loop）を実装するパッケージ。
// ユーザーが入力したコードを字句解析 → 構文解析 → 評価し、結果を表示する。
// 環境はセッション全体で共有するので、変数・関数・構造体は次の入力でも使える。
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"easel/diag"
	"easel/evaluator"
	"easel/lexer"
	"easel/object"
	"easel/parser"
)

// PROMPT はREPLのプロンプト文字列。
const PROMPT = ">> "

// CONTINUE は入力の続きを待っているときのプロンプト。
const CONTINUE = ".. "

// sourceName は診断に表示するソース名。
const sourceName = "repl"

// Session は1つのREPLセッションの状態（環境と評価器）を持つ。
type Session struct {
	env   *object.Environment
	eval  *evaluator.Evaluator
	color bool
	trace io.Writer
}

// NewSession はセッションを作る。print の出力先は out。
func NewSession(out io.Writer, color bool, opts ...evaluator.Option) *Session {
	opts = append([]evaluator.Option{evaluator.WithOutput(out)}, opts...)
	return &Session{
		env:   object.NewEnvironment(),
		eval:  evaluator.New(opts...),
		color: color,
	}
}

// Trace は入力ごとのパーサーのトレースを out に書き出す。nil なら無効。
func (s *Session) Trace(out io.Writer) {
	s.trace = out
}

// Eval は入力を1つ評価して最後の文の値を返す。
func (s *Session) Eval(src string) (object.Object, error) {
	tokens, err := lexer.Scan(src)
	if err != nil {
		return nil, err
	}
	p := parser.New(tokens)
	p.Trace(s.trace)
	program, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	return s.eval.Eval(program, s.env)
}

// Env はセッションの環境を返す。
func (s *Session) Env() *object.Environment {
	return s.env
}

// print は評価の結果を表示する。unit は表示しない。
func (s *Session) print(out io.Writer, src string, result object.Object, err error) {
	if err != nil {
		printError(out, diag.Render(err, sourceName, src, s.color))
		return
	}
	if result == nil || result.Type() == object.UNIT_OBJ {
		return
	}
	io.WriteString(out, object.Quote(result))
	io.WriteString(out, "\n")
}

// complete は src が式や文の途中で終わっていなければ true を返す。
func complete(src string) bool {
	_, err := parser.Parse(src)
	return !diag.IsIncomplete(err)
}

// Start はREPLを起動する。
// 入力ストリームからコードを1行ずつ読み取り、評価結果を出力ストリームに書き出す。
// ブロックや文字列が閉じていなければ、次の行を読み足してから評価する。
// trace が nil でなければ入力ごとのパーサーのトレースを書き出す。
func Start(in io.Reader, out, trace io.Writer, opts ...evaluator.Option) {
	scanner := bufio.NewScanner(in)
	session := NewSession(out, false, opts...)
	session.Trace(trace)

	var buf strings.Builder
	for {
		if buf.Len() == 0 {
			fmt.Fprint(out, PROMPT)
		} else {
			fmt.Fprint(out, CONTINUE)
		}

		if !scanner.Scan() {
			// 読みかけの入力があれば最後に評価してエラーを見せる
			if strings.TrimSpace(buf.String()) != "" {
				src := buf.String()
				result, err := session.Eval(src)
				session.print(out, src, result, err)
			}
			return
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(scanner.Text())

		src := buf.String()
		if strings.TrimSpace(src) == "" {
			buf.Reset()
			continue
		}
		if !complete(src) {
			continue
		}
		buf.Reset()

		result, err := session.Eval(src)
		session.print(out, src, result, err)
	}
}

// StartInteractive は端末向けのREPLを起動する。
// liner で行編集と履歴を提供し、historyPath が空でなければ履歴を保存する。
// Ctrl-C は入力中の行を捨て、Ctrl-D で終了する。
func StartInteractive(out, trace io.Writer, historyPath string, color bool, opts ...evaluator.Option) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	session := NewSession(out, color, opts...)
	session.Trace(trace)
	fmt.Fprintln(out, "Easel REPL. Type :quit to exit.")

	for {
		src, ok := readByParseProbe(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.ToLower(trimmed) == ":quit" {
				return nil
			}
			fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		result, err := session.Eval(src)
		session.print(out, src, result, err)
	}
}

// readByParseProbe は入力が完結するまで行を読み足す。
// 入力の終わり（Ctrl-D）で false を返す。
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONTINUE
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if src := b.String(); complete(src) {
			return src, true
		}
	}
}

// EASEL は評価エラーのときに表示されるイーゼルのアスキーアート。
const EASEL = `      /\
     /  \
    /____\
   | .--. |
   | |  | |
   | '--' |
  /|______|\
 / /      \ \
/_/        \_\
`

// printError はエラーをイーゼルのAAと共に出力する。
func printError(out io.Writer, rendered string) {
	io.WriteString(out, EASEL)
	io.WriteString(out, "Oops! The paint did not stick:\n")
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		io.WriteString(out, "\t"+line+"\n")
	}
}
