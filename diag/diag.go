// Package diag は Easel の処理系が返す型付きエラーを定義するパッケージ。
// レキサー・パーサー・評価器はすべて *diag.Error を返し、
// 呼び出し側は Kind で種類を判別できる。
package diag

import (
	"errors"
	"fmt"
	"strings"

	"easel/token"
)

// Kind はエラーの種類。
type Kind int

const (
	LexError Kind = iota + 1
	SyntaxError
	NameError
	TypeError
	ArityError
	DeclarationError
	IndexError
	RuntimeError
)

var kindNames = map[Kind]string{
	LexError:         "LexError",
	SyntaxError:      "SyntaxError",
	NameError:        "NameError",
	TypeError:        "TypeError",
	ArityError:       "ArityError",
	DeclarationError: "DeclarationError",
	IndexError:       "IndexError",
	RuntimeError:     "RuntimeError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error は位置情報つきの型付きエラー。
// Name は問題の名前（未定義の変数名やメンバ名など）、
// Expected / Actual は SyntaxError のときだけ使う。
type Error struct {
	Kind     Kind
	Pos      token.Position
	Name     string
	Expected string
	Actual   string
	Msg      string

	// atEOF は入力の終端で起きた構文エラーを示す（REPLの継続入力判定用）。
	atEOF bool
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Pos.Line > 0 {
		fmt.Fprintf(&b, " at %s", e.Pos)
	}
	b.WriteString(": ")
	b.WriteString(e.Message())
	return b.String()
}

// Message は位置と種類を含まない本文を返す。
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Kind == SyntaxError {
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	return e.Name
}

// Errorf は指定した種類と位置のエラーを生成する。
func Errorf(kind Kind, pos token.Position, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, a...)}
}

// Named は名前つきのエラーを生成する（NameError など）。
func Named(kind Kind, pos token.Position, name, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Name: name, Msg: fmt.Sprintf(format, a...)}
}

// Unexpected は「expected X, got Y」形式の構文エラーを生成する。
func Unexpected(expected string, actual token.Token) *Error {
	return &Error{
		Kind:     SyntaxError,
		Pos:      actual.Pos(),
		Expected: expected,
		Actual:   actual.Describe(),
		atEOF:    actual.Type == token.EOF,
	}
}

// Unterminated は閉じられていない文字列リテラルの字句エラーを生成する。
// pos は開きクォートの位置。
func Unterminated(pos token.Position, quote rune) *Error {
	return &Error{
		Kind:  LexError,
		Pos:   pos,
		Msg:   fmt.Sprintf("unterminated string literal, expected closing %c", quote),
		atEOF: true,
	}
}

// KindOf は err に含まれる *Error の種類を返す。*Error でなければ 0。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is は err が指定した種類のエラーかを判定する。
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsIncomplete は入力がまだ途中で終わっているだけのエラーか判定する。
// REPL はこの場合に次の行を読み足す。
func IsIncomplete(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.atEOF
	}
	return false
}
