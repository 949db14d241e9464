// Package token は Easel言語のトークン（字句）を定義するパッケージ。
// レキサーがソースコードを分割した最小単位がトークンであり、
// パーサーはこのトークン列を入力として構文解析を行う。
package token

import "fmt"

// TokenType はトークンの種類を文字列で表す型。
type TokenType string

const (
	ILLEGAL = "ILLEGAL" // 未知のトークン
	EOF     = "EOF"     // 入力の終端

	// 識別子 + リテラル
	IDENT   = "IDENT"   // add, foobar, x, y, ...
	NUMBER  = "NUMBER"  // 12, 3.14
	STRING  = "STRING"  // "foobar", 'foobar'
	BOOLEAN = "BOOLEAN" // true, false

	// 演算子
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	AND = "&&"
	OR  = "||"

	// デリミタ（区切り文字）
	COMMA  = ","
	COLON  = ":" // prep のメンバ名と値の区切り
	PERIOD = "." // プロパティアクセス

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "[" // 配列リテラル・インデックスアクセス
	RBRACKET = "]"

	// キーワード
	PREPARE  = "PREPARE"  // 変数宣言
	AS       = "AS"
	BRUSH    = "BRUSH" // 構造体宣言
	PREP     = "PREP"  // インスタンス生成
	HAS      = "HAS"
	SKETCH   = "SKETCH" // 関数宣言
	NEEDS    = "NEEDS"
	FINISHED = "FINISHED" // return
	LOOP     = "LOOP"
	THROUGH  = "THROUGH"
	WHILE    = "WHILE"
	IF       = "IF"
	ELIF     = "ELIF"
	ELSE     = "ELSE"
)

// Position はソース上の位置（1始まりの行と列）。
// 列はバイトではなくルーン単位で数える。
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Token はトークンの型、字句（Literal）、デコード済みの値、位置をまとめたもの。
// Value は NUMBER なら float64、STRING なら string、BOOLEAN なら bool が入る。
type Token struct {
	Type    TokenType
	Literal string
	Value   interface{}
	Line    int
	Column  int
}

// Pos はトークンの開始位置を返す。
func (t Token) Pos() Position { return Position{Line: t.Line, Column: t.Column} }

// Describe はエラーメッセージ用にトークンを表示する。
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case STRING:
		return fmt.Sprintf("string %q", t.Literal)
	case IDENT, NUMBER, BOOLEAN:
		return fmt.Sprintf("%s %s", t.Type, t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

// keywords はEasel言語の予約語マップ。
var keywords = map[string]TokenType{
	"prepare":  PREPARE,
	"as":       AS,
	"brush":    BRUSH,
	"prep":     PREP,
	"has":      HAS,
	"sketch":   SKETCH,
	"needs":    NEEDS,
	"finished": FINISHED,
	"loop":     LOOP,
	"through":  THROUGH,
	"while":    WHILE,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
}

// booleans は真偽値リテラル。予約語ではなくリテラルとして扱う。
var booleans = map[string]bool{
	"true":  true,
	"false": false,
}

// LookupIdent は識別子が予約語かどうかを判定する。
// 予約語であればそのトークン型を、真偽値なら BOOLEAN を、
// そうでなければIDENTを返す。
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if _, ok := booleans[ident]; ok {
		return BOOLEAN
	}
	return IDENT
}

// IsKeyword は識別子が予約語なら true を返す。
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
