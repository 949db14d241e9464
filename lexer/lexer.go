// Package lexer は Easel言語の字句解析器（レキサー）を実装するパッケージ。
// ソースコードの文字列を先頭から1文字ずつ読み、トークン列に変換する。
// 先読みは1文字だけで、ソースを前方に1回なめるだけで済む。
package lexer

import (
	"strconv"
	"unicode"

	"easel/diag"
	"easel/token"
)

// Lexer はソースコードを保持し、現在の読み取り位置を管理する。
// 行と列はエラー表示のためだけに記録する（どちらも1始まり）。
type Lexer struct {
	input        []rune
	position     int  // 現在の文字の位置（ch の位置）
	readPosition int  // 次に読む文字の位置
	ch           rune // 現在検査中の文字

	line   int // ch の行
	column int // ch の列
}

// New はソースコードからレキサーを生成し、最初の1文字を読み込む。
func New(input string) *Lexer {
	l := &Lexer{input: []rune(input), line: 1}
	l.readChar()
	return l
}

// Scan はソース全体をトークン列に変換する。
// 列の最後は必ず EOF トークンになる。
// 閉じられていない文字列や未知の文字があれば LexError を返す。
func Scan(input string) ([]token.Token, error) {
	l := New(input)
	tokens := []token.Token{}
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// readChar は次の1文字を読んで位置を進める。
// 改行をまたいだら行を増やし、列を1に戻す。
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar は位置を進めずに次の文字を覗き見る。
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// NextToken は次のトークンを返す。
// 空白とコメントは読み飛ばし、トークンにはしない。
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	line, column := l.line, l.column
	if l.atEnd() {
		return token.Token{Type: token.EOF, Line: line, Column: column}, nil
	}

	newToken := func(t token.TokenType, literal string) token.Token {
		return token.Token{Type: t, Literal: literal, Line: line, Column: column}
	}

	var tok token.Token
	switch l.ch {
	case '=':
		tok = l.twoChar('=', token.EQ, token.ASSIGN, newToken)
	case '!':
		tok = l.twoChar('=', token.NOT_EQ, token.BANG, newToken)
	case '<':
		tok = l.twoChar('=', token.LT_EQ, token.LT, newToken)
	case '>':
		tok = l.twoChar('=', token.GT_EQ, token.GT, newToken)
	case '&':
		if l.peekChar() != '&' {
			return token.Token{}, l.illegal(line, column)
		}
		l.readChar()
		tok = newToken(token.AND, "&&")
	case '|':
		if l.peekChar() != '|' {
			return token.Token{}, l.illegal(line, column)
		}
		l.readChar()
		tok = newToken(token.OR, "||")
	case '+', '-', '*', '/', ',', ':', '.', '(', ')', '{', '}', '[', ']':
		s := string(l.ch)
		tok = newToken(token.TokenType(s), s)
	case '"', '\'':
		return l.readString(line, column)
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			tok = newToken(token.LookupIdent(literal), literal)
			if tok.Type == token.BOOLEAN {
				tok.Value = literal == "true"
			}
			return tok, nil
		} else if isDigit(l.ch) {
			return l.readNumber(newToken)
		}
		return token.Token{}, l.illegal(line, column)
	}

	l.readChar()
	return tok, nil
}

// twoChar は2文字演算子を貪欲に認識する。
// 次の文字が second なら double を、そうでなければ single を返す。
func (l *Lexer) twoChar(
	second rune,
	double, single token.TokenType,
	newToken func(token.TokenType, string) token.Token,
) token.Token {
	if l.peekChar() == second {
		first := l.ch
		l.readChar()
		return newToken(double, string(first)+string(second))
	}
	return newToken(single, string(l.ch))
}

func (l *Lexer) illegal(line, column int) error {
	return diag.Errorf(diag.LexError, token.Position{Line: line, Column: column},
		"unexpected character %q", l.ch)
}

// skipWhitespace は空白と `~` から行末までのコメントを読み飛ばす。
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '~':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readIdentifier は英字・数字・アンダースコアが続く限り読み進める。
func (l *Lexer) readIdentifier() string {
	position := l.position
	for !l.atEnd() && (isLetter(l.ch) || unicode.IsDigit(l.ch)) {
		l.readChar()
	}
	return string(l.input[position:l.position])
}

// readNumber は数字を読み進める。小数点は1つまで許す。
// 2つ目の `.` は数値の一部にならず、次のトークンになる。
func (l *Lexer) readNumber(newToken func(token.TokenType, string) token.Token) (token.Token, error) {
	position := l.position
	seenDot := false
	for !l.atEnd() && (isDigit(l.ch) || (l.ch == '.' && !seenDot)) {
		if l.ch == '.' {
			seenDot = true
		}
		l.readChar()
	}
	literal := string(l.input[position:l.position])

	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		tok := newToken(token.NUMBER, literal)
		return token.Token{}, diag.Errorf(diag.LexError, tok.Pos(), "invalid number %q", literal)
	}

	tok := newToken(token.NUMBER, literal)
	tok.Value = value
	return tok, nil
}

// readString は `'` または `"` で囲まれた文字列を読む。
// エスケープはなく、中身はそのまま取り込む（改行も含む）。
// 閉じクォートの前に入力が終わったら、開きクォートの位置で LexError を返す。
func (l *Lexer) readString(line, column int) (token.Token, error) {
	quote := l.ch
	l.readChar()

	position := l.position
	for l.ch != quote {
		if l.atEnd() {
			return token.Token{}, diag.Unterminated(token.Position{Line: line, Column: column}, quote)
		}
		l.readChar()
	}
	content := string(l.input[position:l.position])
	l.readChar()

	return token.Token{
		Type:    token.STRING,
		Literal: content,
		Value:   content,
		Line:    line,
		Column:  column,
	}, nil
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
