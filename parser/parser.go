// Package parser は Easel言語のパーサーを実装するパッケージ。
// Pratt Parser（トップダウン演算子順位解析法）を使って、
// トークン列をAST（抽象構文木）に変換する。
//
// Pratt Parserの核心的なアイデア:
// - 各トークンタイプに「前置解析関数」と「中置解析関数」を関連付ける
// - 演算子の優先順位（precedence）に基づいて正しい構文木を構築する
// - 同じ優先順位の演算子が続いたときは左に結合させる（10 - 2 - 3 は (10 - 2) - 3）
//
// 最初の構文エラーで解析を打ち切り、*diag.Error を返す。
package parser

import (
	"strconv"
	"strings"

	"easel/ast"
	"easel/diag"
	"easel/lexer"
	"easel/token"
)

// 演算子の優先順位を定数で定義する。
// 数値が大きいほど優先順位が高い。
// 比較と論理演算子はすべて同じ一番低い段にまとめる。
const (
	_ int = iota
	LOWEST
	COMPARE // || && == != < <= > >=
	SUM     // + -
	PRODUCT // * /
	PREFIX  // !X または -X
	CALL    // f(X), a[i], p.x
)

// precedences はトークンタイプから優先順位への対応表。
var precedences = map[token.TokenType]int{
	token.OR:       COMPARE,
	token.AND:      COMPARE,
	token.EQ:       COMPARE,
	token.NOT_EQ:   COMPARE,
	token.LT:       COMPARE,
	token.LT_EQ:    COMPARE,
	token.GT:       COMPARE,
	token.GT_EQ:    COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.PERIOD:   CALL,
}

type (
	// prefixParseFn は前置解析関数の型。
	// トークンが式の先頭に来た場合に呼ばれる（例: !ok, 識別子, 数値リテラル, prep）。
	prefixParseFn func() ast.Expression
	// infixParseFn は中置解析関数の型。
	// 左辺の式を引数に取り、中置演算子の右辺を解析して完全な式を返す。
	infixParseFn func(ast.Expression) ast.Expression
)

// Parser はEasel言語のパーサー。
// トークン列を先頭から読み、ASTを構築する。
type Parser struct {
	tokens []token.Token
	pos    int           // 次に peekToken にするトークンの添字
	errors []*diag.Error // パース中に発生したエラー（最初の1つで打ち切る）

	curToken  token.Token // 現在見ているトークン
	peekToken token.Token // 次のトークン（先読み用）

	// 各トークンタイプに対応する解析関数を登録するマップ
	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	tracer *tracer
}

// New はトークン列からパーサーを生成する。
// 各トークンタイプに対して適切な解析関数を登録し、
// 最初の2トークンを読み込んで curToken と peekToken をセットする。
func New(tokens []token.Token) *Parser {
	p := &Parser{
		tokens: tokens,
		errors: []*diag.Error{},
	}

	// 前置解析関数の登録
	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BOOLEAN, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.PREP, p.parseInstanceExpression)

	// 中置解析関数の登録
	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.SLASH, token.ASTERISK,
		token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND, token.OR,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}

	// '(' '[' '.' は後置の演算子として扱う（例: add(1, 2), xs[0], p.x）
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.PERIOD, p.parsePropertyExpression)

	// curToken と peekToken の両方をセットするために2回読む
	p.nextToken()
	p.nextToken()

	return p
}

// Parse はソースコードを字句解析してから構文解析する。
// LexError と SyntaxError のどちらも返りうる。
func Parse(input string) (*ast.Program, error) {
	tokens, err := lexer.Scan(input)
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseProgram()
}

// nextToken は次のトークンに進む。
// トークン列の終わりを越えたら EOF を返し続ける。
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
		return
	}
	eof := token.Token{Type: token.EOF, Line: 1, Column: 1}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		eof.Line, eof.Column = last.Line, last.Column
	}
	p.peekToken = eof
}

// curTokenIs は現在のトークンが指定された型か判定する。
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs は次のトークンが指定された型か判定する。
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek は次のトークンが期待する型であればトークンを進めてtrueを返す。
// 期待と違う場合はエラーを追加してfalseを返す。
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// Errors はパース中に記録されたエラーを返す。
func (p *Parser) Errors() []*diag.Error {
	return p.errors
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

func (p *Parser) fail(err *diag.Error) {
	p.errors = append(p.errors, err)
}

// peekError は次のトークンが期待と違った場合にエラーを追加する。
func (p *Parser) peekError(t token.TokenType) {
	p.fail(diag.Unexpected(describe(t), p.peekToken))
}

// noPrefixParseFnError はトークンが式の先頭になれない場合のエラー。
func (p *Parser) noPrefixParseFnError() {
	p.fail(diag.Unexpected("expression", p.curToken))
}

// describe はエラーメッセージ用にトークンタイプを表示する。
func describe(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.NUMBER, token.STRING, token.BOOLEAN, token.EOF:
		return strings.ToLower(string(t))
	}
	if s := string(t); strings.ToUpper(s) == s && strings.ToLower(s) != s {
		// キーワードは小文字で表示する（PREPARE → "prepare"）
		return strconv.Quote(strings.ToLower(s))
	}
	return strconv.Quote(string(t))
}

// =====================
// プログラムと文のパース
// =====================

// ParseProgram はプログラム全体をパースしてASTのルートノードを返す。
// EOF に到達するまで文を1つずつパースしてProgramに追加していく。
// 構文エラーがあれば最初の1つを返す。
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if p.failed() {
			return nil, p.errors[0]
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	return program, nil
}

// parseStatement は現在のトークンに応じて適切な種類の文をパースする。
// 各文は最後のトークンを curToken にした状態で戻る。
func (p *Parser) parseStatement() ast.Statement {
	defer p.untrace(p.trace("parseStatement"))

	switch p.curToken.Type {
	case token.PREPARE:
		return p.parsePrepareStatement()
	case token.BRUSH:
		return p.parseStructStatement()
	case token.SKETCH:
		return p.parseFunctionStatement()
	case token.FINISHED:
		return p.parseReturnStatement()
	case token.LOOP:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.IF:
		return p.parseConditionalStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parsePrepareStatement は `prepare <name> as <expression>` をパースする。
// `prepare <name>.<member> as <expression>` はメンバへの代入になる。
func (p *Parser) parsePrepareStatement() ast.Statement {
	prepare := p.curToken

	// prepare の次は識別子が来なければならない
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.PERIOD) {
		p.nextToken()
		dot := p.curToken
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		target := &ast.PropertyExpression{
			Token:    dot,
			Object:   name,
			Property: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
		value := p.parseAsClause()
		if value == nil {
			return nil
		}
		return &ast.AssignStatement{Token: prepare, Target: target, Value: value}
	}

	value := p.parseAsClause()
	if value == nil {
		return nil
	}
	return &ast.VarStatement{Token: prepare, Name: name, Value: value}
}

// parseAsClause は `as <expression>` を読む。
func (p *Parser) parseAsClause() ast.Expression {
	if !p.expectPeek(token.AS) {
		return nil
	}
	p.nextToken()
	return p.parseExpression(LOWEST)
}

// parseStructStatement は `brush <name> has { a, b }` をパースする。
func (p *Parser) parseStructStatement() ast.Statement {
	stmt := &ast.StructStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.HAS) || !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.Members = p.parseIdentifierList(token.RBRACE)
	if p.failed() {
		return nil
	}
	return stmt
}

// parseFunctionStatement は `sketch <name> needs (<params>) { <body> }` をパースする。
// needs 節は省略できる（引数なし）。
func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken, Parameters: []*ast.Identifier{}}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.NEEDS) {
		p.nextToken()
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		stmt.Parameters = p.parseIdentifierList(token.RPAREN)
		if p.failed() {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	if p.failed() {
		return nil
	}
	return stmt
}

// parseReturnStatement は `finished <expression>` をパースする。
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	p.nextToken()

	stmt.ReturnValue = p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}
	return stmt
}

// parseForStatement は `loop <ident> through (<start>, <end>) { <body> }` をパースする。
func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.THROUGH) || !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()
	stmt.Start = p.parseExpression(LOWEST)
	if p.failed() || !p.expectPeek(token.COMMA) {
		return nil
	}

	p.nextToken()
	stmt.End = p.parseExpression(LOWEST)
	if p.failed() || !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.Body = p.parseBlockStatement()
	if p.failed() {
		return nil
	}
	return stmt
}

// parseWhileStatement は `while (<condition>) { <body> }` をパースする。
func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	stmt.Condition = p.parseParenCondition()
	if p.failed() || !p.expectPeek(token.LBRACE) {
		return nil
	}

	stmt.Body = p.parseBlockStatement()
	if p.failed() {
		return nil
	}
	return stmt
}

// parseConditionalStatement は if / elif / else の連鎖をパースする。
// elif と else は先頭の if の Alternatives に出現順で並べる。
// else が来たら連鎖はそこで終わる。
func (p *Parser) parseConditionalStatement() ast.Statement {
	defer p.untrace(p.trace("parseConditionalStatement"))

	stmt := p.parseGuardedBranch()
	if stmt == nil {
		return nil
	}

	for p.peekTokenIs(token.ELIF) || p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if p.curTokenIs(token.ELSE) {
			alt := &ast.ConditionalStatement{Token: p.curToken}
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			alt.Consequence = p.parseBlockStatement()
			if p.failed() {
				return nil
			}
			stmt.Alternatives = append(stmt.Alternatives, alt)
			break
		}

		alt := p.parseGuardedBranch()
		if alt == nil {
			return nil
		}
		stmt.Alternatives = append(stmt.Alternatives, alt)
	}

	return stmt
}

// parseGuardedBranch は `if (<cond>) { ... }` または `elif (<cond>) { ... }` の1節を読む。
func (p *Parser) parseGuardedBranch() *ast.ConditionalStatement {
	branch := &ast.ConditionalStatement{Token: p.curToken}

	branch.Condition = p.parseParenCondition()
	if p.failed() || !p.expectPeek(token.LBRACE) {
		return nil
	}

	branch.Consequence = p.parseBlockStatement()
	if p.failed() {
		return nil
	}
	return branch
}

// parseParenCondition は `(<expression>)` を読む。
// 呼ばれたとき curToken はキーワード（if, elif, while）。
func (p *Parser) parseParenCondition() ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if p.failed() || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return cond
}

// parseExpressionStatement は式だけからなる文をパースする。
// 式の後に `=` が続けば代入文になる（x = 1, p.x = 1, xs[0] = 1）。
func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}

	if !p.peekTokenIs(token.ASSIGN) {
		return stmt
	}

	p.nextToken()
	if !isAssignable(stmt.Expression) {
		p.fail(diag.Errorf(diag.SyntaxError, p.curToken.Pos(),
			"cannot assign to %s", stmt.Expression.String()))
		return nil
	}

	assign := &ast.AssignStatement{Token: p.curToken, Target: stmt.Expression}
	p.nextToken()
	assign.Value = p.parseExpression(LOWEST)
	if p.failed() {
		return nil
	}
	return assign
}

// isAssignable は代入の左辺になれる式か判定する。
func isAssignable(exp ast.Expression) bool {
	switch exp.(type) {
	case *ast.Identifier, *ast.PropertyExpression:
		return true
	}
	return false
}

// parseBlockStatement は `{ ... }` 内の文をパースする。
// '}' に到達するまで文をパースし続ける。'}' の前に EOF が来たらエラー。
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	defer p.untrace(p.trace("parseBlockStatement"))

	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.fail(diag.Unexpected(describe(token.RBRACE), p.curToken))
			return nil
		}
		stmt := p.parseStatement()
		if p.failed() {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}

	return block
}

// =====================
// 式のパース（Pratt Parser の心臓部）
// =====================

// parseExpression はPratt Parserのメインループ。
//  1. まず現在のトークンに対応する前置解析関数を呼んで左辺の式を得る
//  2. 次のトークンの優先順位が現在の優先順位より高い間、
//     中置解析関数を呼んで左辺に演算子と右辺を結合していく
//
// 例: `10 - 2 - 3` の場合
//   - 前置関数で 10 を取得
//   - - の優先順位(SUM) > LOWEST なので、中置関数で (10 - ...) を構築
//   - 中置関数内で parseExpression(SUM) を呼ぶと、2 の次の - は SUM で
//     「より高く」はないのでループに入らず 2 だけを返す
//   - 外側のループに戻り、(10 - 2) を左辺として残りの - 3 を結合する
//   - 結果: ((10 - 2) - 3)
func (p *Parser) parseExpression(precedence int) ast.Expression {
	defer p.untrace(p.trace("parseExpression"))

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError()
		return nil
	}
	leftExp := prefix()

	for !p.failed() && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	if p.failed() {
		return nil
	}
	return leftExp
}

// peekPrecedence は次のトークンの優先順位を返す。
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

// curPrecedence は現在のトークンの優先順位を返す。
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

// =====================
// 各種式の解析関数
// =====================

// parseIdentifier は識別子をパースする。
func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseNumberLiteral は数値リテラルをパースする。
func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.curToken}

	if v, ok := p.curToken.Value.(float64); ok {
		lit.Value = v
		return lit
	}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.fail(diag.Errorf(diag.SyntaxError, p.curToken.Pos(),
			"could not parse %q as number", p.curToken.Literal))
		return nil
	}

	lit.Value = value

	return lit
}

// parseStringLiteral は文字列リテラルをパースする。
func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseBoolean はブーリアンリテラル（true/false）をパースする。
func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curToken.Literal == "true"}
}

// parsePrefixExpression は前置演算子式（!x, -5 など）をパースする。
func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()

	// PREFIX 優先順位で右辺をパース
	expression.Right = p.parseExpression(PREFIX)

	return expression
}

// parseInfixExpression は中置演算子式（5 + 10 など）をパースする。
// 右辺は現在の演算子の優先順位でパースするので、
// 同じ優先順位の演算子は右辺に取り込まれず、左結合になる。
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

// parseGroupedExpression は括弧で囲まれた式 `(expression)` をパースする。
// 括弧はグループ化のためだけに使われ、AST上には残らない。
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if p.failed() || !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

// parseArrayLiteral は配列リテラル `[a, b, c]` をパースする。
func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	array.Elements = p.parseExpressionList(token.RBRACKET)
	return array
}

// parseInstanceExpression は `prep <Struct>(a: 1, b: 2)` をパースする。
func (p *Parser) parseInstanceExpression() ast.Expression {
	exp := &ast.InstanceExpression{Token: p.curToken, Members: []*ast.MemberBinding{}}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Struct = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	// メンバが0個の場合: prep Empty()
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return exp
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()

		value := p.parseExpression(LOWEST)
		if p.failed() {
			return nil
		}
		exp.Members = append(exp.Members, &ast.MemberBinding{Name: name, Value: value})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // カンマを飛ばす
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseCallExpression は関数呼び出し `<expression>(<args>)` をパースする。
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: function}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	return exp
}

// parseIndexExpression は添字アクセス `<expression>[<index>]` をパースする。
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.PropertyExpression{Token: p.curToken, Object: left, Computed: true}

	p.nextToken()
	exp.Property = p.parseExpression(LOWEST)

	if p.failed() || !p.expectPeek(token.RBRACKET) {
		return nil
	}

	return exp
}

// parsePropertyExpression はメンバアクセス `<expression>.<name>` をパースする。
func (p *Parser) parsePropertyExpression(left ast.Expression) ast.Expression {
	exp := &ast.PropertyExpression{Token: p.curToken, Object: left}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Property = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	return exp
}

// parseExpressionList はカンマ区切りの式の並び `(a, b, c)` や `[a, b, c]` をパースする。
// end は閉じ括弧のトークンタイプ。
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}

	// 要素が0個の場合: add() や []
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	// 最初の要素
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	// カンマ区切りで残りの要素を読む
	for !p.failed() && p.peekTokenIs(token.COMMA) {
		p.nextToken() // カンマを飛ばす
		p.nextToken() // 次の要素へ
		list = append(list, p.parseExpression(LOWEST))
	}

	if p.failed() || !p.expectPeek(end) {
		return nil
	}

	return list
}

// parseIdentifierList はカンマ区切りの識別子の並びを end まで読む。
// 少なくとも1つの識別子が必要。
func (p *Parser) parseIdentifierList(end token.TokenType) []*ast.Identifier {
	identifiers := []*ast.Identifier{}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // カンマを飛ばす
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(end) {
		return nil
	}

	return identifiers
}

// registerPrefix は前置解析関数を登録するヘルパー。
func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix は中置解析関数を登録するヘルパー。
func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
