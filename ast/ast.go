// Package ast は Easel言語の抽象構文木（AST）を定義するパッケージ。
// パーサーがトークン列から変換した結果がこのASTになる。
// ASTの各ノードは Node インターフェースを実装し、
// 文（Statement）と式（Expression）の2種類に大別される。
package ast

import (
	"bytes"
	"strings"

	"easel/token"
)

// Node はASTの全ノードが実装する基本インターフェース。
// TokenLiteral() はデバッグ用にトークンのリテラル値を返す。
// String() はノードを人間が読める文字列に変換する。
// Pos() はエラー表示に使うソース上の位置を返す。
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Statement は「文」を表すノードのインターフェース。
// statementNode() はマーカーメソッドで、式と文を型レベルで区別するために使う。
type Statement interface {
	Node
	statementNode()
}

// Expression は「式」を表すノードのインターフェース。
type Expression interface {
	Node
	expressionNode()
}

// Program はASTのルートノード。
// Easelのプログラムは文（Statement）の列で構成される。
type Program struct {
	Statements []Statement
}

// TokenLiteral は最初の文のトークンリテラルを返す。
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Pos は最初の文の位置を返す。空のプログラムなら 1:1。
func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// String は各文を改行で区切って連結する。
func (p *Program) String() string {
	stmts := make([]string, 0, len(p.Statements))
	for _, s := range p.Statements {
		stmts = append(stmts, s.String())
	}
	return strings.Join(stmts, "\n")
}

// =====================
// 文（Statements）
// =====================

// VarStatement は `prepare x as <expression>` という変数宣言を表す。
// 現在のスコープに束縛する（外側の同名変数は隠れる）。
type VarStatement struct {
	Token token.Token // token.PREPARE トークン
	Name  *Identifier
	Value Expression
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VarStatement) Pos() token.Position  { return vs.Token.Pos() }

// String は `prepare <name> as <value>` の形式で返す。
func (vs *VarStatement) String() string {
	var out bytes.Buffer

	out.WriteString("prepare ")
	out.WriteString(vs.Name.String())
	out.WriteString(" as ")
	if vs.Value != nil {
		out.WriteString(vs.Value.String())
	}

	return out.String()
}

// AssignStatement は既存の束縛を書き換える文を表す。
// Target は Identifier（変数）か PropertyExpression（メンバ・配列要素）。
// `prepare p.x as 1` と `p.x = 1`、`x = 1` のいずれもこのノードになる。
type AssignStatement struct {
	Token  token.Token // token.PREPARE または token.ASSIGN トークン
	Target Expression
	Value  Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) Pos() token.Position  { return as.Target.Pos() }

func (as *AssignStatement) String() string {
	if as.Token.Type == token.PREPARE {
		return "prepare " + as.Target.String() + " as " + as.Value.String()
	}
	return as.Target.String() + " = " + as.Value.String()
}

// StructStatement は `brush Point has { x, y }` という構造体宣言を表す。
// Members は宣言順に並んだメンバ名。
type StructStatement struct {
	Token   token.Token // token.BRUSH トークン
	Name    *Identifier
	Members []*Identifier
}

func (ss *StructStatement) statementNode()       {}
func (ss *StructStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *StructStatement) Pos() token.Position  { return ss.Token.Pos() }

func (ss *StructStatement) String() string {
	return "brush " + ss.Name.String() + " has { " + joinIdentifiers(ss.Members) + " }"
}

// FunctionStatement は `sketch name needs (a, b) { ... }` という関数宣言を表す。
type FunctionStatement struct {
	Token      token.Token // token.SKETCH トークン
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *FunctionStatement) Pos() token.Position  { return fs.Token.Pos() }

func (fs *FunctionStatement) String() string {
	var out bytes.Buffer

	out.WriteString("sketch ")
	out.WriteString(fs.Name.String())
	if len(fs.Parameters) > 0 {
		out.WriteString(" needs (")
		out.WriteString(joinIdentifiers(fs.Parameters))
		out.WriteString(")")
	}
	out.WriteString(" ")
	out.WriteString(fs.Body.String())

	return out.String()
}

// ReturnStatement は `finished <expression>` を表す。
type ReturnStatement struct {
	Token       token.Token // 'finished' トークン
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() token.Position  { return rs.Token.Pos() }

func (rs *ReturnStatement) String() string {
	if rs.ReturnValue == nil {
		return "finished"
	}
	return "finished " + rs.ReturnValue.String()
}

// WhileStatement は `while (<condition>) { ... }` を表す。
type WhileStatement struct {
	Token     token.Token // 'while' トークン
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() token.Position  { return ws.Token.Pos() }

func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// ForStatement は `loop i through (start, end) { ... }` を表す。
// ループ変数は [start, end) の整数を昇順にたどる。
type ForStatement struct {
	Token    token.Token // 'loop' トークン
	Variable *Identifier
	Start    Expression
	End      Expression
	Body     *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) Pos() token.Position  { return fs.Token.Pos() }

func (fs *ForStatement) String() string {
	var out bytes.Buffer

	out.WriteString("loop ")
	out.WriteString(fs.Variable.String())
	out.WriteString(" through (")
	out.WriteString(fs.Start.String())
	out.WriteString(", ")
	out.WriteString(fs.End.String())
	out.WriteString(") ")
	out.WriteString(fs.Body.String())

	return out.String()
}

// ConditionalStatement は if / elif / else の連鎖を表す。
// Alternatives には elif と else が出現順に並ぶ。
// else の Condition は nil で、常に真として扱う。
type ConditionalStatement struct {
	Token        token.Token // 'if'、'elif'、'else' のいずれか
	Condition    Expression
	Consequence  *BlockStatement
	Alternatives []*ConditionalStatement
}

func (cs *ConditionalStatement) statementNode()       {}
func (cs *ConditionalStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ConditionalStatement) Pos() token.Position  { return cs.Token.Pos() }

func (cs *ConditionalStatement) String() string {
	var out bytes.Buffer

	out.WriteString(cs.Token.Literal)
	if cs.Condition != nil {
		out.WriteString(" (")
		out.WriteString(cs.Condition.String())
		out.WriteString(")")
	}
	out.WriteString(" ")
	out.WriteString(cs.Consequence.String())

	for _, alt := range cs.Alternatives {
		out.WriteString(" ")
		out.WriteString(alt.String())
	}

	return out.String()
}

// ExpressionStatement は式だけからなる文を表す。
// 関数呼び出し `print(x)` などがこれに当たる。
type ExpressionStatement struct {
	Token      token.Token // その式の最初のトークン
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() token.Position  { return es.Token.Pos() }

func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// BlockStatement は `{ ... }` で囲まれたブロック（文の列）を表す。
// 関数本体やループ本体、条件分岐の各節で使われる。
type BlockStatement struct {
	Token      token.Token // '{' トークン
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() token.Position  { return bs.Token.Pos() }

func (bs *BlockStatement) String() string {
	if len(bs.Statements) == 0 {
		return "{ }"
	}
	stmts := make([]string, 0, len(bs.Statements))
	for _, s := range bs.Statements {
		stmts = append(stmts, s.String())
	}
	return "{ " + strings.Join(stmts, "; ") + " }"
}

// =====================
// 式（Expressions）
// =====================

// Identifier は変数名などの識別子を表す。
type Identifier struct {
	Token token.Token // token.IDENT トークン
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos() }
func (i *Identifier) String() string       { return i.Value }

// Boolean は true/false のブーリアンリテラルを表す。
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) Pos() token.Position  { return b.Token.Pos() }
func (b *Boolean) String() string       { return b.Token.Literal }

// NumberLiteral は数値リテラル（例: 5, 3.14）を表す。
// 数値はすべて倍精度浮動小数点数として扱う。
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) Pos() token.Position  { return nl.Token.Pos() }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

// StringLiteral は文字列リテラルを表す。
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() token.Position  { return sl.Token.Pos() }

// String はクォートつきで返す。中身に `"` があれば `'` で囲む。
func (sl *StringLiteral) String() string {
	if strings.ContainsRune(sl.Value, '"') {
		return "'" + sl.Value + "'"
	}
	return `"` + sl.Value + `"`
}

// ArrayLiteral は配列リテラル `[1, 2, 3]` を表す。
type ArrayLiteral struct {
	Token    token.Token // '[' トークン
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) Pos() token.Position  { return al.Token.Pos() }

func (al *ArrayLiteral) String() string {
	return "[" + joinExpressions(al.Elements) + "]"
}

// PrefixExpression は前置演算子式（例: !done, -5）を表す。
type PrefixExpression struct {
	Token    token.Token // 前置演算子のトークン（例: !）
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) Pos() token.Position  { return pe.Token.Pos() }

// String は `(<operator><right>)` の形式で返す（例: "(!ok)"）。
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression は中置演算子式（例: 5 + 10, a == b）を表す。
type InfixExpression struct {
	Token    token.Token // 演算子トークン（例: +）
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) Pos() token.Position  { return ie.Token.Pos() }

// String は `(<left> <operator> <right>)` の形式で返す（例: "(5 + 10)"）。
// 括弧の付き方で結合の順序を確認できる。
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

// CallExpression は関数呼び出し `<function>(<args>)` を表す。
type CallExpression struct {
	Token     token.Token // '(' トークン
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() token.Position  { return ce.Token.Pos() }

func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinExpressions(ce.Arguments) + ")"
}

// PropertyExpression はメンバアクセス `p.x` と添字アクセス `a[i]` を表す。
// Computed が false なら Property は *Identifier、true なら任意の式。
type PropertyExpression struct {
	Token    token.Token // '.' または '[' トークン
	Object   Expression
	Property Expression
	Computed bool
}

func (pe *PropertyExpression) expressionNode()      {}
func (pe *PropertyExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PropertyExpression) Pos() token.Position  { return pe.Token.Pos() }

func (pe *PropertyExpression) String() string {
	if pe.Computed {
		return "(" + pe.Object.String() + "[" + pe.Property.String() + "])"
	}
	return pe.Object.String() + "." + pe.Property.String()
}

// MemberBinding は prep 式の `name: value` の組。
type MemberBinding struct {
	Name  *Identifier
	Value Expression
}

// InstanceExpression は `prep Point(x: 1, y: 2)` というインスタンス生成を表す。
// Members は書かれた順に並ぶ（重複の検出は評価時に行う）。
type InstanceExpression struct {
	Token   token.Token // 'prep' トークン
	Struct  *Identifier
	Members []*MemberBinding
}

func (ie *InstanceExpression) expressionNode()      {}
func (ie *InstanceExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InstanceExpression) Pos() token.Position  { return ie.Token.Pos() }

func (ie *InstanceExpression) String() string {
	members := make([]string, 0, len(ie.Members))
	for _, m := range ie.Members {
		members = append(members, m.Name.String()+": "+m.Value.String())
	}
	return "prep " + ie.Struct.String() + "(" + strings.Join(members, ", ") + ")"
}

func joinIdentifiers(idents []*Identifier) string {
	names := make([]string, 0, len(idents))
	for _, id := range idents {
		names = append(names, id.String())
	}
	return strings.Join(names, ", ")
}

func joinExpressions(exps []Expression) string {
	parts := make([]string, 0, len(exps))
	for _, e := range exps {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
