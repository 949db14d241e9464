// Package object は Easel言語のランタイムオブジェクトシステムを定義するパッケージ。
// 評価器（Evaluator）がASTを評価した結果はすべてこのパッケージの Object として表現される。
// 全てのオブジェクトは Object インターフェースを実装する。
package object

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"easel/ast"
)

// ObjectType はオブジェクトの種類を識別する文字列型。
type ObjectType string

// オブジェクトの種類を表す定数。
const (
	UNIT_OBJ = "UNIT" // 値がないことを表す

	NUMBER_OBJ  = "NUMBER"  // 倍精度浮動小数点数
	STRING_OBJ  = "STRING"  // 文字列
	BOOLEAN_OBJ = "BOOLEAN" // 真偽値
	ARRAY_OBJ   = "ARRAY"   // 配列（参照共有・変更可能）

	INSTANCE_OBJ = "INSTANCE" // 構造体のインスタンス

	RETURN_VALUE_OBJ = "RETURN_VALUE" // finished 文の戻り値をラップする制御シグナル

	FUNCTION_OBJ = "FUNCTION" // 関数オブジェクト
	BUILTIN_OBJ  = "BUILTIN"  // 組み込み関数
)

// Object はEasel言語の全ての値が実装するインターフェース。
// Type() はオブジェクトの種類を返し、Inspect() は値の文字列表現を返す。
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Number は数値を表すオブジェクト。
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }

// Inspect は余計な小数部を付けずに返す（7.0 は "7"）。
func (n *Number) Inspect() string { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

// IsInteger は値が整数かどうかを返す。配列の添字チェックに使う。
func (n *Number) IsInteger() bool {
	return !math.IsInf(n.Value, 0) && math.Trunc(n.Value) == n.Value
}

// String は文字列を表すオブジェクト。
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Boolean は真偽値を表すオブジェクト。
// 評価器ではシングルトン（TRUE, FALSE）として扱う。
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// Unit は値がないことを表すオブジェクト。
// finished を通らずに終わった関数呼び出しの結果など。評価器ではシングルトン（UNIT）。
type Unit struct{}

func (u *Unit) Type() ObjectType { return UNIT_OBJ }
func (u *Unit) Inspect() string  { return "unit" }

// Array は配列を表すオブジェクト。
// ポインタで共有されるので、どの別名から変更しても全員に見える。
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }

// Inspect は `[1, 2, 3]` の形式で返す。文字列要素はクォートで囲む。
// 自分自身を含む配列は内側を `[...]` と表示する。
func (a *Array) Inspect() string { return a.inspect(map[Object]bool{}) }

func (a *Array) inspect(seen map[Object]bool) string {
	if seen[a] {
		return "[...]"
	}
	seen[a] = true
	defer delete(seen, a)

	elements := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		elements = append(elements, quote(e, seen))
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// StructDef は `brush` で宣言された構造体の定義。
// Members は宣言順のメンバ名。
type StructDef struct {
	Name    string
	Members []string
}

// Has はメンバ名が宣言されているか判定する。
func (s *StructDef) Has(name string) bool {
	for _, m := range s.Members {
		if m == name {
			return true
		}
	}
	return false
}

// Instance は構造体のインスタンス。
// Def は定義への参照、Fields はメンバ名から値へのマップ。
// Array と同じく参照で共有される。
type Instance struct {
	Def    *StructDef
	Fields map[string]Object
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }

// Inspect は `Point { x: 1, y: 2 }` の形式で、宣言順にメンバを並べて返す。
// 循環参照は `Point {...}` と表示する。
func (i *Instance) Inspect() string { return i.inspect(map[Object]bool{}) }

func (i *Instance) inspect(seen map[Object]bool) string {
	if seen[i] {
		return i.Def.Name + " {...}"
	}
	seen[i] = true
	defer delete(seen, i)

	fields := make([]string, 0, len(i.Def.Members))
	for _, name := range i.Def.Members {
		fields = append(fields, name+": "+quote(i.Fields[name], seen))
	}
	return i.Def.Name + " { " + strings.Join(fields, ", ") + " }"
}

// ReturnValue は finished 文の戻り値をラップするオブジェクト。
// 評価器が finished 文に遭遇すると、このオブジェクトでラップして
// ブロックの実行を巻き戻す。関数呼び出しの境界で中身が取り出される。
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Function は関数オブジェクト。
// Env は宣言時の環境で、呼び出し側の環境ではない。
// これを保持することでクロージャとレキシカルスコープを実現する。
type Function struct {
	Name       string
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }

// Inspect は `sketch name needs (a, b)` の形式で返す。本体は出さない。
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("sketch ")
	out.WriteString(f.Name)
	if len(params) > 0 {
		out.WriteString(" needs (")
		out.WriteString(strings.Join(params, ", "))
		out.WriteString(")")
	}

	return out.String()
}

// BuiltinFunction は組み込み関数の実体。
type BuiltinFunction func(args ...Object) (Object, error)

// Builtin は組み込み関数オブジェクト。
// Arity が負なら可変長引数。
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }

// Quote は配列やインスタンスの中で表示するときの表現を返す。
// 文字列だけをクォートで囲む。
func Quote(obj Object) string {
	return quote(obj, map[Object]bool{})
}

// quote は表示中の配列とインスタンスを seen で追いかける。
func quote(obj Object, seen map[Object]bool) string {
	switch obj := obj.(type) {
	case nil:
		return "unit"
	case *String:
		return strconv.Quote(obj.Value)
	case *Array:
		return obj.inspect(seen)
	case *Instance:
		return obj.inspect(seen)
	}
	return obj.Inspect()
}
