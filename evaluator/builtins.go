// builtins.go は Easel言語の組み込み関数を定義する。
// これらの関数はユーザーが定義しなくても最初から使える。
// 同じ名前の変数や関数を宣言すれば、そちらが優先される。
//
// 組み込み関数一覧:
// - print: 引数を空白区切りで出力して改行する
// - len: 文字列の長さまたは配列の要素数を返す
// - first: 配列の最初の要素を返す
// - last: 配列の最後の要素を返す
// - rest: 配列の最初の要素を除いた新しい配列を返す
// - push: 配列の末尾に要素を追加する（元の配列を変更する）
// - pop: 配列の末尾の要素を取り除いて返す
// - str: 値を文字列に変換する
// - round: 数値を四捨五入する
package evaluator

import (
	"fmt"
	"io"
	"math"
	"strings"

	"easel/diag"
	"easel/object"
	"easel/token"
)

// variadic は可変長引数を表す Arity。
const variadic = -1

// newBuiltins は組み込み関数名からBuiltinオブジェクトへのマップを作る。
// print の出力先を Evaluator ごとに変えられるように、実行ごとに作る。
func newBuiltins(out io.Writer) map[string]*object.Builtin {
	builtins := map[string]*object.Builtin{
		// print は引数を空白区切りで出力する。常にUNITを返す。
		"print": {Arity: variadic, Fn: func(args ...object.Object) (object.Object, error) {
			parts := make([]string, 0, len(args))
			for _, arg := range args {
				parts = append(parts, arg.Inspect())
			}
			if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
				return nil, diag.Errorf(diag.RuntimeError, token.Position{}, "print: %v", err)
			}
			return UNIT, nil
		}},

		"len": {Arity: 1, Fn: func(args ...object.Object) (object.Object, error) {
			switch arg := args[0].(type) {
			case *object.Array:
				return &object.Number{Value: float64(len(arg.Elements))}, nil
			case *object.String:
				return &object.Number{Value: float64(len([]rune(arg.Value)))}, nil
			}
			return nil, argumentError("len", "ARRAY or STRING", args[0])
		}},

		// first は配列の最初の要素を返す。空配列の場合はUNITを返す。
		"first": {Arity: 1, Fn: func(args ...object.Object) (object.Object, error) {
			arr, err := arrayArgument("first", args[0])
			if err != nil {
				return nil, err
			}
			if len(arr.Elements) > 0 {
				return arr.Elements[0], nil
			}
			return UNIT, nil
		}},

		// last は配列の最後の要素を返す。空配列の場合はUNITを返す。
		"last": {Arity: 1, Fn: func(args ...object.Object) (object.Object, error) {
			arr, err := arrayArgument("last", args[0])
			if err != nil {
				return nil, err
			}
			if length := len(arr.Elements); length > 0 {
				return arr.Elements[length-1], nil
			}
			return UNIT, nil
		}},

		// rest は配列の最初の要素を除いた新しい配列を返す。
		// 元の配列は変更しない。空配列の場合はUNITを返す。
		"rest": {Arity: 1, Fn: func(args ...object.Object) (object.Object, error) {
			arr, err := arrayArgument("rest", args[0])
			if err != nil {
				return nil, err
			}
			length := len(arr.Elements)
			if length == 0 {
				return UNIT, nil
			}
			newElements := make([]object.Object, length-1)
			copy(newElements, arr.Elements[1:length])
			return &object.Array{Elements: newElements}, nil
		}},

		// push は配列の末尾に要素を追加し、同じ配列を返す。
		// 配列は参照で共有されるので、別名からも追加が見える。
		"push": {Arity: 2, Fn: func(args ...object.Object) (object.Object, error) {
			arr, err := arrayArgument("push", args[0])
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, args[1])
			return arr, nil
		}},

		// pop は配列の末尾の要素を取り除いて返す。空配列なら IndexError。
		"pop": {Arity: 1, Fn: func(args ...object.Object) (object.Object, error) {
			arr, err := arrayArgument("pop", args[0])
			if err != nil {
				return nil, err
			}
			length := len(arr.Elements)
			if length == 0 {
				return nil, diag.Errorf(diag.IndexError, token.Position{}, "pop from empty array")
			}
			last := arr.Elements[length-1]
			arr.Elements = arr.Elements[:length-1]
			return last, nil
		}},

		"str": {Arity: 1, Fn: func(args ...object.Object) (object.Object, error) {
			return &object.String{Value: args[0].Inspect()}, nil
		}},

		// round は0から遠い方へ丸める（2.5 → 3, -2.5 → -3）。
		"round": {Arity: 1, Fn: func(args ...object.Object) (object.Object, error) {
			n, ok := args[0].(*object.Number)
			if !ok {
				return nil, argumentError("round", "NUMBER", args[0])
			}
			return &object.Number{Value: math.Round(n.Value)}, nil
		}},
	}

	for name, b := range builtins {
		b.Name = name
	}
	return builtins
}

func arrayArgument(name string, arg object.Object) (*object.Array, error) {
	arr, ok := arg.(*object.Array)
	if !ok {
		return nil, argumentError(name, "ARRAY", arg)
	}
	return arr, nil
}

func argumentError(name, want string, got object.Object) error {
	return diag.Errorf(diag.TypeError, token.Position{}, "argument to `%s` must be %s, got %s", name, want, got.Type())
}
