package evaluator

import (
	"easel/ast"
	"easel/diag"
	"easel/object"
)

// =====================
// 前置演算子の評価
// =====================

// evalPrefixExpression は前置演算子式を評価する。
// ! は BOOLEAN にだけ、- は NUMBER にだけ適用できる。
func evalPrefixExpression(node *ast.PrefixExpression, right object.Object) (object.Object, error) {
	switch node.Operator {
	case "!":
		b, ok := right.(*object.Boolean)
		if !ok {
			return nil, diag.Errorf(diag.TypeError, node.Pos(), "operand of ! must be BOOLEAN, got %s", right.Type())
		}
		return nativeBoolToBooleanObject(!b.Value), nil
	case "-":
		n, ok := right.(*object.Number)
		if !ok {
			return nil, diag.Errorf(diag.TypeError, node.Pos(), "operand of - must be NUMBER, got %s", right.Type())
		}
		return &object.Number{Value: -n.Value}, nil
	}
	return nil, diag.Errorf(diag.TypeError, node.Pos(), "unknown operator: %s%s", node.Operator, right.Type())
}

// =====================
// 中置演算子の評価
// =====================

// evalLogicalExpression は && と || を短絡評価する。
// 左辺で結果が決まれば右辺は評価しない。両辺とも BOOLEAN でなければならない。
func (e *Evaluator) evalLogicalExpression(node *ast.InfixExpression, env *object.Environment) (object.Object, error) {
	left, err := e.Evaluate(node.Left, env)
	if err != nil {
		return nil, err
	}
	l, err := truth(left, node, "left operand of "+node.Operator)
	if err != nil {
		return nil, err
	}

	if node.Operator == "&&" && !l {
		return FALSE, nil
	}
	if node.Operator == "||" && l {
		return TRUE, nil
	}

	right, err := e.Evaluate(node.Right, env)
	if err != nil {
		return nil, err
	}
	r, err := truth(right, node, "right operand of "+node.Operator)
	if err != nil {
		return nil, err
	}
	return nativeBoolToBooleanObject(r), nil
}

// evalInfixExpression は中置演算子式を評価する。
// 両辺の型に応じて処理を分岐する。
func evalInfixExpression(node *ast.InfixExpression, left, right object.Object) (object.Object, error) {
	operator := node.Operator
	switch {
	// + はどちらかが文字列なら連結になる
	case operator == "+" && (left.Type() == object.STRING_OBJ || right.Type() == object.STRING_OBJ):
		return &object.String{Value: left.Inspect() + right.Inspect()}, nil
	// 両辺が数値の場合: 算術演算・比較演算
	case left.Type() == object.NUMBER_OBJ && right.Type() == object.NUMBER_OBJ:
		return evalNumberInfixExpression(node, left.(*object.Number).Value, right.(*object.Number).Value)
	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return evalStringInfixExpression(node, left.(*object.String).Value, right.(*object.String).Value)
	// 型が異なる場合（例: NUMBER == STRING）は比較もできない
	case left.Type() != right.Type():
		return nil, diag.Errorf(diag.TypeError, node.Pos(), "type mismatch: %s %s %s",
			left.Type(), operator, right.Type())
	case operator == "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right)), nil
	case operator == "!=":
		return nativeBoolToBooleanObject(!objectsEqual(left, right)), nil
	default:
		return nil, diag.Errorf(diag.TypeError, node.Pos(), "unknown operator: %s %s %s",
			left.Type(), operator, right.Type())
	}
}

// objectsEqual は同じ型の2つの値が等しいか判定する。
// 真偽値と unit は値で、配列・インスタンス・関数は同一性で比べる。
func objectsEqual(left, right object.Object) bool {
	switch l := left.(type) {
	case *object.Boolean:
		return l.Value == right.(*object.Boolean).Value
	case *object.Unit:
		return true
	}
	return left == right
}

// evalNumberInfixExpression は数値同士の中置演算を評価する。
// 除算は IEEE 754 に従い、0 で割ってもエラーにしない。
func evalNumberInfixExpression(node *ast.InfixExpression, l, r float64) (object.Object, error) {
	switch node.Operator {
	case "+":
		return &object.Number{Value: l + r}, nil
	case "-":
		return &object.Number{Value: l - r}, nil
	case "*":
		return &object.Number{Value: l * r}, nil
	case "/":
		return &object.Number{Value: l / r}, nil
	case "<":
		return nativeBoolToBooleanObject(l < r), nil
	case "<=":
		return nativeBoolToBooleanObject(l <= r), nil
	case ">":
		return nativeBoolToBooleanObject(l > r), nil
	case ">=":
		return nativeBoolToBooleanObject(l >= r), nil
	case "==":
		return nativeBoolToBooleanObject(l == r), nil
	case "!=":
		return nativeBoolToBooleanObject(l != r), nil
	}
	return nil, diag.Errorf(diag.TypeError, node.Pos(), "unknown operator: NUMBER %s NUMBER", node.Operator)
}

// evalStringInfixExpression は文字列同士の比較を評価する。
// 連結は evalInfixExpression で先に処理済み。
func evalStringInfixExpression(node *ast.InfixExpression, l, r string) (object.Object, error) {
	switch node.Operator {
	case "<":
		return nativeBoolToBooleanObject(l < r), nil
	case "<=":
		return nativeBoolToBooleanObject(l <= r), nil
	case ">":
		return nativeBoolToBooleanObject(l > r), nil
	case ">=":
		return nativeBoolToBooleanObject(l >= r), nil
	case "==":
		return nativeBoolToBooleanObject(l == r), nil
	case "!=":
		return nativeBoolToBooleanObject(l != r), nil
	}
	return nil, diag.Errorf(diag.TypeError, node.Pos(), "unknown operator: STRING %s STRING", node.Operator)
}

// =====================
// メンバアクセスと添字
// =====================

// evalMemberExpression は `p.x` を評価する。インスタンスにだけ使える。
func evalMemberExpression(node *ast.PropertyExpression, obj object.Object) (object.Object, error) {
	name := node.Property.(*ast.Identifier).Value

	instance, ok := obj.(*object.Instance)
	if !ok {
		return nil, diag.Named(diag.TypeError, node.Pos(), name,
			"cannot read member %s of %s", name, obj.Type())
	}

	val, ok := instance.Fields[name]
	if !ok {
		return nil, diag.Named(diag.NameError, node.Property.Pos(), name,
			"%s has no member %s", instance.Def.Name, name)
	}
	return val, nil
}

// evalIndexExpression は `xs[i]` を評価する。
// 配列と文字列（1文字の文字列を返す）に使える。
func evalIndexExpression(node *ast.PropertyExpression, obj, index object.Object) (object.Object, error) {
	switch o := obj.(type) {
	case *object.Array:
		i, err := checkIndex(index, len(o.Elements), node)
		if err != nil {
			return nil, err
		}
		return o.Elements[i], nil
	case *object.String:
		runes := []rune(o.Value)
		i, err := checkIndex(index, len(runes), node)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: string(runes[i])}, nil
	}
	return nil, diag.Errorf(diag.TypeError, node.Pos(), "index operator not supported: %s", obj.Type())
}

// checkIndex は添字が [0, length) の整数であることを確かめる。
func checkIndex(index object.Object, length int, node ast.Node) (int, error) {
	n, ok := index.(*object.Number)
	if !ok {
		return 0, diag.Errorf(diag.TypeError, node.Pos(), "index must be NUMBER, got %s", index.Type())
	}
	if !n.IsInteger() {
		return 0, diag.Errorf(diag.IndexError, node.Pos(), "index %s is not an integer", n.Inspect())
	}
	if n.Value < 0 || n.Value >= float64(length) {
		return 0, diag.Errorf(diag.IndexError, node.Pos(), "index %s out of range [0, %d)", n.Inspect(), length)
	}
	return int(n.Value), nil
}
