// Package evaluator は Easel言語のTree-walking評価器を実装するパッケージ。
// ASTを再帰的にたどりながら（tree-walking）、各ノードを評価して
// object.Object としての結果を返す。
//
// エラーは *diag.Error として Go の error で返し、評価はその場で打ち切る。
// finished 文は object.ReturnValue という制御シグナルで関数呼び出しの境界まで巻き戻す。
package evaluator

import (
	"io"
	"log/slog"
	"os"

	"easel/ast"
	"easel/diag"
	"easel/object"
)

// DefaultMaxDepth は関数呼び出しのネストの既定の上限。
const DefaultMaxDepth = 1024

// MaxDepthLimit は設定できる上限の最大値。
// これより深いとGoのスタックが先に尽きる。
const MaxDepthLimit = 100000

// シングルトンオブジェクト。
// true, false, unit は常に同じオブジェクトを使い回す。
var (
	UNIT  = &object.Unit{}
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

// Evaluator は1回の実行に必要な状態を持つ。
// 実行ごとに New で作り、別の実行と状態を共有しない。
type Evaluator struct {
	out      io.Writer
	logger   *slog.Logger
	maxDepth int
	depth    int // 現在の関数呼び出しのネスト

	builtins map[string]*object.Builtin
}

// Option は Evaluator の設定を変える関数。
type Option func(*Evaluator)

// WithOutput は print の出力先を設定する。既定は標準出力。
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.out = w }
}

// WithMaxDepth は関数呼び出しのネストの上限を設定する。0以下なら既定値。
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = min(n, MaxDepthLimit)
		}
	}
}

// WithLogger はデバッグ用のロガーを設定する。評価の結果には影響しない。
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New は Evaluator を生成し、組み込み関数を登録する。
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		out:      os.Stdout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.builtins = newBuiltins(e.out)
	return e
}

// Run はプログラムを環境 env の上で実行し、実行後の環境を返す。
func (e *Evaluator) Run(program *ast.Program, env *object.Environment) (*object.Environment, error) {
	if _, err := e.Eval(program, env); err != nil {
		return env, err
	}
	return env, nil
}

// Eval はプログラム全体（文のリスト）を評価し、最後の文の値を返す。
// REPL が結果を表示するために使う。
// トップレベルの finished に遭遇したら、その値でプログラムを終える。
func (e *Evaluator) Eval(program *ast.Program, env *object.Environment) (object.Object, error) {
	var result object.Object = UNIT

	for _, statement := range program.Statements {
		res, err := e.Execute(statement, env)
		if err != nil {
			return nil, err
		}

		if rv, ok := res.(*object.ReturnValue); ok {
			e.logger.Debug("program finished early", "pos", statement.Pos().String())
			return rv.Value, nil // ReturnValueをアンラップ
		}
		result = res
	}

	return result, nil
}

// =====================
// 文（Statements）
// =====================

// Execute は文を1つ実行する。
// 式文ならその値を、finished なら ReturnValue を、それ以外は UNIT を返す。
func (e *Evaluator) Execute(stmt ast.Statement, env *object.Environment) (object.Object, error) {
	switch node := stmt.(type) {

	// ExpressionStatement: 式文の内部の式を評価する
	case *ast.ExpressionStatement:
		return e.Evaluate(node.Expression, env)

	// VarStatement: 右辺を評価し、現在のスコープに変数を束縛する
	case *ast.VarStatement:
		val, err := e.Evaluate(node.Value, env)
		if err != nil {
			return nil, err
		}
		env.Set(node.Name.Value, val)
		return UNIT, nil

	// AssignStatement: 既存の束縛・メンバ・配列要素を書き換える
	case *ast.AssignStatement:
		return e.execAssign(node, env)

	// StructStatement: 構造体定義をグローバルに登録する
	case *ast.StructStatement:
		return e.execStruct(node, env)

	// FunctionStatement: 関数オブジェクトを生成して束縛する
	// 宣言時の環境を保持することがクロージャのポイント
	case *ast.FunctionStatement:
		fn := &object.Function{
			Name:       node.Name.Value,
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
		}
		env.Set(node.Name.Value, fn)
		return UNIT, nil

	// ReturnStatement: 戻り値を評価し、ReturnValueでラップする
	// これにより呼び出しスタックを巻き戻せる
	case *ast.ReturnStatement:
		val, err := e.Evaluate(node.ReturnValue, env)
		if err != nil {
			return nil, err
		}
		return &object.ReturnValue{Value: val}, nil

	case *ast.WhileStatement:
		return e.execWhile(node, env)

	case *ast.ForStatement:
		return e.execFor(node, env)

	case *ast.ConditionalStatement:
		return e.execConditional(node, env)

	// BlockStatement: 新しい子スコープでブロックを実行する
	case *ast.BlockStatement:
		return e.execBlock(node, object.NewEnclosedEnvironment(env))
	}

	return nil, diag.Errorf(diag.RuntimeError, stmt.Pos(), "unknown statement %T", stmt)
}

// execBlock はブロック内の文を env の上で順に実行する。
// ReturnValue に遭遇したらアンラップせずにそのまま返す。
// これにより、ネストされたブロックからの finished が関数の境界まで伝播する。
// finished がなければ UNIT を返す。
func (e *Evaluator) execBlock(block *ast.BlockStatement, env *object.Environment) (object.Object, error) {
	for _, statement := range block.Statements {
		result, err := e.Execute(statement, env)
		if err != nil {
			return nil, err
		}
		if result != nil && result.Type() == object.RETURN_VALUE_OBJ {
			return result, nil
		}
	}

	return UNIT, nil
}

// execAssign は代入文を実行する。
//   - x = v         : 最も近いスコープの x を書き換える（なければ NameError）
//   - p.x = v       : インスタンスのメンバを書き換える
//   - xs[i] = v     : 配列の要素を書き換える
func (e *Evaluator) execAssign(node *ast.AssignStatement, env *object.Environment) (object.Object, error) {
	switch target := node.Target.(type) {
	case *ast.Identifier:
		val, err := e.Evaluate(node.Value, env)
		if err != nil {
			return nil, err
		}
		if !env.Assign(target.Value, val) {
			return nil, diag.Named(diag.NameError, target.Pos(), target.Value,
				"cannot assign to undeclared variable %s", target.Value)
		}
		return UNIT, nil

	case *ast.PropertyExpression:
		obj, err := e.Evaluate(target.Object, env)
		if err != nil {
			return nil, err
		}
		if target.Computed {
			return e.assignIndex(node, target, obj, env)
		}

		name := target.Property.(*ast.Identifier).Value
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, diag.Named(diag.TypeError, target.Pos(), name,
				"cannot set member %s on %s", name, obj.Type())
		}
		if !instance.Def.Has(name) {
			return nil, diag.Named(diag.NameError, target.Property.Pos(), name,
				"%s has no member %s", instance.Def.Name, name)
		}

		val, err := e.Evaluate(node.Value, env)
		if err != nil {
			return nil, err
		}
		instance.Fields[name] = val
		return UNIT, nil
	}

	return nil, diag.Errorf(diag.RuntimeError, node.Pos(), "cannot assign to %s", node.Target.String())
}

// assignIndex は配列要素への代入を実行する。
// 右辺の評価で配列の長さが変わりうるので、範囲の検査は最後に行う。
func (e *Evaluator) assignIndex(
	node *ast.AssignStatement,
	target *ast.PropertyExpression,
	obj object.Object,
	env *object.Environment,
) (object.Object, error) {
	array, ok := obj.(*object.Array)
	if !ok {
		return nil, diag.Errorf(diag.TypeError, target.Pos(),
			"index assignment not supported: %s", obj.Type())
	}

	index, err := e.Evaluate(target.Property, env)
	if err != nil {
		return nil, err
	}
	val, err := e.Evaluate(node.Value, env)
	if err != nil {
		return nil, err
	}

	i, err := checkIndex(index, len(array.Elements), target)
	if err != nil {
		return nil, err
	}
	array.Elements[i] = val
	return UNIT, nil
}

// execStruct は構造体定義を登録する。
// 同じ名前の構造体が既にあるか、メンバ名が重複していれば DeclarationError。
func (e *Evaluator) execStruct(node *ast.StructStatement, env *object.Environment) (object.Object, error) {
	def := &object.StructDef{Name: node.Name.Value}
	seen := make(map[string]bool, len(node.Members))
	for _, m := range node.Members {
		if seen[m.Value] {
			return nil, diag.Named(diag.DeclarationError, m.Pos(), m.Value,
				"duplicate member %s in struct %s", m.Value, def.Name)
		}
		seen[m.Value] = true
		def.Members = append(def.Members, m.Value)
	}

	if !env.DefineStruct(def) {
		return nil, diag.Named(diag.DeclarationError, node.Name.Pos(), def.Name,
			"struct %s is already declared", def.Name)
	}
	e.logger.Debug("struct declared", "name", def.Name, "members", def.Members)
	return UNIT, nil
}

// execWhile は条件が真の間、毎回新しい子スコープで本体を実行する。
func (e *Evaluator) execWhile(node *ast.WhileStatement, env *object.Environment) (object.Object, error) {
	for {
		cond, err := e.Evaluate(node.Condition, env)
		if err != nil {
			return nil, err
		}
		ok, err := truth(cond, node.Condition, "while condition")
		if err != nil {
			return nil, err
		}
		if !ok {
			return UNIT, nil
		}

		result, err := e.execBlock(node.Body, object.NewEnclosedEnvironment(env))
		if err != nil {
			return nil, err
		}
		if result.Type() == object.RETURN_VALUE_OBJ {
			return result, nil
		}
	}
}

// execFor は `loop i through (start, end)` を実行する。
// start と end は最初に1回だけ評価し、どちらも数値でなければならない。
// ループ変数は反復ごとの子スコープに束縛する。end は含まない。
func (e *Evaluator) execFor(node *ast.ForStatement, env *object.Environment) (object.Object, error) {
	start, err := e.evalLoopBound(node.Start, env, "loop start")
	if err != nil {
		return nil, err
	}
	end, err := e.evalLoopBound(node.End, env, "loop end")
	if err != nil {
		return nil, err
	}

	for i := start; i < end; i++ {
		scope := object.NewEnclosedEnvironment(env)
		scope.Set(node.Variable.Value, &object.Number{Value: float64(i)})

		result, err := e.execBlock(node.Body, scope)
		if err != nil {
			return nil, err
		}
		if result.Type() == object.RETURN_VALUE_OBJ {
			return result, nil
		}
	}

	return UNIT, nil
}

// maxLoopBound は float64 で正確に表せる最大の整数。
const maxLoopBound = 1<<53 - 1

// evalLoopBound はループの範囲を評価する。
// 範囲は ±maxLoopBound に収まる整数でなければならない。
func (e *Evaluator) evalLoopBound(exp ast.Expression, env *object.Environment, what string) (int64, error) {
	n, err := e.evalNumber(exp, env, what)
	if err != nil {
		return 0, err
	}
	num := &object.Number{Value: n}
	if !num.IsInteger() {
		return 0, diag.Errorf(diag.TypeError, exp.Pos(), "%s must be an integer, got %s", what, num.Inspect())
	}
	if n > maxLoopBound || n < -maxLoopBound {
		return 0, diag.Errorf(diag.TypeError, exp.Pos(), "%s %s is outside the exact integer range", what, num.Inspect())
	}
	return int64(n), nil
}

// evalNumber は式を評価し、数値であることを確かめる。
func (e *Evaluator) evalNumber(exp ast.Expression, env *object.Environment, what string) (float64, error) {
	val, err := e.Evaluate(exp, env)
	if err != nil {
		return 0, err
	}
	n, ok := val.(*object.Number)
	if !ok {
		return 0, diag.Errorf(diag.TypeError, exp.Pos(), "%s must be NUMBER, got %s", what, val.Type())
	}
	return n.Value, nil
}

// execConditional は if / elif / else の連鎖を実行する。
// 最初に真になった節だけを子スコープで実行する。else の条件は常に真。
func (e *Evaluator) execConditional(node *ast.ConditionalStatement, env *object.Environment) (object.Object, error) {
	branches := append([]*ast.ConditionalStatement{node}, node.Alternatives...)

	for _, branch := range branches {
		if branch.Condition != nil {
			cond, err := e.Evaluate(branch.Condition, env)
			if err != nil {
				return nil, err
			}
			ok, err := truth(cond, branch.Condition, branch.Token.Literal+" condition")
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		return e.execBlock(branch.Consequence, object.NewEnclosedEnvironment(env))
	}

	return UNIT, nil
}

// =====================
// 式（Expressions）
// =====================

// Evaluate は式を評価して値を返す。
func (e *Evaluator) Evaluate(exp ast.Expression, env *object.Environment) (object.Object, error) {
	switch node := exp.(type) {

	// NumberLiteral: 数値リテラルをNumberオブジェクトに変換
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil

	// Boolean: 真偽値をシングルトンのBooleanオブジェクトに変換
	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value), nil

	// ArrayLiteral: 要素を左から右に評価して新しい配列を作る
	case *ast.ArrayLiteral:
		elements, err := e.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, err
		}
		return &object.Array{Elements: elements}, nil

	// Identifier: 環境から変数の値を取得する
	case *ast.Identifier:
		return e.evalIdentifier(node, env)

	// PrefixExpression: 前置演算子式を評価する（!, -）
	case *ast.PrefixExpression:
		right, err := e.Evaluate(node.Right, env)
		if err != nil {
			return nil, err
		}
		return evalPrefixExpression(node, right)

	// InfixExpression: 中置演算子式を評価する
	// && と || は右辺を必要なときだけ評価する
	case *ast.InfixExpression:
		if node.Operator == "&&" || node.Operator == "||" {
			return e.evalLogicalExpression(node, env)
		}

		left, err := e.Evaluate(node.Left, env)
		if err != nil {
			return nil, err
		}

		right, err := e.Evaluate(node.Right, env)
		if err != nil {
			return nil, err
		}

		return evalInfixExpression(node, left, right)

	// CallExpression: 関数呼び出しを評価する
	case *ast.CallExpression:
		// まず関数自体を評価する
		function, err := e.Evaluate(node.Function, env)
		if err != nil {
			return nil, err
		}

		// 引数を左から右に評価する
		args, err := e.evalExpressions(node.Arguments, env)
		if err != nil {
			return nil, err
		}

		// 関数を適用する
		return e.applyFunction(node, function, args)

	// PropertyExpression: メンバアクセスと添字アクセス
	case *ast.PropertyExpression:
		obj, err := e.Evaluate(node.Object, env)
		if err != nil {
			return nil, err
		}
		if node.Computed {
			index, err := e.Evaluate(node.Property, env)
			if err != nil {
				return nil, err
			}
			return evalIndexExpression(node, obj, index)
		}
		return evalMemberExpression(node, obj)

	// InstanceExpression: 構造体のインスタンスを生成する
	case *ast.InstanceExpression:
		return e.evalInstanceExpression(node, env)
	}

	return nil, diag.Errorf(diag.RuntimeError, exp.Pos(), "unknown expression %T", exp)
}

// nativeBoolToBooleanObject はGoのbool値をシングルトンのBooleanオブジェクトに変換する。
func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// truth は真偽値が必要な場所で値を bool に変換する。
// Easel には truthy/falsy はなく、BOOLEAN 以外は TypeError。
func truth(obj object.Object, node ast.Node, what string) (bool, error) {
	b, ok := obj.(*object.Boolean)
	if !ok {
		return false, diag.Errorf(diag.TypeError, node.Pos(), "%s must be BOOLEAN, got %s", what, obj.Type())
	}
	return b.Value, nil
}

// =====================
// 識別子と変数
// =====================

// evalIdentifier は識別子（変数名）を評価する。
// 環境になければ組み込み関数を探し、どちらにもなければ NameError。
func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) (object.Object, error) {
	if val, ok := env.Get(node.Value); ok {
		return val, nil
	}

	if builtin, ok := e.builtins[node.Value]; ok {
		return builtin, nil
	}

	return nil, diag.Named(diag.NameError, node.Pos(), node.Value, "undefined variable %s", node.Value)
}

// evalExpressions は式のリスト（関数引数など）を左から右に評価する。
func (e *Evaluator) evalExpressions(exps []ast.Expression, env *object.Environment) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exps))

	for _, exp := range exps {
		evaluated, err := e.Evaluate(exp, env)
		if err != nil {
			return nil, err
		}
		result = append(result, evaluated)
	}

	return result, nil
}

// =====================
// 関数呼び出し
// =====================

// applyFunction は関数オブジェクトに引数を適用して実行する。
//  1. 引数の数を検査する
//  2. 関数の定義時環境を外側スコープとする新しい環境を作成
//  3. 引数をパラメータ名に束縛し、本体を新しい環境で実行
//  4. ReturnValueをアンラップして結果を返す（finished がなければ UNIT）
func (e *Evaluator) applyFunction(node *ast.CallExpression, fn object.Object, args []object.Object) (object.Object, error) {
	switch fn := fn.(type) {
	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return nil, diag.Named(diag.ArityError, node.Pos(), fn.Name,
				"%s expects %d argument(s), got %d", fn.Name, len(fn.Parameters), len(args))
		}

		e.depth++
		defer func() { e.depth-- }()
		if e.depth > e.maxDepth {
			return nil, diag.Named(diag.RuntimeError, node.Pos(), fn.Name,
				"maximum recursion depth exceeded (%d) calling %s", e.maxDepth, fn.Name)
		}
		e.logger.Debug("call", "function", fn.Name, "args", len(args), "depth", e.depth, "pos", node.Pos().String())

		extendedEnv := extendFunctionEnv(fn, args)
		evaluated, err := e.execBlock(fn.Body, extendedEnv)
		if err != nil {
			return nil, err
		}
		return unwrapReturnValue(evaluated), nil

	case *object.Builtin:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, diag.Named(diag.ArityError, node.Pos(), fn.Name,
				"%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		result, err := fn.Fn(args...)
		if err != nil {
			return nil, atPosition(err, node)
		}
		return result, nil
	}

	return nil, diag.Errorf(diag.TypeError, node.Pos(), "not a function: %s", fn.Type())
}

// atPosition は位置のない *diag.Error に呼び出し位置を補う。
func atPosition(err error, node ast.Node) error {
	if de, ok := err.(*diag.Error); ok && de.Pos.Line == 0 {
		de.Pos = node.Pos()
	}
	return err
}

// extendFunctionEnv は関数呼び出し用の新しい環境を作成する。
// 関数の定義時環境を外側として、引数をパラメータ名に束縛する。
// 呼び出し側の環境は一切見えない。これがクロージャの仕組みの核心部分。
func extendFunctionEnv(fn *object.Function, args []object.Object) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for paramIdx, param := range fn.Parameters {
		env.Set(param.Value, args[paramIdx])
	}

	return env
}

// unwrapReturnValue はReturnValueオブジェクトの中身を取り出す。
// これにより、finished が関数の外側まで伝播しないようにする。
func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}

	return UNIT
}

// =====================
// 構造体
// =====================

// evalInstanceExpression は `prep Point(x: 1, y: 2)` を評価する。
// 宣言された全メンバをちょうど1回ずつ指定しなければならない。
func (e *Evaluator) evalInstanceExpression(node *ast.InstanceExpression, env *object.Environment) (object.Object, error) {
	name := node.Struct.Value
	def, ok := env.LookupStruct(name)
	if !ok {
		return nil, diag.Named(diag.NameError, node.Struct.Pos(), name, "undefined struct %s", name)
	}

	fields := make(map[string]object.Object, len(def.Members))
	for _, m := range node.Members {
		member := m.Name.Value
		if !def.Has(member) {
			return nil, diag.Named(diag.DeclarationError, m.Name.Pos(), member,
				"%s has no member %s", name, member)
		}
		if _, dup := fields[member]; dup {
			return nil, diag.Named(diag.DeclarationError, m.Name.Pos(), member,
				"member %s supplied more than once", member)
		}

		val, err := e.Evaluate(m.Value, env)
		if err != nil {
			return nil, err
		}
		fields[member] = val
	}

	for _, member := range def.Members {
		if _, ok := fields[member]; !ok {
			return nil, diag.Named(diag.DeclarationError, node.Pos(), member,
				"missing member %s for %s", member, name)
		}
	}

	return &object.Instance{Def: def, Fields: fields}, nil
}
