// environment.go は変数の環境（スコープ）を管理する。
// Environment は変数名から値へのマッピングを持ち、
// outer フィールドで外側のスコープへのチェーンを形成する。
// これにより、レキシカルスコープ（静的スコープ）とクロージャが実現される。
//
// 構造体の定義は一番外側（グローバル）の環境にだけ登録する。
package object

// NewEnclosedEnvironment は外側の環境を持つ新しい環境を作成する。
// 関数呼び出しとブロック（ループ本体・条件分岐の各節）ごとに使う。
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := &Environment{store: make(map[string]Object), outer: outer}
	return env
}

// NewEnvironment は新しい空のグローバル環境を作成する。
// プログラムのトップレベル環境として使用する。
func NewEnvironment() *Environment {
	s := make(map[string]Object)
	return &Environment{store: s, outer: nil, structs: make(map[string]*StructDef)}
}

// Environment は変数のスコープを表す構造体。
// store は現在のスコープの変数を保持し、
// outer は外側のスコープへの参照（なければnil）。
// structs はグローバル環境だけが持つ構造体定義の表。
type Environment struct {
	store   map[string]Object
	outer   *Environment
	structs map[string]*StructDef
}

// Get は変数名から値を検索する。
// 現在のスコープになければ外側のスコープを順に探す。
// 見つかれば (値, true)、見つからなければ (nil, false) を返す。
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Set は変数を現在のスコープに束縛する。
// 外側に同名の変数があっても、それは書き換えずに隠す。
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Assign は最も近いスコープにある既存の束縛を書き換える。
// どのスコープにも束縛がなければ false を返し、何も変更しない。
func (e *Environment) Assign(name string, val Object) bool {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = val
			return true
		}
	}
	return false
}

// Has は現在のスコープだけに name が束縛されているか判定する。
func (e *Environment) Has(name string) bool {
	_, ok := e.store[name]
	return ok
}

// Outer は外側の環境を返す。グローバル環境なら nil。
func (e *Environment) Outer() *Environment { return e.outer }

// Global は一番外側の環境を返す。
func (e *Environment) Global() *Environment {
	env := e
	for env.outer != nil {
		env = env.outer
	}
	return env
}

// DefineStruct は構造体定義をグローバル環境に登録する。
// 同じ名前がすでに登録されていれば false を返す。
func (e *Environment) DefineStruct(def *StructDef) bool {
	g := e.Global()
	if g.structs == nil {
		g.structs = make(map[string]*StructDef)
	}
	if _, ok := g.structs[def.Name]; ok {
		return false
	}
	g.structs[def.Name] = def
	return true
}

// LookupStruct はグローバル環境から構造体定義を探す。
func (e *Environment) LookupStruct(name string) (*StructDef, bool) {
	def, ok := e.Global().structs[name]
	return def, ok
}
