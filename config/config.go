// Package config は easel コマンドの設定を読み込むパッケージ。
// 優先順位は 既定値 < 設定ファイル（.easel.yml） < 環境変数（EASEL_*） < コマンドラインフラグ。
// フラグは main が最後に上書きする。
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"easel/evaluator"
)

// DefaultFile はパスが指定されないときに探す設定ファイル名。
const DefaultFile = ".easel.yml"

// 色付き表示のモード。
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// 環境変数名。
const (
	EnvMaxDepth = "EASEL_MAX_DEPTH"
	EnvDebug    = "EASEL_DEBUG"
	EnvColor    = "EASEL_COLOR"
	EnvHistory  = "EASEL_HISTORY"
)

// Config は easel の実行設定。
type Config struct {
	MaxDepth int    `yaml:"max_depth"`
	Debug    bool   `yaml:"debug"`
	Color    string `yaml:"color"`
	History  string `yaml:"history"` // REPLの履歴ファイル。空なら保存しない

	Path string `yaml:"-"` // 読み込んだ設定ファイル（なければ空）
}

// Default は既定の設定を返す。
func Default() *Config {
	cfg := &Config{
		MaxDepth: evaluator.DefaultMaxDepth,
		Color:    ColorAuto,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.History = filepath.Join(home, ".easel_history")
	}
	return cfg
}

// Load は設定を読み込む。
// path が空ならカレントディレクトリの .easel.yml を探し、なければ既定値のまま進む。
// path を明示したのにファイルがなければエラーになる。
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		// 空のファイルは既定値のまま
		if errors.Is(err, io.EOF) {
			c.Path = path
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.Path = path
	return nil
}

// applyEnv は EASEL_* 環境変数で設定を上書きする。
func (c *Config) applyEnv() {
	c.MaxDepth = env.Int(EnvMaxDepth, c.MaxDepth)
	if env.Has(EnvDebug) {
		c.Debug = env.Bool(EnvDebug)
	}
	c.Color = strings.ToLower(env.Str(EnvColor, c.Color))
	c.History = env.Str(EnvHistory, c.History)
}

// Validate は設定値が有効か確かめる。
func (c *Config) Validate() error {
	if c.MaxDepth <= 0 || c.MaxDepth > evaluator.MaxDepthLimit {
		return fmt.Errorf("config: max_depth must be between 1 and %d, got %d", evaluator.MaxDepthLimit, c.MaxDepth)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("config: color must be one of auto, always, never, got %q", c.Color)
	}
	return nil
}

// UseColor は診断を色付きで表示するか決める。
// auto のときは出力先が端末かどうかで決める。
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTerminal
}
