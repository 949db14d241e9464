package config

import (
	"os"
	"path/filepath"
	"testing"

	"easel/evaluator"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "easel.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvMaxDepth, EnvDebug, EnvColor, EnvHistory} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxDepth != evaluator.DefaultMaxDepth {
		t.Errorf("MaxDepth wrong. want=%d, got=%d", evaluator.DefaultMaxDepth, cfg.MaxDepth)
	}
	if cfg.Debug {
		t.Errorf("Debug should default to false")
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Color wrong. want=%q, got=%q", ColorAuto, cfg.Color)
	}
	if cfg.Path != "" {
		t.Errorf("Path should be empty without a config file. got=%q", cfg.Path)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "max_depth: 64\ndebug: true\ncolor: never\nhistory: /tmp/h\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxDepth != 64 {
		t.Errorf("MaxDepth wrong. want=64, got=%d", cfg.MaxDepth)
	}
	if !cfg.Debug {
		t.Errorf("Debug should be true")
	}
	if cfg.Color != ColorNever {
		t.Errorf("Color wrong. want=%q, got=%q", ColorNever, cfg.Color)
	}
	if cfg.History != "/tmp/h" {
		t.Errorf("History wrong. got=%q", cfg.History)
	}
	if cfg.Path != path {
		t.Errorf("Path wrong. want=%q, got=%q", path, cfg.Path)
	}
}

func TestDefaultFileInWorkingDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte("max_depth: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxDepth != 7 {
		t.Errorf("MaxDepth wrong. want=7, got=%d", cfg.MaxDepth)
	}
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxDepth != evaluator.DefaultMaxDepth {
		t.Errorf("MaxDepth wrong. got=%d", cfg.MaxDepth)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "max_depth: 64\ncolor: never\n")
	t.Setenv(EnvMaxDepth, "10")
	t.Setenv(EnvColor, "ALWAYS")
	t.Setenv(EnvDebug, "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxDepth != 10 {
		t.Errorf("MaxDepth wrong. want=10, got=%d", cfg.MaxDepth)
	}
	if cfg.Color != ColorAlways {
		t.Errorf("Color wrong. want=%q, got=%q", ColorAlways, cfg.Color)
	}
	if !cfg.Debug {
		t.Errorf("Debug should be true")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "max_dept: 3\n"},
		{"bad depth", "max_depth: 0\n"},
		{"depth over limit", "max_depth: 100001\n"},
		{"bad color", "color: sometimes\n"},
		{"bad yaml", "max_depth: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := Load(writeFile(t, tt.content)); err == nil {
				t.Errorf("expected error for %q", tt.content)
			}
		})
	}
}

func TestMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("expected error for missing explicit config file")
	}
}

func TestUseColor(t *testing.T) {
	tests := []struct {
		color    string
		terminal bool
		expected bool
	}{
		{ColorAuto, true, true},
		{ColorAuto, false, false},
		{ColorAlways, false, true},
		{ColorNever, true, false},
	}

	for _, tt := range tests {
		cfg := &Config{Color: tt.color}
		if got := cfg.UseColor(tt.terminal); got != tt.expected {
			t.Errorf("UseColor(%v) with %q wrong. want=%v, got=%v", tt.terminal, tt.color, tt.expected, got)
		}
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
