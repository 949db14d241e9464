package evaluator

import (
	"bytes"
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"easel/diag"
	"easel/object"
	"easel/parser"
)

// fixture は testdata/programs.yaml の1項目。
// Error が空なら成功して Output を出力すること、
// 空でなければその種類のエラーで止まり、それまでに Output を出力していることを確かめる。
type fixture struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Error  string `yaml:"error"`
}

func loadFixtures(t *testing.T, path string) []fixture {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	var fixtures []fixture
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixtures); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return fixtures
}

func TestFixturePrograms(t *testing.T) {
	fixtures := loadFixtures(t, "testdata/programs.yaml")
	if len(fixtures) == 0 {
		t.Fatalf("no fixtures loaded")
	}

	for _, fx := range fixtures {
		t.Run(fx.Name, func(t *testing.T) {
			var out bytes.Buffer
			program, err := parser.Parse(fx.Source)
			if err == nil {
				_, err = New(WithOutput(&out)).Run(program, object.NewEnvironment())
			}

			switch {
			case fx.Error == "" && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case fx.Error != "" && err == nil:
				t.Fatalf("expected %s, got no error", fx.Error)
			case fx.Error != "" && diag.KindOf(err).String() != fx.Error:
				t.Fatalf("wrong error kind. want=%s, got=%v", fx.Error, err)
			}

			if out.String() != fx.Output {
				t.Errorf("output wrong.\nwant=%q\ngot= %q", fx.Output, out.String())
			}
		})
	}
}
