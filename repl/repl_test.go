package repl

import (
	"bytes"
	"strings"
	"testing"

	"easel/evaluator"
	"easel/object"
)

func TestStartKeepsEnvironment(t *testing.T) {
	in := strings.NewReader("prepare x as 5\nx + 1\n")
	var out bytes.Buffer

	Start(in, &out, nil)

	expected := PROMPT + PROMPT + "6\n" + PROMPT
	if out.String() != expected {
		t.Errorf("output wrong. want=%q, got=%q", expected, out.String())
	}
}

func TestStartMultilineInput(t *testing.T) {
	in := strings.NewReader("sketch double needs (a) {\n  finished a * 2\n}\ndouble(4)\n")
	var out bytes.Buffer

	Start(in, &out, nil)

	expected := PROMPT + CONTINUE + CONTINUE + PROMPT + "8\n" + PROMPT
	if out.String() != expected {
		t.Errorf("output wrong. want=%q, got=%q", expected, out.String())
	}
}

func TestStartPrintsAndQuotes(t *testing.T) {
	in := strings.NewReader("print('hi')\n'hi'\n[1, 'a']\n")
	var out bytes.Buffer

	Start(in, &out, nil)

	expected := PROMPT + "hi\n" + PROMPT + "\"hi\"\n" + PROMPT + "[1, \"a\"]\n" + PROMPT
	if out.String() != expected {
		t.Errorf("output wrong. want=%q, got=%q", expected, out.String())
	}
}

func TestStartReportsErrorsAndContinues(t *testing.T) {
	in := strings.NewReader("y\nprepare y as 2\ny\n")
	var out bytes.Buffer

	Start(in, &out, nil)

	got := out.String()
	if !strings.Contains(got, EASEL) {
		t.Errorf("error banner missing. got=%q", got)
	}
	if !strings.Contains(got, "\tNameError in repl at 1:1: undefined variable y\n") {
		t.Errorf("error message missing. got=%q", got)
	}
	if !strings.HasSuffix(got, PROMPT+"2\n"+PROMPT) {
		t.Errorf("session did not continue after error. got=%q", got)
	}
}

func TestStartEvaluatesPendingInputAtEOF(t *testing.T) {
	in := strings.NewReader("sketch f {\n")
	var out bytes.Buffer

	Start(in, &out, nil)

	if !strings.Contains(out.String(), "SyntaxError in repl") {
		t.Errorf("pending input not reported. got=%q", out.String())
	}
}

func TestStartSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("\n   \n1\n")
	var out bytes.Buffer

	Start(in, &out, nil)

	expected := PROMPT + PROMPT + PROMPT + "1\n" + PROMPT
	if out.String() != expected {
		t.Errorf("output wrong. want=%q, got=%q", expected, out.String())
	}
}

func TestStartPassesEvaluatorOptions(t *testing.T) {
	in := strings.NewReader("sketch f needs (n) { finished f(n + 1) }\nf(0)\n")
	var out bytes.Buffer

	Start(in, &out, nil, evaluator.WithMaxDepth(5))

	if !strings.Contains(out.String(), "maximum recursion depth exceeded (5)") {
		t.Errorf("max depth option not applied. got=%q", out.String())
	}
}

func TestStartTracesParser(t *testing.T) {
	in := strings.NewReader("prepare x as 1\nx\n")
	var out, trace bytes.Buffer

	Start(in, &out, &trace)

	if got := strings.Count(trace.String(), "BEGIN parseStatement"); got != 2 {
		t.Errorf("expected one trace per input. got=%d trace=%q", got, trace.String())
	}
	if strings.Contains(out.String(), "BEGIN") {
		t.Errorf("trace leaked into output. got=%q", out.String())
	}
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(&out, false)

	if _, err := s.Eval("brush P has { a }\nprepare p as prep P(a: 1)"); err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	result, err := s.Eval("p.a + 1")
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if n, ok := result.(*object.Number); !ok || n.Value != 2 {
		t.Errorf("result wrong. got=%v", result)
	}
	if _, ok := s.Env().LookupStruct("P"); !ok {
		t.Errorf("struct not kept in session environment")
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"prepare x as 1", true},
		{"if (a) {", false},
		{"'open", false},
		{"prepare 1 as x", true},
	}

	for _, tt := range tests {
		if got := complete(tt.input); got != tt.expected {
			t.Errorf("complete(%q) wrong. want=%v, got=%v", tt.input, tt.expected, got)
		}
	}
}
