package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.easel")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	for _, name := range []string{"EASEL_MAX_DEPTH", "EASEL_DEBUG", "EASEL_COLOR", "EASEL_HISTORY"} {
		t.Setenv(name, "")
	}
}

func TestRunFile(t *testing.T) {
	isolate(t)
	path := writeProgram(t, `
sketch add needs (a, b) { finished a + b }
print(add(2, 3))
`)

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, nil, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code wrong. want=%d, got=%d stderr=%q", exitOK, code, stderr.String())
	}
	if stdout.String() != "5\n" {
		t.Errorf("stdout wrong. got=%q", stdout.String())
	}
}

func TestRunFileErrorIsRendered(t *testing.T) {
	isolate(t)
	t.Setenv("EASEL_COLOR", "never")
	path := writeProgram(t, "prepare x as 1\nprint(y)\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, nil, &stdout, &stderr)
	if code != exitError {
		t.Fatalf("exit code wrong. want=%d, got=%d", exitError, code)
	}
	if !strings.Contains(stderr.String(), "NameError in "+path+" at 2:7: undefined variable y") {
		t.Errorf("stderr missing header. got=%q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "   2 | print(y)") {
		t.Errorf("stderr missing source line. got=%q", stderr.String())
	}
}

func TestRunFileDebugTrace(t *testing.T) {
	isolate(t)
	path := writeProgram(t, "prepare x as 1\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--dbg", path}, nil, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code wrong. got=%d stderr=%q", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "BEGIN parseStatement") {
		t.Errorf("parser trace missing. got=%q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "level=DEBUG") {
		t.Errorf("debug log missing. got=%q", stderr.String())
	}
}

func TestReplDebugTrace(t *testing.T) {
	isolate(t)
	stdin, err := os.Open(writeProgram(t, "prepare x as 1\nx\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer stdin.Close()

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--dbg"}, stdin, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code wrong. got=%d stderr=%q", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "BEGIN parseStatement") {
		t.Errorf("parser trace missing from REPL. got=%q", stderr.String())
	}
	if !strings.Contains(stdout.String(), ">> 1\n") {
		t.Errorf("stdout wrong. got=%q", stdout.String())
	}
}

func TestMaxDepthFlag(t *testing.T) {
	isolate(t)
	path := writeProgram(t, `
sketch down needs (n) { finished down(n + 1) }
down(0)
`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--max-depth", "50", path}, nil, &stdout, &stderr)
	if code != exitError {
		t.Fatalf("exit code wrong. want=%d, got=%d", exitError, code)
	}
	if !strings.Contains(stderr.String(), "maximum recursion depth exceeded (50)") {
		t.Errorf("stderr wrong. got=%q", stderr.String())
	}
}

func TestUsageErrors(t *testing.T) {
	isolate(t)
	tests := [][]string{
		{"--max-depth", "-3", "x.easel"},
		{"--max-depth", "100000000", "x.easel"},
		{"a.easel", "b.easel"},
		{"--no-such-flag"},
		{"--config", filepath.Join(t.TempDir(), "missing.yml"), "x.easel"},
	}

	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(args, nil, &stdout, &stderr); code != exitUsage {
			t.Errorf("run(%q) exit code wrong. want=%d, got=%d", args, exitUsage, code)
		}
	}
}

func TestMissingFile(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "nope.easel")}, nil, &stdout, &stderr)
	if code != exitError {
		t.Errorf("exit code wrong. want=%d, got=%d", exitError, code)
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
