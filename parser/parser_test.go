package parser

import (
	"bytes"
	"strings"
	"testing"

	"easel/ast"
	"easel/diag"
	"easel/lexer"
	"easel/token"
)

func mustScan(t *testing.T, input string) []token.Token {
	t.Helper()
	tokens, err := lexer.Scan(input)
	if err != nil {
		t.Fatalf("Scan(%q) returned error: %v", input, err)
	}
	return tokens
}

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return program
}

func TestVarStatements(t *testing.T) {
	tests := []struct {
		input              string
		expectedIdentifier string
		expectedValue      string
	}{
		{"prepare x as 5", "x", "5"},
		{"prepare y as true", "y", "true"},
		{"prepare foobar as y", "foobar", "y"},
		{"prepare s as 'hi'", "s", `"hi"`},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("program.Statements does not contain 1 statements. got=%d",
				len(program.Statements))
		}

		stmt, ok := program.Statements[0].(*ast.VarStatement)
		if !ok {
			t.Fatalf("stmt not *ast.VarStatement. got=%T", program.Statements[0])
		}
		if stmt.Name.Value != tt.expectedIdentifier {
			t.Errorf("stmt.Name.Value not '%s'. got=%s", tt.expectedIdentifier, stmt.Name.Value)
		}
		if stmt.Value.String() != tt.expectedValue {
			t.Errorf("stmt.Value wrong. want=%q, got=%q", tt.expectedValue, stmt.Value.String())
		}
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"10 - 2 - 3", "((10 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"5 > 4 == 3 < 4", "(((5 > 4) == 3) < 4)"},
		{"a < b && c", "((a < b) && c)"},
		{"a || b && c", "((a || b) && c)"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"a * [1, 2, 3, 4][b * c] * d", "((a * ([1, 2, 3, 4][(b * c)])) * d)"},
		{"p.x + p.y * 2", "(p.x + (p.y * 2))"},
		{"-p.x", "(-p.x)"},
		{"a.b.c", "a.b.c"},
		{"xs[0].name", "(xs[0]).name"},
		{"f(1)(2)", "f(1)(2)"},
		{"prep P(x: 1 + 2, y: [])", "prep P(x: (1 + 2), y: [])"},
		{"prep Empty()", "prep Empty()"},
		{"1 <= 2 != 3 >= 4", "(((1 <= 2) != 3) >= 4)"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		actual := program.String()
		if actual != tt.expected {
			t.Errorf("expected=%q, got=%q", tt.expected, actual)
		}
	}
}

func TestStatementParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sketch add needs (a, b) { finished a + b }", "sketch add needs (a, b) { finished (a + b) }"},
		{"sketch hello { print('hi') }", `sketch hello { print("hi") }`},
		{"brush Point has { x, y }", "brush Point has { x, y }"},
		{"prepare p.x as 3", "prepare p.x as 3"},
		{"x = x + 1", "x = (x + 1)"},
		{"p.x = 2", "p.x = 2"},
		{"xs[i + 1] = 0", "(xs[(i + 1)]) = 0"},
		{"loop i through (0, n) { print(i) }", "loop i through (0, n) { print(i) }"},
		{"while (i < 3) { i = i + 1 }", "while ((i < 3)) { i = (i + 1) }"},
		{"finished 1", "finished 1"},
		{"if (a) { 1 } elif (b) { 2 } elif (c) { 3 } else { 4 }",
			"if (a) { 1 } elif (b) { 2 } elif (c) { 3 } else { 4 }"},
		{"prepare a as 1\nprepare b as 2", "prepare a as 1\nprepare b as 2"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		if actual := program.String(); actual != tt.expected {
			t.Errorf("expected=%q, got=%q", tt.expected, actual)
		}
	}
}

func TestConditionalChain(t *testing.T) {
	program := parse(t, "if (a) { } elif (b) { } else { } print(1)")

	if len(program.Statements) != 2 {
		t.Fatalf("program.Statements does not contain 2 statements. got=%d", len(program.Statements))
	}

	stmt, ok := program.Statements[0].(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("stmt not *ast.ConditionalStatement. got=%T", program.Statements[0])
	}
	if len(stmt.Alternatives) != 2 {
		t.Fatalf("wrong number of alternatives. got=%d", len(stmt.Alternatives))
	}
	if stmt.Alternatives[0].Condition == nil || stmt.Alternatives[0].Token.Literal != "elif" {
		t.Errorf("first alternative should be elif. got=%q", stmt.Alternatives[0].String())
	}
	if stmt.Alternatives[1].Condition != nil || stmt.Alternatives[1].Token.Literal != "else" {
		t.Errorf("second alternative should be else. got=%q", stmt.Alternatives[1].String())
	}
}

func TestElseEndsChain(t *testing.T) {
	_, err := Parse("if (a) { } else { } elif (b) { }")
	if !diag.Is(err, diag.SyntaxError) {
		t.Fatalf("expected SyntaxError. got=%v", err)
	}
	de := err.(*diag.Error)
	if de.Expected != "expression" || de.Actual != `"elif"` {
		t.Errorf("wrong expected/actual. got=%q / %q", de.Expected, de.Actual)
	}
}

func TestPrepareMemberIsAssignment(t *testing.T) {
	program := parse(t, "prepare p.x as 3")

	stmt, ok := program.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("stmt not *ast.AssignStatement. got=%T", program.Statements[0])
	}
	target, ok := stmt.Target.(*ast.PropertyExpression)
	if !ok || target.Computed {
		t.Fatalf("target not a member access. got=%T", stmt.Target)
	}
	if target.Object.String() != "p" || target.Property.String() != "x" {
		t.Errorf("target wrong. got=%q", target.String())
	}
}

func TestNumberLiteral(t *testing.T) {
	program := parse(t, "3.5")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	lit, ok := stmt.Expression.(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("exp not *ast.NumberLiteral. got=%T", stmt.Expression)
	}
	if lit.Value != 3.5 {
		t.Errorf("lit.Value not 3.5. got=%v", lit.Value)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		actual   string
		line     int
		column   int
	}{
		{"prepare 5 as x", "identifier", "NUMBER 5", 1, 9},
		{"prepare x 5", `"as"`, "NUMBER 5", 1, 11},
		{"sketch f needs a { }", `"("`, "IDENT a", 1, 16},
		{"sketch f needs () { }", "identifier", `")"`, 1, 17},
		{"brush P has { }", "identifier", `"}"`, 1, 15},
		{"brush P has { x y }", `"}"`, "IDENT y", 1, 17},
		{"loop i through (0 3) { }", `","`, "NUMBER 3", 1, 19},
		{"while i < 3 { }", `"("`, "IDENT i", 1, 7},
		{"if (a) b", `"{"`, "IDENT b", 1, 8},
		{"prepare x as", "expression", "end of input", 1, 13},
		{"(1 + 2", `")"`, "end of input", 1, 7},
		{"print(1, )", "expression", `")"`, 1, 10},
		{"prep P(x 1)", `":"`, "NUMBER 1", 1, 10},
		{"a.1", "identifier", "NUMBER 1", 1, 3},
		{"xs[1", `"]"`, "end of input", 1, 5},
		{"sketch f { finished 1", `"}"`, "end of input", 1, 22},
		{"* 2", "expression", `"*"`, 1, 1},
	}

	for _, tt := range tests {
		_, err := Parse(tt.input)
		if !diag.Is(err, diag.SyntaxError) {
			t.Errorf("Parse(%q) expected SyntaxError. got=%v", tt.input, err)
			continue
		}
		de := err.(*diag.Error)
		if de.Expected != tt.expected || de.Actual != tt.actual {
			t.Errorf("Parse(%q) wrong error. want expected=%s actual=%s, got expected=%s actual=%s",
				tt.input, tt.expected, tt.actual, de.Expected, de.Actual)
		}
		if de.Pos.Line != tt.line || de.Pos.Column != tt.column {
			t.Errorf("Parse(%q) wrong position. want=%d:%d, got=%s", tt.input, tt.line, tt.column, de.Pos)
		}
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	tests := []string{"1 = 2", "f() = 3", "(a + b) = 1"}

	for _, input := range tests {
		_, err := Parse(input)
		if !diag.Is(err, diag.SyntaxError) {
			t.Errorf("Parse(%q) expected SyntaxError. got=%v", input, err)
			continue
		}
		if !strings.Contains(err.Error(), "cannot assign to") {
			t.Errorf("Parse(%q) wrong message. got=%q", input, err.Error())
		}
	}
}

func TestLexErrorsPassThrough(t *testing.T) {
	_, err := Parse("prepare x as 'open")
	if !diag.Is(err, diag.LexError) {
		t.Errorf("expected LexError. got=%v", err)
	}
}

func TestIncompleteInput(t *testing.T) {
	tests := []struct {
		input      string
		incomplete bool
	}{
		{"sketch f {", true},
		{"if (a) {\n print(1)", true},
		{"prepare x as", true},
		{"print(1,", true},
		{"'abc", true},
		{"prepare x as 1", false},
		{"prepare 1 as x", false},
		{"a @", false},
	}

	for _, tt := range tests {
		_, err := Parse(tt.input)
		if got := diag.IsIncomplete(err); got != tt.incomplete {
			t.Errorf("IsIncomplete(Parse(%q)) wrong. want=%v, got=%v (err=%v)",
				tt.input, tt.incomplete, got, err)
		}
	}
}

func TestTrace(t *testing.T) {
	var out bytes.Buffer

	tokens := mustScan(t, "prepare x as 1 + 2")
	p := New(tokens)
	p.Trace(&out)
	if _, err := p.ParseProgram(); err != nil {
		t.Fatalf("ParseProgram returned error: %v", err)
	}

	trace := out.String()
	if !strings.HasPrefix(trace, "BEGIN parseStatement prepare\n") {
		t.Errorf("trace should start with parseStatement. got=%q", trace)
	}
	if !strings.Contains(trace, "\tBEGIN parseExpression 1\n") {
		t.Errorf("nested expression should be indented. got=%q", trace)
	}
	if !strings.HasSuffix(trace, "END parseStatement\n") {
		t.Errorf("trace should end with parseStatement. got=%q", trace)
	}
}

func TestNoTraceByDefault(t *testing.T) {
	p := New(mustScan(t, "1 + 2"))
	if _, err := p.ParseProgram(); err != nil {
		t.Fatalf("ParseProgram returned error: %v", err)
	}
	if p.tracer != nil {
		t.Errorf("tracer should be nil by default")
	}
}
