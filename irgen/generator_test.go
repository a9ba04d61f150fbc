package irgen

import (
	"errors"
	"strings"
	"testing"

	"quartz/arena"
	"quartz/report"
	"quartz/syntax"
)

func generateSource(t *testing.T, src string) (string, error) {
	t.Helper()

	toks, err := syntax.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenizing %q: %v", src, err)
	}

	a := arena.New(1 << 16)
	if err := a.Init(); err != nil {
		t.Fatal(err)
	}
	defer a.Free()

	prog, err := syntax.Parse(toks, a)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}

	mod, err := Generate(prog)
	if err != nil {
		return "", err
	}

	return mod.String(), nil
}

func assertContains(t *testing.T, ir string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(ir, want) {
			t.Errorf("expected IR to contain %q:\n%s", want, ir)
		}
	}
}

func TestGenerateModule(t *testing.T) {
	ir, err := generateSource(t, "")
	if err != nil {
		t.Fatal(err)
	}

	assertContains(t, ir,
		"declare void @exit(i32",
		"define i32 @main()",
		"entry:",
		"br label %bb1",
		"ret i32 0",
	)
}

func TestGenerateExit(t *testing.T) {
	ir, err := generateSource(t, "exit(42);")
	if err != nil {
		t.Fatal(err)
	}

	assertContains(t, ir,
		"trunc i64 42 to i32",
		"call void @exit(i32",
		"unreachable",
	)
}

func TestGenerateArithmetic(t *testing.T) {
	ir, err := generateSource(t, "var x: int = 7 - 2; var y: int = x * 3 + 8 / 4; exit(y);")
	if err != nil {
		t.Fatal(err)
	}

	assertContains(t, ir,
		"alloca i64",
		"sub i64 7, 2",
		"udiv i64 8, 4",
		"load i64",
		"mul i64",
		"add i64",
		"store i64",
	)

	if n := strings.Count(ir, "alloca i64"); n != 2 {
		t.Errorf("got %d allocations, want 2", n)
	}
}

func TestGenerateIf(t *testing.T) {
	ir, err := generateSource(t, "if (1) { exit(3); } exit(4);")
	if err != nil {
		t.Fatal(err)
	}

	assertContains(t, ir,
		"icmp ne i64 1, 0",
		"br i1",
		"trunc i64 3 to i32",
		"trunc i64 4 to i32",
	)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		src, msg string
	}{
		{"{ var x: int = 1; var x: int = 2; }", "identifier already defined: x"},
		{"{ var x: int = 1; } exit(x);", "undeclared variable: x"},
		{"if (1) var x: int = 1; exit(x);", "undeclared variable: x"},
	}

	for _, test := range tests {
		_, err := generateSource(t, test.src)

		var lce *report.LocalCompileError
		if !errors.As(err, &lce) {
			t.Errorf("%q: got %v, want a compile error", test.src, err)
			continue
		}

		if lce.Message != test.msg || lce.Stage != report.StageGenerate {
			t.Errorf("%q: got %q (stage %d), want %q", test.src, lce.Message, lce.Stage, test.msg)
		}
	}

	valid := []string{
		"{ var x: int = 1; } { var x: int = 2; }",
		"var x: int = 1; { var x: int = x + 1; exit(x); }",
	}

	for _, src := range valid {
		if _, err := generateSource(t, src); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}
