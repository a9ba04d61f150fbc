package build

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quartz/arena"
	"quartz/mods"
	"quartz/report"
	"quartz/vm"
)

func TestMain(m *testing.M) {
	report.InitReporter(report.LogLevelSilent)
	os.Exit(m.Run())
}

func TestRunSourceExitStatus(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"literal", "exit(42);", 42},
		{"leading zeros are decimal", "exit(010);", 10},
		{"largest literal", "exit(18446744073709551615);", 255},
		{"precedence", "var x: int = 1 + 2 * 3; exit(x);", 7},
		{"parens", "exit((2 + 3) * 4);", 20},
		{"left associative", "exit(100 - 10 * 2 - 30 / 3);", 70},
		{"subtraction order", "exit(10 - 3);", 7},
		{"division order", "exit(20 / 4);", 5},
		{"truncating division", "exit(10 / 3);", 3},
		{"wraps below zero", "exit(1 - 3);", 254},
		{"false condition skips body", "if (0) exit(1); exit(2);", 2},
		{"true condition runs body", "if (1) exit(1); exit(2);", 1},
		{"braced if", "var c: int = 3; if (c - 3) { exit(9); } exit(c);", 3},
		{"falls through", "var x: int = 5;", 0},
		{"empty program", "", 0},
		{"scoped variable", "var x: int = 1; { var y: int = x + 1; exit(y); }", 2},
		{"shadowing", "var x: int = 1; { var x: int = 5; exit(x); }", 5},
		{"shadow ends with scope", "var x: int = 1; { var x: int = 5; } exit(x);", 1},
		{"sibling scopes", "{ var a: int = 4; } { var a: int = 6; exit(a); }", 6},
		{"outer after inner", "var a: int = 2; { var b: int = 3; } var c: int = 4; exit(a * c);", 8},
		{"nested scopes", "var a: int = 1; { var b: int = 2; { var c: int = 3; exit(a + b + c); } }", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := RunSource(tt.src, 0)
			if err != nil {
				t.Fatalf("RunSource(%q): %v", tt.src, err)
			}

			if res.ExitCode != tt.want {
				t.Errorf("RunSource(%q) exited with %d, want %d", tt.src, res.ExitCode, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stage int
		msg   string
	}{
		{"lex", "exit(1) ?", report.StageLex, "unexpected character"},
		{"parse", "exit(1)", report.StageParse, "expected"},
		{"redeclared", "var x: int = 1; var x: int = 2;", report.StageGenerate, "already defined"},
		{"out of scope", "{ var x: int = 1; } exit(x);", report.StageGenerate, "undeclared"},
		{"literal too large", "exit(99999999999999999999);", report.StageGenerate, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src, Options{Format: mods.FormatASM})

			var lce *report.LocalCompileError
			if !errors.As(err, &lce) {
				t.Fatalf("Compile(%q) error = %v, want a local compile error", tt.src, err)
			}

			if lce.Stage != tt.stage {
				t.Errorf("stage = %s, want %s", report.StageName(lce.Stage), report.StageName(tt.stage))
			}

			if !strings.Contains(lce.Message, tt.msg) {
				t.Errorf("message %q does not contain %q", lce.Message, tt.msg)
			}
		})
	}
}

func TestCompileArenaExhausted(t *testing.T) {
	_, err := Compile("var x: int = 1 + 2 * 3;", Options{Format: mods.FormatASM, ArenaSize: 8})
	if !errors.Is(err, arena.ErrOutOfMemory) {
		t.Fatalf("Compile with a tiny arena: %v, want %v", err, arena.ErrOutOfMemory)
	}
}

func TestCompilePhases(t *testing.T) {
	var phases []string
	out, err := Compile("exit(0);", Options{
		Format:  mods.FormatASM,
		OnPhase: func(phase string) { phases = append(phases, phase) },
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Lexing", "Parsing", "Generating"}
	if strings.Join(phases, ",") != strings.Join(want, ",") {
		t.Errorf("phases = %v, want %v", phases, want)
	}

	if len(out.Tokens) != 5 {
		t.Errorf("got %d tokens, want 5", len(out.Tokens))
	}

	if out.ArenaUsed == 0 {
		t.Error("no arena usage recorded")
	}
}

func TestCompileLLVM(t *testing.T) {
	out, err := Compile("var x: int = 6; exit(x / 2);", Options{Format: mods.FormatLLVM})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"define i32 @main()", "udiv i64", "call void @exit("} {
		if !strings.Contains(out.Text, want) {
			t.Errorf("IR does not contain %q:\n%s", want, out.Text)
		}
	}
}

func TestCompileUnreachableWarning(t *testing.T) {
	out, err := Compile("exit(1); exit(2);\n{ exit(3); var x: int = 4; }", Options{Format: mods.FormatASM})
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(out.Warnings), out.Warnings)
	}

	for i, want := range [][2]int{{1, 10}, {2, 12}} {
		w := out.Warnings[i]
		if w.Message != "unreachable statement" || w.Span.StartLine != want[0] || w.Span.StartCol != want[1] {
			t.Errorf("warning %d = %v, want unreachable statement at %d:%d", i, w, want[0], want[1])
		}
	}
}

func TestCompileUnknownFormat(t *testing.T) {
	if _, err := Compile("exit(0);", Options{Format: 42}); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestRunSourceDivideByZero(t *testing.T) {
	_, err := RunSource("var z: int = 0; exit(1 / z);", 0)
	if !errors.Is(err, vm.ErrDivideByZero) {
		t.Fatalf("got %v, want %v", err, vm.ErrDivideByZero)
	}
}

// -----------------------------------------------------------------------------

func writeSource(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.qz")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestCompilerWritesAssembly(t *testing.T) {
	srcPath := writeSource(t, "exit(3);")

	prof := mods.DefaultProfile()
	prof.OutputFormat = mods.FormatASM

	c, err := NewCompiler(srcPath, prof)
	if err != nil {
		t.Fatal(err)
	}

	wantPath := strings.TrimSuffix(srcPath, ".qz") + ".asm"
	if c.OutputPath() != wantPath {
		t.Fatalf("output path = %s, want %s", c.OutputPath(), wantPath)
	}

	if err := c.Compile(); err != nil {
		t.Fatal(err)
	}

	asm, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}

	res, err := vm.Run(string(asm))
	if err != nil {
		t.Fatal(err)
	}

	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
}

func TestCompilerWritesLLVM(t *testing.T) {
	srcPath := writeSource(t, "exit(3);")
	outPath := filepath.Join(t.TempDir(), "nested", "out.ll")

	prof := mods.DefaultProfile()
	prof.OutputFormat = mods.FormatLLVM
	prof.OutputPath = outPath

	c, err := NewCompiler(srcPath, prof)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Compile(); err != nil {
		t.Fatal(err)
	}

	ir, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(ir), "define i32 @main()") {
		t.Errorf("unexpected IR:\n%s", ir)
	}
}

func TestCompilerReportsWarnings(t *testing.T) {
	srcPath := writeSource(t, "exit(0);\nexit(1);")

	var buff bytes.Buffer
	report.SetOutput(&buff)
	report.InitReporter(report.LogLevelWarn)
	defer func() {
		report.SetOutput(nil)
		report.InitReporter(report.LogLevelSilent)
	}()

	prof := mods.DefaultProfile()
	prof.OutputFormat = mods.FormatASM

	c, err := NewCompiler(srcPath, prof)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Compile(); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Generation Warning", ":2:1: unreachable statement", "exit(1);"} {
		if !strings.Contains(buff.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buff.String())
		}
	}
}

func TestCompilerReportsErrors(t *testing.T) {
	srcPath := writeSource(t, "exit(x);")

	prof := mods.DefaultProfile()
	prof.OutputFormat = mods.FormatASM

	c, err := NewCompiler(srcPath, prof)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Compile(); err == nil {
		t.Fatal("expected an undeclared variable error")
	}

	if _, err := os.Stat(c.OutputPath()); !os.IsNotExist(err) {
		t.Errorf("output file written despite errors: %v", err)
	}
}

func TestCompilerMissingSource(t *testing.T) {
	c, err := NewCompiler(filepath.Join(t.TempDir(), "missing.qz"), nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Compile(); !os.IsNotExist(err) {
		t.Fatalf("got %v, want a not-exist error", err)
	}
}

func TestCompilerBuildToolsMissing(t *testing.T) {
	srcPath := writeSource(t, "exit(0);")

	prof := mods.DefaultProfile()
	prof.Assembler = "quartz-test-no-such-assembler"

	c, err := NewCompiler(srcPath, prof)
	if err != nil {
		t.Fatal(err)
	}

	err = c.Compile()
	if err == nil || !strings.Contains(err.Error(), "failed to run assembler") {
		t.Fatalf("got %v, want an assembler failure", err)
	}
}

func TestRemoveIntermediates(t *testing.T) {
	dir := t.TempDir()
	asmPath := filepath.Join(dir, "out.asm")
	if err := os.WriteFile(asmPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := removeIntermediates(asmPath, filepath.Join(dir, "out.o")); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(asmPath); !os.IsNotExist(err) {
		t.Errorf("%s was not removed", asmPath)
	}
}
