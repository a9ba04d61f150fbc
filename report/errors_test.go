package report

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestLocalCompileErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *LocalCompileError
		want string
	}{
		{"with span", Raise(StageParse, NewSpanAt(3, 7, 1), "expected `%s`", ";"), "3:7: expected `;`"},
		{"without span", Raise(StageGenerate, nil, "undeclared variable: %s", "x"), "undeclared variable: x"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.err.Error(); got != test.want {
				t.Errorf("Error() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestWrapExposesCause(t *testing.T) {
	cause := errors.New("out of memory")
	err := Wrap(StageParse, NewSpanAt(1, 1, 4), cause, "allocation failed")

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is did not find the wrapped cause in %v", err)
	}

	if err.Message != "allocation failed: out of memory" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestNewSpanAt(t *testing.T) {
	span := NewSpanAt(2, 5, 3)
	if span.StartLine != 2 || span.StartCol != 5 || span.EndLine != 2 || span.EndCol != 7 {
		t.Errorf("unexpected span %+v", span)
	}

	if zero := NewSpanAt(1, 1, 0); zero.EndCol != 1 {
		t.Errorf("zero length span should cover one column, got %+v", zero)
	}
}

func TestLogLevelFromName(t *testing.T) {
	for name, want := range map[string]int{"silent": LogLevelSilent, "verbose": LogLevelVerbose} {
		if got, ok := LogLevelFromName(name); !ok || got != want {
			t.Errorf("LogLevelFromName(%q) = %d, %v", name, got, ok)
		}
	}

	if _, ok := LogLevelFromName("loud"); ok {
		t.Error("unknown log level accepted")
	}
}

func TestReportCompileErrorShowsSource(t *testing.T) {
	var buff bytes.Buffer
	SetOutput(&buff)
	InitReporter(LogLevelError)
	defer func() {
		SetOutput(nil)
		InitReporter(LogLevelVerbose)
	}()

	src := "var x: int = 1;\nexit(y);\n"
	err := Raise(StageGenerate, NewSpanAt(2, 6, 1), "undeclared variable: y")
	ReportError("main.qz", src, err)

	out := buff.String()
	for _, want := range []string{"Generation Error", "main.qz:2:6: undeclared variable: y", "exit(y);", "^"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if !AnyErrors() {
		t.Error("AnyErrors() = false after reporting an error")
	}
}

func TestSilentReporterDisplaysNothing(t *testing.T) {
	var buff bytes.Buffer
	SetOutput(&buff)
	InitReporter(LogLevelSilent)
	defer func() {
		SetOutput(nil)
		InitReporter(LogLevelVerbose)
	}()

	ReportCompileError("main.qz", "exit(;", NewSpanAt(1, 6, 1), "Syntax", "expected expression")
	ReportWarning("Module", "version mismatch")

	if buff.Len() != 0 {
		t.Errorf("silent reporter wrote output:\n%s", buff.String())
	}
}

func TestReportCompileWarning(t *testing.T) {
	var buff bytes.Buffer
	SetOutput(&buff)
	InitReporter(LogLevelWarn)
	defer func() {
		SetOutput(nil)
		InitReporter(LogLevelVerbose)
	}()

	if LogLevel() != LogLevelWarn {
		t.Fatalf("LogLevel() = %d, want %d", LogLevel(), LogLevelWarn)
	}

	ReportCompileWarning("main.qz", "exit(0);\nexit(1);", NewSpanAt(2, 1, 8), "Generation", "unreachable statement")

	out := buff.String()
	for _, want := range []string{"Generation Warning", "main.qz:2:1: unreachable statement", "exit(1);"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if AnyErrors() {
		t.Error("a warning was counted as an error")
	}
}

// syncBuffer is a buffer that can be written by the phase spinner while the
// test reads it.
type syncBuffer struct {
	m    sync.Mutex
	buff bytes.Buffer
}

func (sb *syncBuffer) Write(p []byte) (int, error) {
	sb.m.Lock()
	defer sb.m.Unlock()

	return sb.buff.Write(p)
}

func (sb *syncBuffer) String() string {
	sb.m.Lock()
	defer sb.m.Unlock()

	return sb.buff.String()
}

func TestPhasesWriteToOutput(t *testing.T) {
	sb := &syncBuffer{}
	SetOutput(sb)
	InitReporter(LogLevelVerbose)
	defer func() {
		SetOutput(nil)
		InitReporter(LogLevelVerbose)
	}()

	ReportBeginPhase("Parsing")
	ReportEndPhase()

	out := sb.String()
	for _, want := range []string{"Parsing", "Done"} {
		if !strings.Contains(out, want) {
			t.Errorf("phase output missing %q:\n%q", want, out)
		}
	}
}
