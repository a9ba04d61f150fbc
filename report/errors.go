package report

import (
	"fmt"
	"os"
)

// TextSpan represents a range or "span" of source text.  It is used to specify
// erroneous or otherwise significant source text in a Quartz program.  Text
// spans are inclusive on both sides: the starting position is the position of
// the first character in the span and the ending position is the position of
// the last character in the span.  Lines and columns are one-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanAt returns a span covering length characters starting at the given
// line and column.
func NewSpanAt(line, col, length int) *TextSpan {
	if length < 1 {
		length = 1
	}

	return &TextSpan{
		StartLine: line,
		StartCol:  col,
		EndLine:   line,
		EndCol:    col + length - 1,
	}
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// Enumeration of the compilation stages an error can originate from.
const (
	StageLex = iota
	StageParse
	StageGenerate
)

// stageNames maps stages to the names used when displaying errors.
var stageNames = map[int]string{
	StageLex:      "Lexical",
	StageParse:    "Syntax",
	StageGenerate: "Generation",
}

// StageName returns the display name of a compilation stage.
func StageName(stage int) string {
	return stageNames[stage]
}

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The stage the error was raised in.
	Stage int

	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil.
	Span *TextSpan

	// A short rendering of the offending token, if any.
	Near string

	// The underlying error that caused this one, if any.
	Cause error
}

func (lce *LocalCompileError) Error() string {
	if lce.Span == nil {
		return lce.Message
	}

	return fmt.Sprintf("%d:%d: %s", lce.Span.StartLine, lce.Span.StartCol, lce.Message)
}

func (lce *LocalCompileError) Unwrap() error {
	return lce.Cause
}

// Raise creates a new local compile error.
func Raise(stage int, span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Stage: stage, Message: fmt.Sprintf(msg, args...), Span: span}
}

// RaiseNear creates a new local compile error that points at an offending
// token rendered as near.
func RaiseNear(stage int, span *TextSpan, near string, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Stage: stage, Message: fmt.Sprintf(msg, args...), Span: span, Near: near}
}

// Wrap creates a new local compile error caused by another error.
func Wrap(stage int, span *TextSpan, cause error, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{
		Stage:   stage,
		Message: fmt.Sprintf(msg, args...) + ": " + cause.Error(),
		Span:    span,
		Cause:   cause,
	}
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: a missing source
// file, a malformed project file, a missing assembler, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayEndPhase(false)
		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error: ie. erroneous input code.
// The reprPath is the path to display for the erroneous source file and src is
// its full text, used to display the offending lines.  The span may be nil in
// which case no position information will be printed.
func ReportCompileError(reprPath, src string, span *TextSpan, kind string, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayEndPhase(false)
		displayCompileMessage(kind+" Error", true, reprPath, src, span, fmt.Sprintf(message, args...))
	}
}

// ReportCompileWarning reports a compilation warning.  The arguments are of the
// same form as those to ReportCompileError.
func ReportCompileWarning(reprPath, src string, span *TextSpan, kind string, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warningCount++

	if rep.logLevel >= LogLevelWarn {
		displayCompileMessage(kind+" Warning", false, reprPath, src, span, fmt.Sprintf(message, args...))
	}
}

// ReportError reports any error produced while compiling the file at reprPath.
// Local compile errors are displayed with their source text; all other errors
// are displayed as standard Go errors.
func ReportError(reprPath, src string, err error) {
	if lce, ok := err.(*LocalCompileError); ok {
		ReportCompileError(reprPath, src, lce.Span, StageName(lce.Stage), "%s", lce.Message)
	} else {
		ReportStdError(reprPath, err)
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayEndPhase(false)
		displayStdError(reprPath, err)
	}
}

// ReportWarning reports a warning that is not attached to any source text.
func ReportWarning(kind, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warningCount++

	if rep.logLevel >= LogLevelWarn {
		displayWarning(kind, fmt.Sprintf(message, args...))
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	return rep.errorCount > 0
}
