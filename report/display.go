package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// write writes directly to the reporter's output.  The caller must hold the
// reporter's lock.
func write(a ...interface{}) {
	fmt.Fprint(rep.out, a...)
}

// writef writes formatted text to the reporter's output.  The caller must hold
// the reporter's lock.
func writef(format string, a ...interface{}) {
	fmt.Fprintf(rep.out, format, a...)
}

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	write(ErrorStyleBG.Sprint("Internal Compiler Error"), " ", ErrorColorFG.Sprint(message), "\n")
	write(InfoColorFG.Sprint("This error was not supposed to happen: it is likely a bug in the compiler."), "\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	write(ErrorStyleBG.Sprint("Fatal Error"), " ", ErrorColorFG.Sprint(message), "\n\n")
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	write(ErrorStyleBG.Sprint("Error"), " ", reprPath, ": ", ErrorColorFG.Sprint(err.Error()), "\n\n")
}

// displayWarning displays a warning which is not attached to source text.
func displayWarning(kind, message string) {
	write(WarnStyleBG.Sprint(kind+" Warning"), " ", WarnColorFG.Sprint(message), "\n\n")
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the banner text to display: eg. "Syntax Error".
func displayCompileMessage(label string, isErr bool, reprPath, src string, span *TextSpan, message string) {
	displayBanner(label, isErr, reprPath)

	if span == nil {
		writef("%s\n\n", message)
	} else {
		writef("%s:%d:%d: %s\n\n", reprPath, span.StartLine, span.StartCol, message)
		displaySourceText(src, span)
	}
}

// displayBanner displays the banner on top of all compilation messages.
func displayBanner(label string, isErr bool, reprPath string) {
	write("\n-- ")
	if isErr {
		write(ErrorStyleBG.Sprint(label))
	} else {
		write(WarnStyleBG.Sprint(label))
	}

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(reprPath) - len(label) - 1
	if dashCount < 3 {
		dashCount = 3
	}

	write(" ", strings.Repeat("-", dashCount), " ", InfoColorFG.Sprint(reprPath), "\n")
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func displaySourceText(src string, span *TextSpan) {
	srcLines := strings.Split(src, "\n")

	// Spans pointing past the end of the source (eg. at the end of file) have
	// no text to display.
	if span.StartLine < 1 || span.StartLine > len(srcLines) {
		return
	}

	endLine := span.EndLine
	if endLine > len(srcLines) {
		endLine = len(srcLines)
	}

	// Calculate the maximum line number length and generate the format string
	// for line numbers.
	maxLineNumLen := len(strconv.Itoa(endLine))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for ln := span.StartLine; ln <= endLine; ln++ {
		line := []rune(strings.TrimRight(srcLines[ln-1], "\r"))

		write(InfoColorFG.Sprint(fmt.Sprintf(lineNumFmtStr, ln)))
		write(string(line), "\n")

		// The underlining starts at the start column on the first line and at
		// the beginning of the line on all others.  It stops at the end column
		// on the last line and at the end of the line on all others.
		startCol := 1
		if ln == span.StartLine {
			startCol = span.StartCol
		}

		endCol := len(line)
		if ln == span.EndLine && span.EndCol < endCol {
			endCol = span.EndCol
		}

		// Tabs are copied into the prefix so that the carets line up with the
		// source text regardless of the terminal's tab width.
		var prefix strings.Builder
		for i := 0; i < startCol-1 && i < len(line); i++ {
			if line[i] == '\t' {
				prefix.WriteRune('\t')
			} else {
				prefix.WriteRune(' ')
			}
		}

		caretCount := endCol - startCol + 1
		if caretCount < 1 {
			caretCount = 1
		}

		write(strings.Repeat(" ", maxLineNumLen), " | ", prefix.String())
		write(ErrorColorFG.Sprint(strings.Repeat("^", caretCount)), "\n")
	}

	write("\n")
}

// -----------------------------------------------------------------------------

// DisplayInfoMessage displays an informational message to the user.  These
// messages are shown whenever the log level is not silent.
func DisplayInfoMessage(tag, msg string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel > LogLevelSilent {
		write(InfoStyleBG.Sprint(tag), " ", InfoColorFG.Sprint(msg), "\n")
	}
}

// DisplayErrorMessage displays an error that occurred outside of compilation:
// eg. a command-line usage error.  These are shown whenever the log level is
// not silent.
func DisplayErrorMessage(tag string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel > LogLevelSilent {
		write(ErrorStyleBG.Sprint(tag), " ", ErrorColorFG.Sprint(err.Error()), "\n")
	}
}

// ReportCompileHeader displays the pre-compilation header: information about
// the compiler's current configuration (version, source file, output format).
func ReportCompileHeader(version, srcPath, format string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		write("quartz ", InfoColorFG.Sprint("v"+version), " -- ", srcPath, " -> ", InfoColorFG.Sprint(format), "\n")
	}
}

// phaseSpinner stores the current phase spinner.
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Generating")

// ReportBeginPhase reports the beginning of a compilation phase.  Only one
// phase may be active at a time: beginning a new phase ends the previous one.
func ReportBeginPhase(phase string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayEndPhase(true)
		displayBeginPhase(phase)
	}
}

// ReportEndPhase reports the successful end of the current phase.
func ReportEndPhase() {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayEndPhase(!AnyErrors())
}

// displayBeginPhase displays the beginning of a compilation phase.
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	spinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	spinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner, _ = spinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a compilation phase if one is active.
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		padding := strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2)
		if success {
			phaseSpinner.Success(
				currentPhase+padding,
				fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase + padding)
		}

		phaseSpinner = nil
	}
}

// ReportCompilationFinished reports the concluding message for compilation.
// This displays the number of errors and warnings and the output path if
// compilation succeeded.
func ReportCompilationFinished(outputPath string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayEndPhase(rep.errorCount == 0)

	if rep.logLevel < LogLevelVerbose {
		return
	}

	write("\n")
	if rep.errorCount == 0 {
		write(SuccessColorFG.Sprint("All done! "))
	} else {
		write(ErrorColorFG.Sprint("Oh no! "))
	}

	write("(", countString(rep.errorCount, "error", ErrorColorFG), ", ")
	write(countString(rep.warningCount, "warning", WarnColorFG), ")\n")

	if rep.errorCount == 0 && outputPath != "" {
		write("output written to ", InfoColorFG.Sprint(outputPath), "\n")
	}
}

// countString renders a count of errors or warnings: the count is coloured
// with nonZeroColor unless it is zero.
func countString(n int, noun string, nonZeroColor pterm.Color) string {
	if n != 1 {
		noun += "s"
	}

	if n == 0 {
		return SuccessColorFG.Sprint(0) + " " + noun
	}

	return nonZeroColor.Sprint(n) + " " + noun
}
