package report

import (
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during compilation.  The reporter respects the set log
// level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The writer all messages are displayed to.
	out io.Writer

	// The number of errors and warnings reported so far.
	errorCount, warningCount int
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// logLevelNames maps the command-line names of the log levels to their
// enumerated values.
var logLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"verbose": LogLevelVerbose,
}

// LogLevelFromName converts a log level name into its enumerated value.  The
// second return value is false if the name is not a known log level.
func LogLevelFromName(name string) (int, bool) {
	level, ok := logLevelNames[name]
	return level, ok
}

// rep is the global reporter instance.
var rep = &Reporter{
	m:        &sync.Mutex{},
	logLevel: LogLevelVerbose,
	out:      os.Stdout,
}

// InitReporter initializes the global reporter to the given log level and
// clears its error and warning counts.
func InitReporter(logLevel int) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.logLevel = logLevel
	rep.errorCount = 0
	rep.warningCount = 0
}

// SetOutput redirects all reporter output, phase spinners included, to w.  A
// nil writer restores the default output, standard out.
func SetOutput(w io.Writer) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if w == nil {
		w = os.Stdout
	}

	out := &lockedWriter{w: w}
	rep.out = out
	pterm.SetDefaultOutput(out)
}

// LogLevel returns the current log level of the global reporter.
func LogLevel() int {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.logLevel
}

// lockedWriter serializes writes to an output.  Phase spinners draw from their
// own goroutine.
type lockedWriter struct {
	m sync.Mutex
	w io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.m.Lock()
	defer lw.m.Unlock()

	return lw.w.Write(p)
}
