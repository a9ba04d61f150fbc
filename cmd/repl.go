package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"quartz/build"
	"quartz/common"
	"quartz/mods"
	"quartz/report"
	"quartz/syntax"
	"quartz/vm"
)

const (
	promptMain  = "quartz> "
	promptCont  = "   ...> "
	historyFile = ".quartz_history"
	replPath    = "<repl>"
)

// runREPL runs the interactive loop: each entered program is compiled, its
// assembly printed and its exit status simulated.
func runREPL() int {
	fmt.Println("quartz v" + common.QuartzVersion + ": enter a program, :asm to toggle assembly output, :quit to exit")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	showAsm := report.LogLevel() == report.LogLevelVerbose
	for {
		src, ok := readProgram(ln)
		if !ok {
			fmt.Println()
			return 0
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return 0
		case ":asm":
			showAsm = !showAsm
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		evalProgram(src, showAsm)
	}
}

// evalProgram compiles and simulates a single program entered at the prompt.
func evalProgram(src string, showAsm bool) {
	out, err := build.Compile(src, build.Options{Format: mods.FormatASM})
	if err != nil {
		report.ReportError(replPath, src, err)
		return
	}

	if showAsm {
		fmt.Print(out.Text)
	}

	res, err := vm.Run(out.Text)
	if err != nil {
		report.DisplayErrorMessage("Runtime Error", err)
		return
	}

	report.DisplayInfoMessage("Exit Status", fmt.Sprint(res.ExitCode))
}

// readProgram reads a program from the prompt.  Lines are read until every
// open brace is closed.  It returns false when the input ends.
func readProgram(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		} else if err != nil {
			// aborted with Ctrl-C
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if src := b.String(); !isIncomplete(src) {
			return src, true
		}
	}
}

// isIncomplete returns whether src has more open braces than closing ones.
// Sources that fail to tokenize are complete: the error is reported when they
// are compiled.
func isIncomplete(src string) bool {
	toks, err := syntax.Tokenize(src)
	if err != nil {
		return false
	}

	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case syntax.TOK_LBRACE:
			depth++
		case syntax.TOK_RBRACE:
			depth--
		}
	}

	return depth > 0
}
