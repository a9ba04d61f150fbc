// Package cmd is the top-level driver for the Quartz compiler: it parses the
// command line and dispatches to the various subcommands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ComedicChimera/olive"
	"github.com/kr/pretty"

	"quartz/arena"
	"quartz/ast"
	"quartz/build"
	"quartz/common"
	"quartz/mods"
	"quartz/report"
	"quartz/syntax"
)

// Execute runs the main `quartz` application and returns the process exit
// code.
func Execute() int {
	cli := olive.NewCLI("quartz", "quartz is a compiler for the Quartz language", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a source file", true)
	buildCmd.AddPrimaryArg("src-path", "the path to the source file to build", true)
	buildCmd.AddStringArg("output", "o", "the output path", false)
	buildCmd.AddStringArg("format", "f", "the output format: bin, asm or llvm", false)
	buildCmd.AddStringArg("profile", "p", "the name of the profile to build", false)
	buildCmd.AddStringArg("arena-size", "a", "the size in bytes of the syntax tree arena", false)

	runCmd := cli.AddSubcommand("run", "compile a source file and simulate it", true)
	runCmd.AddPrimaryArg("src-path", "the path to the source file to run", true)
	runCmd.AddStringArg("arena-size", "a", "the size in bytes of the syntax tree arena", false)

	tokensCmd := cli.AddSubcommand("tokens", "print the tokens of a source file", true)
	tokensCmd.AddPrimaryArg("src-path", "the path to the source file", true)
	tokensCmd.AddFlag("raw", "r", "dump the token structures")

	astCmd := cli.AddSubcommand("ast", "print the syntax tree of a source file", true)
	astCmd.AddPrimaryArg("src-path", "the path to the source file", true)

	cli.AddSubcommand("repl", "start an interactive session", false)

	modCmd := cli.AddSubcommand("mod", "manage projects", true)
	modInitCmd := modCmd.AddSubcommand("init", "initialize a project in the working directory", true)
	modInitCmd.AddPrimaryArg("module-name", "the name of the project", true)

	cli.AddSubcommand("version", "print the Quartz version", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.DisplayErrorMessage("CLI Usage Error", err)
		return 1
	}

	logLevel, _ := report.LogLevelFromName(result.Arguments["loglevel"].(string))
	report.InitReporter(logLevel)

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		return execBuildCommand(subResult)
	case "run":
		return execRunCommand(subResult)
	case "tokens":
		return execTokensCommand(subResult)
	case "ast":
		return execASTCommand(subResult)
	case "repl":
		return runREPL()
	case "mod":
		return execModCommand(subResult)
	case "version":
		report.DisplayInfoMessage("Quartz Version", common.QuartzVersion)
	}

	return 0
}

// execBuildCommand executes the `build` subcommand.
func execBuildCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	prof, err := loadProfile(srcPath, stringArg(result.Arguments, "profile"))
	if err != nil {
		report.ReportFatal("failed to load project: %s", err)
	}

	if err := applyOverrides(prof, result.Arguments); err != nil {
		report.DisplayErrorMessage("CLI Usage Error", err)
		return 1
	}

	c, err := build.NewCompiler(srcPath, prof)
	if err != nil {
		report.DisplayErrorMessage("Path Error", err)
		return 1
	}

	if err := c.Compile(); err != nil {
		return 1
	}

	return 0
}

// execRunCommand executes the `run` subcommand: the exit code is the exit
// status of the simulated program.
func execRunCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	src, ok := readSource(srcPath)
	if !ok {
		return 1
	}

	arenaSize, err := arenaSizeArg(result.Arguments)
	if err != nil {
		report.DisplayErrorMessage("CLI Usage Error", err)
		return 1
	}

	res, err := build.RunSource(src, arenaSize)
	if err != nil {
		report.ReportError(srcPath, src, err)
		return 1
	}

	return res.ExitCode
}

// execTokensCommand executes the `tokens` subcommand.
func execTokensCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	src, ok := readSource(srcPath)
	if !ok {
		return 1
	}

	toks, err := syntax.Tokenize(src)
	if err != nil {
		report.ReportError(srcPath, src, err)
		return 1
	}

	if result.HasFlag("raw") {
		pretty.Println(toks)
		return 0
	}

	for _, tok := range toks {
		fmt.Printf("%d:%d\t%s\n", tok.Line, tok.Col, tok)
	}

	return 0
}

// execASTCommand executes the `ast` subcommand.
func execASTCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	src, ok := readSource(srcPath)
	if !ok {
		return 1
	}

	toks, err := syntax.Tokenize(src)
	if err != nil {
		report.ReportError(srcPath, src, err)
		return 1
	}

	a := arena.New(common.DefaultArenaSize)
	if err := a.Init(); err != nil {
		report.ReportFatal("failed to initialize arena: %s", err)
	}
	defer a.Free()

	prog, err := syntax.Parse(toks, a)
	if err != nil {
		report.ReportError(srcPath, src, err)
		return 1
	}

	fmt.Print(ast.Print(prog))
	return 0
}

// execModCommand executes the `mod` subcommand and its subcommands.
func execModCommand(result *olive.ArgParseResult) int {
	subcmdName, subResult, _ := result.Subcommand()

	workDir, err := os.Getwd()
	if err != nil {
		report.DisplayErrorMessage("Path Error", err)
		return 1
	}

	switch subcmdName {
	case "init":
		modName, _ := subResult.PrimaryArg()
		if err := mods.InitModule(modName, workDir); err != nil {
			report.ReportFatal("failed to initialize project: %s", err)
		}
	}

	return 0
}

// -----------------------------------------------------------------------------

// loadProfile loads the build profile for the source file at srcPath from the
// project file in its directory.  If there is no project file, the default
// profile is used.
func loadProfile(srcPath, profileName string) (*mods.BuildProfile, error) {
	absPath, err := filepath.Abs(srcPath)
	if err != nil {
		return nil, err
	}

	mod, err := mods.LoadModule(filepath.Dir(absPath), profileName)
	if errors.Is(err, mods.ErrNoModule) {
		if profileName != "" {
			return nil, fmt.Errorf("no project file to select profile `%s` from", profileName)
		}

		return mods.DefaultProfile(), nil
	} else if err != nil {
		return nil, err
	}

	// output paths in the project file are relative to the project
	if mod.Profile.OutputPath != "" && !filepath.IsAbs(mod.Profile.OutputPath) {
		mod.Profile.OutputPath = filepath.Join(mod.ModuleRoot, mod.Profile.OutputPath)
	}

	return mod.Profile, nil
}

// applyOverrides applies the command-line arguments that override the build
// profile.
func applyOverrides(prof *mods.BuildProfile, args map[string]interface{}) error {
	if output := stringArg(args, "output"); output != "" {
		prof.OutputPath = output
	}

	if formatName := stringArg(args, "format"); formatName != "" {
		format, ok := mods.FormatFromName(formatName)
		if !ok {
			return fmt.Errorf("invalid output format: `%s`", formatName)
		}

		prof.OutputFormat = format
	}

	arenaSize, err := arenaSizeArg(args)
	if err != nil {
		return err
	} else if arenaSize > 0 {
		prof.ArenaSize = arenaSize
	}

	return nil
}

// arenaSizeArg returns the value of the `arena-size` argument or zero if it
// was not given.
func arenaSizeArg(args map[string]interface{}) (int, error) {
	text := stringArg(args, "arena-size")
	if text == "" {
		return 0, nil
	}

	size, err := strconv.Atoi(text)
	if err != nil || size <= 0 {
		return 0, fmt.Errorf("arena size must be a positive integer: `%s`", text)
	}

	return size, nil
}

// stringArg returns the value of a string argument or an empty string if the
// argument was not given.
func stringArg(args map[string]interface{}, name string) string {
	if val, ok := args[name]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}

	return ""
}

// readSource reads the source file at srcPath reporting any error.
func readSource(srcPath string) (string, bool) {
	buff, err := os.ReadFile(srcPath)
	if err != nil {
		report.ReportStdError(srcPath, err)
		return "", false
	}

	return string(buff), true
}
