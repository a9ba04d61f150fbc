package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quartz/arena"
	"quartz/codegen"
	"quartz/common"
	"quartz/irgen"
	"quartz/mods"
	"quartz/report"
	"quartz/syntax"
	"quartz/vm"
)

// Options configures a single run of the compilation pipeline.
type Options struct {
	// Format is the output format: one of the `mods.Format*` values.
	// `mods.FormatBin` produces assembly just like `mods.FormatASM`: the
	// assembler and linker are only run by the `Compiler`.
	Format int

	// ArenaSize is the byte budget of the arena holding the syntax tree.  A
	// value of zero selects `common.DefaultArenaSize`.
	ArenaSize int

	// OnPhase, if not nil, is called as each phase of compilation begins.
	OnPhase func(phase string)
}

// Output is the result of running the compilation pipeline.
type Output struct {
	// Tokens is the token stream of the source.
	Tokens []syntax.Token

	// Text is the generated NASM assembly or LLVM IR.
	Text string

	// ArenaUsed is the number of arena bytes the syntax tree occupied.
	ArenaUsed int

	// Warnings are the non-fatal problems found in the source.
	Warnings []*report.LocalCompileError
}

// Compile runs the whole pipeline over src: the source is tokenized, parsed
// into an arena allocated for this compilation only, and generated to the
// requested output format.  The arena is freed before Compile returns.
func Compile(src string, opts Options) (*Output, error) {
	phase := func(name string) {
		if opts.OnPhase != nil {
			opts.OnPhase(name)
		}
	}

	phase("Lexing")
	toks, err := syntax.Tokenize(src)
	if err != nil {
		return nil, err
	}

	size := opts.ArenaSize
	if size == 0 {
		size = common.DefaultArenaSize
	}

	a := arena.New(size)
	if err := a.Init(); err != nil {
		return nil, err
	}
	defer a.Free()

	phase("Parsing")
	prog, err := syntax.Parse(toks, a)
	if err != nil {
		return nil, err
	}

	out := &Output{Tokens: toks, ArenaUsed: a.Used()}

	phase("Generating")
	switch opts.Format {
	case mods.FormatBin, mods.FormatASM:
		g := codegen.NewGenerator(prog)
		asm, err := g.Generate()
		if err != nil {
			return nil, err
		}

		out.Text = asm
		out.Warnings = g.Warnings()
	case mods.FormatLLVM:
		mod, err := irgen.Generate(prog)
		if err != nil {
			return nil, err
		}

		out.Text = mod.String()
	default:
		return nil, fmt.Errorf("unsupported output format: %d", opts.Format)
	}

	return out, nil
}

// RunSource compiles src to assembly and executes it on the simulator.
func RunSource(src string, arenaSize int) (*vm.Result, error) {
	out, err := Compile(src, Options{Format: mods.FormatASM, ArenaSize: arenaSize})
	if err != nil {
		return nil, err
	}

	return vm.Run(out.Text)
}

// -----------------------------------------------------------------------------

// Compiler builds a single Quartz source file according to a build profile.
type Compiler struct {
	// srcPath is the absolute path to the source file.
	srcPath string

	// reprPath is the path used to refer to the source file in diagnostics.
	reprPath string

	profile *mods.BuildProfile

	// outputPath is the path of the final output file.
	outputPath string
}

// NewCompiler creates a new compiler for the source file at srcPath.  If
// profile is nil, the default build profile is used.
func NewCompiler(srcPath string, profile *mods.BuildProfile) (*Compiler, error) {
	absPath, err := filepath.Abs(srcPath)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		profile = mods.DefaultProfile()
	}

	c := &Compiler{
		srcPath:  absPath,
		reprPath: srcPath,
		profile:  profile,
	}

	c.outputPath = profile.OutputPath
	if c.outputPath == "" {
		c.outputPath = strings.TrimSuffix(absPath, filepath.Ext(absPath))
		switch profile.OutputFormat {
		case mods.FormatASM:
			c.outputPath += ".asm"
		case mods.FormatLLVM:
			c.outputPath += ".ll"
		}
	}

	return c, nil
}

// OutputPath returns the path of the file the compiler produces.
func (c *Compiler) OutputPath() string {
	return c.outputPath
}

// Compile compiles the source file and writes the output.  All errors are
// reported through the reporter before they are returned.
func (c *Compiler) Compile() error {
	report.ReportCompileHeader(common.QuartzVersion, c.reprPath, mods.FormatName(c.profile.OutputFormat))

	srcBytes, err := os.ReadFile(c.srcPath)
	if err != nil {
		report.ReportStdError(c.reprPath, err)
		return err
	}
	src := string(srcBytes)

	out, err := Compile(src, Options{
		Format:    c.profile.OutputFormat,
		ArenaSize: c.profile.ArenaSize,
		OnPhase:   report.ReportBeginPhase,
	})
	if err != nil {
		report.ReportError(c.reprPath, src, err)
		report.ReportCompilationFinished("")
		return err
	}

	report.ReportEndPhase()

	for _, w := range out.Warnings {
		report.ReportCompileWarning(c.reprPath, src, w.Span, report.StageName(w.Stage), "%s", w.Message)
	}

	if err := c.emitOutput(out.Text); err != nil {
		report.ReportStdError(c.reprPath, err)
		report.ReportCompilationFinished("")
		return err
	}

	report.ReportCompilationFinished(c.outputPath)
	return nil
}

// emitOutput writes the generated text to its output file and, for
// executables, assembles and links it.
func (c *Compiler) emitOutput(text string) error {
	if c.profile.OutputFormat != mods.FormatBin {
		return writeOutputFile(c.outputPath, text)
	}

	asmPath := c.outputPath + ".asm"
	objPath := c.outputPath + ".o"

	if err := writeOutputFile(asmPath, text); err != nil {
		return err
	}

	report.ReportBeginPhase("Assembling")
	if err := c.assemble(asmPath, objPath); err != nil {
		return err
	}

	report.ReportBeginPhase("Linking")
	if err := c.link(objPath); err != nil {
		return err
	}

	if !c.profile.KeepIntermediates {
		return removeIntermediates(asmPath, objPath)
	}

	return nil
}

// writeOutputFile writes text to path, creating the parent directory if
// necessary.
func writeOutputFile(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}
