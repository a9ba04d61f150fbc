package mods

import (
	"unicode"

	"quartz/common"
)

// QuartzModule represents a Quartz project: the configuration read from a
// project file.
type QuartzModule struct {
	// Name is the name of the module.
	Name string

	// ModuleRoot is the path to the directory containing the project file.
	ModuleRoot string

	// Version is the Quartz version the module was written for.
	Version string

	// Profile is the build profile selected for this build.
	Profile *BuildProfile
}

// BuildProfile represents the profile that the compiler will use to build.
type BuildProfile struct {
	// Name is the name of the profile.
	Name string

	// OutputPath is the path to the final output file.  If it is empty, the
	// output is named after the source file.
	OutputPath string

	// OutputFormat is the type of output the compiler should produce.  This
	// should be one of the enumerated formats (prefixed `Format`).
	OutputFormat int

	// ArenaSize is the size in bytes of the arena used to hold the AST.
	ArenaSize int

	// Assembler and Linker are the external programs used to build
	// executables.
	Assembler, Linker string

	// KeepIntermediates indicates whether the assembly and object files
	// produced while building an executable should be kept.
	KeepIntermediates bool
}

// Available Output Formats
const (
	FormatBin  = iota // Executable
	FormatASM         // NASM Assembly
	FormatLLVM        // LLVM IR
)

// formatNames maps format names to enumerated format values.
var formatNames = map[string]int{
	"bin":  FormatBin,
	"asm":  FormatASM,
	"llvm": FormatLLVM,
}

// FormatFromName returns the output format with the given name.
func FormatFromName(name string) (int, bool) {
	format, ok := formatNames[name]
	return format, ok
}

// FormatName returns the name of an output format.
func FormatName(format int) string {
	for name, f := range formatNames {
		if f == format {
			return name
		}
	}

	return "unknown"
}

// Default external tools.
const (
	DefaultAssembler = "nasm"
	DefaultLinker    = "ld"
)

// DefaultProfile returns the profile used to build source files which are not
// part of a module.
func DefaultProfile() *BuildProfile {
	return &BuildProfile{
		Name:         "default",
		OutputFormat: FormatBin,
		ArenaSize:    common.DefaultArenaSize,
		Assembler:    DefaultAssembler,
		Linker:       DefaultLinker,
	}
}

// IsValidIdentifier returns whether or not a given string would be a valid
// Quartz identifier: a letter followed by any number of letters and digits.
func IsValidIdentifier(idstr string) bool {
	for i, c := range idstr {
		if unicode.IsLetter(c) || (i > 0 && '0' <= c && c <= '9') {
			continue
		}

		return false
	}

	return idstr != ""
}
