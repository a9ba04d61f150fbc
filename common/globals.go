package common

// QuartzVersion is the current Quartz version as a string.
const QuartzVersion string = "0.1.0"

// QuartzModuleFileName is the name for Quartz project files encoded in TOML.
const QuartzModuleFileName string = "quartz-mod.toml"

// QuartzModuleYAMLFileName is the name for Quartz project files encoded in
// YAML.  The TOML file takes precedence when both exist.
const QuartzModuleYAMLFileName string = "quartz-mod.yaml"

// QuartzFileExt is the file extension for a Quartz source file.
const QuartzFileExt string = ".qz"

// DefaultArenaSize is the size in bytes of the arena backing the AST of a
// single compilation unit.
const DefaultArenaSize int = 4 * 1024 * 1024
