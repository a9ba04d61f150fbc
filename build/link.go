package build

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// assemble runs the assembler over the assembly file at asmPath producing an
// ELF64 object file at objPath.
func (c *Compiler) assemble(asmPath, objPath string) error {
	return runTool("assembler", exec.Command(c.profile.Assembler, "-felf64", asmPath, "-o", objPath))
}

// link links the object file at objPath into the final executable.
func (c *Compiler) link(objPath string) error {
	return runTool("linker", exec.Command(c.profile.Linker, "-o", c.outputPath, objPath))
}

// runTool runs an external build tool.  If the tool runs but fails, its output
// becomes the error text.
func runTool(role string, cmd *exec.Cmd) error {
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The tool was found but it rejected its input.
			return fmt.Errorf("%s error:\n%s", role, strings.TrimSpace(string(out)))
		}

		// Probably could not find the tool.
		return fmt.Errorf("failed to run %s: %w", role, err)
	}

	return nil
}

// removeIntermediates deletes the files produced on the way to an executable.
// Files that were never produced are ignored.
func removeIntermediates(paths ...string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete intermediate file: %w", err)
		}
	}

	return nil
}
