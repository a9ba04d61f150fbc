package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"quartz/common"
)

// InitModule creates a new module with the given name at the given path.
func InitModule(name, path string) error {
	// convert the module directory to the path to module file
	mfPath := filepath.Join(path, common.QuartzModuleFileName)

	// check to see if a module already exists
	if _, err := FindModuleFile(path); err == nil {
		return errors.New("module file already exists")
	} else if !errors.Is(err, ErrNoModule) {
		return fmt.Errorf("module file error: %s", err.Error())
	}

	if !IsValidIdentifier(name) {
		return errors.New("module name must be a valid identifier")
	}

	mod := &encodedModule{
		Name:    name,
		Version: common.QuartzVersion,
		BuildProfiles: []*encodedProfile{
			newInitProfile(name, true),
			newInitProfile(name, false),
		},
	}

	buff, err := toml.Marshal(moduleFile{Module: mod})
	if err != nil {
		return fmt.Errorf("error encoding TOML: %s", err.Error())
	}

	if err := os.WriteFile(mfPath, buff, 0644); err != nil {
		return fmt.Errorf("error creating module file: %s", err.Error())
	}

	return nil
}

// newInitProfile creates a new initial profile for a module.  The debug
// profile is the default and produces assembly alongside the executable.
func newInitProfile(modName string, debug bool) *encodedProfile {
	prof := &encodedProfile{
		Format:      "bin",
		ArenaSize:   common.DefaultArenaSize,
		Assembler:   DefaultAssembler,
		Linker:      DefaultLinker,
		DefaultProf: debug,
		Keep:        debug,
	}

	if debug {
		prof.Name = "debug"
		prof.OutputPath = filepath.Join("bin", modName+"_debug")
	} else {
		prof.Name = "release"
		prof.OutputPath = filepath.Join("bin", modName)
	}

	return prof
}
