package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"quartz/common"
	"quartz/report"
)

// moduleFile represents the project file as it is encoded in TOML or YAML.
type moduleFile struct {
	Module *encodedModule `toml:"module" yaml:"module"`
}

// encodedModule represents a Quartz module as it is encoded.
type encodedModule struct {
	Name          string            `toml:"name" yaml:"name"`
	Version       string            `toml:"quartz-version" yaml:"quartz-version"`
	BuildProfiles []*encodedProfile `toml:"profiles" yaml:"profiles"`
}

// encodedProfile represents a profile as it is encoded.
type encodedProfile struct {
	Name        string `toml:"name" yaml:"name"`
	DefaultProf bool   `toml:"default" yaml:"default"` // in absence of a selected profile, choose this profile
	OutputPath  string `toml:"output" yaml:"output"`
	Format      string `toml:"format" yaml:"format"`
	ArenaSize   int    `toml:"arena-size,omitempty" yaml:"arena-size,omitempty"`
	Assembler   string `toml:"assembler,omitempty" yaml:"assembler,omitempty"`
	Linker      string `toml:"linker,omitempty" yaml:"linker,omitempty"`
	Keep        bool   `toml:"keep-intermediates,omitempty" yaml:"keep-intermediates,omitempty"`
}

// ErrNoModule is returned by LoadModule when a directory has no project file.
var ErrNoModule = errors.New("no project file found")

// FindModuleFile returns the path to the project file in the directory at
// path.  The TOML project file takes precedence over the YAML one.
func FindModuleFile(path string) (string, error) {
	for _, name := range []string{common.QuartzModuleFileName, common.QuartzModuleYAMLFileName} {
		mfPath := filepath.Join(path, name)

		finfo, err := os.Stat(mfPath)
		if err == nil && !finfo.IsDir() {
			return mfPath, nil
		} else if err != nil && !os.IsNotExist(err) {
			return "", err
		}
	}

	return "", ErrNoModule
}

// LoadModule loads and validates the module in the directory at path and
// selects its build profile.  `selectedProfile` can be empty if there is no
// profile selected in which case the module's default profile is used.
func LoadModule(path, selectedProfile string) (*QuartzModule, error) {
	mfPath, err := FindModuleFile(path)
	if err != nil {
		return nil, err
	}

	buff, err := os.ReadFile(mfPath)
	if err != nil {
		return nil, err
	}

	mf := &moduleFile{}
	if filepath.Ext(mfPath) == ".toml" {
		err = toml.Unmarshal(buff, mf)
	} else {
		err = yaml.Unmarshal(buff, mf)
	}

	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", filepath.Base(mfPath), err)
	}

	if mf.Module == nil {
		return nil, fmt.Errorf("%s has no module table", filepath.Base(mfPath))
	}

	qmod := &QuartzModule{
		// module root is the directory enclosing the module file
		ModuleRoot: path,
		Name:       mf.Module.Name,
		Version:    mf.Module.Version,
	}

	if err := validateModule(qmod, mf.Module); err != nil {
		return nil, err
	}

	prof, err := selectProfile(mf.Module, selectedProfile)
	if err != nil {
		return nil, err
	}

	qmod.Profile = prof
	return qmod, nil
}

// validateModule checks that the top level module contents are valid.
func validateModule(qmod *QuartzModule, mod *encodedModule) error {
	if mod.Name == "" {
		return fmt.Errorf("missing module name for module at %s", qmod.ModuleRoot)
	}

	if !IsValidIdentifier(mod.Name) {
		return errors.New("module name must be a valid identifier")
	}

	if mod.Version != common.QuartzVersion {
		report.ReportWarning(
			"module",
			"version of module `%s` (v%s) does not match current quartz version (v%s)",
			mod.Name,
			mod.Version,
			common.QuartzVersion,
		)
	}

	return nil
}

// selectProfile selects the named profile or, if no profile is named, the
// default profile of the module.
func selectProfile(mod *encodedModule, selectedProfile string) (*BuildProfile, error) {
	if len(mod.BuildProfiles) == 0 {
		return nil, fmt.Errorf("module `%s` must provide at least one build profile", mod.Name)
	}

	for _, prof := range mod.BuildProfiles {
		if selectedProfile != "" && prof.Name == selectedProfile || selectedProfile == "" && prof.DefaultProf {
			convProf, err := convertProfile(prof)
			if err != nil {
				return nil, fmt.Errorf("%s in module `%s`", err.Error(), mod.Name)
			}

			return convProf, nil
		}
	}

	if selectedProfile != "" {
		return nil, fmt.Errorf("module `%s` has no profile `%s`", mod.Name, selectedProfile)
	}

	return nil, fmt.Errorf("module `%s` does not specify a default profile; `--profile` argument is required", mod.Name)
}

// convertProfile converts an encoded build profile into a `*BuildProfile`.
func convertProfile(eprof *encodedProfile) (*BuildProfile, error) {
	if eprof.Name == "" {
		return nil, errors.New("profile must specify a name")
	}

	if eprof.OutputPath == "" {
		return nil, fmt.Errorf("profile `%s` must specify an output path", eprof.Name)
	}

	if eprof.Format == "" {
		return nil, fmt.Errorf("profile `%s` must specify an output format", eprof.Name)
	}

	if eprof.ArenaSize < 0 {
		return nil, fmt.Errorf("profile `%s` must specify a positive arena size", eprof.Name)
	}

	newProfile := DefaultProfile()
	newProfile.Name = eprof.Name
	newProfile.OutputPath = eprof.OutputPath
	newProfile.KeepIntermediates = eprof.Keep

	if format, ok := FormatFromName(eprof.Format); ok {
		newProfile.OutputFormat = format
	} else {
		return nil, fmt.Errorf("%s is not a valid output format", eprof.Format)
	}

	if eprof.ArenaSize > 0 {
		newProfile.ArenaSize = eprof.ArenaSize
	}

	if eprof.Assembler != "" {
		newProfile.Assembler = eprof.Assembler
	}

	if eprof.Linker != "" {
		newProfile.Linker = eprof.Linker
	}

	return newProfile, nil
}
