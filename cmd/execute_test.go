package cmd

import (
	"path/filepath"
	"testing"

	"github.com/kr/pretty"

	"quartz/common"
	"quartz/mods"
)

func TestApplyOverrides(t *testing.T) {
	prof := mods.DefaultProfile()
	args := map[string]interface{}{
		"output":     "out/prog.asm",
		"format":     "asm",
		"arena-size": "1024",
		"loglevel":   "silent",
	}

	if err := applyOverrides(prof, args); err != nil {
		t.Fatal(err)
	}

	want := mods.DefaultProfile()
	want.OutputPath = "out/prog.asm"
	want.OutputFormat = mods.FormatASM
	want.ArenaSize = 1024

	if diff := pretty.Diff(prof, want); len(diff) > 0 {
		t.Errorf("profile mismatch:\n%s", diff)
	}
}

func TestApplyOverridesKeepsProfile(t *testing.T) {
	prof := mods.DefaultProfile()
	if err := applyOverrides(prof, map[string]interface{}{}); err != nil {
		t.Fatal(err)
	}

	if diff := pretty.Diff(prof, mods.DefaultProfile()); len(diff) > 0 {
		t.Errorf("profile changed without arguments:\n%s", diff)
	}
}

func TestApplyOverridesErrors(t *testing.T) {
	tests := []map[string]interface{}{
		{"format": "exe"},
		{"arena-size": "lots"},
		{"arena-size": "0"},
		{"arena-size": "-16"},
	}

	for _, args := range tests {
		if err := applyOverrides(mods.DefaultProfile(), args); err == nil {
			t.Errorf("applyOverrides(%v) succeeded, want an error", args)
		}
	}
}

func TestLoadProfileWithoutProject(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "main.qz")

	prof, err := loadProfile(srcPath, "")
	if err != nil {
		t.Fatal(err)
	}

	if diff := pretty.Diff(prof, mods.DefaultProfile()); len(diff) > 0 {
		t.Errorf("expected the default profile:\n%s", diff)
	}

	if _, err := loadProfile(srcPath, "release"); err == nil {
		t.Error("selecting a profile without a project file succeeded")
	}
}

func TestLoadProfileFromProject(t *testing.T) {
	dir := t.TempDir()
	if err := mods.InitModule("demo", dir); err != nil {
		t.Fatal(err)
	}

	srcPath := filepath.Join(dir, "main.qz")

	prof, err := loadProfile(srcPath, "")
	if err != nil {
		t.Fatal(err)
	}

	if prof.Name != "debug" || !prof.KeepIntermediates {
		t.Errorf("expected the debug profile, got %# v", pretty.Formatter(prof))
	}

	if want := filepath.Join(dir, "bin", "demo_debug"); prof.OutputPath != want {
		t.Errorf("output path = %s, want %s", prof.OutputPath, want)
	}

	prof, err = loadProfile(srcPath, "release")
	if err != nil {
		t.Fatal(err)
	}

	if prof.Name != "release" || prof.ArenaSize != common.DefaultArenaSize {
		t.Errorf("unexpected release profile: %# v", pretty.Formatter(prof))
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"exit(0);", false},
		{"{", true},
		{"{ var x: int = 1;\n{ exit(x); }", true},
		{"{ var x: int = 1;\n{ exit(x); } }", false},
		{"}", false},
		{"{ ?", false},
	}

	for _, tt := range tests {
		if got := isIncomplete(tt.src); got != tt.want {
			t.Errorf("isIncomplete(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
