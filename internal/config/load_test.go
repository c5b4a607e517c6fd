package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "fileshelf.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "version: 1\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MappingFile != DefaultMappingFile {
		t.Errorf("MappingFile = %q, want %q", cfg.MappingFile, DefaultMappingFile)
	}
	if cfg.StateDir != DefaultStateDir {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, DefaultStateDir)
	}

	// Relative root resolves against the config file's directory, not the
	// process working directory.
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	resolvedRoot, err := filepath.EvalSymlinks(cfg.Root)
	if err != nil {
		t.Fatal(err)
	}
	if resolvedRoot != resolvedDir {
		t.Errorf("Root = %q, want %q", resolvedRoot, resolvedDir)
	}
}

func TestLoadExplicitFields(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, strings.Join([]string{
		"version: 1",
		"root: inbox",
		"mapping_file: plan.csv",
		"state_dir: .state",
		"rules:",
		"  - pattern: '^([a-z]+)'",
		"    destination: folder_$1",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Root != filepath.Join(dir, "inbox") {
		t.Errorf("Root = %q", cfg.Root)
	}
	if got := cfg.MappingPath(); got != filepath.Join(dir, "inbox", "plan.csv") {
		t.Errorf("MappingPath = %q", got)
	}
	if got := cfg.JournalPath(); got != filepath.Join(dir, "inbox", ".state", "journal.db") {
		t.Errorf("JournalPath = %q", got)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Destination != "folder_$1" {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"bad version", Config{Version: 2}, "unsupported version"},
		{"bad pattern", Config{Version: 1, Rules: []Rule{{Pattern: "[", Destination: "x"}}}, "invalid pattern"},
		{"empty destination", Config{Version: 1, Rules: []Rule{{Pattern: "ok"}}}, "'destination' is required"},
		{"escaping mapping file", Config{Version: 1, MappingFile: "../evil.csv"}, "must not leave"},
		{"escaping state dir", Config{Version: 1, StateDir: "../state"}, "must not leave"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Validate(&tc.cfg)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tc.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error containing %q in %v", tc.want, errs)
			}
		})
	}
}

func TestSaveRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fileshelf.yaml")

	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Save(path, Default()); err == nil {
		t.Fatal("second Save should refuse to overwrite")
	}

	// Round-trip: saved default loads clean.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d", cfg.Version)
	}
}
