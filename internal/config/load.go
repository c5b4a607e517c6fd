package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Load for omitted fields.
const (
	DefaultMappingFile = "fileshelf.csv"
	DefaultStateDir    = ".fileshelf"
)

// Load reads and validates a fileshelf.yaml configuration file. Relative
// Root is resolved against the config file's directory; omitted fields get
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	applyDefaults(&cfg)

	if !filepath.IsAbs(cfg.Root) {
		absConfig, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		cfg.Root = filepath.Join(filepath.Dir(absConfig), cfg.Root)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.MappingFile == "" {
		cfg.MappingFile = DefaultMappingFile
	}
	if cfg.StateDir == "" {
		cfg.StateDir = DefaultStateDir
	}
}

// JournalPath returns the absolute path of the run journal database.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Root, c.StateDir, "journal.db")
}

// LockPath returns the absolute path of the run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Root, c.StateDir, "run.lock")
}

// MappingPath returns the absolute path of the mapping CSV.
func (c *Config) MappingPath() string {
	return filepath.Join(c.Root, c.MappingFile)
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	for i, rule := range cfg.Rules {
		prefix := fmt.Sprintf("rule[%d]", i)
		if rule.Pattern == "" {
			errs = append(errs, fmt.Sprintf("%s: 'pattern' is required", prefix))
		} else if _, err := regexp.Compile(rule.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid pattern: %v", prefix, err))
		}
		if rule.Destination == "" {
			errs = append(errs, fmt.Sprintf("%s: 'destination' is required", prefix))
		}
	}

	if strings.Contains(cfg.MappingFile, "..") {
		errs = append(errs, "'mapping_file' must not leave the working root")
	}
	if strings.Contains(cfg.StateDir, "..") {
		errs = append(errs, "'state_dir' must not leave the working root")
	}

	return errs
}

// Default returns the starter configuration written by 'fileshelf init'.
func Default() *Config {
	return &Config{
		Version:     1,
		Root:        ".",
		MappingFile: DefaultMappingFile,
		StateDir:    DefaultStateDir,
	}
}

// Save writes the config as YAML to path. Fails if the file exists,
// so init never clobbers a hand-edited config.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating config %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return f.Close()
}
