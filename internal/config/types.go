package config

// Config represents the fileshelf.yaml configuration file.
type Config struct {
	Version int `yaml:"version"`

	// Root is the working directory all placement happens under. Relative
	// values are resolved against the config file's directory, so runs
	// never depend on the ambient process directory.
	Root string `yaml:"root,omitempty"`

	// MappingFile is the CSV mapping set, relative to Root.
	MappingFile string `yaml:"mapping_file,omitempty"`

	// Rules derive destinations from filenames when planning a mapping.
	// Empty means the built-in leading-letters rule.
	Rules []Rule `yaml:"rules,omitempty"`

	// StateDir holds the run journal and lock file, relative to Root.
	StateDir string `yaml:"state_dir,omitempty"`
}

// Rule maps filenames matching Pattern (a Go regexp) to a Destination
// directory template; capture groups expand as $1 or ${name}.
type Rule struct {
	Pattern     string `yaml:"pattern"`
	Destination string `yaml:"destination"`
}
