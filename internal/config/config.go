// Package config loads optional build defaults from .mrbuild.yaml. Flags
// given on the command line always win over the file.
package config

import (
	"os"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the defaults file looked up relative to the repository root
// when no -config flag is given.
const DefaultPath = ".mrbuild.yaml"

// Config holds build defaults from a YAML file.
type Config struct {
	// Targets and CPUs are the default selection when the corresponding
	// flag is not given, e.g. [win, winuwp] and [x86, x64].
	Targets []string `yaml:"targets"`
	CPUs    []string `yaml:"cpus"`

	// Debug and Release select the default configurations.
	Debug   bool `yaml:"debug"`
	Release bool `yaml:"release"`

	// Quiet suppresses the multi-variant confirmation prompt.
	Quiet bool `yaml:"quiet"`
}

// Load reads a defaults file. A missing file is not an error: Load returns
// nil so that callers fall back to flag defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, xerrors.Errorf("read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, xerrors.Errorf("unmarshal %s: %w", path, err)
	}
	return &c, nil
}
