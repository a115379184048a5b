// Package config loads and validates the sgaudit.yaml run configuration and
// the plain-text whitelist files it can reference.
package config

import (
	"github.com/pankaj-dahiya-devops/sg-audit/internal/collectors"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given. The file is optional.
const DefaultFileName = "sgaudit.yaml"

// Finding kinds accepted by fail_on.
const (
	FailOnUnused = "unused"
	FailOnUnsafe = "unsafe"
)

// Config is the top-level run configuration. CLI flags override the scalar
// fields; whitelist sources from flags are merged with the file's.
type Config struct {
	Version int `yaml:"version"`

	// Profile is the AWS profile to use when --profile is not set.
	Profile string `yaml:"profile,omitempty"`

	// Regions limits the audit to these regions. Empty means every active
	// region.
	Regions []string `yaml:"regions,omitempty"`

	// Whitelist holds CIDRs that are always considered safe.
	Whitelist []string `yaml:"whitelist,omitempty"`

	// WhitelistFiles are whitelist files to merge. Relative paths resolve
	// against the directory of the config file.
	WhitelistFiles []string `yaml:"whitelist_files,omitempty"`

	Collectors CollectorsConfig `yaml:"collectors,omitempty"`

	// FailOn lists finding kinds that make the audit exit non-zero.
	FailOn []string `yaml:"fail_on,omitempty"`

	// dir is the directory the config was loaded from.
	dir string
}

// CollectorsConfig enables or disables collector categories by name. A
// category not listed stays enabled.
type CollectorsConfig struct {
	SafeRanges  map[string]bool `yaml:"safe_ranges,omitempty"`
	Attachments map[string]bool `yaml:"attachments,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Version: 1}
}

// Selection converts the collectors block into a registry selection.
func (c *Config) Selection() collectors.Selection {
	if c == nil {
		return collectors.Selection{}
	}
	return collectors.Selection{
		SafeRanges:  c.Collectors.SafeRanges,
		Attachments: c.Collectors.Attachments,
	}
}
