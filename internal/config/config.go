// Package config loads optional tool settings from .adaptercheck.yaml in
// the checked repository's root. Every knob has a default matching the
// fixed layout the check enforces, so the file is only needed when a repo
// keeps its manifest or adapter code somewhere unusual.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFile is the settings file name, relative to the checked root.
const SettingsFile = ".adaptercheck.yaml"

// Defaults for repositories without a settings file.
const (
	DefaultManifest    = "sources.yaml"
	DefaultFixturesDir = "fixtures"
	DefaultAdapterFile = "adapters/adapters.go"
	DefaultTestsDir    = "adapters"
	DefaultTestSuffix  = "_test.go"
)

// Settings holds adaptercheck configuration from .adaptercheck.yaml.
type Settings struct {
	// Manifest is the source manifest path.
	Manifest string `yaml:"manifest"`

	// FixturesDir is the root of the fixture tree.
	FixturesDir string `yaml:"fixtures_dir"`

	Adapter Adapter `yaml:"adapter"`
}

// Adapter locates the adapter implementation and its test corpus.
type Adapter struct {
	Implementation string `yaml:"implementation"`
	TestsDir       string `yaml:"tests_dir"`
	TestSuffix     string `yaml:"test_suffix"`
}

// Load reads .adaptercheck.yaml relative to root.
// Returns nil (not an error) if the file does not exist.
func Load(root string) (*Settings, error) {
	path := filepath.Join(root, SettingsFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &s, nil
}

// ManifestPath returns the configured manifest path or the default.
// Safe to call on a nil *Settings receiver.
func (s *Settings) ManifestPath() string {
	if s == nil || s.Manifest == "" {
		return DefaultManifest
	}
	return s.Manifest
}

// FixturesRoot returns the configured fixtures directory or the default.
func (s *Settings) FixturesRoot() string {
	if s == nil || s.FixturesDir == "" {
		return DefaultFixturesDir
	}
	return s.FixturesDir
}

// AdapterFile returns the adapter implementation path or the default.
func (s *Settings) AdapterFile() string {
	if s == nil || s.Adapter.Implementation == "" {
		return DefaultAdapterFile
	}
	return s.Adapter.Implementation
}

// AdapterTestsDir returns the adapter test corpus directory or the default.
func (s *Settings) AdapterTestsDir() string {
	if s == nil || s.Adapter.TestsDir == "" {
		return DefaultTestsDir
	}
	return s.Adapter.TestsDir
}

// AdapterTestSuffix returns the test file suffix or the default.
func (s *Settings) AdapterTestSuffix() string {
	if s == nil || s.Adapter.TestSuffix == "" {
		return DefaultTestSuffix
	}
	return s.Adapter.TestSuffix
}
