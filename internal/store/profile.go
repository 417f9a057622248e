// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"
)

// Profile is a named connection to an analytical store.
type Profile struct {
	// Name is the profile's key in the profiles file.
	Name string `yaml:"-"`

	// Driver selects the backend: duckdb, sqlite3 or pgx.
	Driver string `yaml:"driver"`

	// DSN is the driver specific data source name. For duckdb and sqlite3
	// this is a database file path; empty means in-memory.
	DSN string `yaml:"dsn"`

	// LibraryDir is where sqlite3 keeps one attached database file per
	// library. Ignored by the other drivers.
	LibraryDir string `yaml:"library_dir,omitempty"`
}

// profilesFile is the on-disk layout of the profiles file.
type profilesFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles reads every profile in the YAML file at path.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}
	var pf profilesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing profiles file %s: %w", path, err)
	}
	for name, p := range pf.Profiles {
		p.Name = name
		pf.Profiles[name] = p
	}
	return pf.Profiles, nil
}

// LoadProfile returns the named profile from the YAML file at path.
func LoadProfile(path, name string) (Profile, error) {
	profiles, err := LoadProfiles(path)
	if err != nil {
		return Profile{}, err
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found in %s (have %v)", name, path, ProfileNames(profiles))
	}
	if _, err := dialectFor(p.Driver); err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return p, nil
}

// ProfileNames returns the profile names in sorted order.
func ProfileNames(profiles map[string]Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
