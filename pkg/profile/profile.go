// pkg/profile/profile.go
package profile

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed presets/*.toml
var presets embed.FS

var (
	// ErrNotFound indicates no profile with the requested name exists
	ErrNotFound = errors.New("profile not found")

	// ErrInvalidName indicates a profile name that is not a plain file stem
	ErrInvalidName = errors.New("invalid profile name")
)

// Profile is a named layer bundle: which services to keep, which boto3
// to install and whether to convert the models
type Profile struct {
	Name         string   `toml:"name"`
	Description  string   `toml:"description"`
	Boto3Version string   `toml:"boto3_version"`
	Services     []string `toml:"services"`
	Codec        string   `toml:"codec"`
	Extras       []string `toml:"extras"`
}

// Registry resolves profiles from a user directory of <name>.toml files
// first and the built-in presets second
type Registry struct {
	dir string
}

// New creates a Registry. An empty dir means built-in presets only.
func New(dir string) *Registry {
	return &Registry{dir: dir}
}

// Load reads and parses the profile called name
func (r *Registry) Load(name string) (*Profile, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if r.dir != "" {
		data, err := os.ReadFile(filepath.Join(r.dir, name+".toml"))
		switch {
		case err == nil:
			return decode(name, data)
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("profile: reading '%s': %w", name, err)
		}
	}

	data, err := presets.ReadFile("presets/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("profile: %w: '%s'", ErrNotFound, name)
	}
	return decode(name, data)
}

// List returns the names of every resolvable profile, sorted
func (r *Registry) List() ([]string, error) {
	seen := make(map[string]bool)

	builtin, err := fs.Glob(presets, "presets/*.toml")
	if err != nil {
		return nil, err
	}
	for _, p := range builtin {
		seen[strings.TrimSuffix(filepath.Base(p), ".toml")] = true
	}

	if r.dir != "" {
		matches, err := filepath.Glob(filepath.Join(r.dir, "*.toml"))
		if err != nil {
			return nil, err
		}
		for _, p := range matches {
			seen[strings.TrimSuffix(filepath.Base(p), ".toml")] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func decode(name string, data []byte) (*Profile, error) {
	var p Profile
	if _, err := toml.Decode(string(data), &p); err != nil {
		return nil, fmt.Errorf("profile: failed to parse '%s': %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	sort.Strings(p.Services)
	return &p, nil
}

// validName rejects names that would resolve outside the profile directory
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("profile: %w: '%s'", ErrInvalidName, name)
	}
	return nil
}
