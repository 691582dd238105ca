package config

import (
	"gopkg.in/yaml.v3"
)

// Snapshot is the fully resolved attribute set of one node, suitable for
// rendering. Inherited values appear materialized.
type Snapshot struct {
	ID             string     `yaml:"id,omitempty"`
	RootPath       string     `yaml:"root_path"`
	Cache          bool       `yaml:"cache"`
	BasePath       string     `yaml:"base_path"`
	Manifest       string     `yaml:"manifest,omitempty"`
	WatchedPaths   []string   `yaml:"watched_paths"`
	BuildCommand   string     `yaml:"build_command"`
	InstallCommand string     `yaml:"install_command"`
	Sites          []Snapshot `yaml:"sites,omitempty"`
}

// Snapshot resolves the receiver's attributes, plus those of its
// children for a root.
func (c *Configuration) Snapshot() Snapshot {
	s := Snapshot{
		ID:             c.ID(),
		RootPath:       c.RootPath(),
		Cache:          c.Cache(),
		BasePath:       c.ResolvedBasePath(),
		Manifest:       c.Manifest(),
		WatchedPaths:   c.ResolvedWatchedPaths(),
		BuildCommand:   c.BuildCommand(),
		InstallCommand: c.InstallCommand(),
	}
	for _, child := range c.Children().All() {
		s.Sites = append(s.Sites, child.Snapshot())
	}
	return s
}

// YAML renders the snapshot as YAML
func (s Snapshot) YAML() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
