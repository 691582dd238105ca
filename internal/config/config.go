package config

import (
	"path/filepath"

	"github.com/webpack4r/webpack4r/internal/manifest"
	"github.com/webpack4r/webpack4r/internal/utils"
)

// Attr identifies one inheritable configuration attribute. The set is
// closed: every attribute a node can carry is declared below.
type Attr string

const (
	AttrID             Attr = "id"
	AttrRootPath       Attr = "root_path"
	AttrCache          Attr = "cache"
	AttrBasePath       Attr = "base_path"
	AttrManifest       Attr = "manifest"
	AttrWatchedPaths   Attr = "watched_paths"
	AttrBuildCommand   Attr = "build_command"
	AttrInstallCommand Attr = "install_command"
)

// Configuration is a node in a two-level tree. A root (nil parent) owns
// site children and supplies hard-coded defaults; a site (non-nil parent)
// owns nothing and inherits every attribute it does not override locally.
//
// A node's shape is fixed at construction: roots never become sites and
// sites never grow children.
type Configuration struct {
	parent    *Configuration
	children  []*Configuration
	childIdx  map[string]int
	overrides map[Attr]any
}

// NewRoot creates a root configuration carrying the package defaults.
func NewRoot() *Configuration {
	return &Configuration{
		overrides: map[Attr]any{
			AttrID:             RootID,
			AttrCache:          DefaultCache,
			AttrWatchedPaths:   append([]string(nil), DefaultWatchedPaths...),
			AttrBuildCommand:   DefaultBuildCommand,
			AttrInstallCommand: DefaultInstallCommand,
		},
	}
}

// IsRoot reports whether the node is the tree root
func (c *Configuration) IsRoot() bool {
	return c.parent == nil
}

// Parent returns the owning node, or nil for the root
func (c *Configuration) Parent() *Configuration {
	return c.parent
}

// Add registers a new site under the receiver, keyed by id. A duplicate
// id replaces the prior site in place, keeping its position. The optional
// configure callbacks run against the new site before it is returned.
//
// Only a root may own sites; calling Add on a site returns a
// StructuralError.
func (c *Configuration) Add(id, manifestPath string, configure ...func(*Configuration)) (*Configuration, error) {
	if !c.IsRoot() {
		return nil, &StructuralError{Reason: "sub configuration under a sub is not allowed"}
	}

	child := &Configuration{
		parent:    c,
		overrides: map[Attr]any{AttrID: id},
	}
	if manifestPath != "" {
		child.overrides[AttrManifest] = manifestPath
	}

	if c.childIdx == nil {
		c.childIdx = make(map[string]int)
	}
	if i, ok := c.childIdx[id]; ok {
		c.children[i] = child
	} else {
		c.childIdx[id] = len(c.children)
		c.children = append(c.children, child)
	}

	for _, fn := range configure {
		fn(child)
	}
	return child, nil
}

// Children returns a snapshot of the registered sites, insertion ordered.
// Always empty for a site.
func (c *Configuration) Children() *Collection {
	return NewCollection(c.children...)
}

// Leaves returns the active configurations: the sites when any are
// registered, otherwise the receiver itself.
func (c *Configuration) Leaves() *Collection {
	if len(c.children) == 0 {
		return NewCollection(c)
	}
	return NewCollection(c.children...)
}

// Manifests builds a manifest repository from the active leaves, keyed by
// leaf id in insertion order. The first leaf's manifest becomes the
// repository default. Root-only; loader failures propagate unmodified.
func (c *Configuration) Manifests() (*manifest.Repository, error) {
	return c.ManifestsWith(nil)
}

// ManifestsWith is Manifests with an explicit manifest load func, nil
// meaning the package default loader.
func (c *Configuration) ManifestsWith(load manifest.LoadFunc) (*manifest.Repository, error) {
	if !c.IsRoot() {
		return nil, &StructuralError{Reason: "manifests are only available on the root configuration"}
	}

	repo := manifest.NewRepository(load)
	for _, leaf := range c.Leaves().All() {
		if err := repo.Add(leaf.ID(), leaf.Manifest(), manifest.Options{Cache: leaf.Cache()}); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// resolve walks up the tree: local override first, then the parent chain.
// Only the root terminates the recursion, so only the root can supply
// defaults.
func (c *Configuration) resolve(attr Attr) (any, bool) {
	if v, ok := c.overrides[attr]; ok {
		return v, true
	}
	if c.parent != nil {
		return c.parent.resolve(attr)
	}
	return nil, false
}

func (c *Configuration) set(attr Attr, value any) {
	c.overrides[attr] = value
}

func (c *Configuration) stringAttr(attr Attr) string {
	if v, ok := c.resolve(attr); ok {
		return v.(string)
	}
	return ""
}

// ID returns the node identifier; empty for the root
func (c *Configuration) ID() string { return c.stringAttr(AttrID) }

// RootPath returns the application root directory
func (c *Configuration) RootPath() string { return c.stringAttr(AttrRootPath) }

// SetRootPath overrides the application root directory
func (c *Configuration) SetRootPath(path string) { c.set(AttrRootPath, path) }

// Cache reports whether loaded manifests should be memoized
func (c *Configuration) Cache() bool {
	if v, ok := c.resolve(AttrCache); ok {
		return v.(bool)
	}
	return false
}

// SetCache overrides the manifest caching policy
func (c *Configuration) SetCache(cache bool) { c.set(AttrCache, cache) }

// BasePath returns the bundler source directory, relative to the root
// path unless absolute. Empty when unset anywhere in the chain.
func (c *Configuration) BasePath() string { return c.stringAttr(AttrBasePath) }

// SetBasePath overrides the bundler source directory
func (c *Configuration) SetBasePath(path string) { c.set(AttrBasePath, path) }

// Manifest returns the compiled-asset manifest file location
func (c *Configuration) Manifest() string { return c.stringAttr(AttrManifest) }

// SetManifest overrides the manifest file location
func (c *Configuration) SetManifest(path string) { c.set(AttrManifest, path) }

// WatchedPaths returns the watched path list, relative to the base path
func (c *Configuration) WatchedPaths() []string {
	if v, ok := c.resolve(AttrWatchedPaths); ok {
		return append([]string(nil), v.([]string)...)
	}
	return nil
}

// SetWatchedPaths overrides the watched path list
func (c *Configuration) SetWatchedPaths(paths []string) {
	c.set(AttrWatchedPaths, append([]string(nil), paths...))
}

// BuildCommand returns the bundler build command line
func (c *Configuration) BuildCommand() string { return c.stringAttr(AttrBuildCommand) }

// SetBuildCommand overrides the bundler build command line
func (c *Configuration) SetBuildCommand(cmd string) { c.set(AttrBuildCommand, cmd) }

// InstallCommand returns the dependency install command line
func (c *Configuration) InstallCommand() string { return c.stringAttr(AttrInstallCommand) }

// SetInstallCommand overrides the dependency install command line
func (c *Configuration) SetInstallCommand(cmd string) { c.set(AttrInstallCommand, cmd) }

// ResolvedBasePath resolves the base path (default ".") against the root
// path. Pure function of the current attribute state.
func (c *Configuration) ResolvedBasePath() string {
	base := c.BasePath()
	if base == "" {
		base = DefaultBasePath
	}
	return utils.ResolvePath(base, c.RootPath())
}

// ResolvedWatchedPaths resolves each watched path against the resolved
// base path, preserving order.
func (c *Configuration) ResolvedWatchedPaths() []string {
	base := c.ResolvedBasePath()
	watched := c.WatchedPaths()
	resolved := make([]string, len(watched))
	for i, p := range watched {
		resolved[i] = utils.ResolvePath(p, base)
	}
	return resolved
}

// CachePath names the cache directory under the root path. The location
// is fixed regardless of which node is asked.
func (c *Configuration) CachePath() string {
	parts := append([]string{c.RootPath()}, cacheDirSegments...)
	return filepath.Join(parts...)
}
