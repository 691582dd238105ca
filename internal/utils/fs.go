package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ResolvePath resolves path against base, yielding a cleaned path.
// Absolute paths are returned unchanged (cleaned). An empty base falls
// back to the working directory so the result stays absolute.
func ResolvePath(path, base string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		}
	}
	return filepath.Join(base, path)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// EnsureDir ensures a directory exists, creating it if necessary
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// ExpandGlobs expands glob patterns into the matching file paths.
// Patterns may contain ** segments matching any number of directories.
// Non-pattern entries are kept as-is whether or not they exist; patterns
// that match nothing expand to nothing. The result is sorted and
// deduplicated.
func ExpandGlobs(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		if !strings.ContainsAny(p, "*?[") {
			add(p)
			continue
		}
		var matches []string
		var err error
		if strings.Contains(p, "**") {
			matches, err = expandGlobstar(p)
		} else {
			matches, err = filepath.Glob(p)
		}
		if err != nil {
			// Malformed pattern, keep the literal entry
			add(p)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(out)
	return out
}

// expandGlobstar expands a pattern containing ** segments.
// filepath.Glob stops at path separators, so the static prefix is
// globbed and the remainder is matched while walking the tree.
func expandGlobstar(pattern string) ([]string, error) {
	segs := strings.Split(filepath.ToSlash(pattern), "/")
	split := 0
	for split < len(segs) && segs[split] != "**" {
		split++
	}

	prefix := strings.Join(segs[:split], "/")
	if prefix == "" {
		prefix = "."
	}
	suffix := segs[split:]

	roots, err := filepath.Glob(filepath.FromSlash(prefix))
	if err != nil {
		return nil, err
	}

	var out []string
	for _, root := range roots {
		if !IsDir(root) {
			continue
		}
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || path == root {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			if matchSegments(suffix, strings.Split(filepath.ToSlash(rel), "/")) {
				out = append(out, path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	return out, nil
}

// matchSegments matches path components against pattern components,
// where ** matches any number of components, including none.
func matchSegments(pat, name []string) bool {
	if len(pat) == 0 {
		return len(name) == 0
	}
	if pat[0] == "**" {
		if matchSegments(pat[1:], name) {
			return true
		}
		if len(name) == 0 {
			return false
		}
		return matchSegments(pat, name[1:])
	}
	if len(name) == 0 {
		return false
	}
	if ok, err := filepath.Match(pat[0], name[0]); err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], name[1:])
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
