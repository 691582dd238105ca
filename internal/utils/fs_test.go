package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolvePath tests relative and absolute resolution
func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		base string
		want string
	}{
		{"relative against base", "frontend", "/app", filepath.Join("/app", "frontend")},
		{"dot resolves to base", ".", "/app", "/app"},
		{"absolute ignores base", "/srv/assets", "/app", "/srv/assets"},
		{"absolute is cleaned", "/srv//assets/./js", "/app", filepath.Clean("/srv/assets/js")},
		{"nested relative", "config/webpack.js", "/app/frontend", filepath.Join("/app", "frontend", "config", "webpack.js")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.path, tt.base))
		})
	}

	t.Run("empty base resolves against the working directory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(wd, "frontend"), ResolvePath("frontend", ""))
		assert.Equal(t, wd, ResolvePath(".", ""))
	})
}

// TestExpandPath tests home expansion
func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "app"), ExpandPath("~/app"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/app", ExpandPath("/app"))
	assert.Equal(t, "relative", ExpandPath("relative"))
}

// TestExpandGlobs tests glob expansion over watched paths
func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.js"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.css"), nil, 0644))

	t.Run("patterns expand to matches", func(t *testing.T) {
		got := ExpandGlobs([]string{filepath.Join(dir, "*.js")})
		assert.Equal(t, []string{
			filepath.Join(dir, "a.js"),
			filepath.Join(dir, "b.js"),
		}, got)
	})

	t.Run("non-pattern entries survive even when missing", func(t *testing.T) {
		missing := filepath.Join(dir, "package.json")
		got := ExpandGlobs([]string{missing})
		assert.Equal(t, []string{missing}, got)
	})

	t.Run("result is deduplicated and sorted", func(t *testing.T) {
		got := ExpandGlobs([]string{
			filepath.Join(dir, "b.js"),
			filepath.Join(dir, "*.js"),
		})
		assert.Equal(t, []string{
			filepath.Join(dir, "a.js"),
			filepath.Join(dir, "b.js"),
		}, got)
	})

	t.Run("pattern matching nothing expands to nothing", func(t *testing.T) {
		got := ExpandGlobs([]string{filepath.Join(dir, "*.ts")})
		assert.Empty(t, got)
	})
}

// TestExpandGlobs_Globstar tests ** expansion across directory levels
func TestExpandGlobs_Globstar(t *testing.T) {
	dir := t.TempDir()
	js := filepath.Join(dir, "app", "javascripts")
	widgets := filepath.Join(js, "components", "widgets")
	require.NoError(t, os.MkdirAll(widgets, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(js, "index.js"), []byte("export {}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(widgets, "button.js"), []byte("export {}"), 0644))

	t.Run("matches top-level and deeply nested entries", func(t *testing.T) {
		got := ExpandGlobs([]string{filepath.Join(js, "**", "*")})
		assert.Contains(t, got, filepath.Join(js, "index.js"))
		assert.Contains(t, got, filepath.Join(widgets, "button.js"))
		assert.Contains(t, got, widgets)
	})

	t.Run("suffix pattern filters matches", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(widgets, "button.css"), nil, 0644))
		got := ExpandGlobs([]string{filepath.Join(js, "**", "*.js")})
		assert.Equal(t, []string{
			filepath.Join(widgets, "button.js"),
			filepath.Join(js, "index.js"),
		}, got)
	})

	t.Run("missing prefix expands to nothing", func(t *testing.T) {
		got := ExpandGlobs([]string{filepath.Join(dir, "absent", "**", "*")})
		assert.Empty(t, got)
	})
}

// TestIsDir tests directory detection
func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}
