package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestConfigCommand tests resolved-tree printing
func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixture(t, dir, "webpack4r.yml", `
root_path: `+dir+`
sites:
  web:
    manifest: public/manifest-web.json
`)

	out, err := execute(t, "--config", cfg, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "root_path: "+dir)
	assert.Contains(t, out, "id: web")
}

// TestManifestCommand tests entry resolution through the CLI
func TestManifestCommand(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "manifest-web.json", `{"application.js": "/packs/application-5a8f21b3.js"}`)
	cfg := writeFixture(t, dir, "webpack4r.yml", `
root_path: `+dir+`
sites:
  web:
    manifest: `+filepath.Join(dir, "manifest-web.json")+`
`)

	t.Run("default manifest", func(t *testing.T) {
		out, err := execute(t, "--config", cfg, "manifest", "application.js")
		require.NoError(t, err)
		assert.Contains(t, out, "/packs/application-5a8f21b3.js")
	})

	t.Run("explicit site", func(t *testing.T) {
		out, err := execute(t, "--config", cfg, "manifest", "application.js", "--site", "web")
		require.NoError(t, err)
		assert.Contains(t, out, "/packs/application-5a8f21b3.js")
	})

	t.Run("unknown site fails with the key in the message", func(t *testing.T) {
		_, err := execute(t, "--config", cfg, "manifest", "application.js", "--site", "blog")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blog")
	})

	t.Run("unknown entry fails with the key in the message", func(t *testing.T) {
		_, err := execute(t, "--config", cfg, "manifest", "missing.js", "--site", "web")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.js")
	})
}

// TestVersionCommand tests version output
func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "webpack4r")
}
