package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestManifest_Lookup tests entry resolution
func TestManifest_Lookup(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `{
		"application.js": "/packs/application-5a8f21b3.js",
		"application.css": "/packs/application-91cf30ab.css"
	}`)

	m := New(path, Options{})

	got, err := m.Lookup("application.js")
	require.NoError(t, err)
	assert.Equal(t, "/packs/application-5a8f21b3.js", got)

	got, err = m.LookupPack("application", "css")
	require.NoError(t, err)
	assert.Equal(t, "/packs/application-91cf30ab.css", got)

	got, err = m.LookupPack("application", ".css")
	require.NoError(t, err)
	assert.Equal(t, "/packs/application-91cf30ab.css", got)
}

// TestManifest_LookupMiss tests the missing-entry failure mode
func TestManifest_LookupMiss(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `{"application.js": "/packs/a.js"}`)
	m := New(path, Options{})

	_, err := m.Lookup("admin.js")
	require.Error(t, err)

	var notFound *EntryNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "admin.js", notFound.Key)
	assert.Contains(t, err.Error(), "admin.js")
	assert.Contains(t, err.Error(), path)
}

// TestManifest_MissingFile tests the missing-file failure mode
func TestManifest_MissingFile(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "manifest.json"), Options{})

	assert.False(t, m.Exists())

	_, err := m.Lookup("application.js")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrManifestMissing)
}

// TestManifest_InvalidJSON tests the malformed-file failure mode
func TestManifest_InvalidJSON(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `not json`)
	m := New(path, Options{})

	_, err := m.Lookup("application.js")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

// TestManifest_NestedValuesSkipped tests tolerance for entrypoint blocks
func TestManifest_NestedValuesSkipped(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `{
		"application.js": "/packs/a.js",
		"entrypoints": {"application": {"js": ["/packs/a.js"]}}
	}`)
	m := New(path, Options{})

	got, err := m.Lookup("application.js")
	require.NoError(t, err)
	assert.Equal(t, "/packs/a.js", got)

	_, err = m.Lookup("entrypoints")
	assert.Error(t, err, "nested values are not entries")
}

// TestManifest_CachePolicy tests memoization versus re-reading
func TestManifest_CachePolicy(t *testing.T) {
	t.Run("cache memoizes across rewrites", func(t *testing.T) {
		dir := t.TempDir()
		path := writeManifest(t, dir, `{"application.js": "/packs/a-old.js"}`)
		m := New(path, Options{Cache: true})

		got, err := m.Lookup("application.js")
		require.NoError(t, err)
		assert.Equal(t, "/packs/a-old.js", got)

		writeManifest(t, dir, `{"application.js": "/packs/a-new.js"}`)

		got, err = m.Lookup("application.js")
		require.NoError(t, err)
		assert.Equal(t, "/packs/a-old.js", got, "memoized entries survive the rewrite")

		m.Refresh()
		got, err = m.Lookup("application.js")
		require.NoError(t, err)
		assert.Equal(t, "/packs/a-new.js", got)
	})

	t.Run("no cache re-reads every lookup", func(t *testing.T) {
		dir := t.TempDir()
		path := writeManifest(t, dir, `{"application.js": "/packs/a-old.js"}`)
		m := New(path, Options{Cache: false})

		got, err := m.Lookup("application.js")
		require.NoError(t, err)
		assert.Equal(t, "/packs/a-old.js", got)

		writeManifest(t, dir, `{"application.js": "/packs/a-new.js"}`)

		got, err = m.Lookup("application.js")
		require.NoError(t, err)
		assert.Equal(t, "/packs/a-new.js", got)
	})
}

// TestManifest_WaitUntilExists tests backoff polling for the file
func TestManifest_WaitUntilExists(t *testing.T) {
	t.Run("returns once the file appears", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "manifest.json")
		m := New(path, Options{})

		go func() {
			time.Sleep(150 * time.Millisecond)
			_ = os.WriteFile(path, []byte(`{}`), 0644)
		}()

		err := m.WaitUntilExists(context.Background(), WaitOptions{
			InitialInterval: 20 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			MaxElapsedTime:  5 * time.Second,
		})
		assert.NoError(t, err)
	})

	t.Run("gives up after the elapsed budget", func(t *testing.T) {
		m := New(filepath.Join(t.TempDir(), "manifest.json"), Options{})

		err := m.WaitUntilExists(context.Background(), WaitOptions{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
			MaxElapsedTime:  100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrManifestMissing)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		m := New(filepath.Join(t.TempDir(), "manifest.json"), Options{})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := m.WaitUntilExists(ctx, WaitOptions{
			InitialInterval: 10 * time.Millisecond,
			MaxElapsedTime:  10 * time.Second,
		})
		assert.Error(t, err)
	})
}
