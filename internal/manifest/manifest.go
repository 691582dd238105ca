package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Options controls how a manifest handle reads its backing file
type Options struct {
	// Cache memoizes the parsed manifest for the handle's lifetime.
	// Without it every lookup re-reads the file.
	Cache bool
}

// Manifest is a handle on one compiled-asset manifest file
type Manifest struct {
	path  string
	cache bool

	mu      sync.Mutex
	entries map[string]string
	loaded  bool
}

// New creates a manifest handle for the given file path. The file is not
// read until the first lookup.
func New(path string, opts Options) *Manifest {
	return &Manifest{
		path:  path,
		cache: opts.Cache,
	}
}

// Path returns the backing file location
func (m *Manifest) Path() string {
	return m.path
}

// Exists reports whether the backing file is present
func (m *Manifest) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Lookup returns the hashed output path for a logical entry key
func (m *Manifest) Lookup(key string) (string, error) {
	entries, err := m.load()
	if err != nil {
		return "", err
	}
	v, ok := entries[key]
	if !ok {
		return "", &EntryNotFoundError{Key: key, Path: m.path}
	}
	return v, nil
}

// LookupPack looks up a logical entry by name and extension, e.g.
// ("application", "js") resolves "application.js".
func (m *Manifest) LookupPack(name, ext string) (string, error) {
	return m.Lookup(name + "." + strings.TrimPrefix(ext, "."))
}

// Refresh drops the memoized entries so the next lookup re-reads the file
func (m *Manifest) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.loaded = false
}

func (m *Manifest) load() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cache && m.loaded {
		return m.entries, nil
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, m.path)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", m.path, err)
	}

	entries, err := parseEntries(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, m.path, err)
	}

	if m.cache {
		m.entries = entries
		m.loaded = true
	}
	return entries, nil
}

// parseEntries keeps the flat string entries of the manifest and skips
// nested values such as webpack's "entrypoints" block.
func parseEntries(data []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			entries[k] = s
		}
	}
	return entries, nil
}

// WaitOptions controls how long WaitUntilExists polls for the manifest
type WaitOptions struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultWaitOptions returns the polling defaults used while a compile is
// expected to finish shortly.
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  30 * time.Second,
	}
}

// WaitUntilExists polls with exponential backoff until the backing file
// appears, the options elapse, or the context is cancelled.
func (m *Manifest) WaitUntilExists(ctx context.Context, opts WaitOptions) error {
	defaults := DefaultWaitOptions()
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = defaults.InitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = defaults.MaxInterval
	}
	if opts.MaxElapsedTime <= 0 {
		opts.MaxElapsedTime = defaults.MaxElapsedTime
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialInterval
	b.MaxInterval = opts.MaxInterval
	b.MaxElapsedTime = opts.MaxElapsedTime
	b.Reset()

	return backoff.Retry(func() error {
		if m.Exists() {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrManifestMissing, m.path)
	}, backoff.WithContext(b, ctx))
}
