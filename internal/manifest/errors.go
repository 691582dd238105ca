package manifest

import (
	"errors"
	"fmt"
)

// Sentinel errors for the manifest package
var (
	// ErrManifestMissing indicates the manifest file does not exist yet
	ErrManifestMissing = errors.New("manifest file not found")

	// ErrInvalidManifest indicates the manifest file is not valid JSON
	ErrInvalidManifest = errors.New("manifest must be valid JSON")
)

// EntryNotFoundError reports a logical entry missing from a loaded
// manifest.
type EntryNotFoundError struct {
	Key  string
	Path string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("entry %q not found in manifest %s", e.Key, e.Path)
}

// LookupError reports a repository lookup miss. The message carries the
// offending key for diagnosability.
type LookupError struct {
	Key string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("manifest associated with %q not found", e.Key)
}
