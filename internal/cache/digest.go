package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/webpack4r/webpack4r/internal/utils"
)

// WatchedDigest computes a SHA256 digest over the contents of the given
// watched paths, globs expanded. Directories and missing entries are
// skipped, so a digest stays comparable while a source tree grows. The
// expanded list is sorted, making the digest order-independent.
func WatchedDigest(paths []string) (string, error) {
	h := sha256.New()

	for _, p := range utils.ExpandGlobs(paths) {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}

		f, err := os.Open(p)
		if err != nil {
			continue
		}
		h.Write([]byte(p))
		if _, err := io.Copy(h, f); err != nil {
			f.Close()
			return "", err
		}
		f.Close()
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
