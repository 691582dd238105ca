package version

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags "-X github.com/webpack4r/webpack4r/pkg/version.Version=...".
var (
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "unknown"
)

// Short returns the bare version number
func Short() string {
	return Version
}

// Full returns the one-line version report printed by the version command
func Full() string {
	return fmt.Sprintf("webpack4r %s (commit: %s, built: %s, %s %s/%s)",
		Version, Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
