package config

// Default values applied at root construction. Sites start with an empty
// override map and inherit everything until explicitly set.
const (
	// RootID is the identifier of the root configuration
	RootID = ""

	// Base path defaults
	DefaultBasePath = "."

	// Bundler command defaults
	DefaultBuildCommand   = "node_modules/.bin/webpack"
	DefaultInstallCommand = "npm install"

	// Cache defaults
	DefaultCache = false
)

// DefaultWatchedPaths lists the conventional bundler config and lockfile
// names plus the javascripts source tree, relative to the base path.
var DefaultWatchedPaths = []string{
	"package.json",
	"package-lock.json",
	"yarn.lock",
	"webpack.config.js",
	"app/javascripts/**/*",
}

// cacheDirSegments is the fixed cache location under the root path
var cacheDirSegments = []string{"tmp", "cache", "webpack4r"}
