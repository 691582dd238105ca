// Package manifest resolves webpack's compiled-asset manifests. A
// manifest maps logical entry names to the hashed output files the
// bundler actually wrote, so server-side code can reference assets
// without knowing their digests.
//
// # Manifest format
//
// The expected file is the flat JSON map emitted by
// webpack-manifest-plugin:
//
//	{
//	  "application.js": "/packs/application-5a8f21b3.js",
//	  "application.css": "/packs/application-91cf30ab.css"
//	}
//
// Nested non-string values (such as an "entrypoints" block) are
// tolerated and skipped.
//
// # Usage
//
// Construct a handle and look up entries:
//
//	m := manifest.New("/app/public/packs/manifest.json", manifest.Options{Cache: true})
//	path, err := m.Lookup("application.js")
//
// With Cache enabled the file is parsed once and memoized for the
// handle's lifetime; without it every lookup re-reads the file, which is
// what a development setup wants while the compiler keeps rewriting it.
//
// A Repository indexes handles by site id and designates the first-added
// handle as the default:
//
//	repo := manifest.NewRepository(nil)
//	_ = repo.Add("web", "/app/public/packs/manifest-web.json", manifest.Options{})
//	m, err := repo.Get("web")
package manifest
