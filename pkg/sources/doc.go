// Package sources assigns files to source sets for a validated
// config.Config.
//
// A file belongs to the source set of the longest configured directory
// containing it, so a nested directory can override its parent:
//
//	"sources": {"src": "web", "src/shared": "shared"}
//
// puts src/shared/User.js in "shared" and src/App.js in "web". Two keys
// naming the same directory (for example "src/shared" and "src/shared/")
// are resolved in favor of the lexicographically smaller key.
//
// Blacklist patterns are matched against root-relative, slash separated
// paths and exclude files from every source set.
package sources
