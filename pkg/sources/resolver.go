package sources

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/graftql/graft/pkg/config"
)

// Resolver maps root-relative file paths to the source set that owns them
// and applies the blacklist.
type Resolver struct {
	// dirs is sorted so that the most specific directory comes first.
	dirs      []sourceDir
	blacklist []compiledPattern
}

type sourceDir struct {
	key  string // as written in the config
	path string // cleaned, slash separated
	set  config.SourceSetName
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// NewResolver builds a resolver for cfg. Blacklist patterns use '/' as the
// separator: '*' matches within one path segment and '**' across segments.
func NewResolver(cfg *config.Config) (*Resolver, error) {
	r := &Resolver{}

	for key, set := range cfg.Sources {
		rel := key
		if filepath.IsAbs(key) {
			var err error
			if rel, err = filepath.Rel(cfg.RootDir, key); err != nil {
				return nil, fmt.Errorf("source %s is not below root %s: %w", key, cfg.RootDir, err)
			}
		}
		r.dirs = append(r.dirs, sourceDir{key: key, path: slashClean(rel), set: set})
	}
	sort.Slice(r.dirs, func(i, j int) bool {
		a, b := r.dirs[i], r.dirs[j]
		if da, db := depth(a.path), depth(b.path); da != db {
			return da > db
		}
		if a.path != b.path {
			return a.path < b.path
		}
		// Same directory written two ways: the smaller key wins.
		return a.key < b.key
	})

	for _, p := range cfg.Blacklist {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid blacklist pattern %q: %w", p, err)
		}
		r.blacklist = append(r.blacklist, compiledPattern{pattern: p, glob: g})
	}

	return r, nil
}

// Resolve returns the source set owning relPath. The longest configured
// directory containing relPath wins.
func (r *Resolver) Resolve(relPath string) (config.SourceSetName, bool) {
	p := slashClean(relPath)
	for _, d := range r.dirs {
		if containsPath(d.path, p) {
			return d.set, true
		}
	}
	return "", false
}

// Blacklisted reports whether relPath matches a blacklist pattern.
func (r *Resolver) Blacklisted(relPath string) bool {
	_, ok := r.MatchBlacklist(relPath)
	return ok
}

// MatchBlacklist returns the first blacklist pattern matching relPath.
func (r *Resolver) MatchBlacklist(relPath string) (string, bool) {
	p := slashClean(relPath)
	for _, b := range r.blacklist {
		if b.glob.Match(p) {
			return b.pattern, true
		}
	}
	return "", false
}

// slashClean normalizes a path for prefix comparisons.
func slashClean(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

func depth(p string) int {
	if p == "." {
		return 0
	}
	return strings.Count(p, "/") + 1
}

// containsPath reports whether p is dir or lies below it, comparing whole
// path segments.
func containsPath(dir, p string) bool {
	if dir == "." {
		return !strings.HasPrefix(p, "../") && p != ".." && !path.IsAbs(p)
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}
