package sources

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/graftql/graft/pkg/config"
)

// File is a discovered source file.
type File struct {
	// Path is relative to the config root, slash separated.
	Path string `json:"path"`

	// SourceSet is the source set owning the file.
	SourceSet config.SourceSetName `json:"source_set"`
}

// DiscoverOptions controls Discover.
type DiscoverOptions struct {
	// Extensions limits discovery to files with one of these extensions
	// (for example ".js", ".graphql"). Empty means every file.
	Extensions []string
}

// Discover walks every source directory of cfg and returns the files that
// are not blacklisted, sorted by path. Files below a nested source
// directory belong to the nested source set. Generated directories are
// skipped.
func Discover(ctx context.Context, cfg *config.Config, opts DiscoverOptions) ([]File, error) {
	r, err := NewResolver(cfg)
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[strings.ToLower(e)] = true
	}

	seen := make(map[string]bool)
	var files []File

	for _, dir := range cfg.SourceDirs() {
		walkErr := filepath.WalkDir(cfg.AbsPath(dir), func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			rel, err := filepath.Rel(cfg.RootDir, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if d.Name() == config.GeneratedDirName {
					return filepath.SkipDir
				}
				return nil
			}

			if seen[rel] {
				return nil
			}
			seen[rel] = true

			if len(exts) > 0 && !exts[strings.ToLower(filepath.Ext(rel))] {
				return nil
			}
			if pattern, ok := r.MatchBlacklist(rel); ok {
				log.Trace().Str("file", rel).Str("pattern", pattern).Msg("blacklisted")
				return nil
			}

			set, ok := r.Resolve(rel)
			if !ok {
				return nil
			}
			files = append(files, File{Path: rel, SourceSet: set})
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to walk source directory %s: %w", dir, walkErr)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	log.Debug().Int("files", len(files)).Int("source_dirs", len(cfg.Sources)).Msg("sources discovered")
	return files, nil
}

// GroupBySourceSet groups files by their source set, preserving order.
func GroupBySourceSet(files []File) map[config.SourceSetName][]File {
	groups := make(map[config.SourceSetName][]File)
	for _, f := range files {
		groups[f.SourceSet] = append(groups[f.SourceSet], f)
	}
	return groups
}
