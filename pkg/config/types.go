package config

import (
	"path/filepath"
	"sort"
	"strings"
)

// GeneratedDirName is the directory generated files are written to when a
// project does not declare an output directory. It sits next to each input
// file and everything inside it belongs to the compiler.
const GeneratedDirName = "__generated__"

// SourceSetName identifies a named group of source directories.
type SourceSetName string

// ProjectName identifies a compilable project.
type ProjectName string

// AsSourceSetName returns the source set that a project compiles. Every
// project owns the source set sharing its name.
func (p ProjectName) AsSourceSetName() SourceSetName {
	return SourceSetName(p)
}

// File is the decoded configuration document before validation.
type File struct {
	// Sources maps directory paths (relative to the root) to a source set.
	// When a path is a subdirectory of another path, the more specific path
	// wins.
	Sources map[string]SourceSetName `json:"sources" yaml:"sources"`

	// Blacklist lists glob patterns excluded from the sources even when they
	// are inside a source directory.
	Blacklist []string `json:"blacklist,omitempty" yaml:"blacklist"`

	// Projects configures the projects to compile.
	Projects map[ProjectName]Project `json:"projects" yaml:"projects"`
}

// Project is the configuration of a single project.
type Project struct {
	// Base lists source sets the project may reference without producing
	// output for them. Another project is expected to produce them.
	Base []SourceSetName `json:"base,omitempty" yaml:"base"`

	// Output is the directory for generated files. When nil, generated
	// files go into a GeneratedDirName directory next to the input file.
	Output *string `json:"output,omitempty" yaml:"output"`

	// Extensions lists directories containing schema extension files.
	Extensions []string `json:"extensions,omitempty" yaml:"extensions"`

	// Schema is the path to the project schema.
	Schema string `json:"schema" yaml:"schema"`
}

// clone returns a copy of p that shares no memory with it.
func (p Project) clone() Project {
	out := Project{
		Base:       append([]SourceSetName{}, p.Base...),
		Extensions: append([]string{}, p.Extensions...),
		Schema:     p.Schema,
	}
	if p.Output != nil {
		output := *p.Output
		out.Output = &output
	}
	return out
}

// Config is the validated compiler configuration. A *Config is only ever
// returned once every validation pass succeeded, and it must not be
// modified afterwards.
type Config struct {
	// RootDir is the root of all compiled projects. Other paths are
	// relative to it unless they are absolute.
	RootDir   string
	Sources   map[string]SourceSetName
	Blacklist []string
	Projects  map[ProjectName]Project
}

// ProjectNames returns the project names in sorted order.
func (c *Config) ProjectNames() []ProjectName {
	names := make([]ProjectName, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Project returns the configuration of the named project.
func (c *Config) Project(name ProjectName) (Project, bool) {
	p, ok := c.Projects[name]
	return p, ok
}

// SourceDirs returns the configured source directories in sorted order.
func (c *Config) SourceDirs() []string {
	return sortedKeys(c.Sources)
}

// AbsPath resolves p against the root directory. Absolute paths are
// returned cleaned but otherwise unchanged.
func (c *Config) AbsPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.RootDir, p)
}

// OutputDir returns the absolute directory that receives the files
// generated for inputFile by the named project. inputFile is relative to
// the root directory.
func (c *Config) OutputDir(name ProjectName, inputFile string) (string, bool) {
	p, ok := c.Projects[name]
	if !ok {
		return "", false
	}
	if p.Output != nil {
		return c.AbsPath(*p.Output), true
	}
	return filepath.Join(filepath.Dir(c.AbsPath(inputFile)), GeneratedDirName), true
}

// IsGeneratedPath reports whether p lies inside a GeneratedDirName
// directory.
func IsGeneratedPath(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(p)), "/") {
		if part == GeneratedDirName {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]SourceSetName) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
