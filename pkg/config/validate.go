package config

import "os"

// validationPass checks one rule. It appends violations to errs and
// returns stop=true when no later pass can produce a meaningful result.
type validationPass func(c *Config, errs *ValidationErrors) (stop bool)

// validationPasses returns the passes to run, in order.
func validationPasses(validateFS bool) []validationPass {
	if !validateFS {
		return []validationPass{checkProjectSources}
	}
	return []validationPass{
		checkRootDir,
		checkSourceDirs,
		checkProjectSources,
	}
}

// validate runs every pass and returns all violations found.
func (c *Config) validate(validateFS bool) ValidationErrors {
	var errs ValidationErrors
	for _, pass := range validationPasses(validateFS) {
		if pass(c, &errs) {
			break
		}
	}
	return errs
}

// checkRootDir requires the root to be an existing directory. Every other
// filesystem check is relative to it, so a failure here stops validation.
func checkRootDir(c *Config, errs *ValidationErrors) bool {
	if info, err := os.Stat(c.RootDir); err == nil && info.IsDir() {
		return false
	}
	*errs = append(*errs, &ValidationError{Kind: RootNotDirectory, Path: c.RootDir})
	return true
}

// checkSourceDirs requires each source to point to an existing directory.
func checkSourceDirs(c *Config, errs *ValidationErrors) bool {
	for _, dir := range c.SourceDirs() {
		abs := c.AbsPath(dir)
		info, err := os.Stat(abs)
		switch {
		case err != nil:
			*errs = append(*errs, &ValidationError{Kind: SourceNotExistent, Path: abs})
		case !info.IsDir():
			*errs = append(*errs, &ValidationError{Kind: SourceNotDirectory, Path: abs})
		}
	}
	return false
}

// checkProjectSources requires each project to have at least one source
// directory mapped to its own source set.
func checkProjectSources(c *Config, errs *ValidationErrors) bool {
	owned := make(map[SourceSetName]bool, len(c.Sources))
	for _, set := range c.Sources {
		owned[set] = true
	}
	for _, name := range c.ProjectNames() {
		if !owned[name.AsSourceSetName()] {
			*errs = append(*errs, &ValidationError{Kind: ProjectWithoutSource, Project: name})
		}
	}
	return false
}
