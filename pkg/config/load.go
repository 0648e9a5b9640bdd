package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// VirtualRoot is the root directory used by LoadString. It is never
// touched on disk.
const VirtualRoot = "/virtual/root"

// Load builds a Config from a decoded document and validates it. When
// validateFS is false no filesystem access happens and only the
// project/source consistency rule runs.
//
// Either a *Config or the complete list of violations is returned, never
// both.
func Load(rootDir string, file *File, validateFS bool) (*Config, ValidationErrors) {
	cfg := &Config{
		RootDir:   rootDir,
		Sources:   maps.Clone(file.Sources),
		Blacklist: append([]string{}, file.Blacklist...),
		Projects:  make(map[ProjectName]Project, len(file.Projects)),
	}
	for name, p := range file.Projects {
		cfg.Projects[name] = p.clone()
	}

	if errs := cfg.validate(validateFS); len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// LoadBytes decodes data and loads it against rootDir. configPath names the
// document in errors and selects its format.
func LoadBytes(rootDir, configPath string, data []byte, validateFS bool) (*Config, error) {
	file, err := Decode(configPath, data)
	if err != nil {
		log.Debug().Err(err).Str("config", configPath).Msg("config decode failed")
		return nil, newParseError(configPath, err)
	}

	cfg, errs := Load(rootDir, file, validateFS)
	if len(errs) > 0 {
		log.Debug().
			Str("config", configPath).
			Int("violations", len(errs)).
			Msg("config validation failed")
		return nil, newValidationError(configPath, errs)
	}

	log.Debug().
		Str("config", configPath).
		Str("root", rootDir).
		Int("sources", len(cfg.Sources)).
		Int("projects", len(cfg.Projects)).
		Msg("config loaded")
	return cfg, nil
}

// LoadFile reads, decodes and validates the configuration file at
// configPath. rootDir is made absolute and checked on disk together with
// every source directory.
func LoadFile(rootDir, configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, newReadError(configPath, err)
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, newReadError(configPath, fmt.Errorf("failed to resolve root %s: %w", rootDir, err))
	}

	return LoadBytes(absRoot, configPath, data, true)
}

// LoadString loads an inline JSON document against VirtualRoot without
// filesystem validation. It is meant for tests of packages that consume a
// Config.
func LoadString(doc string) (*Config, error) {
	return LoadBytes(VirtualRoot, "inline.json", []byte(doc), false)
}
