package conf

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
)

func init() {
	config, err := DefaultSource().Read()
	if err != nil {
		dto, parseErr := parseConfigDTO(defaultConfig)
		if parseErr != nil {
			panic(fmt.Sprintf("failed to parse embedded defaults: %v", parseErr))
		}
		config.Update(dto)
	}
	Configuration = config
}

// defaultConfig contains the embedded default configuration file.
// It is the base layer every other file is applied on top of.
//
//go:embed default.toml
var defaultConfig string

// Configuration is the global immutable state.
var Configuration Config

// Config represents the immutable public configuration object.
type Config struct {
	TypoTolerance bool
	LogLevel      log.Level
	Overwrite     bool
	ExportIgnore  []string
}

// Update applies non-nil values from a configDTO. Unknown log levels are
// ignored.
func (c *Config) Update(dto configDTO) {
	if dto.TypoTolerance != nil {
		c.TypoTolerance = *dto.TypoTolerance
	}
	if dto.LogLevel != nil {
		if level, err := log.ParseLevel(strings.ToLower(*dto.LogLevel)); err == nil {
			c.LogLevel = level
		}
	}
	if dto.Overwrite != nil {
		c.Overwrite = *dto.Overwrite
	}
	if dto.ExportIgnore != nil {
		c.ExportIgnore = *dto.ExportIgnore
	}
}

// ConfigSource orchestrates loading configuration from multiple sources.
// See the Read method.
type ConfigSource struct {
	Path      string
	DropInDir string
}

// DefaultSource returns the per-user configuration location,
// $XDG_CONFIG_HOME/ltxdiff or ~/.config/ltxdiff.
func DefaultSource() *ConfigSource {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return Source(filepath.Join(dir, "ltxdiff", "config.toml"))
}

// Source returns the configuration rooted at path, with drop-in files read
// from path + ".d".
func Source(path string) *ConfigSource {
	return &ConfigSource{Path: path, DropInDir: path + ".d"}
}

// Read loads and returns the complete Config by merging all layers:
// 1. Embedded defaults
// 2. Main configuration file
// 3. Drop-in files
func (cs *ConfigSource) Read() (Config, error) {
	resolved := Config{}

	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		return resolved, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	resolved.Update(dto)

	path, err := homedir.Expand(cs.Path)
	if err != nil {
		return resolved, fmt.Errorf("failed to expand %s: %w", cs.Path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			// Existing but unreadable file should result in failure (let's not
			// hide problems from the users).
			return resolved, fmt.Errorf("failed to load %s: %w", path, err)
		}
		log.Tracef("no configuration file at %s", path)
	} else {
		mainDTO, err := parseConfigDTO(string(data))
		if err != nil {
			return resolved, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		resolved.Update(mainDTO)
	}

	dropInDTOs, err := cs.parseDropInFiles()
	if err != nil {
		return resolved, err
	}
	for _, dropInDTO := range dropInDTOs {
		resolved.Update(dropInDTO)
	}

	return resolved, nil
}

type configDTO struct {
	TypoTolerance *bool     `toml:"typo-tolerance"`
	LogLevel      *string   `toml:"log-level"`
	Overwrite     *bool     `toml:"overwrite"`
	ExportIgnore  *[]string `toml:"export-ignore"`
}

// parseConfigDTO parses a TOML string into a configDTO.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	if err := toml.Unmarshal([]byte(data), &dto); err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return dto, nil
}

// findDropInFiles finds and returns sorted paths to drop-in configuration files.
// Returns nil if the drop-in directory doesn't exist (not an error).
func (cs *ConfigSource) findDropInFiles() ([]string, error) {
	dir, err := homedir.Expand(cs.DropInDir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s: %w", cs.DropInDir, err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop-in directory %s: %w", dir, err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".toml") {
			filenames = append(filenames, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(filenames)

	return filenames, nil
}

// parseDropInFiles loads .toml files.
func (cs *ConfigSource) parseDropInFiles() ([]configDTO, error) {
	paths, err := cs.findDropInFiles()
	if err != nil {
		return nil, err
	}

	var dtos []configDTO
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		dto, err := parseConfigDTO(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		log.Debugf("applying drop-in %s", path)

		dtos = append(dtos, dto)
	}

	return dtos, nil
}
