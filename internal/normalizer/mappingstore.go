package normalizer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const mappingFileName = ".hrdesk_import_mappings.json"

// MappingConfig is the reusable header-mapping preference persisted
// between import runs: the accepted fuzzy threshold plus reviewer-chosen
// header renames applied as exact matches on later runs.
type MappingConfig struct {
	Threshold int               `json:"threshold"`
	Mappings  map[string]string `json:"mappings"`
}

// MappingStore reads and writes the mapping preference file.
type MappingStore struct {
	path string
}

// NewMappingStore creates a store at path; an empty path selects the
// default location (repository root when one is detectable, else a
// dotfile in the user's home directory).
func NewMappingStore(path string) *MappingStore {
	if path == "" {
		path = defaultMappingPath()
	}
	return &MappingStore{path: path}
}

// Path returns the file location backing the store.
func (s *MappingStore) Path() string { return s.path }

// Load returns the persisted config. A missing or unreadable file yields
// an empty config rather than an error.
func (s *MappingStore) Load() MappingConfig {
	cfg := MappingConfig{Mappings: map[string]string{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return MappingConfig{Mappings: map[string]string{}}
	}
	if cfg.Mappings == nil {
		cfg.Mappings = map[string]string{}
	}
	return cfg
}

// Save persists the config.
func (s *MappingStore) Save(cfg MappingConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("normalizer.MappingStore.Save: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("normalizer.MappingStore.Save: %w", err)
	}
	return nil
}

// defaultMappingPath prefers the repository root (detected by .git or
// README.md walking up from the working directory), falling back to a
// dotfile in the user's home directory.
func defaultMappingPath() string {
	dir, err := os.Getwd()
	if err == nil {
		for p := dir; ; {
			if exists(filepath.Join(p, ".git")) || exists(filepath.Join(p, "README.md")) {
				return filepath.Join(p, mappingFileName)
			}
			parent := filepath.Dir(p)
			if parent == p {
				break
			}
			p = parent
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, mappingFileName)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
