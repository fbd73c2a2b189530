package custom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// File is the on-disk shape of a custom parser settings file, in YAML or
// TOML:
//
//	parsers:
//	  - id: lint
//	    error:
//	      pattern: '^ERR: ([^:]+):(\d+): (.+)$'
//	      channel: stderr
//	      example: 'ERR: src/main.c:3: bad things'
type File struct {
	Parsers []Settings `json:"parsers" yaml:"parsers" toml:"parsers"`
}

// Load reads parser definitions from a YAML or TOML file, chosen by
// extension, and validates every expression against its example.
func Load(path string) ([]Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported settings format %q", filepath.Ext(path))
	}

	for i := range f.Parsers {
		s := &f.Parsers[i]
		if s.ID == "" {
			return nil, fmt.Errorf("parser %d: missing id", i)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("parser %q: %w", s.ID, err)
		}
	}
	return f.Parsers, nil
}
