// Package seed loads the initial leaderboard dataset.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/runboard/internal/domain/types"
)

// ErrInvalidSeed marks a seed dataset that cannot be used.
var ErrInvalidSeed = errors.New("invalid seed dataset")

//go:embed seed.yaml
var defaultSeed []byte

// Default returns the bundled seed dataset.
func Default() ([]types.Entry, error) {
	return Parse(defaultSeed)
}

// Load reads a seed dataset from a YAML file. An empty path selects the
// bundled dataset.
func Load(path string) ([]types.Entry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of entries and checks that each one has a name.
func Parse(data []byte) ([]types.Entry, error) {
	var entries []types.Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	for i := range entries {
		entries[i].ID = 0
		if strings.TrimSpace(entries[i].Name) == "" {
			return nil, fmt.Errorf("%w: record %d has no name", ErrInvalidSeed, i)
		}
		if entries[i].Link != nil && *entries[i].Link == "" {
			entries[i].Link = nil
		}
	}
	return entries, nil
}
