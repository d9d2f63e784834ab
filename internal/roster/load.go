package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"rep-api/internal/logger"
)

// Load reads the whole roster file. Format follows the extension: .yaml/.yml
// or .json. A missing or unparseable file is an error for the caller to treat
// as fatal at startup; individual bad records inside a parseable file are a
// downstream concern.
func Load(path string) ([]Legislator, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster read %s: %w", path, err)
	}
	var legs []Legislator
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &legs); err != nil {
			return nil, fmt.Errorf("roster yaml %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &legs); err != nil {
			return nil, fmt.Errorf("roster json %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("roster %s: unsupported extension", path)
	}
	logger.L().Debug("roster_loaded", "path", path, "legislators", len(legs))
	return legs, nil
}
