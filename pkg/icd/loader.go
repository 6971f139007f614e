package icd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type codeEntry struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

// Load builds a mapper whose code description table comes from an
// external JSON or YAML file, a list of {code, description} entries.
// The built-in descriptions fill in codes the file omits.
func Load(path string) (*Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read code file: %w", err)
	}

	var entries []codeEntry

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &entries)
	default:
		err = yaml.Unmarshal(data, &entries)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse code file %s: %w", path, err)
	}

	descriptions := builtinDescriptions()

	for _, entry := range entries {
		if entry.Code == "" {
			return nil, fmt.Errorf("invalid code file %s: entry with empty code", path)
		}

		descriptions[entry.Code] = entry.Description
	}

	return newMapper(descriptions), nil
}
