package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a master dataset from a JSON or YAML file, validates it and
// returns it indexed.
func Load(path string) (*Master, error) {
	raw, err := ReadRaw(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(&raw); err != nil {
		return nil, err
	}

	return New(raw), nil
}

// ReadRaw decodes a master dataset without validating it. The format is
// chosen by extension: .yaml and .yml are YAML, anything else JSON.
func ReadRaw(path string) (Master, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Master{}, fmt.Errorf("read master data: %w", err)
	}

	var raw Master
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return Master{}, fmt.Errorf("parse master data %s: %w", path, err)
	}
	return raw, nil
}
