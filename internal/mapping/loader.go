package mapping

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML mapping definition from the given path.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition

	err := yaml.Unmarshal(data, &def)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&def)

	return &def, nil
}

// applyDefaults assigns ids to mappings that do not declare one.
// Children of a collection are numbered below their parent: "orders.2".
func applyDefaults(def *Definition) {
	for i, m := range def.Mappings {
		if m == nil {
			continue
		}

		if m.ID == "" {
			m.ID = "mapping-" + strconv.Itoa(i+1)
		}

		for j, child := range m.Mappings {
			if child != nil && child.ID == "" {
				child.ID = m.ID + "." + strconv.Itoa(j+1)
			}
		}
	}
}

// Marshal serializes a Definition to YAML.
func Marshal(def *Definition) ([]byte, error) {
	return yaml.Marshal(def)
}

// WriteFile writes a Definition to the given path.
func WriteFile(def *Definition, path string) error {
	data, err := Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
