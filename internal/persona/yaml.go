package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadFile reads a persona catalog from a YAML file. The file holds a
// top-level `personas` list; see DefaultPersonas for the field shapes.
func LoadFile(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse persona catalog: %w", err)
	}
	if len(file.Personas) == 0 {
		return nil, fmt.Errorf("persona catalog %s contains no personas", path)
	}

	return file.Personas, nil
}
