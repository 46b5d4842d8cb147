package feeders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YamlFeeder reads a YAML file into the structure.
type YamlFeeder struct {
	Path string
}

// NewYamlFeeder creates a YamlFeeder for the given file.
func NewYamlFeeder(path string) *YamlFeeder {
	return &YamlFeeder{Path: path}
}

// Feed reads the YAML file and populates the provided structure.
func (f *YamlFeeder) Feed(structure any) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("yaml feeder: %w", err)
	}
	if err := yaml.Unmarshal(data, structure); err != nil {
		return fmt.Errorf("yaml feeder: parse %s: %w", f.Path, err)
	}
	return nil
}
