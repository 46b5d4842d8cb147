package feeders

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlFeeder reads a TOML file into the structure.
type TomlFeeder struct {
	Path string
}

// NewTomlFeeder creates a TomlFeeder for the given file.
func NewTomlFeeder(path string) *TomlFeeder {
	return &TomlFeeder{Path: path}
}

// Feed reads the TOML file and populates the provided structure.
func (f *TomlFeeder) Feed(structure any) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("toml feeder: %w", err)
	}
	if err := toml.Unmarshal(data, structure); err != nil {
		return fmt.Errorf("toml feeder: parse %s: %w", f.Path, err)
	}
	return nil
}
