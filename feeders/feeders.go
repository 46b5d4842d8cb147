// Package feeders populates configuration structs from files and the
// environment.
package feeders

import "errors"

// Feeder populates the fields of a configuration struct from one source.
type Feeder interface {
	Feed(structure any) error
}

// Static errors for feeder operations.
var (
	ErrInvalidStructure = errors.New("structure must be a non-nil pointer to a struct")
	ErrUnsupportedField = errors.New("unsupported field type for env value")
)
