package feeders

import (
	"fmt"
	"os"
	"reflect"

	"github.com/golobby/cast"
)

// EnvFeeder overlays environment variables onto struct fields carrying an
// `env` tag. Unset variables leave the field untouched, so it composes as a
// final overlay after a file feeder.
type EnvFeeder struct{}

// NewEnvFeeder creates an EnvFeeder.
func NewEnvFeeder() EnvFeeder { return EnvFeeder{} }

// Feed reads tagged environment variables and populates the structure.
func (EnvFeeder) Feed(structure any) error {
	rv := reflect.ValueOf(structure)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidStructure
	}
	return feedStruct(rv.Elem())
}

func feedStruct(rv reflect.Value) error {
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		fieldType := rv.Type().Field(i)

		if field.Kind() == reflect.Struct && fieldType.Anonymous {
			if err := feedStruct(field); err != nil {
				return err
			}
			continue
		}
		tag, ok := fieldType.Tag.Lookup("env")
		if !ok || tag == "" || !field.CanSet() {
			continue
		}
		value, ok := os.LookupEnv(tag)
		if !ok {
			continue
		}
		converted, err := cast.FromType(value, field.Type())
		if err != nil {
			return fmt.Errorf("env feeder: field %s from %s: %w", fieldType.Name, tag, err)
		}
		cv := reflect.ValueOf(converted)
		if !cv.Type().AssignableTo(field.Type()) {
			if !cv.Type().ConvertibleTo(field.Type()) {
				return fmt.Errorf("env feeder: field %s from %s: %w", fieldType.Name, tag, ErrUnsupportedField)
			}
			cv = cv.Convert(field.Type())
		}
		field.Set(cv)
	}
	return nil
}
