package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/caarlos0/env/v11"
)

// validatable is implemented by sections with constraints env tags cannot express.
type validatable interface {
	Validate() error
}

// New parses T from the environment. Each binary declares its own T composed of
// the sections in this package; every section with a Validate method is checked.
func New[T any]() (T, error) {
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := validateSections(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func validateSections(cfg any) error {
	var errs []error
	if v, ok := cfg.(validatable); ok {
		errs = append(errs, v.Validate())
	}

	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Struct {
		return errors.Join(errs...)
	}
	for i := range rv.NumField() {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		if v, ok := rv.Field(i).Interface().(validatable); ok {
			errs = append(errs, v.Validate())
		}
	}
	return errors.Join(errs...)
}
