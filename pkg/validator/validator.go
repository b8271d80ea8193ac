package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	AlphaNumberSpaceRegex = regexp.MustCompile("^[a-zA-Z0-9 ]+$")
	// ScanCodeRegex matches barcodes and MEI codes as printed on labels.
	ScanCodeRegex = regexp.MustCompile("^[a-zA-Z0-9-]*$")
)

type Validator interface {
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator returns a validator with the POS tags registered:
// alphanumspace, scancode and enum. Field errors are reported under the
// field's JSON name when it has one.
func NewDefaultValidator() (*DefaultValidator, error) {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	custom := map[string]validator.Func{
		"alphanumspace": validateAlphanumspace,
		"scancode":      validateScanCode,
		"enum":          validateEnum,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %s validator: %w", tag, err)
		}
	}

	return &DefaultValidator{v: v}, nil
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}

func IsValidationError(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

// ValidationErrorMessage turns a failed tag into a message fit for a cashier's screen.
func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "nefield":
		return fmt.Sprintf("must differ from %s", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "alphanumspace":
		return "must contain only alphanumeric characters and spaces"
	case "scancode":
		return "must contain only letters, digits and dashes"
	case "enum":
		return fmt.Sprintf("invalid enum value: %v", fe.Value())
	default:
		return "is invalid"
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

func validateAlphanumspace(fl validator.FieldLevel) bool {
	return AlphaNumberSpaceRegex.MatchString(fl.Field().String())
}

func validateScanCode(fl validator.FieldLevel) bool {
	return ScanCodeRegex.MatchString(fl.Field().String())
}

// validateEnum accepts any type with a Validate method, e.g. model.PaymentMethod.
func validateEnum(fl validator.FieldLevel) bool {
	type enum interface {
		Validate() error
	}

	value, ok := fl.Field().Interface().(enum)
	if !ok {
		return false
	}
	return value.Validate() == nil
}
