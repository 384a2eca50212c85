package resource

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed validation rule of a request body.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
	Value any    `json:"value"`
}

// newValidator returns a validator reporting fields by their json name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	return v
}

// validate returns the failed rules of data, nil when data is valid.
func validate(v *validator.Validate, data any) ([]FieldError, error) {
	err := v.Struct(data)
	if err == nil {
		return nil, nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, err
	}

	fieldErrors := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field: e.Field(),
			Tag:   e.Tag(),
			Param: e.Param(),
			Value: e.Value(),
		})
	}

	return fieldErrors, nil
}
