package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vacameet/vaca-meet-api/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs struct-tag validation and turns failures into a
// Validation error naming the offending fields.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("validation failed", err)
	}
	var required, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			required = append(required, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	switch {
	case len(required) > 0:
		return apperr.Validation(joinFields(required) + " required")
	default:
		return apperr.Validation("invalid " + strings.Join(invalid, ", "))
	}
}

func joinFields(fields []string) string {
	if len(fields) == 1 {
		return fields[0] + " is"
	}
	return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1] + " are"
}
