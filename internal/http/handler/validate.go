package handler

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var shortCodePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Short codes share the alphabet of generated codes plus dash/underscore.
	_ = v.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
		return shortCodePattern.MatchString(fl.Field().String())
	})
	return v
}

// validationMessage flattens validator errors into a single human-readable
// string for the error response body.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request body"
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "max":
			parts = append(parts, fe.Field()+" is too long (max "+fe.Param()+")")
		case "min":
			parts = append(parts, fe.Field()+" is too short (min "+fe.Param()+")")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
