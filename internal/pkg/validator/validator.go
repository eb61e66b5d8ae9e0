package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate returns a field->tag map of violations, nil when the struct
// is valid. Field names are lowercased to match the JSON surface.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		out[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return out
}
