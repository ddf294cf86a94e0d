package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a request struct against its validate tags.
// Returns a human-readable message listing the failing fields.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(parts, ", "))
}
