package middleware

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationMiddleware wraps a shared validator instance. Handlers bind the
// request themselves (JSON or multipart form) and then call Validate for
// the struct-tag rules.
type ValidationMiddleware struct {
	validate *validator.Validate
}

func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{validate: validator.New()}
}

// Validate runs struct-tag validation and returns human-readable messages,
// one per failed field. An empty slice means the request is valid.
func (m *ValidationMiddleware) Validate(request any) []string {
	err := m.validate.Struct(request)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatValidationError(e))
	}

	return messages
}

func formatValidationError(e validator.FieldError) string {
	fieldName := strings.ToLower(e.Field()[:1]) + e.Field()[1:]

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldName)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fieldName)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fieldName, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fieldName, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", fieldName)
	}
}
