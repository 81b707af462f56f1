package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/durgapur-services/marketplace-backend/internal/platform/apperror"
)

// FormatValidationErrors converts validator errors into user-facing lines.
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins FormatValidationErrors into one line.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

// BindError turns a ShouldBind* failure into a 400 AppError. Decoding
// failures get a generic message; validation failures list each field.
func BindError(err error) *apperror.AppError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.New(http.StatusBadRequest, "invalid request body", err)
	}
	return apperror.New(http.StatusBadRequest, Message(err), err)
}

func formatSingleError(e validator.FieldError) string {
	label := formatCamelCase(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, e.Param())
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", label, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", label, e.Param())
	case "category":
		return fmt.Sprintf("%s must be one of Electrician, Plumber, Mechanic, Tutor, Tailor", label)
	case "phone":
		return fmt.Sprintf("%s is not a valid phone number", label)
	case "order_status":
		return fmt.Sprintf("%s must be Paid, Accepted or Completed", label)
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// formatCamelCase converts SubCategory to "Sub Category".
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
