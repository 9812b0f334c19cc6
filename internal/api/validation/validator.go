package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/osa911/contactrelay/internal/api/dto/v1/contact"
)

var (
	ErrInvalidBody = errors.New("invalid request body")
	ErrValidation  = errors.New("validation failed")
)

// Validator decodes and checks contact submissions
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reads gin-style `binding` tags
func New() *Validator {
	v := validator.New()
	v.SetTagName("binding")
	return &Validator{validate: v}
}

// DecodeContact parses body as a single JSON object and checks required fields.
// Unknown fields are ignored. Errors wrap ErrInvalidBody or ErrValidation.
func (v *Validator) DecodeContact(body []byte) (*contact.ContactRequest, error) {
	var req contact.ContactRequest

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidBody)
	}

	if err := v.validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, FormatValidationError(err))
	}
	return &req, nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s:%s", e.Field, e.Tag)
}

// FormatValidationError flattens validator errors into field/tag pairs
func FormatValidationError(err error) []ValidationError {
	var result []ValidationError
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			result = append(result, ValidationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}
	}
	return result
}
