// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// materialNamePattern accepts lowercase words (letters with Romanian diacritics,
// digits, dashes) separated by single spaces.
var materialNamePattern = regexp.MustCompile(`^[a-z0-9ăâîșşțţ\-]+( [a-z0-9ăâîșşțţ\-]+)*$`)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the project's custom tags registered.
// It panics if a tag cannot be registered, since every catalog check depends on them.
func New() *Validator {
	v := validator.New()
	mustRegister(v, "material_name", func(fl validator.FieldLevel) bool {
		return materialNamePattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
