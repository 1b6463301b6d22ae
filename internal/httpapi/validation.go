package httpapi

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"meal-planner/internal/shopping"
)

// AddItemRequest is the body of a custom-item creation.
type AddItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Quantity string `json:"quantity" validate:"max=50"`
	Unit     string `json:"unit" validate:"max=30"`
	Category string `json:"category" validate:"omitempty,category"`
}

// ToggleItemRequest is the body of a check/uncheck.
type ToggleItemRequest struct {
	Checked *bool `json:"checked" validate:"required"`
}

// NewValidator returns a validator that also knows the "category" tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := shopping.ParseCategory(fl.Field().String())
		return err == nil
	})
	return v
}

// validationError flattens validator errors into one readable error.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
