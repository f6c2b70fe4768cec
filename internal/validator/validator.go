// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hearth/internal/category"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_id", validateCategoryID)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

// validateCategoryID accepts canonical registry ids and the unresolved
// sentinel; the resolver handles everything else.
func validateCategoryID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if id == "" || id == category.Unresolved {
		return true
	}
	_, ok := category.Lookup(id)
	return ok
}
