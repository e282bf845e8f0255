// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("direction", validateDirection)
		_ = v.RegisterValidation("subsidiary_kind", validateSubsidiaryKind)
		_ = v.RegisterValidation("line_filter", validateLineFilter)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "DEPOSIT", "WITHDRAWAL", "TRANSFER", "PAYMENT", "CHARGE",
		"PAYMENT_RECEIVED", "EXPENSE", "INCOME", "ADJUSTMENT":
		return true
	}
	return false
}

func validateDirection(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "DEBIT", "CREDIT":
		return true
	}
	return false
}

func validateSubsidiaryKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BANK", "CREDIT_CARD", "LOAN":
		return true
	}
	return false
}

func validateLineFilter(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ALL", "DEBIT_ONLY", "CREDIT_ONLY", "FIRST_LINE":
		return true
	}
	return false
}
