// Package validator registers custom validation functions with Gin's
// binding engine.
package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register wires all custom validators into the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("txn_kind", validateTransactionKind)
		_ = v.RegisterValidation("calendar_date", validateCalendarDate)
		_ = v.RegisterValidation("month_date", validateMonthDate)
	}
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

// validateCalendarDate accepts YYYY-MM-DD calendar dates.
func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// validateMonthDate accepts YYYY-MM-DD dates falling on the first of a month.
func validateMonthDate(fl validator.FieldLevel) bool {
	t, err := time.Parse("2006-01-02", fl.Field().String())
	if err != nil {
		return false
	}
	return t.Day() == 1
}
