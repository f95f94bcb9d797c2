package handlers

import (
	"reflect"
	"sync"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs to gin's validator.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// decimals are validated through their string form
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("positive_decimal", positiveDecimal)
	})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// positiveDecimal accepts a decimal strictly greater than zero with no fraction of a cent.
func positiveDecimal(fl validator.FieldLevel) bool {
	var d decimal.Decimal
	switch v := fl.Field().Interface().(type) {
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return false
		}
		d = parsed
	case decimal.Decimal:
		d = v
	default:
		return false
	}
	return d.IsPositive() && domain.IsWholeCents(d)
}
