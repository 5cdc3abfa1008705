package dto

import (
	"github.com/exchangehouse/exchange_house_app/internal/utils/currencies"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RatePairPath binds the {base}/{quote} path segments of the rate endpoints.
type RatePairPath struct {
	Base  string `uri:"base" binding:"required,currencycode"`
	Quote string `uri:"quote" binding:"required,currencycode"`
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return currencies.IsValid(fl.Field().String())
		})
	}
}
