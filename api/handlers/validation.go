package handlers

import (
	"example.com/fieldtrack/agent/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// init registers the custom binding validations with gin's validator engine.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// quantity accepts an optional integer/decimal entry, including
		// the empty string while a draft is being edited
		v.RegisterValidation("quantity", func(fl validator.FieldLevel) bool {
			return models.ValidQuantityInput(fl.Field().String())
		})
	}
}
