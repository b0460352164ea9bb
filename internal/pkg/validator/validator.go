package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/maps-proxy/internal/pkg/utils"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// "lat,lng" pair within coordinate ranges
	_ = validate.RegisterValidation("latlng", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseLocation(fl.Field().String())
		return err == nil
	})
}

// Validate - validate a struct against its `validate` tags
func Validate(s interface{}) error {
	return validate.Struct(s)
}

