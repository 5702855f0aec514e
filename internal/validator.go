package internal

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phoneNumberRe = regexp.MustCompile(`^\+?[0-9][0-9 .-]{4,20}$`)

func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return phoneNumberRe.MatchString(value)
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
