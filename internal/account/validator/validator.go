package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	err := validate.RegisterValidation("account_role", validateAccountRole)
	if err != nil {
		return
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateAccountRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	validRoles := []string{"state", "county", "tract", "coordinator"}

	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}
