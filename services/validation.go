package services

import (
	"srv_contratos/apierror"
	"srv_contratos/validators"
)

var validate = validators.New()

// validateStruct runs the struct tags and returns FieldErrors keyed by JSON name
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if se := apierror.FromValidationError(err); se != nil {
		return FieldErrors(se.Errors)
	}
	return err
}
