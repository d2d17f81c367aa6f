package validators

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the document tags registered.
// Field errors are reported under the JSON field name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	Register(v)
	return v
}

// Register binds the "cpf", "rg" and "cnpj" tags.
// Empty values pass so the tags combine with omitempty-style optional fields.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("cpf", documentRule(ValidatePersonTaxID))
	_ = v.RegisterValidation("rg", documentRule(ValidateIdentityDocument))
	_ = v.RegisterValidation("cnpj", documentRule(ValidateOrganizationTaxID))
}

func documentRule(check func(string) (string, error)) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		if val == "" {
			return true
		}
		_, err := check(val)
		return err == nil
	}
}
