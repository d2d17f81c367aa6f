package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the client.
//
// It does not implement `error`; it only describes what gets serialized.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"error"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

// StructuredError carries per-field problems, keyed by JSON field name
type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

// Empty reports whether no field problems were recorded
func (s *StructuredError) Empty() bool {
	return len(s.Errors) == 0
}

var (
	MalformedJSONError  = NewSimple(http.StatusBadRequest, "JSON malformado.")
	InternalServerError = NewSimple(http.StatusInternalServerError, "Erro interno do servidor.")
	NotFoundError       = NewSimple(http.StatusNotFound, "Não encontrado.")
	UnauthorizedError   = NewSimple(http.StatusUnauthorized, "As credenciais de autenticação não foram fornecidas.")
	InvalidTokenError   = NewSimple(http.StatusUnauthorized, "Token inválido ou expirado.")
	CredentialsError    = NewSimple(http.StatusUnauthorized, "Usuário e/ou senha incorreto(s).")
)

// FromValidationError turns validator.ValidationErrors into a 400 StructuredError.
// Returns nil when err is not a validation error.
func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "Este campo é obrigatório.")
		case "min":
			problems[field] = append(problems[field], "Valor muito curto, mínimo: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Valor muito longo, máximo: "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Valor deve ser um de: "+fe.Param())
		case "cpf":
			problems[field] = append(problems[field], "CPF inválido.")
		case "rg":
			problems[field] = append(problems[field], "RG inválido.")
		case "cnpj":
			problems[field] = append(problems[field], "CNPJ inválido.")

		default:
			problems[field] = append(problems[field], "Valor inválido.")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parâmetro '%s' inválido.", name)
}
