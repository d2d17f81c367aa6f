package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"srv_contratos/apierror"
	"srv_contratos/services"
	"srv_contratos/services/docconv"
	"srv_contratos/services/postal"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", services.NotFoundError{Resource: "draft"}, http.StatusNotFound, apierror.NotFoundError.Message},
		{"wrapped not found", errors.Wrap(services.ErrNotFound, "loading"), http.StatusNotFound, apierror.NotFoundError.Message},
		{"unauthorized", errors.Wrap(services.ErrUnauthorized, "expired"), http.StatusUnauthorized, apierror.InvalidTokenError.Message},
		{"invalid value", errors.Wrap(services.ErrInvalidValue, "bad sheet"), http.StatusBadRequest, "Valor inválido."},
		{"bad cep", postal.ErrInvalidCode, http.StatusBadRequest, "CEP deve conter 8 dígitos."},
		{"unknown cep", postal.ErrNotFound, http.StatusNotFound, "CEP não encontrado."},
		{"postal down", errors.Wrap(postal.ErrUnavailable, "dial tcp"), http.StatusBadGateway, "Erro ao consultar ViaCEP."},
		{"unsupported file", docconv.ErrUnsupportedFormat, http.StatusBadRequest, "Formato de arquivo não suportado."},
		{"corrupt file", errors.Wrap(docconv.ErrParse, "zip: not a valid zip file"), http.StatusBadRequest, "Não foi possível ler o arquivo."},
		{"empty html", docconv.ErrEmptyHTML, http.StatusBadRequest, "Nenhum conteúdo HTML fornecido."},
		{"conversion", errors.Wrap(docconv.ErrConversion, "exit status 1: pandoc: boom"), http.StatusInternalServerError, "Falha ao converter o documento."},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unexpected", errors.New("disk I/O error"), http.StatusInternalServerError, apierror.InternalServerError.Message},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			apiErr, ok := body.(*apierror.APIError)
			if assert.True(t, ok) {
				assert.Equal(t, tt.message, apiErr.Message)
			}
		})
	}
}

func TestErrorResponseFieldErrors(t *testing.T) {
	err := services.FieldErrors{"cpf": {"CPF inválido."}}
	status, body := errorResponse(errors.Wrap(err, "create entity"))

	assert.Equal(t, http.StatusBadRequest, status)
	se, ok := body.(*apierror.StructuredError)
	if assert.True(t, ok) {
		assert.Equal(t, []string{"CPF inválido."}, se.Errors["cpf"])
	}
}

func TestErrorHandlerWritesJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/rascunhos/x/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(services.NotFoundError{Resource: "draft"}, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Não encontrado."}`, rec.Body.String())
}

func TestErrorHandlerHead(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/api/rascunhos/x/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(services.ErrNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
