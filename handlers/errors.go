package handlers

import (
	"net/http"

	"srv_contratos/apierror"
	"srv_contratos/services"
	"srv_contratos/services/docconv"
	"srv_contratos/services/postal"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
)

// ErrorHandler renders service errors as JSON responses
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("[HTTP] %s %s: %+v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Errorf("[HTTP] Failed to write error response: %v", err)
	}
}

// gatewayErrors carry a message that is safe to show to the client
var gatewayErrors = []struct {
	err    error
	status int
}{
	{postal.ErrInvalidCode, http.StatusBadRequest},
	{postal.ErrNotFound, http.StatusNotFound},
	{postal.ErrUnavailable, http.StatusBadGateway},
	{docconv.ErrUnsupportedFormat, http.StatusBadRequest},
	{docconv.ErrParse, http.StatusBadRequest},
	{docconv.ErrEmptyHTML, http.StatusBadRequest},
	{docconv.ErrConversion, http.StatusInternalServerError},
}

func errorResponse(err error) (int, interface{}) {
	var fieldErrs services.FieldErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, &apierror.StructuredError{Errors: fieldErrs, Status: http.StatusBadRequest}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, apierror.NewSimple(he.Code, msg)
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, apierror.NotFoundError
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, apierror.InvalidTokenError
	case errors.Is(err, services.ErrInvalidValue):
		return http.StatusBadRequest, apierror.NewSimple(http.StatusBadRequest, "Valor inválido.")
	}

	for _, m := range gatewayErrors {
		if errors.Is(err, m.err) {
			return m.status, apierror.NewSimple(m.status, m.err.Error())
		}
	}

	return http.StatusInternalServerError, apierror.InternalServerError
}
