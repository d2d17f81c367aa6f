package handlers

import (
	"net/http"

	"srv_contratos/apierror"
	"srv_contratos/services"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// ObtainToken exchanges credentials for an access/refresh pair
func (h *Handler) ObtainToken(c echo.Context) error {
	var req tokenRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	problems := services.FieldErrors{}
	if req.Username == "" {
		problems.Add("username", "Este campo é obrigatório.")
	}
	if req.Password == "" {
		problems.Add("password", "Este campo é obrigatório.")
	}
	if err := problems.OrNil(); err != nil {
		return err
	}

	pair, err := h.Auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, apierror.CredentialsError)
		}
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

// RefreshToken issues a new access token from a refresh token
func (h *Handler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Refresh == "" {
		return services.FieldErrors{"refresh": {"Este campo é obrigatório."}}
	}

	access, err := h.Auth.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"access": access})
}

// Me returns the authenticated user
func (h *Handler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}
