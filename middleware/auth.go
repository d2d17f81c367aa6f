package middleware

import (
	"context"
	"net/http"
	"strings"

	"srv_contratos/apierror"
	"srv_contratos/models"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("auth")

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
)

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth is middleware that requires a valid "Authorization: Bearer <access>" header
func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireAuth")
			defer span.End()

			token, ok := bearerToken(c.Request())
			if !ok {
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			user, err := auth.Authenticate(ctx, token)
			if err != nil || user == nil || !user.IsActive {
				if err != nil {
					span.RecordError(err)
				}
				return c.JSON(http.StatusUnauthorized, apierror.InvalidTokenError)
			}
			span.SetAttributes(attribute.String("UserId", user.ID))

			c.Set(ContextKeyUser, user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
