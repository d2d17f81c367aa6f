package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"srv_contratos/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator struct {
	users map[string]*models.User
}

func (f fakeAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if user, ok := f.users[token]; ok {
		return user, nil
	}
	return nil, errors.New("invalid token")
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	active := &models.User{ID: "u1", Username: "ana", IsActive: true}
	inactive := &models.User{ID: "u2", Username: "bruno", IsActive: false}
	auth := fakeAuthenticator{users: map[string]*models.User{"good": active, "disabled": inactive}}

	handler := RequireAuth(auth)(func(c echo.Context) error {
		user := GetCurrentUser(c)
		return c.String(http.StatusOK, user.Username)
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"ValidToken", "Bearer good", http.StatusOK, "ana"},
		{"LowercaseScheme", "bearer good", http.StatusOK, "ana"},
		{"MissingHeader", "", http.StatusUnauthorized, ""},
		{"WrongScheme", "Basic good", http.StatusUnauthorized, ""},
		{"EmptyToken", "Bearer ", http.StatusUnauthorized, ""},
		{"InvalidToken", "Bearer bad", http.StatusUnauthorized, ""},
		{"InactiveUser", "Bearer disabled", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			assert.NoError(t, handler(c))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestGetCurrentUser_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, GetCurrentUser(c))
}
