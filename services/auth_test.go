package services

import (
	"testing"
	"time"

	"srv_contratos/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-length-000"

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, VerifyPassword(hash, password))
	assert.False(t, VerifyPassword(hash, "WrongPass"))
}

func TestTokenLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret, time.Hour, 24*time.Hour)
	user := createTestUser(t, db, "ana")

	// 1. Login
	pair, err := svc.Login(ctx, "ana", "SecretPass123!")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.NotNil(t, reloaded.LastLoginAt)

	// 2. Access token authenticates
	authenticated, err := svc.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	// 3. Refresh token is not an access token
	_, err = svc.Authenticate(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// 4. Refresh issues a new access token
	access, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, access)
	assert.NoError(t, err)

	// 5. Access token cannot refresh
	_, err = svc.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginFailures(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret, time.Hour, 24*time.Hour)
	user := createTestUser(t, db, "ana")

	_, err := svc.Login(ctx, "ana", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", "SecretPass123!")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Login(ctx, "ana", "SecretPass123!")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenExpiry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret, time.Minute, time.Hour)
	createTestUser(t, db, "ana")

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	pair, err := svc.Login(ctx, "ana", "SecretPass123!")
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = svc.Authenticate(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Refresh still valid
	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.NoError(t, err)
}

func TestAuthenticateRejectsForeignTokens(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret, time.Hour, time.Hour)
	user := createTestUser(t, db, "ana")

	other := NewAuthService(db, "another-secret-with-enough-length", time.Hour, time.Hour)
	pair, err := other.Login(ctx, "ana", "SecretPass123!")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// alg none
	claims := Claims{TokenType: TokenTypeAccess, RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, unsigned)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateRemovedUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret, time.Hour, time.Hour)
	user := createTestUser(t, db, "ana")

	pair, err := svc.Login(ctx, "ana", "SecretPass123!")
	require.NoError(t, err)

	require.NoError(t, db.Delete(user).Error)
	_, err = svc.Authenticate(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret, time.Hour, time.Hour)

	user, err := svc.CreateUser(ctx, " maria ", "maria@example.com", "SecretPass123!", true)
	require.NoError(t, err)
	assert.Equal(t, "maria", user.Username)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsActive)
	assert.True(t, VerifyPassword(user.Password, "SecretPass123!"))

	_, err = svc.CreateUser(ctx, "maria", "", "SecretPass123!", false)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.CreateUser(ctx, "", "", "short", false)
	require.Error(t, err)
	fe := err.(FieldErrors)
	assert.Contains(t, fe, "username")
	assert.Contains(t, fe, "password")
}
