package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"srv_contratos/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("auth")

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Claims are the JWT claims issued by the token endpoints
type Claims struct {
	TokenType string `json:"token_type"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService issues and verifies bearer tokens
type AuthService struct {
	db              *gorm.DB
	secret          []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	now             func() time.Time
}

// NewAuthService creates a new auth service instance
func NewAuthService(db *gorm.DB, secret string, accessLifetime, refreshLifetime time.Duration) *AuthService {
	return &AuthService{
		db:              db,
		secret:          []byte(secret),
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
		now:             time.Now,
	}
}

// Login checks credentials and returns a fresh access/refresh pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[AUTH] Login failed for unknown user %q", username)
			return nil, ErrUnauthorized
		}
		return nil, errors.Wrap(err, "failed to load user")
	}

	if !user.IsActive || !VerifyPassword(user.Password, password) {
		log.Warnf("[AUTH] Login failed for user %q", username)
		return nil, ErrUnauthorized
	}

	access, err := s.issue(&user, TokenTypeAccess, s.accessLifetime)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(&user, TokenTypeRefresh, s.refreshLifetime)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", &now).Error; err != nil {
		log.Warnf("[AUTH] Failed to record last login for %s: %v", user.ID, err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.verify(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return s.issue(user, TokenTypeAccess, s.accessLifetime)
}

// Authenticate resolves an access token to its active user
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Authenticate")
	defer span.End()

	return s.verify(ctx, accessToken, TokenTypeAccess)
}

// CreateUser stores a new user with a hashed password
func (s *AuthService) CreateUser(ctx context.Context, username, email, password string, staff bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	problems := FieldErrors{}
	if username == "" {
		problems.Add("username", "Este campo é obrigatório.")
	}
	for _, problem := range PasswordProblems(password) {
		problems.Add("password", problem)
	}
	if len(problems) > 0 {
		return nil, problems
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "failed to check username")
	}
	if count > 0 {
		return nil, newFieldError("username", "Já existe um usuário com este nome.")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Password: hash,
		IsActive: true,
		IsStaff:  staff,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User, tokenType string, lifetime time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		TokenType: tokenType,
		Username:  user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (s *AuthService) verify(ctx context.Context, tokenString, tokenType string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, errors.Wrap(ErrUnauthorized, "invalid or expired token")
	}
	if claims.TokenType != tokenType {
		return nil, errors.Wrap(ErrUnauthorized, "wrong token type")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", claims.Subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrUnauthorized, "user not found")
		}
		return nil, errors.Wrap(err, "failed to load user")
	}
	if !user.IsActive {
		return nil, errors.Wrap(ErrUnauthorized, "user is inactive")
	}
	return &user, nil
}
