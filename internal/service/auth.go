// Package service provides the authentication and sales business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the lifetime of an access token: one working shift.
const tokenTTL = 8 * time.Hour

// ErrInvalidCredentials is returned when the username or password is wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// GetByUsername fetches an active seller by login name.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService implements login, token handling and profile lookups.
type AuthService struct {
	repo   UserRepository
	secret []byte
}

// NewAuthService constructs an AuthService using the provided repository
// and HS256 signing secret.
func NewAuthService(repo UserRepository, secret string) *AuthService {
	return &AuthService{repo: repo, secret: []byte(secret)}
}

// Authenticate checks the username/password pair against the stored bcrypt
// hash. Unknown users and wrong passwords both map to ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CreateToken mints a signed bearer token with the username as subject.
func (s *AuthService) CreateToken(username string) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   username,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates the token's signature and expiry and returns the
// subject username. Any failure maps to ErrInvalidToken.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// GetUser fetches the full seller record for the given username.
func (s *AuthService) GetUser(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}
