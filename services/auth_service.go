package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/dslans/bot-aitools/config"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues tokens for the admin JSON API. There is a single shared
// admin credential, verified against a bcrypt hash from the environment.
type AuthService interface {
	Login(password string) (string, error)
}

type authService struct {
	passwordHash string
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{passwordHash: cfg.AdminAPIPasswordHash}
}

func (s *authService) Login(password string) (string, error) {
	if s.passwordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(config.JWTExpiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}
