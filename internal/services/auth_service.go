package services

import (
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/msadour/user-space/internal/middleware"
	"github.com/msadour/user-space/internal/models"
	"github.com/msadour/user-space/internal/repositories"
)

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) error

	// CheckCredentials verifies email+password only.
	CheckCredentials(email, password string) (*models.User, error)
	// Authenticate is the full gate: credentials, email verified,
	// password supplied. Every token-issuing flow goes through it.
	Authenticate(email, password string) (*models.User, error)

	IssueToken(user *models.User) (string, error)
}

type authService struct {
	users    repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users repositories.UserRepository, secret []byte, tokenTTL time.Duration) AuthService {
	return &authService{users: users, secret: secret, tokenTTL: tokenTTL}
}

// NormalizeEmail — emails are stored and looked up lowercased, so
// uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *authService) CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

func (s *authService) CheckCredentials(email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if err := s.CheckPassword(user.PasswordHash, strings.TrimSpace(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.CheckCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if !user.EmailVerified {
		return nil, ErrAccountNotVerified
	}
	if !user.PasswordSupplied {
		return nil, ErrPasswordNotSupplied
	}
	log.Printf("[auth][gate] success user_id=%d", user.ID)
	return user, nil
}

func (s *authService) IssueToken(user *models.User) (string, error) {
	claims := &middleware.Claims{
		UserID:       user.ID,
		RoleID:       user.RoleID,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
