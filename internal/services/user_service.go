package services

import (
	"log"
	"strings"

	"github.com/msadour/user-space/internal/authz"
	"github.com/msadour/user-space/internal/models"
	"github.com/msadour/user-space/internal/repositories"
)

type UserService interface {
	Register(email, password, phone string) (*models.User, error)
	Profile(userID int) (*models.User, error)
	ListProfiles(limit, offset int) ([]*models.User, error)
	SupplyPassword(userID int, password, passwordAgain string) error
	DeleteAccount(userID int) error
}

type userService struct {
	users repositories.UserRepository
	otp   *OTPService
	auth  AuthService
}

func NewUserService(users repositories.UserRepository, otp *OTPService, auth AuthService) UserService {
	return &userService{users: users, otp: otp, auth: auth}
}

// Register — creates the account unverified and sends the verification link.
// If the mail cannot be sent the account is rolled back, so a failed signup
// never leaves a user that can neither verify nor re-register.
func (s *userService) Register(email, password, phone string) (*models.User, error) {
	email = NormalizeEmail(email)

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.auth.HashPassword(strings.TrimSpace(password))
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:            email,
		PasswordHash:     hash,
		PhoneNumber:      phone,
		EmailVerified:    false,
		PasswordSupplied: true, // the password is collected eagerly at signup
		RoleID:           authz.RoleUser,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	if err := s.otp.Issue(user); err != nil {
		if delErr := s.users.Delete(user.ID); delErr != nil {
			log.Printf("[user][register] rollback failed user_id=%d: %v", user.ID, delErr)
		}
		return nil, err
	}

	log.Printf("[user][register] created user_id=%d", user.ID)
	return user, nil
}

func (s *userService) Profile(userID int) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) ListProfiles(limit, offset int) ([]*models.User, error) {
	return s.users.List(limit, offset)
}

func (s *userService) SupplyPassword(userID int, password, passwordAgain string) error {
	if password != passwordAgain {
		return ErrPasswordMismatch
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	hash, err := s.auth.HashPassword(strings.TrimSpace(password))
	if err != nil {
		return err
	}
	// also bumps token_version: the change revokes outstanding sessions
	if err := s.users.UpdatePassword(user.ID, hash); err != nil {
		return err
	}

	log.Printf("[user][supply-password] user_id=%d", user.ID)
	return nil
}

func (s *userService) DeleteAccount(userID int) error {
	if err := s.users.Delete(userID); err != nil {
		return err
	}
	log.Printf("[user][delete] user_id=%d", userID)
	return nil
}
