package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/msadour/user-space/internal/models"
	"github.com/msadour/user-space/internal/repositories"
)

const (
	otpTTL            = 30 * time.Minute
	otpResendCooldown = 2 * time.Minute
)

type emailVerificationStore interface {
	Replace(userID int, secret string, sentAt, expiresAt time.Time) (int64, error)
	GetByUserID(userID int) (*models.EmailVerification, error)
	Consume(id int64, secret string, now time.Time) (bool, error)
}

// OTPService owns the email-link verification flow: a base32 secret with a
// 30-minute TTL, delivered by mail, consumable exactly once.
type OTPService struct {
	verifs emailVerificationStore
	users  repositories.UserRepository
	emails EmailService
	auth   AuthService

	now func() time.Time
}

func NewOTPService(verifs *repositories.EmailVerificationRepository, users repositories.UserRepository, emails EmailService, auth AuthService) *OTPService {
	return &OTPService{
		verifs: verifs,
		users:  users,
		emails: emails,
		auth:   auth,
		now:    time.Now,
	}
}

func (s *OTPService) generateSecret(email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "user-space",
		AccountName: email,
	})
	if err != nil {
		return "", fmt.Errorf("generate otp secret: %w", err)
	}
	return key.Secret(), nil
}

// Issue — (re)creates the verification record for the user and sends the
// link. Any previous secret is superseded.
func (s *OTPService) Issue(user *models.User) error {
	secret, err := s.generateSecret(user.Email)
	if err != nil {
		return err
	}

	sentAt := s.now()
	if _, err := s.verifs.Replace(user.ID, secret, sentAt, sentAt.Add(otpTTL)); err != nil {
		return err
	}

	if err := s.emails.SendVerificationEmail(user.Email, secret); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSend, err)
	}

	log.Printf("[otp][issue] user_id=%d expires_at=%s", user.ID, sentAt.Add(otpTTL).Format(time.RFC3339))
	return nil
}

// Refresh — new secret for a user whose link expired. Checks credentials but
// not the verified flag: an unverified user is exactly who needs a new link.
func (s *OTPService) Refresh(email, password string) error {
	user, err := s.auth.CheckCredentials(email, password)
	if err != nil {
		return err
	}
	if !user.PasswordSupplied {
		return ErrPasswordNotSupplied
	}

	existing, err := s.verifs.GetByUserID(user.ID)
	if err != nil {
		return err
	}
	if existing != nil && s.now().Before(existing.SentAt.Add(otpResendCooldown)) {
		return ErrResendThrottled
	}

	return s.Issue(user)
}

// Verify — consumes the secret exactly once. The consume is a conditional
// UPDATE, so a replay or a concurrent attempt always loses.
func (s *OTPService) Verify(secret, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	v, err := s.verifs.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}

	ok, err := s.verifs.Consume(v.ID, secret, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVerificationInvalid
	}

	if err := s.users.MarkEmailVerified(user.ID); err != nil {
		return nil, err
	}
	user.EmailVerified = true

	log.Printf("[otp][verify] OK user_id=%d", user.ID)
	return user, nil
}
