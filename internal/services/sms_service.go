package services

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/msadour/user-space/internal/models"
	"github.com/msadour/user-space/internal/repositories"
	"github.com/msadour/user-space/internal/utils"
)

const (
	smsCodeTTL         = 10 * time.Minute
	maxConfirmAttempts = 5
	smsResendCooldown  = 1 * time.Minute
)

type smsVerificationStore interface {
	Replace(userID int, phone, codeHash string, sentAt, expiresAt time.Time) (int64, error)
	GetByUserID(userID int) (*models.SMSVerification, error)
	IncrementAttempts(id int64) (int, error)
	ExpireNow(id int64) error
	Consume(id int64) (bool, error)
}

type smsSender interface {
	SendSMS(to, body string) (*utils.SendMessageResponse, error)
}

// SMSService — phone-possession authentication: 6-digit code, bcrypt-hashed
// at rest, 10-minute TTL, 5 attempts, single-use.
type SMSService struct {
	verifs smsVerificationStore
	users  repositories.UserRepository
	client smsSender

	now func() time.Time
}

func NewSMSService(verifs *repositories.SMSVerificationRepository, users repositories.UserRepository, client *utils.TwilioClient) *SMSService {
	return &SMSService{
		verifs: verifs,
		users:  users,
		client: client,
		now:    time.Now,
	}
}

func (s *SMSService) generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate sms code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendCode — every send replaces the previous code and resets attempts.
func (s *SMSService) SendCode(phone string) error {
	user, err := s.users.GetByPhone(phone)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	existing, err := s.verifs.GetByUserID(user.ID)
	if err != nil {
		return err
	}
	if existing != nil && s.now().Before(existing.SentAt.Add(smsResendCooldown)) {
		return ErrResendThrottled
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	codeHashBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt generate: %w", err)
	}

	sentAt := s.now()
	if _, err := s.verifs.Replace(user.ID, phone, string(codeHashBytes), sentAt, sentAt.Add(smsCodeTTL)); err != nil {
		return err
	}

	if _, err := s.client.SendSMS(phone, "Your code authentication is "+code); err != nil {
		return fmt.Errorf("%w: %v", ErrSMSSend, err)
	}

	log.Printf("[sms][send] user_id=%d phone=%s", user.ID, phone)
	return nil
}

// CheckCode — a wrong code below the attempt cap stays retryable; at the cap
// the code is expired and must be re-sent. Success deletes the record.
func (s *SMSService) CheckCode(phone, code string) (*models.User, error) {
	user, err := s.users.GetByPhone(phone)
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
		return nil, ErrCodeInvalid
	}
	if s.now().After(v.ExpiresAt) {
		return nil, ErrCodeExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)); err != nil {
		attempts, incErr := s.verifs.IncrementAttempts(v.ID)
		if incErr != nil {
			return nil, incErr
		}
		if attempts >= maxConfirmAttempts {
			_ = s.verifs.ExpireNow(v.ID)
			return nil, ErrTooManyAttempts
		}
		return nil, ErrCodeInvalid
	}

	// single-use: the delete is the consume, so a concurrent check loses
	ok, err := s.verifs.Consume(v.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCodeInvalid
	}

	log.Printf("[sms][confirm] OK user_id=%d", user.ID)
	return user, nil
}
