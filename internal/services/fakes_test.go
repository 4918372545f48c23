package services

import (
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/msadour/user-space/internal/models"
	"github.com/msadour/user-space/internal/utils"
)

type fakeUserRepo struct {
	seq   int
	users map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.seq++
	user.ID = r.seq
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByPhone(phone string) (*models.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(limit, offset int) ([]*models.User, error) {
	ids := make([]int, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var res []*models.User
	for i, id := range ids {
		if i < offset || len(res) >= limit {
			continue
		}
		cp := *r.users[id]
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeUserRepo) Delete(id int) error {
	if _, ok := r.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(userID int) error {
	if u, ok := r.users[userID]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	if u, ok := r.users[userID]; ok {
		u.PasswordHash = passwordHash
		u.PasswordSupplied = true
		u.TokenVersion++
	}
	return nil
}

type fakeEmailVerifStore struct {
	seq  int64
	rows map[int]*models.EmailVerification // keyed by user id
}

func newFakeEmailVerifStore() *fakeEmailVerifStore {
	return &fakeEmailVerifStore{rows: map[int]*models.EmailVerification{}}
}

func (s *fakeEmailVerifStore) Replace(userID int, secret string, sentAt, expiresAt time.Time) (int64, error) {
	s.seq++
	s.rows[userID] = &models.EmailVerification{
		ID:        s.seq,
		UserID:    userID,
		Secret:    secret,
		SentAt:    sentAt,
		ExpiresAt: expiresAt,
	}
	return s.seq, nil
}

func (s *fakeEmailVerifStore) GetByUserID(userID int) (*models.EmailVerification, error) {
	v, ok := s.rows[userID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *fakeEmailVerifStore) Consume(id int64, secret string, now time.Time) (bool, error) {
	for _, v := range s.rows {
		if v.ID != id {
			continue
		}
		if v.Consumed || v.Secret != secret || !v.ExpiresAt.After(now) {
			return false, nil
		}
		v.Consumed = true
		return true, nil
	}
	return false, nil
}

type fakeSMSVerifStore struct {
	seq  int64
	rows map[int]*models.SMSVerification // keyed by user id
}

func newFakeSMSVerifStore() *fakeSMSVerifStore {
	return &fakeSMSVerifStore{rows: map[int]*models.SMSVerification{}}
}

func (s *fakeSMSVerifStore) Replace(userID int, phone, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	s.seq++
	s.rows[userID] = &models.SMSVerification{
		ID:        s.seq,
		UserID:    userID,
		Phone:     phone,
		CodeHash:  codeHash,
		SentAt:    sentAt,
		ExpiresAt: expiresAt,
	}
	return s.seq, nil
}

func (s *fakeSMSVerifStore) GetByUserID(userID int) (*models.SMSVerification, error) {
	v, ok := s.rows[userID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *fakeSMSVerifStore) IncrementAttempts(id int64) (int, error) {
	for _, v := range s.rows {
		if v.ID == id {
			v.Attempts++
			return v.Attempts, nil
		}
	}
	return 0, sql.ErrNoRows
}

func (s *fakeSMSVerifStore) ExpireNow(id int64) error {
	for _, v := range s.rows {
		if v.ID == id {
			v.ExpiresAt = time.Unix(0, 0)
		}
	}
	return nil
}

func (s *fakeSMSVerifStore) Consume(id int64) (bool, error) {
	for userID, v := range s.rows {
		if v.ID == id {
			delete(s.rows, userID)
			return true, nil
		}
	}
	return false, nil
}

// fakeMailer records every verification mail instead of dialing SMTP.
type fakeMailer struct {
	fail    bool
	secrets map[string]string // email -> last secret
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{secrets: map[string]string{}}
}

func (m *fakeMailer) SendVerificationEmail(email, secret string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.secrets[email] = secret
	return nil
}

type fakeSMSSender struct {
	fail   bool
	bodies []string
}

func (c *fakeSMSSender) SendSMS(to, body string) (*utils.SendMessageResponse, error) {
	if c.fail {
		return nil, errors.New("twilio unreachable")
	}
	c.bodies = append(c.bodies, body)
	return &utils.SendMessageResponse{Status: "queued"}, nil
}
