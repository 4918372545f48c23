package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/msadour/user-space/internal/models"
)

type SMSVerificationRepository struct {
	DB *sql.DB
}

func NewSMSVerificationRepository(db *sql.DB) *SMSVerificationRepository {
	return &SMSVerificationRepository{DB: db}
}

// Replace — a new send replaces the previous code and resets attempts.
func (r *SMSVerificationRepository) Replace(userID int, phone, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	const q = `
		INSERT INTO sms_verifications (user_id, phone, code_hash, sent_at, expires_at, attempts)
		VALUES ($1, $2, $3, $4, $5, 0)
		ON CONFLICT (user_id) DO UPDATE
		SET phone=EXCLUDED.phone, code_hash=EXCLUDED.code_hash,
		    sent_at=EXCLUDED.sent_at, expires_at=EXCLUDED.expires_at, attempts=0
		RETURNING id
	`
	var id int64
	if err := r.DB.QueryRow(q, userID, phone, codeHash, sentAt, expiresAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("sms_verification replace: %w", err)
	}
	return id, nil
}

func (r *SMSVerificationRepository) GetByUserID(userID int) (*models.SMSVerification, error) {
	const q = `
		SELECT id, user_id, phone, code_hash, sent_at, expires_at, attempts
		FROM sms_verifications
		WHERE user_id = $1
	`
	row := r.DB.QueryRow(q, userID)
	var v models.SMSVerification
	if err := row.Scan(&v.ID, &v.UserID, &v.Phone, &v.CodeHash, &v.SentAt, &v.ExpiresAt, &v.Attempts); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sms_verification get: %w", err)
	}
	return &v, nil
}

// IncrementAttempts — +1 attempt, returns the new count.
func (r *SMSVerificationRepository) IncrementAttempts(id int64) (int, error) {
	const q = `
		UPDATE sms_verifications
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("sms_verification increment attempts: %w", err)
	}
	return attempts, nil
}

// ExpireNow — kills the code immediately (used when attempts run out).
func (r *SMSVerificationRepository) ExpireNow(id int64) error {
	_, err := r.DB.Exec(`UPDATE sms_verifications SET expires_at = NOW() WHERE id=$1`, id)
	return err
}

// Consume — single-use: the row is deleted on success. Returns false if
// another request consumed it first.
func (r *SMSVerificationRepository) Consume(id int64) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM sms_verifications WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("sms_verification consume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
