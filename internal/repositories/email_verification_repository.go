package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/msadour/user-space/internal/models"
)

type EmailVerificationRepository struct {
	DB *sql.DB
}

func NewEmailVerificationRepository(db *sql.DB) *EmailVerificationRepository {
	return &EmailVerificationRepository{DB: db}
}

// Replace — upserts the single verification row for the user. A refresh
// overwrites the old secret, so a superseded link can never verify.
func (r *EmailVerificationRepository) Replace(userID int, secret string, sentAt, expiresAt time.Time) (int64, error) {
	const q = `
		INSERT INTO email_verifications (user_id, secret, sent_at, expires_at, consumed)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (user_id) DO UPDATE
		SET secret=EXCLUDED.secret, sent_at=EXCLUDED.sent_at,
		    expires_at=EXCLUDED.expires_at, consumed=FALSE
		RETURNING id
	`
	var id int64
	if err := r.DB.QueryRow(q, userID, secret, sentAt, expiresAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("email_verification replace: %w", err)
	}
	return id, nil
}

func (r *EmailVerificationRepository) GetByUserID(userID int) (*models.EmailVerification, error) {
	const q = `
		SELECT id, user_id, secret, sent_at, expires_at, consumed
		FROM email_verifications
		WHERE user_id = $1
	`
	row := r.DB.QueryRow(q, userID)
	var v models.EmailVerification
	if err := row.Scan(&v.ID, &v.UserID, &v.Secret, &v.SentAt, &v.ExpiresAt, &v.Consumed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("email_verification get: %w", err)
	}
	return &v, nil
}

// Consume — marks the row consumed only if it is still live. The conditions
// live inside the UPDATE so two concurrent attempts can never both succeed.
func (r *EmailVerificationRepository) Consume(id int64, secret string, now time.Time) (bool, error) {
	const q = `
		UPDATE email_verifications
		SET consumed=TRUE
		WHERE id=$1 AND secret=$2 AND consumed=FALSE AND expires_at > $3
	`
	res, err := r.DB.Exec(q, id, secret, now)
	if err != nil {
		return false, fmt.Errorf("email_verification consume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
