package models

import "time"

// EmailVerification — one active record per user. Re-issuing replaces the
// row, so a superseded secret can never verify.
type EmailVerification struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Secret    string    `json:"-"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
}
