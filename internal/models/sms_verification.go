package models

import "time"

// SMSVerification — at most one active code per user. We store only the
// bcrypt hash of the 6-digit code (CodeHash), a TTL and an attempt counter.
type SMSVerification struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Phone     string    `json:"phone"`
	CodeHash  string    `json:"-"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}
