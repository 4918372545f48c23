package services

import "errors"

// Request-scoped failures. Handlers map each one to a status and a
// machine-readable error code; none of them is retried server-side.
var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrNotFound            = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotVerified  = errors.New("account not verified")
	ErrPasswordNotSupplied = errors.New("password not supplied")
	ErrPasswordMismatch    = errors.New("passwords do not match")

	ErrVerificationInvalid = errors.New("verification expired or invalid")
	ErrResendThrottled     = errors.New("resend throttled")
	ErrTooManyAttempts     = errors.New("too many attempts")
	ErrCodeExpired         = errors.New("code expired")
	ErrCodeInvalid         = errors.New("code invalid")

	ErrEmailSend = errors.New("email send failed")
	ErrSMSSend   = errors.New("sms send failed")
)
