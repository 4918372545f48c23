package models

type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	RoleID      int    `json:"role_id"`

	PasswordHash     string `json:"-"` // never leaves the server
	EmailVerified    bool   `json:"email_verified"`
	PasswordSupplied bool   `json:"password_supplied"`
	TokenVersion     int    `json:"-"` // bumped to revoke outstanding tokens
}

type RegistrationRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SupplyPasswordRequest struct {
	Password      string `json:"password" binding:"required,min=6"`
	PasswordAgain string `json:"password_again" binding:"required"`
}

type PhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type PhoneCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}
