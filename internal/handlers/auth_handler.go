package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/msadour/user-space/internal/models"
	"github.com/msadour/user-space/internal/services"
)

// OTPFlow is the slice of the OTP service the HTTP layer needs.
type OTPFlow interface {
	Verify(secret, email string) (*models.User, error)
	Refresh(email, password string) error
}

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
	otpService  OTPFlow
}

func NewAuthHandler(authService services.AuthService, userService services.UserService, otpService OTPFlow) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, otpService: otpService}
}

// authFailureCode — /auth answers 404 for every gate failure, but the body
// still says which gate refused.
func authFailureCode(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "user_not_found"
	case errors.Is(err, services.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, services.ErrAccountNotVerified):
		return "account_not_verified"
	case errors.Is(err, services.ErrPasswordNotSupplied):
		return "password_not_supplied"
	}
	return "authentication_failed"
}

// @Summary      Authenticate with email and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /auth [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Authenticate(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		log.Printf("[auth][login] refused email=%q: %v", req.Email, err)
		c.JSON(http.StatusNotFound, gin.H{"error": authFailureCode(err)})
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		log.Printf("[auth][login] sign token failed user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Verify the emailed one-time secret
// @Tags         Auth
// @Produce      json
// @Param        secret  path  string  true  "Verification secret"
// @Param        email   path  string  true  "Account email"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /verify-otp/{secret}/{email} [get]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	secret := c.Param("secret")
	email := c.Param("email")

	user, err := h.otpService.Verify(secret, email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		case errors.Is(err, services.ErrVerificationInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification_invalid_or_expired"})
		default:
			log.Printf("[auth][verify-otp] error email=%q: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Re-issue the verification link
// @Tags         Auth
// @Accept       json
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /refresh-otp [post]
func (h *AuthHandler) RefreshOTP(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.otpService.Refresh(req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too_many_requests"})
		case errors.Is(err, services.ErrEmailSend):
			log.Printf("[auth][refresh-otp] email transport failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "email_send_failed"})
		default:
			// bad credentials and unknown users look the same from outside
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		}
		return
	}

	c.Status(http.StatusOK)
}

// @Summary      Supply a new password for the authenticated account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /supply-password [post]
func (h *AuthHandler) SupplyPassword(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token_invalid"})
		return
	}

	var req models.SupplyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.SupplyPassword(userID, req.Password, req.PasswordAgain); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "password_mismatch"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token_invalid"})
		default:
			log.Printf("[auth][supply-password] error user_id=%d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "password supplied"})
}
