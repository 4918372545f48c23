package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/msadour/user-space/internal/models"
	"github.com/msadour/user-space/internal/services"
)

// SMSFlow is the slice of the SMS service the HTTP layer needs.
type SMSFlow interface {
	SendCode(phone string) error
	CheckCode(phone, code string) (*models.User, error)
}

type SMSHandler struct {
	smsService  SMSFlow
	authService services.AuthService
}

func NewSMSHandler(smsService SMSFlow, authService services.AuthService) *SMSHandler {
	return &SMSHandler{smsService: smsService, authService: authService}
}

// @Summary      Send a verification code to a known phone number
// @Tags         SMS
// @Accept       json
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /send-sms [post]
func (h *SMSHandler) SendSMS(c *gin.Context) {
	var req models.PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.smsService.SendCode(req.Phone); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		case errors.Is(err, services.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too_many_requests"})
		case errors.Is(err, services.ErrSMSSend):
			log.Printf("[sms][send] transport failed phone=%s: %v", req.Phone, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "sms_send_failed"})
		default:
			log.Printf("[sms][send] error phone=%s: %v", req.Phone, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send sms"})
		}
		return
	}

	c.Status(http.StatusOK)
}

// @Summary      Authenticate with a code received by SMS
// @Tags         SMS
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /auth-sms [post]
func (h *SMSHandler) AuthSMS(c *gin.Context) {
	var req models.PhoneCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.smsService.CheckCode(req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		case errors.Is(err, services.ErrCodeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "code_expired"})
		case errors.Is(err, services.ErrTooManyAttempts):
			c.JSON(http.StatusBadRequest, gin.H{"error": "too_many_attempts"})
		case errors.Is(err, services.ErrCodeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "code_invalid"})
		default:
			log.Printf("[sms][auth] error phone=%s: %v", req.Phone, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
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
