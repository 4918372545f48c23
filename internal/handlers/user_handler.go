package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/msadour/user-space/internal/models"
	"github.com/msadour/user-space/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary      Register a new account
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        registration  body  models.RegistrationRequest  true  "Account data"
// @Success      201  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Router       /registration [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Register(req.Email, req.Password, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_registered"})
		case errors.Is(err, services.ErrEmailSend):
			log.Printf("[user][register] email transport failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "email_send_failed"})
		default:
			log.Printf("[user][register] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary      Delete the authenticated account
// @Tags         Users
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /delete_account [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token_invalid"})
		return
	}

	if err := h.userService.DeleteAccount(userID); err != nil {
		log.Printf("[user][delete] error user_id=%d: %v", userID, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user cannot be deleted"})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Profile of the authenticated account
// @Tags         Users
// @Produce      json
// @Success      200  {object}  models.User
// @Router       /access_profile [get]
func (h *UserHandler) AccessProfile(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	user, err := h.userService.Profile(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		return
	}

	// PasswordHash and TokenVersion carry json:"-", nothing sensitive leaves
	c.JSON(http.StatusOK, user)
}

// @Summary      List all profiles (admin)
// @Tags         Users
// @Produce      json
// @Success      200  {array}  models.User
// @Router       /all_profile [get]
func (h *UserHandler) AllProfiles(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.userService.ListProfiles(limit, offset)
	if err != nil {
		log.Printf("[user][list] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	c.JSON(http.StatusOK, users)
}
