package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/msadour/user-space/internal/authz"
	"github.com/msadour/user-space/internal/handlers"
	"github.com/msadour/user-space/internal/middleware"
	"github.com/msadour/user-space/internal/repositories"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	smsHandler *handlers.SMSHandler,
	jwtSecret []byte,
	userRepo repositories.UserRepository,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public
	r.POST("/registration", userHandler.Register)
	r.POST("/auth", authHandler.Login)
	r.GET("/verify-otp/:secret/:email", authHandler.VerifyOTP)
	r.POST("/refresh-otp", authHandler.RefreshOTP)
	r.POST("/send-sms", smsHandler.SendSMS)
	r.POST("/auth-sms", smsHandler.AuthSMS)

	// ---- protected (Bearer token)
	protected := r.Group("", middleware.AuthMiddleware(jwtSecret, userRepo))
	{
		protected.POST("/supply-password", authHandler.SupplyPassword)
		protected.DELETE("/delete_account", userHandler.DeleteAccount)
		protected.GET("/access_profile", userHandler.AccessProfile)
	}

	// ---- admin
	admin := protected.Group("", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.GET("/all_profile", userHandler.AllProfiles)
	}

	return r
}
