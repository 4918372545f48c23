package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/msadour/user-space/internal/config"
	"github.com/msadour/user-space/internal/handlers"
	"github.com/msadour/user-space/internal/repositories"
	"github.com/msadour/user-space/internal/routes"
	"github.com/msadour/user-space/internal/services"
	"github.com/msadour/user-space/internal/utils"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("failed to reach database: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	emailVerifRepo := repositories.NewEmailVerificationRepository(db)
	smsVerifRepo := repositories.NewSMSVerificationRepository(db)

	// === Services ===
	jwtSecret := []byte(cfg.JWT.Secret)
	authService := services.NewAuthService(userRepo, jwtSecret, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Server.BaseURL,
	)

	otpService := services.NewOTPService(emailVerifRepo, userRepo, emailService, authService)
	userService := services.NewUserService(userRepo, otpService, authService)

	twilioClient := utils.NewTwilioClient(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Twilio.FromNumber,
		cfg.Twilio.DryRun,
	)
	smsService := services.NewSMSService(smsVerifRepo, userRepo, twilioClient)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, userService, otpService)
	userHandler := handlers.NewUserHandler(userService)
	smsHandler := handlers.NewSMSHandler(smsService, authService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	routes.SetupRoutes(router, authHandler, userHandler, smsHandler, jwtSecret, userRepo)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
