// File: hotelpms/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelpms/config"
	"hotelpms/database"
	otpRepoPkg "hotelpms/database/repository/otp"
	userRepoPkg "hotelpms/database/repository/user"
	"hotelpms/handlers"
	"hotelpms/middleware"
	"hotelpms/models"
	"hotelpms/routes"
	"hotelpms/services/auth"
	"hotelpms/services/mailer"
	"hotelpms/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	otpRepo := otpRepoPkg.NewMongoOTPRepo()

	seedDefaultAdmin(userRepo)

	// services.
	authService := &auth.DefaultAuthService{
		Users:  userRepo,
		OTPs:   otpRepo,
		Mailer: mailer.NewSMTPMailer(),
		Cache:  auth.NewRedisChallengeCache(utils.GetAuthCacheClient()),
	}

	handlerBundle := &routes.HandlerBundle{
		AuthService:   authService,
		Fingerprinter: auth.NewFingerprinter(),
		AuthHandler:   handlers.NewAuthHandler(authService),
		DeviceHandler: handlers.NewDeviceAdminHandler(authService),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// seedDefaultAdmin creates the bootstrap SUPER_ADMIN account when the users
// collection is empty and credentials are configured.
func seedDefaultAdmin(repo userRepoPkg.UserRepository) {
	logger := utils.GetLogger()

	count, err := repo.Count()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to count users: %v", err)
	}
	if count > 0 {
		return
	}
	if config.AppConfig.AdminPassword == "" {
		logger.Sugar().Warn("main: users collection empty and no ADMIN_PASSWORD configured, skipping seed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.AppConfig.AdminPassword), 12)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to hash admin password: %v", err)
	}

	admin := &models.User{
		ID:           uuid.NewString(),
		Username:     config.AppConfig.AdminUsername,
		Email:        config.AppConfig.AdminEmail,
		PasswordHash: string(hash),
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
		SecuritySettings: models.SecuritySettings{
			MaxDevices:            models.DefaultMaxDevices,
			RequireDeviceApproval: true,
			NotifyOnNewDevice:     true,
		},
	}
	if err := repo.Create(admin); err != nil {
		logger.Sugar().Fatalf("main: failed to seed admin account: %v", err)
	}
	logger.Sugar().Infof("main: seeded default admin %q", admin.Username)
}
